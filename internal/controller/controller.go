// Package controller 编排日历页面上的所有用户操作。所有视图状态都通过 *session.Session 显式传入，
// 班次数据统一由 cache.Cache 维护
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/cache"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// 状态栏和表单中显示给用户的消息
const (
	StatusLoaded           = "Loaded"
	StatusLoadFailed       = "Failed to load shifts"
	StatusSubmitted        = "Submitted"
	StatusSubmissionFailed = "Submission failed"
	StatusApproved         = "Approved"
	StatusApprovalFailed   = "Approval failed"

	MessageRequested        = "Shift requested!"
	MessageSubmissionFailed = "Submission failed."
	MessageAdminLoggedIn    = "Logged in as admin"
	MessageInvalidPIN       = "Invalid PIN"
)

var (
	ErrNotAdmin           = errors.New("not logged in as admin")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrInvalidRequest     = errors.New("invalid shift request")
)

// Notifier 发布班次通知，失败不影响操作结果
type Notifier interface {
	Notify(ctx context.Context, msg domain.MailMessage) error
}

type Controller struct {
	store      cache.Store
	cache      *cache.Cache
	pinHash    []byte
	notifier   Notifier
	notifyTo   string
	validate   *validator.Validate
	translator ut.Translator
	now        func() time.Time

	// 正在提交申请的会话，相当于提交期间禁用提交按钮
	submitting sync.Map

	mu         sync.RWMutex
	loadStatus string
}

type Option func(*Controller)

func WithNotifier(n Notifier, to string) Option {
	return func(c *Controller) {
		c.notifier = n
		c.notifyTo = to
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New 创建 controller，adminPIN 在这里哈希后只保留哈希值
func New(store cache.Store, shifts *cache.Cache, adminPIN string, opts ...Option) (*Controller, error) {
	pinHash, err := bcrypt.GenerateFromPassword([]byte(adminPIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	c := &Controller{
		store:      store,
		cache:      shifts,
		pinHash:    pinHash,
		validate:   validate,
		translator: trans,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Controller) Cache() *cache.Cache {
	return c.cache
}

func (c *Controller) Now() time.Time {
	return c.now()
}

// Grids 按会话中的月份偏移渲染三个日历
func (c *Controller) Grids(sess *session.Session) []calendar.Grid {
	return calendar.RenderAll(c.cache, sess.Offsets, sess.IsAdmin, c.now())
}

// Grid 渲染单个日历
func (c *Controller) Grid(sess *session.Session, kind calendar.Kind) calendar.Grid {
	for _, v := range calendar.Views(sess.Offsets, sess.IsAdmin) {
		if v.Kind == kind {
			return calendar.Render(c.cache, v, c.now())
		}
	}
	return calendar.Grid{}
}

// SwitchTab 切换当前标签页，未知标签页不做任何修改
func (c *Controller) SwitchTab(sess *session.Session, tab string) bool {
	kind, ok := calendar.ParseKind(tab)
	if !ok {
		return false
	}
	sess.ActiveTab = kind
	return true
}

// Navigate 将指定日历前后翻一个月，其他日历不受影响
func (c *Controller) Navigate(sess *session.Session, cal string, direction string) bool {
	kind, ok := calendar.ParseKind(cal)
	if !ok {
		return false
	}
	if sess.Offsets == nil {
		sess.Offsets = map[calendar.Kind]int{}
	}

	switch direction {
	case "next":
		sess.Offsets[kind]++
	case "prev":
		sess.Offsets[kind]--
	default:
		return false
	}
	return true
}

// Load 从远端加载全部班次，失败时缓存保持不变。结果会作为新会话的初始状态
func (c *Controller) Load(ctx context.Context) error {
	err := c.cache.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		slog.Error("无法加载班次", "error", err)
		c.loadStatus = StatusLoadFailed
		return err
	}
	c.loadStatus = StatusLoaded
	return nil
}

// LoadStatus 返回最近一次加载的结果，尚未加载时为空
func (c *Controller) LoadStatus() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadStatus
}

// Reload 重新加载班次并把结果显示在会话的状态栏中
func (c *Controller) Reload(ctx context.Context, sess *session.Session) error {
	if err := c.Load(ctx); err != nil {
		sess.Status = StatusLoadFailed
		return err
	}
	sess.Status = StatusLoaded
	return nil
}

func (c *Controller) notify(ctx context.Context, mailType string, s domain.Shift) {
	if c.notifier == nil || c.notifyTo == "" {
		return
	}

	msg := domain.MailMessage{
		Type: mailType,
		To:   c.notifyTo,
		Data: domain.NewShiftMailData(s),
	}
	if err := c.notifier.Notify(ctx, msg); err != nil {
		slog.Warn("无法发布班次通知", "type", mailType, "shiftID", s.ID, "error", err)
	}
}
