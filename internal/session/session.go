// Package session 保存每个浏览器会话的视图状态：三个日历的月份偏移、当前标签页、
// 管理员标记以及状态栏等界面消息。会话只在有效期内存在，不会写入远端存储
package session

import (
	"context"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/calendar"
)

var ErrNotFound = errors.New("session not found")

// AdminModalCloseDelay 登录成功后管理员弹窗保持打开的时间
const AdminModalCloseDelay = 500 * time.Millisecond

// RequestDraft 保存提交失败时表单中已填写的内容
type RequestDraft struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Notes string `json:"notes"`
}

type AdminModal struct {
	Open    bool      `json:"open"`
	Message string    `json:"message"`
	CloseAt time.Time `json:"closeAt"`
}

// Visible 判断弹窗在 now 时刻是否仍应显示
func (m AdminModal) Visible(now time.Time) bool {
	if !m.Open {
		return false
	}
	return m.CloseAt.IsZero() || now.Before(m.CloseAt)
}

type Session struct {
	ID             string                `json:"id"`
	Offsets        map[calendar.Kind]int `json:"offsets"`
	ActiveTab      calendar.Kind         `json:"activeTab"`
	IsAdmin        bool                  `json:"isAdmin"`
	Status         string                `json:"status"`
	RequestMessage string                `json:"requestMessage"`
	Draft          RequestDraft          `json:"draft"`
	AdminModal     AdminModal            `json:"adminModal"`
}

func New(id string) *Session {
	s := &Session{ID: id}
	s.Reset()
	return s
}

// Reset 恢复默认状态，保留会话 ID
func (s *Session) Reset() {
	s.Offsets = map[calendar.Kind]int{
		calendar.KindRequest:  0,
		calendar.KindPending:  0,
		calendar.KindApproved: 0,
	}
	s.ActiveTab = calendar.KindRequest
	s.IsAdmin = false
	s.Status = ""
	s.RequestMessage = ""
	s.Draft = RequestDraft{}
	s.AdminModal = AdminModal{}
}

// Settle 在渲染前调用，关闭已经到期的管理员弹窗
func (s *Session) Settle(now time.Time) {
	if s.AdminModal.Open && !s.AdminModal.Visible(now) {
		s.AdminModal = AdminModal{}
	}
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
