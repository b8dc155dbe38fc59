package controller

import (
	"context"
	"log/slog"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/session"
	"golang.org/x/crypto/bcrypt"
)

func (c *Controller) OpenAdminModal(sess *session.Session) {
	sess.AdminModal = session.AdminModal{Open: true}
}

func (c *Controller) CloseAdminModal(sess *session.Session) {
	sess.AdminModal = session.AdminModal{}
}

// Login 比较共享 PIN。这只是控制界面上是否显示审批操作，PIN 和管理员标记对客户端都不构成安全边界
func (c *Controller) Login(sess *session.Session, pin string) bool {
	if err := bcrypt.CompareHashAndPassword(c.pinHash, []byte(pin)); err != nil {
		sess.AdminModal = session.AdminModal{Open: true, Message: MessageInvalidPIN}
		return false
	}

	sess.IsAdmin = true
	sess.AdminModal = session.AdminModal{
		Open:    true,
		Message: MessageAdminLoggedIn,
		CloseAt: c.now().Add(session.AdminModalCloseDelay),
	}
	return true
}

func (c *Controller) Logout(sess *session.Session) {
	sess.Reset()
}

// Approve 将远端中 ID 匹配的行标记为已审批，成功后同步到本地缓存。
// 失败时不重试，班次保持待审批。连续点击可能发出重复的 PATCH 请求
func (c *Controller) Approve(ctx context.Context, sess *session.Session, id string) error {
	if !sess.IsAdmin {
		return ErrNotAdmin
	}

	patch := domain.RawRow{"status": string(domain.StatusApproved)}
	if err := c.store.UpdateRows(ctx, map[string]string{"id": id}, patch); err != nil {
		slog.Error("无法审批班次", "shiftID", id, "error", err)
		sess.Status = StatusApprovalFailed
		return err
	}

	if !c.cache.ApproveLocally(id) {
		slog.Warn("已审批的班次不在本地缓存中", "shiftID", id)
	}
	sess.Status = StatusApproved

	if shift, ok := c.cache.Get(id); ok {
		c.notify(ctx, domain.MailTypeShiftApproved, shift)
	}

	return nil
}
