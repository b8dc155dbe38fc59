package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/session"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/utils"
)

type ShiftRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Role  string `json:"role" validate:"max=100"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Start string `json:"start" validate:"max=20"`
	End   string `json:"end" validate:"max=20"`
	Notes string `json:"notes" validate:"max=500"`
}

func (r ShiftRequest) draft() session.RequestDraft {
	return session.RequestDraft{
		Name:  r.Name,
		Role:  r.Role,
		Date:  r.Date,
		Start: r.Start,
		End:   r.End,
		Notes: r.Notes,
	}
}

func (c *Controller) translateValidation(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	return validationErrors[0].Translate(c.translator)
}

// SubmitRequest 提交一个新的班次申请。远端追加成功后立即写入本地缓存，不等待远端分配 ID；
// 失败时保留表单内容
func (c *Controller) SubmitRequest(ctx context.Context, sess *session.Session, req ShiftRequest) (domain.Shift, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Date = strings.TrimSpace(req.Date)

	if err := c.validate.Struct(req); err != nil {
		sess.Draft = req.draft()
		sess.RequestMessage = c.translateValidation(err)
		return domain.Shift{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if _, busy := c.submitting.LoadOrStore(sess.ID, struct{}{}); busy {
		return domain.Shift{}, ErrSubmissionInFlight
	}
	defer c.submitting.Delete(sess.ID)

	shift := domain.Shift{
		ID:     utils.GenerateClientID(),
		Name:   req.Name,
		Role:   req.Role,
		Date:   req.Date,
		Start:  req.Start,
		End:    req.End,
		Notes:  req.Notes,
		Status: domain.StatusPending,
	}

	if err := c.store.CreateRow(ctx, shift.Row()); err != nil {
		slog.Error("无法提交班次申请", "shiftID", shift.ID, "error", err)
		sess.Draft = req.draft()
		sess.RequestMessage = MessageSubmissionFailed
		sess.Status = StatusSubmissionFailed
		return domain.Shift{}, err
	}

	c.cache.Add(shift)
	sess.Draft = session.RequestDraft{}
	sess.RequestMessage = MessageRequested
	sess.Status = StatusSubmitted

	c.notify(ctx, domain.MailTypeShiftRequested, shift)

	return shift, nil
}
