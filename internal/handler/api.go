package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/session"
)

// GetShifts 返回缓存中的全部班次，可以通过 ?status= 过滤
func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	shifts := h.controller.Cache().Snapshot()

	status := r.URL.Query().Get("status")
	switch domain.Status(status) {
	case "":
	case domain.StatusPending, domain.StatusApproved:
		filtered := make([]domain.Shift, 0, len(shifts))
		for _, s := range shifts {
			if s.IsApproved() == (domain.Status(status) == domain.StatusApproved) {
				filtered = append(filtered, s)
			}
		}
		shifts = filtered
	default:
		h.errorResponse(w, r, "无效的状态")
		return
	}

	h.successResponse(w, r, "获取班次成功", shifts)
}

func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	kind, ok := calendar.ParseKind(chi.URLParam(r, "cal"))
	if !ok {
		h.errorResponse(w, r, "日历不存在")
		return
	}

	sess := sessionFromRequest(r)
	h.successResponse(w, r, "获取日历成功", h.controller.Grid(sess, kind))
}

type sessionView struct {
	ActiveTab      calendar.Kind         `json:"activeTab"`
	Offsets        map[calendar.Kind]int `json:"offsets"`
	IsAdmin        bool                  `json:"isAdmin"`
	Status         string                `json:"status"`
	RequestMessage string                `json:"requestMessage"`
	Draft          session.RequestDraft  `json:"draft"`
	AdminModalOpen bool                  `json:"adminModalOpen"`
	AdminMessage   string                `json:"adminMessage"`
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	now := h.controller.Now()

	h.successResponse(w, r, "获取会话成功", sessionView{
		ActiveTab:      sess.ActiveTab,
		Offsets:        sess.Offsets,
		IsAdmin:        sess.IsAdmin,
		Status:         sess.Status,
		RequestMessage: sess.RequestMessage,
		Draft:          sess.Draft,
		AdminModalOpen: sess.AdminModal.Visible(now),
		AdminMessage:   sess.AdminModal.Message,
	})
}
