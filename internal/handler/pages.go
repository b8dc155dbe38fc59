package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/controller"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/session"
)

type tab struct {
	Kind   calendar.Kind
	Label  string
	Active bool
}

var tabLabels = map[calendar.Kind]string{
	calendar.KindRequest:  "Request",
	calendar.KindPending:  "Pending",
	calendar.KindApproved: "Approved",
}

type pageData struct {
	Session      *session.Session
	Tabs         []tab
	Grids        []calendar.Grid
	ModalVisible bool
	// 登录成功后弹窗仍在延迟关闭期间，页面需要自动刷新一次
	ModalClosing bool
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	now := h.controller.Now()

	wasOpen := sess.AdminModal.Open
	sess.Settle(now)
	if wasOpen && !sess.AdminModal.Open {
		h.saveSession(r, sess)
	}

	data := pageData{
		Session:      sess,
		Grids:        h.controller.Grids(sess),
		ModalVisible: sess.AdminModal.Visible(now),
		ModalClosing: sess.AdminModal.Open && !sess.AdminModal.CloseAt.IsZero(),
	}
	for _, k := range calendar.Kinds {
		data.Tabs = append(data.Tabs, tab{Kind: k, Label: tabLabels[k], Active: sess.ActiveTab == k})
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) saveSession(r *http.Request, sess *session.Session) {
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		slog.Error("无法保存会话", "sessionID", sess.ID, "error", err)
	}
}

// redirectHome 保存会话后重定向回主页面，由主页面按新的状态重新渲染
func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	h.saveSession(r, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	h.controller.SwitchTab(sess, chi.URLParam(r, "tab"))
	h.redirectHome(w, r, sess)
}

func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	h.controller.Navigate(sess, chi.URLParam(r, "cal"), chi.URLParam(r, "dir"))
	h.redirectHome(w, r, sess)
}

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)

	if err := r.ParseForm(); err != nil {
		sess.RequestMessage = controller.MessageSubmissionFailed
		h.redirectHome(w, r, sess)
		return
	}

	req := controller.ShiftRequest{
		Name:  r.PostFormValue("name"),
		Role:  r.PostFormValue("role"),
		Date:  r.PostFormValue("date"),
		Start: r.PostFormValue("start"),
		End:   r.PostFormValue("end"),
		Notes: r.PostFormValue("notes"),
	}

	if _, err := h.controller.SubmitRequest(r.Context(), sess, req); err != nil {
		if errors.Is(err, controller.ErrSubmissionInFlight) {
			// 上一次提交还没有结束，直接忽略本次提交，不保存会话以免覆盖正在进行的提交结果
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		slog.Debug("班次申请未提交", "sessionID", sess.ID, "error", err)
	}

	h.redirectHome(w, r, sess)
}

func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	_ = h.controller.Reload(r.Context(), sess)
	h.redirectHome(w, r, sess)
}

func (h *Handler) OpenAdminModal(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	h.controller.OpenAdminModal(sess)
	h.redirectHome(w, r, sess)
}

func (h *Handler) CloseAdminModal(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	h.controller.CloseAdminModal(sess)
	h.redirectHome(w, r, sess)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	if err := r.ParseForm(); err != nil {
		sess.AdminModal = session.AdminModal{Open: true, Message: controller.MessageInvalidPIN}
		h.redirectHome(w, r, sess)
		return
	}

	if h.controller.Login(sess, r.PostFormValue("pin")) {
		slog.Info("管理员已登录", "sessionID", sess.ID)
	}
	h.redirectHome(w, r, sess)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	h.controller.Logout(sess)
	h.redirectHome(w, r, sess)
}

// shiftIDFromPath 从转义后的路径 /shifts/{id}/approve 中取出 ID 并只解码一次。
// chi 的路由参数在 RawPath 为空时已经解码过，ID 中含有 % 时无法区分
func shiftIDFromPath(escaped string) (string, bool) {
	rest, ok := strings.CutPrefix(escaped, "/shifts/")
	if !ok {
		return "", false
	}
	raw, ok := strings.CutSuffix(rest, "/approve")
	if !ok || raw == "" {
		return "", false
	}

	id, err := url.PathUnescape(raw)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)

	id, ok := shiftIDFromPath(r.URL.EscapedPath())
	if !ok {
		h.redirectHome(w, r, sess)
		return
	}

	if err := h.controller.Approve(r.Context(), sess, id); err != nil {
		slog.Debug("班次未审批", "sessionID", sess.ID, "shiftID", id, "error", err)
	}
	h.redirectHome(w, r, sess)
}
