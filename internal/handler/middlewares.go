package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/session"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/utils"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) sessionExpiration() time.Duration {
	return time.Duration(h.config.Session.Expiration) * time.Second
}

// loadSession 根据 cookie 中的令牌取出会话。令牌无效或会话已过期时返回 nil，由调用方新建会话
func (h *Handler) loadSession(r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(h.config.Session.CookieName)
	if err != nil {
		return nil, nil
	}

	id, err := session.ParseToken(h.config.Session.Secret, cookie.Value)
	if err != nil {
		slog.Debug("无效的会话令牌", "error", err)
		return nil, nil
	}

	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sess, nil
}

func (h *Handler) newSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	id, err := utils.GenerateSessionID()
	if err != nil {
		return nil, err
	}

	sess := session.New(id)
	sess.Status = h.controller.LoadStatus()
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		return nil, err
	}

	now := time.Now()
	token, err := session.IssueToken(h.config.Session.Secret, id, h.sessionExpiration(), now)
	if err != nil {
		return nil, err
	}

	cookie := &http.Cookie{
		Name:     h.config.Session.CookieName,
		Value:    token,
		Expires:  now.Add(h.sessionExpiration()),
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
	}

	http.SetCookie(w, cookie)
	return sess, nil
}

// session 为每个请求附上当前浏览器的会话，没有有效会话时新建一个并下发 cookie
func (h *Handler) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.loadSession(r)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		if sess == nil {
			sess, err = h.newSession(w, r)
			if err != nil {
				h.internalServerError(w, r, err)
				return
			}
		}

		ctx := context.WithValue(r.Context(), SessionCtxKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
