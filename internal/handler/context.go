package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/session"
)

type ContextKey string

var SessionCtxKey ContextKey = "session"

func sessionFromRequest(r *http.Request) *session.Session {
	return r.Context().Value(SessionCtxKey).(*session.Session)
}
