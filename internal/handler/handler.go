package handler

import (
	"embed"
	"html/template"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/controller"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	config     *config.Config
	controller *controller.Controller
	sessions   session.Store
	page       *template.Template

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, ctrl *controller.Controller, sessions session.Store) (*Handler, error) {
	page, err := template.New("index.html").Funcs(template.FuncMap{
		"pathEscape": url.PathEscape,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		config:     cfg,
		controller: ctrl,
		sessions:   sessions,
		page:       page,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 导出和班次列表不依赖会话
	h.Mux.Get("/api/shifts", h.GetShifts)
	h.Mux.Route("/export", func(r chi.Router) {
		r.Get("/shifts.xlsx", h.ExportXLSX)
		r.Get("/approved.ics", h.ExportICS)
	})

	h.Mux.Group(func(r chi.Router) {
		r.Use(h.session)

		r.Get("/", h.Index)

		// 以下操作完成后都重定向回主页面重新渲染
		r.Post("/tabs/{tab}", h.SwitchTab)
		r.Post("/calendars/{cal}/{dir}", h.Navigate)
		r.Post("/requests", h.SubmitRequest)
		r.Post("/reload", h.Reload)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/modal", h.OpenAdminModal)
			r.Post("/modal/close", h.CloseAdminModal)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})
		r.Post("/shifts/{id}/approve", h.Approve)

		r.Route("/api", func(r chi.Router) {
			r.Get("/calendars/{cal}", h.GetCalendar)
			r.Get("/session", h.GetSession)
		})
	})
}
