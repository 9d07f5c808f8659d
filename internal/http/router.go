package http

import (
	"net/http"

	"pagebase/internal/auth"
	"pagebase/internal/config"
	"pagebase/internal/http/handler"
	mw "pagebase/internal/http/middleware"
	"pagebase/internal/workspace"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the workspace API. A nil lock leaves the API open.
func NewRouter(cfg config.Config, svc *workspace.Service, jwtSvc *auth.JWT, lock *auth.Lock, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.AccessLog(log))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if lock != nil {
		ah := &handler.AuthHandler{Lock: lock, JWT: jwtSvc}
		r.Post("/auth/login", ah.Login)
	}

	dbH := &handler.DatabaseHandler{Svc: svc, Log: log}
	propH := &handler.PropertyHandler{Svc: svc, Log: log}
	pageH := &handler.PageHandler{Svc: svc, Log: log}
	valH := &handler.ValueHandler{Svc: svc, Log: log}
	searchH := &handler.SearchHandler{Svc: svc, Log: log}

	r.Group(func(r chi.Router) {
		if lock != nil {
			r.Use(auth.RequireAuth(jwtSvc))
		}

		r.Route("/databases", func(r chi.Router) {
			r.Post("/", dbH.Create)
			r.Get("/", dbH.List)
			r.Get("/{id}", dbH.Get)
			r.Patch("/{id}", dbH.Update)
			r.Delete("/{id}", dbH.Delete)
			r.Get("/{id}/properties", dbH.Properties)
			r.Get("/{id}/pages", dbH.Pages)
		})

		r.Route("/properties", func(r chi.Router) {
			r.Post("/", propH.Create)
			r.Get("/{id}", propH.Get)
			r.Patch("/{id}", propH.Update)
			r.Delete("/{id}", propH.Delete)
		})

		r.Route("/pages", func(r chi.Router) {
			r.Post("/", pageH.Create)
			r.Get("/", pageH.Roots)
			r.Get("/{id}", pageH.Get)
			r.Patch("/{id}", pageH.Update)
			r.Delete("/{id}", pageH.Delete)
			r.Get("/{id}/values", valH.ListForPage)
		})

		r.Post("/values", valH.Set)
		r.Get("/values/{pageID}/{propertyID}", valH.Get)

		r.Get("/search", searchH.Search)
	})

	return r
}
