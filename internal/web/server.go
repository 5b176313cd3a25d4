// Package web serves the HTML views and the JSON/CSV API over the service
// layer, with session auth, request logging and prometheus metrics.
package web

import (
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zaocat/Purrfit/internal/auth"
	"github.com/zaocat/Purrfit/internal/backup"
	"github.com/zaocat/Purrfit/internal/service"
)

// Server routes HTTP traffic. It implements http.Handler.
type Server struct {
	svc     *service.Service
	auth    *auth.Authenticator
	backups *backup.Worker
	log     *zap.Logger

	mux     *http.ServeMux
	tmpl    *template.Template
	metrics *metrics
	now     func() time.Time
}

// NewServer wires the routes. backups may be nil, which disables the
// backup endpoints. A nil logger disables logging.
func NewServer(svc *service.Service, authn *auth.Authenticator, backups *backup.Worker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		svc:     svc,
		auth:    authn,
		backups: backups,
		log:     log,
		mux:     http.NewServeMux(),
		tmpl:    newTemplates(),
		metrics: newMetrics(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.handle("GET /{$}", "home", s.handleHome)
	s.handle("GET /login", "login", s.handleLoginPage)
	s.handle("POST /auth/login", "auth_login", s.handleAuthLogin)
	s.handle("GET /logout", "logout", s.handleLogout)

	s.handle("GET /add", "admin", s.protected(s.handleAdmin))
	s.handle("POST /api/save", "save", s.protected(s.handleSave))
	s.handle("POST /api/delete", "delete", s.protected(s.handleDelete))
	s.handle("POST /api/import", "import", s.protected(s.handleImport))
	s.handle("POST /api/rename_cat", "rename_cat", s.protected(s.handleRenameCat))
	s.handle("POST /api/settings", "settings", s.protected(s.handleSettings))
	s.handle("POST /api/reset", "reset", s.protected(s.handleReset))
	s.handle("GET /api/export", "export", s.protected(s.handleExport))
	s.handle("POST /api/backup", "backup_create", s.protected(s.handleBackupCreate))
	s.handle("GET /api/backup/{id}", "backup_status", s.protected(s.handleBackupStatus))

	s.mux.Handle("GET /metrics", s.metrics.handler())
	s.handle("GET /healthz", "healthz", s.handleHealthz)
}

// handle registers a route wrapped with metrics and access logging.
func (s *Server) handle(pattern, route string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		h(sw, r)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.observe(route, r.Method, sw.status, elapsed)
		s.log.Debug("request",
			zap.String("route", route),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("elapsed", elapsed))
	})
}

// protected redirects unauthenticated requests to the login page before the
// handler runs, so gated mutations never touch state.
func (s *Server) protected(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.IsAuthenticated(r) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		h(w, r)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// internalError logs the failure with full detail and answers with a
// generic page.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
