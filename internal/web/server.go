package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"taskfollow/internal/config"
	"taskfollow/internal/domain"
	"taskfollow/internal/errors"
	"taskfollow/internal/logging"
	"taskfollow/internal/services"
)

// Server is the HTTP front of the application. Handlers resolve the
// session user, call into the service container and hand view models to
// the renderer; no business rules live here.
type Server struct {
	container *services.ServiceContainer
	sessions  *sessionManager
	renderer  Renderer
	router    *mux.Router
	loc       *time.Location
	timeFmt   string
}

// NewServer creates a server with all routes registered
func NewServer(cfg *config.Config, container *services.ServiceContainer, renderer Renderer, loc *time.Location) *Server {
	s := &Server{
		container: container,
		sessions:  newSessionManager(cfg.Session.Secret, cfg.Session.CookieName, cfg.Session.MaxAge),
		renderer:  renderer,
		router:    mux.NewRouter(),
		loc:       loc,
		timeFmt:   cfg.Time.DisplayFormat,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router

	r.HandleFunc("/register", s.handleRegister).Methods("GET", "POST")
	r.HandleFunc("/login", s.handleLogin).Methods("GET", "POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("GET")

	r.HandleFunc("/", s.requireAuth(s.handleIndex)).Methods("GET")
	r.HandleFunc("/calendar", s.requireAuth(s.handleCalendar)).Methods("GET")
	r.HandleFunc("/expired", s.requireAuth(s.handleExpired)).Methods("GET")

	r.HandleFunc("/create", s.requireAuth(s.handleCreateTask)).Methods("POST")
	r.HandleFunc("/update/{id:[0-9]+}", s.requireAuth(s.handleUpdateTask)).Methods("POST")
	r.HandleFunc("/delete/{id:[0-9]+}", s.requireAuth(s.handleDeleteTask)).Methods("POST")
	r.HandleFunc("/complete/{id:[0-9]+}", s.requireAuth(s.handleCompleteTask)).Methods("POST")

	r.HandleFunc("/user/update", s.requireAuth(s.handleUpdateProfile)).Methods("POST")
	r.HandleFunc("/users", s.requireAuth(s.handleUsers)).Methods("GET")
	r.HandleFunc("/follow/{id}", s.requireAuth(s.handleFollow)).Methods("GET")
	r.HandleFunc("/unfollow/{id}", s.requireAuth(s.handleUnfollow)).Methods("GET")
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run(cfg *config.Config) error {
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logging.Debugf("listening on %s\n", cfg.Server.Address)
	return srv.ListenAndServe()
}

// requireAuth resolves the session user and redirects unauthenticated
// requests to the login page. The resolved user is re-fetched so a stale
// session (renamed or removed user) signs out cleanly.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, *domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := s.sessions.currentUserID(r)
		if userID == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		user, err := s.container.Identity.GetUser(r.Context(), userID)
		if err != nil {
			s.sessions.signOut(w, r)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next(w, r, user)
	}
}

// fail applies the request-boundary error policy: user-level errors flash
// their message, everything else flashes a generic one, and the request
// redirects to the given safe view.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, redirectTo string) {
	if errors.ShouldLogError(err) {
		logging.Debugf("request error: %v\n", err)
	}
	s.sessions.flash(w, r, errors.GetUserMessage(err))
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// page assembles the shared page data, draining any flash messages
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string, user *domain.User) Page {
	return Page{
		Title:    title,
		User:     user,
		Messages: s.sessions.popFlashes(w, r),
	}
}
