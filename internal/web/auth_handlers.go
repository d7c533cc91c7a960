package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskfollow/internal/domain"
	"taskfollow/internal/logging"
	"taskfollow/internal/services"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		view := &FormView{Page: s.page(w, r, "Register", nil)}
		if err := s.renderer.RenderRegister(w, view); err != nil {
			logging.Debugf("render register: %v\n", err)
		}
		return
	}

	if err := r.ParseForm(); err != nil {
		s.fail(w, r, err, "/register")
		return
	}

	user, err := s.container.Identity.Register(r.Context(),
		r.PostFormValue("user_id"),
		r.PostFormValue("password"),
		r.PostFormValue("lastname"),
		r.PostFormValue("firstname"),
	)
	if err != nil {
		s.fail(w, r, err, "/register")
		return
	}

	s.sessions.signIn(w, r, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		view := &FormView{Page: s.page(w, r, "Login", nil)}
		if err := s.renderer.RenderLogin(w, view); err != nil {
			logging.Debugf("render login: %v\n", err)
		}
		return
	}

	if err := r.ParseForm(); err != nil {
		s.fail(w, r, err, "/login")
		return
	}

	user, err := s.container.Identity.Authenticate(r.Context(),
		r.PostFormValue("user_id"),
		r.PostFormValue("password"),
	)
	if err != nil {
		s.fail(w, r, err, "/login")
		return
	}

	s.sessions.signIn(w, r, user.ID)
	target := safeRedirectTarget(r.PostFormValue("next"), "/")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.signOut(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, user *domain.User) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, err, "/")
		return
	}

	update := services.ProfileUpdate{
		NewID:       r.PostFormValue("user_id"),
		Lastname:    r.PostFormValue("lastname"),
		Firstname:   r.PostFormValue("firstname"),
		NewPassword: r.PostFormValue("password"),
	}

	updated, err := s.container.Identity.UpdateProfile(r.Context(), user.ID, update)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	// A rename changes the session identity too.
	if updated.ID != user.ID {
		s.sessions.signIn(w, r, updated.ID)
	}
	s.sessions.flash(w, r, "Profile updated.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request, user *domain.User) {
	others, err := s.container.Identity.ListOtherUsers(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	followees, err := s.container.Identity.ListFollowees(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	followed := make(map[string]bool, len(followees))
	for _, f := range followees {
		followed[f.ID] = true
	}

	rows := make([]UserRow, 0, len(others))
	for _, other := range others {
		rows = append(rows, UserRow{User: other, Followed: followed[other.ID]})
	}

	view := &UsersView{
		Page:  s.page(w, r, "Users", user),
		Users: rows,
	}
	if err := s.renderer.RenderUsers(w, view); err != nil {
		logging.Debugf("render users: %v\n", err)
	}
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request, user *domain.User) {
	targetID := mux.Vars(r)["id"]
	if err := s.container.Identity.Follow(r.Context(), user.ID, targetID); err != nil {
		s.fail(w, r, err, "/users")
		return
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request, user *domain.User) {
	targetID := mux.Vars(r)["id"]
	if err := s.container.Identity.Unfollow(r.Context(), user.ID, targetID); err != nil {
		s.fail(w, r, err, "/users")
		return
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
