package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/clinic/internal/clinic"
	mw "github.com/JonMunkholm/clinic/internal/web/middleware"
)

// handleHealth reports whether the store answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type viewerResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        clinic.Role `json:"role"`
	TherapistID string      `json:"therapistId,omitempty"`
	CanManage   bool        `json:"canManage"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      viewerResponse `json:"user"`
}

func toViewerResponse(v clinic.Viewer) viewerResponse {
	u := v.User()
	return viewerResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		TherapistID: u.TherapistID,
		CanManage:   v.CanManage(),
	}
}

// handleLogin accepts JSON or form credentials, sets the session cookie and
// returns the token for API clients.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeCredentials(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sess, err := s.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      toViewerResponse(sess.Viewer),
	})
}

// handleLogout clears the session cookie. Tokens are stateless, so an
// API client simply discards its copy.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toViewerResponse(mw.ViewerFrom(r.Context())))
}

func decodeCredentials(w http.ResponseWriter, r *http.Request, req *loginRequest) error {
	if wantsJSONBody(r) {
		if err := decodeJSON(w, r, req); err != nil {
			return err
		}
	} else {
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	}
	if req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: email and password are required", errInvalidRequest)
	}
	return nil
}
