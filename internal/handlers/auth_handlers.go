package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/engine/actors"
	"inkwell/internal/models"
)

// SignUpRequest represents a request to register a new account
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest represents a credential check
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignUp registers a new account. Duplicate username or email comes
// back 406 naming the offending field.
func (s *Server) HandleSignUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignUpRequest
		if appErr := decodeBody(r, &req); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		result, appErr := s.ask(s.Engine.GetAccountActor(), &actors.SignUpMsg{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		s.respondWithJSON(w, http.StatusCreated, result)
	}
}

// HandleSignIn verifies credentials, opens a session and sets the token and
// email cookies the session middleware reads back.
func (s *Server) HandleSignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignInRequest
		if appErr := decodeBody(r, &req); appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		result, appErr := s.ask(s.Engine.GetAccountActor(), &actors.SignInMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if appErr != nil {
			s.respondWithError(w, appErr)
			return
		}

		user := result.(*models.User)
		session, err := s.Gate.OpenSession(r.Context(), user.ID)
		if err != nil {
			s.respondWithError(w, err)
			return
		}

		s.setSessionCookies(w, session.Token, user.Email, session.ExpiresAt)
		slog.Info("user signed in", "username", user.Username)
		s.respondWithJSON(w, http.StatusOK, user)
	}
}

// HandleSignOut revokes the presented session and clears the cookies. A
// request without a valid session still gets its cookies cleared.
func (s *Server) HandleSignOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("token"); err == nil && c.Value != "" {
			if err := s.Gate.CloseSession(r.Context(), c.Value); err != nil {
				s.respondWithError(w, err)
				return
			}
		}

		s.clearSessionCookies(w)
		s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
	}
}

func (s *Server) setSessionCookies(w http.ResponseWriter, token, email string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   s.CookieDomain,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "email",
		Value:    email,
		Path:     "/",
		Domain:   s.CookieDomain,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{"token", "email"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   s.CookieDomain,
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
