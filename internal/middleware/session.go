package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/utils"
)

type contextKey string

const viewerKey contextKey = "viewer"

// SessionMiddleware resolves the viewer from the session cookies and stores
// the result in the request context. Requests with missing or invalid
// credentials pass through anonymously; routes that require identity call
// RequireViewer themselves. A store failure during the check is a 500, not
// an anonymous pass-through: a client with a live session must never be
// told it is invalid because the database was down.
func SessionMiddleware(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookieValue(r, "token")
			email := cookieValue(r, "email")

			result, err := gate.Authenticate(r.Context(), token, email)
			if err != nil {
				appErr, ok := utils.AsAppError(err)
				if !ok {
					appErr = utils.NewDatabaseError(err)
				}
				slog.Error("session check failed", "code", appErr.Code, "error", appErr.Origin)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(utils.AppErrorToHTTPStatus(appErr.Code))
				json.NewEncoder(w).Encode(map[string]string{
					"error": appErr.Message,
					"code":  appErr.Code,
				})
				return
			}

			if result.Authenticated {
				ctx := context.WithValue(r.Context(), viewerKey, result.User)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ViewerFromContext returns the authenticated user, or nil for anonymous
// requests.
func ViewerFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(viewerKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
