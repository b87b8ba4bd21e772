package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeyProfile ctxKey = iota
	ctxKeySession
)

const profileCookieName = "memory_profile"

// profileMiddleware identifies the browser by a long-lived cookie, issuing
// a new profile ID on first contact.
func profileMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var profile string
		if cookie, err := r.Cookie(profileCookieName); err == nil {
			if id, err := uuid.Parse(cookie.Value); err == nil {
				profile = id.String()
			}
		}

		if profile == "" {
			profile = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     profileCookieName,
				Value:    profile,
				Path:     "/",
				MaxAge:   int(365 * 24 * time.Hour / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxKeyProfile, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionMiddleware resolves {gameID} to a session owned by the caller's profile.
func sessionMiddleware(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Get(chi.URLParam(r, "gameID"))
			if err != nil || sess.profile != profileFrom(r) {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func profileFrom(r *http.Request) string {
	profile, _ := r.Context().Value(ctxKeyProfile).(string)
	return profile
}

func sessionFrom(r *http.Request) *session {
	return r.Context().Value(ctxKeySession).(*session)
}
