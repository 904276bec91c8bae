package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/murmurlabs/murmur/internal/ctxkeys"
	"github.com/murmurlabs/murmur/internal/repository"
	"github.com/murmurlabs/murmur/internal/service"
)

// RequireAuth verifies the bearer JWT and loads user and profile into the
// request context. API routes reject unauthenticated requests outright;
// there is no anonymous mode for the mobile client.
func RequireAuth(
	authService *service.AuthService,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := authService.VerifyJWT(token)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				unauthorized(w, "invalid token")
				return
			}

			user, err := users.ByID(userID)
			if err != nil {
				unauthorized(w, "unknown user")
				return
			}
			user.PasswordHash = nil

			profile, err := profiles.ByUserID(userID)
			if err != nil {
				unauthorized(w, "profile not found")
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithProfile(ctx, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
