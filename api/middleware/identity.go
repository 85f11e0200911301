package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/muzammal-12/CarApp/pkg/logger"
)

// Identity extracts the caller reference from a bearer token's subject claim
// when one is present. The API is open; the token is used only to attribute
// learned quotes and tag logs, so the claim is read without verification and
// anonymous requests pass through untouched.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	parser := jwt.NewParser()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := bearerSubject(parser, r.Header.Get("Authorization"))
			if subject == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUserRef(r.Context(), subject)
			if logg != nil {
				ctx = logg.WithUserID(ctx, subject)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerSubject(parser *jwt.Parser, header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if raw == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return ""
	}
	subject, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return subject
}
