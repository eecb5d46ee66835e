package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// AuthRequired turns the verified access token into a user.Actor carrying
// the request origin. It runs after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, jwt.ErrInvalidToken)
			return
		}

		parsed, err := jwt.ParseAccessClaims(claims)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		actor := user.Actor{
			UserID:     parsed.UserID,
			EmployeeID: parsed.EmployeeID,
			Role:       parsed.Role,
			IsAdmin:    parsed.IsAdmin,
			IPAddress:  clientIP(r),
			UserAgent:  r.UserAgent(),
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	}
	return http.HandlerFunc(hfn)
}

func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the authenticated actor set by AuthRequired.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}

// RemoteAddr has already been rewritten by chi's RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
