package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrActorRequired)
			return
		}

		if !actor.IsSuperAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
