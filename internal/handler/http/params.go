package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/handler/http/middleware"
)

func queryPtr(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

// pagination reads page and limit, defaulting to 1 and 20
func pagination(r *http.Request) (int, int) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	return page, limit
}

func actorFrom(r *http.Request) (user.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return user.Actor{}, user.ErrActorRequired
	}
	return actor, nil
}
