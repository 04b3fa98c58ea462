package userhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/user"
	"github.com/snbtku/backend/user/auth"
)

type UserHttpHandler struct {
	userSrvc *user.UserSrvc
	JwtKey   []byte
}

func NewUserHttpHandler(userSrvc *user.UserSrvc, jwtKey []byte) *UserHttpHandler {
	return &UserHttpHandler{
		userSrvc: userSrvc,
		JwtKey:   jwtKey,
	}
}

func (h *UserHttpHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Get("/auth/role", h.GetRole)
	r.With(auth.RequireAuth).Get("/users/me", h.WhoAmI)
	r.With(auth.RequireAdmin).Get("/users", h.ListUsers)
}
