package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/snbtku/backend/httpjson"
	"github.com/snbtku/backend/user/auth"
)

type DashboardHttpHandler struct {
	srvc *DashboardSrvc
	now  func() time.Time
}

func NewDashboardHttpHandler(srvc *DashboardSrvc) *DashboardHttpHandler {
	return &DashboardHttpHandler{srvc: srvc, now: time.Now}
}

func (h *DashboardHttpHandler) RegisterRoutes(r chi.Router) {
	r.With(auth.RequireAuth).Get("/dashboard", h.GetDashboard)
}

func (h *DashboardHttpHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d := h.srvc.GetDashboard(r.Context(), auth.UserIDFromContext(r.Context()), h.now())
	httpjson.WriteSuccessJson(w, d)
}
