package handler

import (
	"log/slog"
	"net/http"

	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/middleware"
)

// DashboardHandler renders the landing page with program-wide numbers.
type DashboardHandler struct {
	renderer *Renderer
	logger   *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(renderer *Renderer, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		renderer: renderer,
		logger:   logger,
	}
}

type dashboardPageData struct {
	User    domain.User
	Stats   domain.DashboardStats
	Recent  []domain.Client
	Catalog []domain.CatalogItem
}

// Show renders the dashboard.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	state := sess.Snapshot()

	visible := domain.VisibleClients(state.Clients, sess.User)
	recent := visible
	if len(recent) > 5 {
		recent = recent[:5]
	}

	h.renderer.RenderHTTP(w, "dashboard", dashboardPageData{
		User:    sess.User,
		Stats:   domain.ComputeStats(state.Clients, sess.User),
		Recent:  recent,
		Catalog: state.Catalog,
	})
}
