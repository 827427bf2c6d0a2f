package httpapi

import (
	"net/http"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	users      service.UserService
	stickers   service.StickerService
	violations service.ViolationService
	vehicles   service.VehicleService
	units      service.UnitService
	logger     *zap.Logger
}

func NewDashboardHandler(
	users service.UserService,
	stickers service.StickerService,
	violations service.ViolationService,
	vehicles service.VehicleService,
	units service.UnitService,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		users:      users,
		stickers:   stickers,
		violations: violations,
		vehicles:   vehicles,
		units:      units,
		logger:     logger,
	}
}

type dashboard struct {
	Stickers   *domain.StickerStats       `json:"stickers"`
	Violations *domain.ViolationStats     `json:"violations"`
	Vehicles   *domain.AdvancedStatistics `json:"vehicles"`
	Units      *domain.UnitStatistics     `json:"units"`
	Users      *domain.UserStats          `json:"users,omitempty"`
}

// Get headline counters; user counts only for accounts that manage users.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanViewDashboard)
	if !ok {
		return
	}
	ctx := r.Context()
	var (
		out dashboard
		err error
	)
	if out.Stickers, err = h.stickers.Stats(ctx); err != nil {
		writeError(w, h.logger, "dashboard", err)
		return
	}
	if out.Violations, err = h.violations.Stats(ctx); err != nil {
		writeError(w, h.logger, "dashboard", err)
		return
	}
	if out.Vehicles, err = h.vehicles.AdvancedStatistics(ctx); err != nil {
		writeError(w, h.logger, "dashboard", err)
		return
	}
	if out.Units, err = h.units.Statistics(ctx); err != nil {
		writeError(w, h.logger, "dashboard", err)
		return
	}
	if sess.Can(domain.CanManageUsers) {
		if out.Users, err = h.users.Stats(ctx); err != nil {
			writeError(w, h.logger, "dashboard", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, Ok(out))
}
