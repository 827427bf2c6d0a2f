package httpapi

import (
	"github.com/Ali5829511/wwwr/internal/export"
	"github.com/Ali5829511/wwwr/internal/formtrack"
	"github.com/Ali5829511/wwwr/internal/repository"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

// Services everything the API serves. Reports may be nil.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Stickers   service.StickerService
	Violations service.ViolationService
	Vehicles   service.VehicleService
	Units      service.UnitService
	Data       service.DataService
	Reports    repository.ReportsRepository
	Exporter   *export.Exporter
	Forms      *formtrack.Registry
}

// NewAPI builds the router with every route registered.
func NewAPI(s Services, logger *zap.Logger) *Router {
	if s.Exporter == nil {
		s.Exporter = export.NewExporter()
	}
	if s.Forms == nil {
		s.Forms = formtrack.NewRegistry()
	}

	r := NewRouter(NewSessionMiddleware(s.Auth, logger), logger)
	r.RegisterHealthRoutes()
	r.RegisterAuthRoutes(NewAuthHandler(s.Auth, logger))
	r.RegisterUserRoutes(NewUsersHandler(s.Users, logger))
	r.RegisterStickerRoutes(NewStickersHandler(s.Stickers, logger))
	r.RegisterViolationRoutes(NewViolationsHandler(s.Violations, logger))
	r.RegisterVehicleRoutes(NewVehiclesHandler(s.Vehicles, logger))
	r.RegisterUnitRoutes(NewUnitsHandler(s.Units, logger))
	r.RegisterExportRoutes(NewExportsHandler(s.Stickers, s.Violations, s.Vehicles, s.Units, s.Exporter, logger))
	r.RegisterDataRoutes(NewDataHandler(s.Data, logger))
	r.RegisterFormRoutes(NewFormsHandler(s.Forms, logger))
	r.RegisterDashboardRoutes(NewDashboardHandler(s.Users, s.Stickers, s.Violations, s.Vehicles, s.Units, logger))
	r.RegisterReportRoutes(NewReportsHandler(s.Reports, logger))
	return r
}
