package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/events"
	"github.com/Ali5829511/wwwr/internal/repository"

	"go.uber.org/zap"
)

// VehicleService vehicle records and the violation aggregation over them.
//
// violationsCount, lastViolationDate and status are only refreshed by
// RecomputeVehicleStats (and SyncVehiclesFromViolations, which calls it);
// between calls they reflect the violations as of statsComputedAt.
type VehicleService interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	GetVehicle(ctx context.Context, plate string) (*domain.Vehicle, error)
	UpsertVehicle(ctx context.Context, req VehicleRequest) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, plate string) error
	SearchVehicles(ctx context.Context, term string) ([]domain.Vehicle, error)

	RecomputeVehicleStats(ctx context.Context) ([]domain.Vehicle, error)
	RepeatedOffenders(ctx context.Context, minCount int) ([]domain.Vehicle, error)
	SyncVehiclesFromViolations(ctx context.Context) (*SyncResult, error)
	AdvancedStatistics(ctx context.Context) (*domain.AdvancedStatistics, error)
}

type vehicleService struct {
	mu         sync.Mutex
	vehicles   *repository.Collection[domain.Vehicle]
	violations *repository.Collection[domain.Violation]
	events     events.Publisher
	logger     *zap.Logger
	now        func() time.Time
}

func NewVehicleService(
	vehicles *repository.Collection[domain.Vehicle],
	violations *repository.Collection[domain.Violation],
	publisher events.Publisher,
	logger *zap.Logger,
) VehicleService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &vehicleService{
		vehicles:   vehicles,
		violations: violations,
		events:     publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// VehicleRequest add-or-update by plate; empty fields keep the stored value on update.
type VehicleRequest struct {
	PlateNumber string `json:"plateNumber"`
	VehicleType string `json:"vehicleType"`
	OwnerName   string `json:"ownerName"`
	OwnerPhone  string `json:"ownerPhone"`
	OwnerEmail  string `json:"ownerEmail"`
	Notes       string `json:"notes"`
}

type SyncResult struct {
	Added    int              `json:"added"`
	Plates   []string         `json:"plates"`
	Vehicles []domain.Vehicle `json:"vehicles"`
}

func (s *vehicleService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	vehicles, _, err := s.vehicles.Load(ctx)
	if err != nil {
		return nil, storageError("list vehicles", err)
	}
	return vehicles, nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, plate string) (*domain.Vehicle, error) {
	vehicles, _, err := s.vehicles.Load(ctx)
	if err != nil {
		return nil, storageError("get vehicle", err)
	}
	plate = domain.NormalizePlate(plate)
	idx := repository.IndexOf(vehicles, func(v domain.Vehicle) bool { return domain.NormalizePlate(v.PlateNumber) == plate })
	if idx < 0 {
		return nil, domain.NotFoundError("vehicle %q not found", plate)
	}
	return &vehicles[idx], nil
}

func (s *vehicleService) UpsertVehicle(ctx context.Context, req VehicleRequest) (*domain.Vehicle, error) {
	plate := domain.NormalizePlate(req.PlateNumber)
	if plate == "" {
		return nil, domain.ValidationError("plateNumber is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vehicles, rev, err := s.vehicles.Load(ctx)
	if err != nil {
		return nil, storageError("save vehicle", err)
	}
	now := s.now()
	idx := repository.IndexOf(vehicles, func(v domain.Vehicle) bool { return domain.NormalizePlate(v.PlateNumber) == plate })

	var v domain.Vehicle
	if idx >= 0 {
		v = vehicles[idx]
		v.VehicleType = keepIfEmpty(req.VehicleType, v.VehicleType)
		v.OwnerName = keepIfEmpty(req.OwnerName, v.OwnerName)
		v.OwnerPhone = keepIfEmpty(req.OwnerPhone, v.OwnerPhone)
		v.OwnerEmail = keepIfEmpty(req.OwnerEmail, v.OwnerEmail)
		v.Notes = keepIfEmpty(req.Notes, v.Notes)
		v.UpdatedDate = timePtr(now)
		vehicles[idx] = v
	} else {
		v = domain.Vehicle{
			PlateNumber: plate,
			VehicleType: orDefault(req.VehicleType, domain.Unspecified),
			OwnerName:   orDefault(req.OwnerName, domain.Unspecified),
			OwnerPhone:  strings.TrimSpace(req.OwnerPhone),
			OwnerEmail:  strings.TrimSpace(req.OwnerEmail),
			Notes:       req.Notes,
			Status:      domain.VehicleActive,
			CreatedDate: now,
		}
		vehicles = append(vehicles, v)
	}
	if _, err := s.vehicles.Save(ctx, vehicles, rev); err != nil {
		return nil, storageError("save vehicle", err)
	}
	return &v, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, plate string) error {
	plate = domain.NormalizePlate(plate)

	s.mu.Lock()
	defer s.mu.Unlock()

	vehicles, rev, err := s.vehicles.Load(ctx)
	if err != nil {
		return storageError("delete vehicle", err)
	}
	kept := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if domain.NormalizePlate(v.PlateNumber) != plate {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(vehicles) {
		return domain.NotFoundError("vehicle %q not found", plate)
	}
	if _, err := s.vehicles.Save(ctx, kept, rev); err != nil {
		return storageError("delete vehicle", err)
	}
	return nil
}

func (s *vehicleService) SearchVehicles(ctx context.Context, term string) ([]domain.Vehicle, error) {
	vehicles, _, err := s.vehicles.Load(ctx)
	if err != nil {
		return nil, storageError("search vehicles", err)
	}
	out := make([]domain.Vehicle, 0)
	for _, v := range vehicles {
		if domain.MatchesVehicle(v, term) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *vehicleService) RecomputeVehicleStats(ctx context.Context) ([]domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recompute(ctx, nil)
}

// recompute projects violations onto the stored vehicles plus extra and saves the result.
// Must be called with mu held.
func (s *vehicleService) recompute(ctx context.Context, extra func(vehicles []domain.Vehicle, violations []domain.Violation) []domain.Vehicle) ([]domain.Vehicle, error) {
	vehicles, rev, err := s.vehicles.Load(ctx)
	if err != nil {
		return nil, storageError("recompute vehicle stats", err)
	}
	violations, _, err := s.violations.Load(ctx)
	if err != nil {
		return nil, storageError("recompute vehicle stats", err)
	}
	if extra != nil {
		vehicles = append(vehicles, extra(vehicles, violations)...)
	}
	started := s.now()
	projected := domain.ProjectVehicleStats(vehicles, violations, started)
	if _, err := s.vehicles.Save(ctx, projected, rev); err != nil {
		return nil, storageError("recompute vehicle stats", err)
	}
	s.logger.Debug("Vehicle stats recomputed",
		zap.Int("vehicles", len(projected)),
		zap.Int("violations", len(violations)),
		zap.Duration("took", s.now().Sub(started)),
	)
	return projected, nil
}

func (s *vehicleService) RepeatedOffenders(ctx context.Context, minCount int) ([]domain.Vehicle, error) {
	vehicles, _, err := s.vehicles.Load(ctx)
	if err != nil {
		return nil, storageError("repeated offenders", err)
	}
	return domain.RepeatedOffenders(vehicles, minCount), nil
}

func (s *vehicleService) SyncVehiclesFromViolations(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []domain.Vehicle
	vehicles, err := s.recompute(ctx, func(vehicles []domain.Vehicle, violations []domain.Violation) []domain.Vehicle {
		added = domain.MissingVehicles(vehicles, violations, s.now())
		return added
	})
	if err != nil {
		return nil, err
	}

	res := &SyncResult{Added: len(added), Plates: make([]string, 0, len(added)), Vehicles: vehicles}
	for _, v := range added {
		res.Plates = append(res.Plates, v.PlateNumber)
	}
	if res.Added > 0 {
		s.logger.Info("Vehicles synced from violations", zap.Int("added", res.Added))
		if err := s.events.Publish(ctx, events.TypeVehiclesSynced, map[string]any{"added": res.Added, "plates": res.Plates}); err != nil {
			s.logger.Warn("Failed to publish sync event", zap.Error(err))
		}
	}
	return res, nil
}

func (s *vehicleService) AdvancedStatistics(ctx context.Context) (*domain.AdvancedStatistics, error) {
	vehicles, _, err := s.vehicles.Load(ctx)
	if err != nil {
		return nil, storageError("advanced statistics", err)
	}
	violations, _, err := s.violations.Load(ctx)
	if err != nil {
		return nil, storageError("advanced statistics", err)
	}
	stats := domain.ComputeAdvancedStatistics(vehicles, violations)
	return &stats, nil
}

func keepIfEmpty(next, cur string) string {
	if next = strings.TrimSpace(next); next == "" {
		return cur
	}
	return next
}
