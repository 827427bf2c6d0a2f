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

// ViolationService traffic violation records. Creating a violation never touches
// vehicle records; see VehicleService.SyncVehiclesFromViolations.
type ViolationService interface {
	ListViolations(ctx context.Context) ([]domain.Violation, error)
	GetViolation(ctx context.Context, id int64) (*domain.Violation, error)
	CreateViolation(ctx context.Context, actor Actor, req ViolationRequest) (*domain.Violation, error)
	UpdateViolation(ctx context.Context, actor Actor, id int64, req ViolationPatch) (*domain.Violation, error)
	DeleteViolation(ctx context.Context, actor Actor, id int64) error
	SearchViolations(ctx context.Context, q ViolationQuery) ([]domain.Violation, error)
	Stats(ctx context.Context) (*domain.ViolationStats, error)
}

type violationService struct {
	mu         sync.Mutex
	violations *repository.Collection[domain.Violation]
	events     events.Publisher
	logger     *zap.Logger
	now        func() time.Time
}

func NewViolationService(violations *repository.Collection[domain.Violation], publisher events.Publisher, logger *zap.Logger) ViolationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &violationService{violations: violations, events: publisher, logger: logger, now: time.Now}
}

// ViolationRequest new violation. Empty type, date, time, location, status and source
// take their defaults; a zero Confidence means 100 for manual entries.
type ViolationRequest struct {
	PlateNumber    string                 `json:"plateNumber"`
	ViolationType  string                 `json:"violationType"`
	Date           string                 `json:"date"`
	Time           string                 `json:"time"`
	Location       string                 `json:"location"`
	BuildingNumber string                 `json:"buildingNumber"`
	Description    string                 `json:"description"`
	Status         domain.ViolationStatus `json:"status"`
	Fine           float64                `json:"fine"`
	Source         string                 `json:"source"`
	Confidence     float64                `json:"confidence"`
	VehicleType    string                 `json:"vehicleType"`
	DriverName     string                 `json:"driverName"`
	DriverPhone    string                 `json:"driverPhone"`
}

type ViolationPatch struct {
	PlateNumber    *string                 `json:"plateNumber"`
	ViolationType  *string                 `json:"violationType"`
	Date           *string                 `json:"date"`
	Time           *string                 `json:"time"`
	Location       *string                 `json:"location"`
	BuildingNumber *string                 `json:"buildingNumber"`
	Description    *string                 `json:"description"`
	Status         *domain.ViolationStatus `json:"status"`
	Fine           *float64                `json:"fine"`
	VehicleType    *string                 `json:"vehicleType"`
	DriverName     *string                 `json:"driverName"`
	DriverPhone    *string                 `json:"driverPhone"`
}

// ViolationQuery Plate is a case-insensitive substring, Date a prefix ("2024-03" matches the month).
type ViolationQuery struct {
	Plate string
	Date  string
}

func (s *violationService) ListViolations(ctx context.Context) ([]domain.Violation, error) {
	violations, _, err := s.violations.Load(ctx)
	if err != nil {
		return nil, storageError("list violations", err)
	}
	return violations, nil
}

func (s *violationService) GetViolation(ctx context.Context, id int64) (*domain.Violation, error) {
	violations, _, err := s.violations.Load(ctx)
	if err != nil {
		return nil, storageError("get violation", err)
	}
	idx := repository.IndexOf(violations, func(v domain.Violation) bool { return v.ID == id })
	if idx < 0 {
		return nil, domain.NotFoundError("violation %d not found", id)
	}
	return &violations[idx], nil
}

func (s *violationService) CreateViolation(ctx context.Context, actor Actor, req ViolationRequest) (*domain.Violation, error) {
	plate := strings.TrimSpace(req.PlateNumber)
	if plate == "" {
		return nil, domain.ValidationError("plateNumber is required")
	}
	status := req.Status
	if status == "" {
		status = domain.ViolationNew
	}
	if !status.Valid() {
		return nil, domain.ValidationError("invalid violation status %q", req.Status)
	}
	if req.Fine < 0 {
		return nil, domain.ValidationError("fine cannot be negative")
	}
	if req.Confidence < 0 || req.Confidence > 100 {
		return nil, domain.ValidationError("confidence must be between 0 and 100")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	violations, rev, err := s.violations.Load(ctx)
	if err != nil {
		return nil, storageError("create violation", err)
	}

	now := s.now()
	v := domain.Violation{
		ID:             repository.NextID(violations, func(v domain.Violation) int64 { return v.ID }),
		PlateNumber:    plate,
		ViolationType:  orDefault(req.ViolationType, domain.DefaultViolationType),
		Date:           orDefault(req.Date, now.Format("2006-01-02")),
		Time:           orDefault(req.Time, now.Format("15:04:05")),
		Location:       orDefault(req.Location, domain.DefaultLocation),
		BuildingNumber: strings.TrimSpace(req.BuildingNumber),
		Description:    req.Description,
		Status:         status,
		Fine:           req.Fine,
		Source:         orDefault(req.Source, domain.SourceManual),
		Confidence:     req.Confidence,
		VehicleType:    strings.TrimSpace(req.VehicleType),
		DriverName:     strings.TrimSpace(req.DriverName),
		DriverPhone:    strings.TrimSpace(req.DriverPhone),
		CreatedDate:    now,
		CreatedBy:      actor.ref(),
	}
	if v.Confidence == 0 && v.Source == domain.SourceManual {
		v.Confidence = 100
	}
	violations = append(violations, v)
	if _, err := s.violations.Save(ctx, violations, rev); err != nil {
		return nil, storageError("create violation", err)
	}

	s.logger.Info("Violation created",
		zap.Int64("violation_id", v.ID),
		zap.String("plate", v.PlateNumber),
		zap.String("source", v.Source),
	)
	if err := s.events.Publish(ctx, events.TypeViolationCreated, v); err != nil {
		s.logger.Warn("Failed to publish violation event", zap.Int64("violation_id", v.ID), zap.Error(err))
	}
	return &v, nil
}

func (s *violationService) UpdateViolation(ctx context.Context, actor Actor, id int64, req ViolationPatch) (*domain.Violation, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, domain.ValidationError("invalid violation status %q", *req.Status)
	}
	if req.PlateNumber != nil && strings.TrimSpace(*req.PlateNumber) == "" {
		return nil, domain.ValidationError("plateNumber is required")
	}
	if req.Fine != nil && *req.Fine < 0 {
		return nil, domain.ValidationError("fine cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	violations, rev, err := s.violations.Load(ctx)
	if err != nil {
		return nil, storageError("update violation", err)
	}
	idx := repository.IndexOf(violations, func(v domain.Violation) bool { return v.ID == id })
	if idx < 0 {
		return nil, domain.NotFoundError("violation %d not found", id)
	}

	v := violations[idx]
	setString(&v.PlateNumber, req.PlateNumber)
	setString(&v.ViolationType, req.ViolationType)
	setString(&v.Date, req.Date)
	setString(&v.Time, req.Time)
	setString(&v.Location, req.Location)
	setString(&v.BuildingNumber, req.BuildingNumber)
	setString(&v.VehicleType, req.VehicleType)
	setString(&v.DriverName, req.DriverName)
	setString(&v.DriverPhone, req.DriverPhone)
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.Fine != nil {
		v.Fine = *req.Fine
	}
	v.UpdatedDate = timePtr(s.now())
	v.UpdatedBy = actor.ref()
	violations[idx] = v

	if _, err := s.violations.Save(ctx, violations, rev); err != nil {
		return nil, storageError("update violation", err)
	}
	return &v, nil
}

func (s *violationService) DeleteViolation(ctx context.Context, actor Actor, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	violations, rev, err := s.violations.Load(ctx)
	if err != nil {
		return storageError("delete violation", err)
	}
	kept := make([]domain.Violation, 0, len(violations))
	for _, v := range violations {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(violations) {
		return domain.NotFoundError("violation %d not found", id)
	}
	if _, err := s.violations.Save(ctx, kept, rev); err != nil {
		return storageError("delete violation", err)
	}
	s.logger.Info("Violation deleted", zap.Int64("violation_id", id), zap.String("by", actor.Username))
	return nil
}

func (s *violationService) SearchViolations(ctx context.Context, q ViolationQuery) ([]domain.Violation, error) {
	violations, _, err := s.violations.Load(ctx)
	if err != nil {
		return nil, storageError("search violations", err)
	}
	plate := strings.TrimSpace(q.Plate)
	date := strings.TrimSpace(q.Date)
	out := make([]domain.Violation, 0)
	for _, v := range violations {
		if plate != "" && !containsFold(v.PlateNumber, plate) {
			continue
		}
		if date != "" && !strings.HasPrefix(v.Date, date) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *violationService) Stats(ctx context.Context) (*domain.ViolationStats, error) {
	violations, _, err := s.violations.Load(ctx)
	if err != nil {
		return nil, storageError("violation stats", err)
	}
	stats := domain.ComputeViolationStats(violations, s.now())
	return &stats, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
