package service

import (
	"context"
	"strings"
	"sync"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/repository"

	"go.uber.org/zap"
)

// ResidentSource supplies the resident list used to derive occupancy.
type ResidentSource interface {
	Residents(ctx context.Context) ([]domain.Resident, error)
}

// UnitService residential units (apartments and villas).
type UnitService interface {
	ListUnits(ctx context.Context) ([]domain.ResidentialUnit, error)
	GetUnit(ctx context.Context, id int64) (*domain.ResidentialUnit, error)
	CreateUnit(ctx context.Context, req UnitRequest) (*domain.ResidentialUnit, error)
	UpdateUnit(ctx context.Context, id int64, req UnitPatch) (*domain.ResidentialUnit, error)
	DeleteUnit(ctx context.Context, id int64) error
	SearchUnits(ctx context.Context, q UnitQuery) ([]domain.ResidentialUnit, error)
	Statistics(ctx context.Context) (*domain.UnitStatistics, error)

	// Occupancy joins the units with the feed's residents; stored occupancy is ignored.
	Occupancy(ctx context.Context) (*OccupancyReport, error)

	// EnsureSampleUnits writes the generated unit inventory when none exists.
	EnsureSampleUnits(ctx context.Context) (int, error)
}

type unitService struct {
	mu        sync.Mutex
	units     *repository.Collection[domain.ResidentialUnit]
	residents ResidentSource
	logger    *zap.Logger
}

func NewUnitService(units *repository.Collection[domain.ResidentialUnit], residents ResidentSource, logger *zap.Logger) UnitService {
	return &unitService{units: units, residents: residents, logger: logger}
}

type UnitRequest struct {
	UnitNumber          int                     `json:"unit_number"`
	BuildingNumber      int                     `json:"building_number"`
	UnitName            string                  `json:"unit_name"`
	BuildingCategory    domain.BuildingCategory `json:"building_category"`
	BuildingDescription string                  `json:"building_description"`
	UnitType            domain.UnitType         `json:"unit_type"`
	IsOccupied          bool                    `json:"is_occupied"`
	FloorNumber         int                     `json:"floor_number"`
	ResidentName        *string                 `json:"resident_name"`
	ResidentPhone       *string                 `json:"resident_phone"`
	ParkingNumber       *string                 `json:"parking_number"`
	AreaSqm             float64                 `json:"area_sqm"`
	RoomsCount          int                     `json:"rooms_count"`
}

type UnitPatch struct {
	UnitName            *string                  `json:"unit_name"`
	BuildingCategory    *domain.BuildingCategory `json:"building_category"`
	BuildingDescription *string                  `json:"building_description"`
	UnitType            *domain.UnitType         `json:"unit_type"`
	IsOccupied          *bool                    `json:"is_occupied"`
	FloorNumber         *int                     `json:"floor_number"`
	ResidentName        *string                  `json:"resident_name"`
	ResidentPhone       *string                  `json:"resident_phone"`
	ParkingNumber       *string                  `json:"parking_number"`
	AreaSqm             *float64                 `json:"area_sqm"`
	RoomsCount          *int                     `json:"rooms_count"`
}

// UnitQuery Status is "", "occupied" or "vacant".
type UnitQuery struct {
	Term     string
	Status   string
	Category domain.BuildingCategory
}

type OccupancyReport struct {
	Units      []domain.ResidentialUnit `json:"units"`
	Statistics domain.UnitStatistics    `json:"statistics"`
	Residents  int                      `json:"residents"`
}

func (s *unitService) ListUnits(ctx context.Context) ([]domain.ResidentialUnit, error) {
	units, _, err := s.units.Load(ctx)
	if err != nil {
		return nil, storageError("list units", err)
	}
	return units, nil
}

func (s *unitService) GetUnit(ctx context.Context, id int64) (*domain.ResidentialUnit, error) {
	units, _, err := s.units.Load(ctx)
	if err != nil {
		return nil, storageError("get unit", err)
	}
	idx := repository.IndexOf(units, func(u domain.ResidentialUnit) bool { return u.ID == id })
	if idx < 0 {
		return nil, domain.NotFoundError("unit %d not found", id)
	}
	return &units[idx], nil
}

func (s *unitService) CreateUnit(ctx context.Context, req UnitRequest) (*domain.ResidentialUnit, error) {
	if req.UnitNumber <= 0 || req.BuildingNumber <= 0 {
		return nil, domain.ValidationError("unit_number and building_number are required")
	}
	if !req.BuildingCategory.Valid() {
		return nil, domain.ValidationError("invalid building_category %q", req.BuildingCategory)
	}
	unitType := req.UnitType
	if unitType == "" {
		unitType = domain.UnitApartment
		if req.BuildingCategory == domain.CategoryVilla {
			unitType = domain.UnitVilla
		}
	}
	if !unitType.Valid() {
		return nil, domain.ValidationError("invalid unit_type %q", req.UnitType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	units, rev, err := s.units.Load(ctx)
	if err != nil {
		return nil, storageError("create unit", err)
	}
	for _, u := range units {
		if u.BuildingNumber == req.BuildingNumber && u.UnitNumber == req.UnitNumber {
			return nil, domain.ValidationError("unit %d in building %d already exists", req.UnitNumber, req.BuildingNumber)
		}
	}
	u := domain.ResidentialUnit{
		ID:                  repository.NextID(units, func(u domain.ResidentialUnit) int64 { return u.ID }),
		UnitNumber:          req.UnitNumber,
		BuildingNumber:      req.BuildingNumber,
		UnitName:            strings.TrimSpace(req.UnitName),
		BuildingCategory:    req.BuildingCategory,
		BuildingDescription: strings.TrimSpace(req.BuildingDescription),
		UnitType:            unitType,
		IsOccupied:          req.IsOccupied,
		FloorNumber:         req.FloorNumber,
		ResidentName:        req.ResidentName,
		ResidentPhone:       req.ResidentPhone,
		ParkingNumber:       req.ParkingNumber,
		AreaSqm:             req.AreaSqm,
		RoomsCount:          req.RoomsCount,
	}
	units = append(units, u)
	if _, err := s.units.Save(ctx, units, rev); err != nil {
		return nil, storageError("create unit", err)
	}
	return &u, nil
}

func (s *unitService) UpdateUnit(ctx context.Context, id int64, req UnitPatch) (*domain.ResidentialUnit, error) {
	if req.BuildingCategory != nil && !req.BuildingCategory.Valid() {
		return nil, domain.ValidationError("invalid building_category %q", *req.BuildingCategory)
	}
	if req.UnitType != nil && !req.UnitType.Valid() {
		return nil, domain.ValidationError("invalid unit_type %q", *req.UnitType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	units, rev, err := s.units.Load(ctx)
	if err != nil {
		return nil, storageError("update unit", err)
	}
	idx := repository.IndexOf(units, func(u domain.ResidentialUnit) bool { return u.ID == id })
	if idx < 0 {
		return nil, domain.NotFoundError("unit %d not found", id)
	}

	u := units[idx]
	setString(&u.UnitName, req.UnitName)
	setString(&u.BuildingDescription, req.BuildingDescription)
	if req.BuildingCategory != nil {
		u.BuildingCategory = *req.BuildingCategory
	}
	if req.UnitType != nil {
		u.UnitType = *req.UnitType
	}
	if req.IsOccupied != nil {
		u.IsOccupied = *req.IsOccupied
	}
	if req.FloorNumber != nil {
		u.FloorNumber = *req.FloorNumber
	}
	if req.ResidentName != nil {
		u.ResidentName = emptyToNil(*req.ResidentName)
	}
	if req.ResidentPhone != nil {
		u.ResidentPhone = emptyToNil(*req.ResidentPhone)
	}
	if req.ParkingNumber != nil {
		u.ParkingNumber = emptyToNil(*req.ParkingNumber)
	}
	if req.AreaSqm != nil {
		u.AreaSqm = *req.AreaSqm
	}
	if req.RoomsCount != nil {
		u.RoomsCount = *req.RoomsCount
	}
	units[idx] = u

	if _, err := s.units.Save(ctx, units, rev); err != nil {
		return nil, storageError("update unit", err)
	}
	return &u, nil
}

func (s *unitService) DeleteUnit(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	units, rev, err := s.units.Load(ctx)
	if err != nil {
		return storageError("delete unit", err)
	}
	kept := make([]domain.ResidentialUnit, 0, len(units))
	for _, u := range units {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(units) {
		return domain.NotFoundError("unit %d not found", id)
	}
	if _, err := s.units.Save(ctx, kept, rev); err != nil {
		return storageError("delete unit", err)
	}
	return nil
}

func (s *unitService) SearchUnits(ctx context.Context, q UnitQuery) ([]domain.ResidentialUnit, error) {
	switch q.Status {
	case domain.OccupancyAny, domain.OccupancyOccupied, domain.OccupancyVacant:
	default:
		return nil, domain.ValidationError("invalid occupancy status %q", q.Status)
	}
	if q.Category != "" && !q.Category.Valid() {
		return nil, domain.ValidationError("invalid building_category %q", q.Category)
	}
	units, _, err := s.units.Load(ctx)
	if err != nil {
		return nil, storageError("search units", err)
	}
	out := make([]domain.ResidentialUnit, 0)
	for _, u := range units {
		if domain.MatchesUnit(u, q.Term, q.Status, q.Category) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *unitService) Statistics(ctx context.Context) (*domain.UnitStatistics, error) {
	units, _, err := s.units.Load(ctx)
	if err != nil {
		return nil, storageError("unit statistics", err)
	}
	stats := domain.ComputeUnitStatistics(units)
	return &stats, nil
}

func (s *unitService) Occupancy(ctx context.Context) (*OccupancyReport, error) {
	units, _, err := s.units.Load(ctx)
	if err != nil {
		return nil, storageError("unit occupancy", err)
	}
	var residents []domain.Resident
	if s.residents != nil {
		residents, err = s.residents.Residents(ctx)
		if err != nil {
			return nil, storageError("unit occupancy", err)
		}
	}
	joined := domain.JoinResidents(units, residents)
	return &OccupancyReport{
		Units:      joined,
		Statistics: domain.ComputeUnitStatistics(joined),
		Residents:  len(residents),
	}, nil
}

func (s *unitService) EnsureSampleUnits(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	units, rev, err := s.units.Load(ctx)
	if err != nil {
		return 0, storageError("seed units", err)
	}
	if len(units) > 0 {
		return 0, nil
	}
	sample := GenerateSampleUnits(sampleSeed)
	if _, err := s.units.Save(ctx, sample, rev); err != nil {
		return 0, storageError("seed units", err)
	}
	s.logger.Info("Seeded sample residential units", zap.Int("count", len(sample)))
	return len(sample), nil
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
