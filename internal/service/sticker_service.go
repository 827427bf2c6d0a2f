package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/repository"

	"go.uber.org/zap"
)

// StickerService parking permit records.
type StickerService interface {
	ListStickers(ctx context.Context) ([]domain.Sticker, error)
	GetSticker(ctx context.Context, id int64) (*domain.Sticker, error)
	CreateSticker(ctx context.Context, actor Actor, req StickerRequest) (*domain.Sticker, error)
	UpdateSticker(ctx context.Context, actor Actor, id int64, req StickerPatch) (*domain.Sticker, error)
	DeleteSticker(ctx context.Context, actor Actor, id int64) error
	SearchStickers(ctx context.Context, q StickerQuery) ([]domain.Sticker, error)
	Stats(ctx context.Context) (*domain.StickerStats, error)

	// EnsureDefaultStickers seeds sample permits when the stickers collection was never written.
	EnsureDefaultStickers(ctx context.Context) (int, error)
}

type stickerService struct {
	mu       sync.Mutex
	stickers *repository.Collection[domain.Sticker]
	logger   *zap.Logger
	now      func() time.Time
}

func NewStickerService(stickers *repository.Collection[domain.Sticker], logger *zap.Logger) StickerService {
	return &stickerService{stickers: stickers, logger: logger, now: time.Now}
}

// StickerRequest new sticker; Status defaults to active, IssueDate to today.
type StickerRequest struct {
	IDNumber     string               `json:"idNumber"`
	ResidentName string               `json:"residentName"`
	Status       domain.StickerStatus `json:"status"`
	IssueDate    string               `json:"issueDate"`
	PlateNumber  string               `json:"plateNumber"`
	VehicleType  string               `json:"vehicleType"`
	UnitType     domain.UnitType      `json:"unitType"`
	Building     string               `json:"building"`
	Apartment    string               `json:"apartment"`
	Notes        string               `json:"notes"`
}

type StickerPatch struct {
	IDNumber     *string               `json:"idNumber"`
	ResidentName *string               `json:"residentName"`
	Status       *domain.StickerStatus `json:"status"`
	IssueDate    *string               `json:"issueDate"`
	PlateNumber  *string               `json:"plateNumber"`
	VehicleType  *string               `json:"vehicleType"`
	UnitType     *domain.UnitType      `json:"unitType"`
	Building     *string               `json:"building"`
	Apartment    *string               `json:"apartment"`
	Notes        *string               `json:"notes"`
}

// StickerQuery substring filters; empty fields match everything.
type StickerQuery struct {
	IDNumber string
	Plate    string
}

func (s *stickerService) ListStickers(ctx context.Context) ([]domain.Sticker, error) {
	stickers, _, err := s.stickers.Load(ctx)
	if err != nil {
		return nil, storageError("list stickers", err)
	}
	return stickers, nil
}

func (s *stickerService) GetSticker(ctx context.Context, id int64) (*domain.Sticker, error) {
	stickers, _, err := s.stickers.Load(ctx)
	if err != nil {
		return nil, storageError("get sticker", err)
	}
	idx := repository.IndexOf(stickers, func(st domain.Sticker) bool { return st.ID == id })
	if idx < 0 {
		return nil, domain.NotFoundError("sticker %d not found", id)
	}
	return &stickers[idx], nil
}

func (s *stickerService) CreateSticker(ctx context.Context, actor Actor, req StickerRequest) (*domain.Sticker, error) {
	if strings.TrimSpace(req.PlateNumber) == "" {
		return nil, domain.ValidationError("plateNumber is required")
	}
	if strings.TrimSpace(req.ResidentName) == "" {
		return nil, domain.ValidationError("residentName is required")
	}
	status := req.Status
	if status == "" {
		status = domain.StickerActive
	}
	if !status.Valid() {
		return nil, domain.ValidationError("invalid sticker status %q", req.Status)
	}
	if req.UnitType != "" && !req.UnitType.Valid() {
		return nil, domain.ValidationError("invalid unitType %q", req.UnitType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stickers, rev, err := s.stickers.Load(ctx)
	if err != nil {
		return nil, storageError("create sticker", err)
	}
	now := s.now()
	issueDate := strings.TrimSpace(req.IssueDate)
	if issueDate == "" {
		issueDate = now.Format("2006-01-02")
	}
	st := domain.Sticker{
		ID:           repository.NextID(stickers, func(st domain.Sticker) int64 { return st.ID }),
		IDNumber:     strings.TrimSpace(req.IDNumber),
		ResidentName: strings.TrimSpace(req.ResidentName),
		Status:       status,
		IssueDate:    issueDate,
		PlateNumber:  strings.TrimSpace(req.PlateNumber),
		VehicleType:  strings.TrimSpace(req.VehicleType),
		UnitType:     req.UnitType,
		Building:     strings.TrimSpace(req.Building),
		Apartment:    strings.TrimSpace(req.Apartment),
		Notes:        req.Notes,
		CreatedDate:  now,
		CreatedBy:    actor.ref(),
	}
	stickers = append(stickers, st)
	if _, err := s.stickers.Save(ctx, stickers, rev); err != nil {
		return nil, storageError("create sticker", err)
	}
	s.logger.Info("Sticker created", zap.Int64("sticker_id", st.ID), zap.String("plate", st.PlateNumber))
	return &st, nil
}

func (s *stickerService) UpdateSticker(ctx context.Context, actor Actor, id int64, req StickerPatch) (*domain.Sticker, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, domain.ValidationError("invalid sticker status %q", *req.Status)
	}
	if req.UnitType != nil && *req.UnitType != "" && !req.UnitType.Valid() {
		return nil, domain.ValidationError("invalid unitType %q", *req.UnitType)
	}
	if req.PlateNumber != nil && strings.TrimSpace(*req.PlateNumber) == "" {
		return nil, domain.ValidationError("plateNumber is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stickers, rev, err := s.stickers.Load(ctx)
	if err != nil {
		return nil, storageError("update sticker", err)
	}
	idx := repository.IndexOf(stickers, func(st domain.Sticker) bool { return st.ID == id })
	if idx < 0 {
		return nil, domain.NotFoundError("sticker %d not found", id)
	}

	st := stickers[idx]
	setString(&st.IDNumber, req.IDNumber)
	setString(&st.ResidentName, req.ResidentName)
	setString(&st.IssueDate, req.IssueDate)
	setString(&st.PlateNumber, req.PlateNumber)
	setString(&st.VehicleType, req.VehicleType)
	setString(&st.Building, req.Building)
	setString(&st.Apartment, req.Apartment)
	if req.Notes != nil {
		st.Notes = *req.Notes
	}
	if req.Status != nil {
		st.Status = *req.Status
	}
	if req.UnitType != nil {
		st.UnitType = *req.UnitType
	}
	st.UpdatedDate = timePtr(s.now())
	st.UpdatedBy = actor.ref()
	stickers[idx] = st

	if _, err := s.stickers.Save(ctx, stickers, rev); err != nil {
		return nil, storageError("update sticker", err)
	}
	return &st, nil
}

func (s *stickerService) DeleteSticker(ctx context.Context, actor Actor, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stickers, rev, err := s.stickers.Load(ctx)
	if err != nil {
		return storageError("delete sticker", err)
	}
	kept := make([]domain.Sticker, 0, len(stickers))
	for _, st := range stickers {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	if len(kept) == len(stickers) {
		return domain.NotFoundError("sticker %d not found", id)
	}
	if _, err := s.stickers.Save(ctx, kept, rev); err != nil {
		return storageError("delete sticker", err)
	}
	s.logger.Info("Sticker deleted", zap.Int64("sticker_id", id), zap.String("by", actor.Username))
	return nil
}

func (s *stickerService) SearchStickers(ctx context.Context, q StickerQuery) ([]domain.Sticker, error) {
	stickers, _, err := s.stickers.Load(ctx)
	if err != nil {
		return nil, storageError("search stickers", err)
	}
	idNumber := strings.TrimSpace(q.IDNumber)
	plate := strings.TrimSpace(q.Plate)
	out := make([]domain.Sticker, 0)
	for _, st := range stickers {
		if idNumber != "" && !strings.Contains(st.IDNumber, idNumber) {
			continue
		}
		if plate != "" && !containsFold(st.PlateNumber, plate) {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *stickerService) Stats(ctx context.Context) (*domain.StickerStats, error) {
	stickers, _, err := s.stickers.Load(ctx)
	if err != nil {
		return nil, storageError("sticker stats", err)
	}
	stats := domain.ComputeStickerStats(stickers, s.now())
	return &stats, nil
}

var defaultStickers = []domain.Sticker{
	{
		IDNumber: "1234567890", ResidentName: "د. أحمد محمد علي", Status: domain.StickerActive,
		IssueDate: "2025-01-15", PlateNumber: "ر ق ل 1234", VehicleType: "سيدان",
		UnitType: domain.UnitVilla, Building: "15", Apartment: "25", Notes: "ملصق جديد",
	},
	{
		IDNumber: "9876543210", ResidentName: "د. فاطمة أحمد", Status: domain.StickerActive,
		IssueDate: "2025-01-20", PlateNumber: "ر ق ل 5678", VehicleType: "SUV",
		UnitType: domain.UnitApartment, Building: "8", Apartment: "45", Notes: "تجديد ملصق",
	},
	{
		IDNumber: "5555555555", ResidentName: "د. محمد سعد", Status: domain.StickerInactive,
		IssueDate: "2024-12-01", PlateNumber: "ر ق ل 9999", VehicleType: "هاتشباك",
		UnitType: domain.UnitVilla, Building: "12", Apartment: "10", Notes: "منتهي الصلاحية",
	},
}

func (s *stickerService) EnsureDefaultStickers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.stickers.Exists(ctx)
	if err != nil {
		return 0, storageError("seed stickers", err)
	}
	if exists {
		return 0, nil
	}
	now := s.now()
	stickers := make([]domain.Sticker, len(defaultStickers))
	for i, st := range defaultStickers {
		st.ID = int64(i + 1)
		st.CreatedDate = now
		stickers[i] = st
	}
	_, rev, err := s.stickers.Load(ctx)
	if err != nil {
		return 0, storageError("seed stickers", err)
	}
	if _, err := s.stickers.Save(ctx, stickers, rev); err != nil {
		return 0, storageError("seed stickers", err)
	}
	s.logger.Info("Seeded sample stickers", zap.Int("count", len(stickers)))
	return len(stickers), nil
}
