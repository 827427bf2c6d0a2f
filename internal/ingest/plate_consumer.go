// Package ingest turns plate-recognition messages into violations.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

const handleTimeout = 5 * time.Second

// ViolationCreator the part of the violation service the consumer needs.
type ViolationCreator interface {
	CreateViolation(ctx context.Context, actor service.Actor, req service.ViolationRequest) (*domain.Violation, error)
}

// Recognition one camera read.
type Recognition struct {
	PlateNumber    string    `json:"plateNumber"`
	Confidence     float64   `json:"confidence"`
	VehicleType    string    `json:"vehicleType"`
	Location       string    `json:"location"`
	BuildingNumber string    `json:"buildingNumber"`
	ViolationType  string    `json:"violationType"`
	CapturedAt     time.Time `json:"capturedAt"`
}

type PlateConsumer struct {
	violations    ViolationCreator
	minConfidence float64
	logger        *zap.Logger
}

func NewPlateConsumer(violations ViolationCreator, minConfidence float64, logger *zap.Logger) *PlateConsumer {
	return &PlateConsumer{violations: violations, minConfidence: minConfidence, logger: logger}
}

// HandleMessage records a violation for a confident read. Low-confidence reads
// and reads without a plate are dropped without error.
func (c *PlateConsumer) HandleMessage(topic string, payload []byte) error {
	var rec Recognition
	if err := json.Unmarshal(payload, &rec); err != nil {
		return fmt.Errorf("decode recognition on %s: %w", topic, err)
	}
	rec.PlateNumber = strings.TrimSpace(rec.PlateNumber)
	if rec.PlateNumber == "" {
		c.logger.Debug("Dropping recognition without plate", zap.String("topic", topic))
		return nil
	}
	if rec.Confidence < c.minConfidence {
		c.logger.Debug("Dropping low-confidence recognition",
			zap.String("topic", topic),
			zap.String("plate", rec.PlateNumber),
			zap.Float64("confidence", rec.Confidence),
		)
		return nil
	}

	req := service.ViolationRequest{
		PlateNumber:    rec.PlateNumber,
		ViolationType:  rec.ViolationType,
		Location:       rec.Location,
		BuildingNumber: rec.BuildingNumber,
		Source:         domain.SourcePlateRecognizer,
		Confidence:     rec.Confidence,
		VehicleType:    rec.VehicleType,
	}
	if camera := cameraID(topic); camera != "" {
		req.Description = "camera " + camera
	}
	if !rec.CapturedAt.IsZero() {
		req.Date = rec.CapturedAt.Format("2006-01-02")
		req.Time = rec.CapturedAt.Format("15:04:05")
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()
	v, err := c.violations.CreateViolation(ctx, service.Actor{}, req)
	if err != nil {
		return fmt.Errorf("record violation for %s: %w", rec.PlateNumber, err)
	}
	c.logger.Info("Recorded recognized violation",
		zap.Int64("violation_id", v.ID),
		zap.String("plate", v.PlateNumber),
		zap.Float64("confidence", v.Confidence),
	)
	return nil
}

// cameraID last topic level, e.g. "gate-1" for housing/plates/gate-1.
func cameraID(topic string) string {
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		return topic[i+1:]
	}
	return ""
}
