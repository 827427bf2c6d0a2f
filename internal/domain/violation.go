package domain

import (
	"strings"
	"time"
)

type ViolationStatus string

const (
	ViolationNew        ViolationStatus = "new"
	ViolationInProgress ViolationStatus = "in_progress"
	ViolationResolved   ViolationStatus = "resolved"
	ViolationCanceled   ViolationStatus = "canceled"
)

func (s ViolationStatus) Valid() bool {
	switch s {
	case ViolationNew, ViolationInProgress, ViolationResolved, ViolationCanceled:
		return true
	}
	return false
}

const (
	SourceManual          = "manual"
	SourcePlateRecognizer = "plate_recognizer"
)

// Default values applied to violations created without them.
const (
	DefaultViolationType = "مخالفة مرورية"
	DefaultLocation      = "وحدة إسكان هيئة التدريس"
)

// Violation traffic violation. Date is "YYYY-MM-DD", Time is "HH:MM:SS".
type Violation struct {
	ID             int64           `json:"id"`
	PlateNumber    string          `json:"plateNumber"`
	ViolationType  string          `json:"violationType"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Location       string          `json:"location"`
	BuildingNumber string          `json:"buildingNumber"`
	Description    string          `json:"description"`
	Status         ViolationStatus `json:"status"`
	Fine           float64         `json:"fine"`
	Source         string          `json:"source"`
	Confidence     float64         `json:"confidence"`
	VehicleType    string          `json:"vehicleType,omitempty"`
	DriverName     string          `json:"driverName,omitempty"`
	DriverPhone    string          `json:"driverPhone,omitempty"`
	CreatedDate    time.Time       `json:"createdDate"`
	CreatedBy      *int64          `json:"createdBy,omitempty"`
	UpdatedDate    *time.Time      `json:"updatedDate,omitempty"`
	UpdatedBy      *int64          `json:"updatedBy,omitempty"`
}

var violationDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006/01/02"}

// OccurredAt when the violation happened: Date (plus Time when present), else CreatedDate.
func (v Violation) OccurredAt() time.Time {
	d := strings.TrimSpace(v.Date)
	if d != "" {
		if t := strings.TrimSpace(v.Time); t != "" && len(d) == len("2006-01-02") {
			if ts, err := time.Parse("2006-01-02 15:04:05", d+" "+t); err == nil {
				return ts
			}
			if ts, err := time.Parse("2006-01-02 15:04", d+" "+t); err == nil {
				return ts
			}
		}
		for _, layout := range violationDateLayouts {
			if ts, err := time.Parse(layout, d); err == nil {
				return ts
			}
		}
	}
	return v.CreatedDate
}

// DateLabel the date value reported as a vehicle's lastViolationDate.
func (v Violation) DateLabel() string {
	if strings.TrimSpace(v.Date) != "" {
		return v.Date
	}
	if v.CreatedDate.IsZero() {
		return ""
	}
	return v.CreatedDate.Format(time.RFC3339)
}

type ViolationStats struct {
	Total     int                     `json:"total"`
	ThisMonth int                     `json:"thisMonth"`
	ThisWeek  int                     `json:"thisWeek"`
	ByStatus  map[ViolationStatus]int `json:"byStatus"`
}

func ComputeViolationStats(violations []Violation, now time.Time) ViolationStats {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	s := ViolationStats{Total: len(violations), ByStatus: map[ViolationStatus]int{}}
	for _, v := range violations {
		if !v.CreatedDate.Before(monthStart) {
			s.ThisMonth++
		}
		if !v.CreatedDate.Before(weekAgo) {
			s.ThisWeek++
		}
		s.ByStatus[v.Status]++
	}
	return s
}
