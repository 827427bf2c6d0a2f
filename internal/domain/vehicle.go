package domain

import (
	"math"
	"sort"
	"strings"
	"time"
)

type VehicleStatus string

const (
	VehicleActive  VehicleStatus = "active"
	VehicleWarning VehicleStatus = "warning"
	VehicleDanger  VehicleStatus = "danger"
)

// Risk thresholds on violationsCount.
const (
	WarningThreshold = 3
	DangerThreshold  = 5

	// DefaultRepeatOffenderMin minimum count for a repeat offender when none is given.
	DefaultRepeatOffenderMin = 2
)

// Unspecified placeholder for vehicle fields not known at creation.
const Unspecified = "غير محدد"

// AutoAddedNote note on vehicles synthesized from violations.
const AutoAddedNote = "auto-added from violations"

// Vehicle keyed by plate. ViolationsCount, LastViolationDate and Status are a projection
// of the violations collection as of StatsComputedAt; edits to violations make them stale
// until the next recompute.
type Vehicle struct {
	PlateNumber       string        `json:"plateNumber"`
	VehicleType       string        `json:"vehicleType"`
	OwnerName         string        `json:"ownerName"`
	OwnerPhone        string        `json:"ownerPhone"`
	OwnerEmail        string        `json:"ownerEmail,omitempty"`
	Notes             string        `json:"notes"`
	ViolationsCount   int           `json:"violationsCount"`
	LastViolationDate *string       `json:"lastViolationDate"`
	Status            VehicleStatus `json:"status"`
	StatsComputedAt   *time.Time    `json:"statsComputedAt,omitempty"`
	CreatedDate       time.Time     `json:"createdDate"`
	UpdatedDate       *time.Time    `json:"updatedDate,omitempty"`
}

// ClassifyVehicle maps a violation count to a risk status.
func ClassifyVehicle(count int) VehicleStatus {
	switch {
	case count >= DangerThreshold:
		return VehicleDanger
	case count >= WarningThreshold:
		return VehicleWarning
	default:
		return VehicleActive
	}
}

// NormalizePlate the form plates are compared in; surrounding blanks are dropped.
func NormalizePlate(plate string) string {
	return strings.TrimSpace(plate)
}

// ProjectVehicleStats recomputes the derived fields of every vehicle from violations.
// Cost is O(vehicles × violations), fine for hundreds of records, not for tens of thousands.
// The input slice is not modified.
func ProjectVehicleStats(vehicles []Vehicle, violations []Violation, now time.Time) []Vehicle {
	out := make([]Vehicle, len(vehicles))
	for i, v := range vehicles {
		plate := NormalizePlate(v.PlateNumber)
		var matches []Violation
		for _, vio := range violations {
			if NormalizePlate(vio.PlateNumber) == plate {
				matches = append(matches, vio)
			}
		}
		v.ViolationsCount = len(matches)
		v.LastViolationDate = nil
		if len(matches) > 0 {
			sort.SliceStable(matches, func(a, b int) bool {
				return matches[a].OccurredAt().After(matches[b].OccurredAt())
			})
			last := matches[0].DateLabel()
			v.LastViolationDate = &last
		}
		v.Status = ClassifyVehicle(v.ViolationsCount)
		computed := now
		v.StatsComputedAt = &computed
		out[i] = v
	}
	return out
}

// RepeatedOffenders vehicles with at least minCount violations, most violations first.
// Equal counts are ordered by plate number.
func RepeatedOffenders(vehicles []Vehicle, minCount int) []Vehicle {
	if minCount <= 0 {
		minCount = DefaultRepeatOffenderMin
	}
	out := make([]Vehicle, 0)
	for _, v := range vehicles {
		if v.ViolationsCount >= minCount {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ViolationsCount != out[j].ViolationsCount {
			return out[i].ViolationsCount > out[j].ViolationsCount
		}
		return out[i].PlateNumber < out[j].PlateNumber
	})
	return out
}

// MissingVehicles synthesizes a vehicle for every violation plate absent from vehicles.
// Each plate is added once, in order of first appearance.
func MissingVehicles(vehicles []Vehicle, violations []Violation, now time.Time) []Vehicle {
	known := make(map[string]struct{}, len(vehicles))
	for _, v := range vehicles {
		known[NormalizePlate(v.PlateNumber)] = struct{}{}
	}
	var added []Vehicle
	for _, vio := range violations {
		plate := NormalizePlate(vio.PlateNumber)
		if plate == "" {
			continue
		}
		if _, ok := known[plate]; ok {
			continue
		}
		known[plate] = struct{}{}
		added = append(added, Vehicle{
			PlateNumber: plate,
			VehicleType: orDefault(vio.VehicleType, Unspecified),
			OwnerName:   orDefault(vio.DriverName, Unspecified),
			OwnerPhone:  vio.DriverPhone,
			Notes:       AutoAddedNote,
			Status:      VehicleActive,
			CreatedDate: now,
		})
	}
	return added
}

// MatchesVehicle case-insensitive contains on plate, type, owner and phone.
func MatchesVehicle(v Vehicle, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range []string{v.PlateNumber, v.VehicleType, v.OwnerName, v.OwnerPhone} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// AdvancedStatistics cross-collection report over vehicles and violations.
type AdvancedStatistics struct {
	TotalVehicles               int            `json:"totalVehicles"`
	TotalViolations             int            `json:"totalViolations"`
	RepeatedOffenders           int            `json:"repeatedOffenders"`
	DangerousVehicles           int            `json:"dangerousVehicles"`
	WarningVehicles             int            `json:"warningVehicles"`
	ViolationsByType            map[string]int `json:"violationsByType"`
	ViolationsByMonth           map[string]int `json:"violationsByMonth"`
	AverageViolationsPerVehicle float64        `json:"averageViolationsPerVehicle"`
}

func ComputeAdvancedStatistics(vehicles []Vehicle, violations []Violation) AdvancedStatistics {
	s := AdvancedStatistics{
		TotalVehicles:     len(vehicles),
		TotalViolations:   len(violations),
		ViolationsByType:  map[string]int{},
		ViolationsByMonth: map[string]int{},
	}
	for _, v := range vehicles {
		if v.ViolationsCount >= DefaultRepeatOffenderMin {
			s.RepeatedOffenders++
		}
		switch v.Status {
		case VehicleDanger:
			s.DangerousVehicles++
		case VehicleWarning:
			s.WarningVehicles++
		}
	}
	for _, vio := range violations {
		s.ViolationsByType[orDefault(vio.ViolationType, Unspecified)]++
		if at := vio.OccurredAt(); !at.IsZero() {
			s.ViolationsByMonth[at.Format("2006-01")]++
		}
	}
	if len(vehicles) > 0 {
		avg := float64(len(violations)) / float64(len(vehicles))
		s.AverageViolationsPerVehicle = math.Round(avg*100) / 100
	}
	return s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
