package domain

import (
	"strconv"
	"strings"
)

type BuildingCategory string

const (
	CategoryOld   BuildingCategory = "old"
	CategoryNew   BuildingCategory = "new"
	CategoryVilla BuildingCategory = "villa"
)

func (c BuildingCategory) Valid() bool {
	return c == CategoryOld || c == CategoryNew || c == CategoryVilla
}

// ResidentialUnit apartment or villa. Occupancy is either stored or derived from residents.
type ResidentialUnit struct {
	ID                  int64            `json:"id"`
	UnitNumber          int              `json:"unit_number"`
	BuildingNumber      int              `json:"building_number"`
	UnitName            string           `json:"unit_name"`
	BuildingCategory    BuildingCategory `json:"building_category"`
	BuildingDescription string           `json:"building_description"`
	UnitType            UnitType         `json:"unit_type"`
	IsOccupied          bool             `json:"is_occupied"`
	FloorNumber         int              `json:"floor_number"`
	ResidentName        *string          `json:"resident_name"`
	ResidentPhone       *string          `json:"resident_phone"`
	ParkingNumber       *string          `json:"parking_number"`
	AreaSqm             float64          `json:"area_sqm"`
	RoomsCount          int              `json:"rooms_count"`
}

// Resident occupant record from the external data feed.
type Resident struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	BuildingNumber int    `json:"building_number"`
	UnitNumber     int    `json:"unit_number"`
}

type UnitStatistics struct {
	Total    int `json:"total_units"`
	Occupied int `json:"occupied_units"`
	Vacant   int `json:"vacant_units"`
	Villas   int `json:"villas_count"`
	New      int `json:"new_buildings_units"`
	Old      int `json:"old_buildings_units"`
}

func ComputeUnitStatistics(units []ResidentialUnit) UnitStatistics {
	s := UnitStatistics{Total: len(units)}
	for _, u := range units {
		if u.IsOccupied {
			s.Occupied++
		} else {
			s.Vacant++
		}
		if u.UnitType == UnitVilla {
			s.Villas++
		}
		switch u.BuildingCategory {
		case CategoryNew:
			s.New++
		case CategoryOld:
			s.Old++
		}
	}
	return s
}

// JoinResidents derives occupancy by matching residents on (building_number, unit_number).
// Units without a resident are vacant; the input slice is not modified.
func JoinResidents(units []ResidentialUnit, residents []Resident) []ResidentialUnit {
	type key struct{ building, unit int }
	byUnit := make(map[key]Resident, len(residents))
	for _, r := range residents {
		k := key{r.BuildingNumber, r.UnitNumber}
		if _, dup := byUnit[k]; !dup {
			byUnit[k] = r
		}
	}
	out := make([]ResidentialUnit, len(units))
	for i, u := range units {
		if r, ok := byUnit[key{u.BuildingNumber, u.UnitNumber}]; ok {
			name, phone := r.Name, r.Phone
			u.IsOccupied = true
			u.ResidentName = &name
			u.ResidentPhone = &phone
		} else {
			u.IsOccupied = false
			u.ResidentName = nil
			u.ResidentPhone = nil
		}
		out[i] = u
	}
	return out
}

// UnitOccupancy filter values for SearchUnits.
const (
	OccupancyAny      = ""
	OccupancyOccupied = "occupied"
	OccupancyVacant   = "vacant"
)

// MatchesUnit applies the term (unit/building number, name, resident) and the filters.
func MatchesUnit(u ResidentialUnit, term, occupancy string, category BuildingCategory) bool {
	switch occupancy {
	case OccupancyOccupied:
		if !u.IsOccupied {
			return false
		}
	case OccupancyVacant:
		if u.IsOccupied {
			return false
		}
	}
	if category != "" && u.BuildingCategory != category {
		return false
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{
		strconv.Itoa(u.UnitNumber),
		strconv.Itoa(u.BuildingNumber),
		u.UnitName,
	}
	if u.ResidentName != nil {
		fields = append(fields, *u.ResidentName)
	}
	if u.ResidentPhone != nil {
		fields = append(fields, *u.ResidentPhone)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
