package domain

import "time"

type StickerStatus string

const (
	StickerActive    StickerStatus = "active"
	StickerInactive  StickerStatus = "inactive"
	StickerCanceled  StickerStatus = "canceled"
	StickerViolating StickerStatus = "violating"
)

func (s StickerStatus) Valid() bool {
	switch s {
	case StickerActive, StickerInactive, StickerCanceled, StickerViolating:
		return true
	}
	return false
}

type UnitType string

const (
	UnitVilla     UnitType = "villa"
	UnitApartment UnitType = "apartment"
)

func (t UnitType) Valid() bool { return t == UnitVilla || t == UnitApartment }

// Sticker parking permit. PlateNumber loosely links it to violations and vehicles.
type Sticker struct {
	ID           int64         `json:"id"`
	IDNumber     string        `json:"idNumber"`
	ResidentName string        `json:"residentName"`
	Status       StickerStatus `json:"status"`
	IssueDate    string        `json:"issueDate"`
	PlateNumber  string        `json:"plateNumber"`
	VehicleType  string        `json:"vehicleType"`
	UnitType     UnitType      `json:"unitType"`
	Building     string        `json:"building"`
	Apartment    string        `json:"apartment"`
	Notes        string        `json:"notes"`
	CreatedDate  time.Time     `json:"createdDate"`
	CreatedBy    *int64        `json:"createdBy,omitempty"`
	UpdatedDate  *time.Time    `json:"updatedDate,omitempty"`
	UpdatedBy    *int64        `json:"updatedBy,omitempty"`
}

type StickerStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Inactive   int `json:"inactive"`
	Canceled   int `json:"canceled"`
	Violating  int `json:"violating"`
	Today      int `json:"today"`
	ThisWeek   int `json:"thisWeek"`
	Villas     int `json:"villas"`
	Apartments int `json:"apartments"`
}

// ComputeStickerStats "today" and "thisWeek" count stickers created since local midnight
// and within the last 7 days of now.
func ComputeStickerStats(stickers []Sticker, now time.Time) StickerStats {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	s := StickerStats{Total: len(stickers)}
	for _, st := range stickers {
		switch st.Status {
		case StickerActive:
			s.Active++
		case StickerInactive:
			s.Inactive++
		case StickerCanceled:
			s.Canceled++
		case StickerViolating:
			s.Violating++
		}
		switch st.UnitType {
		case UnitVilla:
			s.Villas++
		case UnitApartment:
			s.Apartments++
		}
		if !st.CreatedDate.Before(startOfDay) {
			s.Today++
		}
		if !st.CreatedDate.Before(weekAgo) {
			s.ThisWeek++
		}
	}
	return s
}
