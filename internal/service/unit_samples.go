package service

import (
	"fmt"
	"math/rand/v2"

	"github.com/Ali5829511/wwwr/internal/domain"
)

const sampleSeed = 2024

var (
	sampleFirstNames = []string{
		"محمد", "أحمد", "عبدالله", "عبدالرحمن", "خالد", "سعد", "فهد", "عبدالعزيز",
		"سلطان", "تركي", "ناصر", "سعود", "فيصل", "مشعل", "بندر", "عمر",
	}
	sampleLastNames = []string{
		"العتيبي", "الدوسري", "القحطاني", "الشمري", "الحربي", "الزهراني", "الغامدي", "العمري",
		"المطيري", "الشهري", "الأحمدي", "السهلي", "العنزي", "الرشيدي", "البقمي", "الجهني",
	}
	samplePhonePrefixes = []string{"050", "053", "054", "055", "056", "058", "059"}
)

// sampleNewBuildings 53-56, 61-68, 71-79.
func sampleNewBuildings() []int {
	var out []int
	for _, r := range [][2]int{{53, 56}, {61, 68}, {71, 79}} {
		for b := r[0]; b <= r[1]; b++ {
			out = append(out, b)
		}
	}
	return out
}

// GenerateSampleUnits builds the housing inventory: 30 old buildings (5 floors × 4 units),
// 21 new buildings (7 floors × 3 units) and 114 villas numbered from building 1001.
// Roughly 95% of units are occupied; the same seed always yields the same data.
func GenerateSampleUnits(seed uint64) []domain.ResidentialUnit {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	units := make([]domain.ResidentialUnit, 0, 600+441+114)
	var id int64

	add := func(u domain.ResidentialUnit) {
		id++
		u.ID = id
		u.IsOccupied = rng.Float64() > 0.05
		if u.IsOccupied {
			name := sampleFirstNames[rng.IntN(len(sampleFirstNames))] + " " + sampleLastNames[rng.IntN(len(sampleLastNames))]
			phone := fmt.Sprintf("%s%07d", samplePhonePrefixes[rng.IntN(len(samplePhonePrefixes))], rng.IntN(10000000))
			u.ResidentName = &name
			u.ResidentPhone = &phone
		}
		units = append(units, u)
	}
	parking := func(building, unit int) *string {
		p := fmt.Sprintf("P-%d-%d", building, unit)
		return &p
	}

	for b := 1; b <= 30; b++ {
		for floor := 0; floor <= 4; floor++ {
			for n := 1; n <= 4; n++ {
				unit := floor*10 + n
				add(domain.ResidentialUnit{
					UnitNumber:          unit,
					BuildingNumber:      b,
					UnitName:            fmt.Sprintf("شقة %d عمارة %d", unit, b),
					BuildingCategory:    domain.CategoryOld,
					BuildingDescription: fmt.Sprintf("عمارة %d - المباني القديمة", b),
					UnitType:            domain.UnitApartment,
					FloorNumber:         floor,
					ParkingNumber:       parking(b, unit),
					AreaSqm:             120,
					RoomsCount:          3,
				})
			}
		}
	}

	for _, b := range sampleNewBuildings() {
		for floor := 1; floor <= 7; floor++ {
			for n := 1; n <= 3; n++ {
				unit := floor*10 + n
				add(domain.ResidentialUnit{
					UnitNumber:          unit,
					BuildingNumber:      b,
					UnitName:            fmt.Sprintf("شقة %d عمارة %d", unit, b),
					BuildingCategory:    domain.CategoryNew,
					BuildingDescription: fmt.Sprintf("عمارة %d - المباني الجديدة", b),
					UnitType:            domain.UnitApartment,
					FloorNumber:         floor,
					ParkingNumber:       parking(b, unit),
					AreaSqm:             150,
					RoomsCount:          4,
				})
			}
		}
	}

	for v := 1; v <= 114; v++ {
		add(domain.ResidentialUnit{
			UnitNumber:          v,
			BuildingNumber:      1000 + v,
			UnitName:            fmt.Sprintf("فلة %d", v),
			BuildingCategory:    domain.CategoryVilla,
			BuildingDescription: fmt.Sprintf("فلة %d - الفلل الفردية", v),
			UnitType:            domain.UnitVilla,
			FloorNumber:         1,
			AreaSqm:             300,
			RoomsCount:          5,
		})
	}
	return units
}
