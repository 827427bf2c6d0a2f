package export

import (
	"github.com/Ali5829511/wwwr/internal/domain"
)

var stickerStatusLabels = map[domain.StickerStatus]string{
	domain.StickerActive:    "نشط",
	domain.StickerInactive:  "غير نشط",
	domain.StickerCanceled:  "ملغي",
	domain.StickerViolating: "مخالف",
}

var violationStatusLabels = map[domain.ViolationStatus]string{
	domain.ViolationNew:        "جديدة",
	domain.ViolationInProgress: "قيد المعالجة",
	domain.ViolationResolved:   "محلولة",
	domain.ViolationCanceled:   "ملغاة",
}

var vehicleStatusLabels = map[domain.VehicleStatus]string{
	domain.VehicleActive:  "نشط",
	domain.VehicleWarning: "تحذير",
	domain.VehicleDanger:  "خطر",
}

var unitTypeLabels = map[domain.UnitType]string{
	domain.UnitVilla:     "فيلا",
	domain.UnitApartment: "شقة",
}

var categoryLabels = map[domain.BuildingCategory]string{
	domain.CategoryOld:   "المباني القديمة",
	domain.CategoryNew:   "المباني الجديدة",
	domain.CategoryVilla: "الفلل",
}

// label falls back to the raw value for codes without a translation.
func label[K ~string](labels map[K]string, k K) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

var stickerColumns = []column[domain.Sticker]{
	{"رقم الملصق", 12, func(s domain.Sticker) any { return s.ID }},
	{"رقم الهوية", 16, func(s domain.Sticker) any { return s.IDNumber }},
	{"اسم الساكن", 28, func(s domain.Sticker) any { return s.ResidentName }},
	{"رقم اللوحة", 16, func(s domain.Sticker) any { return s.PlateNumber }},
	{"نوع المركبة", 18, func(s domain.Sticker) any { return s.VehicleType }},
	{"نوع الوحدة", 12, func(s domain.Sticker) any { return label(unitTypeLabels, s.UnitType) }},
	{"رقم المبنى", 12, func(s domain.Sticker) any { return s.Building }},
	{"رقم الشقة", 12, func(s domain.Sticker) any { return s.Apartment }},
	{"تاريخ الإصدار", 16, func(s domain.Sticker) any { return s.IssueDate }},
	{"الحالة", 12, func(s domain.Sticker) any { return label(stickerStatusLabels, s.Status) }},
	{"ملاحظات", 30, func(s domain.Sticker) any { return s.Notes }},
}

var violationColumns = []column[domain.Violation]{
	{"رقم اللوحة", 16, func(v domain.Violation) any { return v.PlateNumber }},
	{"نوع المخالفة", 22, func(v domain.Violation) any { return v.ViolationType }},
	{"التاريخ", 14, func(v domain.Violation) any { return v.Date }},
	{"الوقت", 12, func(v domain.Violation) any { return v.Time }},
	{"الموقع", 26, func(v domain.Violation) any { return v.Location }},
	{"الحالة", 14, func(v domain.Violation) any { return label(violationStatusLabels, v.Status) }},
	{"الغرامة", 12, func(v domain.Violation) any { return v.Fine }},
}

var vehicleColumns = []column[domain.Vehicle]{
	{"رقم اللوحة", 16, func(v domain.Vehicle) any { return v.PlateNumber }},
	{"نوع المركبة", 18, func(v domain.Vehicle) any { return v.VehicleType }},
	{"اسم المالك", 28, func(v domain.Vehicle) any { return v.OwnerName }},
	{"رقم الجوال", 16, func(v domain.Vehicle) any { return v.OwnerPhone }},
	{"عدد المخالفات", 14, func(v domain.Vehicle) any { return v.ViolationsCount }},
	{"آخر مخالفة", 16, func(v domain.Vehicle) any { return deref(v.LastViolationDate) }},
	{"الحالة", 12, func(v domain.Vehicle) any { return label(vehicleStatusLabels, v.Status) }},
	{"تاريخ الإضافة", 20, func(v domain.Vehicle) any { return v.CreatedDate.Format("2006-01-02") }},
}

var unitColumns = []column[domain.ResidentialUnit]{
	{"رقم المبنى", 12, func(u domain.ResidentialUnit) any { return u.BuildingNumber }},
	{"رقم الوحدة", 12, func(u domain.ResidentialUnit) any { return u.UnitNumber }},
	{"اسم الوحدة", 24, func(u domain.ResidentialUnit) any { return u.UnitName }},
	{"الفئة", 18, func(u domain.ResidentialUnit) any { return label(categoryLabels, u.BuildingCategory) }},
	{"النوع", 10, func(u domain.ResidentialUnit) any { return label(unitTypeLabels, u.UnitType) }},
	{"الدور", 8, func(u domain.ResidentialUnit) any { return u.FloorNumber }},
	{"مشغولة", 10, func(u domain.ResidentialUnit) any {
		if u.IsOccupied {
			return "نعم"
		}
		return "لا"
	}},
	{"اسم الساكن", 26, func(u domain.ResidentialUnit) any { return deref(u.ResidentName) }},
	{"رقم الجوال", 16, func(u domain.ResidentialUnit) any { return deref(u.ResidentPhone) }},
	{"الموقف", 14, func(u domain.ResidentialUnit) any { return deref(u.ParkingNumber) }},
}

func (e *Exporter) Stickers(stickers []domain.Sticker) (*Report, error) {
	return build(e, "الملصقات", "تقرير ملصقات المواقف", "stickers", stickerColumns, stickers)
}

func (e *Exporter) Violations(violations []domain.Violation) (*Report, error) {
	return build(e, "المخالفات", "تقرير المخالفات المرورية", "violations", violationColumns, violations)
}

func (e *Exporter) Vehicles(vehicles []domain.Vehicle) (*Report, error) {
	return build(e, "المركبات", "تقرير تحليل السيارات", "vehicles", vehicleColumns, vehicles)
}

// RepeatOffenders expects vehicles already ordered by violation count.
func (e *Exporter) RepeatOffenders(vehicles []domain.Vehicle) (*Report, error) {
	return build(e, "المخالفون المتكررون", "تقرير المخالفين المتكررين", "repeat_offenders", vehicleColumns, vehicles)
}

func (e *Exporter) Units(units []domain.ResidentialUnit) (*Report, error) {
	return build(e, "الوحدات السكنية", "تقرير الوحدات السكنية", "units", unitColumns, units)
}
