package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ali5829511/wwwr/internal/domain"
)

// ReportsRepository read-only reporting views in the housing database.
// This data is independent of the KV collections and is never reconciled with them.
type ReportsRepository interface {
	ListResidentialUnits(ctx context.Context) ([]domain.ResidentialUnit, error)
	UnitStatistics(ctx context.Context) (map[string]any, error)
}

type PostgresReportsRepository struct {
	db *sql.DB
}

func NewPostgresReportsRepository(db *sql.DB) *PostgresReportsRepository {
	return &PostgresReportsRepository{db: db}
}

var _ ReportsRepository = (*PostgresReportsRepository)(nil)

func (r *PostgresReportsRepository) ListResidentialUnits(ctx context.Context) ([]domain.ResidentialUnit, error) {
	q := `
		SELECT
			id,
			unit_number,
			building_number,
			COALESCE(unit_name, ''),
			COALESCE(building_category, ''),
			COALESCE(building_description, ''),
			COALESCE(unit_type, ''),
			COALESCE(is_occupied, false),
			COALESCE(floor_number, 0),
			resident_name,
			resident_phone,
			parking_number,
			COALESCE(area_sqm, 0),
			COALESCE(rooms_count, 0)
		FROM v_residential_units_detailed
		ORDER BY building_number, unit_number
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query residential units: %w", err)
	}
	defer rows.Close()

	out := []domain.ResidentialUnit{}
	for rows.Next() {
		var (
			u                           domain.ResidentialUnit
			category, unitType          string
			residentName, residentPhone sql.NullString
			parkingNumber               sql.NullString
		)
		if err := rows.Scan(
			&u.ID,
			&u.UnitNumber,
			&u.BuildingNumber,
			&u.UnitName,
			&category,
			&u.BuildingDescription,
			&unitType,
			&u.IsOccupied,
			&u.FloorNumber,
			&residentName,
			&residentPhone,
			&parkingNumber,
			&u.AreaSqm,
			&u.RoomsCount,
		); err != nil {
			return nil, fmt.Errorf("scan residential unit: %w", err)
		}
		u.BuildingCategory = domain.BuildingCategory(category)
		u.UnitType = domain.UnitType(unitType)
		u.ResidentName = nullStringPtr(residentName)
		u.ResidentPhone = nullStringPtr(residentPhone)
		u.ParkingNumber = nullStringPtr(parkingNumber)
		out = append(out, u)
	}
	return out, rows.Err()
}

// UnitStatistics returns the single row of v_units_statistics keyed by column name.
func (r *PostgresReportsRepository) UnitStatistics(ctx context.Context) (map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT * FROM v_units_statistics`)
	if err != nil {
		return nil, fmt.Errorf("query unit statistics: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if !rows.Next() {
		return out, rows.Err()
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan unit statistics: %w", err)
	}
	for i, c := range cols {
		if b, ok := values[i].([]byte); ok {
			out[c] = string(b)
			continue
		}
		out[c] = values[i]
	}
	return out, rows.Err()
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
