package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Ali5829511/wwwr/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresReportsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresReportsRepository(db)
}

func TestListResidentialUnits_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "unit_number", "building_number", "unit_name", "building_category", "building_description",
		"unit_type", "is_occupied", "floor_number", "resident_name", "resident_phone", "parking_number",
		"area_sqm", "rooms_count",
	}).
		AddRow(1, 101, 3, "Apt 101", "old", "Building 3", "apartment", true, 1, "Fahd", "0500000001", "P-3-101", 120.0, 3).
		AddRow(2, 1, 1001, "Villa 1", "villa", "Villa 1", "villa", false, 1, nil, nil, nil, 300.0, 5)

	mock.ExpectQuery(`FROM v_residential_units_detailed`).WillReturnRows(rows)

	units, err := repo.ListResidentialUnits(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)

	assert.Equal(t, 101, units[0].UnitNumber)
	assert.Equal(t, domain.CategoryOld, units[0].BuildingCategory)
	require.NotNil(t, units[0].ResidentName)
	assert.Equal(t, "Fahd", *units[0].ResidentName)
	require.NotNil(t, units[0].ParkingNumber)
	assert.Equal(t, "P-3-101", *units[0].ParkingNumber)

	assert.Equal(t, domain.UnitVilla, units[1].UnitType)
	assert.Nil(t, units[1].ResidentName)
	assert.Nil(t, units[1].ParkingNumber)
	assert.Equal(t, 300.0, units[1].AreaSqm)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListResidentialUnits_QueryError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM v_residential_units_detailed`).WillReturnError(errors.New("relation does not exist"))

	units, err := repo.ListResidentialUnits(context.Background())
	assert.Error(t, err)
	assert.Nil(t, units)
	assert.Contains(t, err.Error(), "query residential units")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitStatistics_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"total_units", "occupied_units", "category"}).
		AddRow(int64(560), int64(498), []byte("all"))
	mock.ExpectQuery(`SELECT \* FROM v_units_statistics`).WillReturnRows(rows)

	stats, err := repo.UnitStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(560), stats["total_units"])
	assert.Equal(t, int64(498), stats["occupied_units"])
	assert.Equal(t, "all", stats["category"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitStatistics_EmptyView(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM v_units_statistics`).WillReturnRows(sqlmock.NewRows([]string{"total_units"}))

	stats, err := repo.UnitStatistics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)

	require.NoError(t, mock.ExpectationsWereMet())
}
