package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

const parkingLotColumns = `id, name, address, lat, lng, base_price, total_slots, occupied_slots, created_at, updated_at`

type pgParkingLotRepository struct {
	db *sql.DB
}

func NewPgParkingLotRepository(db *sql.DB) repository.ParkingLotRepository {
	return &pgParkingLotRepository{db: db}
}

func (r *pgParkingLotRepository) Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	query := `INSERT INTO parkings (name, address, lat, lng, base_price, total_slots)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, occupied_slots, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, lot.Name, lot.Address, lot.Lat, lot.Lng, lot.BasePrice, lot.TotalSlots).
		Scan(&lot.ID, &lot.OccupiedSlots, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: parking %q already exists", repository.ErrDuplicateEntry, lot.Name)
		}
		return nil, fmt.Errorf("ParkingLotRepository.Create: %w", err)
	}
	return lot, nil
}

func (r *pgParkingLotRepository) FindByID(ctx context.Context, id int) (*domain.ParkingLot, error) {
	lot := &domain.ParkingLot{}
	query := `SELECT ` + parkingLotColumns + ` FROM parkings WHERE id = $1`
	err := scanParkingLot(r.db.QueryRowContext(ctx, query, id), lot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingLotRepository.FindByID: %w", err)
	}
	return lot, nil
}

func (r *pgParkingLotRepository) FindAll(ctx context.Context) ([]domain.ParkingLot, error) {
	query := `SELECT ` + parkingLotColumns + ` FROM parkings ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ParkingLotRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var lots []domain.ParkingLot
	for rows.Next() {
		var lot domain.ParkingLot
		if err := scanParkingLot(rows, &lot); err != nil {
			return nil, fmt.Errorf("ParkingLotRepository.FindAll (scanning row): %w", err)
		}
		lots = append(lots, lot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingLotRepository.FindAll (rows error): %w", err)
	}
	return lots, nil
}

func (r *pgParkingLotRepository) Update(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	query := `UPDATE parkings SET name = $1, address = $2, lat = $3, lng = $4, base_price = $5,
		total_slots = $6, updated_at = CURRENT_TIMESTAMP WHERE id = $7 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, lot.Name, lot.Address, lot.Lat, lot.Lng, lot.BasePrice, lot.TotalSlots, lot.ID).
		Scan(&lot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: parking %q already exists", repository.ErrDuplicateEntry, lot.Name)
		}
		return nil, fmt.Errorf("ParkingLotRepository.Update: %w", err)
	}
	return lot, nil
}

func (r *pgParkingLotRepository) AdjustOccupancy(ctx context.Context, id int, delta int) (*domain.ParkingLot, error) {
	lot := &domain.ParkingLot{}
	query := `UPDATE parkings
		SET occupied_slots = GREATEST(0, LEAST(total_slots, occupied_slots + $1)), updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 RETURNING ` + parkingLotColumns
	err := scanParkingLot(r.db.QueryRowContext(ctx, query, delta, id), lot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingLotRepository.AdjustOccupancy: %w", err)
	}
	return lot, nil
}

func (r *pgParkingLotRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parkings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ParkingLotRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ParkingLotRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanParkingLot(row rowScanner, lot *domain.ParkingLot) error {
	return row.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.Lat, &lot.Lng, &lot.BasePrice,
		&lot.TotalSlots, &lot.OccupiedSlots, &lot.CreatedAt, &lot.UpdatedAt)
}
