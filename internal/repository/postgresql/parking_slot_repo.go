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

const slotColumns = `id, parking_id, slot_number, size, status, floor, distance_from_entrance, created_at, updated_at`

type pgParkingSlotRepository struct {
	db *sql.DB
}

func NewPgParkingSlotRepository(db *sql.DB) repository.ParkingSlotRepository {
	return &pgParkingSlotRepository{db: db}
}

func (r *pgParkingSlotRepository) Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	query := `INSERT INTO slots (parking_id, slot_number, size, status, floor, distance_from_entrance)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, slot.ParkingID, slot.SlotNumber, slot.Size, slot.Status,
		slot.Floor, slot.DistanceFromEntranceM).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: slot %q already exists in this parking", repository.ErrDuplicateEntry, slot.SlotNumber)
		}
		return nil, fmt.Errorf("ParkingSlotRepository.Create: %w", err)
	}
	return slot, nil
}

func (r *pgParkingSlotRepository) FindByID(ctx context.Context, id int) (*domain.ParkingSlot, error) {
	slot := &domain.ParkingSlot{}
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`
	err := scanSlot(r.db.QueryRowContext(ctx, query, id), slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSlotRepository.FindByID: %w", err)
	}
	return slot, nil
}

func (r *pgParkingSlotRepository) FindByParkingID(ctx context.Context, parkingID int) ([]domain.ParkingSlot, error) {
	// slot_number order is what the allocator's tie break leans on.
	query := `SELECT ` + slotColumns + ` FROM slots WHERE parking_id = $1 ORDER BY slot_number`
	rows, err := r.db.QueryContext(ctx, query, parkingID)
	if err != nil {
		return nil, fmt.Errorf("ParkingSlotRepository.FindByParkingID: %w", err)
	}
	defer rows.Close()

	var slots []domain.ParkingSlot
	for rows.Next() {
		var slot domain.ParkingSlot
		if err := scanSlot(rows, &slot); err != nil {
			return nil, fmt.Errorf("ParkingSlotRepository.FindByParkingID (scanning row): %w", err)
		}
		slots = append(slots, slot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingSlotRepository.FindByParkingID (rows error): %w", err)
	}
	return slots, nil
}

func (r *pgParkingSlotRepository) UpdateStatus(ctx context.Context, id int, status domain.SlotStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE slots SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("ParkingSlotRepository.UpdateStatus: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ParkingSlotRepository.UpdateStatus (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgParkingSlotRepository) Update(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	query := `UPDATE slots SET parking_id = $1, slot_number = $2, size = $3, status = $4, floor = $5,
		distance_from_entrance = $6, updated_at = CURRENT_TIMESTAMP WHERE id = $7 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, slot.ParkingID, slot.SlotNumber, slot.Size, slot.Status,
		slot.Floor, slot.DistanceFromEntranceM, slot.ID).Scan(&slot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: slot %q already exists in this parking", repository.ErrDuplicateEntry, slot.SlotNumber)
		}
		return nil, fmt.Errorf("ParkingSlotRepository.Update: %w", err)
	}
	return slot, nil
}

func (r *pgParkingSlotRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ParkingSlotRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ParkingSlotRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanSlot(row rowScanner, slot *domain.ParkingSlot) error {
	return row.Scan(&slot.ID, &slot.ParkingID, &slot.SlotNumber, &slot.Size, &slot.Status,
		&slot.Floor, &slot.DistanceFromEntranceM, &slot.CreatedAt, &slot.UpdatedAt)
}
