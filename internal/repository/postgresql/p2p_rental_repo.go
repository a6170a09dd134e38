package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

const p2pRentalColumns = `id, listing_id, owner_user_id, renter_user_id, renter_phone_number, description,
	location_lat, location_lng, vehicle_size_allowed, rental_start_time, rental_end_time,
	rental_duration_mode, rental_units, amount, status, paid_at, created_at`

type pgP2PRentalRepository struct {
	db *sql.DB
}

func NewPgP2PRentalRepository(db *sql.DB) repository.P2PRentalRepository {
	return &pgP2PRentalRepository{db: db}
}

func (r *pgP2PRentalRepository) Create(ctx context.Context, record *domain.P2PRentalRecord) (*domain.P2PRentalRecord, error) {
	query := `INSERT INTO p2p_rental_history (listing_id, owner_user_id, renter_user_id, renter_phone_number,
		description, location_lat, location_lng, vehicle_size_allowed, rental_start_time, rental_end_time,
		rental_duration_mode, rental_units, amount, status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, record.ListingID, record.OwnerUserID, record.RenterUserID,
		record.RenterPhoneNumber, record.Description, record.LocationLat, record.LocationLng,
		record.VehicleSizeAllowed, record.RentalStartTime, record.RentalEndTime, record.RentalDurationMode,
		record.RentalUnits, record.Amount, record.Status, record.PaidAt).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("P2PRentalRepository.Create: %w", err)
	}
	return record, nil
}

func (r *pgP2PRentalRepository) FindPendingByRenter(ctx context.Context, renterUserID int) ([]domain.P2PRentalRecord, error) {
	query := `SELECT ` + p2pRentalColumns + ` FROM p2p_rental_history
		WHERE renter_user_id = $1 AND status = 'pending' ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, renterUserID)
	if err != nil {
		return nil, fmt.Errorf("P2PRentalRepository.FindPendingByRenter: %w", err)
	}
	defer rows.Close()

	var records []domain.P2PRentalRecord
	for rows.Next() {
		var record domain.P2PRentalRecord
		if err := scanP2PRental(rows, &record); err != nil {
			return nil, fmt.Errorf("P2PRentalRepository.FindPendingByRenter (scanning row): %w", err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("P2PRentalRepository.FindPendingByRenter (rows error): %w", err)
	}
	return records, nil
}

func (r *pgP2PRentalRepository) MarkPaid(ctx context.Context, id int, renterUserID int, paidAt time.Time) (*domain.P2PRentalRecord, error) {
	record := &domain.P2PRentalRecord{}
	query := `UPDATE p2p_rental_history SET status = 'paid', paid_at = $1
		WHERE id = $2 AND renter_user_id = $3 AND status = 'pending'
		RETURNING ` + p2pRentalColumns
	err := scanP2PRental(r.db.QueryRowContext(ctx, query, paidAt, id, renterUserID), record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("P2PRentalRepository.MarkPaid: %w", err)
	}
	return record, nil
}

func scanP2PRental(row rowScanner, record *domain.P2PRentalRecord) error {
	return row.Scan(&record.ID, &record.ListingID, &record.OwnerUserID, &record.RenterUserID,
		&record.RenterPhoneNumber, &record.Description, &record.LocationLat, &record.LocationLng,
		&record.VehicleSizeAllowed, &record.RentalStartTime, &record.RentalEndTime,
		&record.RentalDurationMode, &record.RentalUnits, &record.Amount, &record.Status,
		&record.PaidAt, &record.CreatedAt)
}
