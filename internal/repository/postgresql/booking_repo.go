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

const bookingColumns = `id, reference, user_id, parking_id, slot_id, vehicle_id, start_time, end_time,
	duration_minutes, base_price, final_price, applied_multipliers, status, created_at, updated_at`

type pgBookingRepository struct {
	db *sql.DB
}

func NewPgBookingRepository(db *sql.DB) repository.BookingRepository {
	return &pgBookingRepository{db: db}
}

func (r *pgBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	query := `INSERT INTO bookings (reference, user_id, parking_id, slot_id, vehicle_id, start_time,
		base_price, final_price, applied_multipliers, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, booking.Reference, booking.UserID, booking.ParkingID,
		booking.SlotID, booking.VehicleID, booking.StartTime, booking.BasePrice, booking.FinalPrice,
		booking.AppliedMultipliers, booking.Status).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, repository.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("BookingRepository.Create: %w", err)
	}
	return booking, nil
}

func (r *pgBookingRepository) FindByID(ctx context.Context, id int) (*domain.Booking, error) {
	booking := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := scanBooking(r.db.QueryRowContext(ctx, query, id), booking)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("BookingRepository.FindByID: %w", err)
	}
	return booking, nil
}

func (r *pgBookingRepository) FindActiveByUserID(ctx context.Context, userID int) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 AND status = 'active' ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.FindActiveByUserID: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, fmt.Errorf("BookingRepository.FindActiveByUserID (scanning row): %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("BookingRepository.FindActiveByUserID (rows error): %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	query := `UPDATE bookings SET end_time = $1, duration_minutes = $2, final_price = $3,
		applied_multipliers = $4, status = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, booking.EndTime, booking.DurationMinutes, booking.FinalPrice,
		booking.AppliedMultipliers, booking.Status, booking.ID).Scan(&booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("BookingRepository.Update: %w", err)
	}
	return booking, nil
}

func (r *pgBookingRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("BookingRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("BookingRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanBooking(row rowScanner, booking *domain.Booking) error {
	return row.Scan(&booking.ID, &booking.Reference, &booking.UserID, &booking.ParkingID, &booking.SlotID,
		&booking.VehicleID, &booking.StartTime, &booking.EndTime, &booking.DurationMinutes,
		&booking.BasePrice, &booking.FinalPrice, &booking.AppliedMultipliers, &booking.Status,
		&booking.CreatedAt, &booking.UpdatedAt)
}
