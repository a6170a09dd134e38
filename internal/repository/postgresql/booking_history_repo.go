package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

const bookingHistoryColumns = `id, user_id, parking_id, slot_id, vehicle_id, start_time, end_time,
	duration_minutes, base_price, final_price, applied_multipliers, status, archived_at`

type pgBookingHistoryRepository struct {
	db *sql.DB
}

func NewPgBookingHistoryRepository(db *sql.DB) repository.BookingHistoryRepository {
	return &pgBookingHistoryRepository{db: db}
}

func (r *pgBookingHistoryRepository) Create(ctx context.Context, entry *domain.BookingHistory) (*domain.BookingHistory, error) {
	query := `INSERT INTO booking_history (user_id, parking_id, slot_id, vehicle_id, start_time, end_time,
		duration_minutes, base_price, final_price, applied_multipliers, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id, archived_at`
	err := r.db.QueryRowContext(ctx, query, entry.UserID, entry.ParkingID, entry.SlotID, entry.VehicleID,
		entry.StartTime, entry.EndTime, entry.DurationMinutes, entry.BasePrice, entry.FinalPrice,
		entry.AppliedMultipliers, entry.Status).Scan(&entry.ID, &entry.ArchivedAt)
	if err != nil {
		return nil, fmt.Errorf("BookingHistoryRepository.Create: %w", err)
	}
	return entry, nil
}

func (r *pgBookingHistoryRepository) FindByUserID(ctx context.Context, userID int) ([]domain.BookingHistory, error) {
	query := `SELECT ` + bookingHistoryColumns + ` FROM booking_history WHERE user_id = $1 ORDER BY archived_at DESC`
	return r.findMany(ctx, query, userID)
}

func (r *pgBookingHistoryRepository) FindPendingPaymentsByUserID(ctx context.Context, userID int) ([]domain.BookingHistory, error) {
	query := `SELECT ` + bookingHistoryColumns + ` FROM booking_history
		WHERE user_id = $1 AND status = 'completed' AND final_price > 0 ORDER BY archived_at DESC`
	return r.findMany(ctx, query, userID)
}

func (r *pgBookingHistoryRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.BookingHistory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("BookingHistoryRepository.findMany: %w", err)
	}
	defer rows.Close()

	var entries []domain.BookingHistory
	for rows.Next() {
		var entry domain.BookingHistory
		if err := scanBookingHistory(rows, &entry); err != nil {
			return nil, fmt.Errorf("BookingHistoryRepository.findMany (scanning row): %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("BookingHistoryRepository.findMany (rows error): %w", err)
	}
	return entries, nil
}

func (r *pgBookingHistoryRepository) CompletedSamplesByUser(ctx context.Context, userID int) ([]domain.BookingDurationSample, error) {
	query := `SELECT parking_id, duration_minutes FROM booking_history
		WHERE user_id = $1 AND status IN ('completed', 'paid') AND duration_minutes > 0
		ORDER BY archived_at DESC`
	return r.findSamples(ctx, query, userID)
}

func (r *pgBookingHistoryRepository) CompletedSamplesByParking(ctx context.Context, parkingID int, limit int) ([]domain.BookingDurationSample, error) {
	query := `SELECT parking_id, duration_minutes FROM booking_history
		WHERE parking_id = $1 AND status IN ('completed', 'paid') AND duration_minutes > 0
		ORDER BY archived_at DESC LIMIT $2`
	return r.findSamples(ctx, query, parkingID, limit)
}

func (r *pgBookingHistoryRepository) findSamples(ctx context.Context, query string, args ...interface{}) ([]domain.BookingDurationSample, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("BookingHistoryRepository.findSamples: %w", err)
	}
	defer rows.Close()

	var samples []domain.BookingDurationSample
	for rows.Next() {
		var sample domain.BookingDurationSample
		if err := rows.Scan(&sample.ParkingID, &sample.DurationMinutes); err != nil {
			return nil, fmt.Errorf("BookingHistoryRepository.findSamples (scanning row): %w", err)
		}
		samples = append(samples, sample)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("BookingHistoryRepository.findSamples (rows error): %w", err)
	}
	return samples, nil
}

func (r *pgBookingHistoryRepository) MarkPaid(ctx context.Context, ids []int, userID int) error {
	query := `UPDATE booking_history SET status = 'paid'
		WHERE id = ANY($1) AND user_id = $2 AND status = 'completed'`
	result, err := r.db.ExecContext(ctx, query, pq.Array(ids), userID)
	if err != nil {
		return fmt.Errorf("BookingHistoryRepository.MarkPaid: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("BookingHistoryRepository.MarkPaid (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanBookingHistory(row rowScanner, entry *domain.BookingHistory) error {
	return row.Scan(&entry.ID, &entry.UserID, &entry.ParkingID, &entry.SlotID, &entry.VehicleID,
		&entry.StartTime, &entry.EndTime, &entry.DurationMinutes, &entry.BasePrice, &entry.FinalPrice,
		&entry.AppliedMultipliers, &entry.Status, &entry.ArchivedAt)
}
