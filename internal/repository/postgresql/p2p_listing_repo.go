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

const p2pListingColumns = `id, owner_user_id, owner_email, location_lat, location_lng, description,
	availability_duration, vehicle_size_allowed, hourly_price, daily_price, monthly_price, is_rented,
	rented_by_user_id, rented_by_phone_number, rental_start_time, rental_end_time, rental_duration_mode,
	rental_units, rental_total_price, created_at, updated_at`

type pgP2PListingRepository struct {
	db *sql.DB
}

func NewPgP2PListingRepository(db *sql.DB) repository.P2PListingRepository {
	return &pgP2PListingRepository{db: db}
}

func (r *pgP2PListingRepository) Create(ctx context.Context, listing *domain.P2PListing) (*domain.P2PListing, error) {
	query := `INSERT INTO p2p_parkings (owner_user_id, owner_email, location_lat, location_lng, description,
		availability_duration, vehicle_size_allowed, hourly_price, daily_price, monthly_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, listing.OwnerUserID, listing.OwnerEmail, listing.LocationLat,
		listing.LocationLng, listing.Description, listing.AvailabilityDuration, listing.VehicleSizeAllowed,
		listing.HourlyPrice, listing.DailyPrice, listing.MonthlyPrice).
		Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("P2PListingRepository.Create: %w", err)
	}
	return listing, nil
}

func (r *pgP2PListingRepository) FindByID(ctx context.Context, id int) (*domain.P2PListing, error) {
	listing := &domain.P2PListing{}
	query := `SELECT ` + p2pListingColumns + ` FROM p2p_parkings WHERE id = $1`
	err := scanP2PListing(r.db.QueryRowContext(ctx, query, id), listing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("P2PListingRepository.FindByID: %w", err)
	}
	return listing, nil
}

func (r *pgP2PListingRepository) FindAvailable(ctx context.Context, allowedSizes []domain.SlotSize) ([]domain.P2PListing, error) {
	sizes := make([]string, 0, len(allowedSizes))
	for _, size := range allowedSizes {
		sizes = append(sizes, string(size))
	}
	query := `SELECT ` + p2pListingColumns + ` FROM p2p_parkings
		WHERE is_rented = FALSE AND vehicle_size_allowed = ANY($1) ORDER BY created_at DESC`
	return r.findMany(ctx, query, pq.Array(sizes))
}

func (r *pgP2PListingRepository) FindByOwner(ctx context.Context, ownerUserID int) ([]domain.P2PListing, error) {
	query := `SELECT ` + p2pListingColumns + ` FROM p2p_parkings WHERE owner_user_id = $1 ORDER BY created_at DESC`
	return r.findMany(ctx, query, ownerUserID)
}

func (r *pgP2PListingRepository) FindActiveByRenter(ctx context.Context, renterUserID int) ([]domain.P2PListing, error) {
	query := `SELECT ` + p2pListingColumns + ` FROM p2p_parkings
		WHERE is_rented = TRUE AND rented_by_user_id = $1 ORDER BY rental_start_time DESC`
	return r.findMany(ctx, query, renterUserID)
}

func (r *pgP2PListingRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.P2PListing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("P2PListingRepository.findMany: %w", err)
	}
	defer rows.Close()

	var listings []domain.P2PListing
	for rows.Next() {
		var listing domain.P2PListing
		if err := scanP2PListing(rows, &listing); err != nil {
			return nil, fmt.Errorf("P2PListingRepository.findMany (scanning row): %w", err)
		}
		listings = append(listings, listing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("P2PListingRepository.findMany (rows error): %w", err)
	}
	return listings, nil
}

func (r *pgP2PListingRepository) Update(ctx context.Context, listing *domain.P2PListing) (*domain.P2PListing, error) {
	query := `UPDATE p2p_parkings SET owner_email = $1, location_lat = $2, location_lng = $3,
		description = $4, availability_duration = $5, vehicle_size_allowed = $6, hourly_price = $7,
		daily_price = $8, monthly_price = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $10 AND owner_user_id = $11 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, listing.OwnerEmail, listing.LocationLat, listing.LocationLng,
		listing.Description, listing.AvailabilityDuration, listing.VehicleSizeAllowed, listing.HourlyPrice,
		listing.DailyPrice, listing.MonthlyPrice, listing.ID, listing.OwnerUserID).Scan(&listing.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("P2PListingRepository.Update: %w", err)
	}
	return listing, nil
}

// Rent claims the listing with a conditional update so two renters racing for
// the same spot cannot both win.
func (r *pgP2PListingRepository) Rent(ctx context.Context, listing *domain.P2PListing) (*domain.P2PListing, error) {
	query := `UPDATE p2p_parkings SET is_rented = TRUE, rented_by_user_id = $1, rented_by_phone_number = $2,
		rental_start_time = $3, rental_end_time = $4, rental_duration_mode = $5, rental_units = $6,
		rental_total_price = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8 AND is_rented = FALSE RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, listing.RentedByUserID, listing.RentedByPhoneNumber,
		listing.RentalStartTime, listing.RentalEndTime, listing.RentalDurationMode, listing.RentalUnits,
		listing.RentalTotalPrice, listing.ID).Scan(&listing.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("P2PListingRepository.Rent: %w", err)
	}
	listing.IsRented = true
	return listing, nil
}

func (r *pgP2PListingRepository) Release(ctx context.Context, listingID int, renterUserID int) (*domain.P2PListing, error) {
	listing := &domain.P2PListing{}
	query := `UPDATE p2p_parkings SET is_rented = FALSE, rented_by_user_id = NULL,
		rented_by_phone_number = NULL, rental_start_time = NULL, rental_end_time = NULL,
		rental_duration_mode = NULL, rental_units = NULL, rental_total_price = NULL,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_rented = TRUE AND rented_by_user_id = $2
		RETURNING ` + p2pListingColumns
	err := scanP2PListing(r.db.QueryRowContext(ctx, query, listingID, renterUserID), listing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("P2PListingRepository.Release: %w", err)
	}
	return listing, nil
}

func (r *pgP2PListingRepository) FindActiveRental(ctx context.Context, listingID int, renterUserID int) (*domain.P2PListing, error) {
	listing := &domain.P2PListing{}
	query := `SELECT ` + p2pListingColumns + ` FROM p2p_parkings
		WHERE id = $1 AND is_rented = TRUE AND rented_by_user_id = $2`
	err := scanP2PListing(r.db.QueryRowContext(ctx, query, listingID, renterUserID), listing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("P2PListingRepository.FindActiveRental: %w", err)
	}
	return listing, nil
}

func scanP2PListing(row rowScanner, listing *domain.P2PListing) error {
	return row.Scan(&listing.ID, &listing.OwnerUserID, &listing.OwnerEmail, &listing.LocationLat,
		&listing.LocationLng, &listing.Description, &listing.AvailabilityDuration,
		&listing.VehicleSizeAllowed, &listing.HourlyPrice, &listing.DailyPrice, &listing.MonthlyPrice,
		&listing.IsRented, &listing.RentedByUserID, &listing.RentedByPhoneNumber,
		&listing.RentalStartTime, &listing.RentalEndTime, &listing.RentalDurationMode,
		&listing.RentalUnits, &listing.RentalTotalPrice, &listing.CreatedAt, &listing.UpdatedAt)
}
