package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

var ErrNotFound = errors.New("record not found")
var ErrDuplicateEntry = errors.New("record already exists")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type ParkingLotRepository interface {
	Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingLot, error)
	FindAll(ctx context.Context) ([]domain.ParkingLot, error)
	Update(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error)
	// AdjustOccupancy shifts occupied_slots by delta, clamped to [0, total_slots].
	AdjustOccupancy(ctx context.Context, id int, delta int) (*domain.ParkingLot, error)
	Delete(ctx context.Context, id int) error
}

type ParkingSlotRepository interface {
	Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingSlot, error)
	FindByParkingID(ctx context.Context, parkingID int) ([]domain.ParkingSlot, error)
	UpdateStatus(ctx context.Context, id int, status domain.SlotStatus) error
	Update(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error)
	Delete(ctx context.Context, id int) error
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	FindByID(ctx context.Context, id int) (*domain.Vehicle, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Vehicle, error)
	FindDefaultByUserID(ctx context.Context, userID int) (*domain.Vehicle, error)
	ClearDefaultForUser(ctx context.Context, userID int) error
	Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	Delete(ctx context.Context, id int, userID int) error
}

type HolidayRepository interface {
	Create(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error)
	FindByID(ctx context.Context, id int) (*domain.Holiday, error)
	FindAllActive(ctx context.Context) ([]domain.Holiday, error)
	FindAll(ctx context.Context) ([]domain.Holiday, error)
	Update(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error)
	Delete(ctx context.Context, id int) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id int) (*domain.Booking, error)
	FindActiveByUserID(ctx context.Context, userID int) ([]domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id int) error
}

type BookingHistoryRepository interface {
	Create(ctx context.Context, entry *domain.BookingHistory) (*domain.BookingHistory, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.BookingHistory, error)
	// CompletedSamplesByUser returns finished bookings with a positive duration,
	// the shape the estimator consumes.
	CompletedSamplesByUser(ctx context.Context, userID int) ([]domain.BookingDurationSample, error)
	CompletedSamplesByParking(ctx context.Context, parkingID int, limit int) ([]domain.BookingDurationSample, error)
	FindPendingPaymentsByUserID(ctx context.Context, userID int) ([]domain.BookingHistory, error)
	MarkPaid(ctx context.Context, ids []int, userID int) error
}

type P2PListingRepository interface {
	Create(ctx context.Context, listing *domain.P2PListing) (*domain.P2PListing, error)
	FindByID(ctx context.Context, id int) (*domain.P2PListing, error)
	FindAvailable(ctx context.Context, allowedSizes []domain.SlotSize) ([]domain.P2PListing, error)
	FindByOwner(ctx context.Context, ownerUserID int) ([]domain.P2PListing, error)
	FindActiveByRenter(ctx context.Context, renterUserID int) ([]domain.P2PListing, error)
	Update(ctx context.Context, listing *domain.P2PListing) (*domain.P2PListing, error)
	// Rent marks a listing rented if and only if it is currently free;
	// ErrNotFound signals it was taken (or never existed).
	Rent(ctx context.Context, listing *domain.P2PListing) (*domain.P2PListing, error)
	// Release clears the renter fields for the given renter's active rental.
	Release(ctx context.Context, listingID int, renterUserID int) (*domain.P2PListing, error)
	FindActiveRental(ctx context.Context, listingID int, renterUserID int) (*domain.P2PListing, error)
}

type P2PRentalRepository interface {
	Create(ctx context.Context, record *domain.P2PRentalRecord) (*domain.P2PRentalRecord, error)
	FindPendingByRenter(ctx context.Context, renterUserID int) ([]domain.P2PRentalRecord, error)
	// MarkPaid flips a pending record to paid; ErrNotFound when there is no
	// pending record for that renter.
	MarkPaid(ctx context.Context, id int, renterUserID int, paidAt time.Time) (*domain.P2PRentalRecord, error)
}
