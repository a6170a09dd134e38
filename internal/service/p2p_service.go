package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/pricing"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

var ErrListingUnavailable = errors.New("listing is not available for rent")
var ErrListingNotOwned = errors.New("listing does not belong to this user")
var ErrRentalNotFound = errors.New("no active rental for this listing")
var ErrOwnRentalForbidden = errors.New("cannot rent your own listing")

// vehicleCompatibility expands a vehicle type to the listing sizes it fits
// into. A bike fits anywhere, an SUV only in an SUV spot.
var vehicleCompatibility = map[domain.VehicleType][]domain.SlotSize{
	domain.VehicleBike: {domain.SizeBike, domain.SizeCar, domain.SizeSUV},
	domain.VehicleCar:  {domain.SizeCar, domain.SizeSUV},
	domain.VehicleSUV:  {domain.SizeSUV},
}

type P2PService struct {
	listingRepo repository.P2PListingRepository
	rentalRepo  repository.P2PRentalRepository
	logger      *zap.Logger
}

func NewP2PService(listingRepo repository.P2PListingRepository, rentalRepo repository.P2PRentalRepository, logger *zap.Logger) *P2PService {
	return &P2PService{listingRepo: listingRepo, rentalRepo: rentalRepo, logger: logger}
}

func (s *P2PService) CreateListing(ctx context.Context, ownerUserID int, dto domain.P2PListingDTO) (*domain.P2PListing, error) {
	listing := &domain.P2PListing{
		OwnerUserID:          ownerUserID,
		OwnerEmail:           dto.OwnerEmail,
		LocationLat:          dto.LocationLat,
		LocationLng:          dto.LocationLng,
		Description:          dto.Description,
		AvailabilityDuration: dto.AvailabilityDuration,
		VehicleSizeAllowed:   domain.SlotSize(dto.VehicleSizeAllowed),
		HourlyPrice:          dto.HourlyPrice,
		DailyPrice:           dto.DailyPrice,
		MonthlyPrice:         dto.MonthlyPrice,
	}
	return s.listingRepo.Create(ctx, listing)
}

// AvailableListings returns free listings a vehicle of the given type can
// use. An empty vehicle type returns everything free.
func (s *P2PService) AvailableListings(ctx context.Context, vehicleType domain.VehicleType) ([]domain.P2PListing, error) {
	sizes, ok := vehicleCompatibility[vehicleType]
	if !ok {
		sizes = []domain.SlotSize{domain.SizeBike, domain.SizeCar, domain.SizeSUV}
	}
	return s.listingRepo.FindAvailable(ctx, sizes)
}

func (s *P2PService) MyListings(ctx context.Context, ownerUserID int) ([]domain.P2PListing, error) {
	return s.listingRepo.FindByOwner(ctx, ownerUserID)
}

func (s *P2PService) MyActiveRentals(ctx context.Context, renterUserID int) ([]domain.P2PListing, error) {
	return s.listingRepo.FindActiveByRenter(ctx, renterUserID)
}

func (s *P2PService) UpdateListing(ctx context.Context, ownerUserID int, id int, dto domain.UpdateP2PListingDTO) (*domain.P2PListing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerUserID != ownerUserID {
		return nil, ErrListingNotOwned
	}

	if dto.OwnerEmail != nil {
		listing.OwnerEmail = *dto.OwnerEmail
	}
	if dto.LocationLat != nil {
		listing.LocationLat = *dto.LocationLat
	}
	if dto.LocationLng != nil {
		listing.LocationLng = *dto.LocationLng
	}
	if dto.Description != nil {
		listing.Description = *dto.Description
	}
	if dto.AvailabilityDuration != nil {
		listing.AvailabilityDuration = *dto.AvailabilityDuration
	}
	if dto.VehicleSizeAllowed != nil {
		listing.VehicleSizeAllowed = domain.SlotSize(*dto.VehicleSizeAllowed)
	}
	if dto.HourlyPrice != nil {
		if *dto.HourlyPrice <= 0 {
			return nil, fmt.Errorf("hourly price must be positive")
		}
		listing.HourlyPrice = *dto.HourlyPrice
	}
	if dto.DailyPrice != nil {
		if *dto.DailyPrice <= 0 {
			return nil, fmt.Errorf("daily price must be positive")
		}
		listing.DailyPrice = *dto.DailyPrice
	}
	if dto.MonthlyPrice != nil {
		if *dto.MonthlyPrice <= 0 {
			return nil, fmt.Errorf("monthly price must be positive")
		}
		listing.MonthlyPrice = *dto.MonthlyPrice
	}
	return s.listingRepo.Update(ctx, listing)
}

// RentListing claims a free listing for the renter. Losing the race for a
// spot surfaces as ErrListingUnavailable.
func (s *P2PService) RentListing(ctx context.Context, renterUserID int, listingID int, dto domain.RentP2PListingDTO) (*domain.P2PListing, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerUserID == renterUserID {
		return nil, ErrOwnRentalForbidden
	}
	if listing.IsRented {
		return nil, ErrListingUnavailable
	}

	startTime, err := time.Parse(time.RFC3339, dto.RentalStartTime)
	if err != nil {
		return nil, fmt.Errorf("parsing rental start time %q: %w", dto.RentalStartTime, err)
	}
	endTime, err := time.Parse(time.RFC3339, dto.RentalEndTime)
	if err != nil {
		return nil, fmt.Errorf("parsing rental end time %q: %w", dto.RentalEndTime, err)
	}
	if !endTime.After(startTime) {
		return nil, fmt.Errorf("rental end time must be after start time")
	}

	listing.RentedByUserID = null.IntFrom(int64(renterUserID))
	listing.RentedByPhoneNumber = null.NewString(dto.PhoneNumber, dto.PhoneNumber != "")
	listing.RentalStartTime = null.TimeFrom(startTime)
	listing.RentalEndTime = null.TimeFrom(endTime)
	listing.RentalDurationMode = null.NewString(dto.DurationMode, dto.DurationMode != "")
	listing.RentalUnits = null.NewInt(int64(dto.Units), dto.Units > 0)
	listing.RentalTotalPrice = null.NewFloat(dto.RentalTotalPrice, dto.RentalTotalPrice > 0)

	rented, err := s.listingRepo.Rent(ctx, listing)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingUnavailable
		}
		return nil, err
	}
	s.logger.Info("p2p listing rented",
		zap.Int("listing_id", rented.ID),
		zap.Int("renter_user_id", renterUserID))
	return rented, nil
}

// FreeListing ends the renter's rental and records the charge as pending.
func (s *P2PService) FreeListing(ctx context.Context, renterUserID int, listingID int) (*domain.P2PRentalRecord, error) {
	return s.releaseListing(ctx, renterUserID, listingID, false)
}

// PayAndFreeListing ends the rental and records the charge already settled.
func (s *P2PService) PayAndFreeListing(ctx context.Context, renterUserID int, listingID int) (*domain.P2PRentalRecord, error) {
	return s.releaseListing(ctx, renterUserID, listingID, true)
}

func (s *P2PService) releaseListing(ctx context.Context, renterUserID int, listingID int, paid bool) (*domain.P2PRentalRecord, error) {
	rental, err := s.listingRepo.FindActiveRental(ctx, listingID, renterUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	amount := pricing.RentalAmount(*rental)

	record := &domain.P2PRentalRecord{
		ListingID:          rental.ID,
		OwnerUserID:        rental.OwnerUserID,
		RenterUserID:       renterUserID,
		RenterPhoneNumber:  rental.RentedByPhoneNumber,
		Description:        rental.Description,
		LocationLat:        rental.LocationLat,
		LocationLng:        rental.LocationLng,
		VehicleSizeAllowed: rental.VehicleSizeAllowed,
		RentalStartTime:    rental.RentalStartTime,
		RentalEndTime:      rental.RentalEndTime,
		RentalDurationMode: rental.RentalDurationMode,
		RentalUnits:        rental.RentalUnits,
		Amount:             amount,
		Status:             "pending",
	}
	if paid {
		record.Status = "paid"
		record.PaidAt = null.TimeFrom(time.Now())
	}

	record, err = s.rentalRepo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("archiving rental: %w", err)
	}

	if _, err := s.listingRepo.Release(ctx, listingID, renterUserID); err != nil {
		return nil, fmt.Errorf("releasing listing %d: %w", listingID, err)
	}

	s.logger.Info("p2p listing released",
		zap.Int("listing_id", listingID),
		zap.Int("renter_user_id", renterUserID),
		zap.Float64("amount", amount),
		zap.Bool("paid", paid))
	return record, nil
}

func (s *P2PService) PendingRentalPayments(ctx context.Context, renterUserID int) ([]domain.P2PRentalRecord, error) {
	return s.rentalRepo.FindPendingByRenter(ctx, renterUserID)
}

func (s *P2PService) PayRental(ctx context.Context, renterUserID int, rentalID int) (*domain.P2PRentalRecord, error) {
	record, err := s.rentalRepo.MarkPaid(ctx, rentalID, renterUserID, time.Now())
	if err != nil {
		return nil, err
	}
	return record, nil
}
