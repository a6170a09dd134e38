package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/pricing"
	"github.com/Jayesh2422/smartpark/internal/repository"
	"gopkg.in/guregu/null.v4"
)

var ErrBookingNotOwned = errors.New("booking does not belong to this user")
var ErrBookingNotActive = errors.New("booking is not active")
var ErrVehicleNotOwned = errors.New("vehicle does not belong to this user")
var ErrSlotUnavailable = errors.New("slot is not available")

// parkingSampleLimit caps how much parking-wide history feeds the estimator.
const parkingSampleLimit = 200

// AvailabilityBroadcaster pushes slot availability changes to connected
// clients. Defined here so the websocket manager can live in the api layer
// without a circular import.
type AvailabilityBroadcaster interface {
	BroadcastAvailability(update domain.AvailabilityUpdate)
}

// BookingEventPublisher forwards booking lifecycle events to the queue.
// A nil publisher disables publishing.
type BookingEventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

type BookingService struct {
	bookingRepo repository.BookingRepository
	historyRepo repository.BookingHistoryRepository
	lotRepo     repository.ParkingLotRepository
	slotRepo    repository.ParkingSlotRepository
	vehicleRepo repository.VehicleRepository
	holidayRepo repository.HolidayRepository
	broadcaster AvailabilityBroadcaster
	publisher   BookingEventPublisher
	logger      *zap.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	historyRepo repository.BookingHistoryRepository,
	lotRepo repository.ParkingLotRepository,
	slotRepo repository.ParkingSlotRepository,
	vehicleRepo repository.VehicleRepository,
	holidayRepo repository.HolidayRepository,
	broadcaster AvailabilityBroadcaster,
	publisher BookingEventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		historyRepo: historyRepo,
		lotRepo:     lotRepo,
		slotRepo:    slotRepo,
		vehicleRepo: vehicleRepo,
		holidayRepo: holidayRepo,
		broadcaster: broadcaster,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateBooking reserves a slot and prices the stay up front. When no slot is
// named the allocator picks one. The steps run sequentially without a
// transaction, matching how occupancy is kept elsewhere; the occupancy update
// clamps so a partial failure cannot push counts out of range.
func (s *BookingService) CreateBooking(ctx context.Context, userID int, dto domain.CreateBookingDTO) (*domain.Booking, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, dto.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrVehicleNotOwned
	}

	lot, err := s.lotRepo.FindByID(ctx, dto.ParkingID)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	if dto.StartTime != "" {
		startTime, err = time.Parse(time.RFC3339, dto.StartTime)
		if err != nil {
			return nil, fmt.Errorf("parsing start time %q: %w", dto.StartTime, err)
		}
	}
	durationHours := dto.DurationHours
	if durationHours <= 0 {
		durationHours = 1
	}

	slot, err := s.pickSlot(ctx, dto, vehicle.VehicleType, durationHours)
	if err != nil {
		return nil, err
	}

	holidays, err := s.holidayRepo.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	holiday := pricing.ResolveHoliday(startTime, holidays)
	quote := pricing.ComputePrice(lot.BasePrice, durationHours, holiday.Multiplier,
		pricing.IsWeekendDay(startTime), lot.OccupiedSlots, lot.TotalSlots)

	breakdownJSON, err := json.Marshal(quote.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("encoding price breakdown: %w", err)
	}

	booking := &domain.Booking{
		Reference:          uuid.NewString(),
		UserID:             userID,
		ParkingID:          dto.ParkingID,
		SlotID:             slot.ID,
		VehicleID:          vehicle.ID,
		StartTime:          startTime,
		BasePrice:          lot.BasePrice,
		FinalPrice:         quote.FinalPrice,
		AppliedMultipliers: string(breakdownJSON),
		Status:             domain.BookingActive,
	}

	booking, err = s.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	if err := s.slotRepo.UpdateStatus(ctx, slot.ID, domain.SlotOccupied); err != nil {
		return nil, fmt.Errorf("occupying slot %d: %w", slot.ID, err)
	}
	updatedLot, err := s.lotRepo.AdjustOccupancy(ctx, dto.ParkingID, 1)
	if err != nil {
		return nil, fmt.Errorf("bumping occupancy: %w", err)
	}

	s.notify(ctx, booking, updatedLot, slot.ID, domain.SlotOccupied, "booking_created")
	s.logger.Info("booking created",
		zap.String("reference", booking.Reference),
		zap.Int("parking_id", booking.ParkingID),
		zap.Int("slot_id", booking.SlotID),
		zap.Float64("final_price", booking.FinalPrice))
	return booking, nil
}

func (s *BookingService) pickSlot(ctx context.Context, dto domain.CreateBookingDTO, vehicleType domain.VehicleType, durationHours float64) (*domain.ParkingSlot, error) {
	if dto.SlotID != nil {
		slot, err := s.slotRepo.FindByID(ctx, *dto.SlotID)
		if err != nil {
			return nil, err
		}
		if slot.ParkingID != dto.ParkingID {
			return nil, fmt.Errorf("slot %d does not belong to parking %d", slot.ID, dto.ParkingID)
		}
		if slot.Status != domain.SlotAvailable {
			return nil, ErrSlotUnavailable
		}
		return slot, nil
	}

	slots, err := s.slotRepo.FindByParkingID(ctx, dto.ParkingID)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	allocated := pricing.AllocateBestSlot(slots, vehicleType, durationHours)
	if allocated == nil {
		return nil, ErrNoSlotAvailable
	}
	return &allocated.ParkingSlot, nil
}

// CompleteBooking closes an active booking at the quoted price, archives it
// and frees the slot.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID int, userID int) (*domain.BookingHistory, error) {
	return s.closeBooking(ctx, bookingID, userID, domain.BookingCompleted, false)
}

// CancelBooking frees the slot without charging anything.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int, userID int) (*domain.BookingHistory, error) {
	return s.closeBooking(ctx, bookingID, userID, domain.BookingCancelled, false)
}

// FreeSlot ends an open-ended stay: the charge is the base hourly price times
// the elapsed time rather than the up-front quote.
func (s *BookingService) FreeSlot(ctx context.Context, bookingID int, userID int) (*domain.BookingHistory, error) {
	return s.closeBooking(ctx, bookingID, userID, domain.BookingCompleted, true)
}

func (s *BookingService) closeBooking(ctx context.Context, bookingID int, userID int, status domain.BookingStatus, repriceByElapsed bool) (*domain.BookingHistory, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotOwned
	}
	if booking.Status != domain.BookingActive {
		return nil, ErrBookingNotActive
	}

	endTime := time.Now()
	elapsed := endTime.Sub(booking.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	durationMinutes := int(math.Round(elapsed.Minutes()))

	finalPrice := booking.FinalPrice
	if status == domain.BookingCancelled {
		finalPrice = 0
	} else if repriceByElapsed {
		finalPrice = math.Round(booking.BasePrice*elapsed.Hours()*100) / 100
	}

	entry := &domain.BookingHistory{
		UserID:             booking.UserID,
		ParkingID:          booking.ParkingID,
		SlotID:             booking.SlotID,
		VehicleID:          booking.VehicleID,
		StartTime:          booking.StartTime,
		EndTime:            null.TimeFrom(endTime),
		DurationMinutes:    durationMinutes,
		BasePrice:          booking.BasePrice,
		FinalPrice:         finalPrice,
		AppliedMultipliers: booking.AppliedMultipliers,
		Status:             status,
	}
	entry, err = s.historyRepo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("archiving booking: %w", err)
	}

	if err := s.bookingRepo.Delete(ctx, booking.ID); err != nil {
		return nil, fmt.Errorf("removing active booking: %w", err)
	}
	if err := s.slotRepo.UpdateStatus(ctx, booking.SlotID, domain.SlotAvailable); err != nil {
		return nil, fmt.Errorf("freeing slot %d: %w", booking.SlotID, err)
	}
	updatedLot, err := s.lotRepo.AdjustOccupancy(ctx, booking.ParkingID, -1)
	if err != nil {
		return nil, fmt.Errorf("lowering occupancy: %w", err)
	}

	eventType := "booking_completed"
	if status == domain.BookingCancelled {
		eventType = "booking_cancelled"
	}
	booking.FinalPrice = finalPrice
	s.notify(ctx, booking, updatedLot, booking.SlotID, domain.SlotAvailable, eventType)
	s.logger.Info("booking closed",
		zap.String("reference", booking.Reference),
		zap.String("status", string(status)),
		zap.Int("duration_minutes", durationMinutes),
		zap.Float64("final_price", finalPrice))
	return entry, nil
}

func (s *BookingService) notify(ctx context.Context, booking *domain.Booking, lot *domain.ParkingLot, slotID int, slotStatus domain.SlotStatus, eventType string) {
	now := time.Now()
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAvailability(domain.AvailabilityUpdate{
			Type:           "availability_update",
			ParkingID:      lot.ID,
			SlotID:         slotID,
			SlotStatus:     slotStatus,
			AvailableSlots: lot.AvailableSlots(),
			Timestamp:      now,
		})
	}
	if s.publisher != nil {
		event := domain.BookingEvent{
			EventType:  eventType,
			Reference:  booking.Reference,
			BookingID:  booking.ID,
			UserID:     booking.UserID,
			ParkingID:  booking.ParkingID,
			SlotID:     slotID,
			FinalPrice: booking.FinalPrice,
			OccurredAt: now,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("publishing booking event failed",
				zap.String("event_type", eventType),
				zap.String("reference", booking.Reference),
				zap.Error(err))
		}
	}
}

func (s *BookingService) ActiveBookings(ctx context.Context, userID int) ([]domain.Booking, error) {
	return s.bookingRepo.FindActiveByUserID(ctx, userID)
}

func (s *BookingService) BookingHistory(ctx context.Context, userID int) ([]domain.BookingHistory, error) {
	return s.historyRepo.FindByUserID(ctx, userID)
}

func (s *BookingService) PendingPayments(ctx context.Context, userID int) ([]domain.BookingHistory, error) {
	return s.historyRepo.FindPendingPaymentsByUserID(ctx, userID)
}

func (s *BookingService) MarkPaid(ctx context.Context, userID int, dto domain.MarkPaidDTO) error {
	if len(dto.HistoryIDs) == 0 {
		return fmt.Errorf("no history ids given")
	}
	return s.historyRepo.MarkPaid(ctx, dto.HistoryIDs, userID)
}

// EstimateDuration predicts how long the user will stay at a parking from
// their history and the parking's.
func (s *BookingService) EstimateDuration(ctx context.Context, userID int, parkingID int) (*pricing.DurationEstimate, error) {
	userSamples, err := s.historyRepo.CompletedSamplesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user history: %w", err)
	}
	var parkingSamples []domain.BookingDurationSample
	if parkingID != 0 {
		parkingSamples, err = s.historyRepo.CompletedSamplesByParking(ctx, parkingID, parkingSampleLimit)
		if err != nil {
			return nil, fmt.Errorf("loading parking history: %w", err)
		}
	}
	estimate := pricing.EstimateDuration(userSamples, parkingSamples, parkingID)
	return &estimate, nil
}
