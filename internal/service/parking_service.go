package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/pricing"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

var ErrSlotCapacityReached = errors.New("parking has reached its slot capacity")
var ErrNoSlotAvailable = errors.New("no slot available")

// NearbyQuery carries the discovery parameters after the handler has parsed
// and defaulted them.
type NearbyQuery struct {
	Lat           float64
	Lng           float64
	RadiusKm      float64
	DurationHours float64
	Date          time.Time
}

// QuoteResult is the full pricing answer for one lot on one date.
type QuoteResult struct {
	ParkingID int                 `json:"parking_id"`
	Quote     pricing.PriceQuote  `json:"quote"`
	Holiday   pricing.HolidayInfo `json:"holiday"`
	IsWeekend bool                `json:"is_weekend"`
}

type ParkingService struct {
	lotRepo     repository.ParkingLotRepository
	slotRepo    repository.ParkingSlotRepository
	holidayRepo repository.HolidayRepository
	logger      *zap.Logger
}

func NewParkingService(
	lotRepo repository.ParkingLotRepository,
	slotRepo repository.ParkingSlotRepository,
	holidayRepo repository.HolidayRepository,
	logger *zap.Logger,
) *ParkingService {
	return &ParkingService{
		lotRepo:     lotRepo,
		slotRepo:    slotRepo,
		holidayRepo: holidayRepo,
		logger:      logger,
	}
}

// --- ParkingLot ---

func (s *ParkingService) CreateParkingLot(ctx context.Context, dto domain.ParkingLotDTO) (*domain.ParkingLot, error) {
	lot := &domain.ParkingLot{
		Name:       dto.Name,
		Address:    dto.Address,
		Lat:        dto.Lat,
		Lng:        dto.Lng,
		BasePrice:  dto.BasePrice,
		TotalSlots: dto.TotalSlots,
	}
	return s.lotRepo.Create(ctx, lot)
}

func (s *ParkingService) GetParkingLotByID(ctx context.Context, id int) (*domain.ParkingLot, error) {
	return s.lotRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllParkingLots(ctx context.Context) ([]domain.ParkingLot, error) {
	return s.lotRepo.FindAll(ctx)
}

func (s *ParkingService) UpdateParkingLot(ctx context.Context, id int, dto domain.ParkingLotDTO) (*domain.ParkingLot, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lot.Name = dto.Name
	lot.Address = dto.Address
	lot.Lat = dto.Lat
	lot.Lng = dto.Lng
	lot.BasePrice = dto.BasePrice
	lot.TotalSlots = dto.TotalSlots
	return s.lotRepo.Update(ctx, lot)
}

func (s *ParkingService) DeleteParkingLot(ctx context.Context, id int) error {
	slots, err := s.slotRepo.FindByParkingID(ctx, id)
	if err != nil {
		return fmt.Errorf("checking slots of parking %d: %w", id, err)
	}
	if len(slots) > 0 {
		return fmt.Errorf("cannot delete parking %d while it still has slots", id)
	}
	return s.lotRepo.Delete(ctx, id)
}

// --- ParkingSlot ---

func (s *ParkingService) CreateParkingSlot(ctx context.Context, dto domain.ParkingSlotDTO) (*domain.ParkingSlot, error) {
	lot, err := s.lotRepo.FindByID(ctx, dto.ParkingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("parking with ID %d does not exist", dto.ParkingID)
		}
		return nil, fmt.Errorf("checking parking: %w", err)
	}

	if lot.TotalSlots > 0 {
		currentSlots, err := s.slotRepo.FindByParkingID(ctx, dto.ParkingID)
		if err != nil {
			return nil, fmt.Errorf("counting current slots: %w", err)
		}
		if len(currentSlots) >= lot.TotalSlots {
			return nil, ErrSlotCapacityReached
		}
	}

	size := domain.SlotSize(dto.Size)
	if size == "" {
		size = domain.SizeCar
	}
	status := domain.SlotStatus(dto.Status)
	if status == "" {
		status = domain.SlotAvailable
	}

	slot := &domain.ParkingSlot{
		ParkingID:             dto.ParkingID,
		SlotNumber:            dto.SlotNumber,
		Size:                  size,
		Status:                status,
		Floor:                 dto.Floor,
		DistanceFromEntranceM: dto.DistanceFromEntranceM,
	}
	return s.slotRepo.Create(ctx, slot)
}

func (s *ParkingService) GetParkingSlotByID(ctx context.Context, id int) (*domain.ParkingSlot, error) {
	return s.slotRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetSlotsByParkingID(ctx context.Context, parkingID int) ([]domain.ParkingSlot, error) {
	return s.slotRepo.FindByParkingID(ctx, parkingID)
}

func (s *ParkingService) UpdateParkingSlot(ctx context.Context, id int, dto domain.ParkingSlotDTO) (*domain.ParkingSlot, error) {
	slot, err := s.slotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slot.SlotNumber = dto.SlotNumber
	if dto.Size != "" {
		slot.Size = domain.SlotSize(dto.Size)
	}
	if dto.Status != "" {
		slot.Status = domain.SlotStatus(dto.Status)
	}
	slot.Floor = dto.Floor
	slot.DistanceFromEntranceM = dto.DistanceFromEntranceM
	return s.slotRepo.Update(ctx, slot)
}

func (s *ParkingService) DeleteParkingSlot(ctx context.Context, id int) error {
	return s.slotRepo.Delete(ctx, id)
}

// --- Discovery and pricing ---

// NearbyParkings runs the discovery pipeline: radius filter, dynamic hourly
// price per lot for the requested window, then scoring best first.
func (s *ParkingService) NearbyParkings(ctx context.Context, q NearbyQuery) ([]domain.RankedParkingLot, error) {
	lots, err := s.lotRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing parkings: %w", err)
	}
	holidays, err := s.holidayRepo.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}

	candidates := pricing.FilterByRadius(lots, q.Lat, q.Lng, q.RadiusKm)
	if len(candidates) == 0 {
		return nil, nil
	}

	holiday := pricing.ResolveHoliday(q.Date, holidays)
	isWeekend := pricing.IsWeekendDay(q.Date)

	for i := range candidates {
		quote := pricing.ComputePrice(candidates[i].BasePrice, q.DurationHours, holiday.Multiplier,
			isWeekend, candidates[i].OccupiedSlots, candidates[i].TotalSlots)
		candidates[i].DynamicPricePerHour = quote.PricePerHour
	}

	ranked := pricing.ScoreParkings(candidates, nil)
	s.logger.Debug("nearby parkings ranked",
		zap.Int("candidates", len(ranked)),
		zap.Float64("radius_km", q.RadiusKm))
	return ranked, nil
}

// Alternatives scores the lots around the selected one and explains each
// candidate relative to it. The selected lot itself is excluded.
func (s *ParkingService) Alternatives(ctx context.Context, parkingID int, q NearbyQuery) ([]domain.RankedParkingLot, error) {
	selectedLot, err := s.lotRepo.FindByID(ctx, parkingID)
	if err != nil {
		return nil, err
	}

	q.Lat = selectedLot.Lat
	q.Lng = selectedLot.Lng
	candidates, err := s.NearbyParkings(ctx, q)
	if err != nil {
		return nil, err
	}

	var selected *domain.RankedParkingLot
	for i := range candidates {
		if candidates[i].ID == parkingID {
			selected = &candidates[i]
			break
		}
	}
	scored := pricing.ScoreParkings(candidates, selected)

	alternatives := make([]domain.RankedParkingLot, 0, len(scored))
	for _, lot := range scored {
		if lot.ID != parkingID {
			alternatives = append(alternatives, lot)
		}
	}
	return alternatives, nil
}

// Quote prices one lot for a date and duration.
func (s *ParkingService) Quote(ctx context.Context, parkingID int, date time.Time, durationHours float64) (*QuoteResult, error) {
	lot, err := s.lotRepo.FindByID(ctx, parkingID)
	if err != nil {
		return nil, err
	}
	holidays, err := s.holidayRepo.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}

	holiday := pricing.ResolveHoliday(date, holidays)
	isWeekend := pricing.IsWeekendDay(date)
	quote := pricing.ComputePrice(lot.BasePrice, durationHours, holiday.Multiplier, isWeekend,
		lot.OccupiedSlots, lot.TotalSlots)

	return &QuoteResult{
		ParkingID: parkingID,
		Quote:     quote,
		Holiday:   holiday,
		IsWeekend: isWeekend,
	}, nil
}

// AllocateSlot previews which slot the allocator would pick without reserving
// anything.
func (s *ParkingService) AllocateSlot(ctx context.Context, parkingID int, vehicleType domain.VehicleType, durationHours float64) (*pricing.AllocatedSlot, error) {
	slots, err := s.slotRepo.FindByParkingID(ctx, parkingID)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	allocated := pricing.AllocateBestSlot(slots, vehicleType, durationHours)
	if allocated == nil {
		return nil, ErrNoSlotAvailable
	}
	return allocated, nil
}

// --- Holidays ---

func (s *ParkingService) CreateHoliday(ctx context.Context, dto domain.HolidayDTO) (*domain.Holiday, error) {
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing holiday date %q: %w", dto.Date, err)
	}
	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}
	holiday := &domain.Holiday{
		Date:       date,
		Name:       dto.Name,
		Multiplier: dto.Multiplier,
		IsActive:   isActive,
	}
	return s.holidayRepo.Create(ctx, holiday)
}

func (s *ParkingService) GetAllHolidays(ctx context.Context) ([]domain.Holiday, error) {
	return s.holidayRepo.FindAll(ctx)
}

func (s *ParkingService) UpcomingHolidays(ctx context.Context, days int) ([]domain.Holiday, error) {
	holidays, err := s.holidayRepo.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	return pricing.UpcomingHolidays(holidays, time.Now(), days), nil
}

func (s *ParkingService) UpdateHoliday(ctx context.Context, id int, dto domain.HolidayDTO) (*domain.Holiday, error) {
	holiday, err := s.holidayRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing holiday date %q: %w", dto.Date, err)
	}
	holiday.Date = date
	holiday.Name = dto.Name
	holiday.Multiplier = dto.Multiplier
	if dto.IsActive != nil {
		holiday.IsActive = *dto.IsActive
	}
	return s.holidayRepo.Update(ctx, holiday)
}

func (s *ParkingService) DeleteHoliday(ctx context.Context, id int) error {
	return s.holidayRepo.Delete(ctx, id)
}
