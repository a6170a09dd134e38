package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/pricing"
)

type parkingFixture struct {
	svc         *ParkingService
	lotRepo     *fakeLotRepo
	slotRepo    *fakeSlotRepo
	holidayRepo *fakeHolidayRepo
}

func newParkingFixture() *parkingFixture {
	f := &parkingFixture{
		lotRepo:     newFakeLotRepo(),
		slotRepo:    newFakeSlotRepo(),
		holidayRepo: newFakeHolidayRepo(),
	}
	f.svc = NewParkingService(f.lotRepo, f.slotRepo, f.holidayRepo, zap.NewNop())
	return f
}

func (f *parkingFixture) createLot(t *testing.T, name string, lat, lng, basePrice float64, totalSlots int) *domain.ParkingLot {
	t.Helper()
	lot, err := f.svc.CreateParkingLot(context.Background(), domain.ParkingLotDTO{
		Name:       name,
		Address:    "MG Road",
		Lat:        lat,
		Lng:        lng,
		BasePrice:  basePrice,
		TotalSlots: totalSlots,
	})
	if err != nil {
		t.Fatalf("CreateParkingLot(%s) error = %v", name, err)
	}
	return lot
}

func TestCreateParkingSlotEnforcesCapacity(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()
	lot := f.createLot(t, "Tiny", 19.0, 72.8, 10, 1)

	slot, err := f.svc.CreateParkingSlot(ctx, domain.ParkingSlotDTO{ParkingID: lot.ID, SlotNumber: "A1"})
	if err != nil {
		t.Fatalf("CreateParkingSlot() error = %v", err)
	}
	// Size and status default when the caller leaves them blank.
	if slot.Size != domain.SizeCar {
		t.Errorf("size = %q, want car", slot.Size)
	}
	if slot.Status != domain.SlotAvailable {
		t.Errorf("status = %q, want available", slot.Status)
	}

	_, err = f.svc.CreateParkingSlot(ctx, domain.ParkingSlotDTO{ParkingID: lot.ID, SlotNumber: "A2"})
	if !errors.Is(err, ErrSlotCapacityReached) {
		t.Errorf("second slot: error = %v, want ErrSlotCapacityReached", err)
	}
}

func TestCreateParkingSlotUnknownParking(t *testing.T) {
	f := newParkingFixture()
	_, err := f.svc.CreateParkingSlot(context.Background(), domain.ParkingSlotDTO{ParkingID: 42, SlotNumber: "A1"})
	if err == nil {
		t.Fatal("expected error for unknown parking")
	}
}

func TestDeleteParkingLotBlockedWhileSlotsExist(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()
	lot := f.createLot(t, "Central", 19.0, 72.8, 10, 4)
	slot, err := f.svc.CreateParkingSlot(ctx, domain.ParkingSlotDTO{ParkingID: lot.ID, SlotNumber: "A1"})
	if err != nil {
		t.Fatalf("CreateParkingSlot() error = %v", err)
	}

	if err := f.svc.DeleteParkingLot(ctx, lot.ID); err == nil {
		t.Error("delete succeeded with slots still attached")
	}

	if err := f.svc.DeleteParkingSlot(ctx, slot.ID); err != nil {
		t.Fatalf("DeleteParkingSlot() error = %v", err)
	}
	if err := f.svc.DeleteParkingLot(ctx, lot.ID); err != nil {
		t.Errorf("delete after clearing slots: error = %v", err)
	}
}

func TestNearbyParkingsFiltersAndRanks(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()

	// Near is at the search center, Close about 2.2km north, Far about 55km
	// away and outside the radius.
	near := f.createLot(t, "Near", 19.0, 72.8, 10, 4)
	f.createLot(t, "Close", 19.02, 72.8, 10, 4)
	f.createLot(t, "Far", 19.5, 72.8, 10, 4)

	date, _ := time.Parse(time.RFC3339, weekdayStart)
	ranked, err := f.svc.NearbyParkings(ctx, NearbyQuery{
		Lat: 19.0, Lng: 72.8, RadiusKm: 5, DurationHours: 2, Date: date,
	})
	if err != nil {
		t.Fatalf("NearbyParkings() error = %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d lots, want 2 inside the radius", len(ranked))
	}
	if ranked[0].ID != near.ID {
		t.Errorf("best lot = %q, want Near", ranked[0].Name)
	}
	if ranked[0].Score > ranked[1].Score {
		t.Errorf("scores not ascending: %v then %v", ranked[0].Score, ranked[1].Score)
	}
	if !hasTag(ranked[0].Tags, pricing.TagBestOverall) {
		t.Errorf("best lot tags = %v, want %q", ranked[0].Tags, pricing.TagBestOverall)
	}
	// Empty weekday lot: base 10 with the low occupancy rebate.
	for _, lot := range ranked {
		if lot.DynamicPricePerHour != 9 {
			t.Errorf("%s dynamic price = %v, want 9", lot.Name, lot.DynamicPricePerHour)
		}
	}
}

func TestNearbyParkingsEmptyRadius(t *testing.T) {
	f := newParkingFixture()
	f.createLot(t, "Far", 19.5, 72.8, 10, 4)

	date, _ := time.Parse(time.RFC3339, weekdayStart)
	ranked, err := f.svc.NearbyParkings(context.Background(), NearbyQuery{
		Lat: 19.0, Lng: 72.8, RadiusKm: 5, DurationHours: 1, Date: date,
	})
	if err != nil {
		t.Fatalf("NearbyParkings() error = %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("got %d lots, want none", len(ranked))
	}
}

func TestAlternativesExcludeSelectedLot(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()
	selected := f.createLot(t, "Selected", 19.0, 72.8, 20, 4)
	f.createLot(t, "Cheaper", 19.01, 72.8, 10, 4)

	date, _ := time.Parse(time.RFC3339, weekdayStart)
	alternatives, err := f.svc.Alternatives(ctx, selected.ID, NearbyQuery{
		RadiusKm: 5, DurationHours: 2, Date: date,
	})
	if err != nil {
		t.Fatalf("Alternatives() error = %v", err)
	}
	if len(alternatives) != 1 {
		t.Fatalf("got %d alternatives, want 1", len(alternatives))
	}
	if alternatives[0].ID == selected.ID {
		t.Error("selected lot returned as its own alternative")
	}
	if alternatives[0].Explanation == "" {
		t.Error("alternative has no explanation")
	}
	// The discovery pass already tagged the lots once; the rescoring for
	// alternatives must not stack a second copy of each tag.
	seen := map[string]int{}
	for _, tag := range alternatives[0].Tags {
		seen[tag]++
	}
	for tag, n := range seen {
		if n != 1 {
			t.Errorf("tag %q appears %d times, want 1", tag, n)
		}
	}
}

func TestQuoteAppliesHolidayAndWeekend(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()
	lot := f.createLot(t, "Central", 19.0, 72.8, 10, 4)

	// A holiday with a junk multiplier falls back to the default surge.
	if _, err := f.svc.CreateHoliday(ctx, domain.HolidayDTO{
		Date: "2026-03-04", Name: "Festival", Multiplier: "two-ish",
	}); err != nil {
		t.Fatalf("CreateHoliday() error = %v", err)
	}

	holidayDate, _ := time.Parse(time.RFC3339, weekdayStart)
	result, err := f.svc.Quote(ctx, lot.ID, holidayDate, 2)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if !result.Holiday.IsHoliday || result.Holiday.Multiplier != 1.5 {
		t.Errorf("holiday = %+v, want default multiplier 1.5", result.Holiday)
	}
	// 10 base x 1.5 holiday x 0.9 empty-lot rebate over two hours.
	if result.Quote.PricePerHour != 13.5 || result.Quote.FinalPrice != 27 {
		t.Errorf("quote = %v/hr total %v, want 13.5/hr total 27",
			result.Quote.PricePerHour, result.Quote.FinalPrice)
	}

	saturday := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	result, err = f.svc.Quote(ctx, lot.ID, saturday, 2)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if !result.IsWeekend || result.Holiday.IsHoliday {
		t.Errorf("weekend quote flags = %+v", result)
	}
	if math.Abs(result.Quote.PricePerHour-10.8) > 0.001 {
		t.Errorf("weekend price per hour = %v, want 10.8", result.Quote.PricePerHour)
	}
}

func TestAllocateSlotPreview(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()
	lot := f.createLot(t, "Central", 19.0, 72.8, 10, 4)

	_, err := f.svc.AllocateSlot(ctx, lot.ID, domain.VehicleCar, 1)
	if !errors.Is(err, ErrNoSlotAvailable) {
		t.Fatalf("empty lot: error = %v, want ErrNoSlotAvailable", err)
	}

	if _, err := f.svc.CreateParkingSlot(ctx, domain.ParkingSlotDTO{
		ParkingID: lot.ID, SlotNumber: "B2", Size: "bike",
	}); err != nil {
		t.Fatalf("CreateParkingSlot() error = %v", err)
	}

	// An undersized slot stays in the running as a last resort for a car.
	allocated, err := f.svc.AllocateSlot(ctx, lot.ID, domain.VehicleCar, 1)
	if err != nil {
		t.Fatalf("AllocateSlot(car) error = %v", err)
	}
	if allocated.ScoreBreakdown.SizeCompatibility != 1.0 {
		t.Errorf("undersized slot compatibility = %v, want 1.0", allocated.ScoreBreakdown.SizeCompatibility)
	}

	allocated, err = f.svc.AllocateSlot(ctx, lot.ID, domain.VehicleBike, 1)
	if err != nil {
		t.Fatalf("AllocateSlot() error = %v", err)
	}
	if allocated.SlotNumber != "B2" {
		t.Errorf("allocated slot = %q, want B2", allocated.SlotNumber)
	}
}

func TestUpcomingHolidaysWindow(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()

	active := true
	inactive := false
	now := time.Now()
	seed := []domain.HolidayDTO{
		{Date: now.AddDate(0, 0, 10).Format("2006-01-02"), Name: "Soon", Multiplier: "2.0", IsActive: &active},
		{Date: now.AddDate(0, 0, 50).Format("2006-01-02"), Name: "Later", Multiplier: "2.0", IsActive: &active},
		{Date: now.AddDate(0, 0, -5).Format("2006-01-02"), Name: "Past", Multiplier: "2.0", IsActive: &active},
		{Date: now.AddDate(0, 0, 5).Format("2006-01-02"), Name: "Disabled", Multiplier: "2.0", IsActive: &inactive},
	}
	for _, dto := range seed {
		if _, err := f.svc.CreateHoliday(ctx, dto); err != nil {
			t.Fatalf("CreateHoliday(%s) error = %v", dto.Name, err)
		}
	}

	upcoming, err := f.svc.UpcomingHolidays(ctx, 30)
	if err != nil {
		t.Fatalf("UpcomingHolidays() error = %v", err)
	}
	if len(upcoming) != 1 {
		t.Fatalf("got %d holidays, want 1", len(upcoming))
	}
	if upcoming[0].Name != "Soon" {
		t.Errorf("holiday = %q, want Soon", upcoming[0].Name)
	}
}

func TestUpdateHoliday(t *testing.T) {
	f := newParkingFixture()
	ctx := context.Background()

	holiday, err := f.svc.CreateHoliday(ctx, domain.HolidayDTO{
		Date: "2026-03-04", Name: "Festival", Multiplier: "1.8",
	})
	if err != nil {
		t.Fatalf("CreateHoliday() error = %v", err)
	}
	if !holiday.IsActive {
		t.Error("new holiday not active by default")
	}

	inactive := false
	updated, err := f.svc.UpdateHoliday(ctx, holiday.ID, domain.HolidayDTO{
		Date: "2026-03-05", Name: "Festival (moved)", Multiplier: "2.0", IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateHoliday() error = %v", err)
	}
	if updated.IsActive {
		t.Error("holiday still active after update")
	}
	if got := updated.Date.Format("2006-01-02"); got != "2026-03-05" {
		t.Errorf("date = %s, want 2026-03-05", got)
	}
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
