package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

type p2pFixture struct {
	svc         *P2PService
	listingRepo *fakeListingRepo
	rentalRepo  *fakeRentalRepo
}

func newP2PFixture() *p2pFixture {
	f := &p2pFixture{
		listingRepo: newFakeListingRepo(),
		rentalRepo:  newFakeRentalRepo(),
	}
	f.svc = NewP2PService(f.listingRepo, f.rentalRepo, zap.NewNop())
	return f
}

func (f *p2pFixture) createListing(t *testing.T, ownerID int, size string) *domain.P2PListing {
	t.Helper()
	listing, err := f.svc.CreateListing(context.Background(), ownerID, domain.P2PListingDTO{
		OwnerEmail:           "owner@example.com",
		LocationLat:          19.07,
		LocationLng:          72.87,
		Description:          "Covered spot near the station",
		AvailabilityDuration: "weekdays 9-18",
		VehicleSizeAllowed:   size,
		HourlyPrice:          25,
		DailyPrice:           300,
		MonthlyPrice:         5000,
	})
	if err != nil {
		t.Fatalf("CreateListing() error = %v", err)
	}
	return listing
}

func rentWindow(hours int) domain.RentP2PListingDTO {
	start := time.Now()
	return domain.RentP2PListingDTO{
		RentalStartTime: start.Format(time.RFC3339),
		RentalEndTime:   start.Add(time.Duration(hours) * time.Hour).Format(time.RFC3339),
	}
}

func TestAvailableListingsFilterBySizeCompatibility(t *testing.T) {
	f := newP2PFixture()
	ctx := context.Background()

	f.createListing(t, 1, "bike")
	f.createListing(t, 1, "car")
	f.createListing(t, 1, "suv")

	cases := []struct {
		vehicleType domain.VehicleType
		want        int
	}{
		{domain.VehicleBike, 3}, // a bike fits anywhere
		{domain.VehicleCar, 2},  // car or suv spots
		{domain.VehicleSUV, 1},  // suv spots only
	}
	for _, tc := range cases {
		listings, err := f.svc.AvailableListings(ctx, tc.vehicleType)
		if err != nil {
			t.Fatalf("AvailableListings(%s) error = %v", tc.vehicleType, err)
		}
		if len(listings) != tc.want {
			t.Errorf("AvailableListings(%s) = %d listings, want %d", tc.vehicleType, len(listings), tc.want)
		}
	}
}

func TestRentListing(t *testing.T) {
	f := newP2PFixture()
	ctx := context.Background()
	listing := f.createListing(t, 1, "car")

	rented, err := f.svc.RentListing(ctx, 2, listing.ID, rentWindow(3))
	if err != nil {
		t.Fatalf("RentListing() error = %v", err)
	}
	if !rented.IsRented {
		t.Error("listing not marked rented")
	}
	if rented.RentedByUserID.ValueOrZero() != 2 {
		t.Errorf("renter = %d, want 2", rented.RentedByUserID.ValueOrZero())
	}

	// A rented spot is gone from the available list.
	listings, err := f.svc.AvailableListings(ctx, domain.VehicleCar)
	if err != nil {
		t.Fatalf("AvailableListings() error = %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("available after rent = %d, want 0", len(listings))
	}

	// And cannot be rented again.
	if _, err := f.svc.RentListing(ctx, 3, listing.ID, rentWindow(2)); !errors.Is(err, ErrListingUnavailable) {
		t.Errorf("double rent: error = %v, want ErrListingUnavailable", err)
	}
}

func TestRentOwnListingForbidden(t *testing.T) {
	f := newP2PFixture()
	listing := f.createListing(t, 1, "car")

	_, err := f.svc.RentListing(context.Background(), 1, listing.ID, rentWindow(2))
	if !errors.Is(err, ErrOwnRentalForbidden) {
		t.Errorf("error = %v, want ErrOwnRentalForbidden", err)
	}
}

func TestRentListingRejectsInvertedWindow(t *testing.T) {
	f := newP2PFixture()
	listing := f.createListing(t, 1, "car")

	start := time.Now()
	_, err := f.svc.RentListing(context.Background(), 2, listing.ID, domain.RentP2PListingDTO{
		RentalStartTime: start.Format(time.RFC3339),
		RentalEndTime:   start.Add(-time.Hour).Format(time.RFC3339),
	})
	if err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestFreeListingCreatesPendingCharge(t *testing.T) {
	f := newP2PFixture()
	ctx := context.Background()
	listing := f.createListing(t, 1, "car")

	dto := rentWindow(3)
	dto.DurationMode = "hourly"
	dto.Units = 3
	if _, err := f.svc.RentListing(ctx, 2, listing.ID, dto); err != nil {
		t.Fatalf("RentListing() error = %v", err)
	}

	record, err := f.svc.FreeListing(ctx, 2, listing.ID)
	if err != nil {
		t.Fatalf("FreeListing() error = %v", err)
	}
	if record.Status != "pending" {
		t.Errorf("record status = %q, want pending", record.Status)
	}
	// Three hourly units at 25.
	if record.Amount != 75 {
		t.Errorf("amount = %v, want 75", record.Amount)
	}

	// The listing is free again.
	released, err := f.listingRepo.FindByID(ctx, listing.ID)
	if err != nil {
		t.Fatalf("finding listing: %v", err)
	}
	if released.IsRented || released.RentedByUserID.Valid {
		t.Errorf("listing not cleared after release: %+v", released)
	}

	pending, err := f.svc.PendingRentalPayments(ctx, 2)
	if err != nil {
		t.Fatalf("PendingRentalPayments() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending payments = %d, want 1", len(pending))
	}

	paid, err := f.svc.PayRental(ctx, 2, record.ID)
	if err != nil {
		t.Fatalf("PayRental() error = %v", err)
	}
	if paid.Status != "paid" || !paid.PaidAt.Valid {
		t.Errorf("paid record = %+v, want status paid with timestamp", paid)
	}

	// Paying twice finds nothing pending.
	if _, err := f.svc.PayRental(ctx, 2, record.ID); err == nil {
		t.Error("second PayRental() succeeded, want not found")
	}
}

func TestPayAndFreeListingSettlesImmediately(t *testing.T) {
	f := newP2PFixture()
	ctx := context.Background()
	listing := f.createListing(t, 1, "car")

	dto := rentWindow(2)
	dto.RentalTotalPrice = 120
	if _, err := f.svc.RentListing(ctx, 2, listing.ID, dto); err != nil {
		t.Fatalf("RentListing() error = %v", err)
	}

	record, err := f.svc.PayAndFreeListing(ctx, 2, listing.ID)
	if err != nil {
		t.Fatalf("PayAndFreeListing() error = %v", err)
	}
	if record.Status != "paid" || !record.PaidAt.Valid {
		t.Errorf("record = %+v, want paid with timestamp", record)
	}
	// The agreed total wins over any per-unit math.
	if record.Amount != 120 {
		t.Errorf("amount = %v, want 120", record.Amount)
	}

	pending, err := f.svc.PendingRentalPayments(ctx, 2)
	if err != nil {
		t.Fatalf("PendingRentalPayments() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending payments = %d, want 0", len(pending))
	}
}

func TestFreeListingRequiresActiveRental(t *testing.T) {
	f := newP2PFixture()
	listing := f.createListing(t, 1, "car")

	_, err := f.svc.FreeListing(context.Background(), 2, listing.ID)
	if !errors.Is(err, ErrRentalNotFound) {
		t.Errorf("error = %v, want ErrRentalNotFound", err)
	}
}

func TestUpdateListingOwnershipAndValidation(t *testing.T) {
	f := newP2PFixture()
	ctx := context.Background()
	listing := f.createListing(t, 1, "car")

	if _, err := f.svc.UpdateListing(ctx, 2, listing.ID, domain.UpdateP2PListingDTO{}); !errors.Is(err, ErrListingNotOwned) {
		t.Errorf("foreign update: error = %v, want ErrListingNotOwned", err)
	}

	badPrice := -5.0
	if _, err := f.svc.UpdateListing(ctx, 1, listing.ID, domain.UpdateP2PListingDTO{HourlyPrice: &badPrice}); err == nil {
		t.Error("negative hourly price accepted")
	}

	newPrice := 40.0
	updated, err := f.svc.UpdateListing(ctx, 1, listing.ID, domain.UpdateP2PListingDTO{HourlyPrice: &newPrice})
	if err != nil {
		t.Fatalf("UpdateListing() error = %v", err)
	}
	if updated.HourlyPrice != 40 {
		t.Errorf("hourly price = %v, want 40", updated.HourlyPrice)
	}
	// Untouched fields survive a partial update.
	if updated.DailyPrice != 300 {
		t.Errorf("daily price = %v, want 300", updated.DailyPrice)
	}
}
