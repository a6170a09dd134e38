package service

import (
	"context"
	"sync"
	"time"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

// In-memory repositories for service tests. They mimic the postgres layer's
// contract: ErrNotFound for missing rows, conditional updates for Rent and
// MarkPaid.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if (user.Username != "" && u.Username == user.Username) || (user.Phone != "" && u.Phone == user.Phone) {
			return nil, repository.ErrDuplicateEntry
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return user, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeLotRepo struct {
	mu     sync.Mutex
	nextID int
	lots   map[int]*domain.ParkingLot
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{nextID: 1, lots: make(map[int]*domain.ParkingLot)}
}

func (r *fakeLotRepo) Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot.ID = r.nextID
	r.nextID++
	copied := *lot
	r.lots[lot.ID] = &copied
	return lot, nil
}

func (r *fakeLotRepo) FindByID(ctx context.Context, id int) (*domain.ParkingLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

func (r *fakeLotRepo) FindAll(ctx context.Context) ([]domain.ParkingLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lots := make([]domain.ParkingLot, 0, len(r.lots))
	for id := 1; id < r.nextID; id++ {
		if lot, ok := r.lots[id]; ok {
			lots = append(lots, *lot)
		}
	}
	return lots, nil
}

func (r *fakeLotRepo) Update(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lots[lot.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	copied := *lot
	r.lots[lot.ID] = &copied
	return lot, nil
}

func (r *fakeLotRepo) AdjustOccupancy(ctx context.Context, id int, delta int) (*domain.ParkingLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	lot.OccupiedSlots += delta
	if lot.OccupiedSlots < 0 {
		lot.OccupiedSlots = 0
	}
	if lot.OccupiedSlots > lot.TotalSlots {
		lot.OccupiedSlots = lot.TotalSlots
	}
	copied := *lot
	return &copied, nil
}

func (r *fakeLotRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.lots, id)
	return nil
}

type fakeSlotRepo struct {
	mu     sync.Mutex
	nextID int
	slots  map[int]*domain.ParkingSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{nextID: 1, slots: make(map[int]*domain.ParkingSlot)}
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot.ID = r.nextID
	r.nextID++
	copied := *slot
	r.slots[slot.ID] = &copied
	return slot, nil
}

func (r *fakeSlotRepo) FindByID(ctx context.Context, id int) (*domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeSlotRepo) FindByParkingID(ctx context.Context, parkingID int) ([]domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var slots []domain.ParkingSlot
	for id := 1; id < r.nextID; id++ {
		if slot, ok := r.slots[id]; ok && slot.ParkingID == parkingID {
			slots = append(slots, *slot)
		}
	}
	return slots, nil
}

func (r *fakeSlotRepo) UpdateStatus(ctx context.Context, id int, status domain.SlotStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return repository.ErrNotFound
	}
	slot.Status = status
	return nil
}

func (r *fakeSlotRepo) Update(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	copied := *slot
	r.slots[slot.ID] = &copied
	return slot, nil
}

func (r *fakeSlotRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.slots, id)
	return nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	nextID   int
	vehicles map[int]*domain.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{nextID: 1, vehicles: make(map[int]*domain.Vehicle)}
}

func (r *fakeVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicle.ID = r.nextID
	r.nextID++
	vehicle.CreatedAt = time.Now()
	copied := *vehicle
	r.vehicles[vehicle.ID] = &copied
	return vehicle, nil
}

func (r *fakeVehicleRepo) FindByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVehicleRepo) FindByUserID(ctx context.Context, userID int) ([]domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var vehicles []domain.Vehicle
	for id := 1; id < r.nextID; id++ {
		if v, ok := r.vehicles[id]; ok && v.UserID == userID {
			vehicles = append(vehicles, *v)
		}
	}
	return vehicles, nil
}

func (r *fakeVehicleRepo) FindDefaultByUserID(ctx context.Context, userID int) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.UserID == userID && v.IsDefault {
			copied := *v
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVehicleRepo) ClearDefaultForUser(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.UserID == userID {
			v.IsDefault = false
		}
	}
	return nil
}

func (r *fakeVehicleRepo) Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.vehicles[vehicle.ID]
	if !ok || existing.UserID != vehicle.UserID {
		return nil, repository.ErrNotFound
	}
	copied := *vehicle
	r.vehicles[vehicle.ID] = &copied
	return vehicle, nil
}

func (r *fakeVehicleRepo) Delete(ctx context.Context, id int, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok || v.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.vehicles, id)
	return nil
}

type fakeHolidayRepo struct {
	mu       sync.Mutex
	nextID   int
	holidays map[int]*domain.Holiday
}

func newFakeHolidayRepo() *fakeHolidayRepo {
	return &fakeHolidayRepo{nextID: 1, holidays: make(map[int]*domain.Holiday)}
}

func (r *fakeHolidayRepo) Create(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	holiday.ID = r.nextID
	r.nextID++
	copied := *holiday
	r.holidays[holiday.ID] = &copied
	return holiday, nil
}

func (r *fakeHolidayRepo) FindByID(ctx context.Context, id int) (*domain.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holidays[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *fakeHolidayRepo) FindAllActive(ctx context.Context) ([]domain.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var holidays []domain.Holiday
	for id := 1; id < r.nextID; id++ {
		if h, ok := r.holidays[id]; ok && h.IsActive {
			holidays = append(holidays, *h)
		}
	}
	return holidays, nil
}

func (r *fakeHolidayRepo) FindAll(ctx context.Context) ([]domain.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var holidays []domain.Holiday
	for id := 1; id < r.nextID; id++ {
		if h, ok := r.holidays[id]; ok {
			holidays = append(holidays, *h)
		}
	}
	return holidays, nil
}

func (r *fakeHolidayRepo) Update(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holidays[holiday.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	copied := *holiday
	r.holidays[holiday.ID] = &copied
	return holiday, nil
}

func (r *fakeHolidayRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holidays[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.holidays, id)
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int
	bookings map[int]*domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1, bookings: make(map[int]*domain.Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = r.nextID
	r.nextID++
	booking.CreatedAt = time.Now()
	copied := *booking
	r.bookings[booking.ID] = &copied
	return booking, nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id int) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) FindActiveByUserID(ctx context.Context, userID int) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bookings []domain.Booking
	for id := 1; id < r.nextID; id++ {
		if b, ok := r.bookings[id]; ok && b.UserID == userID && b.Status == domain.BookingActive {
			bookings = append(bookings, *b)
		}
	}
	return bookings, nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[booking.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	copied := *booking
	r.bookings[booking.ID] = &copied
	return booking, nil
}

func (r *fakeBookingRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	nextID  int
	entries map[int]*domain.BookingHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{nextID: 1, entries: make(map[int]*domain.BookingHistory)}
}

func (r *fakeHistoryRepo) Create(ctx context.Context, entry *domain.BookingHistory) (*domain.BookingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextID
	r.nextID++
	entry.ArchivedAt = time.Now()
	copied := *entry
	r.entries[entry.ID] = &copied
	return entry, nil
}

func (r *fakeHistoryRepo) FindByUserID(ctx context.Context, userID int) ([]domain.BookingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []domain.BookingHistory
	for id := 1; id < r.nextID; id++ {
		if e, ok := r.entries[id]; ok && e.UserID == userID {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

func (r *fakeHistoryRepo) CompletedSamplesByUser(ctx context.Context, userID int) ([]domain.BookingDurationSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var samples []domain.BookingDurationSample
	for id := 1; id < r.nextID; id++ {
		e, ok := r.entries[id]
		if ok && e.UserID == userID && e.DurationMinutes > 0 &&
			(e.Status == domain.BookingCompleted || e.Status == domain.BookingPaid) {
			samples = append(samples, domain.BookingDurationSample{ParkingID: e.ParkingID, DurationMinutes: e.DurationMinutes})
		}
	}
	return samples, nil
}

func (r *fakeHistoryRepo) CompletedSamplesByParking(ctx context.Context, parkingID int, limit int) ([]domain.BookingDurationSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var samples []domain.BookingDurationSample
	for id := 1; id < r.nextID; id++ {
		e, ok := r.entries[id]
		if ok && e.ParkingID == parkingID && e.DurationMinutes > 0 &&
			(e.Status == domain.BookingCompleted || e.Status == domain.BookingPaid) {
			samples = append(samples, domain.BookingDurationSample{ParkingID: e.ParkingID, DurationMinutes: e.DurationMinutes})
			if len(samples) >= limit {
				break
			}
		}
	}
	return samples, nil
}

func (r *fakeHistoryRepo) FindPendingPaymentsByUserID(ctx context.Context, userID int) ([]domain.BookingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []domain.BookingHistory
	for id := 1; id < r.nextID; id++ {
		if e, ok := r.entries[id]; ok && e.UserID == userID && e.Status == domain.BookingCompleted && e.FinalPrice > 0 {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

func (r *fakeHistoryRepo) MarkPaid(ctx context.Context, ids []int, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := 0
	for _, id := range ids {
		if e, ok := r.entries[id]; ok && e.UserID == userID && e.Status == domain.BookingCompleted {
			e.Status = domain.BookingPaid
			changed++
		}
	}
	if changed == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type fakeListingRepo struct {
	mu       sync.Mutex
	nextID   int
	listings map[int]*domain.P2PListing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{nextID: 1, listings: make(map[int]*domain.P2PListing)}
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *domain.P2PListing) (*domain.P2PListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing.ID = r.nextID
	r.nextID++
	copied := *listing
	r.listings[listing.ID] = &copied
	return listing, nil
}

func (r *fakeListingRepo) FindByID(ctx context.Context, id int) (*domain.P2PListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *fakeListingRepo) FindAvailable(ctx context.Context, allowedSizes []domain.SlotSize) ([]domain.P2PListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	allowed := make(map[domain.SlotSize]bool, len(allowedSizes))
	for _, s := range allowedSizes {
		allowed[s] = true
	}
	var listings []domain.P2PListing
	for id := 1; id < r.nextID; id++ {
		if l, ok := r.listings[id]; ok && !l.IsRented && allowed[l.VehicleSizeAllowed] {
			listings = append(listings, *l)
		}
	}
	return listings, nil
}

func (r *fakeListingRepo) FindByOwner(ctx context.Context, ownerUserID int) ([]domain.P2PListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var listings []domain.P2PListing
	for id := 1; id < r.nextID; id++ {
		if l, ok := r.listings[id]; ok && l.OwnerUserID == ownerUserID {
			listings = append(listings, *l)
		}
	}
	return listings, nil
}

func (r *fakeListingRepo) FindActiveByRenter(ctx context.Context, renterUserID int) ([]domain.P2PListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var listings []domain.P2PListing
	for id := 1; id < r.nextID; id++ {
		if l, ok := r.listings[id]; ok && l.IsRented && l.RentedByUserID.ValueOrZero() == int64(renterUserID) {
			listings = append(listings, *l)
		}
	}
	return listings, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *domain.P2PListing) (*domain.P2PListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[listing.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	copied := *listing
	r.listings[listing.ID] = &copied
	return listing, nil
}

func (r *fakeListingRepo) Rent(ctx context.Context, listing *domain.P2PListing) (*domain.P2PListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.listings[listing.ID]
	if !ok || stored.IsRented {
		return nil, repository.ErrNotFound
	}
	listing.IsRented = true
	copied := *listing
	r.listings[listing.ID] = &copied
	return listing, nil
}

func (r *fakeListingRepo) Release(ctx context.Context, listingID int, renterUserID int) (*domain.P2PListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok || !l.IsRented || l.RentedByUserID.ValueOrZero() != int64(renterUserID) {
		return nil, repository.ErrNotFound
	}
	l.IsRented = false
	l.RentedByUserID.Valid = false
	l.RentedByPhoneNumber.Valid = false
	l.RentalStartTime.Valid = false
	l.RentalEndTime.Valid = false
	l.RentalDurationMode.Valid = false
	l.RentalUnits.Valid = false
	l.RentalTotalPrice.Valid = false
	copied := *l
	return &copied, nil
}

func (r *fakeListingRepo) FindActiveRental(ctx context.Context, listingID int, renterUserID int) (*domain.P2PListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok || !l.IsRented || l.RentedByUserID.ValueOrZero() != int64(renterUserID) {
		return nil, repository.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

type fakeRentalRepo struct {
	mu      sync.Mutex
	nextID  int
	records map[int]*domain.P2PRentalRecord
}

func newFakeRentalRepo() *fakeRentalRepo {
	return &fakeRentalRepo{nextID: 1, records: make(map[int]*domain.P2PRentalRecord)}
}

func (r *fakeRentalRepo) Create(ctx context.Context, record *domain.P2PRentalRecord) (*domain.P2PRentalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = r.nextID
	r.nextID++
	record.CreatedAt = time.Now()
	copied := *record
	r.records[record.ID] = &copied
	return record, nil
}

func (r *fakeRentalRepo) FindPendingByRenter(ctx context.Context, renterUserID int) ([]domain.P2PRentalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []domain.P2PRentalRecord
	for id := 1; id < r.nextID; id++ {
		if rec, ok := r.records[id]; ok && rec.RenterUserID == renterUserID && rec.Status == "pending" {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (r *fakeRentalRepo) MarkPaid(ctx context.Context, id int, renterUserID int, paidAt time.Time) (*domain.P2PRentalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.RenterUserID != renterUserID || rec.Status != "pending" {
		return nil, repository.ErrNotFound
	}
	rec.Status = "paid"
	rec.PaidAt.SetValid(paidAt)
	copied := *rec
	return &copied, nil
}

// recordingBroadcaster captures availability updates for assertions.
type recordingBroadcaster struct {
	mu      sync.Mutex
	updates []domain.AvailabilityUpdate
}

func (b *recordingBroadcaster) BroadcastAvailability(update domain.AvailabilityUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, update)
}

// recordingPublisher captures booking events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}
