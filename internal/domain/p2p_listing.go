package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type RentalDurationMode string

const (
	RentalHourly  RentalDurationMode = "hourly"
	RentalDaily   RentalDurationMode = "daily"
	RentalMonthly RentalDurationMode = "monthly"
	RentalRange   RentalDurationMode = "range"
)

// P2PListing is a privately owned parking spot offered for rent. The renter
// fields are null while the spot is free and cleared again when it is released.
type P2PListing struct {
	ID                   int         `json:"id"`
	OwnerUserID          int         `json:"owner_user_id"`
	OwnerEmail           string      `json:"owner_email"`
	LocationLat          float64     `json:"location_lat"`
	LocationLng          float64     `json:"location_lng"`
	Description          string      `json:"description"`
	AvailabilityDuration string      `json:"availability_duration"`
	VehicleSizeAllowed   SlotSize    `json:"vehicle_size_allowed"`
	HourlyPrice          float64     `json:"hourly_price"`
	DailyPrice           float64     `json:"daily_price"`
	MonthlyPrice         float64     `json:"monthly_price"`
	IsRented             bool        `json:"is_rented"`
	RentedByUserID       null.Int    `json:"rented_by_user_id"`
	RentedByPhoneNumber  null.String `json:"rented_by_phone_number"`
	RentalStartTime      null.Time   `json:"rental_start_time"`
	RentalEndTime        null.Time   `json:"rental_end_time"`
	RentalDurationMode   null.String `json:"rental_duration_mode"`
	RentalUnits          null.Int    `json:"rental_units"`
	RentalTotalPrice     null.Float  `json:"rental_total_price"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// P2PRentalRecord is the archived charge produced when a rental is released.
type P2PRentalRecord struct {
	ID                 int         `json:"id"`
	ListingID          int         `json:"listing_id"`
	OwnerUserID        int         `json:"owner_user_id"`
	RenterUserID       int         `json:"renter_user_id"`
	RenterPhoneNumber  null.String `json:"renter_phone_number"`
	Description        string      `json:"description"`
	LocationLat        float64     `json:"location_lat"`
	LocationLng        float64     `json:"location_lng"`
	VehicleSizeAllowed SlotSize    `json:"vehicle_size_allowed"`
	RentalStartTime    null.Time   `json:"rental_start_time"`
	RentalEndTime      null.Time   `json:"rental_end_time"`
	RentalDurationMode null.String `json:"rental_duration_mode"`
	RentalUnits        null.Int    `json:"rental_units"`
	Amount             float64     `json:"amount"`
	Status             string      `json:"status"` // "pending" or "paid"
	PaidAt             null.Time   `json:"paid_at"`
	CreatedAt          time.Time   `json:"created_at"`
}

type P2PListingDTO struct {
	OwnerEmail           string  `json:"owner_email" binding:"required,email"`
	LocationLat          float64 `json:"location_lat"`
	LocationLng          float64 `json:"location_lng"`
	Description          string  `json:"description" binding:"required"`
	AvailabilityDuration string  `json:"availability_duration" binding:"required"`
	VehicleSizeAllowed   string  `json:"vehicle_size_allowed" binding:"required,oneof=bike car suv"`
	HourlyPrice          float64 `json:"hourly_price" binding:"required,gt=0"`
	DailyPrice           float64 `json:"daily_price" binding:"required,gt=0"`
	MonthlyPrice         float64 `json:"monthly_price" binding:"required,gt=0"`
}

type UpdateP2PListingDTO struct {
	OwnerEmail           *string  `json:"owner_email"`
	LocationLat          *float64 `json:"location_lat"`
	LocationLng          *float64 `json:"location_lng"`
	Description          *string  `json:"description"`
	AvailabilityDuration *string  `json:"availability_duration"`
	VehicleSizeAllowed   *string  `json:"vehicle_size_allowed"`
	HourlyPrice          *float64 `json:"hourly_price"`
	DailyPrice           *float64 `json:"daily_price"`
	MonthlyPrice         *float64 `json:"monthly_price"`
}

type RentP2PListingDTO struct {
	RentalStartTime  string  `json:"rental_start_time" binding:"required"` // RFC 3339
	RentalEndTime    string  `json:"rental_end_time" binding:"required"`
	PhoneNumber      string  `json:"phone_number,omitempty"`
	DurationMode     string  `json:"duration_mode,omitempty"`
	Units            int     `json:"units,omitempty"`
	RentalTotalPrice float64 `json:"rental_total_price,omitempty"`
}
