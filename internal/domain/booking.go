package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingPaid      BookingStatus = "paid"
)

type Booking struct {
	ID                 int           `json:"id"`
	Reference          string        `json:"reference"`
	UserID             int           `json:"user_id"`
	ParkingID          int           `json:"parking_id"`
	SlotID             int           `json:"slot_id"`
	VehicleID          int           `json:"vehicle_id"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            null.Time     `json:"end_time"`
	DurationMinutes    null.Int      `json:"duration_minutes"`
	BasePrice          float64       `json:"base_price"`
	FinalPrice         float64       `json:"final_price"`
	AppliedMultipliers string        `json:"applied_multipliers,omitempty"` // price breakdown JSON
	Status             BookingStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// BookingHistory is the archived copy of a finished booking. History rows feed
// the duration estimator and the pending-payments list.
type BookingHistory struct {
	ID                 int           `json:"id"`
	UserID             int           `json:"user_id"`
	ParkingID          int           `json:"parking_id"`
	SlotID             int           `json:"slot_id"`
	VehicleID          int           `json:"vehicle_id"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            null.Time     `json:"end_time"`
	DurationMinutes    int           `json:"duration_minutes"`
	BasePrice          float64       `json:"base_price"`
	FinalPrice         float64       `json:"final_price"`
	AppliedMultipliers string        `json:"applied_multipliers,omitempty"`
	Status             BookingStatus `json:"status"`
	ArchivedAt         time.Time     `json:"archived_at"`
}

// BookingDurationSample is the slice of history the estimator consumes.
type BookingDurationSample struct {
	ParkingID       int `json:"parking_id"`
	DurationMinutes int `json:"duration_minutes"`
}

type CreateBookingDTO struct {
	ParkingID     int     `json:"parking_id" binding:"required"`
	VehicleID     int     `json:"vehicle_id" binding:"required"`
	SlotID        *int    `json:"slot_id"` // omit to let the allocator choose
	DurationHours float64 `json:"duration_hours"`
	StartTime     string  `json:"start_time,omitempty"` // RFC 3339, defaults to now
}

type MarkPaidDTO struct {
	HistoryIDs []int `json:"history_ids" binding:"required"`
}
