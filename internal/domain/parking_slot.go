package domain

import "time"

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotOccupied  SlotStatus = "occupied"
)

type SlotSize string

const (
	SizeBike SlotSize = "bike"
	SizeCar  SlotSize = "car"
	SizeSUV  SlotSize = "suv"
)

type ParkingSlot struct {
	ID                    int        `json:"id"`
	ParkingID             int        `json:"parking_id"`
	SlotNumber            string     `json:"slot_number"`
	Size                  SlotSize   `json:"size"`
	Status                SlotStatus `json:"status"`
	Floor                 int        `json:"floor"`
	DistanceFromEntranceM float64    `json:"distance_from_entrance"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type ParkingSlotDTO struct {
	ParkingID             int     `json:"parking_id" binding:"required"`
	SlotNumber            string  `json:"slot_number" binding:"required"`
	Size                  string  `json:"size"`
	Status                string  `json:"status,omitempty"`
	Floor                 int     `json:"floor"`
	DistanceFromEntranceM float64 `json:"distance_from_entrance"`
}
