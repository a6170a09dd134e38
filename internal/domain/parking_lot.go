package domain

import "time"

type ParkingLot struct {
	ID            int       `json:"id"`
	Name          string    `json:"name" binding:"required"`
	Address       string    `json:"address,omitempty"`
	Lat           float64   `json:"lat"`
	Lng           float64   `json:"lng"`
	BasePrice     float64   `json:"base_price"`
	TotalSlots    int       `json:"total_slots"`
	OccupiedSlots int       `json:"occupied_slots"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AvailableSlots never reports below zero even if occupancy drifted past total.
func (l ParkingLot) AvailableSlots() int {
	available := l.TotalSlots - l.OccupiedSlots
	if available < 0 {
		return 0
	}
	return available
}

type ParkingLotDTO struct {
	Name       string  `json:"name" binding:"required"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	BasePrice  float64 `json:"base_price" binding:"required,gt=0"`
	TotalSlots int     `json:"total_slots"`
}

// RankedParkingLot is a lot with the derived fields the discovery pipeline
// attaches: distance from the search center, the dynamic hourly price for the
// requested window, and the ranking score with its tags.
type RankedParkingLot struct {
	ParkingLot
	DistanceKm          float64  `json:"distance_km"`
	DynamicPricePerHour float64  `json:"dynamic_price_per_hour"`
	AvailableCount      int      `json:"available_slots"`
	Score               float64  `json:"score"`
	Tags                []string `json:"tags,omitempty"`
	Explanation         string   `json:"explanation,omitempty"`
}
