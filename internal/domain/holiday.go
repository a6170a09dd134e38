package domain

import "time"

// Holiday multiplier is kept as text the way it arrives from the store; it is
// parsed where the price is computed so a malformed value can fall back to the
// default surge instead of failing the whole row.
type Holiday struct {
	ID         int       `json:"id"`
	Date       time.Time `json:"date"`
	Name       string    `json:"name"`
	Multiplier string    `json:"multiplier"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type HolidayDTO struct {
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	Name       string `json:"name" binding:"required"`
	Multiplier string `json:"multiplier"`
	IsActive   *bool  `json:"is_active"`
}
