package domain

import "time"

type VehicleType string

const (
	VehicleBike VehicleType = "bike"
	VehicleCar  VehicleType = "car"
	VehicleSUV  VehicleType = "suv"
)

type Vehicle struct {
	ID            int         `json:"id"`
	UserID        int         `json:"user_id"`
	VehicleName   string      `json:"vehicle_name"`
	VehicleNumber string      `json:"vehicle_number"`
	VehicleType   VehicleType `json:"vehicle_type"`
	IsDefault     bool        `json:"is_default"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type VehicleDTO struct {
	VehicleName   string `json:"vehicle_name" binding:"required"`
	VehicleNumber string `json:"vehicle_number" binding:"required"`
	VehicleType   string `json:"vehicle_type" binding:"required,oneof=bike car suv"`
	IsDefault     bool   `json:"is_default"`
}
