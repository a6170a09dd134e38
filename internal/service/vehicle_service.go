package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

type VehicleService struct {
	vehicleRepo repository.VehicleRepository
	logger      *zap.Logger
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo, logger: logger}
}

// CreateVehicle registers a vehicle for the user. The first vehicle becomes
// the default automatically; marking a later one default clears the old flag.
func (s *VehicleService) CreateVehicle(ctx context.Context, userID int, dto domain.VehicleDTO) (*domain.Vehicle, error) {
	existing, err := s.vehicleRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}

	isDefault := dto.IsDefault || len(existing) == 0
	if isDefault && len(existing) > 0 {
		if err := s.vehicleRepo.ClearDefaultForUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("clearing previous default: %w", err)
		}
	}

	vehicle := &domain.Vehicle{
		UserID:        userID,
		VehicleName:   dto.VehicleName,
		VehicleNumber: dto.VehicleNumber,
		VehicleType:   domain.VehicleType(dto.VehicleType),
		IsDefault:     isDefault,
	}
	return s.vehicleRepo.Create(ctx, vehicle)
}

func (s *VehicleService) GetVehicles(ctx context.Context, userID int) ([]domain.Vehicle, error) {
	return s.vehicleRepo.FindByUserID(ctx, userID)
}

func (s *VehicleService) GetDefaultVehicle(ctx context.Context, userID int) (*domain.Vehicle, error) {
	return s.vehicleRepo.FindDefaultByUserID(ctx, userID)
}

func (s *VehicleService) UpdateVehicle(ctx context.Context, userID int, id int, dto domain.VehicleDTO) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrVehicleNotOwned
	}

	if dto.IsDefault && !vehicle.IsDefault {
		if err := s.vehicleRepo.ClearDefaultForUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("clearing previous default: %w", err)
		}
	}

	vehicle.VehicleName = dto.VehicleName
	vehicle.VehicleNumber = dto.VehicleNumber
	vehicle.VehicleType = domain.VehicleType(dto.VehicleType)
	vehicle.IsDefault = dto.IsDefault
	return s.vehicleRepo.Update(ctx, vehicle)
}

// DeleteVehicle removes the vehicle. When the default vehicle goes away the
// oldest remaining one takes over so the user always has a default.
func (s *VehicleService) DeleteVehicle(ctx context.Context, userID int, id int) error {
	vehicle, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if vehicle.UserID != userID {
		return ErrVehicleNotOwned
	}

	if err := s.vehicleRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	if vehicle.IsDefault {
		remaining, err := s.vehicleRepo.FindByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("listing remaining vehicles: %w", err)
		}
		if len(remaining) > 0 {
			next := remaining[0]
			next.IsDefault = true
			if _, err := s.vehicleRepo.Update(ctx, &next); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("promoting new default vehicle: %w", err)
			}
			s.logger.Debug("promoted default vehicle", zap.Int("user_id", userID), zap.Int("vehicle_id", next.ID))
		}
	}
	return nil
}
