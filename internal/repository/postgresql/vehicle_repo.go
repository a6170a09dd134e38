package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

const vehicleColumns = `id, user_id, vehicle_name, vehicle_number, vehicle_type, is_default, created_at, updated_at`

type pgVehicleRepository struct {
	db *sql.DB
}

func NewPgVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &pgVehicleRepository{db: db}
}

func (r *pgVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	query := `INSERT INTO vehicles (user_id, vehicle_name, vehicle_number, vehicle_type, is_default)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, vehicle.UserID, vehicle.VehicleName, vehicle.VehicleNumber,
		vehicle.VehicleType, vehicle.IsDefault).Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("VehicleRepository.Create: %w", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) FindByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	err := scanVehicle(r.db.QueryRowContext(ctx, query, id), vehicle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("VehicleRepository.FindByID: %w", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) FindByUserID(ctx context.Context, userID int) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE user_id = $1 ORDER BY is_default DESC, created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("VehicleRepository.FindByUserID: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := scanVehicle(rows, &vehicle); err != nil {
			return nil, fmt.Errorf("VehicleRepository.FindByUserID (scanning row): %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("VehicleRepository.FindByUserID (rows error): %w", err)
	}
	return vehicles, nil
}

func (r *pgVehicleRepository) FindDefaultByUserID(ctx context.Context, userID int) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE user_id = $1 AND is_default = TRUE`
	err := scanVehicle(r.db.QueryRowContext(ctx, query, userID), vehicle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("VehicleRepository.FindDefaultByUserID: %w", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) ClearDefaultForUser(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET is_default = FALSE, updated_at = CURRENT_TIMESTAMP WHERE user_id = $1 AND is_default = TRUE`, userID)
	if err != nil {
		return fmt.Errorf("VehicleRepository.ClearDefaultForUser: %w", err)
	}
	return nil
}

func (r *pgVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	query := `UPDATE vehicles SET vehicle_name = $1, vehicle_number = $2, vehicle_type = $3, is_default = $4,
		updated_at = CURRENT_TIMESTAMP WHERE id = $5 AND user_id = $6 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, vehicle.VehicleName, vehicle.VehicleNumber, vehicle.VehicleType,
		vehicle.IsDefault, vehicle.ID, vehicle.UserID).Scan(&vehicle.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("VehicleRepository.Update: %w", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) Delete(ctx context.Context, id int, userID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("VehicleRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("VehicleRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanVehicle(row rowScanner, vehicle *domain.Vehicle) error {
	return row.Scan(&vehicle.ID, &vehicle.UserID, &vehicle.VehicleName, &vehicle.VehicleNumber,
		&vehicle.VehicleType, &vehicle.IsDefault, &vehicle.CreatedAt, &vehicle.UpdatedAt)
}
