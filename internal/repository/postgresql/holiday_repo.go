package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

const holidayColumns = `id, date, name, multiplier, is_active, created_at, updated_at`

type pgHolidayRepository struct {
	db *sql.DB
}

func NewPgHolidayRepository(db *sql.DB) repository.HolidayRepository {
	return &pgHolidayRepository{db: db}
}

func (r *pgHolidayRepository) Create(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	query := `INSERT INTO holidays (date, name, multiplier, is_active)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, holiday.Date, holiday.Name, holiday.Multiplier,
		holiday.IsActive).Scan(&holiday.ID, &holiday.CreatedAt, &holiday.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("HolidayRepository.Create: %w", err)
	}
	return holiday, nil
}

func (r *pgHolidayRepository) FindByID(ctx context.Context, id int) (*domain.Holiday, error) {
	holiday := &domain.Holiday{}
	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE id = $1`
	err := scanHoliday(r.db.QueryRowContext(ctx, query, id), holiday)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("HolidayRepository.FindByID: %w", err)
	}
	return holiday, nil
}

func (r *pgHolidayRepository) FindAllActive(ctx context.Context) ([]domain.Holiday, error) {
	return r.findMany(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE is_active = TRUE ORDER BY date`)
}

func (r *pgHolidayRepository) FindAll(ctx context.Context) ([]domain.Holiday, error) {
	return r.findMany(ctx, `SELECT `+holidayColumns+` FROM holidays ORDER BY date`)
}

func (r *pgHolidayRepository) findMany(ctx context.Context, query string) ([]domain.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("HolidayRepository.findMany: %w", err)
	}
	defer rows.Close()

	var holidays []domain.Holiday
	for rows.Next() {
		var holiday domain.Holiday
		if err := scanHoliday(rows, &holiday); err != nil {
			return nil, fmt.Errorf("HolidayRepository.findMany (scanning row): %w", err)
		}
		holidays = append(holidays, holiday)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("HolidayRepository.findMany (rows error): %w", err)
	}
	return holidays, nil
}

func (r *pgHolidayRepository) Update(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	query := `UPDATE holidays SET date = $1, name = $2, multiplier = $3, is_active = $4,
		updated_at = CURRENT_TIMESTAMP WHERE id = $5 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, holiday.Date, holiday.Name, holiday.Multiplier,
		holiday.IsActive, holiday.ID).Scan(&holiday.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("HolidayRepository.Update: %w", err)
	}
	return holiday, nil
}

func (r *pgHolidayRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("HolidayRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("HolidayRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanHoliday(row rowScanner, holiday *domain.Holiday) error {
	return row.Scan(&holiday.ID, &holiday.Date, &holiday.Name, &holiday.Multiplier,
		&holiday.IsActive, &holiday.CreatedAt, &holiday.UpdatedAt)
}
