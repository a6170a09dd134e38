package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
)

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) repository.UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `INSERT INTO users (username, phone, password, role)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), $3, $4)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Phone, user.Password, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: user already registered", repository.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("UserRepository.Create: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT id, COALESCE(username, ''), COALESCE(phone, ''), password, role, created_at, updated_at
		FROM users WHERE username = $1`, username)
}

func (r *pgUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT id, COALESCE(username, ''), COALESCE(phone, ''), password, role, created_at, updated_at
		FROM users WHERE phone = $1`, phone)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	return r.findOne(ctx, `SELECT id, COALESCE(username, ''), COALESCE(phone, ''), password, role, created_at, updated_at
		FROM users WHERE id = $1`, id)
}

func (r *pgUserRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Phone, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("UserRepository.findOne: %w", err)
	}
	return user, nil
}
