package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Jayesh2422/smartpark/internal/config"
)

func NewDB(cfg *config.Config) (*sql.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode)

	db, err := sql.Open("pgx", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("opening database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

// Migrate creates the schema on boot when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE,
			phone TEXT UNIQUE,
			password TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS parkings (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			address TEXT NOT NULL DEFAULT '',
			lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			lng DOUBLE PRECISION NOT NULL DEFAULT 0,
			base_price NUMERIC(10,2) NOT NULL,
			total_slots INT NOT NULL DEFAULT 0,
			occupied_slots INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CHECK (occupied_slots >= 0 AND occupied_slots <= total_slots)
		)`,
		`CREATE TABLE IF NOT EXISTS slots (
			id SERIAL PRIMARY KEY,
			parking_id INT NOT NULL REFERENCES parkings(id),
			slot_number TEXT NOT NULL,
			size TEXT NOT NULL DEFAULT 'car',
			status TEXT NOT NULL DEFAULT 'available',
			floor INT NOT NULL DEFAULT 0,
			distance_from_entrance DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (parking_id, slot_number)
		)`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id),
			vehicle_name TEXT NOT NULL,
			vehicle_number TEXT NOT NULL,
			vehicle_type TEXT NOT NULL DEFAULT 'car',
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS holidays (
			id SERIAL PRIMARY KEY,
			date DATE NOT NULL,
			name TEXT NOT NULL,
			multiplier TEXT NOT NULL DEFAULT '1.5',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id SERIAL PRIMARY KEY,
			reference TEXT NOT NULL UNIQUE,
			user_id INT NOT NULL REFERENCES users(id),
			parking_id INT NOT NULL REFERENCES parkings(id),
			slot_id INT NOT NULL REFERENCES slots(id),
			vehicle_id INT NOT NULL REFERENCES vehicles(id),
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ,
			duration_minutes INT,
			base_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			final_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			applied_multipliers TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS booking_history (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			parking_id INT NOT NULL,
			slot_id INT NOT NULL,
			vehicle_id INT NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ,
			duration_minutes INT NOT NULL DEFAULT 0,
			base_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			final_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			applied_multipliers TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'completed',
			archived_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS p2p_parkings (
			id SERIAL PRIMARY KEY,
			owner_user_id INT NOT NULL REFERENCES users(id),
			owner_email TEXT NOT NULL,
			location_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			location_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
			description TEXT NOT NULL,
			availability_duration TEXT NOT NULL,
			vehicle_size_allowed TEXT NOT NULL DEFAULT 'car',
			hourly_price NUMERIC(10,2) NOT NULL,
			daily_price NUMERIC(10,2) NOT NULL,
			monthly_price NUMERIC(10,2) NOT NULL,
			is_rented BOOLEAN NOT NULL DEFAULT FALSE,
			rented_by_user_id INT,
			rented_by_phone_number TEXT,
			rental_start_time TIMESTAMPTZ,
			rental_end_time TIMESTAMPTZ,
			rental_duration_mode TEXT,
			rental_units INT,
			rental_total_price NUMERIC(10,2),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CHECK (rental_end_time IS NULL OR rental_start_time IS NULL OR rental_end_time > rental_start_time)
		)`,
		`CREATE TABLE IF NOT EXISTS p2p_rental_history (
			id SERIAL PRIMARY KEY,
			listing_id INT NOT NULL,
			owner_user_id INT NOT NULL,
			renter_user_id INT NOT NULL,
			renter_phone_number TEXT,
			description TEXT NOT NULL DEFAULT '',
			location_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			location_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
			vehicle_size_allowed TEXT NOT NULL DEFAULT 'car',
			rental_start_time TIMESTAMPTZ,
			rental_end_time TIMESTAMPTZ,
			rental_duration_mode TEXT,
			rental_units INT,
			amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			paid_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	return nil
}
