package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/leozw/clerk-user-sync/internal/config"
	"github.com/leozw/clerk-user-sync/internal/core"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

const uniqueViolation = "23505"

const userColumns = `id, clerk_id, email, username, first_name, last_name, photo, created_at, updated_at`

type Repository struct {
	db *sqlx.DB
}

func NewConnection(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// User operations
func (r *Repository) CreateUser(ctx context.Context, evt core.UserEvent) (*core.User, error) {
	u := core.NewUser(evt)
	query := `
        INSERT INTO users (
            id, clerk_id, email, username, first_name, last_name,
            photo, created_at, updated_at
        ) VALUES (
            :id, :clerk_id, :email, :username, :first_name, :last_name,
            :photo, :created_at, :updated_at
        )`

	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: clerk id %s", ErrUserExists, evt.ClerkID)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

func (r *Repository) GetUserByClerkID(ctx context.Context, clerkID string) (*core.User, error) {
	var u core.User
	query := `SELECT ` + userColumns + ` FROM users WHERE clerk_id = $1`
	err := r.db.GetContext(ctx, &u, query, clerkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UpdateUser(ctx context.Context, clerkID string, upd core.UserUpdate) (*core.User, error) {
	var u core.User
	query := `
        UPDATE users SET
            username = $1,
            first_name = $2,
            last_name = $3,
            photo = $4,
            updated_at = $5
        WHERE clerk_id = $6
        RETURNING ` + userColumns

	err := r.db.GetContext(ctx, &u, query,
		upd.Username,
		upd.FirstName,
		upd.LastName,
		upd.Photo,
		time.Now().UTC(),
		clerkID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &u, nil
}

// DeleteUser removes the user and returns the row as it was.
func (r *Repository) DeleteUser(ctx context.Context, clerkID string) (*core.User, error) {
	var u core.User
	query := `DELETE FROM users WHERE clerk_id = $1 RETURNING ` + userColumns
	err := r.db.GetContext(ctx, &u, query, clerkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return &u, nil
}
