package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"kitchen-api/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// UpsertAdmin creates or updates the bootstrap admin account
	UpsertAdmin(ctx context.Context, username, passwordHash string) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, phone, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database using parameterized queries
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, phone, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		// Check for unique constraint violation (duplicate username)
		if strings.Contains(err.Error(), "users_username_key") &&
			strings.Contains(err.Error(), "23505") {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByUsername retrieves a user by the exact, case-sensitive username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findBy(ctx, "username", username)
}

// FindByEmail retrieves a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findBy(ctx, "email", email)
}

// FindByPhone retrieves a user by phone number
func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findBy(ctx, "phone", phone)
}

func (r *userRepository) findBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s = $1
	`, userColumns, column)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by %s: %w", column, err)
	}

	return user, nil
}

// FindByID retrieves a user by ID using parameterized queries
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE id = $1
	`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// UpsertAdmin creates the admin account or refreshes its password hash.
// Used by first-run seeding; safe to call on every startup.
func (r *userRepository) UpsertAdmin(ctx context.Context, username, passwordHash string) error {
	query := `
		INSERT INTO users (id, username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, 'admin', $4, $4)
		ON CONFLICT (username)
		DO UPDATE SET password_hash = EXCLUDED.password_hash, role = 'admin', updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), username, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert admin: %w", err)
	}

	return nil
}
