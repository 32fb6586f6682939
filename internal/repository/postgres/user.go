package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kerhoff/ShopWizard/internal/models"
	"github.com/Kerhoff/ShopWizard/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, first_name, last_name, username, is_bot, language_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.IsBot,
		user.LanguageCode,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %d: %w", user.ID, repository.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, first_name, last_name, username, is_bot, language_code, created_at, updated_at
		FROM users
		WHERE id = $1`

	user := &models.User{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.IsBot,
		&user.LanguageCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, username = $4, is_bot = $5, language_code = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at`

	user.UpdatedAt = time.Now()

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.IsBot,
		user.LanguageCode,
		user.UpdatedAt,
	).Scan(&user.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
