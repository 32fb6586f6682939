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

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact book repository
func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (user_id, first_name, last_name, phone_number, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	contact.CreatedAt = time.Now()

	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		contact.UserID,
		contact.FirstName,
		contact.LastName,
		contact.PhoneNumber,
		contact.CreatedAt,
	).Scan(&contact.ID, &contact.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("contact %s: %w", contact.FullName(), repository.ErrDuplicate)
		}
		if isValueTooLong(err) {
			return nil, fmt.Errorf("contact %s: %w", contact.FullName(), repository.ErrValueTooLong)
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return contact, nil
}

func (r *contactRepository) GetByName(ctx context.Context, userID int64, firstName, lastName string) (*models.Contact, error) {
	query := `
		SELECT id, user_id, first_name, last_name, phone_number, created_at
		FROM contacts
		WHERE user_id = $1 AND first_name = $2 AND last_name = $3`

	contact := &models.Contact{}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID, firstName, lastName).Scan(
		&contact.ID,
		&contact.UserID,
		&contact.FirstName,
		&contact.LastName,
		&contact.PhoneNumber,
		&contact.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact by name: %w", err)
	}

	return contact, nil
}

func (r *contactRepository) GetByUser(ctx context.Context, userID int64) ([]*models.Contact, error) {
	query := `
		SELECT id, user_id, first_name, last_name, phone_number, created_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY id ASC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		if err := rows.Scan(
			&contact.ID,
			&contact.UserID,
			&contact.FirstName,
			&contact.LastName,
			&contact.PhoneNumber,
			&contact.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	return contacts, rows.Err()
}

func (r *contactRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM contacts WHERE user_id = $1`

	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	return count, nil
}

func (r *contactRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM contacts WHERE id = $1`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return expectOneRow(result, "contact", id)
}
