package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/models"
	"github.com/Kerhoff/ShopWizard/internal/repository"
)

// ContactBookService manages a user's contacts, keyed by first and last name.
type ContactBookService struct {
	users    repository.UserRepository
	contacts repository.ContactRepository
	validate *validator.Validate
}

// Count returns the number of contacts the user has.
func (s *ContactBookService) Count(ctx context.Context, userID int64) (int, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return 0, err
	}

	count, err := s.contacts.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return count, nil
}

// List renders the contacts as a 1-based numbered "First Last" listing, one
// per line. It returns an empty string when there are none.
func (s *ContactBookService) List(ctx context.Context, userID int64) (string, error) {
	contacts, err := s.All(ctx, userID)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(contacts))
	for i, c := range contacts {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, c.FullName()))
	}
	return strings.Join(lines, "\n"), nil
}

// All returns the contact records in creation order.
func (s *ContactBookService) All(ctx context.Context, userID int64) ([]*models.Contact, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	contacts, err := s.contacts.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactBookService) Show(ctx context.Context, userID int64, firstName, lastName string) (*models.Contact, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetByName(ctx, userID, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("lookup contact: %w", err)
	}
	if contact == nil {
		return nil, apperrors.NotFound("contact", `Contact "%s" not found.`, firstName)
	}
	return contact, nil
}

func (s *ContactBookService) Add(ctx context.Context, userID int64, firstName, lastName, phone string) (*models.Contact, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	if err := checkLength(s.validate, "First name", firstName, repository.MaxNameLength); err != nil {
		return nil, err
	}
	if err := checkLength(s.validate, "Last name", lastName, repository.MaxNameLength); err != nil {
		return nil, err
	}
	if err := checkLength(s.validate, "Phone number", phone, repository.MaxPhoneLength); err != nil {
		return nil, err
	}

	existing, err := s.contacts.GetByName(ctx, userID, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("lookup contact: %w", err)
	}
	if existing != nil {
		return nil, contactExists(firstName)
	}

	contact, err := s.contacts.Create(ctx, &models.Contact{
		UserID:      userID,
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: phone,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, contactExists(firstName)
	}
	if err != nil {
		return nil, storeErr("add contact", err)
	}
	return contact, nil
}

func (s *ContactBookService) Delete(ctx context.Context, userID int64, firstName, lastName string) error {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return err
	}

	contact, err := s.contacts.GetByName(ctx, userID, firstName, lastName)
	if err != nil {
		return fmt.Errorf("lookup contact: %w", err)
	}
	if contact == nil {
		return apperrors.NotFound("contact", `Contact "%s" not found in your contact book.`, firstName)
	}

	if err := s.contacts.Delete(ctx, contact.ID); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

func contactExists(firstName string) error {
	return apperrors.AlreadyExists("contact", `Contact "%s" already exists in your contact book.`, firstName)
}
