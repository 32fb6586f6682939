package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/models"
	"github.com/Kerhoff/ShopWizard/internal/repository"
)

// Service is the central business logic layer. It owns the user lifecycle and
// exposes the shop list and contact book operations.
type Service struct {
	logger      *logrus.Logger
	Users       repository.UserRepository
	ShopWizard  *ShopWizardService
	ContactBook *ContactBookService
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger,
	tx repository.Transactor,
	users repository.UserRepository,
	lists repository.ShopListRepository,
	contacts repository.ContactRepository,
) *Service {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return &Service{
		logger:      logger,
		Users:       users,
		ShopWizard:  &ShopWizardService{tx: tx, users: users, lists: lists, validate: validate},
		ContactBook: &ContactBookService{users: users, contacts: contacts, validate: validate},
	}
}

// EnsureUser retrieves an existing user by Telegram ID, or creates a new one
// if not found. If the user already exists but their profile information has
// changed, it updates the record.
func (s *Service) EnsureUser(ctx context.Context, profile models.User) (*models.User, error) {
	profile.Username = strings.TrimSpace(profile.Username)
	profile.FirstName = strings.TrimSpace(profile.FirstName)
	profile.LastName = strings.TrimSpace(profile.LastName)

	user, err := s.Users.GetByID(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user %d: %w", profile.ID, err)
	}
	if user == nil {
		user, err = s.Users.Create(ctx, &profile)
		if errors.Is(err, repository.ErrDuplicate) {
			// Another delivery for the same user won the insert.
			return s.Users.GetByID(ctx, profile.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create user %d: %w", profile.ID, err)
		}
		s.logger.Infof("Created new user: %s (id=%d)", user.DisplayName(), user.ID)
		return user, nil
	}

	if user.Username == profile.Username &&
		user.FirstName == profile.FirstName &&
		user.LastName == profile.LastName &&
		user.IsBot == profile.IsBot &&
		user.LanguageCode == profile.LanguageCode {
		return user, nil
	}

	user.Username = profile.Username
	user.FirstName = profile.FirstName
	user.LastName = profile.LastName
	user.IsBot = profile.IsBot
	user.LanguageCode = profile.LanguageCode

	user, err = s.Users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", profile.ID, err)
	}
	s.logger.Debugf("Updated user profile: %s (id=%d)", user.DisplayName(), user.ID)

	return user, nil
}

// requireUser loads the owner or fails with NotFound(user).
func requireUser(ctx context.Context, users repository.UserRepository, userID int64) (*models.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user %d: %w", userID, err)
	}
	if user == nil {
		return nil, apperrors.UserNotFound(userID)
	}
	return user, nil
}
