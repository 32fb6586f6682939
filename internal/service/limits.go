package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/repository"
)

// checkLength rejects values wider than their column.
func checkLength(v *validator.Validate, field, value string, max int) error {
	if err := v.Var(value, fmt.Sprintf("max=%d", max)); err != nil {
		return apperrors.BadInput("%s is too long. Please use at most %d characters.", field, max)
	}
	return nil
}

// storeErr wraps a failed mutation. A width violation that slipped past
// checkLength still reaches the user as BadInput.
func storeErr(op string, err error) error {
	if errors.Is(err, repository.ErrValueTooLong) {
		return apperrors.BadInput("The value is too long. Please use a shorter one.")
	}
	return fmt.Errorf("%s: %w", op, err)
}
