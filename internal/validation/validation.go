// Package validation checks request input before it reaches the services.
package validation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}
