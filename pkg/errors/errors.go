package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for the rewards system
var (
	ErrPromotionNotFound         = errors.New("promotion not found")
	ErrParticipationNotFound     = errors.New("participation not found")
	ErrInstallerNotFound         = errors.New("installer not found")
	ErrAlreadyParticipating      = errors.New("installer already participating in this promotion")
	ErrParticipationNotCompleted = errors.New("participation is not completed")
)

// ValidationError reports every field that failed validation, not just the
// first one.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// IneligibleError reports which eligibility rule rejected the installer.
type IneligibleError struct {
	Rule string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("installer not eligible: %s", e.Rule)
}
