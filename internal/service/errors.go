package service

import (
	"errors"
	"fmt"
	"strings"

	"go-farm-inventory/pkg/logger"
	"go-farm-inventory/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrLineageCorrupt means a parent chain loops or is deeper than allowed.
	ErrLineageCorrupt = errors.New("batch lineage is corrupt")
)

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// validateRequest runs the struct tags and turns the failures into one
// ValidationError naming every failed field.
func validateRequest(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("field '%s' failed on '%s'", e.FailedField, e.Tag))
	}
	return &ValidationError{Message: "Validation failed: " + strings.Join(parts, "; ")}
}

func notFound(entity string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
}

// mapNotFound converts gorm's missing-row error into ErrNotFound for entity.
func mapNotFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return err
}

// logFailure records unexpected failures; client errors are not logged.
func logFailure(funcName, context string, data any, err error) {
	var vErr *ValidationError
	if err == nil || errors.As(err, &vErr) || errors.Is(err, ErrNotFound) {
		return
	}
	logger.LogError("service", funcName, context, data, err)
}
