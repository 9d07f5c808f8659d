package workspace

import (
	"errors"
	"fmt"

	"pagebase/internal/property"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownProperty = fmt.Errorf("unknown property: %w", ErrNotFound)
	ErrForeignProperty = errors.New("property does not belong to the page's database")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrStorage         = errors.New("storage failure")
)

// Class is the coarse outcome a caller needs to tell apart.
type Class int

const (
	ClassOK Class = iota
	ClassNotFound
	ClassInvalid
	ClassStorage
)

func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassOK
	case errors.Is(err, ErrNotFound):
		return ClassNotFound
	case isInvalid(err):
		return ClassInvalid
	default:
		return ClassStorage
	}
}

func isInvalid(err error) bool {
	for _, target := range []error{
		property.ErrUnknownType,
		property.ErrInvalidValueShape,
		property.ErrInvalidOption,
		property.ErrInvalidConfig,
		ErrForeignProperty,
		ErrInvalidFilter,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string {
	return e.op + ": " + ErrStorage.Error() + ": " + e.err.Error()
}

func (e *storageError) Unwrap() []error { return []error{ErrStorage, e.err} }

// wrap passes domain errors through and turns everything else into an
// opaque storage failure tagged with op.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), isInvalid(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &storageError{op: op, err: err}
}
