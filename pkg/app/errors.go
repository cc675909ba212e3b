package app

import (
	"errors"
	"fmt"

	"tableflip.dev/bricks/pkg/catalog"
	"tableflip.dev/bricks/pkg/collection"
	"tableflip.dev/bricks/pkg/selection"
)

var (
	// ErrInvalidNumber is returned for an empty set number.
	ErrInvalidNumber = errors.New("app: invalid set number")
	// ErrInvalidValue is matched by *FieldError.
	ErrInvalidValue = errors.New("app: invalid value")
	// ErrNotLoaded is returned before Load succeeded.
	ErrNotLoaded = errors.New("app: collection not loaded")
)

// FieldError reports a rejected edit of a record field.
type FieldError struct {
	Field Field
	Value string
	Want  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q, expected %s", e.Field, e.Value, e.Want)
}

func (e *FieldError) Unwrap() error { return ErrInvalidValue }

var userErrors = []error{
	ErrInvalidNumber,
	ErrInvalidValue,
	collection.ErrNotFound,
	collection.ErrDuplicateSet,
	catalog.ErrSetNotFound,
	catalog.ErrInvalidColorName,
	selection.ErrInvalidQuantity,
	selection.ErrNotFound,
}

// IsUserError reports whether err comes from bad input and should be shown
// inline, as opposed to a broken catalog or an I/O failure.
func IsUserError(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	var line *selection.LineError
	return errors.As(err, &line)
}

// IsCatalogError reports whether err means the catalog data is inconsistent
// with the collection.
func IsCatalogError(err error) bool {
	return errors.Is(err, catalog.ErrUnknownSet) || errors.Is(err, catalog.ErrUnknownTheme)
}
