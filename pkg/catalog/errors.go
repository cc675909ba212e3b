package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrSetNotFound is returned by resolvers when a set number is unknown to
	// the catalog. It is a user error: the number was probably mistyped.
	ErrSetNotFound = errors.New("catalog: set not found")

	// ErrUnknownTheme signals a theme id that resolves to neither a theme nor a
	// root theme. It indicates corrupt reference data.
	ErrUnknownTheme = errors.New("catalog: unknown theme")

	// ErrUnknownSet signals a collection record whose number is missing from
	// the catalog. It indicates the catalog and collection are out of sync.
	ErrUnknownSet = errors.New("catalog: unknown set")

	// ErrInvalidColorName is wrapped by InvalidColorNameError.
	ErrInvalidColorName = errors.New("catalog: invalid color name")
)

// UnknownThemeError reports the theme id that failed to resolve.
type UnknownThemeError struct {
	ID int
	// Via is the theme id resolution started from, when different from ID.
	Via int
}

func (e *UnknownThemeError) Error() string {
	if e.Via != 0 && e.Via != e.ID {
		return fmt.Sprintf("catalog: unknown theme %d (resolving %d)", e.ID, e.Via)
	}
	return fmt.Sprintf("catalog: unknown theme %d", e.ID)
}

func (e *UnknownThemeError) Unwrap() error { return ErrUnknownTheme }

// UnknownSetError reports a set number with no catalog entry.
type UnknownSetError struct {
	Number string
}

func (e *UnknownSetError) Error() string {
	return fmt.Sprintf("catalog: unknown set %q", e.Number)
}

func (e *UnknownSetError) Unwrap() error { return ErrUnknownSet }

// InvalidColorNameError is returned when a displayed color name has no entry
// in the palette. Suggestion holds the closest palette name, if any.
type InvalidColorNameError struct {
	Name       string
	Suggestion string
}

func (e *InvalidColorNameError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown color %q, did you mean %q?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown color %q", e.Name)
}

func (e *InvalidColorNameError) Unwrap() error { return ErrInvalidColorName }
