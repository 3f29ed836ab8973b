package export

import (
	"errors"
	"fmt"

	"github.com/japaniel/citylex/pkg/catalog"
	"github.com/japaniel/citylex/pkg/features"
)

var errNoStore = errors.New("no lexicon store configured")

// InvalidSelectionMessage is returned to clients that selected no source or no field.
const InvalidSelectionMessage = "Please select at least one data source and field."

// InvalidSelectionError is returned when the source or field selection is empty.
type InvalidSelectionError struct{}

func (e *InvalidSelectionError) Error() string { return InvalidSelectionMessage }

// UnknownFormatError is returned for an unsupported output format.
type UnknownFormatError struct{ Name string }

func (e *UnknownFormatError) Error() string { return fmt.Sprintf("unknown output format %q", e.Name) }

// SourceUnavailableError is returned when the store cannot be opened or read.
// Source is empty when the store itself could not be opened.
type SourceUnavailableError struct {
	Source catalog.SourceID
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("lexicon store unavailable: %v", e.Err)
	}
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Aliases so callers of this package can match every export failure without
// importing catalog and features.
type (
	UnknownSourceError  = catalog.UnknownSourceError
	UnknownFieldError   = catalog.UnknownFieldError
	TagTranslationError = features.TagTranslationError
)

// IsClientError reports whether err was caused by a malformed selection.
func IsClientError(err error) bool {
	var (
		invalid       *InvalidSelectionError
		unknownSource *UnknownSourceError
		unknownField  *UnknownFieldError
		unknownFormat *UnknownFormatError
	)
	return errors.As(err, &invalid) ||
		errors.As(err, &unknownSource) ||
		errors.As(err, &unknownField) ||
		errors.As(err, &unknownFormat)
}
