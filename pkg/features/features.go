// Package features converts morphological tag bundles between the UD,
// UniMorph and CELEX annotation standards.
package features

import (
	"fmt"
	"strings"
)

// Tagset names a morphological annotation standard.
type Tagset string

const (
	UD       Tagset = "UD"
	UniMorph Tagset = "UniMorph"
	CELEX    Tagset = "CELEX"
)

// Tagsets lists the supported tagsets in table column order.
var Tagsets = []Tagset{UD, UniMorph, CELEX}

// Separator joins the individual features of a stored tag bundle.
const Separator = "|"

// ParseTagset returns the Tagset with the given name.
func ParseTagset(name string) (Tagset, error) {
	for _, ts := range Tagsets {
		if string(ts) == name {
			return ts, nil
		}
	}
	return "", fmt.Errorf("unknown tagset %q", name)
}

// Translator converts a tag bundle from one tagset into another.
// Implementations must be safe for concurrent use.
type Translator interface {
	Translate(from, to Tagset, tag string) (string, error)
}

// TranslatorFunc adapts a plain function to the Translator interface.
type TranslatorFunc func(from, to Tagset, tag string) (string, error)

// Translate calls f(from, to, tag).
func (f TranslatorFunc) Translate(from, to Tagset, tag string) (string, error) {
	return f(from, to, tag)
}

// Normalize splits a stored bundle on the separator and joins it back.
func Normalize(bundle string) string {
	return strings.Join(strings.Split(bundle, Separator), Separator)
}

// TagTranslationError reports a tag the translator could not convert.
type TagTranslationError struct {
	From    Tagset
	To      Tagset
	Tag     string
	Feature string
	Err     error
}

func (e *TagTranslationError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("translate %s tag %q to %s: %v", e.From, e.Tag, e.To, e.Err)
	case e.Feature != "":
		return fmt.Sprintf("translate %s tag %q to %s: unrecognized feature %q", e.From, e.Tag, e.To, e.Feature)
	default:
		return fmt.Sprintf("translate %s tag %q to %s", e.From, e.Tag, e.To)
	}
}

func (e *TagTranslationError) Unwrap() error { return e.Err }
