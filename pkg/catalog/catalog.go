// Package catalog is the static registry of exportable lexical sources: which
// relation each source reads, how its rows are selected, and which output
// columns its fields populate.
package catalog

import (
	"fmt"
	"regexp"

	"github.com/japaniel/citylex/pkg/features"
)

// SourceID identifies a selectable source, e.g. "SUBTLEX-US".
type SourceID string

// FieldID identifies a selectable field, e.g. "subtlexus_raw_frequency".
type FieldID string

// Column is an output column. Its numeric order is the canonical header order.
type Column int

const (
	Wordform Column = iota
	SourceName
	RawFrequency
	FreqPerMillion
	IPAPronunciation
	CELEXTags
	UDTags
	UniMorphTags

	NumColumns int = iota
)

var columnNames = [NumColumns]string{
	"wordform",
	"source",
	"raw_frequency",
	"freq_per_million",
	"IPA_pronunciation",
	"CELEX_tags",
	"UD_tags",
	"UniMorph_tags",
}

func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// Tagset returns the tagset whose tags the column holds, if any.
func (c Column) Tagset() (features.Tagset, bool) {
	switch c {
	case CELEXTags:
		return features.CELEX, true
	case UDTags:
		return features.UD, true
	case UniMorphTags:
		return features.UniMorph, true
	}
	return "", false
}

// FixedColumns start every export.
var FixedColumns = []Column{Wordform, SourceName}

// DerivedColumns are appended after FixedColumns, in this order, when selected.
var DerivedColumns = []Column{RawFrequency, FreqPerMillion, IPAPronunciation, CELEXTags, UDTags, UniMorphTags}

// Condition is an equality test on a relation column.
type Condition struct {
	Column string
	Value  string
}

// Mapping routes a relation column into an output column.
type Mapping struct {
	Field FieldID
	From  string
	To    Column
	// Always marks mappings applied whenever the source is exported,
	// whether or not Field itself was selected.
	Always bool
}

// Source describes one exportable dataset.
type Source struct {
	ID       SourceID
	Relation string
	Where    []Condition
	// Payload is fetched for every export of the source, even when it feeds
	// several output columns or none.
	Payload string
	// Tagset is the annotation standard of Payload for feature sources.
	Tagset   features.Tagset
	Mappings []Mapping
}

// Label returns the value stored in the relation's source column.
func (s *Source) Label() string {
	for _, c := range s.Where {
		if c.Column == "source" {
			return c.Value
		}
	}
	return string(s.ID)
}

// Fields returns the field ids the source supports, in mapping order.
func (s *Source) Fields() []FieldID {
	out := make([]FieldID, 0, len(s.Mappings))
	for _, m := range s.Mappings {
		out = append(out, m.Field)
	}
	return out
}

// Catalog is an immutable, ordered set of sources.
type Catalog struct {
	sources []*Source
	byID    map[SourceID]*Source
	fields  map[FieldID]fieldRef
}

type fieldRef struct {
	source *Source
	column Column
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// New builds a catalog. Source order is the export order.
func New(sources ...*Source) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[SourceID]*Source, len(sources)),
		fields: make(map[FieldID]fieldRef),
	}
	for _, s := range sources {
		if s.ID == "" {
			return nil, fmt.Errorf("source id must be non-empty")
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("source %s registered twice", s.ID)
		}
		if !identRe.MatchString(s.Relation) {
			return nil, fmt.Errorf("source %s: invalid relation name %q", s.ID, s.Relation)
		}
		for _, cond := range s.Where {
			if !identRe.MatchString(cond.Column) {
				return nil, fmt.Errorf("source %s: invalid predicate column %q", s.ID, cond.Column)
			}
		}
		if s.Payload != "" && !identRe.MatchString(s.Payload) {
			return nil, fmt.Errorf("source %s: invalid payload column %q", s.ID, s.Payload)
		}
		for _, m := range s.Mappings {
			if !identRe.MatchString(m.From) {
				return nil, fmt.Errorf("source %s: field %s reads invalid column %q", s.ID, m.Field, m.From)
			}
			if m.To < RawFrequency || int(m.To) >= NumColumns {
				return nil, fmt.Errorf("source %s: field %s targets non-derived column %s", s.ID, m.Field, m.To)
			}
			if _, isTag := m.To.Tagset(); isTag && s.Tagset == "" {
				return nil, fmt.Errorf("source %s: field %s targets %s but the source has no tagset", s.ID, m.Field, m.To)
			}
			if prev, dup := c.fields[m.Field]; dup {
				return nil, fmt.Errorf("field %s registered by both %s and %s", m.Field, prev.source.ID, s.ID)
			}
			c.fields[m.Field] = fieldRef{source: s, column: m.To}
		}
		c.byID[s.ID] = s
		c.sources = append(c.sources, s)
	}
	return c, nil
}

// MustNew is like New but panics on an invalid catalog.
func MustNew(sources ...*Source) *Catalog {
	c, err := New(sources...)
	if err != nil {
		panic(err)
	}
	return c
}

// Sources returns every source in catalog order.
func (c *Catalog) Sources() []*Source {
	out := make([]*Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// Source looks up a single source.
func (c *Catalog) Source(id string) (*Source, error) {
	s, ok := c.byID[SourceID(id)]
	if !ok {
		return nil, &UnknownSourceError{ID: id}
	}
	return s, nil
}

// SourcesForRequest resolves the selected ids and returns the sources in
// catalog order. Selection order and duplicates are ignored.
func (c *Catalog) SourcesForRequest(ids []string) ([]*Source, error) {
	selected := make(map[SourceID]bool, len(ids))
	for _, id := range ids {
		if _, ok := c.byID[SourceID(id)]; !ok {
			return nil, &UnknownSourceError{ID: id}
		}
		selected[SourceID(id)] = true
	}
	var out []*Source
	for _, s := range c.sources {
		if selected[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

// FieldsSupportedBy returns the set of fields the source can supply.
func (c *Catalog) FieldsSupportedBy(id string) (FieldSet, error) {
	s, err := c.Source(id)
	if err != nil {
		return nil, err
	}
	set := make(FieldSet, len(s.Mappings))
	for _, m := range s.Mappings {
		set[m.Field] = struct{}{}
	}
	return set, nil
}

// LookupField returns the source that supplies a field and the column it fills.
func (c *Catalog) LookupField(id string) (*Source, Column, error) {
	ref, ok := c.fields[FieldID(id)]
	if !ok {
		return nil, 0, &UnknownFieldError{ID: id}
	}
	return ref.source, ref.column, nil
}

// ColumnOf returns the output column a field populates.
func (c *Catalog) ColumnOf(id string) (Column, error) {
	_, col, err := c.LookupField(id)
	return col, err
}

// ResolveFields validates the selected field ids.
func (c *Catalog) ResolveFields(ids []string) (FieldSet, error) {
	set := make(FieldSet, len(ids))
	for _, id := range ids {
		if _, ok := c.fields[FieldID(id)]; !ok {
			return nil, &UnknownFieldError{ID: id}
		}
		set[FieldID(id)] = struct{}{}
	}
	return set, nil
}

// FieldSet is a set of selected fields.
type FieldSet map[FieldID]struct{}

// Has reports whether id is in the set.
func (fs FieldSet) Has(id FieldID) bool {
	_, ok := fs[id]
	return ok
}

// UnknownSourceError is returned for a source id that is not registered.
type UnknownSourceError struct{ ID string }

func (e *UnknownSourceError) Error() string { return fmt.Sprintf("unknown data source %q", e.ID) }

// UnknownFieldError is returned for a field id that is not registered.
type UnknownFieldError struct{ ID string }

func (e *UnknownFieldError) Error() string { return fmt.Sprintf("unknown field %q", e.ID) }
