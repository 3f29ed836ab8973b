package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/japaniel/citylex/pkg/catalog"
	"github.com/japaniel/citylex/pkg/db"
	"github.com/japaniel/citylex/pkg/features"
)

// Projector turns the rows of one source into records of a schema.
type Projector struct {
	tr features.Translator
}

// NewProjector returns a projector that converts tag bundles with tr.
// A nil tr uses the built-in feature table.
func NewProjector(tr features.Translator) *Projector {
	if tr == nil {
		tr = features.DefaultTable()
	}
	return &Projector{tr: tr}
}

// step copies one fetched value into an output column, translating it when
// the column holds a different tagset than the source.
type step struct {
	value     int
	to        catalog.Column
	translate bool
	target    features.Tagset
}

// plan is computed once per source and export.
type plan struct {
	source  *catalog.Source
	columns []string
	steps   []step
	query   string
}

func newPlan(src *catalog.Source, schema Schema, fields catalog.FieldSet) *plan {
	p := &plan{source: src, columns: []string{"wordform", "source"}}
	index := map[string]int{"wordform": 0, "source": 1}
	fetch := func(col string) int {
		if i, ok := index[col]; ok {
			return i
		}
		index[col] = len(p.columns)
		p.columns = append(p.columns, col)
		return index[col]
	}

	if src.Payload != "" {
		fetch(src.Payload)
	}
	for _, m := range src.Mappings {
		if !m.Always && !fields.Has(m.Field) {
			continue
		}
		st := step{value: fetch(m.From), to: m.To}
		if !schema.Has(m.To) {
			continue
		}
		if target, ok := m.To.Tagset(); ok && target != src.Tagset {
			st.translate = true
			st.target = target
		}
		p.steps = append(p.steps, st)
	}

	where := make([]db.Eq, len(src.Where))
	for i, c := range src.Where {
		where[i] = db.Eq{Column: c.Column, Value: c.Value}
	}
	p.query = db.SelectQuery(src.Relation, p.columns, where...)
	return p
}

func (p *plan) record(vals []sql.NullString, tr features.Translator) (Record, error) {
	var rec Record
	rec.Set(catalog.Wordform, vals[0].String)
	rec.Set(catalog.SourceName, string(p.source.ID))
	for _, st := range p.steps {
		v := vals[st.value].String
		if p.source.Tagset != "" {
			v = features.Normalize(v)
		}
		if st.translate {
			out, err := tr.Translate(p.source.Tagset, st.target, v)
			if err != nil {
				var te *features.TagTranslationError
				if !errors.As(err, &te) {
					err = &features.TagTranslationError{From: p.source.Tagset, To: st.target, Tag: v, Err: err}
				}
				return rec, fmt.Errorf("source %s wordform %q: %w", p.source.ID, vals[0].String, err)
			}
			v = out
		}
		rec.Set(st.to, v)
	}
	return rec, nil
}

// Query returns the statement Project runs for src.
func (pr *Projector) Query(src *catalog.Source, schema Schema, fields catalog.FieldSet) string {
	return newPlan(src, schema, fields).query
}

// Project streams one record per row of src matching the source's
// predicates. Iteration stops at the first error. NULL values read as "".
// The source column of every record is src.ID, not the stored label.
func (pr *Projector) Project(ctx context.Context, q db.Querier, src *catalog.Source, schema Schema, fields catalog.FieldSet) iter.Seq2[Record, error] {
	p := newPlan(src, schema, fields)
	return func(yield func(Record, error) bool) {
		rows, err := q.QueryContext(ctx, p.query)
		if err != nil {
			yield(Record{}, &SourceUnavailableError{Source: src.ID, Err: err})
			return
		}
		defer rows.Close()

		vals := make([]sql.NullString, len(p.columns))
		dest := make([]any, len(vals))
		for i := range vals {
			dest[i] = &vals[i]
		}
		for rows.Next() {
			if err := rows.Scan(dest...); err != nil {
				yield(Record{}, &SourceUnavailableError{Source: src.ID, Err: err})
				return
			}
			rec, err := p.record(vals, pr.tr)
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Record{}, &SourceUnavailableError{Source: src.ID, Err: err})
		}
	}
}
