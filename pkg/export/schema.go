package export

import "github.com/japaniel/citylex/pkg/catalog"

// Schema is the ordered list of output columns of one export.
type Schema []catalog.Column

// BuildSchema returns the output columns for the selected fields: the fixed
// columns, then each derived column selected by at least one field, in
// canonical order.
func BuildSchema(cat *catalog.Catalog, fieldIDs []string) (Schema, error) {
	if len(fieldIDs) == 0 {
		return nil, &InvalidSelectionError{}
	}
	var selected [catalog.NumColumns]bool
	for _, id := range fieldIDs {
		col, err := cat.ColumnOf(id)
		if err != nil {
			return nil, err
		}
		selected[col] = true
	}

	schema := make(Schema, 0, catalog.NumColumns)
	schema = append(schema, catalog.FixedColumns...)
	for _, col := range catalog.DerivedColumns {
		if selected[col] {
			schema = append(schema, col)
		}
	}
	return schema, nil
}

// Has reports whether c is part of the schema.
func (s Schema) Has(c catalog.Column) bool {
	for _, col := range s {
		if col == c {
			return true
		}
	}
	return false
}

// Names returns the header row.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, col := range s {
		out[i] = col.String()
	}
	return out
}

// Record is one exported row. Columns that were never set read as "".
type Record struct {
	values [catalog.NumColumns]string
}

// Set assigns the value of column c.
func (r *Record) Set(c catalog.Column, v string) { r.values[c] = v }

// Get returns the value of column c.
func (r Record) Get(c catalog.Column) string { return r.values[c] }

// Values returns the record's fields in schema order.
func (r Record) Values(s Schema) []string {
	out := make([]string, len(s))
	for i, col := range s {
		out[i] = r.values[col]
	}
	return out
}
