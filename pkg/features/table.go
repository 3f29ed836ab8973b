package features

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_table.yaml
var defaultTableYAML string

// Row pairs one feature across all tagsets.
type Row map[Tagset]string

// tableFile is the on-disk layout of a tag table.
type tableFile struct {
	Features []map[string]string `yaml:"features"`
}

// Table is a one-to-one feature correspondence table. It is immutable once
// loaded and therefore safe to share between requests.
type Table struct {
	rows []Row
	// index maps tagset -> feature -> row number.
	index map[Tagset]map[string]int
}

// LoadTable parses a YAML tag table.
func LoadTable(r io.Reader) (*Table, error) {
	var tf tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("failed to parse tag table: %w", err)
	}
	if len(tf.Features) == 0 {
		return nil, fmt.Errorf("tag table has no features")
	}

	t := &Table{index: make(map[Tagset]map[string]int, len(Tagsets))}
	for _, ts := range Tagsets {
		t.index[ts] = make(map[string]int)
	}
	for i, raw := range tf.Features {
		row := make(Row, len(Tagsets))
		for name, feat := range raw {
			ts, err := ParseTagset(name)
			if err != nil {
				return nil, fmt.Errorf("tag table row %d: %w", i+1, err)
			}
			row[ts] = feat
		}
		for _, ts := range Tagsets {
			feat := strings.TrimSpace(row[ts])
			if feat == "" {
				return nil, fmt.Errorf("tag table row %d: missing %s feature", i+1, ts)
			}
			if strings.Contains(feat, Separator) {
				return nil, fmt.Errorf("tag table row %d: %s feature %q contains %q", i+1, ts, feat, Separator)
			}
			if prev, dup := t.index[ts][feat]; dup {
				return nil, fmt.Errorf("tag table row %d: %s feature %q already defined in row %d", i+1, ts, feat, prev+1)
			}
			row[ts] = feat
			t.index[ts][feat] = i
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// LoadTableFile reads a YAML tag table from path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTable(f)
}

// DefaultTable returns the table bundled with the binary.
func DefaultTable() *Table {
	t, err := LoadTable(strings.NewReader(defaultTableYAML))
	if err != nil {
		panic(fmt.Sprintf("features: embedded tag table is invalid: %v", err))
	}
	return t
}

// Len returns the number of feature rows.
func (t *Table) Len() int { return len(t.rows) }

// Vocabulary returns every feature of ts in table order.
func (t *Table) Vocabulary(ts Tagset) []string {
	out := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, row[ts])
	}
	return out
}

// Translate converts tag feature by feature, keeping feature order.
// Identical tagsets return the tag untouched.
func (t *Table) Translate(from, to Tagset, tag string) (string, error) {
	if from == to {
		return tag, nil
	}
	src, ok := t.index[from]
	if !ok {
		return "", &TagTranslationError{From: from, To: to, Tag: tag, Err: fmt.Errorf("unknown tagset %q", from)}
	}
	if _, ok := t.index[to]; !ok {
		return "", &TagTranslationError{From: from, To: to, Tag: tag, Err: fmt.Errorf("unknown tagset %q", to)}
	}
	if tag == "" {
		return "", nil
	}

	feats := strings.Split(tag, Separator)
	out := make([]string, len(feats))
	for i, feat := range feats {
		n, ok := src[feat]
		if !ok {
			return "", &TagTranslationError{From: from, To: to, Tag: tag, Feature: feat}
		}
		out[i] = t.rows[n][to]
	}
	return strings.Join(out, Separator), nil
}
