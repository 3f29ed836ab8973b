package features

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableLoads(t *testing.T) {
	table := DefaultTable()
	require.Positive(t, table.Len())
	for _, ts := range Tagsets {
		assert.Len(t, table.Vocabulary(ts), table.Len(), "vocabulary for %s", ts)
	}
}

func TestTranslate(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name     string
		from, to Tagset
		tag      string
		want     string
	}{
		{"unimorph to ud", UniMorph, UD, "V|PST", "VERB|Tense=Past"},
		{"ud to celex", UD, CELEX, "NOUN|Number=Plur", "N|P"},
		{"ud to unimorph", UD, UniMorph, "VERB|Person=3|Number=Sing|Tense=Pres", "V|3|SG|PRS"},
		{"celex to ud", CELEX, UD, "A|c", "ADJ|Degree=Cmp"},
		{"identity keeps unknown features", UD, UD, "whatever|x", "whatever|x"},
		{"empty tag", UniMorph, CELEX, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Translate(tt.from, tt.to, tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateUnknownFeature(t *testing.T) {
	table := DefaultTable()

	_, err := table.Translate(UniMorph, UD, "V|NOPE")
	require.Error(t, err)

	var tagErr *TagTranslationError
	require.True(t, errors.As(err, &tagErr))
	assert.Equal(t, "NOPE", tagErr.Feature)
	assert.Equal(t, UniMorph, tagErr.From)
	assert.Equal(t, UD, tagErr.To)
	assert.Contains(t, err.Error(), `unrecognized feature "NOPE"`)
}

func TestTranslateUnknownTagset(t *testing.T) {
	_, err := DefaultTable().Translate(Tagset("Penn"), UD, "NN")
	var tagErr *TagTranslationError
	require.ErrorAs(t, err, &tagErr)
	assert.Contains(t, err.Error(), "unknown tagset")
}

// Every feature survives a trip into any other tagset and back.
func TestTranslateRoundTrip(t *testing.T) {
	table := DefaultTable()
	for _, from := range Tagsets {
		tag := strings.Join(table.Vocabulary(from), Separator)
		for _, to := range Tagsets {
			there, err := table.Translate(from, to, tag)
			require.NoError(t, err)
			back, err := table.Translate(to, from, there)
			require.NoError(t, err)
			assert.Equal(t, tag, back, "%s -> %s -> %s", from, to, from)
		}
	}
}

func TestLoadTableRejectsDuplicates(t *testing.T) {
	doc := `
features:
  - {UD: NOUN, UniMorph: N, CELEX: N}
  - {UD: PROPN, UniMorph: N, CELEX: PN}
`
	_, err := LoadTable(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined in row 1")
}

func TestLoadTableRejectsIncompleteRows(t *testing.T) {
	tests := map[string]string{
		"missing tagset":  "features:\n  - {UD: NOUN, UniMorph: N}\n",
		"unknown tagset":  "features:\n  - {UD: NOUN, UniMorph: N, CELEX: N, Penn: NN}\n",
		"separator":       "features:\n  - {UD: NOUN|X, UniMorph: N, CELEX: N}\n",
		"empty":           "features: []\n",
		"unknown section": "rows: []\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadTable(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features:\n  - {UD: NOUN, UniMorph: N, CELEX: N}\n"), 0o644))

	table, err := LoadTableFile(path)
	require.NoError(t, err)
	got, err := table.Translate(CELEX, UD, "N")
	require.NoError(t, err)
	assert.Equal(t, "NOUN", got)

	_, err = LoadTableFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "V|PST", Normalize("V|PST"))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "N||PL", Normalize("N||PL"))
}

func TestParseTagset(t *testing.T) {
	ts, err := ParseTagset("UniMorph")
	require.NoError(t, err)
	assert.Equal(t, UniMorph, ts)

	_, err = ParseTagset("unimorph")
	assert.Error(t, err)
}
