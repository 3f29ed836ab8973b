package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/citylex/pkg/features"
)

func TestDefaultCatalogOrder(t *testing.T) {
	var ids []SourceID
	for _, s := range Default().Sources() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []SourceID{SubtlexUS, SubtlexUK, WikiPronUS, WikiPronUK, UDLexicons, UniMorph}, ids)
}

func TestSourcesForRequestUsesCatalogOrder(t *testing.T) {
	cat := Default()
	got, err := cat.SourcesForRequest([]string{"UniMorph", "WikiPron-UK", "SUBTLEX-US", "UniMorph"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, SubtlexUS, got[0].ID)
	assert.Equal(t, WikiPronUK, got[1].ID)
	assert.Equal(t, UniMorph, got[2].ID)
}

func TestSourcesForRequestUnknown(t *testing.T) {
	_, err := Default().SourcesForRequest([]string{"SUBTLEX-US", "CELEX"})
	var unknown *UnknownSourceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "CELEX", unknown.ID)
}

func TestFieldsSupportedBy(t *testing.T) {
	cat := Default()

	tests := []struct {
		source string
		want   []FieldID
	}{
		{"SUBTLEX-US", []FieldID{"subtlexus_raw_frequency", "subtlexus_freq_per_million"}},
		{"SUBTLEX-UK", []FieldID{"subtlexuk_raw_frequency", "subtlexuk_freq_per_million"}},
		{"WikiPron-US", []FieldID{"wikipronus_IPA"}},
		{"WikiPron-UK", []FieldID{"wikipronuk_IPA"}},
		{"UDLexicons", []FieldID{"udlex_CELEXtags", "udlex_UDtags", "udlex_UMtags"}},
		{"UniMorph", []FieldID{"um_CELEXtags", "um_UDtags", "um_UMtags"}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			set, err := cat.FieldsSupportedBy(tt.source)
			require.NoError(t, err)
			assert.Len(t, set, len(tt.want))
			for _, f := range tt.want {
				assert.True(t, set.Has(f), "missing %s", f)
			}
		})
	}

	_, err := cat.FieldsSupportedBy("nope")
	assert.ErrorAs(t, err, new(*UnknownSourceError))
}

func TestColumnOf(t *testing.T) {
	cat := Default()
	tests := map[string]Column{
		"subtlexus_raw_frequency":    RawFrequency,
		"subtlexuk_raw_frequency":    RawFrequency,
		"subtlexuk_freq_per_million": FreqPerMillion,
		"wikipronuk_IPA":             IPAPronunciation,
		"udlex_CELEXtags":            CELEXTags,
		"um_UDtags":                  UDTags,
		"um_UMtags":                  UniMorphTags,
	}
	for field, want := range tests {
		got, err := cat.ColumnOf(field)
		require.NoError(t, err, field)
		assert.Equal(t, want, got, field)
	}

	src, col, err := cat.LookupField("wikipronus_IPA")
	require.NoError(t, err)
	assert.Equal(t, WikiPronUS, src.ID)
	assert.Equal(t, IPAPronunciation, col)

	_, err = cat.ColumnOf("subtlex_raw_frequency")
	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, `unknown field "subtlex_raw_frequency"`, err.Error())
}

func TestResolveFields(t *testing.T) {
	cat := Default()
	set, err := cat.ResolveFields([]string{"um_UDtags", "udlex_UDtags", "um_UDtags"})
	require.NoError(t, err)
	assert.Len(t, set, 2)

	_, err = cat.ResolveFields([]string{"um_UDtags", "typo"})
	assert.ErrorAs(t, err, new(*UnknownFieldError))
}

func TestSourceLabel(t *testing.T) {
	cat := Default()
	us, err := cat.Source("WikiPron-US")
	require.NoError(t, err)
	assert.Equal(t, "WikiPron US", us.Label())

	sub, err := cat.Source("SUBTLEX-UK")
	require.NoError(t, err)
	assert.Equal(t, "SUBTLEX-UK", sub.Label())
}

func TestColumnNames(t *testing.T) {
	var names []string
	for c := Column(0); int(c) < NumColumns; c++ {
		names = append(names, c.String())
	}
	assert.Equal(t, []string{
		"wordform", "source", "raw_frequency", "freq_per_million",
		"IPA_pronunciation", "CELEX_tags", "UD_tags", "UniMorph_tags",
	}, names)
	assert.Equal(t, "Column(42)", Column(42).String())

	ts, ok := UniMorphTags.Tagset()
	assert.True(t, ok)
	assert.Equal(t, features.UniMorph, ts)
	_, ok = RawFrequency.Tagset()
	assert.False(t, ok)
}

func TestNewRejectsInvalidCatalogs(t *testing.T) {
	good := func() *Source {
		return &Source{
			ID:       "A",
			Relation: "frequency",
			Where:    []Condition{{Column: "source", Value: "A"}},
			Mappings: []Mapping{{Field: "a_raw", From: "raw_frequency", To: RawFrequency}},
		}
	}

	tests := []struct {
		name    string
		sources func() []*Source
		errPart string
	}{
		{"duplicate source", func() []*Source { return []*Source{good(), good()} }, "registered twice"},
		{"duplicate field", func() []*Source {
			b := good()
			b.ID = "B"
			return []*Source{good(), b}
		}, "registered by both"},
		{"bad relation", func() []*Source {
			s := good()
			s.Relation = "frequency; DROP TABLE x"
			return []*Source{s}
		}, "invalid relation"},
		{"fixed column target", func() []*Source {
			s := good()
			s.Mappings[0].To = Wordform
			return []*Source{s}
		}, "non-derived column"},
		{"tag column without tagset", func() []*Source {
			s := good()
			s.Mappings[0].To = UDTags
			return []*Source{s}
		}, "has no tagset"},
		{"empty id", func() []*Source {
			s := good()
			s.ID = ""
			return []*Source{s}
		}, "non-empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.sources()...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}
