package catalog

import "github.com/japaniel/citylex/pkg/features"

// Source ids of the built-in catalog.
const (
	SubtlexUS  SourceID = "SUBTLEX-US"
	SubtlexUK  SourceID = "SUBTLEX-UK"
	WikiPronUS SourceID = "WikiPron-US"
	WikiPronUK SourceID = "WikiPron-UK"
	UDLexicons SourceID = "UDLexicons"
	UniMorph   SourceID = "UniMorph"
)

// Relations of the backing store.
const (
	FrequencyRelation     = "frequency"
	PronunciationRelation = "pronunciation"
	FeaturesRelation      = "features"
)

func frequencySource(id SourceID, prefix string) *Source {
	return &Source{
		ID:       id,
		Relation: FrequencyRelation,
		Where:    []Condition{{Column: "source", Value: string(id)}},
		Mappings: []Mapping{
			{Field: FieldID(prefix + "_raw_frequency"), From: "raw_frequency", To: RawFrequency},
			{Field: FieldID(prefix + "_freq_per_million"), From: "freq_per_million", To: FreqPerMillion},
		},
	}
}

func pronunciationSource(id SourceID, label, field string) *Source {
	return &Source{
		ID:       id,
		Relation: PronunciationRelation,
		Where: []Condition{
			{Column: "source", Value: label},
			{Column: "standard", Value: "IPA"},
		},
		Payload: "pronunciation",
		Mappings: []Mapping{
			{Field: FieldID(field), From: "pronunciation", To: IPAPronunciation, Always: true},
		},
	}
}

func featureSource(id SourceID, ts features.Tagset, prefix string) *Source {
	return &Source{
		ID:       id,
		Relation: FeaturesRelation,
		Where:    []Condition{{Column: "source", Value: string(id)}},
		Payload:  "features",
		Tagset:   ts,
		Mappings: []Mapping{
			{Field: FieldID(prefix + "_CELEXtags"), From: "features", To: CELEXTags},
			{Field: FieldID(prefix + "_UDtags"), From: "features", To: UDTags},
			{Field: FieldID(prefix + "_UMtags"), From: "features", To: UniMorphTags},
		},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return MustNew(
		frequencySource(SubtlexUS, "subtlexus"),
		frequencySource(SubtlexUK, "subtlexuk"),
		pronunciationSource(WikiPronUS, "WikiPron US", "wikipronus_IPA"),
		pronunciationSource(WikiPronUK, "WikiPron UK", "wikipronuk_IPA"),
		featureSource(UDLexicons, features.UD, "udlex"),
		featureSource(UniMorph, features.UniMorph, "um"),
	)
}
