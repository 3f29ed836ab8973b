// Package dbtest builds small seeded lexicon stores for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/japaniel/citylex/pkg/db"
)

// Lexicon is the content of a fixture store.
type Lexicon struct {
	Frequencies    []db.Frequency
	Pronunciations []db.Pronunciation
	Features       []db.Features
}

// Freq is shorthand for a frequency row with both counts present.
func Freq(wordform, source string, raw int64, perMillion float64) db.Frequency {
	return db.Frequency{
		Wordform:       wordform,
		Source:         source,
		RawFrequency:   sql.NullInt64{Int64: raw, Valid: true},
		FreqPerMillion: sql.NullFloat64{Float64: perMillion, Valid: true},
	}
}

// Sample returns a lexicon touching every catalog source, plus rows the
// catalog predicates must skip.
func Sample() Lexicon {
	return Lexicon{
		Frequencies: []db.Frequency{
			Freq("the", "SUBTLEX-US", 1501908, 29449.18),
			Freq("cat", "SUBTLEX-US", 2144, 42.04),
			Freq("the", "SUBTLEX-UK", 1339018, 33381.2),
			Freq("colour", "SUBTLEX-UK", 3071, 76.56),
			Freq("ignored", "SUBTLEX-NL", 1, 0.1),
		},
		Pronunciations: []db.Pronunciation{
			{Wordform: "tomato", Source: "WikiPron US", Pronunciation: "t ə m eɪ t oʊ", Standard: "IPA"},
			{Wordform: "tomato", Source: "WikiPron US", Pronunciation: "təmeɪɾoʊ", Standard: "narrow"},
			{Wordform: "tomato", Source: "WikiPron UK", Pronunciation: "t ə m ɑː t əʊ", Standard: "IPA"},
			{Wordform: "schedule", Source: "WikiPron UK", Pronunciation: "ʃ ɛ d j uː l", Standard: "IPA"},
		},
		Features: []db.Features{
			{Wordform: "cats", Source: "UDLexicons", Features: "NOUN|Number=Plur"},
			{Wordform: "ran", Source: "UDLexicons", Features: "VERB|Tense=Past"},
			{Wordform: "cats", Source: "UniMorph", Features: "N|PL"},
			{Wordform: "walked", Source: "UniMorph", Features: "V|PST"},
		},
	}
}

// NewStore writes lex into a fresh SQLite file and returns its path.
func NewStore(t testing.TB, lex Lexicon) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "citylex.db")

	conn, err := db.OpenWritable(ctx, db.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open fixture store: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(conn, db.DriverSQLite); err != nil {
		t.Fatalf("migrate fixture store: %v", err)
	}
	for _, f := range lex.Frequencies {
		if err := db.InsertFrequency(ctx, conn, f); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	for _, p := range lex.Pronunciations {
		if err := db.InsertPronunciation(ctx, conn, p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	for _, f := range lex.Features {
		if err := db.InsertFeatures(ctx, conn, f); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return path
}
