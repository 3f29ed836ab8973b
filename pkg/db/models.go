package db

import "database/sql"

// Frequency is a row of the frequency relation.
type Frequency struct {
	Wordform       string
	Source         string
	RawFrequency   sql.NullInt64
	FreqPerMillion sql.NullFloat64
}

// Pronunciation is a row of the pronunciation relation.
type Pronunciation struct {
	Wordform      string
	Source        string
	Pronunciation string
	Standard      string
}

// Features is a row of the features relation. Features holds a
// pipe-delimited tag bundle.
type Features struct {
	Wordform string
	Source   string
	Features string
}
