package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Querier is the read side of *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DBExecutor allows helpers to accept either *sql.DB or *sql.Tx.
type DBExecutor interface {
	Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Eq is an equality predicate against a literal value.
type Eq struct {
	Column string
	Value  string
}

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SelectQuery renders a SELECT over columns of relation filtered by where.
// Identifiers are emitted as given; callers only pass catalog constants.
// Values are inlined as literals so the statement is the same for every
// supported driver regardless of its placeholder syntax.
func SelectQuery(relation string, columns []string, where ...Eq) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(relation)
	for i, eq := range where {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(eq.Column)
		b.WriteString(" = ")
		b.WriteString(QuoteLiteral(eq.Value))
	}
	return b.String()
}

// The insert helpers below use '?' placeholders and are meant for SQLite
// fixtures; loading real datasets is handled outside this module.

// InsertFrequency adds a frequency row.
func InsertFrequency(ctx context.Context, db DBExecutor, f Frequency) error {
	if strings.TrimSpace(f.Wordform) == "" {
		return fmt.Errorf("wordform must be non-empty")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO frequency (wordform, source, raw_frequency, freq_per_million) VALUES (?, ?, ?, ?)`,
		f.Wordform, f.Source, f.RawFrequency, f.FreqPerMillion)
	if err != nil {
		return fmt.Errorf("insert frequency %s: %w", f.Wordform, err)
	}
	return nil
}

// InsertPronunciation adds a pronunciation row.
func InsertPronunciation(ctx context.Context, db DBExecutor, p Pronunciation) error {
	if strings.TrimSpace(p.Wordform) == "" {
		return fmt.Errorf("wordform must be non-empty")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO pronunciation (wordform, source, pronunciation, standard) VALUES (?, ?, ?, ?)`,
		p.Wordform, p.Source, p.Pronunciation, p.Standard)
	if err != nil {
		return fmt.Errorf("insert pronunciation %s: %w", p.Wordform, err)
	}
	return nil
}

// InsertFeatures adds a features row.
func InsertFeatures(ctx context.Context, db DBExecutor, f Features) error {
	if strings.TrimSpace(f.Wordform) == "" {
		return fmt.Errorf("wordform must be non-empty")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO features (wordform, source, features) VALUES (?, ?, ?)`,
		f.Wordform, f.Source, f.Features)
	if err != nil {
		return fmt.Errorf("insert features %s: %w", f.Wordform, err)
	}
	return nil
}

// CountRows returns the number of rows of relation matching where.
func CountRows(ctx context.Context, db Querier, relation string, where ...Eq) (int, error) {
	q := SelectQuery(relation, []string{"COUNT(*)"}, where...)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}
