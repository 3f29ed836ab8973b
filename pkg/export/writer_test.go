package export

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/citylex/pkg/catalog"
)

func TestLookupFormat(t *testing.T) {
	f, err := LookupFormat("")
	require.NoError(t, err)
	assert.Equal(t, "citylex_data.tsv", f.Filename)
	assert.Equal(t, "text/tab-separated-values", f.ContentType)

	f, err = LookupFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "citylex_data.csv", f.Filename)

	_, err = LookupFormat("json")
	var unknown *UnknownFormatError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "json", unknown.Name)
}

func TestWriterTSVDoesNotEscape(t *testing.T) {
	schema := Schema{catalog.Wordform, catalog.SourceName, catalog.IPAPronunciation}
	w, err := NewWriter(TSV, schema, 2)
	require.NoError(t, err)

	var rec Record
	rec.Set(catalog.Wordform, `"quoted"`)
	rec.Set(catalog.SourceName, "WikiPron-US")
	rec.Set(catalog.IPAPronunciation, "a\tb")
	require.NoError(t, w.Append(rec))

	body, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "wordform\tsource\tIPA_pronunciation\r\n\"quoted\"\tWikiPron-US\ta\tb\r\n", string(body))
	assert.Equal(t, 1, w.Rows())
}

func TestWriterFlushesInBatches(t *testing.T) {
	schema := Schema{catalog.Wordform, catalog.SourceName}
	w, err := NewWriter(TSV, schema, 2)
	require.NoError(t, err)

	var flushed []int
	w.OnFlush(func(n int) { flushed = append(flushed, n) })

	for _, word := range []string{"a", "b", "c", "d", "e"} {
		var rec Record
		rec.Set(catalog.Wordform, word)
		require.NoError(t, w.Append(rec))
	}
	body, err := w.Bytes()
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, flushed)
	assert.Equal(t, "wordform\tsource\r\na\t\r\nb\t\r\nc\t\r\nd\t\r\ne\t\r\n", string(body))
}

func TestBatchWriter(t *testing.T) {
	var got [][]string
	bw := NewBatchWriter(0, func(batch [][]string) error {
		got = append(got, batch...)
		return nil
	})
	require.NoError(t, bw.Submit([]string{"x"}))
	assert.Empty(t, got, "rows stay buffered until the batch is full")

	require.NoError(t, bw.Close())
	assert.Equal(t, [][]string{{"x"}}, got)

	assert.ErrorIs(t, bw.Submit([]string{"y"}), ErrBatchWriterClosed)
	assert.ErrorIs(t, bw.Close(), ErrBatchWriterClosed)
}

func TestBatchWriterFlushErrorIsSticky(t *testing.T) {
	boom := errors.New("short write")
	calls := 0
	bw := NewBatchWriter(1, func(batch [][]string) error {
		calls++
		return boom
	})

	err := bw.Submit([]string{"a"})
	require.ErrorIs(t, err, boom)
	var bwErr *BatchWriterError
	require.ErrorAs(t, err, &bwErr)

	require.ErrorIs(t, bw.Submit([]string{"b"}), boom)
	require.ErrorIs(t, bw.Close(), boom)
	assert.Equal(t, 1, calls)
}
