package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
)

// Format describes an output encoding and how it is served.
type Format struct {
	Name        string
	ContentType string
	Filename    string

	newEncoder func(w io.Writer) encoder
}

type encoder interface {
	Write(fields []string) error
	Flush() error
}

var (
	// TSV joins fields with tabs and ends rows with CRLF. Values are written
	// verbatim, without quoting.
	TSV = Format{
		Name:        "tsv",
		ContentType: "text/tab-separated-values",
		Filename:    "citylex_data.tsv",
		newEncoder:  func(w io.Writer) encoder { return &tsvEncoder{w: w} },
	}
	// CSV follows RFC 4180 with CRLF line endings.
	CSV = Format{
		Name:        "csv",
		ContentType: "text/csv",
		Filename:    "citylex_data.csv",
		newEncoder: func(w io.Writer) encoder {
			cw := csv.NewWriter(w)
			cw.UseCRLF = true
			return &csvEncoder{cw: cw}
		},
	}
)

// Formats lists the supported output formats.
var Formats = []Format{TSV, CSV}

// LookupFormat resolves an output format name. The empty name means TSV.
func LookupFormat(name string) (Format, error) {
	if name == "" {
		return TSV, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Format{}, &UnknownFormatError{Name: name}
}

type tsvEncoder struct{ w io.Writer }

func (e *tsvEncoder) Write(fields []string) error {
	_, err := io.WriteString(e.w, strings.Join(fields, "\t")+"\r\n")
	return err
}

func (e *tsvEncoder) Flush() error { return nil }

type csvEncoder struct{ cw *csv.Writer }

func (e *csvEncoder) Write(fields []string) error { return e.cw.Write(fields) }

func (e *csvEncoder) Flush() error {
	e.cw.Flush()
	return e.cw.Error()
}

// Writer encodes a header and records into an in-memory body.
type Writer struct {
	schema Schema
	buf    bytes.Buffer
	enc    encoder
	batch  *BatchWriter
	rows   int
}

// NewWriter starts a body in format and writes the schema header.
func NewWriter(format Format, schema Schema, batchSize int) (*Writer, error) {
	if format.newEncoder == nil {
		return nil, &UnknownFormatError{Name: format.Name}
	}
	w := &Writer{schema: schema}
	w.enc = format.newEncoder(&w.buf)
	if err := w.enc.Write(schema.Names()); err != nil {
		return nil, err
	}
	w.batch = NewBatchWriter(batchSize, w.writeBatch)
	return w, nil
}

func (w *Writer) writeBatch(batch [][]string) error {
	for _, row := range batch {
		if err := w.enc.Write(row); err != nil {
			return err
		}
	}
	return w.enc.Flush()
}

// OnFlush registers a callback invoked with the size of every written batch.
func (w *Writer) OnFlush(fn func(n int)) { w.batch.OnFlush = fn }

// Append adds one record. Its values are laid out in schema order.
func (w *Writer) Append(rec Record) error {
	if err := w.batch.Submit(rec.Values(w.schema)); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of records appended so far.
func (w *Writer) Rows() int { return w.rows }

// Bytes flushes pending records and returns the finished body.
func (w *Writer) Bytes() ([]byte, error) {
	if err := w.batch.Close(); err != nil {
		return nil, err
	}
	if err := w.enc.Flush(); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}
