// Package export builds a single delimited file from the union of the fields
// of several lexical sources.
package export

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/japaniel/citylex/pkg/catalog"
	"github.com/japaniel/citylex/pkg/db"
	"github.com/japaniel/citylex/pkg/features"
)

// DefaultBatchSize is the number of rows buffered before they are encoded.
const DefaultBatchSize = 500

// Selection is one export request.
type Selection struct {
	Sources      []string
	Fields       []string
	OutputFormat string
	// Licenses are acknowledged by the client. They are logged only.
	Licenses []string
}

// Store is a read-only lexicon store held for one export.
type Store interface {
	db.Querier
	Close() error
}

// OpenFunc opens the lexicon store.
type OpenFunc func(ctx context.Context) (Store, error)

// OpenDB returns an OpenFunc opening driver/path read-only.
func OpenDB(driver, path string) OpenFunc {
	return func(ctx context.Context) (Store, error) {
		return db.Open(ctx, driver, path)
	}
}

// Config holds the dependencies of an Exporter.
type Config struct {
	Catalog    *catalog.Catalog
	Translator features.Translator
	Open       OpenFunc
	BatchSize  int
	Logger     *zap.Logger
}

// Exporter runs export requests. It is safe for concurrent use; each call
// opens and closes its own store handle.
type Exporter struct {
	catalog   *catalog.Catalog
	projector *Projector
	open      OpenFunc
	batchSize int
	logger    *zap.Logger
}

// New creates an Exporter. Catalog and Translator default to the built-in ones.
func New(cfg Config) *Exporter {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Exporter{
		catalog:   cfg.Catalog,
		projector: NewProjector(cfg.Translator),
		open:      cfg.Open,
		batchSize: cfg.BatchSize,
		logger:    cfg.Logger,
	}
}

// Catalog returns the catalog the exporter serves.
func (e *Exporter) Catalog() *catalog.Catalog { return e.catalog }

// Result is a finished export body.
type Result struct {
	ID       string
	Body     []byte
	Format   Format
	Schema   Schema
	Rows     int
	Duration time.Duration
}

// Export validates sel, reads every selected source in catalog order and
// returns the encoded file. Nothing is returned on failure; the body is only
// handed out once it is complete.
func (e *Exporter) Export(ctx context.Context, sel Selection) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	log := e.logger.With(zap.String("export_id", id))

	if len(sel.Sources) == 0 || len(sel.Fields) == 0 {
		return nil, &InvalidSelectionError{}
	}
	format, err := LookupFormat(sel.OutputFormat)
	if err != nil {
		return nil, err
	}
	sources, err := e.catalog.SourcesForRequest(sel.Sources)
	if err != nil {
		return nil, err
	}
	fields, err := e.catalog.ResolveFields(sel.Fields)
	if err != nil {
		return nil, err
	}
	schema, err := BuildSchema(e.catalog, sel.Fields)
	if err != nil {
		return nil, err
	}

	log.Info("export started",
		zap.Strings("sources", sel.Sources),
		zap.Strings("fields", sel.Fields),
		zap.String("output_format", format.Name),
		zap.Strings("licenses", sel.Licenses),
	)

	if e.open == nil {
		return nil, &SourceUnavailableError{Err: errNoStore}
	}
	store, err := e.open(ctx)
	if err != nil {
		return nil, &SourceUnavailableError{Err: err}
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("close store", zap.Error(cerr))
		}
	}()

	w, err := NewWriter(format, schema, e.batchSize)
	if err != nil {
		return nil, err
	}
	w.OnFlush(func(n int) { log.Debug("batch encoded", zap.Int("rows", n)) })

	for _, src := range sources {
		before := w.Rows()
		for rec, err := range e.projector.Project(ctx, store, src, schema, fields) {
			if err != nil {
				log.Error("export failed", zap.String("source", string(src.ID)), zap.Error(err))
				return nil, err
			}
			if err := w.Append(rec); err != nil {
				return nil, err
			}
		}
		log.Debug("source projected", zap.String("source", string(src.ID)), zap.Int("rows", w.Rows()-before))
	}

	body, err := w.Bytes()
	if err != nil {
		return nil, err
	}
	res := &Result{
		ID:       id,
		Body:     body,
		Format:   format,
		Schema:   schema,
		Rows:     w.Rows(),
		Duration: time.Since(start),
	}
	log.Info("export finished", zap.Int("rows", res.Rows), zap.Int("bytes", len(body)), zap.Duration("duration", res.Duration))
	return res, nil
}
