// Package indexer builds engine documents from field maps and commits
// them in batches, recovering from per-document and batch-level
// failures without corrupting the index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/domain/resource"
	"github.com/openark/solrmapper/internal/extract"
	"github.com/openark/solrmapper/internal/metrics"
	"github.com/openark/solrmapper/internal/solr"
)

// Config holds per-core indexing settings.
type Config struct {
	// BatchSize caps the number of documents per commit (default 50).
	BatchSize int
	// ServerScope and IndexScope prefix document ids; IndexScope also
	// scopes queries and clears when the physical core is shared by
	// multiple logical indexes.
	ServerScope string
	IndexScope  string
	// IndexField is the physical field holding the index scope
	// ("index_name_s" by default when IndexScope is set).
	IndexField string
	// KindField holds the resource type ("resource_name_s").
	KindField string
	// VisibilityField holds the public flag ("is_public_b").
	VisibilityField string
	// OwnerField and SiteField hold scoping ids.
	OwnerField string
	SiteField  string
	// ExtraRequired lists additional fields the pre-flight check must
	// find in the engine schema.
	ExtraRequired []string
	// RetryDelay is the backoff before the single batch retry
	// (default 2s).
	RetryDelay time.Duration
}

func (c *Config) applyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.KindField == "" {
		c.KindField = "resource_name_s"
	}
	if c.VisibilityField == "" {
		c.VisibilityField = "is_public_b"
	}
	if c.OwnerField == "" {
		c.OwnerField = "owner_id_i"
	}
	if c.SiteField == "" {
		c.SiteField = "site_id_is"
	}
	if c.IndexScope != "" && c.IndexField == "" {
		c.IndexField = "index_name_s"
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}
}

// ConfigError is the fatal pre-flight failure: the engine schema
// cannot hold one or more required fields.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Indexer is one indexing job over one engine connection. Not shared
// across concurrent jobs.
type Indexer struct {
	engine  solr.Engine
	maps    mapping.Set
	session *extract.Session
	cfg     Config
	log     *zap.Logger

	jobID  string
	schema *solr.Schema
}

// New creates an indexer. The extraction session carries the job's
// memoized filter-query id sets.
func New(engine solr.Engine, maps mapping.Set, session *extract.Session, cfg Config, log *zap.Logger) *Indexer {
	cfg.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	jobID := uuid.NewString()
	return &Indexer{
		engine:  engine,
		maps:    maps,
		session: session,
		cfg:     cfg,
		log:     log.With(zap.String("job", jobID)),
		jobID:   jobID,
	}
}

// Preflight fetches the schema snapshot and verifies every required
// field can be held. A failure here is fatal configuration error;
// no document is built after it.
func (ix *Indexer) Preflight(ctx context.Context) error {
	schema, err := ix.engine.FetchSchema(ctx)
	if err != nil {
		return fmt.Errorf("fetch schema: %w", err)
	}

	required := []string{schema.UniqueKey(), ix.cfg.KindField, ix.cfg.VisibilityField, ix.cfg.OwnerField, ix.cfg.SiteField}
	if ix.cfg.IndexField != "" {
		required = append(required, ix.cfg.IndexField)
	}
	required = append(required, ix.cfg.ExtraRequired...)

	var missing []string
	for _, field := range required {
		if !schema.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ConfigError{Missing: missing}
	}

	ix.schema = schema
	return nil
}

// IndexBatch builds and commits one document per resource. Malformed
// documents are evicted individually; a transient commit failure is
// retried once and then dropped with a log entry, so a scheduled
// re-index of the remaining resources can continue.
func (ix *Indexer) IndexBatch(ctx context.Context, resources []resource.Resource) error {
	if ix.schema == nil {
		if err := ix.Preflight(ctx); err != nil {
			return err
		}
	}

	buffer := make([]*solr.Document, 0, ix.cfg.BatchSize)
	for _, r := range resources {
		if r == nil {
			continue
		}
		doc := ix.buildDocument(ctx, r)
		if err := ix.validateDocument(doc); err != nil {
			metrics.DocumentsEvictedTotal.WithLabelValues(r.Kind()).Inc()
			ix.log.Error("document evicted from buffer",
				zap.String("document", doc.ID()),
				zap.Error(err))
			continue
		}
		buffer = append(buffer, doc)
		metrics.DocumentsIndexedTotal.WithLabelValues(r.Kind()).Inc()

		if len(buffer) >= ix.cfg.BatchSize {
			ix.commitBuffer(ctx, buffer)
			buffer = buffer[:0]
		}
	}
	if len(buffer) > 0 {
		ix.commitBuffer(ctx, buffer)
	}
	return nil
}

// DeleteDocument removes one resource's document and commits.
func (ix *Indexer) DeleteDocument(ctx context.Context, kind string, resourceID int64) error {
	id := solr.DocumentID(ix.cfg.ServerScope, ix.cfg.IndexScope, kind, resourceID)
	if err := ix.engine.DeleteByQuery(ctx, "id:"+solr.EscapeValue(id)); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if err := ix.engine.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete %s: %w", id, err)
	}
	return nil
}

// ClearIndex removes every document of the active logical index. On a
// shared physical core the delete is restricted to the index scope.
func (ix *Indexer) ClearIndex(ctx context.Context) error {
	query := solr.MatchAll
	if ix.cfg.IndexField != "" && ix.cfg.IndexScope != "" {
		query = ix.cfg.IndexField + ":" + solr.EscapeValue(ix.cfg.IndexScope)
	}
	if err := ix.engine.DeleteByQuery(ctx, query); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	if err := ix.engine.Commit(ctx); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

// commitBuffer submits and commits one buffer, retrying the whole
// batch once after a backoff. A persistent failure drops the buffer
// and logs the first buffered document id for diagnosis (best-effort,
// not a guarantee of which document caused it).
func (ix *Indexer) commitBuffer(ctx context.Context, buffer []*solr.Document) {
	err := ix.submitAndCommit(ctx, buffer)
	if err == nil {
		metrics.BatchesTotal.WithLabelValues("committed").Inc()
		return
	}

	if errors.Is(err, solr.ErrMalformedDocument) {
		ix.commitIndividually(ctx, buffer)
		return
	}

	metrics.BatchesTotal.WithLabelValues("retried").Inc()
	ix.log.Warn("batch commit failed, retrying",
		zap.Int("size", len(buffer)),
		zap.Error(err))

	select {
	case <-ctx.Done():
	case <-time.After(ix.cfg.RetryDelay):
	}

	if err := ix.submitAndCommit(ctx, buffer); err != nil {
		metrics.BatchesTotal.WithLabelValues("dropped").Inc()
		ix.log.Error("batch dropped after retry",
			zap.Int("size", len(buffer)),
			zap.String("first_document", buffer[0].ID()),
			zap.Error(err))
		return
	}
	metrics.BatchesTotal.WithLabelValues("committed").Inc()
}

// commitIndividually falls back to one-by-one submission when the
// engine rejected the batch, so a single bad document cannot sink its
// neighbours.
func (ix *Indexer) commitIndividually(ctx context.Context, buffer []*solr.Document) {
	committed := 0
	for _, doc := range buffer {
		if err := ix.submitAndCommit(ctx, []*solr.Document{doc}); err != nil {
			metrics.DocumentsEvictedTotal.WithLabelValues("unknown").Inc()
			ix.log.Error("document rejected by engine",
				zap.String("document", doc.ID()),
				zap.Error(err))
			continue
		}
		committed++
	}
	if committed > 0 {
		metrics.BatchesTotal.WithLabelValues("committed").Inc()
	}
}

func (ix *Indexer) submitAndCommit(ctx context.Context, docs []*solr.Document) error {
	if err := ix.engine.Submit(ctx, docs); err != nil {
		return err
	}
	return ix.engine.Commit(ctx)
}
