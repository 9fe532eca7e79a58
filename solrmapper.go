// Package solrmapper maps application resources onto a
// schema-constrained search engine: declarative field maps drive
// extraction, formatting and indexing, and an abstract query model
// compiles to the engine's native syntax.
package solrmapper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/compiler"
	"github.com/openark/solrmapper/internal/extract"
	"github.com/openark/solrmapper/internal/indexer"
	"github.com/openark/solrmapper/internal/solr"
	"github.com/openark/solrmapper/internal/solr/client"
	searchuc "github.com/openark/solrmapper/internal/usecase/search"
)

const defaultReadinessTimeout = 30 * time.Second

// Client is the solrmapper library entry point.
type Client struct {
	engine    solr.Engine
	ix        *indexer.Indexer
	searchSvc *searchuc.Service
}

// New creates a Client and waits for the engine to become reachable.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		core:    "solrmapper",
		timeout: 30 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.baseURL == "" && cfg.engine == nil {
		return nil, errors.New("solrmapper: engine address required (use WithSolr)")
	}

	engine := cfg.engine
	if engine == nil {
		c, err := client.New(client.Config{
			BaseURL:  cfg.baseURL,
			Core:     cfg.core,
			Username: cfg.username,
			Password: cfg.password,
			Timeout:  cfg.timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("solrmapper: create engine client: %w", err)
		}
		engine = c
	}

	ctx := context.Background()
	if err := engine.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		return nil, fmt.Errorf("solrmapper: engine not ready: %w", err)
	}

	return wireClient(engine, cfg), nil
}

func wireClient(engine solr.Engine, cfg *clientConfig) *Client {
	session := extract.NewSession(cfg.resolver, cfg.logger)

	ix := indexer.New(engine, cfg.maps, session, indexer.Config{
		BatchSize:     cfg.batchSize,
		ServerScope:   cfg.serverScope,
		IndexScope:    cfg.indexScope,
		ExtraRequired: cfg.extraRequired,
	}, cfg.logger)

	searchSvc := searchuc.New(engine, cfg.maps, compiler.Config{
		IndexScope:  cfg.indexScope,
		PublicOnly:  cfg.publicOnly,
		SiteID:      cfg.siteID,
		DefaultRows: cfg.defaultRows,
		MaxRows:     cfg.maxRows,
		TextFields:  cfg.textFields,
		Boosts:      cfg.boosts,
	}, cfg.logger)

	return &Client{engine: engine, ix: ix, searchSvc: searchSvc}
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.engine.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Preflight verifies the engine schema accepts every required field.
func (c *Client) Preflight(ctx context.Context) error {
	return c.ix.Preflight(ctx)
}

// Index builds and submits documents for the given resources.
func (c *Client) Index(ctx context.Context, resources ...Resource) error {
	return c.ix.IndexBatch(ctx, resources)
}

// Delete removes one resource's document from the index.
func (c *Client) Delete(ctx context.Context, kind string, id int64) error {
	return c.ix.DeleteDocument(ctx, kind, id)
}

// Clear removes every document of this logical index.
func (c *Client) Clear(ctx context.Context) error {
	return c.ix.ClearIndex(ctx)
}

// Search compiles and executes a query.
func (c *Client) Search(ctx context.Context, q *Query) (*Response, error) {
	return c.searchSvc.Search(ctx, q)
}

// SearchWithIDs runs Search and additionally sweeps all matching ids
// per resource kind, ignoring pagination.
func (c *Client) SearchWithIDs(ctx context.Context, q *Query) (*Response, error) {
	return c.searchSvc.SearchWithIDs(ctx, q)
}

// InvalidateSchema drops the cached schema snapshot. Call after
// changing the engine schema or the field maps.
func (c *Client) InvalidateSchema() {
	c.searchSvc.InvalidateSchema()
}
