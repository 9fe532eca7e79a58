package solrmapper

import (
	"time"

	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/mapping"
	"github.com/openark/solrmapper/internal/extract"
	"github.com/openark/solrmapper/internal/solr"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	baseURL  string
	core     string
	username string
	password string
	timeout  time.Duration
	engine   solr.Engine

	maps     mapping.Set
	resolver extract.Resolver

	batchSize     int
	serverScope   string
	indexScope    string
	extraRequired []string

	publicOnly  bool
	siteID      int64
	defaultRows int
	maxRows     int
	textFields  []string
	boosts      map[string]float64

	logger *zap.Logger
}

// WithSolr sets the engine base URL and core name.
func WithSolr(baseURL, core string) Option {
	return func(c *clientConfig) {
		c.baseURL = baseURL
		if core != "" {
			c.core = core
		}
	}
}

// WithBasicAuth sets engine credentials.
func WithBasicAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithTimeout sets the engine request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

// WithEngine injects a custom engine implementation, bypassing the
// HTTP client. For tests and alternative transports.
func WithEngine(e solr.Engine) Option {
	return func(c *clientConfig) { c.engine = e }
}

// WithMappings sets the field map set driving extraction, document
// building and alias resolution.
func WithMappings(maps mapping.Set) Option {
	return func(c *clientConfig) { c.maps = maps }
}

// WithResolver plugs in the host application's resource query
// resolver, enabling resources-query pool filters.
func WithResolver(r extract.Resolver) Option {
	return func(c *clientConfig) { c.resolver = r }
}

// WithBatchSize sets the indexing batch size.
func WithBatchSize(n int) Option {
	return func(c *clientConfig) { c.batchSize = n }
}

// WithScopes sets the server and index scope prefixes for shared
// cores.
func WithScopes(serverScope, indexScope string) Option {
	return func(c *clientConfig) {
		c.serverScope = serverScope
		c.indexScope = indexScope
	}
}

// WithRequiredFields adds extra fields the preflight check verifies.
func WithRequiredFields(fields ...string) Option {
	return func(c *clientConfig) { c.extraRequired = fields }
}

// PublicOnly restricts every query to public documents.
func PublicOnly() Option {
	return func(c *clientConfig) { c.publicOnly = true }
}

// WithSite scopes every query to one site.
func WithSite(id int64) Option {
	return func(c *clientConfig) { c.siteID = id }
}

// WithPagination sets the default and maximum page sizes.
func WithPagination(defaultRows, maxRows int) Option {
	return func(c *clientConfig) {
		c.defaultRows = defaultRows
		c.maxRows = maxRows
	}
}

// WithTextFields sets the fields free text expands across.
func WithTextFields(fields ...string) Option {
	return func(c *clientConfig) { c.textFields = fields }
}

// WithBoosts sets default per-field relevance weights.
func WithBoosts(boosts map[string]float64) Option {
	return func(c *clientConfig) { c.boosts = boosts }
}

// WithLogger sets the logger; a no-op logger is used by default.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}
