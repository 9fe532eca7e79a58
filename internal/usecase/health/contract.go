package health

import (
	"context"

	"github.com/openark/solrmapper/internal/solr"
)

// EnginePinger checks engine availability.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// SchemaFetcher reads the engine schema.
type SchemaFetcher interface {
	FetchSchema(ctx context.Context) (*solr.Schema, error)
}
