package config

import (
	"fmt"

	"github.com/openark/solrmapper/internal/domain/mapping"
)

// BuildMappings compiles the declared field maps into the domain
// mapping set, validating pools and settings along the way.
func (c *Config) BuildMappings() (mapping.Set, error) {
	var maps []mapping.FieldMap

	for i, mc := range c.Mappings.Generic {
		fm, err := buildFieldMap(mc, "")
		if err != nil {
			return mapping.Set{}, fmt.Errorf("mappings.generic[%d]: %w", i, err)
		}
		maps = append(maps, fm)
	}
	for kind, list := range c.Mappings.ByKind {
		for i, mc := range list {
			fm, err := buildFieldMap(mc, kind)
			if err != nil {
				return mapping.Set{}, fmt.Errorf("mappings.by_kind.%s[%d]: %w", kind, i, err)
			}
			maps = append(maps, fm)
		}
	}
	return mapping.NewSet(maps), nil
}

func buildFieldMap(mc FieldMapConfig, kind string) (mapping.FieldMap, error) {
	pool, err := mapping.NewPool(mapping.PoolSpec{
		FilterValues:         mc.Pool.ValuePattern,
		FilterURIs:           mc.Pool.URIPattern,
		FilterVisibility:     mapping.Visibility(mc.Pool.Visibility),
		DataTypesInclude:     mc.Pool.DataTypes,
		DataTypesExclude:     mc.Pool.DataTypesExclude,
		ResourcesQuery:       mc.Pool.ResourcesQuery,
		LinkedResourcesQuery: mc.Pool.LinkedResourcesQuery,
	})
	if err != nil {
		return mapping.FieldMap{}, fmt.Errorf("pool: %w", err)
	}
	return mapping.New(mc.Field, mc.Path, kind, pool, mapping.Settings{
		Formatter:      mc.Set.Formatter,
		Normalizations: mc.Set.Normalizations,
		MaxLength:      mc.Set.MaxLength,
		Table:          mc.Set.Table,
		Languages:      mc.Set.Languages,
	})
}
