package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openark/solrmapper/internal/solr"
)

// Wire shapes of the select, schema and terms handlers.

type selectResponse struct {
	Response    *docList                   `json:"response"`
	Grouped     map[string]groupedField    `json:"grouped"`
	FacetCounts *facetCounts               `json:"facet_counts"`
	Header      map[string]json.RawMessage `json:"responseHeader"`
}

type docList struct {
	NumFound int              `json:"numFound"`
	MaxScore float64          `json:"maxScore"`
	Docs     []map[string]any `json:"docs"`
}

type groupedField struct {
	Matches int     `json:"matches"`
	NGroups int     `json:"ngroups"`
	Groups  []group `json:"groups"`
}

type group struct {
	GroupValue any     `json:"groupValue"`
	DocList    docList `json:"doclist"`
}

type facetCounts struct {
	FacetFields map[string][]any          `json:"facet_fields"`
	FacetRanges map[string]facetRangeBody `json:"facet_ranges"`
}

type facetRangeBody struct {
	Counts []any `json:"counts"`
}

type schemaResponse struct {
	Schema struct {
		UniqueKey string        `json:"uniqueKey"`
		Fields    []schemaField `json:"fields"`
		Dynamic   []schemaField `json:"dynamicFields"`
	} `json:"schema"`
}

type schemaField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	MultiValued bool   `json:"multiValued"`
}

type termsResponse struct {
	Terms map[string][]any `json:"terms"`
}

func parseSelectResponse(body *selectResponse, groupField string) (*solr.Result, error) {
	res := &solr.Result{}

	if groupField != "" {
		grouped, ok := body.Grouped[groupField]
		if !ok {
			return nil, fmt.Errorf("missing grouped results for %q", groupField)
		}
		res.Total = grouped.Matches
		res.Groups = make([]solr.ResultGroup, 0, len(grouped.Groups))
		for _, g := range grouped.Groups {
			res.Groups = append(res.Groups, solr.ResultGroup{
				Value: fmt.Sprint(g.GroupValue),
				Total: g.DocList.NumFound,
				Docs:  parseDocs(g.DocList.Docs),
			})
		}
	} else if body.Response != nil {
		res.Total = body.Response.NumFound
		res.MaxScore = body.Response.MaxScore
		res.Docs = parseDocs(body.Response.Docs)
	}

	if body.FacetCounts != nil {
		res.Facets = map[string][]solr.TermCount{}
		for name, pairs := range body.FacetCounts.FacetFields {
			res.Facets[name] = parsePairList(pairs)
		}
		for name, rng := range body.FacetCounts.FacetRanges {
			res.Facets[name] = parsePairList(rng.Counts)
		}
	}
	return res, nil
}

func parseDocs(raw []map[string]any) []solr.ResultDoc {
	docs := make([]solr.ResultDoc, 0, len(raw))
	for _, m := range raw {
		doc := solr.ResultDoc{Fields: m}
		if id, ok := m["id"].(string); ok {
			doc.ID = id
		}
		if score, ok := m["score"].(float64); ok {
			doc.Score = score
		}
		docs = append(docs, doc)
	}
	return docs
}

// parsePairList decodes the flat [value, count, value, count, ...]
// arrays the facet and terms components return.
func parsePairList(pairs []any) []solr.TermCount {
	out := make([]solr.TermCount, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		value := fmt.Sprint(pairs[i])
		count, ok := pairs[i+1].(float64)
		if !ok {
			continue
		}
		out = append(out, solr.TermCount{Value: value, Count: int(count)})
	}
	return out
}

func parseSchemaResponse(body *schemaResponse) *solr.Schema {
	fields := make([]solr.SchemaField, 0, len(body.Schema.Fields))
	for _, f := range body.Schema.Fields {
		fields = append(fields, solr.NewSchemaField(f.Name, fieldTypeFromSolr(f.Type), f.MultiValued))
	}
	dynamic := make([]solr.DynamicRule, 0, len(body.Schema.Dynamic))
	for _, f := range body.Schema.Dynamic {
		dynamic = append(dynamic, solr.DynamicRule{
			Pattern:     f.Name,
			Type:        fieldTypeFromSolr(f.Type),
			Multivalued: f.MultiValued,
		})
	}
	return solr.NewSchema(fields, dynamic, body.Schema.UniqueKey)
}

// fieldTypeFromSolr maps a core's field type names onto logical types.
// Unrecognized types degrade to string, the safest for exact matching.
func fieldTypeFromSolr(name string) solr.FieldType {
	switch {
	case strings.HasPrefix(name, "text"):
		return solr.TypeText
	case strings.Contains(name, "int") || strings.Contains(name, "long"):
		return solr.TypeInteger
	case strings.Contains(name, "float") || strings.Contains(name, "double"):
		return solr.TypeFloat
	case strings.HasPrefix(name, "bool"):
		return solr.TypeBoolean
	case strings.Contains(name, "date"):
		return solr.TypeDate
	}
	return solr.TypeString
}
