package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/domain/resource"
	"github.com/openark/solrmapper/internal/domain/result"
	healthuc "github.com/openark/solrmapper/internal/usecase/health"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// searchRequest is the POST /search body.
type searchRequest struct {
	Query      string              `json:"query"`
	Kinds      []string            `json:"kinds,omitempty"`
	Filters    []filterDTO         `json:"filters,omitempty"`
	DateRanges []dateRangeDTO      `json:"date_ranges,omitempty"`
	Facets     []facetDTO          `json:"facets,omitempty"`
	Selections []selectionDTO      `json:"selections,omitempty"`
	Sort       *sortDTO            `json:"sort,omitempty"`
	Limit      *int                `json:"limit,omitempty"`
	Offset     int                 `json:"offset,omitempty"`
	Boosts     map[string]float64  `json:"boosts,omitempty"`
	Aliases    map[string][]string `json:"aliases,omitempty"`
	ExpandText bool                `json:"expand_text,omitempty"`
	IncludeIDs bool                `json:"include_ids,omitempty"`
}

type filterDTO struct {
	Field      string         `json:"field"`
	Conditions []conditionDTO `json:"conditions"`
}

type conditionDTO struct {
	Joiner string   `json:"joiner,omitempty"`
	Op     string   `json:"op"`
	Values []string `json:"values,omitempty"`
}

type dateRangeDTO struct {
	Field string `json:"field"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

type facetDTO struct {
	Field  string   `json:"field"`
	Kind   string   `json:"kind,omitempty"`
	Sort   string   `json:"sort,omitempty"`
	Limit  int      `json:"limit,omitempty"`
	Values []string `json:"values,omitempty"`
	Start  string   `json:"start,omitempty"`
	End    string   `json:"end,omitempty"`
	Gap    string   `json:"gap,omitempty"`
}

type selectionDTO struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

type sortDTO struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

func (r searchRequest) toQuery() (*query.Query, error) {
	q := query.New(r.Query)
	if len(r.Kinds) > 0 {
		q.SetKinds(r.Kinds...)
	}
	for _, f := range r.Filters {
		if f.Field == "" {
			return nil, fmt.Errorf("filter field is required")
		}
		conds := make([]query.Condition, 0, len(f.Conditions))
		for _, c := range f.Conditions {
			op, ok := query.ParseOperator(c.Op)
			if !ok {
				return nil, fmt.Errorf("unknown operator %q", c.Op)
			}
			conds = append(conds, query.Condition{
				Joiner: query.Joiner(c.Joiner),
				Op:     op,
				Values: c.Values,
			})
		}
		q.AddFilter(query.Filter{Field: f.Field, Conditions: conds})
	}
	for _, dr := range r.DateRanges {
		if dr.Field == "" {
			return nil, fmt.Errorf("date range field is required")
		}
		q.AddDateRange(query.DateRange{Field: dr.Field, From: dr.From, To: dr.To})
	}
	for _, f := range r.Facets {
		if f.Field == "" {
			return nil, fmt.Errorf("facet field is required")
		}
		kind := query.FacetTerms
		if f.Kind == string(query.FacetRange) {
			kind = query.FacetRange
		}
		q.AddFacet(query.Facet{
			Field:  f.Field,
			Kind:   kind,
			Sort:   query.FacetSort(f.Sort),
			Limit:  f.Limit,
			Values: f.Values,
			Start:  f.Start,
			End:    f.End,
			Gap:    f.Gap,
		})
	}
	for _, sel := range r.Selections {
		if sel.Field == "" {
			return nil, fmt.Errorf("selection field is required")
		}
		q.Select(sel.Field, sel.Values...)
	}
	if r.Sort != nil {
		q.SetSort(r.Sort.Field, r.Sort.Desc)
	}
	if r.Limit != nil {
		if err := q.SetPage(*r.Limit, r.Offset); err != nil {
			return nil, err
		}
	} else if r.Offset != 0 {
		return nil, fmt.Errorf("offset requires limit")
	}
	for field, weight := range r.Boosts {
		q.SetBoost(field, weight)
	}
	for name, candidates := range r.Aliases {
		q.SetAlias(query.Alias{Name: name, Candidates: candidates})
	}
	q.ExpandText(r.ExpandText)
	return q, nil
}

// searchResponse is the POST /search reply.
type searchResponse struct {
	Total      int                `json:"total"`
	KindCounts map[string]int     `json:"kind_counts,omitempty"`
	Refs       []refDTO           `json:"refs"`
	Facets     []facetResultDTO   `json:"facets,omitempty"`
	AllIDs     map[string][]int64 `json:"all_ids,omitempty"`
}

type refDTO struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

type facetResultDTO struct {
	Name    string      `json:"name"`
	Buckets []bucketDTO `json:"buckets"`
}

type bucketDTO struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func responseToDTO(resp *result.Response) searchResponse {
	out := searchResponse{
		Total:  resp.Total(),
		Refs:   make([]refDTO, 0, len(resp.Refs())),
		AllIDs: resp.AllIDs(),
	}
	if kcs := resp.KindCounts(); len(kcs) > 0 {
		out.KindCounts = make(map[string]int, len(kcs))
		for _, kc := range kcs {
			out.KindCounts[kc.Kind] = kc.Count
		}
	}
	for _, ref := range resp.Refs() {
		out.Refs = append(out.Refs, refDTO{Kind: ref.Kind, ID: ref.ID})
	}
	for _, f := range resp.Facets() {
		fr := facetResultDTO{Name: f.Name, Buckets: make([]bucketDTO, 0, len(f.Buckets))}
		for _, b := range f.Buckets {
			fr.Buckets = append(fr.Buckets, bucketDTO{Value: b.Value, Count: b.Count})
		}
		out.Facets = append(out.Facets, fr)
	}
	return out
}

// indexRequest is the POST /index body.
type indexRequest struct {
	Resources []recordDTO `json:"resources"`
}

type indexResponse struct {
	Accepted int `json:"accepted"`
}

// recordDTO is the wire form of a resource pushed for indexing.
type recordDTO struct {
	Kind     string                `json:"kind"`
	ID       int64                 `json:"id"`
	Public   *bool                 `json:"public,omitempty"`
	Owner    *agentDTO             `json:"owner,omitempty"`
	Sites    []siteDTO             `json:"sites,omitempty"`
	Class    string                `json:"class,omitempty"`
	Template string                `json:"template,omitempty"`
	Created  *time.Time            `json:"created,omitempty"`
	Modified *time.Time            `json:"modified,omitempty"`
	Title    string                `json:"title,omitempty"`
	URL      string                `json:"url,omitempty"`
	Access   string                `json:"access,omitempty"`
	Content  string                `json:"content,omitempty"`
	Values   map[string][]valueDTO `json:"values,omitempty"`
	Media    []recordDTO           `json:"media,omitempty"`
	ItemSets []recordDTO           `json:"item_sets,omitempty"`
	Item     *recordDTO            `json:"item,omitempty"`
}

type agentDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type siteDTO struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug,omitempty"`
	Title string `json:"title,omitempty"`
}

type valueDTO struct {
	Literal  string     `json:"literal,omitempty"`
	URI      string     `json:"uri,omitempty"`
	Label    string     `json:"label,omitempty"`
	Lang     string     `json:"lang,omitempty"`
	DataType string     `json:"data_type,omitempty"`
	Private  bool       `json:"private,omitempty"`
	Linked   *recordDTO `json:"linked,omitempty"`
}

// DecodeResources parses the POST /api/v1/index body shape from r,
// so batch tooling can feed the indexer the same JSON the API takes.
func DecodeResources(r io.Reader) ([]resource.Resource, error) {
	var req indexRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return req.toResources()
}

func (req indexRequest) toResources() ([]resource.Resource, error) {
	if len(req.Resources) == 0 {
		return nil, errors.New("resources must not be empty")
	}
	out := make([]resource.Resource, 0, len(req.Resources))
	for i, rec := range req.Resources {
		rr, err := rec.toRecord()
		if err != nil {
			return nil, fmt.Errorf("resources[%d]: %w", i, err)
		}
		out = append(out, rr)
	}
	return out, nil
}

func (r recordDTO) toRecord() (*resource.Record, error) {
	if r.Kind == "" {
		return nil, fmt.Errorf("kind is required")
	}
	if r.ID <= 0 {
		return nil, fmt.Errorf("id must be a positive integer")
	}
	rec := resource.NewRecord(r.Kind, r.ID)
	if r.Public != nil {
		rec.Public = *r.Public
	}
	if r.Owner != nil {
		rec.RecOwner = &resource.Agent{ID: r.Owner.ID, Name: r.Owner.Name, Email: r.Owner.Email}
	}
	for _, s := range r.Sites {
		rec.RecSites = append(rec.RecSites, resource.Site{ID: s.ID, Slug: s.Slug, Title: s.Title})
	}
	rec.RecClass = r.Class
	rec.RecTemplate = r.Template
	if r.Created != nil {
		rec.RecCreated = *r.Created
	}
	if r.Modified != nil {
		rec.RecModified = *r.Modified
	}
	rec.RecTitle = r.Title
	rec.RecURL = r.URL
	rec.RecAccess = r.Access
	rec.RecContent = r.Content
	for term, values := range r.Values {
		for _, v := range values {
			val, err := v.toValue()
			if err != nil {
				return nil, fmt.Errorf("values[%s]: %w", term, err)
			}
			rec.WithValue(term, val)
		}
	}
	for _, m := range r.Media {
		mr, err := m.toRecord()
		if err != nil {
			return nil, fmt.Errorf("media: %w", err)
		}
		mr.RecItem = rec
		rec.RecMedia = append(rec.RecMedia, mr)
	}
	for _, is := range r.ItemSets {
		isr, err := is.toRecord()
		if err != nil {
			return nil, fmt.Errorf("item_sets: %w", err)
		}
		rec.RecItemSets = append(rec.RecItemSets, isr)
	}
	if r.Item != nil {
		ir, err := r.Item.toRecord()
		if err != nil {
			return nil, fmt.Errorf("item: %w", err)
		}
		rec.RecItem = ir
	}
	return rec, nil
}

func (v valueDTO) toValue() (resource.Value, error) {
	if v.Linked != nil {
		lr, err := v.Linked.toRecord()
		if err != nil {
			return resource.Value{}, fmt.Errorf("linked: %w", err)
		}
		val := resource.NewLink(lr)
		if v.Private {
			val = val.AsPrivate()
		}
		return val, nil
	}
	var val resource.Value
	if v.URI != "" {
		val = resource.NewURI(v.URI, v.Label)
	} else {
		val = resource.NewLiteral(v.Literal, v.Lang, v.DataType)
	}
	if v.Private {
		val = val.AsPrivate()
	}
	return val, nil
}
