package taskboardbridge

import (
	"net/url"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/scaffolding/fop"
)

// Query parameter names for the filter criteria.
const (
	paramSearch    = "search"
	paramFilter    = "filter"
	paramSortBy    = "sortBy"
	paramSortOrder = "sortOrder"
)

// SerializeCriteria encodes c as query parameters. Fields holding their
// default value are omitted, so the default criteria encode to no parameters.
func SerializeCriteria(c tasksrepo.Criteria) url.Values {
	def := tasksrepo.DefaultCriteria()
	v := url.Values{}
	if c.Search != "" {
		v.Set(paramSearch, c.Search)
	}
	if c.Filter != def.Filter {
		v.Set(paramFilter, string(c.Filter))
	}
	if c.SortBy != def.SortBy {
		v.Set(paramSortBy, c.SortBy)
	}
	if c.SortOrder != def.SortOrder {
		v.Set(paramSortOrder, c.SortOrder)
	}
	return v
}

// DeserializeCriteria decodes the criteria parameters present in v. Enum
// values outside their sets are dropped, leaving that field unset.
func DeserializeCriteria(v url.Values) tasksrepo.CriteriaPatch {
	var p tasksrepo.CriteriaPatch

	if v.Has(paramSearch) {
		search := v.Get(paramSearch)
		p.Search = &search
	}
	if scope := tasksrepo.Scope(v.Get(paramFilter)); scope.Valid() {
		p.Filter = &scope
	}
	if sortBy := v.Get(paramSortBy); sortBy != "" {
		if _, ok := tasksrepo.OrderByFields[sortBy]; ok {
			p.SortBy = &sortBy
		}
	}
	if order := v.Get(paramSortOrder); fop.ValidDirection(order) {
		p.SortOrder = &order
	}

	return p
}

// CriteriaFromQuery returns the default criteria overlaid with whatever v
// carries.
func CriteriaFromQuery(v url.Values) tasksrepo.Criteria {
	return tasksrepo.DefaultCriteria().Merge(DeserializeCriteria(v))
}

// hasCriteria reports whether v names any criteria parameter.
func hasCriteria(v url.Values) bool {
	return v.Has(paramSearch) || v.Has(paramFilter) || v.Has(paramSortBy) || v.Has(paramSortOrder)
}
