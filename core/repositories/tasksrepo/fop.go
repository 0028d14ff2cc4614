package tasksrepo

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/jrazmi/taskboard/core/scaffolding/fop"
)

// Scope restricts tasks relative to the acting user.
type Scope string

const (
	ScopeAll          Scope = "all"
	ScopeAssignedToMe Scope = "assigned_to_me"
	ScopeCreatedByMe  Scope = "created_by_me"
)

// Scopes lists every scope.
var Scopes = []Scope{ScopeAll, ScopeAssignedToMe, ScopeCreatedByMe}

func (s Scope) Valid() bool {
	return slices.Contains(Scopes, s)
}

// Sortable fields.
const (
	OrderByCreatedOn = "createdOn"
	OrderByDueOn     = "dueOn"
	OrderByPriority  = "priority"
)

// OrderByFields maps the public sort names to the fields Apply understands.
var OrderByFields = map[string]string{
	OrderByCreatedOn: OrderByCreatedOn,
	OrderByDueOn:     OrderByDueOn,
	OrderByPriority:  OrderByPriority,
}

// DefaultOrderBy sorts newest first.
var DefaultOrderBy = fop.NewBy(OrderByCreatedOn, fop.DESC)

// Criteria is the complete filter/sort state. It is always fully populated.
type Criteria struct {
	Search    string `json:"search"`
	Filter    Scope  `json:"filter"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// DefaultCriteria returns empty search, all tasks, createdOn descending.
func DefaultCriteria() Criteria {
	return Criteria{
		Search:    "",
		Filter:    ScopeAll,
		SortBy:    DefaultOrderBy.Field,
		SortOrder: DefaultOrderBy.Direction,
	}
}

// Order returns the sort as a fop.By.
func (c Criteria) Order() fop.By {
	return fop.NewBy(c.SortBy, c.SortOrder)
}

// Valid reports whether every enum field holds a known value.
func (c Criteria) Valid() bool {
	_, sortable := OrderByFields[c.SortBy]
	return c.Filter.Valid() && sortable && fop.ValidDirection(c.SortOrder)
}

// CriteriaPatch is a partial Criteria; nil fields are left untouched by Merge.
type CriteriaPatch struct {
	Search    *string `json:"search,omitempty"`
	Filter    *Scope  `json:"filter,omitempty"`
	SortBy    *string `json:"sortBy,omitempty"`
	SortOrder *string `json:"sortOrder,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CriteriaPatch) IsEmpty() bool {
	return p.Search == nil && p.Filter == nil && p.SortBy == nil && p.SortOrder == nil
}

// Merge applies p field by field. Enum values outside their sets are ignored
// so the result stays valid.
func (c Criteria) Merge(p CriteriaPatch) Criteria {
	if p.Search != nil {
		c.Search = *p.Search
	}
	if p.Filter != nil && p.Filter.Valid() {
		c.Filter = *p.Filter
	}
	if p.SortBy != nil {
		if _, ok := OrderByFields[*p.SortBy]; ok {
			c.SortBy = *p.SortBy
		}
	}
	if p.SortOrder != nil && fop.ValidDirection(*p.SortOrder) {
		c.SortOrder = *p.SortOrder
	}
	return c
}

// Apply filters and sorts tasks. It is pure: the input is never modified and
// the result is a new slice. Sorting is stable, so tasks with equal keys keep
// their input order in both directions.
func Apply(tasks []Task, c Criteria, actingUserID string) []Task {
	needle := strings.ToLower(c.Search)

	type keyed struct {
		task Task
		at   time.Time
		rank int
	}

	rows := make([]keyed, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" && !matchesSearch(t, needle) {
			continue
		}
		if !inScope(t, c.Filter, actingUserID) {
			continue
		}

		row := keyed{task: t}
		switch c.SortBy {
		case OrderByCreatedOn:
			row.at = t.CreatedAt()
		case OrderByDueOn:
			row.at = t.DueAt()
		case OrderByPriority:
			row.rank = t.Priority.Rank()
		}
		rows = append(rows, row)
	}

	if _, sortable := OrderByFields[c.SortBy]; sortable {
		desc := c.SortOrder == fop.DESC
		slices.SortStableFunc(rows, func(a, b keyed) int {
			var n int
			if c.SortBy == OrderByPriority {
				n = cmp.Compare(a.rank, b.rank)
			} else {
				n = a.at.Compare(b.at)
			}
			if desc {
				return -n
			}
			return n
		})
	}

	out := make([]Task, len(rows))
	for i, row := range rows {
		out[i] = row.task
	}
	return out
}

// matchesSearch expects needle already lower cased.
func matchesSearch(t Task, needle string) bool {
	if strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.AssignedTo.Name), needle) ||
		strings.Contains(strings.ToLower(t.CreatedBy.Name), needle) ||
		strings.Contains(strings.ToLower(t.Meta.PatientCode), needle) {
		return true
	}
	return slices.ContainsFunc(t.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), needle)
	})
}

func inScope(t Task, scope Scope, actingUserID string) bool {
	switch scope {
	case ScopeAssignedToMe:
		return t.AssignedTo.ID == actingUserID
	case ScopeCreatedByMe:
		return t.CreatedBy.ID == actingUserID
	default:
		return true
	}
}
