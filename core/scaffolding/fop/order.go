// Package fop holds the filter, order and pagination primitives shared by
// repositories and bridges.
package fop

import (
	"fmt"
	"strings"
)

// Directions accepted by By.
const (
	ASC  = "asc"
	DESC = "desc"
)

var directions = map[string]string{
	ASC:  ASC,
	DESC: DESC,
}

// By represents a field used to order by and direction.
type By struct {
	Field     string
	Direction string
}

// NewBy constructs a new By value with no checks.
func NewBy(field string, direction string) By {
	return By{
		Field:     field,
		Direction: direction,
	}
}

// Ascending reports whether the direction is ascending.
func (b By) Ascending() bool {
	return b.Direction == ASC
}

// ValidDirection reports whether d is a known direction.
func ValidDirection(d string) bool {
	_, ok := directions[d]
	return ok
}

// ParseOrder constructs a By value by parsing a string in the form of
// "field,direction" ie "dueOn,asc". fieldMappings maps the accepted public
// names to internal field names.
func ParseOrder(fieldMappings map[string]string, orderBy string, defaultOrder By) (By, error) {
	if orderBy == "" {
		return defaultOrder, nil
	}

	orderParts := strings.Split(orderBy, ",")

	orgFieldName := strings.TrimSpace(orderParts[0])
	fieldName, exists := fieldMappings[orgFieldName]
	if !exists {
		return By{}, fmt.Errorf("unknown order: %s", orgFieldName)
	}

	switch len(orderParts) {
	case 1:
		return NewBy(fieldName, defaultOrder.Direction), nil

	case 2:
		direction := strings.ToLower(strings.TrimSpace(orderParts[1]))
		if _, exists := directions[direction]; !exists {
			return By{}, fmt.Errorf("unknown direction: %s", direction)
		}
		return NewBy(fieldName, direction), nil

	default:
		return By{}, fmt.Errorf("unknown order: %s", orderBy)
	}
}
