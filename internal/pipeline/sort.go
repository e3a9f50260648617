package pipeline

import (
	"fmt"
	"strings"
)

// SortField names a sortable column.
type SortField string

const (
	SortNone       SortField = ""
	SortName       SortField = "name"
	SortNoradCatID SortField = "noradCatId"
	SortCountry    SortField = "countryCode"
	SortLaunchDate SortField = "launchDate"
)

// SortFields lists the sortable fields in column order.
var SortFields = []SortField{SortNoradCatID, SortName, SortCountry, SortLaunchDate}

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is the active sort. A zero Sort means input order.
type Sort struct {
	Field     SortField
	Direction Direction
}

// Active reports whether a field is selected.
func (s Sort) Active() bool {
	return s.Field != SortNone
}

// Descending reports whether the sort runs high to low.
func (s Sort) Descending() bool {
	return s.Direction == Desc
}

func (s Sort) String() string {
	if !s.Active() {
		return "none"
	}
	if s.Descending() {
		return "-" + string(s.Field)
	}
	return string(s.Field)
}

// Toggle returns the sort after the operator picks field: picking the active
// field flips its direction, any other field starts ascending.
func Toggle(current Sort, field SortField) Sort {
	if current.Field == field && field != SortNone {
		if current.Direction == Asc {
			return Sort{Field: field, Direction: Desc}
		}
		return Sort{Field: field, Direction: Asc}
	}
	return Sort{Field: field, Direction: Asc}
}

// ParseSort reads "name", "-launchDate" or "launchDate:desc". An empty value
// or "none" yields the zero Sort.
func ParseSort(value string) (Sort, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return Sort{}, nil
	}
	dir := Asc
	if rest, ok := strings.CutPrefix(value, "-"); ok {
		value, dir = rest, Desc
	} else if rest, ok := strings.CutPrefix(value, "+"); ok {
		value = rest
	}
	if name, suffix, ok := strings.Cut(value, ":"); ok {
		switch strings.ToLower(suffix) {
		case "asc":
			dir = Asc
		case "desc":
			dir = Desc
		default:
			return Sort{}, fmt.Errorf("unknown sort direction %q", suffix)
		}
		value = name
	}
	field, err := parseSortField(value)
	if err != nil {
		return Sort{}, err
	}
	return Sort{Field: field, Direction: dir}, nil
}

func parseSortField(value string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "name":
		return SortName, nil
	case "noradcatid", "norad", "id":
		return SortNoradCatID, nil
	case "countrycode", "country":
		return SortCountry, nil
	case "launchdate", "launch":
		return SortLaunchDate, nil
	}
	return SortNone, fmt.Errorf("unknown sort field %q", value)
}
