// Package pipeline turns the last catalog response into the rows the operator
// sees: local search, orbit filter and sort, in that order.
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/five82/satscope/internal/catalog"
)

// Filters is the operator's current selection. ObjectTypes is sent to the
// catalog; OrbitCodes and Search are applied locally.
type Filters struct {
	Search      string
	ObjectTypes []catalog.ObjectType
	OrbitCodes  []string
}

// Normalize returns f with both sets deduplicated and ordered.
func (f Filters) Normalize() Filters {
	return Filters{
		Search:      f.Search,
		ObjectTypes: catalog.NormalizeObjectTypes(f.ObjectTypes),
		OrbitCodes:  catalog.NormalizeOrbitCodes(f.OrbitCodes),
	}
}

// Clone returns a copy that shares no slices with f.
func (f Filters) Clone() Filters {
	return Filters{
		Search:      f.Search,
		ObjectTypes: slices.Clone(f.ObjectTypes),
		OrbitCodes:  slices.Clone(f.OrbitCodes),
	}
}

// SameObjectTypes reports whether a and b select the same object types,
// ignoring order and duplicates.
func SameObjectTypes(a, b []catalog.ObjectType) bool {
	return slices.Equal(catalog.NormalizeObjectTypes(a), catalog.NormalizeObjectTypes(b))
}

// Empty reports whether no restriction is active.
func (f Filters) Empty() bool {
	return strings.TrimSpace(f.Search) == "" && len(f.ObjectTypes) == 0 && len(f.OrbitCodes) == 0
}

// Project applies search, orbit filter and sort to records. records is never
// modified; the result is a new slice unless no step applies.
func Project(records []catalog.Satellite, search string, orbitCodes []string, sort Sort) []catalog.Satellite {
	out, owned := records, false
	if strings.TrimSpace(search) != "" {
		out, owned = filterSearch(out, search), true
	}
	if len(orbitCodes) > 0 {
		out, owned = filterOrbits(out, orbitCodes), true
	}
	if sort.Active() {
		if !owned {
			out = slices.Clone(out)
		}
		sortRecords(out, sort)
	}
	return out
}

// MatchesSearch reports whether s matches the search text, case-insensitive,
// against the name or NORAD ID.
func MatchesSearch(s catalog.Satellite, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(s.Name), needle) ||
		strings.Contains(strings.ToLower(s.NoradCatID), needle)
}

func filterSearch(records []catalog.Satellite, search string) []catalog.Satellite {
	out := make([]catalog.Satellite, 0, len(records))
	for _, rec := range records {
		if MatchesSearch(rec, search) {
			out = append(out, rec)
		}
	}
	return out
}

func filterOrbits(records []catalog.Satellite, codes []string) []catalog.Satellite {
	out := make([]catalog.Satellite, 0, len(records))
	for _, rec := range records {
		orbits := rec.Orbits
		if orbits == nil {
			orbits = catalog.ParseOrbitSet(rec.OrbitCode)
		}
		if orbits.Intersects(codes) {
			out = append(out, rec)
		}
	}
	return out
}

func sortRecords(records []catalog.Satellite, sort Sort) {
	cmp := comparator(sort.Field)
	if cmp == nil {
		return
	}
	desc := sort.Descending()
	slices.SortStableFunc(records, func(a, b catalog.Satellite) int {
		if desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
}

func comparator(field SortField) func(a, b catalog.Satellite) int {
	switch field {
	case SortName:
		return func(a, b catalog.Satellite) int { return compareFold(a.Name, b.Name) }
	case SortNoradCatID:
		return func(a, b catalog.Satellite) int { return compareFold(a.NoradCatID, b.NoradCatID) }
	case SortCountry:
		return func(a, b catalog.Satellite) int { return compareFold(a.CountryCode, b.CountryCode) }
	case SortLaunchDate:
		return func(a, b catalog.Satellite) int { return compareLaunch(launchTime(a), launchTime(b)) }
	}
	return nil
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func launchTime(s catalog.Satellite) time.Time {
	if s.LaunchTime.IsZero() && s.LaunchDate != "" {
		return catalog.ParseLaunchDate(s.LaunchDate)
	}
	return s.LaunchTime
}

// compareLaunch orders zero (unparseable) instants after every real one.
func compareLaunch(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return a.Compare(b)
}
