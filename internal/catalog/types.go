package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ObjectType is the coarse classification the catalog assigns to a tracked object.
type ObjectType string

const (
	ObjectPayload    ObjectType = "PAYLOAD"
	ObjectRocketBody ObjectType = "ROCKET BODY"
	ObjectDebris     ObjectType = "DEBRIS"
	ObjectUnknown    ObjectType = "UNKNOWN"
)

// ObjectTypes lists the closed enumeration in display order.
var ObjectTypes = []ObjectType{ObjectPayload, ObjectRocketBody, ObjectDebris, ObjectUnknown}

// OrbitCodes lists the orbit tags the catalog is known to emit.
var OrbitCodes = []string{
	"LEO", "LEO1", "LEO2", "LEO3", "LEO4",
	"MEO", "GEO", "HEO", "IGO", "EGO",
	"NSO", "GTO", "GHO", "HAO", "MGO",
	"LMO", "UFO", "ESO", "UNKNOWN",
}

// Attributes is the fixed attribute selection sent with every catalog query.
var Attributes = []string{
	"noradCatId", "intlDes", "name", "launchDate", "decayDate",
	"objectType", "launchSiteCode", "countryCode", "orbitCode",
}

// Known reports whether t belongs to the closed enumeration.
func (t ObjectType) Known() bool {
	return slices.Contains(ObjectTypes, t)
}

// ParseObjectType accepts an object type in any case, with spaces, dashes or
// underscores between words ("rocket-body" -> ROCKET BODY).
func ParseObjectType(value string) (ObjectType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	normalized = strings.Join(strings.Fields(normalized), " ")
	t := ObjectType(normalized)
	if !t.Known() {
		return "", fmt.Errorf("unknown object type %q", value)
	}
	return t, nil
}

// NormalizeObjectTypes removes duplicates and returns the set in enumeration
// order, so equal sets always compare and serialize identically. Unknown
// values sort after known ones in lexical order.
func NormalizeObjectTypes(types []ObjectType) []ObjectType {
	if len(types) == 0 {
		return nil
	}
	out := make([]ObjectType, 0, len(types))
	for _, t := range types {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b ObjectType) int {
		ia, ib := slices.Index(ObjectTypes, a), slices.Index(ObjectTypes, b)
		switch {
		case ia >= 0 && ib >= 0:
			return ia - ib
		case ia >= 0:
			return -1
		case ib >= 0:
			return 1
		}
		return strings.Compare(string(a), string(b))
	})
	return out
}

// NormalizeOrbitCodes upper-cases and de-duplicates orbit codes. Known codes
// keep catalog order; unrecognised codes follow in lexical order.
func NormalizeOrbitCodes(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || slices.Contains(out, code) {
			continue
		}
		out = append(out, code)
	}
	slices.SortFunc(out, func(a, b string) int {
		ia, ib := slices.Index(OrbitCodes, a), slices.Index(OrbitCodes, b)
		switch {
		case ia >= 0 && ib >= 0:
			return ia - ib
		case ia >= 0:
			return -1
		case ib >= 0:
			return 1
		}
		return strings.Compare(a, b)
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// OrbitSet is the parsed form of a record's brace-delimited orbit code.
type OrbitSet map[string]struct{}

// ParseOrbitSet turns "{LEO, GTO}" into {LEO, GTO}. Braces are stripped,
// tags are split on commas and trimmed; empty tags are dropped.
func ParseOrbitSet(raw string) OrbitSet {
	trimmed := strings.NewReplacer("{", "", "}", "").Replace(raw)
	set := OrbitSet{}
	for _, tag := range strings.Split(trimmed, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

// Has reports whether tag is present.
func (s OrbitSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Intersects reports whether any of tags is in the set.
func (s OrbitSet) Intersects(tags []string) bool {
	for _, tag := range tags {
		if s.Has(tag) {
			return true
		}
	}
	return false
}

// tags returns the set members sorted lexically.
func (s OrbitSet) tags() []string {
	tags := make([]string, 0, len(s))
	for tag := range s {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Satellite is one tracked object as returned by the catalog.
type Satellite struct {
	NoradCatID     string     `json:"noradCatId"`
	IntlDes        string     `json:"intlDes"`
	Name           string     `json:"name"`
	LaunchDate     string     `json:"launchDate"`
	DecayDate      *string    `json:"decayDate"`
	ObjectType     ObjectType `json:"objectType"`
	LaunchSiteCode string     `json:"launchSiteCode"`
	CountryCode    string     `json:"countryCode"`
	OrbitCode      string     `json:"orbitCode"`

	// Derived at decode time.
	Orbits     OrbitSet  `json:"-"`
	LaunchTime time.Time `json:"-"`
}

// UnmarshalJSON decodes a record and parses its orbit set and launch date once.
func (s *Satellite) UnmarshalJSON(data []byte) error {
	type plain Satellite
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Satellite(raw)
	s.Orbits = ParseOrbitSet(s.OrbitCode)
	s.LaunchTime = ParseLaunchDate(s.LaunchDate)
	return nil
}

// NewSatellite fills the derived fields of a record built in code.
func NewSatellite(s Satellite) Satellite {
	s.Orbits = ParseOrbitSet(s.OrbitCode)
	s.LaunchTime = ParseLaunchDate(s.LaunchDate)
	return s
}

// OrbitLabel renders the orbit code without braces, e.g. "LEO, GTO".
func (s Satellite) OrbitLabel() string {
	trimmed := strings.NewReplacer("{", "", "}", "").Replace(s.OrbitCode)
	parts := strings.Split(trimmed, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}

var launchLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseLaunchDate returns the instant for a catalog date string, or the zero
// time when it cannot be parsed. Dates without a zone are taken as UTC.
func ParseLaunchDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range launchLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Counts is the per object type summary returned alongside the records.
type Counts struct {
	Total  int
	ByType map[ObjectType]int
}

// UnmarshalJSON accepts counts encoded as strings ("123") or numbers.
func (c *Counts) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ByType = make(map[ObjectType]int, len(raw))
	for key, value := range raw {
		n, err := parseCount(value)
		if err != nil {
			return fmt.Errorf("count %q: %w", key, err)
		}
		if key == "total" {
			c.Total = n
			continue
		}
		c.ByType[ObjectType(key)] = n
	}
	return nil
}

// MarshalJSON emits counts in the catalog's shape.
func (c Counts) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(c.ByType)+1)
	out["total"] = c.Total
	for t, n := range c.ByType {
		out[string(t)] = n
	}
	return json.Marshal(out)
}

func parseCount(value json.RawMessage) (int, error) {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		return strconv.Atoi(s)
	}
	var n int
	if err := json.Unmarshal(value, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Response mirrors the catalog's /satellites payload.
type Response struct {
	Data   []Satellite `json:"data"`
	Counts Counts      `json:"counts"`
}

// errorPayload is the body the catalog returns on failure.
type errorPayload struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
