package state

import (
	"time"

	"github.com/five82/satscope/internal/catalog"
)

// Status is the fetch lifecycle. Exactly one variant holds at a time:
// Idle, Loading, Success or Failure.
type Status interface {
	isStatus()
	String() string
}

// Idle is the state before the first fetch starts.
type Idle struct{}

// Loading means a fetch for ObjectTypes is in flight.
type Loading struct {
	Generation  uint64
	ObjectTypes []catalog.ObjectType
}

// Success holds the records of the latest fetch.
type Success struct {
	Records   []catalog.Satellite
	Counts    catalog.Counts
	Total     int
	FetchedAt time.Time
}

// Failure holds the error of the latest fetch. No records are kept.
type Failure struct {
	Err      *catalog.FetchError
	FailedAt time.Time
}

func (Idle) isStatus()    {}
func (Loading) isStatus() {}
func (Success) isStatus() {}
func (Failure) isStatus() {}

func (Idle) String() string    { return "idle" }
func (Loading) String() string { return "loading" }
func (Success) String() string { return "success" }
func (Failure) String() string { return "failure" }

func cloneStatus(s Status) Status {
	switch v := s.(type) {
	case Loading:
		v.ObjectTypes = cloneTypes(v.ObjectTypes)
		return v
	case Success:
		v.Records = cloneRecords(v.Records)
		v.Counts = cloneCounts(v.Counts)
		return v
	case nil:
		return Idle{}
	}
	return s
}

func cloneRecords(records []catalog.Satellite) []catalog.Satellite {
	if len(records) == 0 {
		return nil
	}
	dup := make([]catalog.Satellite, len(records))
	copy(dup, records)
	return dup
}

func cloneTypes(types []catalog.ObjectType) []catalog.ObjectType {
	if len(types) == 0 {
		return nil
	}
	dup := make([]catalog.ObjectType, len(types))
	copy(dup, types)
	return dup
}

func cloneCounts(c catalog.Counts) catalog.Counts {
	if c.ByType == nil {
		return c
	}
	byType := make(map[catalog.ObjectType]int, len(c.ByType))
	for k, v := range c.ByType {
		byType[k] = v
	}
	c.ByType = byType
	return c
}
