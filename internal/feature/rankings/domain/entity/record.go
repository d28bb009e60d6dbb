// Package entity defines the domain models for the rankings feature.
package entity

// Sentinel is the placeholder value a record carries for a secondary-source
// field when the join found no matching row. Unmatched rows keep partial
// data instead of being dropped.
const Sentinel = "-"

// RankedRecord is one reconciled table row: the primary source's columns
// enriched with matched secondary columns and derived display fields.
// Records are built fresh per load and never mutated afterwards; sorting
// produces a new ordering, not an in-place change.
type RankedRecord struct {
	Fields map[string]string
}

// Get returns the record's value for a column, or the sentinel when the
// column is absent.
func (r RankedRecord) Get(column string) string {
	if v, ok := r.Fields[column]; ok && v != "" {
		return v
	}
	return Sentinel
}

// SortDirection is one leg of the tri-state sort cycle.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
	SortNone SortDirection = "none"
)

// ParseSortDirection maps a query-string value to a SortDirection,
// defaulting to SortNone for unknown input.
func ParseSortDirection(s string) SortDirection {
	switch s {
	case string(SortAsc):
		return SortAsc
	case string(SortDesc):
		return SortDesc
	default:
		return SortNone
	}
}

// SortState is the current sort column and direction of a table view.
type SortState struct {
	Key       string
	Direction SortDirection
}

// Click advances the state the way repeated header clicks do: the same key
// cycles asc → desc → none → asc; a different key resets to ascending.
func (s SortState) Click(key string) SortState {
	if key != s.Key {
		return SortState{Key: key, Direction: SortAsc}
	}
	switch s.Direction {
	case SortAsc:
		return SortState{Key: key, Direction: SortDesc}
	case SortDesc:
		return SortState{Key: key, Direction: SortNone}
	default:
		return SortState{Key: key, Direction: SortAsc}
	}
}

// PageSize is the fixed number of rows per table page.
const PageSize = 20

// PageWindow is a derived view over a sorted, filtered record sequence.
type PageWindow struct {
	PageNumber int // 1-based
	PageSize   int
}

// TotalPages returns ceil(n / PageSize) for n filtered rows.
func (w PageWindow) TotalPages(n int) int {
	if w.PageSize <= 0 || n <= 0 {
		return 0
	}
	return (n + w.PageSize - 1) / w.PageSize
}
