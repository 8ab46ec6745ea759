package record

import "math"

// SelectorKind distinguishes the three location-selection policies.
type SelectorKind int

const (
	// SelectFinal picks the last element of a location sequence.
	SelectFinal SelectorKind = iota
	// SelectName picks the element exactly matching a named location.
	SelectName
	// SelectCoord picks the first element within tolerance of a numeric
	// coordinate.
	SelectCoord
)

// Selector chooses which element of a multi-location output contributes
// to the summary.
type Selector struct {
	kind  SelectorKind
	name  string
	coord float64
}

// SelectorFinal selects the last location of a sequence.
func SelectorFinal() Selector { return Selector{kind: SelectFinal} }

// SelectorName selects by exact location-name match.
func SelectorName(name string) Selector { return Selector{kind: SelectName, name: name} }

// SelectorCoord selects the first location within tolerance of coord.
func SelectorCoord(coord float64) Selector { return Selector{kind: SelectCoord, coord: coord} }

// String renders the selector for serialization ("final", the name, or the
// coordinate).
func (s Selector) String() string {
	switch s.kind {
	case SelectName:
		return s.name
	case SelectCoord:
		return LocCoord(s.coord).String()
	default:
		return "final"
	}
}

// Default tolerances for approximate coordinate matching, matching the
// numpy isclose convention.
const (
	defaultRelTolerance = 1e-5
	defaultAbsTolerance = 1e-8
)

// Summary configures the key -> scalar projection of a data point and, once
// finalized, holds the computed values.
type Summary struct {
	// Keys are the requested summary keys, in order.
	Keys []string

	// Location selects which element of a multi-location scalar output
	// contributes its value.
	Location Selector

	// RelTolerance and AbsTolerance define approximate float equality for
	// coordinate selectors: |loc - sel| <= Abs + Rel*|sel|. The first
	// location within tolerance wins, scanning in sequence order; this
	// policy is explicit because equally-near neighbors are otherwise
	// ambiguous. Zero values mean the defaults.
	RelTolerance float64
	AbsTolerance float64

	// Computed is the derived key -> value map (float64 or string
	// values); ComputedKeys preserves its order. Both are populated by
	// Finalize and never mutated directly by callers.
	Computed     map[string]any
	ComputedKeys []string
}

// configure replaces the summary configuration, validating leniently.
func (s *Summary) configure(keys []string, location Selector) error {
	for _, key := range keys {
		if key == "" {
			return newMissingFieldError("summary", "summary_keys",
				"summary keys must not be blank")
		}
	}
	s.Keys = keys
	s.Location = location
	return nil
}

// check validates the summary configuration.
func (s *Summary) check(allowBlank bool) error {
	if allowBlank && len(s.Keys) == 0 {
		return nil
	}
	for _, key := range s.Keys {
		if key == "" {
			return newMissingFieldError("summary", "summary_keys",
				"summary keys must not be blank")
		}
	}
	return nil
}

// coordMatches reports approximate equality between a location coordinate
// and the selector coordinate.
func (s *Summary) coordMatches(loc, sel float64) bool {
	rel, abs := s.RelTolerance, s.AbsTolerance
	if rel == 0 {
		rel = defaultRelTolerance
	}
	if abs == 0 {
		abs = defaultAbsTolerance
	}
	return math.Abs(loc-sel) <= abs+rel*math.Abs(sel)
}
