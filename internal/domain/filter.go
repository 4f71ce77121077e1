package domain

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Dimension names one independently selectable filter axis.
type Dimension string

const (
	DimOrigins Dimension = "origins"
	DimTimes   Dimension = "times"
	DimMonths  Dimension = "months"
	DimYears   Dimension = "years"
)

// Dimensions lists every selectable axis.
var Dimensions = []Dimension{DimOrigins, DimTimes, DimMonths, DimYears}

// ErrUnknownDimension is returned when a selection names an axis that does not exist.
var ErrUnknownDimension = errors.New("unknown dimension")

// invalidToken stands in for a selection token that does not parse as the
// dimension's type. It keeps the dimension present but never matches a row.
const invalidToken = -1

// ParseDimension maps a control-surface name to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Dimensions, d) {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// FilterState is the current selection per dimension. Months and Years are
// absent when nil or empty.
type FilterState struct {
	Origins map[FireOrigin]struct{}
	Times   map[FireTime]struct{}
	Months  map[int]struct{}
	Years   map[int]struct{}
}

// DefaultFilterState selects every origin and time and leaves months and years absent.
func DefaultFilterState() FilterState {
	fs := FilterState{
		Origins: make(map[FireOrigin]struct{}, len(Origins)),
		Times:   make(map[FireTime]struct{}, len(Times)),
	}
	for _, o := range Origins {
		fs.Origins[o] = struct{}{}
	}
	for _, t := range Times {
		fs.Times[t] = struct{}{}
	}
	return fs
}

// TemporalGate reports whether the month/year predicate is in effect, which
// requires both dimensions to be present.
func (fs FilterState) TemporalGate() bool {
	return len(fs.Months) > 0 && len(fs.Years) > 0
}

// Set replaces one dimension's selection with the parsed tokens. Values outside
// the dimension's domain are kept and simply match nothing.
func (fs *FilterState) Set(dim Dimension, tokens []string) error {
	switch dim {
	case DimOrigins:
		fs.Origins = make(map[FireOrigin]struct{}, len(tokens))
		for _, tok := range tokens {
			fs.Origins[FireOrigin(parseIntToken(tok))] = struct{}{}
		}
	case DimTimes:
		fs.Times = make(map[FireTime]struct{}, len(tokens))
		for _, tok := range tokens {
			fs.Times[FireTime(strings.ToUpper(strings.TrimSpace(tok)))] = struct{}{}
		}
	case DimMonths:
		fs.Months = nil
		if len(tokens) > 0 {
			fs.Months = make(map[int]struct{}, len(tokens))
		}
		for _, tok := range tokens {
			m, err := ParseMonth(tok)
			if err != nil {
				m = invalidToken
			}
			fs.Months[m] = struct{}{}
		}
	case DimYears:
		fs.Years = nil
		if len(tokens) > 0 {
			fs.Years = make(map[int]struct{}, len(tokens))
		}
		for _, tok := range tokens {
			fs.Years[parseIntToken(tok)] = struct{}{}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
	return nil
}

// Clone returns a deep copy so callers can read it without holding the writer's lock.
func (fs FilterState) Clone() FilterState {
	return FilterState{
		Origins: cloneSet(fs.Origins),
		Times:   cloneSet(fs.Times),
		Months:  cloneSet(fs.Months),
		Years:   cloneSet(fs.Years),
	}
}

// Selection returns the filter state as sorted lists for display and transport.
func (fs FilterState) Selection() Selection {
	return Selection{
		Origins: sortedKeys(fs.Origins),
		Times:   sortedKeys(fs.Times),
		Months:  sortedKeys(fs.Months),
		Years:   sortedKeys(fs.Years),
	}
}

// Selection is the wire form of a FilterState. Nil months/years mean absent.
type Selection struct {
	Origins []FireOrigin `json:"origins"`
	Times   []FireTime   `json:"times"`
	Months  []int        `json:"months"`
	Years   []int        `json:"years"`
}

func parseIntToken(tok string) int {
	n, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		return invalidToken
	}
	return n
}

func cloneSet[K comparable](in map[K]struct{}) map[K]struct{} {
	if in == nil {
		return nil
	}
	out := make(map[K]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys[K interface{ ~int | ~string }](in map[K]struct{}) []K {
	if len(in) == 0 {
		if in == nil {
			return nil
		}
		return []K{}
	}
	out := make([]K, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
