package domain

// Predicate decides whether a detection belongs to the filtered view.
type Predicate func(Detection) bool

// BuildPredicate turns a filter snapshot into a row predicate. The snapshot is
// cloned so later mutations of fs cannot leak into a running scan.
//
// The month/year clause is all-or-nothing: it applies only when both sets are
// present. An empty origin or time set matches zero rows.
func BuildPredicate(fs FilterState) Predicate {
	fs = fs.Clone()
	gate := fs.TemporalGate()

	return func(d Detection) bool {
		if _, ok := fs.Origins[d.Origin]; !ok {
			return false
		}
		if _, ok := fs.Times[d.Time]; !ok {
			return false
		}
		if !gate {
			return true
		}
		if _, ok := fs.Months[d.Month]; !ok {
			return false
		}
		_, ok := fs.Years[d.Year]
		return ok
	}
}
