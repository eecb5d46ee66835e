package callattendance

// sourceTransitions lists the legal provenance changes for one
// (employee, date) key. MANUAL is absorbing for automatic runs.
var sourceTransitions = map[Source][]Source{
	SourceNone:   {SourceAuto, SourceManual},
	SourceAuto:   {SourceAuto, SourceManual},
	SourceManual: {SourceManual},
}

// CanTransition reports whether a record tagged from may be rewritten as to.
func CanTransition(from, to Source) bool {
	for _, next := range sourceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
