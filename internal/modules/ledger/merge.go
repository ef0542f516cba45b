package ledger

// Merge combines the normalized entries of both collections into a single
// owner-scoped sequence, keeping the first occurrence of each dedup key.
//
// The variable-risk collection is iterated first: it is the target of
// cross-posted fixed-risk operations, so when a cross-posted copy and the
// native fixed-risk row both exist, the copy (which carries the source
// reference) is kept and the native row is dropped as the duplicate.
func Merge(variable, fixed []Entry) []Entry {
	merged := make([]Entry, 0, len(variable)+len(fixed))
	seen := make(map[string]struct{}, len(variable)+len(fixed))

	for _, entries := range [2][]Entry{variable, fixed} {
		for _, e := range entries {
			key := e.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, e)
		}
	}

	return merged
}
