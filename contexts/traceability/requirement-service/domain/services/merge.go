package services

// MergeIdentifiers performs a deduplicating ordered-set union: every
// identifier appears once, in the order it was first seen. Repeating a merge
// with the same input is a no-op, which keeps linking idempotent.
func MergeIdentifiers(existing []string, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	for _, lists := range [][]string{existing, incoming} {
		for _, id := range lists {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}
