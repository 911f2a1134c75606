package listing

// GroupAndCap partitions items by key in one pass, keeping input order inside
// each group and at most limit items per group. Every key in keys gets an
// entry, possibly empty. Items whose key is not in keys get their own entry,
// so callers can detect them. limit <= 0 disables the cap.
func GroupAndCap[K comparable, V any](keys []K, items []V, keyOf func(V) K, limit int) map[K][]V {
	groups := make(map[K][]V, len(keys))
	for _, k := range keys {
		groups[k] = []V{}
	}
	for _, it := range items {
		k := keyOf(it)
		g := groups[k]
		if limit > 0 && len(g) >= limit {
			continue
		}
		groups[k] = append(g, it)
	}
	return groups
}
