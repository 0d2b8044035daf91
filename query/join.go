package query

// Hash-join helpers. Each builds its index in one pass over the build side so
// joins cost O(n+m) instead of a nested scan.

// KeySet collects the distinct keys of rows
func KeySet[T any](rows []T, key func(T) string) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		set[key(r)] = struct{}{}
	}
	return set
}

// DistinctBy keeps the first row for each key, preserving input order
func DistinctBy[T any](rows []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Semi keeps the rows of left whose key appears in right, preserving left order
func Semi[L, R any](left []L, leftKey func(L) string, right []R, rightKey func(R) string) []L {
	keys := KeySet(right, rightKey)
	out := make([]L, 0)
	for _, l := range left {
		if _, ok := keys[leftKey(l)]; ok {
			out = append(out, l)
		}
	}
	return out
}

func stringSet(values []string) map[string]struct{} {
	return KeySet(values, func(s string) string { return s })
}
