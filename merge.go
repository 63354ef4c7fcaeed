package jarz

// Merge combines a base cookie line with incoming entries. Base entries whose
// name matches an incoming entry are dropped; the incoming entries are
// appended after the surviving base entries, each side keeping its original
// relative order. Merge is idempotent: Merge(Merge(l, e), e) == Merge(l, e).
func Merge(base string, incoming []Entry) string {
	if len(incoming) == 0 {
		return Stringify(Parse(base))
	}

	replaced := make(map[string]struct{}, len(incoming))
	for _, e := range incoming {
		replaced[e.Name] = struct{}{}
	}

	var merged []Entry
	for _, e := range Parse(base) {
		if _, ok := replaced[e.Name]; ok {
			continue
		}
		merged = append(merged, e)
	}
	merged = append(merged, incoming...)

	return Stringify(merged)
}

// ClearOne removes the entry with the given name from a cookie line.
// All other entries keep their value and relative order.
func ClearOne(base, name string) string {
	var kept []Entry
	for _, e := range Parse(base) {
		if e.Name == name {
			continue
		}
		kept = append(kept, e)
	}
	return Stringify(kept)
}

// Reset returns the empty cookie line, discarding all entries.
func Reset() string {
	return ""
}
