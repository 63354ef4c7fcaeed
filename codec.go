package jarz

import "strings"

// Entry is a single name/value cookie pair. Names are compared
// case-sensitively; within any mirror snapshot a name appears at most once.
type Entry struct {
	Name  string
	Value string
}

// Parse splits a cookie line into entries.
//
// The line format is "name1=value1; name2=value2": segments are separated by
// ';', each segment is split at its first '=', and both halves are trimmed of
// surrounding whitespace. Empty or whitespace-only input yields nil. A
// segment containing no '=' is skipped.
func Parse(line string) []Entry {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	var entries []Entry
	for _, segment := range strings.Split(line, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		idx := strings.Index(segment, "=")
		if idx < 0 {
			continue
		}

		entries = append(entries, Entry{
			Name:  strings.TrimSpace(segment[:idx]),
			Value: strings.TrimSpace(segment[idx+1:]),
		})
	}
	return entries
}

// Stringify serializes entries back into a cookie line, preserving order.
// Parse and Stringify round-trip for any sequence of entries with unique
// names and no ';' in values or leading '=' in names.
func Stringify(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Name)
		b.WriteString("=")
		b.WriteString(e.Value)
	}
	return b.String()
}
