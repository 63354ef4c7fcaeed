package jarz

import (
	"reflect"
	"testing"
)

func TestParse_Basic(t *testing.T) {
	entries := Parse("a=1; b=2")
	want := []Entry{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected %v, got %v", want, entries)
	}
}

func TestParse_Empty(t *testing.T) {
	if entries := Parse(""); entries != nil {
		t.Errorf("expected nil for empty input, got %v", entries)
	}
	if entries := Parse("   \t "); entries != nil {
		t.Errorf("expected nil for whitespace input, got %v", entries)
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	entries := Parse("  a = 1 ;  b =  2  ")
	want := []Entry{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected %v, got %v", want, entries)
	}
}

func TestParse_SplitsAtFirstEquals(t *testing.T) {
	entries := Parse("token=abc=def")
	want := []Entry{{Name: "token", Value: "abc=def"}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected %v, got %v", want, entries)
	}
}

func TestParse_SkipsSegmentWithoutEquals(t *testing.T) {
	entries := Parse("a=1; junk; b=2")
	want := []Entry{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected %v, got %v", want, entries)
	}
}

func TestParse_SkipsEmptySegments(t *testing.T) {
	entries := Parse("a=1;; b=2;")
	want := []Entry{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected %v, got %v", want, entries)
	}
}

func TestParse_EmptyValue(t *testing.T) {
	entries := Parse("a=")
	want := []Entry{{Name: "a", Value: ""}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("expected %v, got %v", want, entries)
	}
}

func TestStringify_Basic(t *testing.T) {
	line := Stringify([]Entry{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}})
	if line != "a=1; b=2" {
		t.Errorf("expected %q, got %q", "a=1; b=2", line)
	}
}

func TestStringify_Empty(t *testing.T) {
	if line := Stringify(nil); line != "" {
		t.Errorf("expected empty line, got %q", line)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	sequences := [][]Entry{
		{{Name: "a", Value: "1"}},
		{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}, {Name: "c", Value: "3"}},
		{{Name: "session", Value: "abc=def"}},
		{{Name: "empty", Value: ""}, {Name: "x", Value: "y"}},
	}

	for _, entries := range sequences {
		got := Parse(Stringify(entries))
		if !reflect.DeepEqual(got, entries) {
			t.Errorf("round trip failed: %v -> %v", entries, got)
		}
	}
}
