package jarz

import "testing"

func TestAccessor_GetAndSet(t *testing.T) {
	store := &fakeStore{}
	m, _ := startedMirror(t, "a=1", store)

	accessor := m.Accessor()

	if got := accessor.Get(); got != "a=1" {
		t.Errorf("expected %q, got %q", "a=1", got)
	}

	if got := accessor.Set("b=2"); got != "a=1; b=2" {
		t.Errorf("expected setter to return merged aggregate, got %q", got)
	}
	if got := accessor.Get(); got != "a=1; b=2" {
		t.Errorf("expected %q, got %q", "a=1; b=2", got)
	}
}

func TestAccessor_SetNeverFails(t *testing.T) {
	store := &fakeStore{}
	m, _ := startedMirror(t, "a=1", store)

	if got := m.Accessor().Set("garbage-with-no-equals"); got != "a=1" {
		t.Errorf("expected unchanged line, got %q", got)
	}
}
