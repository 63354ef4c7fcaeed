package jarz

// Accessor adapts a Mirror to a host object's property getter/setter pair.
// Go has no dynamic property interception, so the embedding layer routes the
// host's reads and writes through Get and Set; both follow the Mirror's
// synchronous accessor contracts.
type Accessor struct {
	m *Mirror
}

// Accessor returns the host accessor adapter for this Mirror.
func (m *Mirror) Accessor() *Accessor {
	return &Accessor{m: m}
}

// Get returns the current cookie line. Property getter contract: synchronous,
// no side effects.
func (a *Accessor) Get() string {
	return a.m.Read()
}

// Set merges a raw cookie line into the mirror and returns the merged
// aggregate. Property setter contract: synchronous, never fails; unparseable
// input leaves the line unchanged.
func (a *Accessor) Set(raw string) string {
	return a.m.Write(raw)
}
