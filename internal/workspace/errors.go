package workspace

import "fmt"

// LoadError reports a source buffer the codec could not parse as a PDF.
// It is scoped to the one offending file; the rest of an upload batch
// and the existing workspace state are unaffected.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RangeError reports invalid index arguments to a mutation. This is a
// UI-contract violation and fails loudly instead of clamping.
type RangeError struct {
	Op     string
	From   int
	To     int
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: index out of range [from=%d to=%d len=%d]", e.Op, e.From, e.To, e.Length)
}

// BusyError rejects a long-running operation while another one is in flight.
type BusyError struct {
	Active string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("workspace busy: %s in progress", e.Active)
}
