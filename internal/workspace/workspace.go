package workspace

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Codec is the PDF parsing capability the workspace needs when loading a
// source: validate the bytes and report the page count.
type Codec interface {
	PageCount(data []byte) (int, error)
}

// SourceDocument is one uploaded PDF. Data is never mutated after load and
// is referenced, not copied, by any number of page references.
type SourceDocument struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Data      []byte `json:"-"`
	PageCount int    `json:"page_count"`
}

// PageReference is one slot in the user-visible page sequence. Its ID stays
// stable across reorders so the UI and the thumbnail cache can track a slot.
type PageReference struct {
	ID        string `json:"id"`
	SourceID  string `json:"source_id"`
	PageIndex int    `json:"page_index"`
	Rotation  int    `json:"rotation"`
}

// Snapshot is a point-in-time copy of the sequence plus the registry,
// handed to the assembly engine and other read-only consumers.
type Snapshot struct {
	Pages   []PageReference
	Sources map[string]*SourceDocument
}

// Workspace owns the ordered page sequence and the source registry. All
// mutation goes through its methods; the internal mutex serializes writers
// so two racing UI mutations can never interleave.
type Workspace struct {
	codec Codec

	mu      sync.Mutex
	pages   []*PageReference
	sources map[string]*SourceDocument
	busyOp  string
	insight string
}

// New returns an empty workspace backed by the given codec.
func New(codec Codec) *Workspace {
	return &Workspace{
		codec:   codec,
		sources: make(map[string]*SourceDocument),
	}
}

// AddSource parses data through the codec and, on success, registers the
// source and appends one page reference per page (ascending page order) to
// the end of the sequence. The parse runs outside the lock so concurrent
// uploads only serialize on the final append; each file's page block lands
// atomically.
func (w *Workspace) AddSource(data []byte, name string) (*SourceDocument, error) {
	if len(data) == 0 {
		return nil, &LoadError{Name: name, Err: errors.New("empty file")}
	}
	count, err := w.codec.PageCount(data)
	if err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}
	if count <= 0 {
		return nil, &LoadError{Name: name, Err: errors.New("document has no pages")}
	}

	doc := &SourceDocument{
		ID:        uuid.NewString(),
		Name:      name,
		Size:      int64(len(data)),
		Data:      data,
		PageCount: count,
	}

	w.mu.Lock()
	w.sources[doc.ID] = doc
	for i := 0; i < count; i++ {
		w.pages = append(w.pages, &PageReference{
			ID:        uuid.NewString(),
			SourceID:  doc.ID,
			PageIndex: i,
		})
	}
	total := len(w.pages)
	w.mu.Unlock()

	log.Info().
		Str("source_id", doc.ID).
		Str("name", name).
		Int("pages", count).
		Int("sequence_len", total).
		Msg("source added")
	return doc, nil
}

// RemovePage drops the page reference with the given id. Absent ids are a
// no-op so retries and races stay idempotent. The source document is never
// touched; its bytes stay in the registry until Clear.
func (w *Workspace) RemovePage(pageRefID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, p := range w.pages {
		if p.ID == pageRefID {
			w.pages = append(w.pages[:i], w.pages[i+1:]...)
			log.Debug().Str("page_ref", pageRefID).Int("sequence_len", len(w.pages)).Msg("page removed")
			return
		}
	}
}

// RotatePage adds delta degrees to the reference's rotation, normalized to
// {0,90,180,270}. Absent ids are a no-op. Deltas that are not a multiple of
// 90 are a contract violation.
func (w *Workspace) RotatePage(pageRefID string, delta int) error {
	if delta%90 != 0 {
		return &RangeError{Op: "rotate", From: delta, Length: 360}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.pages {
		if p.ID == pageRefID {
			p.Rotation = ((p.Rotation+delta)%360 + 360) % 360
			log.Debug().Str("page_ref", pageRefID).Int("rotation", p.Rotation).Msg("page rotated")
			return nil
		}
	}
	return nil
}

// Reorder moves the element at from to position to. Both indices must be in
// [0, len); from == to leaves the sequence unchanged.
func (w *Workspace) Reorder(from, to int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.pages)
	if from < 0 || from >= n || to < 0 || to >= n {
		return &RangeError{Op: "reorder", From: from, To: to, Length: n}
	}
	if from == to {
		return nil
	}
	p := w.pages[from]
	w.pages = append(w.pages[:from], w.pages[from+1:]...)
	w.pages = append(w.pages[:to], append([]*PageReference{p}, w.pages[to:]...)...)
	log.Debug().Int("from", from).Int("to", to).Msg("page reordered")
	return nil
}

// Clear resets the workspace to empty, releasing all source buffers.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pages = nil
	w.sources = make(map[string]*SourceDocument)
	w.insight = ""
	log.Info().Msg("workspace cleared")
}

// Snapshot returns a copy of the sequence and the registry. Page references
// are copied by value; source documents are shared (their bytes are
// read-only), so concurrent readers are safe.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	pages := make([]PageReference, len(w.pages))
	for i, p := range w.pages {
		pages[i] = *p
	}
	sources := make(map[string]*SourceDocument, len(w.sources))
	for id, d := range w.sources {
		sources[id] = d
	}
	return Snapshot{Pages: pages, Sources: sources}
}

// Page returns a value copy of the reference with the given id.
func (w *Workspace) Page(pageRefID string) (PageReference, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.pages {
		if p.ID == pageRefID {
			return *p, true
		}
	}
	return PageReference{}, false
}

// Source resolves a source document by id.
func (w *Workspace) Source(sourceID string) (*SourceDocument, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, ok := w.sources[sourceID]
	return d, ok
}

// Len reports the current sequence length.
func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pages)
}

// TryBegin marks the start of a long-running operation (upload, merge,
// split, insight). It fails with a BusyError while another one is active;
// callers must End on every terminating path so the workspace never sticks
// in a processing state.
func (w *Workspace) TryBegin(op string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busyOp != "" {
		return &BusyError{Active: w.busyOp}
	}
	w.busyOp = op
	return nil
}

// End clears the processing flag.
func (w *Workspace) End() {
	w.mu.Lock()
	w.busyOp = ""
	w.mu.Unlock()
}

// Busy reports the active long-running operation, if any.
func (w *Workspace) Busy() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busyOp, w.busyOp != ""
}

// SetInsight records the last advisory text produced for this workspace.
func (w *Workspace) SetInsight(text string) {
	w.mu.Lock()
	w.insight = text
	w.mu.Unlock()
}

// Insight returns the last advisory text.
func (w *Workspace) Insight() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.insight
}
