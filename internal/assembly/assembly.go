package assembly

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/pagedeck/internal/metrics"
	"github.com/local/pagedeck/internal/workspace"
)

// Document is a parsed source PDF the engine copies pages out of.
type Document interface {
	ExtractPage(pageIndex, rotation int) ([]byte, error)
}

// Codec is the PDF capability the engine consumes.
type Codec interface {
	Open(data []byte) (Document, error)
	Merge(pages [][]byte) ([]byte, error)
}

// AssemblyError marks an invariant violation surfaced while materializing
// output: a dangling source reference or an out-of-range page index. Those
// indicate a model bug, so they fail the export instead of skipping pages.
type AssemblyError struct {
	PageRef string
	Err     error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble page ref %s: %v", e.PageRef, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// Engine materializes workspace snapshots into output PDF bytes.
type Engine struct {
	codec Codec
}

// New returns an engine backed by the given codec.
func New(codec Codec) *Engine {
	return &Engine{codec: codec}
}

// Merge produces one document containing every referenced page in sequence
// order, each with its stored rotation applied. Every source is parsed at
// most once per call regardless of how many references point at it; the
// parse cache lives only for the duration of the call.
func (e *Engine) Merge(ctx context.Context, snap workspace.Snapshot) ([]byte, error) {
	start := time.Now()
	pages, err := e.extractAll(ctx, snap)
	if err != nil {
		return nil, err
	}
	out, err := e.codec.Merge(pages)
	if err != nil {
		return nil, &AssemblyError{PageRef: "merge", Err: err}
	}
	metrics.ObserveAssembly("merge", len(pages), time.Since(start))
	log.Info().Int("pages", len(pages)).Int("bytes", len(out)).Dur("duration", time.Since(start)).Msg("merged workspace")
	return out, nil
}

// SplitAll produces one single-page document per reference, in sequence
// order. Rotation is applied the same way Merge applies it, so a split
// export never disagrees with a merged one.
func (e *Engine) SplitAll(ctx context.Context, snap workspace.Snapshot) ([][]byte, error) {
	start := time.Now()
	pages, err := e.extractAll(ctx, snap)
	if err != nil {
		return nil, err
	}
	metrics.ObserveAssembly("split", len(pages), time.Since(start))
	log.Info().Int("pages", len(pages)).Dur("duration", time.Since(start)).Msg("split workspace")
	return pages, nil
}

// extractAll copies every referenced page into its own buffer, resolving
// each source through an operation-scoped parse cache.
func (e *Engine) extractAll(ctx context.Context, snap workspace.Snapshot) ([][]byte, error) {
	if len(snap.Pages) == 0 {
		return nil, &AssemblyError{PageRef: "-", Err: fmt.Errorf("empty page sequence")}
	}

	// Parse cache for this call only; discarded on return.
	docs := make(map[string]Document, len(snap.Sources))

	out := make([][]byte, 0, len(snap.Pages))
	for _, ref := range snap.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, ok := docs[ref.SourceID]
		if !ok {
			src, found := snap.Sources[ref.SourceID]
			if !found {
				return nil, &AssemblyError{PageRef: ref.ID, Err: fmt.Errorf("source %s not in registry", ref.SourceID)}
			}
			var err error
			doc, err = e.codec.Open(src.Data)
			if err != nil {
				return nil, &AssemblyError{PageRef: ref.ID, Err: err}
			}
			docs[ref.SourceID] = doc
		}
		page, err := doc.ExtractPage(ref.PageIndex, ref.Rotation)
		if err != nil {
			return nil, &AssemblyError{PageRef: ref.ID, Err: err}
		}
		out = append(out, page)
	}
	return out, nil
}
