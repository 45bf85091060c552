package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Codec is the pdfcpu-backed PDF codec. It parses source buffers, copies
// single pages out of them and merges page buffers into one document. All
// operations are in-memory; nothing touches the filesystem.
type Codec struct {
	conf *model.Configuration
}

// NewCodec returns a codec with default pdfcpu configuration.
func NewCodec() *Codec {
	return &Codec{conf: model.NewDefaultConfiguration()}
}

// PageCount validates data as a PDF and returns its page count.
func (c *Codec) PageCount(data []byte) (int, error) {
	doc, err := c.Open(data)
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// Open parses data into a reusable document handle. The handle keeps the
// parsed cross-reference table so repeated page extractions do not re-read
// the source bytes.
func (c *Codec) Open(data []byte) (*Document, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), c.conf)
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	return &Document{ctx: ctx}, nil
}

// Merge concatenates the given single- or multi-page PDF buffers into one
// document, preserving input order.
func (c *Codec) Merge(pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("merge: no input documents")
	}
	if len(pages) == 1 {
		return pages[0], nil
	}
	readers := make([]io.ReadSeeker, len(pages))
	for i, data := range pages {
		readers[i] = bytes.NewReader(data)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return out.Bytes(), nil
}

// Document is a parsed source PDF.
type Document struct {
	ctx *model.Context
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// ExtractPage copies the zero-based page pageIndex into a fresh one-page
// document and returns its bytes. rotation (degrees, multiple of 90) is
// added to the page's inherited rotation; 0 leaves the page untouched.
func (d *Document) ExtractPage(pageIndex, rotation int) ([]byte, error) {
	if pageIndex < 0 || pageIndex >= d.ctx.PageCount {
		return nil, fmt.Errorf("page index %d out of range (document has %d pages)", pageIndex, d.ctx.PageCount)
	}

	pageCtx, err := pdfcpu.ExtractPages(d.ctx, []int{pageIndex + 1}, false)
	if err != nil {
		return nil, fmt.Errorf("extract page %d: %w", pageIndex, err)
	}
	if err := pageCtx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("extract page %d: %w", pageIndex, err)
	}

	if rotation != 0 {
		pageDict, _, inh, err := pageCtx.PageDict(1, false)
		if err != nil {
			return nil, fmt.Errorf("page dict: %w", err)
		}
		if pageDict == nil {
			return nil, fmt.Errorf("extract page %d: missing page dict", pageIndex)
		}
		// Rotation set on the page dict overrides anything inherited
		// from the page tree.
		rot := ((inh.Rotate+rotation)%360 + 360) % 360
		pageDict["Rotate"] = types.Integer(rot)
	}

	var out bytes.Buffer
	if err := api.WriteContext(pageCtx, &out); err != nil {
		return nil, fmt.Errorf("write page %d: %w", pageIndex, err)
	}
	return out.Bytes(), nil
}
