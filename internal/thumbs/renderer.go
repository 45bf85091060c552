package thumbs

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"

	"github.com/local/pagedeck/internal/metrics"
)

// Renderer rasterizes single PDF pages to JPEG previews using go-fitz.
type Renderer struct {
	dpi     int
	quality int
}

// NewRenderer returns a renderer with the given DPI and JPEG quality.
func NewRenderer(dpi, quality int) *Renderer {
	if dpi <= 0 {
		dpi = 72
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Renderer{dpi: dpi, quality: quality}
}

// Render rasterizes the zero-based page pageIndex of the in-memory PDF and
// returns JPEG bytes. rotation (degrees, multiple of 90) turns the rendered
// image so previews match assembled output.
func (r *Renderer) Render(data []byte, pageIndex, rotation int) ([]byte, error) {
	start := time.Now()

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf for render: %w", err)
	}
	defer doc.Close()

	if pageIndex < 0 || pageIndex >= doc.NumPage() {
		return nil, fmt.Errorf("render page %d out of range (document has %d pages)", pageIndex, doc.NumPage())
	}

	img, err := doc.ImageDPI(pageIndex, float64(r.dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageIndex, err)
	}

	final := rotateQuarter(img, rotation)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, final, &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	metrics.ObserveRender(time.Since(start))
	log.Debug().
		Int("page", pageIndex).
		Int("rotation", rotation).
		Int("jpeg_size", buf.Len()).
		Int("dpi", r.dpi).
		Dur("duration", time.Since(start)).
		Msg("rendered page thumbnail")
	return buf.Bytes(), nil
}

// rotateQuarter returns img turned clockwise by rotation degrees.
// Only quarter turns occur in the workspace model; anything else
// falls through unrotated.
func rotateQuarter(img image.Image, rotation int) image.Image {
	rotation = ((rotation % 360) + 360) % 360
	if rotation == 0 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	switch rotation {
	case 90:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(h-1-y, x, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	case 180:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(w-1-x, h-1-y, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	case 270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Set(y, w-1-x, img.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	default:
		return img
	}
	return dst
}
