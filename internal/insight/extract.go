package insight

import (
	"fmt"
	"strings"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// SampleText extracts representative text from an in-memory PDF: up to
// maxPages pages spread evenly across the document, capped at maxChars
// runes. Pages that fail to extract are skipped, not fatal.
func SampleText(data []byte, maxPages, maxChars int) (string, error) {
	if maxPages <= 0 {
		maxPages = 5
	}
	if maxChars <= 0 {
		maxChars = 6000
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("open pdf for text extraction: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total <= 0 {
		return "", fmt.Errorf("document has no pages")
	}

	var b strings.Builder
	for _, idx := range sampleIndices(total, maxPages) {
		text, err := doc.Text(idx)
		if err != nil {
			log.Warn().Err(err).Int("page", idx+1).Msg("text extraction failed for page")
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
		if b.Len() >= maxChars {
			break
		}
	}

	out := b.String()
	if len([]rune(out)) > maxChars {
		out = string([]rune(out)[:maxChars])
	}
	log.Debug().Int("pages", total).Int("chars", len(out)).Msg("sampled document text")
	return out, nil
}

// sampleIndices picks up to max zero-based page indices spread evenly
// across the document, always including the first page.
func sampleIndices(total, max int) []int {
	if total <= max {
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, 0, max)
	step := float64(total-1) / float64(max-1)
	last := -1
	for i := 0; i < max; i++ {
		p := int(float64(i) * step)
		if p != last {
			idx = append(idx, p)
			last = p
		}
	}
	return idx
}
