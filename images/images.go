// Package images classifies a document's extracted images. Classification is
// a whole-population pass rather than a per-image one because its strongest
// signal is recurrence: a watermark is the same bitmap stamped on page after
// page, which no single page can see.
package images

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/tsawler/pagina/model"
)

const (
	// diagramMinWidth and diagramMinHeight split figures from decorations:
	// an image drawn this large is treated as a diagram.
	diagramMinWidth  = 400.0
	diagramMinHeight = 300.0

	// watermarkMinRepeats is the smallest hash recurrence that can mark a
	// watermark; short documents use it directly, long documents raise it
	// to watermarkPageShare of the page count.
	watermarkMinRepeats = 3
	watermarkPageShare  = 0.3

	// translucentAlpha is the mean alpha below which an image counts as
	// see-through.
	translucentAlpha = 220

	// watermarkMinArea and watermarkMaxArea bound the page share a stamped
	// watermark typically covers. Full-page backgrounds and tiny logos fall
	// outside.
	watermarkMinArea = 0.03
	watermarkMaxArea = 0.6
)

// Classify hashes every image and sets the Diagram and Watermark flags over
// a fresh copy of the population; the input slice is never modified. An image
// is a diagram when it is drawn wider than 400 points or taller than 300. It
// is a watermark when its payload recurs on at least max(3, 30% of pages)
// pages and it either has a known mean alpha below 220 or covers between 3%
// and 60% of its page.
//
// Watermarked images stay in the result so callers can still list them; the
// assembler excludes them from the output document.
func Classify(imgs []model.Image, pageCount int) []model.Image {
	if len(imgs) == 0 {
		return nil
	}
	out := make([]model.Image, len(imgs))
	copy(out, imgs)

	counts := make(map[string]int, len(out))
	for i := range out {
		if out[i].Hash == "" {
			sum := sha1.Sum(out[i].Data)
			out[i].Hash = hex.EncodeToString(sum[:])
		}
		counts[out[i].Hash]++
	}

	needed := watermarkMinRepeats
	if scaled := int(watermarkPageShare * float64(pageCount)); scaled > needed {
		needed = scaled
	}

	for i := range out {
		img := &out[i]
		img.Diagram = img.Rect.Width() > diagramMinWidth || img.Rect.Height() > diagramMinHeight

		if counts[img.Hash] < needed {
			img.Watermark = false
			continue
		}
		img.Watermark = img.Translucent(translucentAlpha) ||
			(img.AreaRatio >= watermarkMinArea && img.AreaRatio <= watermarkMaxArea)
	}
	return out
}
