package model

// AlphaUnknown is the Alpha value for images whose transparency could not be
// determined. Unknown alpha never satisfies the watermark transparency test.
const AlphaUnknown = -1

// Image is one embedded raster image extracted from a page. The payload keeps
// the bytes as they will be emitted (JPEG data verbatim, everything else
// re-encoded to PNG) so the assembler can base64-embed Data directly.
//
// Diagram and Watermark are set by a post-processing pass over the whole
// image population, after every page has been extracted; they are the only
// fields written after extraction, and only before the record reaches the
// assembler.
type Image struct {
	Page      int // 0-based page index
	Index     int // position within the page's XObject enumeration
	Data      []byte
	Format    string // "png" or "jpeg"
	Width     int    // pixel width of the stored payload
	Height    int    // pixel height
	Rect      Rect   // rectangle the image is drawn into, page space
	AreaRatio float64
	Alpha     float64 // mean alpha 0..255, or AlphaUnknown
	Hash      string  // content hash of the raw payload bytes
	Diagram   bool
	Watermark bool
}

// Translucent reports whether the image has a known mean alpha below the
// given threshold.
func (im *Image) Translucent(threshold float64) bool {
	return im.Alpha != AlphaUnknown && im.Alpha < threshold
}
