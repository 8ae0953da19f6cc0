package font

import (
	"strings"

	"github.com/tsawler/pagina/core"
)

// Resolver chases indirect references while a font dictionary is loaded.
type Resolver interface {
	Resolve(core.Object) (core.Object, error)
}

// flagForceBold is bit 19 of the font descriptor /Flags value.
const flagForceBold = 1 << 18

// boldMarkers are the face-name fragments that indicate a bold weight when
// the descriptor flags are absent or unset.
var boldMarkers = []string{"bold", "black", "heavy"}

// Font is the extraction view of one font resource.
type Font struct {
	Name     string // resource name the content stream selects, e.g. F1
	BaseFont string
	Subtype  string
	Bold     bool

	composite bool
	toUnicode *CMap

	firstChar int
	widths    []float64       // simple fonts, glyph units, indexed from firstChar
	cidWidths map[uint32]float64 // composite fonts, keyed by CID
	defaultW  float64
}

// Load builds a Font from a font dictionary. Missing optional entries
// degrade to defaults; only a completely unusable dictionary is an error.
func Load(name string, dict core.Dict, res Resolver) (*Font, error) {
	f := &Font{
		Name:     name,
		defaultW: 500,
	}
	f.Subtype, _ = dict.Name("Subtype")
	f.BaseFont, _ = dict.Name("BaseFont")
	f.composite = f.Subtype == "Type0"

	f.Bold = nameIsBold(f.BaseFont)

	if cmObj, err := resolve(res, dict.Get("ToUnicode")); err == nil {
		if stm, ok := cmObj.(*core.Stream); ok {
			if cm, err := ParseToUnicode(stm); err == nil {
				f.toUnicode = cm
			}
		}
	}

	if f.composite {
		f.defaultW = 1000
		f.loadCIDWidths(dict, res)
	} else {
		f.loadSimpleWidths(dict, res)
	}

	if desc, ok := descriptor(dict, res); ok {
		if flags, ok := desc.Int("Flags"); ok && flags&flagForceBold != 0 {
			f.Bold = true
		}
		if !f.Bold {
			if face, ok := desc.Name("FontName"); ok {
				f.Bold = nameIsBold(face)
			}
		}
		if mw, ok := desc.Number("MissingWidth"); ok && mw > 0 {
			f.defaultW = mw
		}
	}

	return f, nil
}

func nameIsBold(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range boldMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func resolve(res Resolver, obj core.Object) (core.Object, error) {
	if res == nil {
		return obj, nil
	}
	return res.Resolve(obj)
}

// descriptor returns the font descriptor, looking through the descendant
// font for composite fonts.
func descriptor(dict core.Dict, res Resolver) (core.Dict, bool) {
	obj, err := resolve(res, dict.Get("FontDescriptor"))
	if err == nil {
		if d, ok := obj.(core.Dict); ok {
			return d, true
		}
	}
	if desc, ok := descendant(dict, res); ok {
		obj, err := resolve(res, desc.Get("FontDescriptor"))
		if err == nil {
			if d, ok := obj.(core.Dict); ok {
				return d, true
			}
		}
	}
	return nil, false
}

// descendant returns the CIDFont dictionary of a Type0 font.
func descendant(dict core.Dict, res Resolver) (core.Dict, bool) {
	obj, err := resolve(res, dict.Get("DescendantFonts"))
	if err != nil {
		return nil, false
	}
	arr, ok := obj.(core.Array)
	if !ok || len(arr) == 0 {
		return nil, false
	}
	inner, err := resolve(res, arr[0])
	if err != nil {
		return nil, false
	}
	d, ok := inner.(core.Dict)
	return d, ok
}

func (f *Font) loadSimpleWidths(dict core.Dict, res Resolver) {
	fc, ok := dict.Int("FirstChar")
	if !ok {
		return
	}
	obj, err := resolve(res, dict.Get("Widths"))
	if err != nil {
		return
	}
	arr, ok := obj.(core.Array)
	if !ok {
		return
	}

	f.firstChar = fc
	f.widths = make([]float64, len(arr))
	for i, elem := range arr {
		resolved, err := resolve(res, elem)
		if err != nil {
			continue
		}
		if v, ok := core.Numeric(resolved); ok {
			f.widths[i] = v
		}
	}
}

// loadCIDWidths reads the /W array of the descendant CIDFont. The array
// alternates between two forms: "c [w1 w2 ...]" assigns consecutive widths
// starting at CID c, and "cFirst cLast w" assigns one width to a CID range.
func (f *Font) loadCIDWidths(dict core.Dict, res Resolver) {
	desc, ok := descendant(dict, res)
	if !ok {
		return
	}
	if dw, ok := desc.Number("DW"); ok && dw > 0 {
		f.defaultW = dw
	}

	obj, err := resolve(res, desc.Get("W"))
	if err != nil {
		return
	}
	arr, ok := obj.(core.Array)
	if !ok {
		return
	}

	f.cidWidths = make(map[uint32]float64)
	for i := 0; i < len(arr); {
		first, ok := core.Numeric(arr[i])
		if !ok {
			return
		}
		i++
		if i >= len(arr) {
			return
		}

		switch next := arr[i].(type) {
		case core.Array:
			for j, w := range next {
				if v, ok := core.Numeric(w); ok {
					f.cidWidths[uint32(first)+uint32(j)] = v
				}
			}
			i++

		default:
			last, ok := core.Numeric(next)
			if !ok {
				return
			}
			i++
			if i >= len(arr) {
				return
			}
			w, ok := core.Numeric(arr[i])
			if !ok {
				return
			}
			i++
			for cid := uint32(first); cid <= uint32(last); cid++ {
				f.cidWidths[cid] = w
			}
		}
	}
}

// Composite reports whether show strings address glyphs with 2-byte codes.
func (f *Font) Composite() bool { return f.composite }

// Width returns the advance width of a character code in glyph units
// (thousandths of the em).
func (f *Font) Width(code uint32) float64 {
	if f.composite {
		if w, ok := f.cidWidths[code]; ok {
			return w
		}
		return f.defaultW
	}
	idx := int(code) - f.firstChar
	if idx >= 0 && idx < len(f.widths) && f.widths[idx] > 0 {
		return f.widths[idx]
	}
	return f.defaultW
}

// Decode converts show-string bytes to Unicode text. The /ToUnicode map is
// authoritative when present; without one, simple fonts fall back to Latin-1
// and composite fonts to the raw big-endian code points.
func (f *Font) Decode(data []byte) string {
	if f.toUnicode != nil {
		return f.toUnicode.Decode(data, f.codeLen())
	}

	var sb strings.Builder
	if f.composite {
		for i := 0; i+1 < len(data); i += 2 {
			code := rune(data[i])<<8 | rune(data[i+1])
			sb.WriteRune(code)
		}
		return sb.String()
	}
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

// Codes returns the character codes of a show string in order, honoring the
// font's code width. Used for advance computation.
func (f *Font) Codes(data []byte) []uint32 {
	if f.composite {
		codes := make([]uint32, 0, len(data)/2)
		for i := 0; i+1 < len(data); i += 2 {
			codes = append(codes, uint32(data[i])<<8|uint32(data[i+1]))
		}
		return codes
	}
	codes := make([]uint32, len(data))
	for i, b := range data {
		codes[i] = uint32(b)
	}
	return codes
}

func (f *Font) codeLen() int {
	if f.toUnicode != nil {
		if n := f.toUnicode.CodeLen(); n > 0 {
			return n
		}
	}
	if f.composite {
		return 2
	}
	return 1
}
