package reader

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"

	"github.com/tsawler/pagina/core"
	"github.com/tsawler/pagina/pages"
)

// XImage is an image XObject pulled from a page, re-encoded for embedding.
// Raster data becomes PNG; JPEG payloads pass through as-is.
type XImage struct {
	Name   string
	Data   []byte
	Format string // "png" or "jpeg"
	Width  int
	Height int
	Alpha  int // mean soft-mask alpha 0..255; 255 without a mask; -1 unknown
}

// maxFormDepth bounds recursion through nested form XObjects.
const maxFormDepth = 8

// ExtractImages collects every image XObject reachable from the page's
// resources, recursing through form XObjects. Images that cannot be decoded
// are skipped and reported in the error list; the page itself never fails.
func (r *Reader) ExtractImages(page *pages.Page) ([]XImage, []error) {
	var imgs []XImage
	var errs []error
	r.collectImages(page.XObjects(), &imgs, &errs, map[core.Ref]bool{}, 0)
	return imgs, errs
}

func (r *Reader) collectImages(xobjs core.Dict, imgs *[]XImage, errs *[]error, seen map[core.Ref]bool, depth int) {
	if xobjs == nil || depth > maxFormDepth {
		return
	}

	names := make([]string, 0, len(xobjs))
	for name := range xobjs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := xobjs[name]
		if ref, isRef := entry.(core.Ref); isRef {
			if seen[ref] {
				continue
			}
			seen[ref] = true
		}
		obj, err := r.Resolve(entry)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("xobject %s: %w", name, err))
			continue
		}
		stm, ok := obj.(*core.Stream)
		if !ok {
			continue
		}

		switch subtype, _ := stm.Dict.Name("Subtype"); subtype {
		case "Image":
			img, err := r.extractImage(name, stm)
			if err != nil {
				*errs = append(*errs, fmt.Errorf("image %s: %w", name, err))
				continue
			}
			*imgs = append(*imgs, img)

		case "Form":
			resObj, err := r.Resolve(stm.Dict.Get("Resources"))
			if err != nil {
				continue
			}
			res, ok := resObj.(core.Dict)
			if !ok {
				continue
			}
			nestedObj, err := r.Resolve(res.Get("XObject"))
			if err != nil {
				continue
			}
			if nested, ok := nestedObj.(core.Dict); ok {
				r.collectImages(nested, imgs, errs, seen, depth+1)
			}
		}
	}
}

// extractImage decodes one image XObject and re-encodes it for output.
func (r *Reader) extractImage(name string, stm *core.Stream) (XImage, error) {
	width, wok := stm.Dict.Int("Width")
	height, hok := stm.Dict.Int("Height")
	if !wok || !hok || width <= 0 || height <= 0 {
		return XImage{}, fmt.Errorf("missing or invalid dimensions")
	}

	img := XImage{Name: name, Width: width, Height: height, Alpha: 255}

	alpha, mask := r.softMask(stm.Dict)
	img.Alpha = alpha

	// JPEG payloads are already in a browser-ready format.
	if final := finalFilter(stm); final == "DCTDecode" || final == "DCT" {
		data, err := stm.Decode()
		if err != nil {
			return XImage{}, err
		}
		img.Data = data
		img.Format = "jpeg"
		return img, nil
	} else if final == "JPXDecode" {
		return XImage{}, fmt.Errorf("JPEG 2000 payloads are not supported")
	}

	samples, err := stm.Decode()
	if err != nil {
		return XImage{}, err
	}

	goImg, err := r.rasterize(stm.Dict, samples, width, height, mask)
	if err != nil {
		return XImage{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return XImage{}, fmt.Errorf("png encode: %w", err)
	}
	img.Data = buf.Bytes()
	img.Format = "png"
	return img, nil
}

func finalFilter(stm *core.Stream) string {
	names := stm.FilterNames()
	if len(names) == 0 {
		return ""
	}
	return names[len(names)-1]
}

// softMask loads the image's /SMask and returns the mean alpha plus the
// per-pixel mask samples when they are usable. Without a mask the image is
// opaque; a mask that fails to decode reports alpha as unknown.
func (r *Reader) softMask(dict core.Dict) (int, *maskData) {
	if !dict.Has("SMask") {
		return 255, nil
	}
	obj, err := r.Resolve(dict.Get("SMask"))
	if err != nil {
		return -1, nil
	}
	stm, ok := obj.(*core.Stream)
	if !ok {
		return 255, nil
	}

	if bpc, _ := stm.Dict.Int("BitsPerComponent"); bpc != 8 {
		return -1, nil
	}
	samples, err := stm.Decode()
	if err != nil || len(samples) == 0 {
		return -1, nil
	}

	var sum int64
	for _, s := range samples {
		sum += int64(s)
	}
	mean := int(sum / int64(len(samples)))

	w, _ := stm.Dict.Int("Width")
	h, _ := stm.Dict.Int("Height")
	if w > 0 && h > 0 && len(samples) >= w*h {
		return mean, &maskData{samples: samples, width: w, height: h}
	}
	return mean, nil
}

type maskData struct {
	samples []byte
	width   int
	height  int
}

// at returns the mask alpha for a pixel, nearest-sampled when the mask and
// image dimensions differ.
func (m *maskData) at(x, y, imgW, imgH int) byte {
	mx, my := x, y
	if m.width != imgW || m.height != imgH {
		mx = x * m.width / imgW
		my = y * m.height / imgH
	}
	return m.samples[my*m.width+mx]
}

// rasterize turns decoded samples into a Go image according to the image
// dictionary's color space and bit depth.
func (r *Reader) rasterize(dict core.Dict, samples []byte, width, height int, mask *maskData) (image.Image, error) {
	bpc, ok := dict.Int("BitsPerComponent")
	if !ok {
		bpc = 8
	}
	if isMask, _ := dict.Bool("ImageMask"); isMask {
		bpc = 1
	}

	cs, err := r.imageColorSpace(dict)
	if err != nil {
		return nil, err
	}

	invert := decodeInverts(dict)

	switch {
	case cs.palette != nil:
		return rasterIndexed(samples, width, height, bpc, cs.palette, mask)
	case cs.components == 1:
		return rasterGray(samples, width, height, bpc, invert, mask)
	case cs.components == 3 && bpc == 8:
		return rasterRGB(samples, width, height, mask)
	case cs.components == 4 && bpc == 8:
		return rasterCMYK(samples, width, height, mask)
	default:
		return nil, fmt.Errorf("%d components at %d bits per component is not supported", cs.components, bpc)
	}
}

type colorSpaceInfo struct {
	components int
	palette    []byte // flattened RGB triples for indexed spaces
}

// imageColorSpace reduces an image's /ColorSpace entry to a component count,
// materializing the palette for indexed spaces.
func (r *Reader) imageColorSpace(dict core.Dict) (colorSpaceInfo, error) {
	if isMask, _ := dict.Bool("ImageMask"); isMask {
		return colorSpaceInfo{components: 1}, nil
	}

	obj, err := r.Resolve(dict.Get("ColorSpace"))
	if err != nil {
		return colorSpaceInfo{}, err
	}
	return r.reduceColorSpace(obj)
}

func (r *Reader) reduceColorSpace(obj core.Object) (colorSpaceInfo, error) {
	switch v := obj.(type) {
	case core.Null:
		return colorSpaceInfo{components: 1}, nil

	case core.Name:
		switch string(v) {
		case "DeviceGray", "CalGray", "G":
			return colorSpaceInfo{components: 1}, nil
		case "DeviceRGB", "CalRGB", "RGB":
			return colorSpaceInfo{components: 3}, nil
		case "DeviceCMYK", "CMYK":
			return colorSpaceInfo{components: 4}, nil
		default:
			return colorSpaceInfo{}, fmt.Errorf("color space /%s is not supported", v)
		}

	case core.Array:
		if len(v) == 0 {
			return colorSpaceInfo{components: 1}, nil
		}
		name, _ := v[0].(core.Name)
		switch string(name) {
		case "ICCBased":
			if len(v) > 1 {
				if sObj, err := r.Resolve(v[1]); err == nil {
					if stm, ok := sObj.(*core.Stream); ok {
						if n, ok := stm.Dict.Int("N"); ok {
							return colorSpaceInfo{components: n}, nil
						}
					}
				}
			}
			return colorSpaceInfo{components: 3}, nil
		case "Indexed", "I":
			return r.indexedPalette(v)
		case "Separation", "DeviceN":
			return colorSpaceInfo{components: 1}, nil
		default:
			return colorSpaceInfo{}, fmt.Errorf("color space /%s is not supported", name)
		}

	default:
		return colorSpaceInfo{}, fmt.Errorf("color space is %T", obj)
	}
}

// indexedPalette expands an [/Indexed base hival lookup] space into RGB
// triples.
func (r *Reader) indexedPalette(arr core.Array) (colorSpaceInfo, error) {
	if len(arr) < 4 {
		return colorSpaceInfo{}, fmt.Errorf("indexed color space has %d elements", len(arr))
	}

	baseObj, err := r.Resolve(arr[1])
	if err != nil {
		return colorSpaceInfo{}, err
	}
	base, err := r.reduceColorSpace(baseObj)
	if err != nil {
		return colorSpaceInfo{}, fmt.Errorf("indexed base: %w", err)
	}
	if base.components != 1 && base.components != 3 {
		return colorSpaceInfo{}, fmt.Errorf("indexed base with %d components is not supported", base.components)
	}

	hival, ok := arr[2].(core.Int)
	if !ok || hival < 0 || hival > 255 {
		return colorSpaceInfo{}, fmt.Errorf("indexed hival %s", arr[2])
	}

	lookupObj, err := r.Resolve(arr[3])
	if err != nil {
		return colorSpaceInfo{}, err
	}
	var lookup []byte
	switch lv := lookupObj.(type) {
	case core.String:
		lookup = []byte(lv)
	case *core.Stream:
		lookup, err = lv.Decode()
		if err != nil {
			return colorSpaceInfo{}, fmt.Errorf("indexed lookup: %w", err)
		}
	default:
		return colorSpaceInfo{}, fmt.Errorf("indexed lookup is %T", lookupObj)
	}

	entries := int(hival) + 1
	if len(lookup) < entries*base.components {
		return colorSpaceInfo{}, fmt.Errorf("indexed lookup has %d bytes for %d entries", len(lookup), entries)
	}

	palette := make([]byte, entries*3)
	for i := 0; i < entries; i++ {
		if base.components == 1 {
			g := lookup[i]
			palette[i*3], palette[i*3+1], palette[i*3+2] = g, g, g
		} else {
			copy(palette[i*3:i*3+3], lookup[i*3:i*3+3])
		}
	}
	return colorSpaceInfo{components: 1, palette: palette}, nil
}

// decodeInverts reports whether /Decode flips the sample sense, as stencil
// masks and some fax images do.
func decodeInverts(dict core.Dict) bool {
	arr, ok := dict.Array("Decode")
	if !ok || len(arr) < 2 {
		return false
	}
	lo, okLo := core.Numeric(arr[0])
	hi, okHi := core.Numeric(arr[1])
	return okLo && okHi && lo > hi
}

// sampleBits reads the x-th value of bpc bits from a packed row.
func sampleBits(row []byte, x, bpc int) int {
	bit := x * bpc
	shift := 8 - bpc - bit%8
	return int(row[bit/8]>>shift) & ((1 << bpc) - 1)
}

func rasterGray(samples []byte, width, height, bpc int, invert bool, mask *maskData) (image.Image, error) {
	if bpc != 1 && bpc != 2 && bpc != 4 && bpc != 8 {
		return nil, fmt.Errorf("gray at %d bits per component is not supported", bpc)
	}
	rowBytes := (width*bpc + 7) / 8
	if len(samples) < rowBytes*height {
		return nil, fmt.Errorf("gray data: %d bytes for %dx%d at %d bpc", len(samples), width, height, bpc)
	}

	maxVal := (1 << bpc) - 1
	scale := 255 / maxVal

	if mask == nil {
		out := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			row := samples[y*rowBytes:]
			for x := 0; x < width; x++ {
				v := sampleBits(row, x, bpc)
				if invert {
					v = maxVal - v
				}
				out.Pix[y*out.Stride+x] = byte(v * scale)
			}
		}
		return out, nil
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := samples[y*rowBytes:]
		for x := 0; x < width; x++ {
			v := sampleBits(row, x, bpc)
			if invert {
				v = maxVal - v
			}
			g := byte(v * scale)
			i := y*out.Stride + x*4
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = g, g, g
			out.Pix[i+3] = mask.at(x, y, width, height)
		}
	}
	return out, nil
}

func rasterRGB(samples []byte, width, height int, mask *maskData) (image.Image, error) {
	if len(samples) < width*height*3 {
		return nil, fmt.Errorf("rgb data: %d bytes for %dx%d", len(samples), width, height)
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * 3
			dst := y*out.Stride + x*4
			out.Pix[dst] = samples[src]
			out.Pix[dst+1] = samples[src+1]
			out.Pix[dst+2] = samples[src+2]
			if mask != nil {
				out.Pix[dst+3] = mask.at(x, y, width, height)
			} else {
				out.Pix[dst+3] = 255
			}
		}
	}
	return out, nil
}

func rasterCMYK(samples []byte, width, height int, mask *maskData) (image.Image, error) {
	if len(samples) < width*height*4 {
		return nil, fmt.Errorf("cmyk data: %d bytes for %dx%d", len(samples), width, height)
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * 4
			rr, gg, bb := color.CMYKToRGB(samples[src], samples[src+1], samples[src+2], samples[src+3])
			dst := y*out.Stride + x*4
			out.Pix[dst], out.Pix[dst+1], out.Pix[dst+2] = rr, gg, bb
			if mask != nil {
				out.Pix[dst+3] = mask.at(x, y, width, height)
			} else {
				out.Pix[dst+3] = 255
			}
		}
	}
	return out, nil
}

func rasterIndexed(samples []byte, width, height, bpc int, palette []byte, mask *maskData) (image.Image, error) {
	if bpc != 1 && bpc != 2 && bpc != 4 && bpc != 8 {
		return nil, fmt.Errorf("indexed at %d bits per component is not supported", bpc)
	}
	rowBytes := (width*bpc + 7) / 8
	if len(samples) < rowBytes*height {
		return nil, fmt.Errorf("indexed data: %d bytes for %dx%d at %d bpc", len(samples), width, height, bpc)
	}
	entries := len(palette) / 3

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := samples[y*rowBytes:]
		for x := 0; x < width; x++ {
			idx := sampleBits(row, x, bpc)
			if idx >= entries {
				idx = entries - 1
			}
			dst := y*out.Stride + x*4
			out.Pix[dst] = palette[idx*3]
			out.Pix[dst+1] = palette[idx*3+1]
			out.Pix[dst+2] = palette[idx*3+2]
			if mask != nil {
				out.Pix[dst+3] = mask.at(x, y, width, height)
			} else {
				out.Pix[dst+3] = 255
			}
		}
	}
	return out, nil
}
