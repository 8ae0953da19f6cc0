package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecode inflates zlib-compressed data and reverses the predictor
// declared in params, if any. Predictor 1 is identity, 2 is TIFF horizontal
// differencing, and 10 through 15 are the PNG filters with a tag byte per
// row.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}

	return unpredict(out, params)
}

// unpredict reverses the row predictor declared in params.
func unpredict(data []byte, params Params) ([]byte, error) {
	predictor := params.Int("Predictor", 1)
	switch {
	case predictor == 1:
		return data, nil
	case predictor == 2:
		return unpredictTIFF(data, params)
	case predictor >= 10 && predictor <= 15:
		return unpredictPNG(data, params)
	default:
		return nil, fmt.Errorf("predictor %d is not supported", predictor)
	}
}

// unpredictTIFF reverses TIFF horizontal differencing: each sample is stored
// as the delta from the sample one pixel to its left.
func unpredictTIFF(data []byte, params Params) ([]byte, error) {
	columns := params.Int("Columns", 1)
	colors := params.Int("Colors", 1)
	if bpc := params.Int("BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor: %d bits per component is not supported", bpc)
	}

	rowLen := columns * colors
	if rowLen <= 0 || len(data)%rowLen != 0 {
		return nil, fmt.Errorf("TIFF predictor: %d bytes is not a whole number of %d-byte rows", len(data), rowLen)
	}

	for row := 0; row < len(data); row += rowLen {
		for i := colors; i < rowLen; i++ {
			data[row+i] += data[row+i-colors]
		}
	}
	return data, nil
}

// unpredictPNG reverses the PNG row filters. Every encoded row carries a
// leading tag byte naming its filter: 0 none, 1 sub, 2 up, 3 average,
// 4 paeth. The output drops the tag bytes.
func unpredictPNG(data []byte, params Params) ([]byte, error) {
	columns := params.Int("Columns", 1)
	colors := params.Int("Colors", 1)
	if bpc := params.Int("BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("PNG predictor: %d bits per component is not supported", bpc)
	}

	pixel := colors
	rowLen := columns * colors
	if rowLen <= 0 || len(data)%(rowLen+1) != 0 {
		return nil, fmt.Errorf("PNG predictor: %d bytes is not a whole number of %d-byte rows", len(data), rowLen+1)
	}

	rows := len(data) / (rowLen + 1)
	out := make([]byte, 0, rows*rowLen)
	prev := make([]byte, rowLen)
	cur := make([]byte, rowLen)

	for row := 0; row < rows; row++ {
		tag := data[row*(rowLen+1)]
		copy(cur, data[row*(rowLen+1)+1:(row+1)*(rowLen+1)])

		switch tag {
		case 0:
			// Row stored verbatim.
		case 1:
			for i := pixel; i < rowLen; i++ {
				cur[i] += cur[i-pixel]
			}
		case 2:
			for i := 0; i < rowLen; i++ {
				cur[i] += prev[i]
			}
		case 3:
			for i := 0; i < rowLen; i++ {
				var left byte
				if i >= pixel {
					left = cur[i-pixel]
				}
				cur[i] += byte((int(left) + int(prev[i])) / 2)
			}
		case 4:
			for i := 0; i < rowLen; i++ {
				var left, upLeft byte
				if i >= pixel {
					left = cur[i-pixel]
					upLeft = prev[i-pixel]
				}
				cur[i] += paeth(left, prev[i], upLeft)
			}
		default:
			return nil, fmt.Errorf("PNG predictor: row %d has filter tag %d", row, tag)
		}

		out = append(out, cur...)
		prev, cur = cur, prev
	}
	return out, nil
}

// paeth picks the neighbor closest to the linear estimate left + up - upLeft,
// as defined by the PNG specification.
func paeth(left, up, upLeft byte) byte {
	p := int(left) + int(up) - int(upLeft)
	pa := iabs(p - int(left))
	pb := iabs(p - int(up))
	pc := iabs(p - int(upLeft))
	if pa <= pb && pa <= pc {
		return left
	}
	if pb <= pc {
		return up
	}
	return upLeft
}

func iabs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
