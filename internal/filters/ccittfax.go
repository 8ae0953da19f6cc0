package filters

import (
	"bytes"
	"io"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes CCITT Group 3 and Group 4 fax data, the usual
// encoding for scanned bi-level images.
//
// Recognized parameters: K selects the group (negative is Group 4,
// otherwise Group 3), Columns is the row width in pixels (default 1728),
// Rows is the image height (0 autodetects), BlackIs1 flips the bit sense,
// and EncodedByteAlign pads each row to a byte boundary.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	columns := params.Int("Columns", 1728)
	rows := params.Int("Rows", 0)

	sf := ccitt.Group3
	if params.Int("K", 0) < 0 {
		sf = ccitt.Group4
	}
	if rows == 0 {
		rows = ccitt.AutoDetectHeight
	}

	opts := &ccitt.Options{
		Invert: params.Bool("BlackIs1", false),
		Align:  params.Bool("EncodedByteAlign", false),
	}
	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, opts)
	return io.ReadAll(r)
}
