// Package filters implements the PDF stream decode filters the reader needs:
// FlateDecode with TIFF and PNG predictors, ASCIIHexDecode, ASCII85Decode,
// RunLengthDecode, and CCITTFaxDecode.
//
// Each filter takes the encoded bytes and returns the decoded bytes. Filters
// that use entries from the stream's /DecodeParms dictionary take a Params
// map of plain Go values:
//
//	params := filters.Params{
//	    "Predictor": 12,
//	    "Columns":   100,
//	}
//	decoded, err := filters.FlateDecode(data, params)
//
// Image codecs (DCTDecode, JPXDecode) are not decoded here; their payloads
// pass through the stream layer untouched and are handled during image
// extraction.
package filters
