package core

import (
	"fmt"

	"github.com/tsawler/pagina/internal/filters"
)

// FilterNames returns the stream's filter chain in application order. A
// missing /Filter yields an empty slice; abbreviated names are kept as
// written.
func (s *Stream) FilterNames() []string {
	switch f := s.Dict.Get("Filter").(type) {
	case Name:
		return []string{string(f)}
	case Array:
		names := make([]string, 0, len(f))
		for _, obj := range f {
			if n, ok := obj.(Name); ok {
				names = append(names, string(n))
			}
		}
		return names
	}
	return nil
}

// Decode applies the /Filter chain to the raw payload and returns the
// decoded bytes. The result is cached, so repeated calls are cheap. Image
// codecs (DCTDecode, JPXDecode) pass through untouched; their payload is the
// compressed image itself.
//
// Indirect objects inside /Filter or /DecodeParms must be resolved before
// calling Decode; the reader does this when it loads a stream.
func (s *Stream) Decode() ([]byte, error) {
	if s.decoded != nil {
		return s.decoded, nil
	}

	names := s.FilterNames()
	if len(names) == 0 {
		if _, isRef := s.Dict.Get("Filter").(Ref); isRef {
			return nil, fmt.Errorf("stream /Filter is an unresolved reference")
		}
		s.decoded = s.Raw
		return s.decoded, nil
	}

	data := s.Raw
	for i, name := range names {
		var err error
		data, err = applyFilter(data, name, s.filterParams(i, len(names)))
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
	}
	s.decoded = data
	return s.decoded, nil
}

// filterParams returns the decode parameters for filter i of n in the chain.
func (s *Stream) filterParams(i, n int) filters.Params {
	obj := s.Dict.Get("DecodeParms")
	if !s.Dict.Has("DecodeParms") {
		obj = s.Dict.Get("DP")
	}

	switch v := obj.(type) {
	case Dict:
		if n == 1 {
			return dictToParams(v)
		}
	case Array:
		if i < len(v) {
			if d, ok := v[i].(Dict); ok {
				return dictToParams(d)
			}
		}
	}
	return nil
}

func applyFilter(data []byte, name string, params filters.Params) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		return filters.RunLengthDecode(data)
	case "CCITTFaxDecode", "CCF":
		return filters.CCITTFaxDecode(data, params)
	case "DCTDecode", "DCT", "JPXDecode":
		return data, nil
	case "LZWDecode", "LZW":
		return nil, fmt.Errorf("LZWDecode is not supported")
	case "JBIG2Decode":
		return nil, fmt.Errorf("JBIG2Decode is not supported")
	case "Crypt":
		return nil, fmt.Errorf("encrypted streams are not supported")
	default:
		return nil, fmt.Errorf("unknown filter %q", name)
	}
}

// dictToParams flattens a decode-parameter dictionary to the primitive types
// the filter implementations take.
func dictToParams(dict Dict) filters.Params {
	if len(dict) == 0 {
		return nil
	}
	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case Name:
			params[k] = string(obj)
		case String:
			params[k] = string(obj)
		}
	}
	return params
}
