package filters

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFlateDecode(t *testing.T) {
	want := []byte("the quick brown fox jumps over the lazy dog")
	got, err := FlateDecode(deflate(t, want), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFlateDecodeBadData(t *testing.T) {
	if _, err := FlateDecode([]byte("not zlib at all"), nil); err == nil {
		t.Error("expected error for invalid zlib data")
	}
}

func TestFlateDecodeIdentityPredictor(t *testing.T) {
	want := []byte{1, 2, 3, 4}
	got, err := FlateDecode(deflate(t, want), Params{"Predictor": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// TestFlateDecodeTIFFPredictor round-trips TIFF horizontal differencing:
// the fixture stores each sample as a delta from its left neighbor.
func TestFlateDecodeTIFFPredictor(t *testing.T) {
	want := []byte{10, 20, 30, 40, 5, 15, 25, 35}

	columns, colors := 4, 1
	rowLen := columns * colors
	encoded := make([]byte, len(want))
	for row := 0; row < len(want); row += rowLen {
		encoded[row] = want[row]
		for i := 1; i < rowLen; i++ {
			encoded[row+i] = want[row+i] - want[row+i-1]
		}
	}

	got, err := FlateDecode(deflate(t, encoded), Params{
		"Predictor": 2,
		"Columns":   columns,
		"Colors":    colors,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// pngEncode applies one PNG row filter forward so the tests can verify the
// decoder reverses it.
func pngEncode(rows [][]byte, tag byte, pixel int) []byte {
	var out []byte
	prev := make([]byte, len(rows[0]))
	for _, row := range rows {
		out = append(out, tag)
		for i, b := range row {
			var left, up, upLeft byte
			if i >= pixel {
				left = row[i-pixel]
				upLeft = prev[i-pixel]
			}
			up = prev[i]

			switch tag {
			case 0:
				out = append(out, b)
			case 1:
				out = append(out, b-left)
			case 2:
				out = append(out, b-up)
			case 3:
				out = append(out, b-byte((int(left)+int(up))/2))
			case 4:
				out = append(out, b-paeth(left, up, upLeft))
			}
		}
		prev = row
	}
	return out
}

func TestFlateDecodePNGPredictors(t *testing.T) {
	rows := [][]byte{
		{10, 20, 30, 40, 50, 60},
		{15, 25, 35, 45, 55, 65},
		{12, 22, 32, 42, 52, 62},
	}
	var want []byte
	for _, r := range rows {
		want = append(want, r...)
	}

	for tag := byte(0); tag <= 4; tag++ {
		encoded := pngEncode(rows, tag, 2)
		got, err := FlateDecode(deflate(t, encoded), Params{
			"Predictor": 12,
			"Columns":   3,
			"Colors":    2,
		})
		if err != nil {
			t.Fatalf("filter tag %d: unexpected error: %v", tag, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("filter tag %d: expected %v, got %v", tag, want, got)
		}
	}
}

func TestFlateDecodePredictorErrors(t *testing.T) {
	t.Run("unknown predictor", func(t *testing.T) {
		_, err := FlateDecode(deflate(t, []byte{1}), Params{"Predictor": 5})
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("ragged rows", func(t *testing.T) {
		_, err := FlateDecode(deflate(t, []byte{1, 2, 3}), Params{
			"Predictor": 12,
			"Columns":   4,
		})
		if err == nil {
			t.Error("expected error for data that is not whole rows")
		}
	})

	t.Run("bad row tag", func(t *testing.T) {
		_, err := FlateDecode(deflate(t, []byte{9, 0, 0}), Params{
			"Predictor": 12,
			"Columns":   2,
		})
		if err == nil {
			t.Error("expected error for an out-of-range filter tag")
		}
	})

	t.Run("unsupported bit depth", func(t *testing.T) {
		_, err := FlateDecode(deflate(t, []byte{0, 0}), Params{
			"Predictor":        2,
			"Columns":          8,
			"BitsPerComponent": 2,
		})
		if err == nil {
			t.Error("expected error for sub-byte samples")
		}
	})
}
