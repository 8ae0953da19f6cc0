package filters

import (
	"testing"
)

// TestCCITTFaxDecodeAllWhite decodes a hand-assembled Group 4 image: two
// all-white rows are one V0 code (a single 1 bit) each, followed by EOFB.
// Bits: 11 000000000001 000000000001, padded to four bytes.
func TestCCITTFaxDecodeAllWhite(t *testing.T) {
	data := []byte{0xC0, 0x04, 0x00, 0x40}

	out, err := CCITTFaxDecode(data, Params{
		"K":       -1,
		"Columns": 8,
		"Rows":    2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 output bytes for two 8-pixel rows, got %d", len(out))
	}
	if out[0] != out[1] {
		t.Errorf("rows should be identical, got %02x %02x", out[0], out[1])
	}
	if out[0] != 0x00 && out[0] != 0xFF {
		t.Errorf("all-white row should be uniform bits, got %02x", out[0])
	}
}

func TestCCITTFaxDecodeRejectsGarbage(t *testing.T) {
	// All-zero bits never form a valid Group 4 code.
	_, err := CCITTFaxDecode([]byte{0x00, 0x00, 0x00, 0x00}, Params{
		"K":       -1,
		"Columns": 8,
		"Rows":    2,
	})
	if err == nil {
		t.Error("expected error for invalid Group 4 data")
	}
}
