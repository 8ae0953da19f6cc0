package filters

import (
	"bytes"
	"fmt"
)

// RunLengthDecode expands run-length encoded data. A length byte L of 0..127
// copies the next L+1 bytes literally, 129..255 repeats the next byte
// 257-L times, and 128 ends the data.
func RunLengthDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	i := 0
	for i < len(data) {
		l := int(data[i])
		i++
		switch {
		case l == 128:
			return out.Bytes(), nil
		case l < 128:
			n := l + 1
			if i+n > len(data) {
				return nil, fmt.Errorf("run-length data: literal run of %d bytes at %d overruns input", n, i-1)
			}
			out.Write(data[i : i+n])
			i += n
		default:
			if i >= len(data) {
				return nil, fmt.Errorf("run-length data: repeat at %d has no byte to repeat", i-1)
			}
			out.Write(bytes.Repeat(data[i:i+1], 257-l))
			i++
		}
	}
	// Missing EOD is tolerated at end of data.
	return out.Bytes(), nil
}
