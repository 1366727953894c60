package dataset

import (
	"bufio"
	"io"
	"strings"
)

// EOSMarker separates samples in raw generated output.
const EOSMarker = "<eos>"

// Postprocess converts a raw generated stream into one sample
// per line. The stream is split on the <eos> marker, and the
// separator character between every pair of token characters is
// dropped ("h e l l o" becomes "hello"). Empty chunks are
// skipped.
func Postprocess(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, chunk := range strings.Split(string(data), EOSMarker) {
		line := collapseSpaced(chunk)
		if line == "" {
			continue
		}
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

// collapseSpaced keeps every other character, starting after the
// leading separator when the chunk begins with one.
func collapseSpaced(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	start := 0
	if runes[0] == ' ' {
		start = 1
	}
	var b strings.Builder
	for i := start; i < len(runes); i += 2 {
		b.WriteRune(runes[i])
	}
	return strings.TrimSpace(b.String())
}
