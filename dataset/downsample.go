package dataset

import (
	"bufio"
	"errors"
	"io"
	"math/rand"
	"time"
)

// Downsample copies roughly percent of the input lines to out,
// keeping or dropping each line independently.
//
// It returns how many lines were kept and how many were seen.
func Downsample(in io.Reader, out io.Writer, percent int, r *rand.Rand) (kept, total int, err error) {
	if percent < 0 || percent > 100 {
		return 0, 0, errors.New("downsample: percent must be in [0,100]")
	}
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		total++
		if r.Intn(100) >= percent {
			continue
		}
		if _, err := w.Write(scanner.Bytes()); err != nil {
			return kept, total, err
		}
		if err := w.WriteByte('\n'); err != nil {
			return kept, total, err
		}
		kept++
	}
	if err := scanner.Err(); err != nil {
		return kept, total, err
	}
	return kept, total, w.Flush()
}
