// Package dataset prepares line-oriented text corpora for
// training and cleans up generated output.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/unixpickle/essentials"
)

// SplitOptions configures how a corpus gets divided into
// training, validation, and test files.
type SplitOptions struct {
	// TestPercent and ValidPercent are the share of lines
	// routed to the test and validation files. The rest go to
	// the training file.
	TestPercent  int
	ValidPercent int

	// CSVColumn is the text column for .csv inputs, where the
	// other columns carry metadata.
	CSVColumn int

	// Rand drives the per-line draw. A nil Rand uses a
	// time-seeded source.
	Rand *rand.Rand
}

// SplitCounts reports how many lines landed in each output file.
type SplitCounts struct {
	Train int
	Valid int
	Test  int
}

// Split distributes the lines of the input files between
// train.txt, valid.txt and test.txt in outDir.
//
// Each line is assigned independently at random, and lines never
// straddle output files. Files ending in .csv are parsed as CSV
// and only the configured text column is kept.
func Split(inputs []string, outDir string, opts SplitOptions) (SplitCounts, error) {
	var counts SplitCounts

	if opts.TestPercent < 0 || opts.ValidPercent < 0 ||
		opts.TestPercent+opts.ValidPercent > 100 {
		return counts, errors.New("split: percentages must be in [0,100] and sum to at most 100")
	}
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return counts, essentials.AddCtx("split", err)
	}

	outputs := make([]*os.File, 3)
	writers := make([]*bufio.Writer, 3)
	for i, name := range []string{"train.txt", "valid.txt", "test.txt"} {
		f, err := os.Create(filepath.Join(outDir, name))
		if err != nil {
			for _, open := range outputs[:i] {
				open.Close()
			}
			return counts, essentials.AddCtx("split", err)
		}
		outputs[i] = f
		writers[i] = bufio.NewWriter(f)
	}
	closeAll := func() error {
		var firstErr error
		for i, w := range writers {
			if err := w.Flush(); err != nil && firstErr == nil {
				firstErr = err
			}
			if err := outputs[i].Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	route := func(line string) error {
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		draw := r.Intn(100)
		var w *bufio.Writer
		switch {
		case draw < opts.TestPercent:
			w = writers[2]
			counts.Test++
		case draw < opts.TestPercent+opts.ValidPercent:
			w = writers[1]
			counts.Valid++
		default:
			w = writers[0]
			counts.Train++
		}
		_, err := w.WriteString(line + "\n")
		return err
	}

	for _, input := range inputs {
		var err error
		if strings.EqualFold(filepath.Ext(input), ".csv") {
			err = eachCSVLine(input, opts.CSVColumn, route)
		} else {
			err = eachLine(input, route)
		}
		if err != nil {
			closeAll()
			return counts, essentials.AddCtx("split "+input, err)
		}
	}

	if err := closeAll(); err != nil {
		return counts, essentials.AddCtx("split", err)
	}
	return counts, nil
}

func eachLine(path string, f func(string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		if err := f(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func eachCSVLine(path string, column int, f func(string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if column >= len(record) {
			continue
		}
		// Tweets may contain embedded newlines inside a quoted
		// cell; samples are one per line.
		text := strings.ReplaceAll(record[column], "\n", " ")
		if err := f(text); err != nil {
			return err
		}
	}
}
