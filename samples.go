package tweetrnn

import (
	"bufio"
	"crypto/md5"
	"os"
	"path/filepath"
	"strings"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/num-analysis/linalg"
	"github.com/unixpickle/sgd"
	"github.com/unixpickle/weakai/rnn/seqtoseq"
)

const (
	// CharCount is the size of the byte alphabet.
	CharCount = 256

	// Terminator marks the end of a sample, both in training
	// sequences and in generated output.
	Terminator = 0
)

// SampleList is a corpus of independent text samples, one per
// line of the source files.
type SampleList [][]byte

// ReadSampleList reads a corpus from a text file, or from every
// non-hidden file in a directory.
//
// Blank lines are skipped.
func ReadSampleList(path string) (SampleList, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, essentials.AddCtx("read samples", err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, essentials.AddCtx("read samples", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
	} else {
		files = []string{path}
	}

	var res SampleList
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, essentials.AddCtx("read samples", err)
		}
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			res = append(res, append([]byte{}, line...))
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return nil, essentials.AddCtx("read samples", err)
		}
	}
	return res, nil
}

// Bytes returns the total number of characters in the corpus.
func (s SampleList) Bytes() int {
	var total int
	for _, sample := range s {
		total += len(sample)
	}
	return total
}

func (s SampleList) Len() int {
	return len(s)
}

func (s SampleList) Copy() sgd.SampleSet {
	return append(SampleList{}, s...)
}

func (s SampleList) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func (s SampleList) Subset(start, end int) sgd.SampleSet {
	return s[start:end]
}

// GetSample encodes a line as a next-character prediction
// sequence: the inputs begin at the terminator symbol and the
// outputs end at it.
func (s SampleList) GetSample(idx int) interface{} {
	line := s[idx]
	var sample seqtoseq.Sample
	for i, b := range line {
		if i == 0 {
			sample.Inputs = append(sample.Inputs, oneHotByte(Terminator))
		} else {
			sample.Inputs = append(sample.Inputs, oneHotByte(line[i-1]))
		}
		sample.Outputs = append(sample.Outputs, oneHotByte(b))
	}
	if len(line) > 0 {
		sample.Inputs = append(sample.Inputs, oneHotByte(line[len(line)-1]))
		sample.Outputs = append(sample.Outputs, oneHotByte(Terminator))
	}
	return sample
}

// Hash returns a digest of the sample at index i, letting
// sgd.HashSplit divide the corpus by content so splits stay
// stable across runs and training resumptions.
func (s SampleList) Hash(i int) []byte {
	sum := md5.Sum(s[i])
	return sum[:]
}

// Partition splits the corpus, putting roughly frac of the
// samples into the first returned list.
func (s SampleList) Partition(frac float64) (left, right SampleList) {
	l, r := sgd.HashSplit(s, frac)
	return l.(SampleList), r.(SampleList)
}

func oneHotByte(b byte) linalg.Vector {
	res := make(linalg.Vector, CharCount)
	res[int(b)] = 1
	return res
}
