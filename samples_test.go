package tweetrnn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/weakai/rnn/seqtoseq"
)

func TestReadSampleList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"),
		[]byte("alpha\n\nbeta\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"),
		[]byte("gamma"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"),
		[]byte("nope\n"), 0644))

	samples, err := ReadSampleList(dir)
	require.NoError(t, err)

	var lines []string
	for _, s := range samples {
		lines = append(lines, string(s))
	}
	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, lines)
	assert.Equal(t, 14, samples.Bytes())
}

func TestReadSampleListSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0644))

	samples, err := ReadSampleList(path)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "one", string(samples[0]))
}

func TestReadSampleListMissing(t *testing.T) {
	_, err := ReadSampleList(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestGetSampleEncoding(t *testing.T) {
	samples := SampleList{[]byte("ab")}
	sample, ok := samples.GetSample(0).(seqtoseq.Sample)
	require.True(t, ok)

	require.Len(t, sample.Inputs, 3)
	require.Len(t, sample.Outputs, 3)

	// Inputs walk terminator, 'a', 'b'; outputs walk 'a', 'b',
	// terminator.
	assert.EqualValues(t, 1, sample.Inputs[0][Terminator])
	assert.EqualValues(t, 1, sample.Inputs[1]['a'])
	assert.EqualValues(t, 1, sample.Inputs[2]['b'])
	assert.EqualValues(t, 1, sample.Outputs[0]['a'])
	assert.EqualValues(t, 1, sample.Outputs[1]['b'])
	assert.EqualValues(t, 1, sample.Outputs[2][Terminator])

	for _, vec := range append(sample.Inputs, sample.Outputs...) {
		require.Len(t, vec, CharCount)
		var sum float64
		for _, x := range vec {
			sum += x
		}
		assert.EqualValues(t, 1, sum)
	}
}

func TestPartition(t *testing.T) {
	var samples SampleList
	for i := 0; i < 500; i++ {
		samples = append(samples, []byte{byte(i), byte(i >> 4), byte(i * 7)})
	}

	left, right := samples.Partition(0.2)
	assert.Equal(t, samples.Len(), left.Len()+right.Len())
	assert.Greater(t, right.Len(), left.Len())

	left2, right2 := samples.Partition(0.2)
	assert.Equal(t, left, left2)
	assert.Equal(t, right, right2)

	none, all := samples.Partition(0)
	assert.Zero(t, none.Len())
	assert.Equal(t, samples.Len(), all.Len())
}
