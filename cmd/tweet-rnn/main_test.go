package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tweetrnn "github.com/hatchery-ml/tweet-rnn"
)

func TestGenerateOutputFile(t *testing.T) {
	model := &tweetrnn.Markov{}
	require.NoError(t, model.TrainingFlags().Parse(
		[]string{"-history", "2", "-validation", "0"}))
	model.Train(tweetrnn.SampleList{[]byte("aaaa"), []byte("aaaa")})

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, generateOutput(model, []string{"-count", "2", "-out", path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 2)
	for _, line := range lines {
		assert.NotEmpty(t, line)
	}
}
