package dataset

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsampleKeepAll(t *testing.T) {
	in := strings.NewReader("a\nb\nc\n")
	var out bytes.Buffer

	kept, total, err := Downsample(in, &out, 100, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, kept)
	assert.Equal(t, "a\nb\nc\n", out.String())
}

func TestDownsampleKeepNone(t *testing.T) {
	in := strings.NewReader("a\nb\nc\n")
	var out bytes.Buffer

	kept, total, err := Downsample(in, &out, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Zero(t, kept)
	assert.Empty(t, out.String())
}

func TestDownsamplePartial(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		sb.WriteString("line\n")
	}
	var out bytes.Buffer

	kept, total, err := Downsample(strings.NewReader(sb.String()), &out, 10,
		rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, 1000, total)
	assert.Greater(t, kept, 0)
	assert.Less(t, kept, 300)
}

func TestDownsampleBadPercent(t *testing.T) {
	_, _, err := Downsample(strings.NewReader(""), &bytes.Buffer{}, 101, nil)
	require.Error(t, err)
}
