package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostprocess(t *testing.T) {
	in := strings.NewReader("h e l l o<eos> w o r l d<eos><eos> h i")
	var out bytes.Buffer

	require.NoError(t, Postprocess(in, &out))
	assert.Equal(t, "hello\nworld\nhi\n", out.String())
}

func TestPostprocessEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Postprocess(strings.NewReader(""), &out))
	assert.Empty(t, out.String())
}

func TestCollapseSpaced(t *testing.T) {
	assert.Equal(t, "hello", collapseSpaced("h e l l o"))
	assert.Equal(t, "world", collapseSpaced(" w o r l d"))
	assert.Equal(t, "", collapseSpaced(""))
	assert.Equal(t, "", collapseSpaced(" "))
	assert.Equal(t, "a", collapseSpaced("a"))
}
