package tweetrnn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/autofunc"
	"github.com/unixpickle/num-analysis/linalg"
	"github.com/unixpickle/sgd"
)

type staticGradienter struct {
	grad autofunc.Gradient
}

func (s *staticGradienter) Gradient(sgd.SampleSet) autofunc.Gradient {
	return s.grad
}

func TestGradientClipperScalesDown(t *testing.T) {
	v1 := &autofunc.Variable{Vector: linalg.Vector{3, 0}}
	v2 := &autofunc.Variable{Vector: linalg.Vector{0, 4}}
	grad := autofunc.Gradient{
		v1: linalg.Vector{3, 0},
		v2: linalg.Vector{0, 4},
	}

	// Global norm is 5; clipping to 2.5 halves every entry.
	clip := &sgd.GradientClipper{
		Gradienter: &staticGradienter{grad: grad},
		Threshold:  2.5,
		Norm:       sgd.L2Norm,
	}
	res := clip.Gradient(nil)
	assert.InDelta(t, 1.5, res[v1][0], 1e-9)
	assert.InDelta(t, 0, res[v1][1], 1e-9)
	assert.InDelta(t, 2, res[v2][1], 1e-9)
}

func TestGradientClipperLeavesSmall(t *testing.T) {
	v := &autofunc.Variable{Vector: linalg.Vector{1, 2}}
	grad := autofunc.Gradient{v: linalg.Vector{1, 2}}

	clip := &sgd.GradientClipper{
		Gradienter: &staticGradienter{grad: grad},
		Threshold:  100,
		Norm:       sgd.L2Norm,
	}
	res := clip.Gradient(nil)
	assert.InDelta(t, 1, res[v][0], 1e-9)
	assert.InDelta(t, 2, res[v][1], 1e-9)
}

func TestEpochLimiterCap(t *testing.T) {
	var reported []int
	limiter := epochLimiter(1, func(done int) {
		reported = append(reported, done)
	})

	// SGDInteractive consults the callback before each pass, so
	// a cap of 1 must allow exactly one pass.
	var epochs int
	for limiter() {
		epochs++
	}
	assert.Equal(t, 1, epochs)
	assert.Equal(t, []int{0, 1}, reported)

	limiter = epochLimiter(3, func(int) {})
	epochs = 0
	for limiter() {
		epochs++
	}
	assert.Equal(t, 3, epochs)
}

func TestEpochLimiterUncapped(t *testing.T) {
	limiter := epochLimiter(0, func(int) {})
	for i := 0; i < 50; i++ {
		require.True(t, limiter())
	}
}

func TestChooseLogIndexLowTemperature(t *testing.T) {
	logProbs := linalg.Vector{0, 5}
	for i := 0; i < 50; i++ {
		require.Equal(t, 1, chooseLogIndex(logProbs, 0.05))
	}
}

func TestChooseLogIndexInRange(t *testing.T) {
	logProbs := linalg.Vector{-1, -1, -1, -1}
	for i := 0; i < 100; i++ {
		idx := chooseLogIndex(logProbs, 1.5)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(logProbs))
	}
}

func TestTrainingFlagDefaults(t *testing.T) {
	l := &LSTM{}
	f := l.TrainingFlags()
	require.NoError(t, f.Parse([]string{"-hidden", "128", "-epochs", "3"}))

	assert.Equal(t, 128, l.HiddenSize)
	assert.Equal(t, 3, l.Epochs)
	assert.Equal(t, 2, l.Layers)
	assert.Equal(t, 64, l.Embedding)
	assert.Equal(t, 0.001, l.StepSize)
	assert.Equal(t, 5.0, l.Clip)
}

func TestGenerationFlagDefaults(t *testing.T) {
	g := &GRU{}
	f := g.GenerationFlags()
	require.NoError(t, f.Parse([]string{"-temperature", "0.4", "-words", "10"}))

	assert.Equal(t, 0.4, g.Temperature)
	assert.Equal(t, 10, g.Words)
	assert.Equal(t, 1000, g.Length)
	assert.Empty(t, g.Seed)
}
