package experiment

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatchery-ml/tweet-rnn/internal/logger"
)

func float64Ptr(x float64) *float64 {
	return &x
}

func markovConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()

	corpus := filepath.Join(dir, "corpus.txt")
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("hello\nworld\n")
	}
	require.NoError(t, os.WriteFile(corpus, []byte(sb.String()), 0644))

	return &Config{
		Name:       "markov-test",
		Data:       corpus,
		Model:      "markov",
		Checkpoint: filepath.Join(dir, "model.ckpt"),
		Output:     filepath.Join(dir, "out.txt"),
		Train: TrainConfig{
			History:    2,
			Validation: float64Ptr(0),
		},
		Generate: GenerateConfig{Count: 3},
	}
}

func TestRunnerEndToEnd(t *testing.T) {
	cfg := markovConfig(t)
	runner := &Runner{
		Config: cfg,
		Log:    logger.Text(io.Discard, slog.LevelError),
	}

	man, err := runner.Run()
	require.NoError(t, err)

	assert.NotEmpty(t, man.ID)
	assert.Equal(t, 40, man.Samples)
	assert.False(t, man.Interrupted)

	_, err = os.Stat(cfg.Checkpoint)
	require.NoError(t, err)

	out, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Len(t, lines, 3)

	manifestPath := filepath.Join(filepath.Dir(cfg.Output), "markov-test.run.json")
	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	var decoded Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, man.ID, decoded.ID)
	assert.Equal(t, cfg.Checkpoint, decoded.Checkpoint)
}

func TestRunnerResumesFromCheckpoint(t *testing.T) {
	cfg := markovConfig(t)
	runner := &Runner{
		Config: cfg,
		Log:    logger.Text(io.Discard, slog.LevelError),
	}

	_, err := runner.Run()
	require.NoError(t, err)

	model, resumed, err := loadOrCreateModel(cfg)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, "markov", model.Name())
}

func TestRunnerRejectsModelMismatch(t *testing.T) {
	cfg := markovConfig(t)
	runner := &Runner{
		Config: cfg,
		Log:    logger.Text(io.Discard, slog.LevelError),
	}

	_, err := runner.Run()
	require.NoError(t, err)

	cfg.Model = "lstm"
	_, _, err = loadOrCreateModel(cfg)
	require.Error(t, err)
}
