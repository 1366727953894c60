package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/rip"
	"github.com/unixpickle/serializer"

	tweetrnn "github.com/hatchery-ml/tweet-rnn"
	"github.com/hatchery-ml/tweet-rnn/internal/logger"
)

const artifactPermissions = 0755

// Manifest records what a run produced.
type Manifest struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Model      string    `json:"model"`
	Data       string    `json:"data"`
	Checkpoint string    `json:"checkpoint"`
	Output     string    `json:"output,omitempty"`
	Samples    int       `json:"samples"`
	Started    time.Time `json:"started"`

	TrainSeconds    float64 `json:"train_seconds"`
	GenerateSeconds float64 `json:"generate_seconds,omitempty"`
	Interrupted     bool    `json:"interrupted,omitempty"`
}

// Runner executes one experiment end to end: load or create the
// model, train it on the corpus, save the checkpoint, then
// generate into the output file.
type Runner struct {
	Config *Config
	Log    logger.Logger
}

// Run performs the experiment and writes a JSON manifest next to
// the output file. An interrupt during training still saves the
// checkpoint but skips generation.
func (r *Runner) Run() (*Manifest, error) {
	cfg := r.Config
	logg := r.Log
	if logg == nil {
		logg = logger.Default()
	}
	logg = logg.With("experiment", cfg.Name)

	man := &Manifest{
		ID:         uuid.NewString(),
		Name:       cfg.Name,
		Model:      cfg.Model,
		Data:       cfg.Data,
		Checkpoint: cfg.Checkpoint,
		Started:    time.Now(),
	}
	logg = logg.With("id", man.ID)

	model, resumed, err := loadOrCreateModel(cfg)
	if err != nil {
		return nil, err
	}
	if resumed {
		logg.Info("resuming from checkpoint", "checkpoint", cfg.Checkpoint)
	} else {
		logg.Info("training new model", "model", cfg.Model)
	}

	samples, err := tweetrnn.ReadSampleList(cfg.Data)
	if err != nil {
		return nil, err
	}
	man.Samples = samples.Len()
	logg.Info("corpus loaded", "samples", samples.Len(), "bytes", samples.Bytes())

	interrupt := rip.NewRIP()
	defer interrupt.Close()

	model.TrainingFlags().Parse(cfg.TrainArgs())
	start := time.Now()
	model.Train(samples)
	man.TrainSeconds = time.Since(start).Seconds()
	logg.Info("training finished", "seconds", man.TrainSeconds)

	if err := saveCheckpoint(model, cfg.Checkpoint); err != nil {
		return nil, err
	}
	logg.Info("checkpoint saved", "path", cfg.Checkpoint)

	if interrupt.Done() {
		man.Interrupted = true
		logg.Warn("interrupted; skipping generation")
	} else {
		model.GenerationFlags().Parse(cfg.GenerateArgs())
		if err := os.MkdirAll(filepath.Dir(cfg.Output), artifactPermissions); err != nil {
			return nil, essentials.AddCtx("run", err)
		}
		out, err := os.Create(cfg.Output)
		if err != nil {
			return nil, essentials.AddCtx("run", err)
		}
		start = time.Now()
		err = model.Generate(out)
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, essentials.AddCtx("generate", err)
		}
		man.Output = cfg.Output
		man.GenerateSeconds = time.Since(start).Seconds()
		logg.Info("generation finished", "output", cfg.Output,
			"seconds", man.GenerateSeconds)
	}

	if err := writeManifest(man, cfg); err != nil {
		return nil, err
	}
	return man, nil
}

func loadOrCreateModel(cfg *Config) (model tweetrnn.Model, resumed bool, err error) {
	model = tweetrnn.ModelForName(cfg.Model)
	if model == nil {
		return nil, false, fmt.Errorf("no such model: %s", cfg.Model)
	}
	data, err := os.ReadFile(cfg.Checkpoint)
	if err != nil {
		return model, false, nil
	}
	x, err := serializer.DeserializeWithType(data)
	if err != nil {
		return nil, false, essentials.AddCtx("load checkpoint", err)
	}
	loaded, ok := x.(tweetrnn.Model)
	if !ok {
		return nil, false, fmt.Errorf("checkpoint holds a %T, not a model", x)
	}
	if loaded.Name() != cfg.Model {
		return nil, false, fmt.Errorf("checkpoint holds a %s model, config wants %s",
			loaded.Name(), cfg.Model)
	}
	return loaded, true, nil
}

func saveCheckpoint(model tweetrnn.Model, path string) error {
	encoded, err := serializer.SerializeWithType(model)
	if err != nil {
		return essentials.AddCtx("save checkpoint", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, artifactPermissions); err != nil {
			return essentials.AddCtx("save checkpoint", err)
		}
	}
	if err := os.WriteFile(path, encoded, artifactPermissions); err != nil {
		return essentials.AddCtx("save checkpoint", err)
	}
	return nil
}

func writeManifest(man *Manifest, cfg *Config) error {
	encoded, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return essentials.AddCtx("write manifest", err)
	}
	path := filepath.Join(filepath.Dir(cfg.Output), cfg.Name+".run.json")
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return essentials.AddCtx("write manifest", err)
	}
	return nil
}
