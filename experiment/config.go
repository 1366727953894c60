// Package experiment runs train-then-generate pipelines
// described by YAML configuration files.
package experiment

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/unixpickle/essentials"
	"gopkg.in/yaml.v3"

	tweetrnn "github.com/hatchery-ml/tweet-rnn"
)

// Config describes one experiment: which corpus to train on,
// which model with which hyperparameters, and where the
// artifacts go.
type Config struct {
	Name       string `yaml:"name"`
	Data       string `yaml:"data"`
	Model      string `yaml:"model"`
	Checkpoint string `yaml:"checkpoint"`
	Output     string `yaml:"output"`
	LogFile    string `yaml:"log_file"`

	Train    TrainConfig    `yaml:"train"`
	Generate GenerateConfig `yaml:"generate"`
}

// TrainConfig holds training hyperparameters. Float fields are
// pointers so an absent value falls back to the model's flag
// default instead of zero.
type TrainConfig struct {
	Embedding int `yaml:"embedding"`
	Hidden    int `yaml:"hidden"`
	Layers    int `yaml:"layers"`
	Batch     int `yaml:"batch"`
	BPTT      int `yaml:"bptt"`
	Tail      int `yaml:"tail"`
	Epochs    int `yaml:"epochs"`

	StepSize   *float64 `yaml:"step_size"`
	Clip       *float64 `yaml:"clip"`
	Dropout    *float64 `yaml:"dropout"`
	Validation *float64 `yaml:"validation"`

	// Baseline-model knobs.
	History int `yaml:"history"`
	States  int `yaml:"states"`
	Iters   int `yaml:"iters"`
}

// GenerateConfig holds generation settings.
type GenerateConfig struct {
	Length      int      `yaml:"length"`
	Words       int      `yaml:"words"`
	Count       int      `yaml:"count"`
	Temperature *float64 `yaml:"temperature"`
	Seed        string   `yaml:"seed"`
}

// LoadConfig reads and validates an experiment file, filling in
// defaults for optional paths.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, essentials.AddCtx("load config", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, essentials.AddCtx("load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Checkpoint == "" {
		cfg.Checkpoint = cfg.Name + ".ckpt"
	}
	if cfg.Output == "" {
		cfg.Output = cfg.Name + ".txt"
	}
	return &cfg, nil
}

// Validate checks the fields every experiment must set.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("config: missing experiment name")
	}
	if c.Data == "" {
		return errors.New("config: missing data path")
	}
	if c.Model == "" {
		c.Model = "lstm"
	}
	if tweetrnn.ModelForName(c.Model) == nil {
		return fmt.Errorf("config: no such model: %s", c.Model)
	}
	return nil
}

// TrainArgs renders the training hyperparameters as flag
// arguments for the named model. Unset values are omitted so the
// model's own defaults apply.
func (c *Config) TrainArgs() []string {
	var args []string
	switch c.Model {
	case "lstm", "gru":
		args = appendIntArg(args, "embedding", c.Train.Embedding)
		args = appendIntArg(args, "hidden", c.Train.Hidden)
		args = appendIntArg(args, "layers", c.Train.Layers)
		args = appendIntArg(args, "batch", c.Train.Batch)
		args = appendIntArg(args, "bptt", c.Train.BPTT)
		args = appendIntArg(args, "tail", c.Train.Tail)
		args = appendIntArg(args, "epochs", c.Train.Epochs)
		args = appendFloatArg(args, "step", c.Train.StepSize)
		args = appendFloatArg(args, "clip", c.Train.Clip)
		args = appendFloatArg(args, "dropout", c.Train.Dropout)
		args = appendFloatArg(args, "validation", c.Train.Validation)
	case "markov":
		args = appendIntArg(args, "history", c.Train.History)
		args = appendFloatArg(args, "validation", c.Train.Validation)
	case "hmm":
		args = appendIntArg(args, "states", c.Train.States)
		args = appendIntArg(args, "iters", c.Train.Iters)
		args = appendFloatArg(args, "validation", c.Train.Validation)
	}
	return args
}

// GenerateArgs renders the generation settings as flag arguments
// for the named model.
func (c *Config) GenerateArgs() []string {
	var args []string
	switch c.Model {
	case "lstm", "gru":
		args = appendIntArg(args, "length", c.Generate.Length)
		args = appendIntArg(args, "words", c.Generate.Words)
		args = appendFloatArg(args, "temperature", c.Generate.Temperature)
		if c.Generate.Seed != "" {
			args = append(args, "-seed", c.Generate.Seed)
		}
	case "markov", "hmm":
		args = appendIntArg(args, "count", c.Generate.Count)
	}
	return args
}

func appendIntArg(args []string, name string, value int) []string {
	if value == 0 {
		return args
	}
	return append(args, "-"+name, strconv.Itoa(value))
}

func appendFloatArg(args []string, name string, value *float64) []string {
	if value == nil {
		return args
	}
	return append(args, "-"+name, strconv.FormatFloat(*value, 'g', -1, 64))
}
