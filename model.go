package tweetrnn

import (
	"flag"
	"io"

	"github.com/unixpickle/serializer"
)

// A Model is a trainable language model for predicting
// characters in a string.
//
// Each model exposes its own hyperparameters through flag sets,
// so the caller parses arguments before training or generating.
type Model interface {
	serializer.Serializer

	Name() string

	TrainingFlags() *flag.FlagSet
	GenerationFlags() *flag.FlagSet

	Train(samples SampleList)
	Generate(w io.Writer) error
}

// Models returns a fresh instance of every available model.
func Models() []Model {
	return []Model{&LSTM{}, &GRU{}, &Markov{}, &HMM{}}
}

// ModelForName returns a fresh model with the given name, or nil
// if no model has that name.
func ModelForName(name string) Model {
	for _, m := range Models() {
		if m.Name() == name {
			return m
		}
	}
	return nil
}
