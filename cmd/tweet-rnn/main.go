// Command tweet-rnn trains a language model on a corpus and
// samples text from a saved checkpoint.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"

	tweetrnn "github.com/hatchery-ml/tweet-rnn"
)

const outputPermissions = 0755

func main() {
	rand.Seed(time.Now().UnixNano())
	if len(os.Args) < 2 {
		dieUsage()
	}
	switch os.Args[1] {
	case "train":
		trainCommand()
	case "gen":
		genCommand()
	case "help":
		helpCommand()
	default:
		dieUsage()
	}
}

func trainCommand() {
	if len(os.Args) < 5 {
		dieUsage()
	}

	model := modelForName(os.Args[2])
	checkpointFile := os.Args[3]

	samples, err := tweetrnn.ReadSampleList(os.Args[4])
	if err != nil {
		essentials.Die(err)
	}

	if data, err := os.ReadFile(checkpointFile); err == nil {
		x, desErr := serializer.DeserializeWithType(data)
		if desErr != nil {
			essentials.Die("Failed to deserialize model:", desErr)
		}
		var ok bool
		model, ok = x.(tweetrnn.Model)
		if !ok {
			essentials.Die(fmt.Sprintf("Loaded type was not a model but a %T", x))
		}
		log.Println("Loaded model from file.")
	} else {
		log.Println("Created new model.")
	}

	model.TrainingFlags().Parse(os.Args[5:])
	model.Train(samples)

	encoded, err := serializer.SerializeWithType(model)
	if err != nil {
		essentials.Die("Failed to serialize model:", err)
	}
	if err := os.WriteFile(checkpointFile, encoded, outputPermissions); err != nil {
		essentials.Die("Failed to save:", err)
	}
}

func genCommand() {
	if len(os.Args) < 3 {
		dieUsage()
	}

	data, err := os.ReadFile(os.Args[2])
	if err != nil {
		essentials.Die("Failed to read model:", err)
	}

	x, err := serializer.DeserializeWithType(data)
	if err != nil {
		essentials.Die(err)
	}

	model, ok := x.(tweetrnn.Model)
	if !ok {
		essentials.Die(fmt.Sprintf("Loaded type was not a model but a %T", x))
	}

	if err := generateOutput(model, os.Args[3:]); err != nil {
		essentials.Die(err)
	}
}

// generateOutput parses the model's generation flags plus an
// -out flag choosing the destination file, then generates.
func generateOutput(model tweetrnn.Model, args []string) error {
	fs := model.GenerationFlags()
	outPath := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *outPath == "" {
		return model.Generate(os.Stdout)
	}
	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	genErr := model.Generate(f)
	if closeErr := f.Close(); genErr == nil {
		genErr = closeErr
	}
	return genErr
}

func helpCommand() {
	if len(os.Args) != 3 {
		dieUsage()
	}
	m := modelForName(os.Args[2])
	fmt.Fprintf(os.Stderr, "Usage for training:\n\n")
	m.TrainingFlags().PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nUsage for generation:\n\n")
	m.GenerationFlags().PrintDefaults()
}

func dieUsage() {
	fmt.Fprintln(os.Stderr, "Usage: tweet-rnn train <model> <checkpoint> <data> [args]\n"+
		"       tweet-rnn gen <checkpoint> [args]\n"+
		"       tweet-rnn help <model>\n\n"+
		"Available models:")
	for _, m := range tweetrnn.Models() {
		fmt.Fprintln(os.Stderr, " "+m.Name())
	}
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

func modelForName(name string) tweetrnn.Model {
	m := tweetrnn.ModelForName(name)
	if m == nil {
		fmt.Fprintln(os.Stderr, "no such model: "+name)
		dieUsage()
	}
	return m
}
