// Command tweet-lab prepares corpora and runs the training
// experiments described by YAML config files.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hatchery-ml/tweet-rnn/dataset"
	"github.com/hatchery-ml/tweet-rnn/experiment"
	"github.com/hatchery-ml/tweet-rnn/internal/logger"
)

var (
	configPath   string
	dataPath     string
	outDir       string
	csvColumn    int64
	testPercent  int64
	validPercent int64
	keepPercent  int64
	randomSeed   int64
	verbose      bool
)

func main() {
	app := &cli.Command{
		Name:  "tweet-lab",
		Usage: "Corpus preparation and language-model experiments",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			runCmd(),
			splitCmd(),
			downsampleCmd(),
			postprocessCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "train a model and generate text per an experiment config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to experiment YAML",
				Required:    true,
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "data",
				Usage:       "override the config's data path",
				Destination: &dataPath,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "enable debug logging",
				Destination: &verbose,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := experiment.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if dataPath != "" {
				cfg.Data = dataPath
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			var w io.Writer = os.Stderr
			if cfg.LogFile != "" {
				f, err := os.OpenFile(cfg.LogFile,
					os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = io.MultiWriter(os.Stderr, f)
			}
			// The model packages report progress through the
			// stdlib logger; send that to the same place.
			log.SetOutput(w)

			runner := &experiment.Runner{
				Config: cfg,
				Log:    logger.Text(w, level),
			}
			man, err := runner.Run()
			if err != nil {
				return err
			}
			fmt.Printf("run %s finished: checkpoint %s\n", man.ID, man.Checkpoint)
			return nil
		},
	}
}

func splitCmd() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "split corpora into train/valid/test files",
		ArgsUsage: "<file> [<file> ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Usage:       "output directory",
				Value:       "data",
				Destination: &outDir,
			},
			&cli.Int64Flag{
				Name:        "test",
				Usage:       "percent of lines for the test file",
				Value:       10,
				Destination: &testPercent,
			},
			&cli.Int64Flag{
				Name:        "valid",
				Usage:       "percent of lines for the validation file",
				Value:       10,
				Destination: &validPercent,
			},
			&cli.Int64Flag{
				Name:        "csv-column",
				Usage:       "text column for .csv inputs",
				Value:       2,
				Destination: &csvColumn,
			},
			seedFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("split: no input files")
			}
			counts, err := dataset.Split(cmd.Args().Slice(), outDir, dataset.SplitOptions{
				TestPercent:  int(testPercent),
				ValidPercent: int(validPercent),
				CSVColumn:    int(csvColumn),
				Rand:         newRand(),
			})
			if err != nil {
				return err
			}
			fmt.Printf("train=%d valid=%d test=%d\n", counts.Train, counts.Valid,
				counts.Test)
			return nil
		},
	}
}

func downsampleCmd() *cli.Command {
	return &cli.Command{
		Name:      "downsample",
		Usage:     "keep a percentage of a corpus's lines",
		ArgsUsage: "<in> <out>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "percent",
				Usage:       "percent of lines to keep",
				Value:       10,
				Destination: &keepPercent,
			},
			seedFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("downsample: expected <in> <out>")
			}
			in, err := os.Open(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := os.Create(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			kept, total, err := dataset.Downsample(in, out, int(keepPercent), newRand())
			if closeErr := out.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}
			fmt.Printf("kept %d of %d lines\n", kept, total)
			return nil
		},
	}
}

func postprocessCmd() *cli.Command {
	return &cli.Command{
		Name:      "postprocess",
		Usage:     "clean raw generated output into one sample per line",
		ArgsUsage: "<in> <out>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("postprocess: expected <in> <out>")
			}
			in, err := os.Open(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := os.Create(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			err = dataset.Postprocess(in, out)
			if closeErr := out.Close(); err == nil {
				err = closeErr
			}
			return err
		},
	}
}

func seedFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:        "seed",
		Usage:       "random seed (0 seeds from the clock)",
		Destination: &randomSeed,
	}
}

func newRand() *rand.Rand {
	seed := randomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
