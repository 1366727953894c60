package tweetrnn

import (
	"bufio"
	"flag"
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/unixpickle/num-analysis/linalg"
	"github.com/unixpickle/sgd"
	"github.com/unixpickle/weakai/neuralnet"
	"github.com/unixpickle/weakai/rnn"
)

const (
	validateBatchSize = 20
	maxLanes          = 21
)

type trainToggler interface {
	toggleTraining(bool)
}

type rnnTrainingFlags struct {
	StepSize   float64
	BatchSize  int
	Embedding  int
	HiddenSize int
	Layers     int
	Dropout    float64
	HeadSize   int
	TailSize   int
	Clip       float64
	Epochs     int
	Validation float64
}

func (r *rnnTrainingFlags) trainingFlags(cmdName string) *flag.FlagSet {
	f := flag.NewFlagSet(cmdName, flag.ExitOnError)
	f.Float64Var(&r.StepSize, "step", 0.001, "step size")
	f.IntVar(&r.BatchSize, "batch", 32, "mini-batch size")
	f.IntVar(&r.Embedding, "embedding", 64, "input embedding size")
	f.IntVar(&r.HiddenSize, "hidden", 512, "hidden layer size")
	f.IntVar(&r.Layers, "layers", 2, "recurrent layer count")
	f.Float64Var(&r.Dropout, "dropout", 0.5, "dropout remain probability (1=no dropout)")
	f.IntVar(&r.HeadSize, "bptt", 50, "truncated BPTT head size")
	f.IntVar(&r.TailSize, "tail", 20, "truncated BPTT tail size")
	f.Float64Var(&r.Clip, "clip", 5, "gradient norm clip threshold (0=off)")
	f.IntVar(&r.Epochs, "epochs", 0, "epochs to train (0=until ctrl+c)")
	f.Float64Var(&r.Validation, "validation", 0.1, "validation fraction")
	return f
}

type rnnGenerationFlags struct {
	Length      int
	Words       int
	Temperature float64
	Seed        string
}

func (r *rnnGenerationFlags) generationFlags(cmdName string) *flag.FlagSet {
	f := flag.NewFlagSet(cmdName, flag.ExitOnError)
	f.IntVar(&r.Length, "length", 1000, "maximum characters to generate")
	f.IntVar(&r.Words, "words", 0, "stop after this many words (0=no word cap)")
	f.Float64Var(&r.Temperature, "temperature", 1, "sampling temperature")
	f.StringVar(&r.Seed, "seed", "", "text to prime the model with")
	return f
}

func trainRNN(b rnn.BlockLearner, t trainToggler, samples SampleList, flags *rnnTrainingFlags) {
	validation, training := samples.Partition(flags.Validation)
	log.Printf("Training: %d samples (%d bytes)", training.Len(), training.Bytes())
	log.Printf("Validation: %d samples (%d bytes)", validation.Len(), validation.Bytes())

	costFunc := neuralnet.DotCost{}
	var gradienter sgd.Gradienter = &rnn.TruncatedBPTT{
		Learner:  b,
		CostFunc: costFunc,
		MaxLanes: maxLanes,
		HeadSize: flags.HeadSize,
		TailSize: flags.TailSize,
	}
	if flags.Clip > 0 {
		gradienter = &sgd.GradientClipper{
			Gradienter: gradienter,
			Threshold:  flags.Clip,
			Norm:       sgd.L2Norm,
		}
	}
	adam := &sgd.Adam{Gradienter: gradienter}

	t.toggleTraining(true)
	defer t.toggleTraining(false)

	if flags.Epochs > 0 {
		log.Printf("Training for %d epochs (ctrl+c to stop early)...", flags.Epochs)
	} else {
		log.Println("Training (ctrl+c to stop)...")
	}

	sgd.SGDInteractive(adam, training, flags.StepSize, flags.BatchSize,
		epochLimiter(flags.Epochs, func(done int) {
			t.toggleTraining(false)
			defer t.toggleTraining(true)

			cost := (&rnn.Runner{Block: b}).TotalCost(validateBatchSize, training,
				costFunc)
			if validation.Len() > 0 {
				vCost := (&rnn.Runner{Block: b}).TotalCost(validateBatchSize, validation,
					costFunc)
				log.Printf("Epoch %d: cost=%f validation=%f", done, cost, vCost)
			} else {
				log.Printf("Epoch %d: cost=%f", done, cost)
			}
		}))
}

// epochLimiter builds the status callback for SGDInteractive,
// which runs before every training pass. The callback reports the
// number of completed passes and permits exactly limit more;
// limit 0 means train until ctrl+c.
func epochLimiter(limit int, status func(done int)) func() bool {
	var done int
	return func() bool {
		status(done)
		done++
		return limit == 0 || done <= limit
	}
}

func generateRNN(w io.Writer, b rnn.Block, t trainToggler, flags *rnnGenerationFlags) error {
	t.toggleTraining(false)

	temp := flags.Temperature
	if temp <= 0 {
		temp = 1
	}

	out := bufio.NewWriter(w)
	runner := &rnn.Runner{Block: b}
	input := oneHotByte(Terminator)
	seed := []byte(flags.Seed)

	var words int
	var inWord bool
	for i := 0; i < flags.Length; i++ {
		output := runner.StepTime(input)
		ch := byte(chooseLogIndex(output, temp))
		if i < len(seed) {
			ch = seed[i]
		}

		switch {
		case ch == Terminator:
			if inWord {
				words++
				inWord = false
			}
			if err := out.WriteByte('\n'); err != nil {
				return err
			}
			// A terminator ends the sample, so the recurrent
			// state starts over.
			runner = &rnn.Runner{Block: b}
			input = oneHotByte(Terminator)
		case ch == ' ' || ch == '\t':
			if inWord {
				words++
				inWord = false
			}
			if err := out.WriteByte(ch); err != nil {
				return err
			}
			input = oneHotByte(ch)
		default:
			inWord = true
			if err := out.WriteByte(ch); err != nil {
				return err
			}
			input = oneHotByte(ch)
		}

		if flags.Words > 0 && words >= flags.Words {
			break
		}
	}
	return out.Flush()
}

func chooseLogIndex(logProbs linalg.Vector, temp float64) int {
	n := rand.Float64()
	var sum float64
	for _, x := range logProbs {
		sum += math.Exp(x / temp)
	}
	var curSum float64
	for i, x := range logProbs {
		curSum += math.Exp(x / temp)
		if curSum/sum > n {
			return i
		}
	}
	return len(logProbs) - 1
}
