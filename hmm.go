package tweetrnn

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"flag"
	"io"
	"log"
	"runtime"
	"sync"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/hmm"
	"github.com/unixpickle/rip"
	"github.com/unixpickle/serializer"
)

func init() {
	var h HMM
	serializer.RegisterTypedDeserializer(h.SerializerType(), DeserializeHMM)

	gob.Register(hmm.TabularEmitter{})
}

// HMM is a Model for a character-level hidden Markov model.
type HMM struct {
	HMM       *hmm.HMM
	NumStates int

	Validation float64
	Iters      int
	Count      int
}

func DeserializeHMM(d []byte) (*HMM, error) {
	dec := gob.NewDecoder(bytes.NewReader(d))
	var res *HMM
	if err := dec.Decode(&res); err != nil {
		return nil, essentials.AddCtx("deserialize HMM", err)
	}
	return res, nil
}

func (h *HMM) Name() string {
	return "hmm"
}

func (h *HMM) TrainingFlags() *flag.FlagSet {
	f := flag.NewFlagSet("hmm", flag.ExitOnError)
	f.IntVar(&h.NumStates, "states", 200, "number of hidden states")
	f.IntVar(&h.Iters, "iters", 0, "Baum-Welch iterations (0=until ctrl+c)")
	f.Float64Var(&h.Validation, "validation", 0.1, "validation fraction")
	return f
}

func (h *HMM) GenerationFlags() *flag.FlagSet {
	f := flag.NewFlagSet("hmm", flag.ExitOnError)
	f.IntVar(&h.Count, "count", 1, "number of samples to generate")
	return f
}

func (h *HMM) Train(s SampleList) {
	validation, training := s.Partition(h.Validation)
	log.Printf("Training: %d samples (%d bytes)", training.Len(), training.Bytes())
	log.Printf("Validation: %d samples (%d bytes)", validation.Len(), validation.Bytes())

	if h.HMM == nil {
		h.initModel()
	}

	log.Println("Computing initial loss...")
	log.Printf("initial: train_loss=%f val_loss=%f", h.meanLoss(training),
		h.meanLoss(validation))

	log.Println("Training (press ctrl+c to terminate)...")
	r := rip.NewRIP()
	defer r.Close()
	for i := 0; !r.Done() && (h.Iters == 0 || i < h.Iters); i++ {
		h.HMM = hmm.BaumWelch(h.HMM, h.samplesToChan(training), 0)
		log.Printf("iter %d: train_loss=%f val_loss=%f", i,
			h.meanLoss(training), h.meanLoss(validation))
	}
}

func (h *HMM) Generate(w io.Writer) error {
	out := bufio.NewWriter(w)
	for i := 0; i < h.Count; i++ {
		_, seq := h.HMM.Sample(nil)
		for _, character := range seq {
			if err := out.WriteByte(character.(byte)); err != nil {
				return err
			}
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return out.Flush()
}

func (h *HMM) SerializerType() string {
	return "github.com/hatchery-ml/tweet-rnn.HMM"
}

func (h *HMM) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(h); err != nil {
		return nil, essentials.AddCtx("serialize HMM", err)
	}
	return buf.Bytes(), nil
}

func (h *HMM) initModel() {
	var states []hmm.State
	for i := 0; i < h.NumStates; i++ {
		states = append(states, i)
	}
	var obses []hmm.Obs
	for i := 0; i < CharCount; i++ {
		obses = append(obses, byte(i))
	}
	h.HMM = hmm.RandomHMM(nil, states, 0, obses)
}

func (h *HMM) meanLoss(samples SampleList) float64 {
	var total float64
	var divisor int

	var lock sync.Mutex
	var wg sync.WaitGroup

	ch := h.samplesToChan(samples)
	for i := 0; i < runtime.GOMAXPROCS(0); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sample := range ch {
				loss := hmm.NewForwardBackward(h.HMM, sample).LogLikelihood()

				lock.Lock()
				// Add 1 for the terminal symbol.
				divisor += len(sample) + 1
				total += loss
				lock.Unlock()
			}
		}()
	}

	wg.Wait()

	return total / float64(divisor)
}

func (h *HMM) samplesToChan(samples SampleList) <-chan []hmm.Obs {
	res := make(chan []hmm.Obs, 1)
	go func() {
		for _, seq := range samples {
			var obses []hmm.Obs
			for _, b := range seq {
				obses = append(obses, b)
			}
			res <- obses
		}
		close(res)
	}()
	return res
}
