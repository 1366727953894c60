package tweetrnn

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"flag"
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var m Markov
	serializer.RegisterTypedDeserializer(m.SerializerType(), DeserializeMarkov)
}

const markovEntropySoftener = 1e-5

// Markov is a Model for a character-level Markov chain.
//
// It makes a cheap baseline to compare the recurrent models
// against.
type Markov struct {
	// Table keys are raw byte windows, not necessarily valid
	// UTF-8, so checkpoints use gob rather than a text codec.
	Table   map[string]map[byte]float64
	History int

	Validation float64
	Count      int
}

func DeserializeMarkov(d []byte) (*Markov, error) {
	var res Markov
	dec := gob.NewDecoder(bytes.NewReader(d))
	if err := dec.Decode(&res); err != nil {
		return nil, essentials.AddCtx("deserialize markov", err)
	}
	return &res, nil
}

func (m *Markov) Name() string {
	return "markov"
}

func (m *Markov) TrainingFlags() *flag.FlagSet {
	f := flag.NewFlagSet("markov", flag.ExitOnError)
	f.IntVar(&m.History, "history", 3, "character history size")
	f.Float64Var(&m.Validation, "validation", 0.1, "validation fraction")
	return f
}

func (m *Markov) GenerationFlags() *flag.FlagSet {
	f := flag.NewFlagSet("markov", flag.ExitOnError)
	f.IntVar(&m.Count, "count", 1, "number of samples to generate")
	return f
}

func (m *Markov) Train(s SampleList) {
	validation, training := s.Partition(m.Validation)
	log.Printf("Training: %d samples (%d bytes)", training.Len(), training.Bytes())
	log.Printf("Validation: %d samples (%d bytes)", validation.Len(), validation.Bytes())

	m.Table = map[string]map[byte]float64{}
	totals := map[string]float64{}

	log.Println("Producing chain...")
	for _, sample := range training {
		stateBytes := []byte{}
		for _, ch := range append(append([]byte{}, sample...), Terminator) {
			stateStr := string(stateBytes)
			if m.Table[stateStr] == nil {
				m.Table[stateStr] = map[byte]float64{}
			}
			m.Table[stateStr][ch]++
			totals[stateStr]++

			stateBytes = m.appendState(stateBytes, ch)
		}
	}

	log.Println("Normalizing chain...")
	for state, total := range totals {
		for k, v := range m.Table[state] {
			m.Table[state][k] = v / total
		}
	}

	log.Println("Training entropy:", m.averageEntropy(training))
	if validation.Len() > 0 {
		log.Println("Validation entropy:", m.averageEntropy(validation))
	}
}

func (m *Markov) Generate(w io.Writer) error {
	out := bufio.NewWriter(w)
	for i := 0; i < m.Count; i++ {
		state := []byte{}
		for {
			next := m.selectRandom(state)
			if next == Terminator {
				break
			}
			if err := out.WriteByte(next); err != nil {
				return err
			}
			state = m.appendState(state, next)
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return out.Flush()
}

func (m *Markov) SerializerType() string {
	return "github.com/hatchery-ml/tweet-rnn.Markov"
}

func (m *Markov) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, essentials.AddCtx("serialize markov", err)
	}
	return buf.Bytes(), nil
}

func (m *Markov) averageEntropy(s SampleList) float64 {
	var totalEntropy float64
	var charCount float64
	for _, sample := range s {
		totalEntropy += m.sampleEntropy(sample)
		charCount += float64(len(sample))
	}
	return totalEntropy / charCount
}

func (m *Markov) sampleEntropy(sample []byte) float64 {
	entropy := 0.0
	state := []byte{}
	for _, b := range sample {
		p := m.Table[string(state)][b]
		if p == 0 {
			p = markovEntropySoftener
		}
		entropy += math.Log(p)
		state = m.appendState(state, b)
	}
	return -entropy
}

func (m *Markov) selectRandom(state []byte) byte {
	next := m.Table[string(state)]
	if len(next) == 0 {
		return Terminator
	}
	selection := rand.Float64()
	for b, prob := range next {
		selection -= prob
		if selection < 0 {
			return b
		}
	}
	return Terminator
}

func (m *Markov) appendState(state []byte, b byte) []byte {
	state = append(state, b)
	if len(state) > m.History {
		copy(state, state[1:])
		state = state[:len(state)-1]
	}
	return state
}
