package tweetrnn

import (
	"flag"
	"io"
	"math/rand"

	"github.com/unixpickle/serializer"
	"github.com/unixpickle/weakai/neuralnet"
	"github.com/unixpickle/weakai/rnn"
)

const lstmRandomCoefficient = 0.05

func init() {
	var l LSTM
	serializer.RegisterTypedDeserializer(l.SerializerType(), DeserializeLSTM)
}

// LSTM is a Model for stacked long short-term memory networks.
type LSTM struct {
	rnnTrainingFlags
	rnnGenerationFlags

	Block rnn.StackedBlock
}

func DeserializeLSTM(d []byte) (*LSTM, error) {
	block, err := rnn.DeserializeStackedBlock(d)
	if err != nil {
		return nil, err
	}
	return &LSTM{Block: block.(rnn.StackedBlock)}, nil
}

func (l *LSTM) Name() string {
	return "lstm"
}

func (l *LSTM) TrainingFlags() *flag.FlagSet {
	return l.trainingFlags(l.Name())
}

func (l *LSTM) GenerationFlags() *flag.FlagSet {
	return l.generationFlags(l.Name())
}

func (l *LSTM) Train(samples SampleList) {
	l.makeNetwork()
	trainRNN(l.Block, l, samples, &l.rnnTrainingFlags)
}

func (l *LSTM) Generate(w io.Writer) error {
	return generateRNN(w, l.Block, l, &l.rnnGenerationFlags)
}

func (l *LSTM) SerializerType() string {
	return "github.com/hatchery-ml/tweet-rnn.LSTM"
}

func (l *LSTM) Serialize() ([]byte, error) {
	return l.Block.Serialize()
}

func (l *LSTM) makeNetwork() {
	if l.Block != nil {
		return
	}

	embedding := neuralnet.Network{
		&neuralnet.DenseLayer{
			InputCount:  CharCount,
			OutputCount: l.Embedding,
		},
	}
	embedding.Randomize()
	l.Block = append(l.Block, rnn.NewNetworkBlock(embedding, 0))

	inputSize := l.Embedding
	for i := 0; i < l.Layers; i++ {
		layer := rnn.NewLSTM(inputSize, l.HiddenSize)
		l.Block = append(l.Block, layer)
		inputSize = l.HiddenSize

		for j, param := range layer.Parameters() {
			if j%2 == 0 {
				for k := range param.Vector {
					param.Vector[k] = rand.NormFloat64() * lstmRandomCoefficient
				}
			}
		}

		// Start with mostly-closed input and output gates.
		inputBiases := layer.Parameters()[3]
		for j := range inputBiases.Vector {
			inputBiases.Vector[j] = -1
		}
		outputBiases := layer.Parameters()[7]
		for j := range outputBiases.Vector {
			outputBiases.Vector[j] = -2
		}
	}

	outputNet := neuralnet.Network{
		&neuralnet.DropoutLayer{
			KeepProbability: l.Dropout,
			Training:        true,
		},
		&neuralnet.DenseLayer{
			InputCount:  l.HiddenSize,
			OutputCount: CharCount,
		},
		&neuralnet.LogSoftmaxLayer{},
	}
	outputNet.Randomize()
	l.Block = append(l.Block, rnn.NewNetworkBlock(outputNet, 0))
}

func (l *LSTM) toggleTraining(training bool) {
	outBlock := l.Block[len(l.Block)-1].(*rnn.NetworkBlock)
	dropout := outBlock.Network()[0].(*neuralnet.DropoutLayer)
	dropout.Training = training
}
