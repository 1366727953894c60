package tweetrnn

import (
	"flag"
	"io"
	"math/rand"

	"github.com/unixpickle/serializer"
	"github.com/unixpickle/weakai/neuralnet"
	"github.com/unixpickle/weakai/rnn"
)

const gruRandomCoefficient = 0.05

func init() {
	var g GRU
	serializer.RegisterTypedDeserializer(g.SerializerType(), DeserializeGRU)
}

// GRU is a Model for stacked gated recurrent unit networks.
type GRU struct {
	rnnTrainingFlags
	rnnGenerationFlags

	Block rnn.StackedBlock
}

func DeserializeGRU(d []byte) (*GRU, error) {
	block, err := rnn.DeserializeStackedBlock(d)
	if err != nil {
		return nil, err
	}
	return &GRU{Block: block.(rnn.StackedBlock)}, nil
}

func (g *GRU) Name() string {
	return "gru"
}

func (g *GRU) TrainingFlags() *flag.FlagSet {
	return g.trainingFlags(g.Name())
}

func (g *GRU) GenerationFlags() *flag.FlagSet {
	return g.generationFlags(g.Name())
}

func (g *GRU) Train(samples SampleList) {
	g.makeNetwork()
	trainRNN(g.Block, g, samples, &g.rnnTrainingFlags)
}

func (g *GRU) Generate(w io.Writer) error {
	return generateRNN(w, g.Block, g, &g.rnnGenerationFlags)
}

func (g *GRU) SerializerType() string {
	return "github.com/hatchery-ml/tweet-rnn.GRU"
}

func (g *GRU) Serialize() ([]byte, error) {
	return g.Block.Serialize()
}

func (g *GRU) makeNetwork() {
	if g.Block != nil {
		return
	}

	embedding := neuralnet.Network{
		&neuralnet.DenseLayer{
			InputCount:  CharCount,
			OutputCount: g.Embedding,
		},
	}
	embedding.Randomize()
	g.Block = append(g.Block, rnn.NewNetworkBlock(embedding, 0))

	inputSize := g.Embedding
	for i := 0; i < g.Layers; i++ {
		layer := rnn.NewGRU(inputSize, g.HiddenSize)
		g.Block = append(g.Block, layer)
		inputSize = g.HiddenSize

		for j, param := range layer.Parameters() {
			if j%2 == 0 {
				for k := range param.Vector {
					param.Vector[k] = rand.NormFloat64() * gruRandomCoefficient
				}
			}
		}
	}

	outputNet := neuralnet.Network{
		&neuralnet.DropoutLayer{
			KeepProbability: g.Dropout,
			Training:        true,
		},
		&neuralnet.DenseLayer{
			InputCount:  g.HiddenSize,
			OutputCount: CharCount,
		},
		&neuralnet.LogSoftmaxLayer{},
	}
	outputNet.Randomize()
	g.Block = append(g.Block, rnn.NewNetworkBlock(outputNet, 0))
}

func (g *GRU) toggleTraining(training bool) {
	outBlock := g.Block[len(g.Block)-1].(*rnn.NetworkBlock)
	dropout := outBlock.Network()[0].(*neuralnet.DropoutLayer)
	dropout.Training = training
}
