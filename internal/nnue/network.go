package nnue

import "github.com/gannetchess/gannet/internal/board"

// Network holds the quantized network parameters. It is loaded once,
// never mutated afterward, and shared read-only by every State; because
// of that it needs no locking even across search threads.
type Network struct {
	// FeatureWeights is a dense row-major matrix: the row for input
	// feature f occupies FeatureWeights[f*HiddenSize : (f+1)*HiddenSize].
	FeatureWeights [InputSize * HiddenSize]int16

	// FeatureBiases is added to every accumulator at initialization.
	FeatureBiases [HiddenSize]int16

	// OutputWeights holds two concatenated vectors: the first HiddenSize
	// entries are dotted with the side-to-move perspective, the second
	// HiddenSize with the opponent's.
	OutputWeights [2 * HiddenSize]int16

	OutputBias int16
}

// Evaluate computes the network output for an accumulator and side to
// move. Pure: it reads the accumulator and weights and returns a score
// in engine-internal centipawn-like units, positive favoring the side
// to move.
func (n *Network) Evaluate(acc *Accumulator, stm board.Color) int {
	var sum int32
	if stm == board.Black {
		sum = n.forward(&acc.Black, &acc.White)
	} else {
		sum = n.forward(&acc.White, &acc.Black)
	}
	return (int(sum) + int(n.OutputBias)) * Scale / QuantDenom
}

// forward applies the clipped activation to both perspective vectors and
// dots them against the two halves of the output weights, us first.
func (n *Network) forward(us, them *[HiddenSize]int16) int32 {
	var sum int32

	for i := 0; i < HiddenSize; i++ {
		sum += clip(us[i]) * int32(n.OutputWeights[i])
	}

	for i := 0; i < HiddenSize; i++ {
		sum += clip(them[i]) * int32(n.OutputWeights[HiddenSize+i])
	}

	return sum
}

// row returns the weight row for a feature index.
func (n *Network) row(feature uint32) []int16 {
	offset := feature * HiddenSize
	return n.FeatureWeights[offset : offset+HiddenSize]
}
