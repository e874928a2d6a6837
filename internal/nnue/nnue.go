// Package nnue implements the engine's incremental NNUE evaluation: a
// perspective network of architecture (768->768)x2->1 with a clipped
// activation, kept up to date across the search by an accumulator stack
// instead of being recomputed from the board at every node.
package nnue

// Network architecture constants.
const (
	// One input feature per (color, piece type, square) triple.
	NumColors  = 2
	NumTypes   = 6
	NumSquares = 64

	InputSize  = NumColors * NumTypes * NumSquares // 768
	HiddenSize = 768

	// Feature index strides: a color block spans all six piece types,
	// a piece-type block spans the 64 squares.
	colorStride = NumSquares * NumTypes
	pieceStride = NumSquares
)

// Quantization constants, fixed by the training process that produced
// the weights.
const (
	// Scale converts the raw network output into engine-internal
	// centipawn-like units.
	Scale = 400

	// QuantDenom is the combined quantization denominator of the hidden
	// activation range and the output weight scale.
	QuantDenom = 255 * 64

	// ClipMax bounds hidden activations; the quantized equivalent of a
	// saturating nonlinearity.
	ClipMax = 255
)

// clip applies the clipped activation, clamping x to [0, ClipMax].
func clip(x int16) int32 {
	if x < 0 {
		return 0
	}
	if x > ClipMax {
		return ClipMax
	}
	return int32(x)
}
