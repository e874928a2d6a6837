package nnue

import "github.com/gannetchess/gannet/internal/board"

// FeatureIndices maps a piece on a square to its two input-feature
// indices, one per perspective.
//
// The white-perspective index places white pieces in the second color
// block (colorBit 1) and uses the square as-is; the black-perspective
// index uses the opposite color block and mirrors the square vertically,
// so each perspective sees its own pawns advancing up the board. The two
// views are deliberately asymmetric: which accumulator is dotted against
// which output-weight half depends on the side to move, letting the
// network learn a tempo signal.
//
// Callers must not pass NoPiece or NoSquare; this is a contract, not a
// checked error.
func FeatureIndices(p board.Piece, sq board.Square) (blackIdx, whiteIdx uint32) {
	pt := uint32(p.Type())

	var colorBit uint32
	if p.Color() == board.White {
		colorBit = 1
	}

	whiteIdx = colorBit*colorStride + pt*pieceStride + uint32(sq)
	blackIdx = (1-colorBit)*colorStride + pt*pieceStride + uint32(sq.Mirror())
	return blackIdx, whiteIdx
}
