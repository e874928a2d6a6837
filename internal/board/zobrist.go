package board

// Zobrist hash keys for position hashing.
// Generated from a PRNG with a fixed seed so keys are reproducible.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [16]uint64       // All 16 castling-right combinations
	zobristSideToMove uint64           // XOR'd in when black is to move
)

func init() {
	rng := prng(0x1E5A2D6F4C3B7A91)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// prng is an xorshift64* generator, used only for key initialization.
type prng uint64

func (p *prng) next() uint64 {
	*p ^= *p >> 12
	*p ^= *p << 25
	*p ^= *p >> 27
	return uint64(*p) * 0x2545F4914F6CDD1D
}

// ZobristPiece returns the key for a piece on a square.
func ZobristPiece(p Piece, sq Square) uint64 {
	return zobristPiece[p.Color()][p.Type()][sq]
}

// ZobristEnPassant returns the key for an en passant file.
func ZobristEnPassant(file int) uint64 {
	return zobristEnPassant[file]
}

// ZobristCastling returns the key for a castling-rights combination.
func ZobristCastling(cr CastlingRights) uint64 {
	return zobristCastling[cr]
}

// ZobristSideToMove returns the side-to-move key.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}
