package board

// EvalUpdater receives piece mutations in the exact order the position
// applies them to its own bitboards, so an incremental evaluator can stay
// in lockstep with make/unmake. Push is called once per ply before any
// feature updates for that ply; Pop once per ply retracted.
type EvalUpdater interface {
	Reset()
	Push()
	Pop()
	ActivateFeature(p Piece, sq Square)
	DeactivateFeature(p Piece, sq Square)
	MoveFeature(p Piece, from, to Square)
}

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q

	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// castleTouch[sq] holds the castling rights lost when sq is either the
// origin or destination of a move.
var castleTouch = func() [64]CastlingRights {
	var t [64]CastlingRights
	t[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	t[H1] = WhiteKingSideCastle
	t[A1] = WhiteQueenSideCastle
	t[E8] = BlackKingSideCastle | BlackQueenSideCastle
	t[H8] = BlackKingSideCastle
	t[A8] = BlackQueenSideCastle
	return t
}()

// Position represents a chess position. Moves are applied with MakeMove
// and retracted with UnmakeMove; legality is the caller's concern.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	// Occupancy bitboards (cached)
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	// Game state
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	// Zobrist hash of the position
	Hash uint64

	// King positions (cached)
	KingSquare [2]Square

	eval    EvalUpdater
	history []undoState
}

// undoState is a full snapshot taken before a move is applied. Restoring
// it wholesale keeps UnmakeMove trivially correct; the attached evaluator
// restores itself with a single Pop.
type undoState struct {
	pieces         [2][6]Bitboard
	occupied       [2]Bitboard
	allOccupied    Bitboard
	kingSquare     [2]Square
	sideToMove     Color
	castlingRights CastlingRights
	enPassant      Square
	halfMoveClock  int
	fullMoveNumber int
	hash           uint64
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)

	if p.AllOccupied&bb == 0 {
		return NoPiece
	}

	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}

	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}

	return NoPiece
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied&SquareBB(sq) == 0
}

// AttachEval attaches an incremental evaluator and loads the current
// pieces into it: the evaluator is reset to its zero-piece baseline, then
// every piece on the board is activated. Pass nil to detach.
func (p *Position) AttachEval(u EvalUpdater) {
	p.eval = u
	if u == nil {
		return
	}
	u.Reset()
	for sq := A1; sq <= H8; sq++ {
		if pc := p.PieceAt(sq); pc != NoPiece {
			u.ActivateFeature(pc, sq)
		}
	}
}

// addPiece places a piece on an empty square, updating bitboards, hash
// and the attached evaluator.
func (p *Position) addPiece(pc Piece, sq Square) {
	bb := SquareBB(sq)
	c, pt := pc.Color(), pc.Type()

	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	p.Hash ^= ZobristPiece(pc, sq)

	if pt == King {
		p.KingSquare[c] = sq
	}

	if p.eval != nil {
		p.eval.ActivateFeature(pc, sq)
	}
}

// removePiece removes a piece from a square.
func (p *Position) removePiece(pc Piece, sq Square) {
	bb := SquareBB(sq)
	c, pt := pc.Color(), pc.Type()

	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	p.Hash ^= ZobristPiece(pc, sq)

	if p.eval != nil {
		p.eval.DeactivateFeature(pc, sq)
	}
}

// movePiece relocates a piece without changing its identity.
func (p *Position) movePiece(pc Piece, from, to Square) {
	fromTo := SquareBB(from) | SquareBB(to)
	c, pt := pc.Color(), pc.Type()

	p.Pieces[c][pt] ^= fromTo
	p.Occupied[c] ^= fromTo
	p.AllOccupied ^= fromTo
	p.Hash ^= ZobristPiece(pc, from) ^ ZobristPiece(pc, to)

	if pt == King {
		p.KingSquare[c] = to
	}

	if p.eval != nil {
		p.eval.MoveFeature(pc, from, to)
	}
}

// MakeMove applies a move to the position. The move must be well formed
// for the current position (a piece on the from square, moving side to
// move); legality beyond that is not checked.
func (p *Position) MakeMove(m Move) {
	p.history = append(p.history, undoState{
		pieces:         p.Pieces,
		occupied:       p.Occupied,
		allOccupied:    p.AllOccupied,
		kingSquare:     p.KingSquare,
		sideToMove:     p.SideToMove,
		castlingRights: p.CastlingRights,
		enPassant:      p.EnPassant,
		halfMoveClock:  p.HalfMoveClock,
		fullMoveNumber: p.FullMoveNumber,
		hash:           p.Hash,
	})

	if p.eval != nil {
		p.eval.Push()
	}

	from, to := m.From(), m.To()
	moving := p.PieceAt(from)
	us := moving.Color()

	captured := NoPiece
	if !m.IsCastling() && !m.IsEnPassant() {
		captured = p.PieceAt(to)
	}

	// Clear any en passant target from the previous move.
	if p.EnPassant != NoSquare {
		p.Hash ^= ZobristEnPassant(p.EnPassant.File())
		p.EnPassant = NoSquare
	}

	switch {
	case m.IsCastling():
		p.movePiece(moving, from, to)
		rookFrom, rookTo := castleRookSquares(to)
		p.movePiece(NewPiece(Rook, us), rookFrom, rookTo)

	case m.IsEnPassant():
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		p.removePiece(NewPiece(Pawn, us.Other()), capSq)
		p.movePiece(moving, from, to)
		captured = NewPiece(Pawn, us.Other())

	case m.IsPromotion():
		if captured != NoPiece {
			p.removePiece(captured, to)
		}
		p.removePiece(moving, from)
		p.addPiece(NewPiece(m.Promotion(), us), to)

	default:
		if captured != NoPiece {
			p.removePiece(captured, to)
		}
		p.movePiece(moving, from, to)

		// A double pawn push exposes an en passant target.
		if moving.Type() == Pawn && abs(int(to)-int(from)) == 16 {
			p.EnPassant = Square((int(from) + int(to)) / 2)
			p.Hash ^= ZobristEnPassant(p.EnPassant.File())
		}
	}

	if newRights := p.CastlingRights &^ (castleTouch[from] | castleTouch[to]); newRights != p.CastlingRights {
		p.Hash ^= ZobristCastling(p.CastlingRights) ^ ZobristCastling(newRights)
		p.CastlingRights = newRights
	}

	if moving.Type() == Pawn || captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = p.SideToMove.Other()
	p.Hash ^= ZobristSideToMove()
}

// UnmakeMove retracts the most recently made move. Panics if no move has
// been made since the position was constructed.
func (p *Position) UnmakeMove() {
	if len(p.history) == 0 {
		panic("board: UnmakeMove with no move to retract")
	}

	u := p.history[len(p.history)-1]
	p.history = p.history[:len(p.history)-1]

	p.Pieces = u.pieces
	p.Occupied = u.occupied
	p.AllOccupied = u.allOccupied
	p.KingSquare = u.kingSquare
	p.SideToMove = u.sideToMove
	p.CastlingRights = u.castlingRights
	p.EnPassant = u.enPassant
	p.HalfMoveClock = u.halfMoveClock
	p.FullMoveNumber = u.fullMoveNumber
	p.Hash = u.hash

	if p.eval != nil {
		p.eval.Pop()
	}
}

// castleRookSquares returns the rook's from/to squares for a castling
// move given the king's destination.
func castleRookSquares(kingTo Square) (Square, Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	}
	panic("board: invalid castling destination " + kingTo.String())
}

// ComputeHash computes the Zobrist hash from scratch. MakeMove maintains
// the hash incrementally; this exists for construction and verification.
func (p *Position) ComputeHash() uint64 {
	var h uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				h ^= ZobristPiece(NewPiece(pt, c), sq)
			}
		}
	}

	if p.EnPassant != NoSquare {
		h ^= ZobristEnPassant(p.EnPassant.File())
	}

	h ^= ZobristCastling(p.CastlingRights)

	if p.SideToMove == Black {
		h ^= ZobristSideToMove()
	}

	return h
}
