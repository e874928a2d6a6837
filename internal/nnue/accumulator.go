package nnue

import "github.com/gannetchess/gannet/internal/board"

// Accumulator caches the hidden-layer pre-activations for one search
// node, one vector per perspective. Both vectors always hold the biases
// plus the weight rows of every currently active feature.
type Accumulator struct {
	Black [HiddenSize]int16
	White [HiddenSize]int16
}

// init loads the bias vector into both perspective slots, the state of a
// position with no pieces placed yet.
func (acc *Accumulator) init(bias *[HiddenSize]int16) {
	acc.Black = *bias
	acc.White = *bias
}

// MaxDepth bounds the accumulator stack. The backing storage is sized to
// it up front so the current element never relocates mid-search.
const MaxDepth = 256

// State is the accumulator stack for one search thread. It must be
// driven in lockstep with the search's move sequence: one Push per ply
// descended (before that ply's feature updates), one Pop per ply
// retracted. It holds no synchronization; concurrent searches each need
// their own State, cloned from a common root.
//
// Calling anything but Reset on a fresh State is a contract violation
// and panics, as is popping the last element. Desynchronization here
// silently corrupts every score until the next Reset, so violations
// fail fast instead of being recoverable.
type State struct {
	net   *Network
	stack []Accumulator
	top   int
}

// NewState creates an empty State evaluating with the given network.
// Reset must be called before any other operation.
func NewState(net *Network) *State {
	if net == nil {
		panic("nnue: NewState with nil network")
	}
	return &State{
		net:   net,
		stack: make([]Accumulator, MaxDepth),
		top:   -1,
	}
}

// Clone deep-copies the state for an independent search thread. The
// clone shares only the immutable network; its current element lives in
// its own storage.
func (s *State) Clone() *State {
	c := &State{
		net:   s.net,
		stack: make([]Accumulator, MaxDepth),
		top:   s.top,
	}
	copy(c.stack, s.stack)
	return c
}

// Depth returns the number of accumulators on the stack.
func (s *State) Depth() int {
	return s.top + 1
}

// current returns the top accumulator.
func (s *State) current() *Accumulator {
	if s.top < 0 {
		panic("nnue: state used before Reset")
	}
	return &s.stack[s.top]
}

// Reset discards all history and re-establishes the single-element,
// bias-initialized baseline. The board's piece-loading loop follows up
// with one ActivateFeature per piece on the board.
func (s *State) Reset() {
	s.top = 0
	s.stack[0].init(&s.net.FeatureBiases)
}

// Push duplicates the current accumulator onto the stack, so the feature
// updates of the next ply leave the previous node's values intact.
func (s *State) Push() {
	if s.top < 0 {
		panic("nnue: Push before Reset")
	}
	if s.top+1 >= MaxDepth {
		panic("nnue: accumulator stack overflow")
	}
	s.stack[s.top+1] = s.stack[s.top]
	s.top++
}

// Pop removes the current accumulator, restoring the previous node's
// values. Popping the root is a programming error.
func (s *State) Pop() {
	if s.top < 1 {
		panic("nnue: Pop at root")
	}
	s.top--
}

// ActivateFeature adds the weight rows for a piece appearing on a square
// to the current accumulator, in both perspectives.
func (s *State) ActivateFeature(p board.Piece, sq board.Square) {
	acc := s.current()
	blackIdx, whiteIdx := FeatureIndices(p, sq)

	addRow(&acc.Black, s.net.row(blackIdx))
	addRow(&acc.White, s.net.row(whiteIdx))
}

// DeactivateFeature subtracts the weight rows for a piece disappearing
// from a square.
func (s *State) DeactivateFeature(p board.Piece, sq board.Square) {
	acc := s.current()
	blackIdx, whiteIdx := FeatureIndices(p, sq)

	subRow(&acc.Black, s.net.row(blackIdx))
	subRow(&acc.White, s.net.row(whiteIdx))
}

// MoveFeature relocates a piece between squares in one fused pass per
// perspective. Equivalent to DeactivateFeature(p, from) followed by
// ActivateFeature(p, to).
func (s *State) MoveFeature(p board.Piece, from, to board.Square) {
	acc := s.current()
	blackFrom, whiteFrom := FeatureIndices(p, from)
	blackTo, whiteTo := FeatureIndices(p, to)

	subAddRow(&acc.Black, s.net.row(blackFrom), s.net.row(blackTo))
	subAddRow(&acc.White, s.net.row(whiteFrom), s.net.row(whiteTo))
}

// Evaluate scores the current accumulator for the given side to move.
// Read-only; repeated calls with unchanged state return the same score.
func (s *State) Evaluate(stm board.Color) int {
	return s.net.Evaluate(s.current(), stm)
}

func addRow(v *[HiddenSize]int16, row []int16) {
	row = row[:HiddenSize]
	for i := range v {
		v[i] += row[i]
	}
}

func subRow(v *[HiddenSize]int16, row []int16) {
	row = row[:HiddenSize]
	for i := range v {
		v[i] -= row[i]
	}
}

func subAddRow(v *[HiddenSize]int16, sub, add []int16) {
	sub = sub[:HiddenSize]
	add = add[:HiddenSize]
	for i := range v {
		v[i] += add[i] - sub[i]
	}
}
