package nnue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gannetchess/gannet/internal/board"
)

func testState(t *testing.T) *State {
	t.Helper()
	s := NewState(NewRandomNetwork(42))
	s.Reset()
	return s
}

func TestDepthInvariant(t *testing.T) {
	s := testState(t)
	require.Equal(t, 1, s.Depth())

	for i := 1; i <= 10; i++ {
		s.Push()
		require.Equal(t, 1+i, s.Depth())
	}
	for i := 9; i >= 0; i-- {
		s.Pop()
		require.Equal(t, 1+i, s.Depth())
	}

	s.Reset()
	require.Equal(t, 1, s.Depth())
}

func TestPushPopRoundTrip(t *testing.T) {
	s := testState(t)
	s.ActivateFeature(board.WhiteKing, board.E1)
	s.ActivateFeature(board.BlackKing, board.E8)
	s.ActivateFeature(board.WhitePawn, board.E2)

	// At several depths: push, mutate, pop must restore the top
	// accumulator bit for bit.
	for depth := 0; depth < 4; depth++ {
		before := *s.current()

		s.Push()
		s.MoveFeature(board.WhitePawn, board.E2, board.E4)
		s.ActivateFeature(board.BlackPawn, board.D5)
		s.Pop()

		require.Equal(t, before, *s.current(), "depth %d", depth)

		s.Push()
		s.MoveFeature(board.WhitePawn, board.E2, board.E3)
	}
}

func TestActivateDeactivateInverse(t *testing.T) {
	s := testState(t)
	s.ActivateFeature(board.WhiteQueen, board.D1)
	before := *s.current()

	s.ActivateFeature(board.BlackRook, board.A8)
	s.DeactivateFeature(board.BlackRook, board.A8)

	require.Equal(t, before, *s.current())
}

func TestMoveFusionEquivalence(t *testing.T) {
	net := NewRandomNetwork(7)

	fused := NewState(net)
	fused.Reset()
	split := NewState(net)
	split.Reset()

	for _, setup := range []struct {
		p  board.Piece
		sq board.Square
	}{
		{board.WhiteKnight, board.G1},
		{board.BlackBishop, board.C8},
		{board.WhitePawn, board.H2},
	} {
		fused.ActivateFeature(setup.p, setup.sq)
		split.ActivateFeature(setup.p, setup.sq)
	}

	moves := []struct {
		p        board.Piece
		from, to board.Square
	}{
		{board.WhiteKnight, board.G1, board.F3},
		{board.BlackBishop, board.C8, board.G4},
		{board.WhitePawn, board.H2, board.H4},
		{board.WhiteKnight, board.F3, board.E5},
	}

	for _, m := range moves {
		fused.MoveFeature(m.p, m.from, m.to)

		split.DeactivateFeature(m.p, m.from)
		split.ActivateFeature(m.p, m.to)

		require.Equal(t, *split.current(), *fused.current(),
			"%v %v-%v", m.p, m.from, m.to)
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	s := testState(t)
	s.ActivateFeature(board.WhiteKing, board.G1)
	s.ActivateFeature(board.BlackKing, board.G8)
	s.ActivateFeature(board.WhiteRook, board.D1)

	first := s.Evaluate(board.White)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, s.Evaluate(board.White))
	}

	// Evaluating must not disturb the accumulator.
	acc := *s.current()
	s.Evaluate(board.Black)
	require.Equal(t, acc, *s.current())
}

func TestCloneIsIndependent(t *testing.T) {
	s := testState(t)
	s.ActivateFeature(board.WhiteKing, board.E1)
	s.Push()
	s.ActivateFeature(board.BlackKing, board.E8)
	s.Push()
	s.ActivateFeature(board.WhiteRook, board.A1)

	c := s.Clone()
	require.Equal(t, s.Depth(), c.Depth())
	require.Equal(t, *s.current(), *c.current())

	// Mutating the source must not reach the clone, and vice versa.
	snapshot := *c.current()
	s.ActivateFeature(board.WhiteQueen, board.D1)
	require.Equal(t, snapshot, *c.current())

	c.Pop()
	require.Equal(t, 3, s.Depth())
	require.Equal(t, 2, c.Depth())
}

func TestContractViolationsPanic(t *testing.T) {
	net := NewRandomNetwork(1)

	require.Panics(t, func() { NewState(net).Push() }, "Push before Reset")
	require.Panics(t, func() { NewState(net).Pop() }, "Pop before Reset")
	require.Panics(t, func() {
		NewState(net).ActivateFeature(board.WhitePawn, board.E2)
	}, "update before Reset")
	require.Panics(t, func() { NewState(net).Evaluate(board.White) }, "Evaluate before Reset")

	s := NewState(net)
	s.Reset()
	require.Panics(t, func() { s.Pop() }, "Pop at root")

	s.Push()
	s.Pop()
	require.Panics(t, func() { s.Pop() }, "Pop back past root")

	require.Panics(t, func() { NewState(nil) }, "nil network")
}
