package board

import "testing"

func TestParseFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"rnbqkbnr/pp2pppp/8/2ppP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"r3k2r/pppq1ppp/2np1n2/4p3/4P3/2NP1N2/PPPQ1PPP/R3K2R w KQkq - 4 8",
		"8/8/8/8/8/8/k6K/8 w - - 12 40",
		"4k3/P7/8/8/8/8/7K/8 w - - 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN round trip:\n got  %q\n want %q", got, fen)
		}
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",            // missing fields
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",        // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w - - 0 1",  // bad piece
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x - - 0 1",  // bad stm
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KZ - 0 1", // bad castling
	}

	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) should fail", fen)
		}
	}
}

func TestStartingPosition(t *testing.T) {
	pos := NewPosition()

	if pos.SideToMove != White {
		t.Error("white moves first")
	}
	if pos.KingSquare[White] != E1 || pos.KingSquare[Black] != E8 {
		t.Errorf("kings at %v/%v", pos.KingSquare[White], pos.KingSquare[Black])
	}
	if pos.AllOccupied.Count() != 32 {
		t.Errorf("starting position has %d pieces", pos.AllOccupied.Count())
	}
	if pos.PieceAt(D1) != WhiteQueen || pos.PieceAt(D8) != BlackQueen {
		t.Error("queens misplaced")
	}
	if pos.CastlingRights != AllCastling {
		t.Errorf("castling rights = %v, want %v", pos.CastlingRights, AllCastling)
	}
	if pos.Hash != pos.ComputeHash() {
		t.Error("hash mismatch after parse")
	}
}

func TestMakeMoveShapes(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		moves []string
		want  string
	}{
		{
			"double push sets en passant",
			StartFEN,
			[]string{"e2e4"},
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		},
		{
			"reply clears and resets en passant",
			StartFEN,
			[]string{"e2e4", "e7e5"},
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		},
		{
			"en passant capture removes the bypassed pawn",
			"rnbqkbnr/pp2pppp/8/2ppP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
			[]string{"e5d6"},
			"rnbqkbnr/pp2pppp/3P4/2p5/8/8/PPPP1PPP/RNBQKBNR b KQkq - 0 3",
		},
		{
			"kingside castling moves both king and rook",
			"r3k2r/pppq1ppp/2np1n2/4p3/4P3/2NP1N2/PPPQ1PPP/R3K2R w KQkq - 4 8",
			[]string{"e1g1"},
			"r3k2r/pppq1ppp/2np1n2/4p3/4P3/2NP1N2/PPPQ1PPP/R4RK1 b kq - 5 8",
		},
		{
			"queenside castling",
			"r3k2r/pppq1ppp/2np1n2/4p3/4P3/2NP1N2/PPPQ1PPP/R3K2R w KQkq - 4 8",
			[]string{"e1c1", "e8c8"},
			"2kr3r/pppq1ppp/2np1n2/4p3/4P3/2NP1N2/PPPQ1PPP/2KR3R w - - 6 9",
		},
		{
			"promotion replaces the pawn",
			"4k3/P7/8/8/8/8/7K/8 w - - 0 1",
			[]string{"a7a8q"},
			"Q3k3/8/8/8/8/8/7K/8 b - - 0 1",
		},
		{
			"rook capture strips castling rights",
			"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			[]string{"a1a8"},
			"R3k2r/8/8/8/8/8/8/4K2R b Kk - 0 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}

			for _, uci := range tc.moves {
				m, err := ParseMove(uci, pos)
				if err != nil {
					t.Fatalf("%s: %v", uci, err)
				}
				pos.MakeMove(m)
			}

			if got := pos.FEN(); got != tc.want {
				t.Errorf("after %v:\n got  %q\n want %q", tc.moves, got, tc.want)
			}
			if pos.Hash != pos.ComputeHash() {
				t.Error("incremental hash diverged from full recomputation")
			}
		})
	}
}

func TestUnmakeMoveRestoresEverything(t *testing.T) {
	pos, err := ParseFEN("r3k2r/pppq1ppp/2np1n2/4p3/4P3/2NP1N2/PPPQ1PPP/R3K2R w KQkq - 4 8")
	if err != nil {
		t.Fatal(err)
	}

	wantFEN := pos.FEN()
	wantHash := pos.Hash

	moves := []string{"e1g1", "e8c8", "d3d4", "e5d4", "f3d4"}
	for _, uci := range moves {
		m, err := ParseMove(uci, pos)
		if err != nil {
			t.Fatalf("%s: %v", uci, err)
		}
		pos.MakeMove(m)
	}

	for range moves {
		pos.UnmakeMove()
	}

	if got := pos.FEN(); got != wantFEN {
		t.Errorf("FEN not restored:\n got  %q\n want %q", got, wantFEN)
	}
	if pos.Hash != wantHash {
		t.Error("hash not restored")
	}
}

func TestUnmakeWithoutMakePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewPosition().UnmakeMove()
}

func TestHalfMoveClockResets(t *testing.T) {
	pos, err := ParseFEN("7k/8/8/3p4/8/3K4/3R4/8 w - - 30 70")
	if err != nil {
		t.Fatal(err)
	}

	m, _ := ParseMove("d2e2", pos)
	pos.MakeMove(m)
	if pos.HalfMoveClock != 31 {
		t.Errorf("quiet rook move: clock = %d, want 31", pos.HalfMoveClock)
	}

	pos.UnmakeMove()
	m, _ = ParseMove("d2d5", pos)
	pos.MakeMove(m)
	if pos.HalfMoveClock != 0 {
		t.Errorf("capture: clock = %d, want 0", pos.HalfMoveClock)
	}
}
