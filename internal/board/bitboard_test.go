package board

import "testing"

func TestBitboardSetClear(t *testing.T) {
	var b Bitboard

	b = b.Set(E4).Set(A1).Set(H8)
	if b.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", b.Count())
	}
	for _, sq := range []Square{E4, A1, H8} {
		if !b.IsSet(sq) {
			t.Errorf("%v should be set", sq)
		}
	}

	b = b.Clear(E4)
	if b.IsSet(E4) {
		t.Error("E4 should be clear")
	}
	if b.Count() != 2 {
		t.Errorf("Count() = %d after clear, want 2", b.Count())
	}

	// Clearing an already clear square is a no-op.
	if b.Clear(E4) != b {
		t.Error("double clear changed the board")
	}
	if b.Set(A1) != b {
		t.Error("double set changed the board")
	}
}

func TestBitboardPopLSB(t *testing.T) {
	b := SquareBB(C3) | SquareBB(H8) | SquareBB(A1)

	for i, want := range []Square{A1, C3, H8} {
		if got := b.PopLSB(); got != want {
			t.Errorf("pop %d = %v, want %v", i, got, want)
		}
	}
	if b != 0 {
		t.Errorf("bitboard not empty after popping all bits: %v", b)
	}
}
