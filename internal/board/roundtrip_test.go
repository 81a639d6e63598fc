package board

import "testing"

// Canonical 6-field FEN strings that must survive a parse/emit round trip.
var roundTripFENs = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/8/8/8/8/8/6k1/4K2R w K - 0 1",
	"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
	"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"4k3/8/8/8/8/8/8/4K3 b - - 12 40",
}

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range roundTripFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.ToFEN(); got != fen {
			t.Errorf("round trip mismatch:\n in:  %s\n out: %s", fen, got)
		}
	}
}

func TestMoveStringRoundTrip(t *testing.T) {
	for _, fen := range roundTripFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		moves := pos.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			parsed, err := ParseMove(m.String(), pos)
			if err != nil {
				t.Fatalf("ParseMove(%q) in %s: %v", m.String(), fen, err)
			}
			if parsed != m {
				t.Errorf("move %q parsed back as %q in %s", m.String(), parsed.String(), fen)
			}
		}
	}
}

// TestMakeUnmakeRestoresPosition verifies that unmake restores every field
// of the position, including the incremental hashes, for every legal move.
func TestMakeUnmakeRestoresPosition(t *testing.T) {
	for _, fen := range roundTripFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		before := *pos
		moves := pos.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			undo := pos.MakeMove(m)
			if !undo.Valid {
				t.Fatalf("legal move %s rejected in %s", m.String(), fen)
			}
			pos.UnmakeMove(m, undo)
			if *pos != before {
				t.Errorf("position not restored after %s in %s", m.String(), fen)
			}
		}
	}
}

// TestIncrementalHashLaw plays a fixed line and verifies after every move
// that the incrementally maintained keys equal a from-scratch recompute.
func TestIncrementalHashLaw(t *testing.T) {
	pos := NewPosition()
	line := []string{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6", "b1c3", "a7a6", "c1g5", "e7e6"}

	for _, ms := range line {
		m, err := ParseMove(ms, pos)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", ms, err)
		}
		undo := pos.MakeMove(m)
		if !undo.Valid {
			t.Fatalf("move %s rejected", ms)
		}
		if pos.Hash != pos.ComputeHash() {
			t.Errorf("hash drift after %s: incremental=%016x recomputed=%016x", ms, pos.Hash, pos.ComputeHash())
		}
		if pos.PawnKey != pos.ComputePawnKey() {
			t.Errorf("pawn key drift after %s: incremental=%016x recomputed=%016x", ms, pos.PawnKey, pos.ComputePawnKey())
		}
	}
}

// TestHashLawCoversSpecialMoves exercises castling, en passant and
// promotion, the three move shapes with nonstandard hash updates.
func TestHashLawCoversSpecialMoves(t *testing.T) {
	cases := []struct {
		fen   string
		moves []string
	}{
		// Castling both sides
		{"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1", []string{"e1g1", "e8c8"}},
		// En passant capture
		{"rnbqkbnr/pppp1ppp/8/8/4pP2/8/PPPPP1PP/RNBQKBNR b KQkq f3 0 3", []string{"e4f3"}},
		// Promotion with capture available
		{"r7/1P6/8/8/8/8/6k1/4K3 w - - 0 1", []string{"b7a8q"}},
	}

	for _, tc := range cases {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
		}
		for _, ms := range tc.moves {
			m, err := ParseMove(ms, pos)
			if err != nil {
				t.Fatalf("ParseMove(%q) in %s: %v", ms, tc.fen, err)
			}
			before := *pos
			undo := pos.MakeMove(m)
			if !undo.Valid {
				t.Fatalf("move %s rejected in %s", ms, tc.fen)
			}
			if pos.Hash != pos.ComputeHash() {
				t.Errorf("hash drift after %s in %s", ms, tc.fen)
			}
			if pos.PawnKey != pos.ComputePawnKey() {
				t.Errorf("pawn key drift after %s in %s", ms, tc.fen)
			}
			cur := *pos
			pos.UnmakeMove(m, undo)
			if *pos != before {
				t.Errorf("position not restored after %s in %s", ms, tc.fen)
			}
			*pos = cur
		}
	}
}
