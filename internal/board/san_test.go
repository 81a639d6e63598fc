package board

import "testing"

// Every legal move must survive a SAN emit/parse round trip.
func TestSANRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r7/1P4k1/8/8/8/8/8/R3K3 w Q - 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		moves := pos.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			san := m.ToSAN(pos)
			parsed, err := ParseSAN(san, pos)
			if err != nil {
				t.Fatalf("ParseSAN(%q) in %s: %v", san, fen, err)
			}
			if parsed != m {
				t.Errorf("SAN %q parsed back as %s, want %s (in %s)", san, parsed.String(), m.String(), fen)
			}
		}
	}
}

func TestSANCheckmateMarker(t *testing.T) {
	// Ra8 delivers a back-rank mate.
	pos, err := ParseFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m, err := ParseSAN("Ra8#", pos)
	if err != nil || m == NoMove {
		t.Fatalf("ParseSAN(Ra8#): move=%v err=%v", m, err)
	}
	if got := m.ToSAN(pos); got != "Ra8#" {
		t.Errorf("ToSAN = %q, want Ra8#", got)
	}
}
