package engine

import (
	"sync/atomic"
	"testing"

	"github.com/corvuschess/corvus/internal/board"
)

func newTestWorker(tt *TranspositionTable, stop *atomic.Bool) *Worker {
	return NewWorker(0, tt, NewPawnTable(1), NewSharedHistory(), stop)
}

func searchPosition(t *testing.T, fen string, depth int) (board.Move, int) {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	var stop atomic.Bool
	w := newTestWorker(NewTranspositionTable(4), &stop)
	w.Reset()
	w.InitSearch(pos)
	return w.SearchDepth(depth, -Infinity, Infinity)
}

// Every search on a non-terminal position must return a move legal in it.
func TestSearchReturnsLegalMove(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
	}
	for _, fen := range fens {
		for depth := 1; depth <= 4; depth++ {
			move, _ := searchPosition(t, fen, depth)
			pos, _ := board.ParseFEN(fen)
			legal := pos.GenerateLegalMoves()
			found := false
			for i := 0; i < legal.Len(); i++ {
				if legal.Get(i) == move {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("depth %d in %s: returned %s, not legal", depth, fen, move.String())
			}
		}
	}
}

func TestCheckmatedPositionScoresMateNow(t *testing.T) {
	// Fool's mate final position, white to move and mated.
	move, score := searchPosition(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", 3)
	if move != board.NoMove {
		t.Errorf("mated position returned move %s, want none", move.String())
	}
	if score != -MateScore {
		t.Errorf("mated position score = %d, want %d", score, -MateScore)
	}
}

func TestStalematedPositionScoresZero(t *testing.T) {
	// Black king on a8 stalemated by queen and king.
	move, score := searchPosition(t, "k7/2Q5/8/8/8/8/8/4K3 b - - 0 1", 3)
	if move != board.NoMove {
		t.Errorf("stalemated position returned move %s, want none", move.String())
	}
	if score != 0 {
		t.Errorf("stalemate score = %d, want 0", score)
	}
}

func TestRepetitionDraw(t *testing.T) {
	pos := board.NewPosition()
	var hashes []uint64
	hashes = append(hashes, pos.Hash)

	// Shuffle knights back and forth until the starting position has
	// occurred again; the game history now holds its hash twice.
	line := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for _, ms := range line {
		m, err := board.ParseMove(ms, pos)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", ms, err)
		}
		pos.MakeMove(m)
		pos.UpdateCheckers()
		hashes = append(hashes, pos.Hash)
	}
	if hashes[0] != hashes[len(hashes)-1] {
		t.Fatalf("shuffle line did not return to the starting position")
	}

	var stop atomic.Bool
	w := newTestWorker(NewTranspositionTable(4), &stop)
	w.Reset()
	w.SetRootHistory(hashes)
	w.InitSearch(pos)

	// A position already repeated in the game history is scored as a draw
	// the moment the search encounters it.
	if !w.isDraw() {
		t.Errorf("repeated position not detected as draw")
	}
}

func TestFiftyMoveRuleDraw(t *testing.T) {
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 100 80")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	var stop atomic.Bool
	w := newTestWorker(NewTranspositionTable(4), &stop)
	w.Reset()
	w.InitSearch(pos)
	if !w.isDraw() {
		t.Errorf("position with half-move clock at 100 not detected as draw")
	}
}

// Two identical single-threaded searches from cleared state must agree on
// best move and node count.
func TestSearchDeterminism(t *testing.T) {
	run := func() (board.Move, uint64) {
		pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
		if err != nil {
			t.Fatalf("ParseFEN: %v", err)
		}
		var stop atomic.Bool
		w := newTestWorker(NewTranspositionTable(4), &stop)
		w.Reset()
		w.InitSearch(pos)
		var move board.Move
		for depth := 1; depth <= 5; depth++ {
			move, _ = w.SearchDepth(depth, -Infinity, Infinity)
		}
		return move, w.Nodes()
	}

	move1, nodes1 := run()
	move2, nodes2 := run()
	if move1 != move2 {
		t.Errorf("best move differs between identical searches: %s vs %s", move1.String(), move2.String())
	}
	if nodes1 != nodes2 {
		t.Errorf("node count differs between identical searches: %d vs %d", nodes1, nodes2)
	}
}
