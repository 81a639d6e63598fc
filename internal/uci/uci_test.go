package uci

import (
	"strings"
	"testing"
	"time"

	"github.com/corvuschess/corvus/internal/board"
	"github.com/corvuschess/corvus/internal/engine"
)

func newTestUCI() *UCI {
	return New(engine.NewEngine(1))
}

func TestParseGoOptions(t *testing.T) {
	u := newTestUCI()
	opts := u.parseGoOptions(strings.Fields("wtime 300000 btime 290000 winc 2000 binc 2000 movestogo 35"))

	if opts.WTime != 300*time.Second || opts.BTime != 290*time.Second {
		t.Errorf("clock parse: wtime=%v btime=%v", opts.WTime, opts.BTime)
	}
	if opts.WInc != 2*time.Second || opts.BInc != 2*time.Second {
		t.Errorf("increment parse: winc=%v binc=%v", opts.WInc, opts.BInc)
	}
	if opts.MovesToGo != 35 {
		t.Errorf("movestogo = %d, want 35", opts.MovesToGo)
	}

	opts = u.parseGoOptions(strings.Fields("depth 12 infinite ponder"))
	if opts.Depth != 12 || !opts.Infinite || !opts.Ponder {
		t.Errorf("flag parse: %+v", opts)
	}
}

func TestCalculateLimitsInfinite(t *testing.T) {
	u := newTestUCI()
	limits := u.calculateLimits(GoOptions{Infinite: true, Depth: 9})
	if !limits.Infinite {
		t.Error("infinite not carried into limits")
	}
	if limits.Depth != 0 {
		t.Error("infinite search must ignore other limits")
	}
}

func TestParseMoveResolvesPromotionsAndCastling(t *testing.T) {
	u := newTestUCI()
	u.handlePosition(strings.Fields("fen 8/1P4k1/8/8/8/8/8/R3K3 w Q - 0 1"))

	m := u.parseMove("b7b8q")
	if m == board.NoMove || !m.IsPromotion() || m.Promotion() != board.Queen {
		t.Errorf("promotion parse failed: %v", m)
	}

	m = u.parseMove("e1c1")
	if m == board.NoMove || !m.IsCastling() {
		t.Errorf("castling parse failed: %v", m)
	}

	if u.parseMove("e1e8") != board.NoMove {
		t.Error("illegal move accepted")
	}
}

func TestHandlePositionAppliesMoves(t *testing.T) {
	u := newTestUCI()
	u.handlePosition(strings.Fields("startpos moves e2e4 e7e5"))

	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"
	if got := u.position.ToFEN(); got != want {
		t.Errorf("position after moves:\n got:  %s\n want: %s", got, want)
	}
}

func TestHandlePositionResetsHistoryOnIrreversibleMove(t *testing.T) {
	u := newTestUCI()
	u.handlePosition(strings.Fields("startpos moves g1f3 g8f6 f3g1 f6g8 e2e4"))

	// The pawn push zeroes the half-move clock; everything before it can
	// never recur, so the repetition history restarts at that point.
	if len(u.positionHashes) != 1 {
		t.Errorf("history length after irreversible move = %d, want 1", len(u.positionHashes))
	}
	if u.positionHashes[0] != u.position.Hash {
		t.Error("history does not end at the current position")
	}
}

func TestHandlePositionStopsAtIllegalMove(t *testing.T) {
	u := newTestUCI()
	u.handlePosition(strings.Fields("startpos moves e2e4 e2e4 d2d4"))

	// The second e2e4 is illegal; the board reflects only the first move.
	if u.position.SideToMove != board.Black {
		t.Errorf("board should reflect exactly one applied move")
	}
}

func TestHandlePositionRejectsBadFEN(t *testing.T) {
	u := newTestUCI()
	u.handlePosition(strings.Fields("startpos moves e2e4"))
	before := u.position.ToFEN()

	u.handlePosition(strings.Fields("fen not/a/fen w"))
	if u.position.ToFEN() != before {
		t.Error("board changed after invalid FEN")
	}
}
