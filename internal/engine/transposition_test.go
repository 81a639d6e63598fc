package engine

import (
	"testing"
	"time"

	"github.com/corvuschess/corvus/internal/board"
)

func TestTTStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(1)

	hash := uint64(0xDEADBEEFCAFEBABE)
	move := board.NewMove(board.E2, board.E4)
	tt.Store(hash, 8, 123, TTExact, move, true)

	entry, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("probe missed immediately after store")
	}
	if entry.BestMove != move || entry.Score != 123 || entry.Depth != 8 || entry.Flag != TTExact {
		t.Errorf("entry mismatch: %+v", entry)
	}

	// A key differing only below the tag bits lands in another bucket or
	// fails the tag check; either way it must miss.
	if _, ok := tt.Probe(hash ^ 0xFFFF); ok {
		t.Error("probe hit on a different key")
	}
}

func TestTTDepthZeroEntriesProbeable(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0x1234567890ABCDEF)

	// Quiescence stores at depth 0; those entries must still be found.
	tt.Store(hash, 0, -45, TTUpperBound, board.NoMove, false)
	entry, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("depth-0 entry not probeable")
	}
	if entry.Depth != 0 || entry.Flag != TTUpperBound {
		t.Errorf("entry mismatch: %+v", entry)
	}
}

func TestTTClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0x42)
	tt.Store(hash, 5, 10, TTExact, board.NoMove, false)
	tt.Clear()
	if _, ok := tt.Probe(hash); ok {
		t.Error("probe hit after Clear")
	}
}

func TestTTReplacementPrefersDeepRecent(t *testing.T) {
	tt := NewTranspositionTable(1)

	// Fill one bucket's three slots with keys sharing the bucket index
	// but carrying distinct tags.
	base := uint64(0x100)
	k1 := base | uint64(1)<<48
	k2 := base | uint64(2)<<48
	k3 := base | uint64(3)<<48
	tt.Store(k1, 12, 1, TTExact, board.NoMove, false)
	tt.Store(k2, 2, 2, TTExact, board.NoMove, false)
	tt.Store(k3, 9, 3, TTExact, board.NoMove, false)

	// A fourth key in the same bucket must evict the shallowest entry.
	k4 := base | uint64(4)<<48
	tt.Store(k4, 6, 4, TTExact, board.NoMove, false)

	if _, ok := tt.Probe(k2); ok {
		t.Error("shallowest entry survived replacement")
	}
	for _, k := range []uint64{k1, k3, k4} {
		if _, ok := tt.Probe(k); !ok {
			t.Errorf("deep/new entry %x was evicted", k)
		}
	}
}

func TestTTMateScoreAdjustment(t *testing.T) {
	// A mate found at ply 4 stored from ply 2 must read back rebased.
	stored := AdjustScoreToTT(MateScore-4, 2)
	read := AdjustScoreFromTT(stored, 6)
	if read != MateScore-8 {
		t.Errorf("mate score after store/probe at different height = %d, want %d", read, MateScore-8)
	}

	// Ordinary scores pass through untouched.
	if AdjustScoreFromTT(AdjustScoreToTT(150, 3), 9) != 150 {
		t.Error("non-mate score altered by TT adjustment")
	}
}

func TestTimeManagerMoveTime(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(UCILimits{MoveTime: 2 * time.Second, MoveOverhead: 100 * time.Millisecond}, board.White, 10)
	if tm.OptimumTime() != 1900*time.Millisecond {
		t.Errorf("optimum = %v, want 1.9s", tm.OptimumTime())
	}
	if tm.MaximumTime() != 1900*time.Millisecond {
		t.Errorf("maximum = %v, want 1.9s", tm.MaximumTime())
	}
}

func TestTimeManagerSuddenDeath(t *testing.T) {
	var limits UCILimits
	limits.Time[board.White] = 60 * time.Second
	limits.Inc[board.White] = 1 * time.Second
	tm := NewTimeManager()
	tm.Init(limits, board.White, 20)

	// Ideal share: 60s/30 + 750ms = 2.75s; well under the quarter-clock cap.
	if tm.OptimumTime() != 2750*time.Millisecond {
		t.Errorf("optimum = %v, want 2.75s", tm.OptimumTime())
	}
	// Hard deadline: 6x ideal = 16.5s, under half the clock.
	if tm.MaximumTime() != 16500*time.Millisecond {
		t.Errorf("maximum = %v, want 16.5s", tm.MaximumTime())
	}
}

func TestTimeManagerNeverCommitsHalfTheClock(t *testing.T) {
	var limits UCILimits
	limits.Time[board.White] = 2 * time.Second
	limits.Inc[board.White] = 5 * time.Second
	limits.MovesToGo = 1
	tm := NewTimeManager()
	tm.Init(limits, board.White, 40)

	if tm.OptimumTime() > limits.Time[board.White]/4 {
		t.Errorf("optimum %v exceeds a quarter of the clock", tm.OptimumTime())
	}
	if tm.MaximumTime() > limits.Time[board.White]/2 {
		t.Errorf("maximum %v exceeds half the clock", tm.MaximumTime())
	}
}
