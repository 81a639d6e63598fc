package engine

import "sync/atomic"

// SharedHistory is a history-heuristic table shared by every Lazy SMP
// worker. Workers diverge in the moves they try, but a quiet move that
// causes a cutoff for one worker is also a useful hint to the rest, so a
// shared table lets them converge on good move ordering faster than any
// single worker could alone.
//
// Reads and writes use atomics rather than a mutex: the table is a
// heuristic, not a correctness-bearing structure, so a torn update
// (another worker's Add landing between a reader's load and the next
// node) is harmless. This mirrors the transposition table's tolerance of
// unsynchronised concurrent access.
type SharedHistory struct {
	scores [64][64]atomic.Int32
}

// NewSharedHistory creates an empty shared history table.
func NewSharedHistory() *SharedHistory {
	return &SharedHistory{}
}

// Get returns the shared history score for a from/to square pair.
func (sh *SharedHistory) Get(from, to int) int {
	return int(sh.scores[from][to].Load())
}

// Update adds bonus to the from/to entry and halves that entry alone once
// it passes 400000; the rest of the table is left as it is.
func (sh *SharedHistory) Update(from, to, bonus int) {
	v := sh.scores[from][to].Add(int32(bonus))
	if v > 400000 {
		sh.scores[from][to].Store(v / 2)
	}
}

// Clear resets every entry to zero, called on ucinewgame.
func (sh *SharedHistory) Clear() {
	for i := range sh.scores {
		for j := range sh.scores[i] {
			sh.scores[i][j].Store(0)
		}
	}
}
