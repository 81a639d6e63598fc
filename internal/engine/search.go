package engine

import (
	"sync/atomic"

	"github.com/corvuschess/corvus/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs the alpha-beta search.
type Searcher struct {
	pos     *board.Position
	tt      *TranspositionTable
	orderer *MoveOrderer

	// worker carries evaluation-only state (NNUE networks/accumulator,
	// pawn-hash table) so this single-threaded searcher shares the exact
	// evaluation path used by the Lazy-SMP workers. Its search-side fields
	// (negamax, move ordering, tablebase) are unused here; Searcher does
	// its own move loop below.
	worker *Worker

	// Search state
	nodes    uint64
	stopFlag atomic.Bool

	// Root moves excluded from this search (MultiPV: moves already reported
	// as a better PV are excluded so the next search finds the next-best).
	excludedMoves []board.Move

	// Position history for repetition detection, mirroring Worker's layout.
	rootPosHashes    []uint64
	posHistoryBuffer [768]uint64
	posHistoryLen    int

	// PV tracking
	pv PVTable

	// Undo stack
	undoStack [MaxPly]board.UndoInfo
}

// NewSearcher creates a new searcher.
func NewSearcher(tt *TranspositionTable) *Searcher {
	s := &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(),
	}
	s.worker = NewWorker(-1, tt, NewPawnTable(1), nil, &s.stopFlag)
	return s
}

// SetRootHistory sets the position history from the game (for repetition
// detection), mirroring Worker.SetRootHistory.
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.rootPosHashes = make([]uint64, len(hashes))
	copy(s.rootPosHashes, hashes)
}

// ClearOrderer clears move-ordering tables (killers/history) between games.
func (s *Searcher) ClearOrderer() {
	s.orderer.Clear()
}

// evaluate returns the static evaluation of the current position, using
// NNUE when loaded (via the embedded evaluation worker) or the classical
// pawn-hashed evaluator otherwise. Unlike the Lazy-SMP workers, this
// single-threaded searcher doesn't thread incremental accumulator push/pop
// through its own make/unmake, so it forces a full accumulator recompute
// before every evaluation rather than trusting stale incremental state.
func (s *Searcher) evaluate() int {
	s.worker.pos = s.pos
	if s.worker.useNNUE && s.worker.nnueAcc != nil {
		s.worker.nnueAcc.Reset()
	}
	return s.worker.evaluate()
}

// Stop signals the search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
	s.orderer.Clear()
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// IsStopped reports whether the search was halted before completing.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// SetExcludedMoves excludes the given root moves from consideration, used by
// MultiPV to find the next-best line after a better one has been reported.
func (s *Searcher) SetExcludedMoves(moves []board.Move) {
	s.excludedMoves = moves
}

func (s *Searcher) isExcludedRootMove(ply int, move board.Move) bool {
	if ply != 0 || len(s.excludedMoves) == 0 {
		return false
	}
	for _, m := range s.excludedMoves {
		if m == move {
			return true
		}
	}
	return false
}

// Search performs the search at the given depth.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos.Copy()
	s.Reset()

	rootLen := len(s.rootPosHashes)
	if rootLen > 640 {
		rootLen = 640
		copy(s.posHistoryBuffer[:rootLen], s.rootPosHashes[len(s.rootPosHashes)-640:])
	} else {
		copy(s.posHistoryBuffer[:rootLen], s.rootPosHashes)
	}
	s.posHistoryBuffer[rootLen] = s.pos.Hash
	s.posHistoryLen = rootLen + 1

	score := s.negamax(depth, 0, -Infinity, Infinity)

	var bestMove board.Move
	if s.pv.length[0] > 0 {
		bestMove = s.pv.moves[0][0]
	}

	return bestMove, score
}

// negamax implements the negamax algorithm with alpha-beta pruning.
func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	// Check for stop signal periodically
	if s.nodes&4095 == 0 && s.stopFlag.Load() {
		return 0
	}

	s.nodes++

	// Initialize PV length for this ply
	s.pv.length[ply] = ply

	// Check for draw
	if ply > 0 && s.isDraw() {
		return 0
	}

	// Probe transposition table
	var ttMove board.Move
	ttEntry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = ttEntry.BestMove
		if int(ttEntry.Depth) >= depth {
			score := AdjustScoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	// Quiescence search at depth 0
	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	// Check if in check
	inCheck := s.pos.InCheck()

	// Generate moves
	moves := s.pos.GenerateLegalMoves()

	// Check for checkmate or stalemate
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply // Checkmate
		}
		return 0 // Stalemate
	}

	// Score and sort moves
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound

	for i := 0; i < moves.Len(); i++ {
		// Pick the best remaining move
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if s.isExcludedRootMove(ply, move) {
			continue
		}

		// Make move
		s.undoStack[ply] = s.pos.MakeMove(move)

		// Skip if move was invalid (no piece at from square); MakeMove left
		// the position untouched in this case, so there is nothing to undo.
		if !s.undoStack[ply].Valid {
			continue
		}

		s.posHistoryBuffer[s.posHistoryLen] = s.pos.Hash
		s.posHistoryLen++

		// Recursive search
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)

		s.posHistoryLen--

		// Unmake move
		s.pos.UnmakeMove(move, s.undoStack[ply])

		// Check for stop
		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				flag = TTExact

				// Update PV
				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		// Beta cutoff
		if score >= beta {
			// Store in TT
			s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove, flag == TTExact)

			// Update killer and history for quiet moves
			if !move.IsCapture(s.pos) {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
			}

			return score
		}
	}

	// Store in TT
	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove, flag == TTExact)

	return bestScore
}

// quiescence searches only captures to avoid horizon effect.
func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	// Depth limit to prevent infinite recursion
	const maxQuiescencePly = 32
	if ply >= MaxPly || ply > maxQuiescencePly {
		return s.evaluate()
	}

	// Check for stop
	if s.stopFlag.Load() {
		return 0
	}

	s.nodes++

	// Stand pat (evaluate current position)
	standPat := s.evaluate()

	if standPat >= beta {
		return beta
	}

	if standPat > alpha {
		alpha = standPat
	}

	// Delta pruning: if we're very far behind, prune
	bigDelta := QueenValue
	if standPat+bigDelta < alpha {
		return alpha
	}

	// Generate captures only
	moves := s.pos.GenerateCaptures()

	// Score captures using MVV-LVA
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		// Delta pruning for individual moves
		// Skip captures that can't improve alpha significantly
		if !s.pos.InCheck() {
			var captureValue int
			if move.IsEnPassant() {
				captureValue = PawnValue
			} else {
				capturedPiece := s.pos.PieceAt(move.To())
				if capturedPiece != board.NoPiece {
					captureValue = pieceValues[capturedPiece.Type()]
				}
			}
			if move.IsPromotion() {
				captureValue += QueenValue - PawnValue
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
		}

		// Make move
		undo := s.pos.MakeMove(move)

		// Skip if move was invalid (no piece at from square)
		if !undo.Valid {
			continue
		}

		// Recursive search
		score := -s.quiescence(ply+1, -beta, -alpha)

		// Unmake move
		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}

		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// isDraw checks for draw by repetition or 50-move rule.
func (s *Searcher) isDraw() bool {
	// 50-move rule
	if s.pos.HalfMoveClock >= 100 {
		return true
	}

	// Insufficient material
	if s.pos.IsInsufficientMaterial() {
		return true
	}

	// Repetition: the current position already occurred earlier in the root
	// history or the moves made so far this search (the buffer holds the
	// current position too, hence count >= 2)
	if s.posHistoryLen > 0 {
		currentHash := s.pos.Hash
		count := 0
		for i := 0; i < s.posHistoryLen; i++ {
			if s.posHistoryBuffer[i] == currentHash {
				count++
				if count >= 2 {
					return true
				}
			}
		}
	}

	return false
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	for i := 0; i < s.pv.length[0]; i++ {
		pv[i] = s.pv.moves[0][i]
	}
	return pv
}
