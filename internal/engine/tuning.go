package engine

// Pruning and extension toggles. Kept as compile-time constants rather than
// UCI-tunable options: flipping one off is a debugging aid, not something a
// GUI needs to expose.
const (
	EnableThreatExt       = true
	EnableRFP             = true
	EnableRazoring        = true
	EnableNMP             = true
	EnableProbcut         = true
	EnableMulticut        = true
	EnableFutilityPruning = true
	EnableSEEPruning      = true
	EnableLMP             = true
	EnableHistoryPruning  = true
	EnableSingularExt     = true
	EnableHindsightDepth  = true
)

// Depth/margin thresholds for the pruning and extension heuristics above.
const (
	threatExtensionMinDepth  = 5
	threatExtensionThreshold = RookValue

	probcutDepth = 5

	multicutDepth    = 6
	multicutMoves    = 6
	multicutRequired = 3

	historyPruningThreshold = -2000

	// lazyEvalMargin bounds the cheap material-only eval used to bail out of
	// quiescence search before computing the full static evaluation.
	lazyEvalMargin = 900
)

// lmpThreshold is the Late Move Pruning move-count cutoff per remaining depth.
var lmpThreshold = [8]int{0, 5, 8, 13, 20, 28, 38, 50}
