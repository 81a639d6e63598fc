package tablebase

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/corvuschess/corvus/internal/board"
)

// SyzygyProber serves WDL/DTZ lookups for a configured Syzygy directory.
// It inspects the directory to report what coverage exists locally, but the
// probing backend itself is the Lichess tablebase API (no pure Go Syzygy
// file reader exists); Available is therefore always true once the prober
// is constructed, and every probe is an online lookup. The prober is only
// wired up when the SyzygyPath option is set.
type SyzygyProber struct {
	path      string
	maxPieces int
	available bool
	fallback  Prober
	mu        sync.RWMutex
}

// NewSyzygyProber creates a new Syzygy prober for the given directory.
func NewSyzygyProber(path string) *SyzygyProber {
	sp := &SyzygyProber{
		path:     path,
		fallback: NewCachedLichessProber(),
	}
	sp.refresh()
	return sp
}

// refresh scans the directory and records local tablebase coverage.
func (sp *SyzygyProber) refresh() {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if _, err := os.Stat(sp.path); err != nil {
		sp.available = false
		sp.maxPieces = 0
		log.Printf("[Syzygy] Path does not exist: %s, using Lichess API", sp.path)
		return
	}

	sp.maxPieces = sp.scanMaxPieces()
	sp.available = sp.maxPieces > 0

	if sp.available {
		log.Printf("[Syzygy] Found local tablebases at %s (max %d pieces)", sp.path, sp.maxPieces)
	} else {
		log.Printf("[Syzygy] No local tablebases found at %s, using Lichess API", sp.path)
	}
}

// scanMaxPieces walks the WDL files in the directory and returns the
// largest piece count any of them covers. Caller holds sp.mu.
func (sp *SyzygyProber) scanMaxPieces() int {
	entries, err := filepath.Glob(filepath.Join(sp.path, "*.rtbw"))
	if err != nil {
		return 0
	}

	maxPieces := 0
	for _, path := range entries {
		if n := piecesFromTableName(filepath.Base(path)); n > maxPieces {
			maxPieces = n
		}
	}
	return maxPieces
}

// piecesFromTableName counts the pieces a table file covers from its
// material name, e.g. "KQvKR.rtbw" -> 4.
func piecesFromTableName(name string) int {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	count := 0
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case 'K', 'Q', 'R', 'B', 'N', 'P':
			count++
		}
	}
	return count
}

// Probe looks up a position in the tablebase.
func (sp *SyzygyProber) Probe(pos *board.Position) ProbeResult {
	if CountPieces(pos) > 7 {
		return ProbeResult{Found: false}
	}
	return sp.fallback.Probe(pos)
}

// ProbeRoot finds the best move from the tablebase.
func (sp *SyzygyProber) ProbeRoot(pos *board.Position) RootResult {
	if CountPieces(pos) > 7 {
		return RootResult{Found: false}
	}
	return sp.fallback.ProbeRoot(pos)
}

// MaxPieces returns the maximum number of pieces supported. The Lichess
// backend covers up to 7-piece endgames regardless of local files.
func (sp *SyzygyProber) MaxPieces() int {
	return 7
}

// Available reports whether probing can serve results. Always true: every
// probe goes through the online backend, whatever the local directory
// holds. A probe that fails over the network simply reports Found=false
// and the search falls through to normal evaluation.
func (sp *SyzygyProber) Available() bool {
	return true
}
