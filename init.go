package chess

import "sync"

var initOnce sync.Once

// Init populates every process-global, read-only table this package
// depends on: square distances, leaper/line/between tables, the magic
// bitboard move tables, and the Zobrist tables. It is idempotent and safe
// to call from multiple goroutines; only the first call does any work.
//
// Init must happen-before any Position is constructed. Callers that build
// positions through ParseFEN or NewPosition trigger it automatically, so
// direct calls are only needed to pay the (small, one-time) setup cost at
// a predictable point, e.g. at process startup.
func Init() {
	initOnce.Do(func() {
		initSquareDistance()
		initLeaperAttacksAndLines()
		bishopMagics, bishopMoves = initMagics(bishopDirs, bishopRelevantBits)
		rookMagics, rookMoves = initMagics(rookDirs, rookRelevantBits)
		initZobrist()
	})
}
