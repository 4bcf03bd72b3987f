package chess

// zobristPSQ is indexed directly by Piece value (0..14, with unused gaps at
// the piece-type-0/7 slots); zobristEP by file; zobristCastling by the full
// 4-bit CastlingRights value. zobristTurn is XORed in when black is to
// move.
//
// The same psq table doubles as the material-key table (§ design note): the
// material key is keyed by piece *count*, not piece *position* — it XORs
// zobristPSQ[piece][count-1] rather than zobristPSQ[piece][actualSquare].
// This makes the material key intentionally position-insensitive.
var (
	zobristPSQ      [15][64]uint64
	zobristEP       [8]uint64
	zobristCastling [CastlingNB]uint64
	zobristTurn     uint64
)

// zobristSeed is fixed for reproducibility across runs, per spec.
const zobristSeed uint64 = 0x7F6E5D4C3B2A1908

func initZobrist() {
	state := zobristSeed

	for c := White; c < ColorNB; c++ {
		for pt := Pawn; pt <= King; pt++ {
			pc := NewPiece(c, pt)
			for sq := Square(0); sq < 64; sq++ {
				zobristPSQ[pc][sq] = xorshift64(&state)
			}
		}
	}
	for f := 0; f < 8; f++ {
		zobristEP[f] = xorshift64(&state)
	}
	for cr := CastlingRights(0); int(cr) < CastlingNB; cr++ {
		zobristCastling[cr] = xorshift64(&state)
	}
	zobristTurn = xorshift64(&state)
}
