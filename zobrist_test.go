package chess

import "testing"

// TestKeyMatchesFromScratchRecomputation is the §8 Zobrist invariant:
// recomputing the key from the piece placement, EP, castling, and turn must
// equal the incrementally maintained key, both at the root and after a few
// plies of Push/Pop.
func TestKeyMatchesFromScratchRecomputation(t *testing.T) {
	p, err := NewPosition("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}

	check := func(label string) {
		var want uint64
		for sq := Square(0); sq < 64; sq++ {
			if pc := p.PieceAt(sq); pc != PieceNone {
				want ^= zobristPSQ[pc][sq]
			}
		}
		if p.EnPassantSquare() != SquareNone {
			want ^= zobristEP[p.EnPassantSquare().File()]
		}
		want ^= zobristCastling[p.CastlingRights()]
		if p.SideToMove() == Black {
			want ^= zobristTurn
		}
		if p.Key() != want {
			t.Fatalf("%s: Key() = %#x, want %#x (from-scratch recomputation)", label, p.Key(), want)
		}
	}

	check("root")
	for _, m := range GenLegalMoves(p).Slice()[:3] {
		p.Push(m)
		check("after push")
		p.Pop()
	}
}

func TestMaterialKeyDependsOnCountsNotSquares(t *testing.T) {
	a, err := NewPosition("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	b, err := NewPosition("4k3/8/R7/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if a.MaterialKey() != b.MaterialKey() {
		t.Fatalf("MaterialKey() differed between two positions with identical piece counts but different placements")
	}

	c, err := NewPosition("4k3/8/8/8/8/8/8/RR2K3 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if a.MaterialKey() == c.MaterialKey() {
		t.Fatalf("MaterialKey() matched between positions with different piece counts")
	}
}
