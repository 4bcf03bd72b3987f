package chess

import "testing"

// TestPushPopSymmetry is the §8 invariant: popping a just-pushed move must
// restore the position structurally (FEN-equal), for every legal move from
// a handful of representative positions.
func TestPushPopSymmetry(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	for _, fen := range fens {
		p, err := NewPosition(fen)
		if err != nil {
			t.Fatalf("NewPosition(%q): %v", fen, err)
		}
		before := p.SerializeFEN()
		for _, m := range GenLegalMoves(p).Slice() {
			p.Push(m)
			undone := p.Pop()
			if undone != m {
				t.Fatalf("%s: Pop() = %s, want %s", fen, undone, m)
			}
			if got := p.SerializeFEN(); got != before {
				t.Fatalf("%s: after push/pop of %s, FEN = %q, want %q", fen, m, got, before)
			}
		}
	}
}

func TestPushNullMovePopSymmetry(t *testing.T) {
	p, err := NewPosition(StartFEN)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	before := p.SerializeFEN()
	p.PushNullMove()
	if p.SideToMove() != Black {
		t.Fatalf("PushNullMove should flip the side to move")
	}
	p.Pop()
	if got := p.SerializeFEN(); got != before {
		t.Fatalf("after PushNullMove/Pop, FEN = %q, want %q", got, before)
	}
}

func TestPopAtRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Pop() at the root should panic")
		}
	}()
	p, err := NewPosition(StartFEN)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	p.Pop()
}

func TestCopyRootSharesNoMutableState(t *testing.T) {
	p, err := NewPosition(StartFEN)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	m := GenLegalMoves(p).Slice()[0]
	p.Push(m)

	root := p.CopyRoot()
	if root.SerializeFEN() != StartFEN {
		t.Fatalf("CopyRoot().SerializeFEN() = %q, want the root FEN %q", root.SerializeFEN(), StartFEN)
	}

	root.Push(GenLegalMoves(root).Slice()[0])
	if p.PeekMove() != m {
		t.Fatalf("mutating the CopyRoot() result corrupted the original position's history")
	}
}

func TestCopyDuplicatesFullHistory(t *testing.T) {
	p, err := NewPosition(StartFEN)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	moves := GenLegalMoves(p).Slice()
	p.Push(moves[0])

	cp := p.Copy()
	if cp.PeekMove() != p.PeekMove() {
		t.Fatalf("Copy() should preserve the last move")
	}
	cp.Pop()
	if p.PeekMove() != moves[0] {
		t.Fatalf("popping the Copy() result should not affect the original's history")
	}
}

func TestPeekAllMoves(t *testing.T) {
	p, err := NewPosition(StartFEN)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	var played []Move
	for i := 0; i < 4; i++ {
		m := GenLegalMoves(p).Slice()[0]
		p.Push(m)
		played = append(played, m)
	}
	got := p.PeekAllMoves()
	if len(got) != len(played) {
		t.Fatalf("PeekAllMoves() returned %d moves, want %d", len(got), len(played))
	}
	for i := range played {
		if got[i] != played[i] {
			t.Fatalf("PeekAllMoves()[%d] = %s, want %s", i, got[i], played[i])
		}
	}
}

func TestNewPositionExternalRequiresPushWithStack(t *testing.T) {
	p, err := NewPositionExternal(StartFEN)
	if err != nil {
		t.Fatalf("NewPositionExternal: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("Push() on an external-allocation Position should panic")
		}
	}()
	p.Push(GenLegalMoves(p).Slice()[0])
}

func TestRedundantRepresentationsStayConsistent(t *testing.T) {
	p, err := NewPosition("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	checkConsistency(t, p)
	for _, m := range GenLegalMoves(p).Slice() {
		p.Push(m)
		checkConsistency(t, p)
		p.Pop()
	}
}

// checkConsistency independently rebuilds the mailbox/bitboard/count views
// from each other and confirms they agree, the §8 redundancy invariant.
func checkConsistency(t *testing.T, p *Position) {
	t.Helper()
	var fromTable [15]int
	var occFromTable Bitboard
	for sq := Square(0); sq < 64; sq++ {
		pc := p.PieceAt(sq)
		if pc == PieceNone {
			continue
		}
		fromTable[pc]++
		occFromTable |= SquareBB(sq)
		if p.PieceBB(pc.Color(), pc.Type())&SquareBB(sq) == 0 {
			t.Fatalf("square %s holds %v in the mailbox but not in PieceBB", sq, pc)
		}
	}
	if occFromTable != p.Occupancy() {
		t.Fatalf("Occupancy() disagrees with the mailbox-derived occupancy")
	}
	for pc := Piece(0); pc < 15; pc++ {
		if fromTable[pc] != p.CountPiece(pc) {
			t.Fatalf("CountPiece(%v) = %d, mailbox has %d", pc, p.CountPiece(pc), fromTable[pc])
		}
	}
}
