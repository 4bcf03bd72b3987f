package chess

import "testing"

func TestCheckersDetectsSingleAndDoubleCheck(t *testing.T) {
	p, err := NewPosition("4k3/8/8/8/8/8/8/4R2K b - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	// Black is to move and in check from the rook; IsAttackedBy on black's
	// king must see it.
	if !p.IsAttackedBy(p.KingSquare(Black), White) {
		t.Fatalf("black king on e8 should be attacked by the rook on e1")
	}

	single, err := NewPosition("4k3/8/8/8/4r3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if single.Checkers().PopCount() != 1 {
		t.Fatalf("Checkers().PopCount() = %d, want 1", single.Checkers().PopCount())
	}

	double, err := NewPosition("k3r3/8/8/8/5n2/8/4K3/8 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	if double.Checkers().PopCount() != 2 {
		t.Fatalf("Checkers().PopCount() = %d, want 2 (discovered double check)", double.Checkers().PopCount())
	}
}

// TestSliderBlockersFindsAbsolutePin confirms a piece standing alone on the
// line between the king and an enemy slider is reported as a blocker, and
// the slider as its pinner.
func TestSliderBlockersFindsAbsolutePin(t *testing.T) {
	// White king e1, white bishop e3 pinned by black rook e8 along the
	// e-file.
	p, err := NewPosition("k3r3/8/8/8/8/4B3/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	blockers, pinners := p.sliderBlockers(p.KingSquare(White), White, Black)
	bishopSq := NewSquare(4, 2)
	rookSq := NewSquare(4, 7)
	if blockers&SquareBB(bishopSq) == 0 {
		t.Fatalf("the bishop on e3 should be a reported blocker")
	}
	if pinners&SquareBB(rookSq) == 0 {
		t.Fatalf("the rook on e8 should be a reported pinner")
	}
}

func TestSliderBlockersIgnoresDoublyBlockedLines(t *testing.T) {
	// Two friendly pieces between king and slider: neither blocks/pins,
	// since sliderBlockers only reports a *single* intervening piece.
	p, err := NewPosition("k3r3/8/8/8/4P3/4B3/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	blockers, pinners := p.sliderBlockers(p.KingSquare(White), White, Black)
	if blockers != 0 || pinners != 0 {
		t.Fatalf("two pieces on the same line should yield no blocker/pinner, got blockers=%#x pinners=%#x",
			uint64(blockers), uint64(pinners))
	}
}

// TestPinnedPieceCannotMoveOffTheLine exercises the generator end-to-end:
// a pinned piece may only move along the pin line (or capture the pinner).
func TestPinnedPieceCannotMoveOffTheLine(t *testing.T) {
	p, err := NewPosition("k3r3/8/8/8/8/4B3/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	bishopSq := NewSquare(4, 2)
	for _, m := range GenLegalMoves(p).Slice() {
		if m.From() != bishopSq {
			continue
		}
		if !Aligned(p.KingSquare(White), bishopSq, m.To()) {
			t.Fatalf("pinned bishop has a legal move %s that leaves the pin line", m)
		}
	}
}

func TestMoveGivesCheckPredictsEnPassantDiscovery(t *testing.T) {
	// A pawn capturing en passant uncovers a check along the fifth rank:
	// the one case where a single move removes two pieces from the same
	// line (§8's en-passant-under-pin edge case).
	p, err := NewPosition("8/8/8/1k1pP2R/8/8/8/4K3 w - d6 0 1")
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	epMove := NewMove(NewSquare(4, 4), NewSquare(3, 5), EnPassant)
	if !p.MoveGivesCheck(epMove) {
		t.Fatalf("MoveGivesCheck() = false, want true (capturing en passant uncovers the rook's check)")
	}
}
