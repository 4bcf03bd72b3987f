package chess

import (
	"os"
	"testing"
)

// TestMain ensures the package's global tables are populated before any
// test touches attack/line/magic lookups directly (tests that only go
// through NewPosition/ParseFEN get this for free, since those call Init
// themselves, but geometry/bitboard-level tests call the table-backed
// functions directly).
func TestMain(m *testing.M) {
	Init()
	os.Exit(m.Run())
}

// Named squares used only by tests, for readability (the package itself
// only names squares via NewSquare/File/Rank).
var (
	A1 = NewSquare(0, 0)
	A4 = NewSquare(0, 3)
	D4 = NewSquare(3, 3)
	D5 = NewSquare(3, 4)
	E4 = NewSquare(4, 3)
	F5 = NewSquare(5, 4)
	G7 = NewSquare(6, 6)
	H4 = NewSquare(7, 3)
	H8 = NewSquare(7, 7)
)

func TestBitboardPopCount(t *testing.T) {
	testcases := []struct {
		bb   Bitboard
		want int
	}{
		{0, 0},
		{1, 1},
		{0xFF, 8},
		{^Bitboard(0), 64},
	}
	for _, tc := range testcases {
		if got := tc.bb.PopCount(); got != tc.want {
			t.Fatalf("PopCount(%#x) = %d, want %d", uint64(tc.bb), got, tc.want)
		}
	}
}

func TestBitboardMoreThanOne(t *testing.T) {
	testcases := []struct {
		bb   Bitboard
		want bool
	}{
		{0, false},
		{1, false},
		{3, true},
		{SquareBB(A1) | SquareBB(H8), true},
	}
	for _, tc := range testcases {
		if got := tc.bb.MoreThanOne(); got != tc.want {
			t.Fatalf("MoreThanOne(%#x) = %v, want %v", uint64(tc.bb), got, tc.want)
		}
	}
}

func TestBitboardFirstAndLastSquare(t *testing.T) {
	bb := SquareBB(D4) | SquareBB(G7)
	if got := bb.FirstSquare(); got != D4 {
		t.Fatalf("FirstSquare() = %s, want d4", got)
	}
	if got := bb.LastSquare(); got != G7 {
		t.Fatalf("LastSquare() = %s, want g7", got)
	}
	if Bitboard(0).FirstSquare() != SquareNone {
		t.Fatalf("FirstSquare() of empty bitboard should be SquareNone")
	}
	if Bitboard(0).LastSquare() != SquareNone {
		t.Fatalf("LastSquare() of empty bitboard should be SquareNone")
	}
}

func TestBitboardPopFirstSquareDrainsAllBits(t *testing.T) {
	bb := SquareBB(A1) | SquareBB(D4) | SquareBB(H8)
	var got []Square
	for bb != 0 {
		got = append(got, bb.PopFirstSquare())
	}
	want := []Square{A1, D4, H8}
	if len(got) != len(want) {
		t.Fatalf("drained %d squares, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("square %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestShiftStaysOnBoard(t *testing.T) {
	// A file pawns must not wrap to the H file when shifted west.
	if got := shift(SquareBB(A4), West); got != 0 {
		t.Fatalf("shift(a4, West) = %#x, want 0 (no wraparound)", uint64(got))
	}
	if got := shift(SquareBB(H4), East); got != 0 {
		t.Fatalf("shift(h4, East) = %#x, want 0 (no wraparound)", uint64(got))
	}
	if got := shift(SquareBB(D4), North); got != SquareBB(D5) {
		t.Fatalf("shift(d4, North) = %#x, want d5", uint64(got))
	}
	if got := shift(SquareBB(E4), NorthEast); got != SquareBB(F5) {
		t.Fatalf("shift(e4, NorthEast) = %#x, want f5", uint64(got))
	}
}
