package notation

import (
	"testing"

	chess "github.com/mhouppin/libchessutil"
)

func mustParse(t *testing.T, fen string) *chess.Position {
	t.Helper()
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestToUCI(t *testing.T) {
	mustParse(t, "4b3/3P1P2/8/8/7k/8/8/K7 w - - 0 1")
	m := chess.NewPromotionMove(chess.NewSquare(3, 6), chess.NewSquare(4, 7), chess.PromoQueen)
	if got := ToUCI(m); got != "d7e8q" {
		t.Fatalf("ToUCI = %q, want d7e8q", got)
	}
}

func TestToSANDisambiguationAndCheck(t *testing.T) {
	testcases := []struct {
		fen      string
		from, to chess.Square
		promo    chess.PromotionType
		isPromo  bool
		want     string
	}{
		{
			fen:  "4k3/8/8/8/8/2N5/8/4K1N1 w - - 0 1",
			from: chess.NewSquare(2, 2), to: chess.NewSquare(4, 1), // c3-e2
			want: "Nce2",
		},
		{
			fen:  "4k3/8/8/8/1b6/2N5/8/4K1N1 w - - 0 1",
			from: chess.NewSquare(6, 0), to: chess.NewSquare(4, 1), // g1-e2
			want: "Ne2",
		},
		{
			fen:  "2k5/Qr6/Q7/8/8/8/8/3R2K1 w - - 0 1",
			from: chess.NewSquare(0, 5), to: chess.NewSquare(1, 6), // a6xb7, checkmate
			want: "Q6xb7#",
		},
		{
			fen:     "4b3/3P1P2/8/8/7k/8/8/K7 w - - 0 1",
			from:    chess.NewSquare(3, 6), to: chess.NewSquare(4, 7), // d7xe8
			promo:   chess.PromoQueen,
			isPromo: true,
			want:    "dxe8=Q",
		},
	}

	for _, tc := range testcases {
		pos := mustParse(t, tc.fen)
		var m chess.Move
		if tc.isPromo {
			m = chess.NewPromotionMove(tc.from, tc.to, tc.promo)
		} else {
			m = chess.NewMove(tc.from, tc.to, chess.Normal)
		}
		legal := chess.GenLegalMoves(pos)
		got := ToSAN(pos, m, legal)
		if got != tc.want {
			t.Fatalf("ToSAN(%s, %s) = %q, want %q", tc.fen, m, got, tc.want)
		}
	}
}

func TestToSANCastling(t *testing.T) {
	pos := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m := chess.NewMove(chess.NewSquare(4, 0), chess.NewSquare(7, 0), chess.Castling)
	legal := chess.GenLegalMoves(pos)
	if got := ToSAN(pos, m, legal); got != "O-O" {
		t.Fatalf("ToSAN(castling) = %q, want O-O", got)
	}
}
