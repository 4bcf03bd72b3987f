// Package notation converts between packed chess.Move values and the
// textual notations (SAN, UCI) search engines and UIs exchange with users.
// It is a downstream consumer of chess.Position/chess.GenLegalMoves, never
// a participant in move generation or make/unmake.
package notation

import (
	"strings"

	chess "github.com/mhouppin/libchessutil"
)

var pieceLetter = [...]byte{0, 0, 'N', 'B', 'R', 'Q', 'K'}

// ToUCI converts m into long algebraic notation, e.g. "e2e4", "e7e8q".
func ToUCI(m chess.Move) string {
	var b strings.Builder
	b.Grow(5)
	b.WriteString(m.From().String())
	b.WriteString(m.To().String())
	if m.Type() == chess.Promotion {
		b.WriteByte(promoLetter(m.Promotion()))
	}
	return b.String()
}

func promoLetter(p chess.PromotionType) byte {
	switch p {
	case chess.PromoKnight:
		return 'n'
	case chess.PromoBishop:
		return 'b'
	case chess.PromoRook:
		return 'r'
	default:
		return 'q'
	}
}

// ToSAN converts m, played from pos, into short algebraic notation. pos
// must still be at the position m is played from (ToSAN does not mutate
// it); legalMoves is the sibling move list used for disambiguation.
func ToSAN(pos *chess.Position, m chess.Move, legalMoves chess.MoveList) string {
	if m.Type() == chess.Castling {
		if m.To().File() > m.From().File() {
			return suffixed(pos, m, "O-O")
		}
		return suffixed(pos, m, "O-O-O")
	}

	moved := pos.PieceAt(m.From())
	isCapture := pos.IsCapture(m)

	var b strings.Builder
	if moved.Type() == chess.Pawn {
		if isCapture {
			b.WriteByte(byte('a' + m.From().File()))
		}
	} else {
		b.WriteByte(pieceLetter[moved.Type()])
		b.WriteString(disambiguation(pos, m, legalMoves))
	}

	if isCapture {
		b.WriteByte('x')
	}
	b.WriteString(m.To().String())

	if m.Type() == chess.Promotion {
		b.WriteByte('=')
		b.WriteByte(promoLetter(m.Promotion()) - ('a' - 'A'))
	}

	return suffixed(pos, m, b.String())
}

// disambiguation returns the file/rank (or both) needed to distinguish m
// from any other legal move by a like piece to the same destination.
func disambiguation(pos *chess.Position, m chess.Move, legalMoves chess.MoveList) string {
	moved := pos.PieceAt(m.From())
	sameFile, sameRank := false, false
	ambiguous := false

	for _, other := range legalMoves.Slice() {
		if other == m || other.To() != m.To() || other.From() == m.From() {
			continue
		}
		if pos.PieceAt(other.From()) != moved {
			continue
		}
		ambiguous = true
		if other.From().File() == m.From().File() {
			sameFile = true
		}
		if other.From().Rank() == m.From().Rank() {
			sameRank = true
		}
	}
	if !ambiguous {
		return ""
	}
	switch {
	case !sameFile:
		return string(byte('a' + m.From().File()))
	case !sameRank:
		return string(byte('1' + m.From().Rank()))
	default:
		return m.From().String()
	}
}

// suffixed plays m on a scratch copy of pos to detect check/mate, appending
// "+" or "#" as appropriate, then returns base with that suffix.
func suffixed(pos *chess.Position, m chess.Move, base string) string {
	scratch := pos.Copy()
	scratch.Push(m)
	switch {
	case scratch.IsCheckmate():
		return base + "#"
	case scratch.InCheck():
		return base + "+"
	default:
		return base
	}
}
