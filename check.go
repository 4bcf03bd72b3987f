package chess

// attackersTo returns every color-c piece attacking sq, given the current
// occupancy.
func (p *Position) attackersTo(sq Square, c Color) Bitboard {
	return p.attackersToWithOccupancy(sq, c, p.Occupancy())
}

// attackersToWithOccupancy is attackersTo but against a caller-supplied
// occupancy, used for king-move legality where the king must be excluded
// from occupancy (otherwise a slider appears blocked by the king it is
// attacking, letting the king "hide" behind itself).
func (p *Position) attackersToWithOccupancy(sq Square, c Color, occ Bitboard) Bitboard {
	var attackers Bitboard
	attackers |= PawnAttacks(c.Other(), sq) & p.PieceBB(c, Pawn)
	attackers |= KnightAttacks(sq) & p.PieceBB(c, Knight)
	attackers |= KingAttacks(sq) & p.PieceBB(c, King)
	attackers |= BishopAttacks(sq, occ) & (p.PieceBB(c, Bishop) | p.PieceBB(c, Queen))
	attackers |= RookAttacks(sq, occ) & (p.PieceBB(c, Rook) | p.PieceBB(c, Queen))
	return attackers
}

// IsAttackedBy reports whether any color-c piece attacks sq.
func (p *Position) IsAttackedBy(sq Square, c Color) bool {
	return p.attackersTo(sq, c) != 0
}

// Attackers returns every piece, of either color, attacking sq.
func (p *Position) Attackers(sq Square) Bitboard {
	return p.attackersTo(sq, White) | p.attackersTo(sq, Black)
}

// sliderBlockers finds, for a king belonging to kingColor sitting at
// kingSq, every piece (of either color) that sits alone between the king
// and a would-be slider attacker of color sliderColor ("snipers" — pieces
// that could see kingSq on an otherwise-empty board). A slider with exactly
// one piece between it and the king contributes that piece to blockers; if
// the blocking piece belongs to kingColor, the slider is also recorded in
// pinners (the piece is then absolutely pinned).
func (p *Position) sliderBlockers(kingSq Square, kingColor, sliderColor Color) (blockers, pinners Bitboard) {
	occ := p.Occupancy()
	snipers := (RookAttacks(kingSq, 0) & (p.PieceBB(sliderColor, Rook) | p.PieceBB(sliderColor, Queen))) |
		(BishopAttacks(kingSq, 0) & (p.PieceBB(sliderColor, Bishop) | p.PieceBB(sliderColor, Queen)))

	occWithoutSnipers := occ &^ snipers

	for snipers != 0 {
		sniperSq := snipers.PopFirstSquare()
		between := Between(kingSq, sniperSq) & occWithoutSnipers
		if between != 0 && !between.MoreThanOne() {
			blockers |= between
			if between&p.ColorBB(kingColor) != 0 {
				pinners |= SquareBB(sniperSq)
			}
		}
	}
	return blockers, pinners
}

// computeCheckSquaresAndPins recomputes check_blockers/check_pinners for
// both colors and check_squares for the side to move, from scratch. Called
// after every mutation (push, push-nullmove, and FEN load).
func (p *Position) computeCheckSquaresAndPins() {
	st := p.stack
	for _, c := range [2]Color{White, Black} {
		kingSq := p.KingSquare(c)
		st.checkBlockers[c], st.checkPinners[c] = p.sliderBlockers(kingSq, c, c.Other())
	}

	us := p.sideToMove
	them := us.Other()
	theirKing := p.KingSquare(them)
	occ := p.Occupancy()

	st.checkSquares[Pawn] = PawnAttacks(them, theirKing)
	st.checkSquares[Knight] = KnightAttacks(theirKing)
	st.checkSquares[Bishop] = BishopAttacks(theirKing, occ)
	st.checkSquares[Rook] = RookAttacks(theirKing, occ)
	st.checkSquares[Queen] = st.checkSquares[Bishop] | st.checkSquares[Rook]
	st.checkSquares[King] = 0
}

// computeCheckState recomputes checkers plus the blocker/pinner/check-square
// tables from scratch; used by push-nullmove and FEN load, where there is
// no cheap "did this move give check" shortcut available.
func (p *Position) computeCheckState() {
	p.stack.checkers = p.attackersTo(p.KingSquare(p.sideToMove), p.sideToMove.Other())
	p.computeCheckSquaresAndPins()
}

// MoveGivesCheck predicts, before m is played, whether it will leave the
// opponent's king in check. It is the basis for Push's cheap checkers
// update (§4.H) and is also exposed standalone for search/ordering use.
func (p *Position) MoveGivesCheck(m Move) bool {
	us := p.sideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	moved := p.table[from]
	theirKing := p.KingSquare(them)
	st := p.stack

	switch m.Type() {
	case Promotion:
		if st.checkBlockers[them]&SquareBB(from) != 0 && !Aligned(from, to, theirKing) {
			return true
		}
		promoted := m.Promotion().PieceType()
		occ := (p.Occupancy() &^ SquareBB(from)) | SquareBB(to)
		return AttacksBB(promoted, to, occ)&SquareBB(theirKing) != 0

	case EnPassant:
		capSq := Square(int(to) - int(PawnPushDirection(us)))
		occ := (p.Occupancy() &^ SquareBB(from) &^ SquareBB(capSq)) | SquareBB(to)
		if st.checkSquares[Pawn]&SquareBB(to) != 0 {
			return true
		}
		return (BishopAttacks(theirKing, occ)&(p.PieceBB(us, Bishop)|p.PieceBB(us, Queen)) != 0) ||
			(RookAttacks(theirKing, occ)&(p.PieceBB(us, Rook)|p.PieceBB(us, Queen)) != 0)

	case Castling:
		short := castlingIsShort(from, to, us)
		kingTo, rookTo := relativeCastleSquares(us, short)
		occ := p.Occupancy() &^ SquareBB(from) &^ SquareBB(to) | SquareBB(rookTo) | SquareBB(kingTo)
		return RookAttacks(rookTo, occ)&SquareBB(theirKing) != 0

	default:
		if st.checkSquares[moved.Type()]&SquareBB(to) != 0 {
			return true
		}
		if st.checkBlockers[them]&SquareBB(from) != 0 && !Aligned(from, to, theirKing) {
			return true
		}
		return false
	}
}
