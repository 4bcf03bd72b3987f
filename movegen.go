package chess

func genPromotions(l *MoveList, from, to Square) {
	l.Push(NewPromotionMove(from, to, PromoKnight))
	l.Push(NewPromotionMove(from, to, PromoBishop))
	l.Push(NewPromotionMove(from, to, PromoRook))
	l.Push(NewPromotionMove(from, to, PromoQueen))
}

func genPieceMoves(l *MoveList, p *Position, us Color, pt PieceType, target Bitboard) {
	bb := p.PieceBB(us, pt)
	occ := p.Occupancy()
	for bb != 0 {
		from := bb.PopFirstSquare()
		toBB := AttacksBB(pt, from, occ) & target
		for toBB != 0 {
			l.Push(NewMove(from, toBB.PopFirstSquare(), Normal))
		}
	}
}

func genPawnMoves(l *MoveList, p *Position, us Color, blockSquares Bitboard, evasion bool) {
	them := us.Other()
	pushDir := PawnPushDirection(us)

	rank7BB := Rank7BB
	rank3BB := Rank3BB
	if us == Black {
		rank7BB = Rank2BB
		rank3BB = Rank6BB
	}

	pawns := p.PieceBB(us, Pawn)
	rank7Pawns := pawns & rank7BB
	otherPawns := pawns &^ rank7Pawns
	empty := ^p.Occupancy()
	theirPieces := p.ColorBB(them)
	if evasion {
		theirPieces &= blockSquares
	}

	pushBB := relativeShiftNorth(otherPawns, us) & empty
	push2BB := relativeShiftNorth(pushBB&rank3BB, us) & empty
	if evasion {
		pushBB &= blockSquares
		push2BB &= blockSquares
	}

	for pushBB != 0 {
		to := pushBB.PopFirstSquare()
		l.Push(NewMove(Square(int(to)-int(pushDir)), to, Normal))
	}
	for push2BB != 0 {
		to := push2BB.PopFirstSquare()
		l.Push(NewMove(Square(int(to)-int(pushDir)*2), to, Normal))
	}

	if rank7Pawns != 0 {
		promoteEmpty := empty
		if evasion {
			promoteEmpty &= blockSquares
		}
		promoteBB := relativeShiftNorth(rank7Pawns, us)

		for bb := promoteBB & promoteEmpty; bb != 0; {
			to := bb.PopFirstSquare()
			genPromotions(l, Square(int(to)-int(pushDir)), to)
		}
		for bb := shift(promoteBB, West) & theirPieces; bb != 0; {
			to := bb.PopFirstSquare()
			genPromotions(l, Square(int(to)-int(pushDir)-int(West)), to)
		}
		for bb := shift(promoteBB, East) & theirPieces; bb != 0; {
			to := bb.PopFirstSquare()
			genPromotions(l, Square(int(to)-int(pushDir)-int(East)), to)
		}
	}

	captureBB := relativeShiftNorth(otherPawns, us)
	for bb := shift(captureBB, West) & theirPieces; bb != 0; {
		to := bb.PopFirstSquare()
		l.Push(NewMove(Square(int(to)-int(pushDir)-int(West)), to, Normal))
	}
	for bb := shift(captureBB, East) & theirPieces; bb != 0; {
		to := bb.PopFirstSquare()
		l.Push(NewMove(Square(int(to)-int(pushDir)-int(East)), to, Normal))
	}

	ep := p.stack.enPassantSq
	if ep == SquareNone {
		return
	}
	if evasion {
		capSq := Square(int(ep) - int(pushDir))
		if blockSquares&SquareBB(capSq) == 0 {
			return
		}
	}
	epCapturers := otherPawns & PawnAttacks(them, ep)
	for epCapturers != 0 {
		l.Push(NewMove(epCapturers.PopFirstSquare(), ep, EnPassant))
	}
}

func genMoves(l *MoveList, p *Position) {
	us := p.sideToMove
	target := ^p.ColorBB(us)
	kingSq := p.KingSquare(us)

	genPawnMoves(l, p, us, 0, false)
	for pt := Knight; pt <= Queen; pt++ {
		genPieceMoves(l, p, us, pt, target)
	}
	for bb := KingAttacks(kingSq) & target; bb != 0; {
		l.Push(NewMove(kingSq, bb.PopFirstSquare(), Normal))
	}

	kingside := Kingside(us)
	queenside := Queenside(us)
	if p.stack.castlingRights&kingside != 0 && !p.CastlingBlocked(kingside) {
		l.Push(NewMove(kingSq, p.castlingRookSquare[castlingIndex(kingside)], Castling))
	}
	if p.stack.castlingRights&queenside != 0 && !p.CastlingBlocked(queenside) {
		l.Push(NewMove(kingSq, p.castlingRookSquare[castlingIndex(queenside)], Castling))
	}
}

func genEvasions(l *MoveList, p *Position) {
	us := p.sideToMove
	kingSq := p.KingSquare(us)
	checkers := p.stack.checkers

	var sliderAttacks Bitboard
	sliders := checkers &^ (p.PieceTypeBB(Pawn) | p.PieceTypeBB(Knight))
	for sliders != 0 {
		checkSq := sliders.PopFirstSquare()
		sliderAttacks |= Line(checkSq, kingSq) &^ SquareBB(checkSq)
	}

	for bb := KingAttacks(kingSq) &^ p.ColorBB(us) &^ sliderAttacks; bb != 0; {
		l.Push(NewMove(kingSq, bb.PopFirstSquare(), Normal))
	}

	if checkers.MoreThanOne() {
		return
	}

	checkSq := checkers.FirstSquare()
	blockSquares := Between(checkSq, kingSq) | SquareBB(checkSq)

	genPawnMoves(l, p, us, blockSquares, true)
	for pt := Knight; pt <= Queen; pt++ {
		genPieceMoves(l, p, us, pt, blockSquares)
	}
}

// GenPseudoLegalMoves generates every pseudo-legal move: legal ignoring
// whether it leaves the mover's own king in check.
func GenPseudoLegalMoves(p *Position) MoveList {
	var l MoveList
	if p.stack.checkers != 0 {
		genEvasions(&l, p)
	} else {
		genMoves(&l, p)
	}
	return l
}

// GenLegalMoves generates every legal move. Only moves that could possibly
// be illegal despite pseudo-legal generation — those by a pinned piece, by
// the king, or en-passant captures — pay for the extra MoveIsLegal check;
// everything else pseudo-legal generation already guarantees legal (§4.J).
func GenLegalMoves(p *Position) MoveList {
	l := GenPseudoLegalMoves(p)

	us := p.sideToMove
	pinned := p.stack.checkBlockers[us] & p.ColorBB(us)
	kingSq := p.KingSquare(us)

	i := 0
	for i < l.Count {
		m := l.Moves[i]
		needsCheck := pinned&SquareBB(m.From()) != 0 || m.From() == kingSq || m.Type() == EnPassant
		if needsCheck && !p.MoveIsLegal(m) {
			l.Count--
			l.Moves[i] = l.Moves[l.Count]
		} else {
			i++
		}
	}
	return l
}

// MoveIsLegal decides whether pseudo-legal move m actually leaves the
// mover's own king safe. Most callers should prefer GenLegalMoves, which
// only invokes this for moves that actually need it.
func (p *Position) MoveIsLegal(m Move) bool {
	us := p.sideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	kingSq := p.KingSquare(us)

	switch m.Type() {
	case EnPassant:
		capSq := Square(int(to) - int(PawnPushDirection(us)))
		occ := (p.Occupancy() &^ SquareBB(from) &^ SquareBB(capSq)) | SquareBB(to)
		return BishopAttacks(kingSq, occ)&(p.PieceBB(them, Bishop)|p.PieceBB(them, Queen)) == 0 &&
			RookAttacks(kingSq, occ)&(p.PieceBB(them, Rook)|p.PieceBB(them, Queen)) == 0

	case Castling:
		short := castlingIsShort(from, to, us)
		kingTo, rookTo := relativeCastleSquares(us, short)
		path := p.castlingKingPath[castlingIndex(castlingRightFor(us, short))]
		for sq := path; sq != 0; {
			s := sq.PopFirstSquare()
			if p.IsAttackedBy(s, them) {
				return false
			}
		}
		if p.chess960 {
			occ := (p.Occupancy() &^ SquareBB(from) &^ SquareBB(to)) | SquareBB(kingTo) | SquareBB(rookTo)
			if RookAttacks(kingTo, occ)&(p.PieceBB(them, Rook)|p.PieceBB(them, Queen)) != 0 {
				return false
			}
		}
		return true

	default:
		if from == kingSq {
			occ := p.Occupancy() &^ SquareBB(from)
			return p.attackersToWithOccupancy(to, them, occ) == 0
		}
		if p.stack.checkBlockers[us]&SquareBB(from) == 0 {
			return true
		}
		return Aligned(from, to, kingSq)
	}
}

func castlingRightFor(c Color, short bool) CastlingRights {
	if short {
		return Kingside(c)
	}
	return Queenside(c)
}

// CastlingBlocked reports whether any piece occupies a square that must be
// empty for the given single castling right.
func (p *Position) CastlingBlocked(right CastlingRights) bool {
	return p.Occupancy()&p.castlingPath[castlingIndex(right)] != 0
}
