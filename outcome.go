package chess

// IsCheckmate reports whether the side to move is in check with no legal
// moves.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && GenLegalMoves(p).Count == 0
}

// IsStalemate reports whether the side to move is not in check but has no
// legal moves.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && GenLegalMoves(p).Count == 0
}

// IsInsufficientMaterial reports a material configuration from which
// checkmate is impossible for either side: bare kings, king+minor vs bare
// king, or same-colored-bishops-only (no knights) endings.
func (p *Position) IsInsufficientMaterial() bool {
	if p.pieceTypeBB[Pawn]|p.pieceTypeBB[Rook]|p.pieceTypeBB[Queen] != 0 {
		return false
	}
	total := p.Occupancy().PopCount()
	if total <= 3 {
		return true
	}
	knights := p.pieceTypeBB[Knight]
	if knights != 0 {
		return false
	}
	bishops := p.pieceTypeBB[Bishop]
	const darkSquares Bitboard = 0xAA55AA55AA55AA55
	return bishops&^darkSquares == 0 || bishops&darkSquares == 0
}

// IsRule50Draw reports rule50 >= 100 with at least one legal move (a
// position at that count with no legal move is checkmate or stalemate,
// not a rule50 draw).
func (p *Position) IsRule50Draw() bool {
	return p.stack.rule50 >= 100 && GenLegalMoves(p).Count > 0
}

// IsRule75Draw reports a forced draw at rule50 >= 150 with at least one
// legal move (a position at that count with no legal move is checkmate or
// stalemate, not a rule75 draw). Unlike rule50, it needs no claim.
func (p *Position) IsRule75Draw() bool {
	return p.stack.rule50 >= 150 && GenLegalMoves(p).Count > 0
}

// IsThreefoldRepetition reports a claimable threefold repetition.
func (p *Position) IsThreefoldRepetition() bool { return p.stack.repetition >= 3 }

// IsFivefoldRepetition reports a forced fivefold repetition.
func (p *Position) IsFivefoldRepetition() bool { return p.stack.repetition >= 5 }

// Outcome reports the terminal status of the position. claimDraw enables
// the claimable (non-forced) rule-50 and threefold conditions; fivefold,
// rule-75, stalemate, insufficient material, and checkmate always apply.
func (p *Position) Outcome(claimDraw bool) Outcome {
	if p.IsRule75Draw() || p.IsFivefoldRepetition() || p.IsStalemate() || p.IsInsufficientMaterial() {
		return Drawn
	}
	if claimDraw && (p.IsRule50Draw() || p.IsThreefoldRepetition()) {
		return Drawn
	}
	if p.IsCheckmate() {
		if p.sideToMove == White {
			return BlackWins
		}
		return WhiteWins
	}
	return NoOutcome
}
