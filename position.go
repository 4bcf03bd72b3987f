package chess

// Boardstack is one ply's worth of reversible and derived state, chained
// back toward the root. Nodes either belong to the Position (internal
// allocation mode, allocated on Push and dropped on Pop) or are supplied by
// the caller (external mode, e.g. a search tree keeping the chain in its
// recursion frames) — see Position's allocation-mode discussion on
// NewPosition / NewPositionExternal.
type Boardstack struct {
	prev *Boardstack

	key         uint64
	materialKey uint64

	rule50       int
	lastNullmove int
	repetition   int

	lastMove Move

	enPassantSq Square
	// polyglotEP is the geometrically-available en-passant target
	// regardless of whether a friendly pawn can capture it there, kept
	// for Polyglot-compatible hashing downstream (§3).
	polyglotEP Square

	castlingRights CastlingRights
	capturedPiece  Piece

	checkers      Bitboard
	checkBlockers [ColorNB]Bitboard
	checkPinners  [ColorNB]Bitboard
	checkSquares  [PieceTypeNB]Bitboard
}

// Position is a redundant, invariant-preserving chess board: a mailbox
// array, per-piece-type and per-color bitboards, and piece counts are kept
// mutually consistent by placePiece/removePiece/movePiece, the only
// primitives allowed to touch them directly.
type Position struct {
	table      [64]Piece
	pieceTypeBB [PieceTypeNB]Bitboard // index 0 is the union of all pieces
	colorBB    [ColorNB]Bitboard
	pieceCount [15]int // indexed by Piece value; gaps at unused encodings

	castlingMask       [64]CastlingRights
	castlingRookSquare [4]Square
	castlingPath       [4]Bitboard
	castlingKingPath   [4]Bitboard

	sideToMove Color
	gamePly    int
	chess960   bool

	stack         *Boardstack
	internalAlloc bool
}

// castlingIndex maps a single castling-rights bit to a 0..3 slot.
func castlingIndex(cr CastlingRights) int {
	switch cr {
	case WhiteKingside:
		return 0
	case WhiteQueenside:
		return 1
	case BlackKingside:
		return 2
	case BlackQueenside:
		return 3
	default:
		panicf("chess: castlingIndex called with non-singleton right %v", cr)
		return -1
	}
}

// NewPosition builds an internal-allocation-mode Position: Push allocates a
// fresh Boardstack node per call and Pop discards the reference (the Go
// garbage collector reclaims it — there is no explicit free, unlike the
// source library's manual allocator, but the ownership story is the same:
// the Position, not the caller, owns every node in the chain).
func NewPosition(fen string) (*Position, error) {
	return parseFEN(fen, true)
}

// NewPositionExternal builds an external-allocation-mode Position: callers
// must push through PushWithStack, supplying the Boardstack node for each
// ply themselves (e.g. stack-allocated in a search recursion frame); Pop
// only rewinds the chain pointer and never touches node ownership.
func NewPositionExternal(fen string) (*Position, error) {
	return parseFEN(fen, false)
}

// PieceAt returns the piece occupying sq, or PieceNone.
func (p *Position) PieceAt(sq Square) Piece { return p.table[sq] }

// Occupancy returns the union of every occupied square.
func (p *Position) Occupancy() Bitboard { return p.pieceTypeBB[PieceTypeAll] }

// ColorBB returns every square occupied by color c.
func (p *Position) ColorBB(c Color) Bitboard { return p.colorBB[c] }

// PieceTypeBB returns every square occupied by piece type pt, either color.
func (p *Position) PieceTypeBB(pt PieceType) Bitboard { return p.pieceTypeBB[pt] }

// PieceBB returns every square occupied by a color-c piece of type pt.
func (p *Position) PieceBB(c Color, pt PieceType) Bitboard {
	return p.pieceTypeBB[pt] & p.colorBB[c]
}

// CountPiece returns how many of the given piece remain on the board.
func (p *Position) CountPiece(pc Piece) int { return p.pieceCount[pc] }

// KingSquare returns color c's king square.
func (p *Position) KingSquare(c Color) Square {
	return p.PieceBB(c, King).FirstSquare()
}

// SideToMove returns whose turn it is.
func (p *Position) SideToMove() Color { return p.sideToMove }

// Ply returns the number of halfmoves played since the root.
func (p *Position) Ply() int { return p.gamePly }

// IsChess960 reports whether castling rook/king origins diverge from the
// classical squares.
func (p *Position) IsChess960() bool { return p.chess960 }

// Key returns the current Zobrist hash.
func (p *Position) Key() uint64 { return p.stack.key }

// MaterialKey returns the current material-only hash (a function of piece
// counts, not positions — see the design note on zobristPSQ).
func (p *Position) MaterialKey() uint64 { return p.stack.materialKey }

// CastlingRights returns the current castling-rights bitset.
func (p *Position) CastlingRights() CastlingRights { return p.stack.castlingRights }

// EnPassantSquare returns the actually-capturable en-passant target, or
// SquareNone.
func (p *Position) EnPassantSquare() Square { return p.stack.enPassantSq }

// PolyglotEP returns the geometric en-passant target regardless of actual
// capturability, or SquareNone.
func (p *Position) PolyglotEP() Square { return p.stack.polyglotEP }

// Rule50 returns the halfmove count since the last capture or pawn move.
func (p *Position) Rule50() int { return p.stack.rule50 }

// Checkers returns the enemy pieces currently giving check to the side to
// move.
func (p *Position) Checkers() Bitboard { return p.stack.checkers }

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.stack.checkers != 0 }

// LastMove returns the move that produced the current ply, or NullMove at
// the root or after a null-move push.
func (p *Position) LastMove() Move { return p.stack.lastMove }

// Repetition returns the current node's repetition count: 0 if the
// position's key has not recurred within the reversible window, else the
// previous occurrence's count plus one.
func (p *Position) Repetition() int { return p.stack.repetition }

// --- low-level mutators; the only code allowed to touch table/bitboards/counts directly ---

func (p *Position) placePiece(pc Piece, sq Square) {
	bb := SquareBB(sq)
	p.table[sq] = pc
	p.pieceTypeBB[PieceTypeAll] |= bb
	p.pieceTypeBB[pc.Type()] |= bb
	p.colorBB[pc.Color()] |= bb
	p.pieceCount[pc]++
}

func (p *Position) removePiece(sq Square) Piece {
	pc := p.table[sq]
	bb := SquareBB(sq)
	p.table[sq] = PieceNone
	p.pieceTypeBB[PieceTypeAll] &^= bb
	p.pieceTypeBB[pc.Type()] &^= bb
	p.colorBB[pc.Color()] &^= bb
	p.pieceCount[pc]--
	return pc
}

func (p *Position) movePiece(from, to Square) {
	pc := p.removePiece(from)
	p.placePiece(pc, to)
}

// materialXORAfterRemove XORs the material key for a just-decremented piece
// count (index == new, post-removal count).
func (p *Position) materialXORAfterRemove(pc Piece) {
	p.stack.materialKey ^= zobristPSQ[pc][p.pieceCount[pc]]
}

// materialXORAfterAdd XORs the material key for a just-incremented piece
// count (index == old, pre-addition count).
func (p *Position) materialXORAfterAdd(pc Piece) {
	p.stack.materialKey ^= zobristPSQ[pc][p.pieceCount[pc]-1]
}

// relativeCastleSquares returns the post-castle king and rook squares for
// color c's kingside (short=true) or queenside (short=false) castling, in
// the classical layout (G1/F1 or C1/D1, mirrored to rank 8 for black).
func relativeCastleSquares(c Color, short bool) (kingTo, rookTo Square) {
	var k, r Square
	if short {
		k, r = NewSquare(6, 0), NewSquare(5, 0) // g1, f1
	} else {
		k, r = NewSquare(2, 0), NewSquare(3, 0) // c1, d1
	}
	if c == Black {
		k ^= 56
		r ^= 56
	}
	return k, r
}

// Push plays m, an internal-allocation-mode Position allocating its own
// Boardstack node. It panics if the Position was built in external mode.
func (p *Position) Push(m Move) {
	if !p.internalAlloc {
		panicf("chess: Push called on an external-allocation Position; use PushWithStack")
	}
	p.push(new(Boardstack), m)
}

// PushWithStack plays m onto an externally supplied node st, for
// external-allocation-mode Positions. It panics if the Position was built
// in internal mode.
func (p *Position) PushWithStack(st *Boardstack, m Move) {
	if p.internalAlloc {
		panicf("chess: PushWithStack called on an internal-allocation Position; use Push")
	}
	p.push(st, m)
}

// PushNullMove passes the turn without moving a piece: used for null-move
// search pruning, never legal in the sense of the move generator.
func (p *Position) PushNullMove() {
	var st *Boardstack
	if p.internalAlloc {
		st = new(Boardstack)
	} else {
		panicf("chess: PushNullMove requires PushNullMoveWithStack in external mode")
	}
	p.pushNull(st)
}

// PushNullMoveWithStack is PushNullMove for external-allocation Positions.
func (p *Position) PushNullMoveWithStack(st *Boardstack) {
	p.pushNull(st)
}

func (p *Position) pushNull(st *Boardstack) {
	prev := p.stack
	*st = *prev
	st.prev = prev
	st.lastMove = NullMove
	st.capturedPiece = PieceNone
	st.repetition = 0
	st.lastNullmove = 0
	st.rule50++

	if prev.enPassantSq != SquareNone {
		st.key ^= zobristEP[prev.enPassantSq.File()]
	}
	st.enPassantSq = SquareNone
	st.polyglotEP = SquareNone
	st.key ^= zobristTurn

	p.stack = st
	p.sideToMove = p.sideToMove.Other()
	p.gamePly++
	p.computeCheckState()
}

func (p *Position) push(st *Boardstack, m Move) {
	prev := p.stack
	us := p.sideToMove
	them := us.Other()

	givesCheck := p.MoveGivesCheck(m)

	st.prev = prev
	st.key = prev.key
	st.materialKey = prev.materialKey
	st.rule50 = prev.rule50 + 1
	st.lastNullmove = prev.lastNullmove + 1
	st.castlingRights = prev.castlingRights
	st.enPassantSq = SquareNone
	st.polyglotEP = SquareNone
	st.lastMove = m
	st.capturedPiece = PieceNone
	p.stack = st

	from, to := m.From(), m.To()
	moved := p.table[from]

	switch m.Type() {
	case Castling:
		short := castlingIsShort(from, to, us)
		kingTo, rookTo := relativeCastleSquares(us, short)
		rook := p.removePiece(to) // to holds the castling rook's origin
		king := p.removePiece(from)
		st.key ^= zobristPSQ[king][from] ^ zobristPSQ[king][kingTo]
		st.key ^= zobristPSQ[rook][to] ^ zobristPSQ[rook][rookTo]
		p.placePiece(king, kingTo)
		p.placePiece(rook, rookTo)

	case EnPassant:
		capSq := Square(int(to) - int(PawnPushDirection(us)))
		captured := p.removePiece(capSq)
		st.key ^= zobristPSQ[captured][capSq]
		p.materialXORAfterRemove(captured)
		st.capturedPiece = captured
		st.rule50 = 0
		p.movePiece(from, to)
		st.key ^= zobristPSQ[moved][from] ^ zobristPSQ[moved][to]

	case Promotion:
		if cap := p.table[to]; cap != PieceNone {
			p.removePiece(to)
			st.key ^= zobristPSQ[cap][to]
			p.materialXORAfterRemove(cap)
			st.capturedPiece = cap
			st.rule50 = 0
		}
		p.removePiece(from)
		st.key ^= zobristPSQ[moved][from]
		p.materialXORAfterRemove(moved)
		promoted := NewPiece(us, m.Promotion().PieceType())
		p.placePiece(promoted, to)
		st.key ^= zobristPSQ[promoted][to]
		p.materialXORAfterAdd(promoted)
		st.rule50 = 0

	default: // Normal
		if cap := p.table[to]; cap != PieceNone {
			p.removePiece(to)
			st.key ^= zobristPSQ[cap][to]
			p.materialXORAfterRemove(cap)
			st.capturedPiece = cap
			st.rule50 = 0
		}
		p.movePiece(from, to)
		st.key ^= zobristPSQ[moved][from] ^ zobristPSQ[moved][to]

		if moved.Type() == Pawn {
			st.rule50 = 0
			if int(to)-int(from) == 16 || int(from)-int(to) == 16 {
				polyEP := Square((int(from) + int(to)) / 2)
				st.polyglotEP = polyEP
				if PawnAttacks(us, polyEP)&p.PieceBB(them, Pawn) != 0 {
					st.enPassantSq = polyEP
					st.key ^= zobristEP[polyEP.File()]
				}
			}
		}
	}

	if prev.enPassantSq != SquareNone {
		st.key ^= zobristEP[prev.enPassantSq.File()]
	}

	lost := p.castlingMask[from] | p.castlingMask[to]
	if st.castlingRights&lost != 0 {
		st.key ^= zobristCastling[st.castlingRights] ^ zobristCastling[st.castlingRights&^lost]
		st.castlingRights &^= lost
	}

	st.key ^= zobristTurn
	p.sideToMove = them
	p.gamePly++

	if givesCheck {
		st.checkers = p.attackersTo(p.KingSquare(them), us)
	} else {
		st.checkers = 0
	}
	p.computeCheckSquaresAndPins()

	p.updateRepetition(st)
}

// castlingIsShort reports whether a castling move (identified by its
// king-from/rook-from squares) is kingside for color c.
func castlingIsShort(kingFrom, rookFrom Square, c Color) bool {
	return rookFrom.File() > kingFrom.File()
}

// updateRepetition walks back two plies at a time, up to
// min(rule50, lastNullmove) plies or to the root of the chain, whichever
// comes first, looking for a matching Zobrist key.
func (p *Position) updateRepetition(st *Boardstack) {
	st.repetition = 0
	limit := st.rule50
	if st.lastNullmove < limit {
		limit = st.lastNullmove
	}
	if limit < 4 {
		return
	}
	it := st.prev.prev
	for i := 4; i <= limit; i += 2 {
		if it == nil || it.prev == nil || it.prev.prev == nil {
			return
		}
		it = it.prev.prev
		if it.key == st.key {
			st.repetition = it.repetition + 1
			return
		}
	}
}

// Pop undoes the last move (or null move) and returns it. Popping past the
// root is a programmer error and panics.
func (p *Position) Pop() Move {
	st := p.stack
	if st.prev == nil {
		panicf("chess: Pop called at the root")
	}

	them := p.sideToMove
	us := them.Other()
	m := st.lastMove

	if m != NullMove {
		from, to := m.From(), m.To()

		switch m.Type() {
		case Castling:
			short := castlingIsShort(from, to, us)
			kingTo, rookTo := relativeCastleSquares(us, short)
			king := p.removePiece(kingTo)
			rook := p.removePiece(rookTo)
			p.placePiece(king, from)
			p.placePiece(rook, to)

		case EnPassant:
			p.movePiece(to, from)
			capSq := Square(int(to) - int(PawnPushDirection(us)))
			p.placePiece(st.capturedPiece, capSq)

		case Promotion:
			p.removePiece(to)
			p.placePiece(NewPiece(us, Pawn), from)
			if st.capturedPiece != PieceNone {
				p.placePiece(st.capturedPiece, to)
			}

		default:
			p.movePiece(to, from)
			if st.capturedPiece != PieceNone {
				p.placePiece(st.capturedPiece, to)
			}
		}
	}

	p.sideToMove = us
	p.gamePly--
	p.stack = st.prev
	return m
}

// PeekMove returns the move that produced the current ply (or NullMove).
func (p *Position) PeekMove() Move { return p.stack.lastMove }

// PeekAllMoves returns every move from the root to the current ply, root
// first. It walks the chain twice (once to measure depth, once to fill)
// rather than recursing, so it is safe on arbitrarily deep games.
func (p *Position) PeekAllMoves() []Move {
	depth := 0
	for st := p.stack; st.prev != nil; st = st.prev {
		depth++
	}
	moves := make([]Move, depth)
	st := p.stack
	for i := depth - 1; i >= 0; i-- {
		moves[i] = st.lastMove
		st = st.prev
	}
	return moves
}

// CopyRoot returns a Position sharing no mutable state with p, positioned
// at the deepest ancestor's state (the root of p's history chain).
func (p *Position) CopyRoot() *Position {
	cp := p.Copy()
	for cp.stack.prev != nil {
		cp.Pop()
	}
	return cp
}

// Copy deep-copies p including its entire history chain.
func (p *Position) Copy() *Position {
	cp := *p
	cp.stack = cloneChain(p.stack)
	return &cp
}

func countDepth(st *Boardstack) int {
	d := 0
	for ; st.prev != nil; st = st.prev {
		d++
	}
	return d
}

// cloneChain iteratively duplicates the stack chain root to tip, avoiding
// the unbounded recursion the source library's duplication used.
func cloneChain(top *Boardstack) *Boardstack {
	var nodes []*Boardstack
	for st := top; st != nil; st = st.prev {
		nodes = append(nodes, st)
	}
	var prev *Boardstack
	for i := len(nodes) - 1; i >= 0; i-- {
		n := *nodes[i]
		n.prev = prev
		copied := n
		prev = &copied
	}
	return prev
}

// IsCapture reports whether m captures a piece (en-passant included).
func (p *Position) IsCapture(m Move) bool {
	return m.Type() == EnPassant || p.table[m.To()] != PieceNone
}

// IsQuiet reports whether m is neither a capture nor a promotion.
func (p *Position) IsQuiet(m Move) bool {
	return !p.IsCapture(m) && m.Type() != Promotion
}

// IsZeroing reports whether m resets the halfmove clock: a capture or a
// pawn move.
func (p *Position) IsZeroing(m Move) bool {
	return p.IsCapture(m) || p.table[m.From()].Type() == Pawn
}

// IsIrreversible reports whether m cannot be "undone" by any sequence of
// further legal moves reaching the same reversible state: captures,
// pawn moves, castling-rights-destroying moves, and castling/promotion
// itself all qualify; additionally, if a currently-legal en-passant
// capture exists, the position is irreversible even when m isn't that
// capture, because the right itself cannot be regained.
func (p *Position) IsIrreversible(m Move) bool {
	if p.IsZeroing(m) {
		return true
	}
	if m.Type() == Castling {
		return true
	}
	if (p.castlingMask[m.From()]|p.castlingMask[m.To()])&p.stack.castlingRights != 0 {
		return true
	}
	return p.hasLegalEnPassant()
}

func (p *Position) hasLegalEnPassant() bool {
	if p.stack.enPassantSq == SquareNone {
		return false
	}
	us := p.sideToMove
	capturers := p.PieceBB(us, Pawn) & PawnAttacks(us.Other(), p.stack.enPassantSq)
	return capturers != 0
}
