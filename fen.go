package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieceChar = map[byte]Piece{
	'P': NewPiece(White, Pawn), 'N': NewPiece(White, Knight), 'B': NewPiece(White, Bishop),
	'R': NewPiece(White, Rook), 'Q': NewPiece(White, Queen), 'K': NewPiece(White, King),
	'p': NewPiece(Black, Pawn), 'n': NewPiece(Black, Knight), 'b': NewPiece(Black, Bishop),
	'r': NewPiece(Black, Rook), 'q': NewPiece(Black, Queen), 'k': NewPiece(Black, King),
}

// ParseFEN parses fen into a fresh, internal-allocation-mode Position.
func ParseFEN(fen string) (*Position, error) {
	return parseFEN(fen, true)
}

func parseFEN(fen string, internalAlloc bool) (*Position, error) {
	Init()

	fields := strings.Fields(fen)
	if len(fields) < 1 {
		return nil, fmt.Errorf("%w: empty FEN", ErrMalformedFEN)
	}
	for len(fields) < 6 {
		switch len(fields) {
		case 1:
			fields = append(fields, "w")
		case 2:
			fields = append(fields, "-")
		case 3:
			fields = append(fields, "-")
		case 4:
			fields = append(fields, "0")
		case 5:
			fields = append(fields, "1")
		}
	}

	p := &Position{internalAlloc: internalAlloc}
	p.stack = &Boardstack{enPassantSq: SquareNone, polyglotEP: SquareNone}
	for i := range p.table {
		p.table[i] = PieceNone
	}

	if err := parsePlacement(p, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: bad side to move %q", ErrMalformedFEN, fields[1])
	}

	if err := parseCastling(p, fields[2]); err != nil {
		return nil, err
	}

	if err := parseEnPassant(p, fields[3]); err != nil {
		return nil, err
	}

	rule50, err := strconv.Atoi(fields[4])
	if err != nil || rule50 < 0 {
		return nil, fmt.Errorf("%w: bad halfmove clock %q", ErrMalformedFEN, fields[4])
	}
	p.stack.rule50 = rule50
	p.stack.lastNullmove = rule50

	fullmove, err := strconv.Atoi(fields[5])
	if err != nil || fullmove < 1 {
		return nil, fmt.Errorf("%w: bad fullmove number %q", ErrMalformedFEN, fields[5])
	}
	p.gamePly = 2*(fullmove-1) + int(p.sideToMove)
	if p.gamePly < 0 {
		p.gamePly = 0
	}

	if err := validatePosition(p); err != nil {
		return nil, err
	}

	computeInitialKeys(p)
	p.computeCheckState()

	if p.IsAttackedBy(p.KingSquare(p.sideToMove.Other()), p.sideToMove) {
		return nil, fmt.Errorf("%w: side not to move is in check", ErrIllegalPosition)
	}

	return p, nil
}

func parsePlacement(p *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, got %d", ErrMalformedFEN, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, ok := fenPieceChar[ch]
			if !ok {
				return fmt.Errorf("%w: bad piece char %q", ErrMalformedFEN, ch)
			}
			if file >= 8 {
				return fmt.Errorf("%w: rank %d overflows", ErrMalformedFEN, rank+1)
			}
			p.placePiece(pc, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d files, want 8", ErrMalformedFEN, rank+1, file)
		}
	}
	return nil
}

func parseCastling(p *Position, field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		ch := field[i]
		var c Color
		if ch >= 'A' && ch <= 'Z' {
			c = White
		} else {
			c = Black
		}
		if p.PieceBB(c, King) == 0 {
			return fmt.Errorf("%w: castling right for color with no king", ErrIllegalPosition)
		}
		kingSq := p.KingSquare(c)

		upper := ch
		if upper >= 'a' {
			upper -= 'a' - 'A'
		}

		var rookFile int
		switch upper {
		case 'K':
			rookFile = findRookFile(p, c, kingSq.File()+1, 7, 1)
		case 'Q':
			rookFile = findRookFile(p, c, kingSq.File()-1, 0, -1)
		default:
			rookFile = int(upper - 'A')
		}
		if rookFile < 0 || rookFile > 7 {
			return fmt.Errorf("%w: no rook for castling right %q", ErrMalformedFEN, ch)
		}
		addCastlingRight(p, c, kingSq, rookFile)
	}
	return nil
}

// findRookFile scans files [from, to] (inclusive, stepping by step) on c's
// back rank for the first rook, used to resolve classical KQkq letters to
// an explicit file (needed because the rook may not sit on the classical
// corner in a Chess960 setup that still uses classical letters).
func findRookFile(p *Position, c Color, from, to, step int) int {
	rank := 0
	if c == Black {
		rank = 7
	}
	for f := from; (step > 0 && f <= to) || (step < 0 && f >= to); f += step {
		if p.PieceAt(NewSquare(f, rank)) == NewPiece(c, Rook) {
			return f
		}
	}
	return -1
}

func addCastlingRight(p *Position, c Color, kingSq Square, rookFile int) {
	rank := 0
	if c == Black {
		rank = 7
	}
	rookSq := NewSquare(rookFile, rank)
	short := rookFile > kingSq.File()
	right := castlingRightFor(c, short)
	idx := castlingIndex(right)

	kingTo, rookTo := relativeCastleSquares(c, short)
	p.castlingRookSquare[idx] = rookSq
	p.castlingPath[idx] = (Between(kingSq, kingTo) | Between(rookSq, rookTo) | SquareBB(kingTo) | SquareBB(rookTo)) &^
		SquareBB(kingSq) &^ SquareBB(rookSq)
	p.castlingKingPath[idx] = Between(kingSq, kingTo) | SquareBB(kingSq) | SquareBB(kingTo)
	p.castlingMask[kingSq] |= Kingside(c) | Queenside(c)
	p.castlingMask[rookSq] |= right
	p.stack.castlingRights |= right

	if kingSq.File() != 4 || (rookFile != 0 && rookFile != 7) {
		p.chess960 = true
	}
}

func parseEnPassant(p *Position, field string) error {
	if field == "-" {
		return nil
	}
	if len(field) != 2 {
		return fmt.Errorf("%w: bad en-passant square %q", ErrMalformedFEN, field)
	}
	file := int(field[0] - 'a')
	rank := int(field[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return fmt.Errorf("%w: bad en-passant square %q", ErrMalformedFEN, field)
	}
	// The EP field records the square a just-double-pushed enemy pawn
	// skipped, so its rank is fixed by who is to move: rank 6 (index 5)
	// after a black double push with white to move, rank 3 (index 2)
	// after a white double push with black to move. Any other rank is
	// not a square a double push could ever have produced.
	wantRank := 5
	if p.sideToMove == Black {
		wantRank = 2
	}
	if rank != wantRank {
		return fmt.Errorf("%w: en-passant square %q is not on the side-to-move's capture rank", ErrMalformedFEN, field)
	}

	sq := NewSquare(file, rank)
	p.stack.polyglotEP = sq

	pusher := p.sideToMove.Other()
	capturer := p.sideToMove
	if PawnAttacks(pusher, sq)&p.PieceBB(capturer, Pawn) == 0 {
		// No friendly pawn can actually capture there: the square is
		// geometrically real but not a live en-passant target.
		return nil
	}

	// A capturer exists, so the pushed pawn itself must be sitting right
	// behind the target square; if it isn't, the field is malformed.
	frontSq := Square(int(sq) - int(PawnPushDirection(capturer)))
	if p.PieceAt(frontSq) != NewPiece(pusher, Pawn) {
		return fmt.Errorf("%w: en-passant square %q has no pawn on its front square", ErrMalformedFEN, field)
	}

	p.stack.enPassantSq = sq
	return nil
}

func validatePosition(p *Position) error {
	if p.CountPiece(NewPiece(White, King)) != 1 || p.CountPiece(NewPiece(Black, King)) != 1 {
		return fmt.Errorf("%w: must have exactly one king per side", ErrIllegalPosition)
	}
	wk, bk := p.KingSquare(White), p.KingSquare(Black)
	if squareDistance[wk][bk] <= 1 {
		return fmt.Errorf("%w: kings are adjacent", ErrIllegalPosition)
	}
	return nil
}

// computeInitialKeys builds the Zobrist key and material key from scratch,
// the reference computation an incrementally maintained key must always
// match (§8 invariant).
func computeInitialKeys(p *Position) {
	var key, material uint64
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.table[sq]; pc != PieceNone {
			key ^= zobristPSQ[pc][sq]
		}
	}
	for c := White; c < ColorNB; c++ {
		for pt := Pawn; pt <= King; pt++ {
			pc := NewPiece(c, pt)
			for i := 0; i < p.pieceCount[pc]; i++ {
				material ^= zobristPSQ[pc][i]
			}
		}
	}
	if p.stack.enPassantSq != SquareNone {
		key ^= zobristEP[p.stack.enPassantSq.File()]
	}
	key ^= zobristCastling[p.stack.castlingRights]
	if p.sideToMove == Black {
		key ^= zobristTurn
	}
	p.stack.key = key
	p.stack.materialKey = material
}

// SerializeFEN emits p as a FEN string. Castling letters are emitted in
// KQkq order for classical layouts, or Shredder (file-letter) order for
// Chess960 positions.
func (p *Position) SerializeFEN() string {
	var b strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.table[NewSquare(file, rank)]
			if pc == PieceNone {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			b.WriteByte(pieceFENChar(pc))
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}

	b.WriteByte(' ')
	b.WriteString(p.sideToMove.String())

	b.WriteByte(' ')
	b.WriteString(p.castlingFENField())

	b.WriteByte(' ')
	if p.stack.enPassantSq != SquareNone {
		b.WriteString(p.stack.enPassantSq.String())
	} else {
		b.WriteByte('-')
	}

	fmt.Fprintf(&b, " %d %d", p.stack.rule50, p.gamePly/2+1)
	return b.String()
}

func pieceFENChar(pc Piece) byte {
	return pieceSymbols[pc]
}

func (p *Position) castlingFENField() string {
	if p.stack.castlingRights == NoCastling {
		return "-"
	}
	var b strings.Builder
	order := [4]CastlingRights{WhiteKingside, WhiteQueenside, BlackKingside, BlackQueenside}
	for _, right := range order {
		if p.stack.castlingRights&right == 0 {
			continue
		}
		if !p.chess960 {
			b.WriteByte(classicalCastlingChar(right))
			continue
		}
		file := p.castlingRookSquare[castlingIndex(right)].File()
		ch := byte('A' + file)
		if right == BlackKingside || right == BlackQueenside {
			ch += 'a' - 'A'
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func classicalCastlingChar(right CastlingRights) byte {
	switch right {
	case WhiteKingside:
		return 'K'
	case WhiteQueenside:
		return 'Q'
	case BlackKingside:
		return 'k'
	default:
		return 'q'
	}
}
