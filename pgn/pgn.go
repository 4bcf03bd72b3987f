// Package pgn serializes and parses the Portable Game Notation subset
// described by the seven-tag roster plus SAN movetext: enough to round-trip
// a game played through chess.Position without claiming full PGN coverage
// (recursive variations, NAGs, and suffix annotations are not parsed).
package pgn

import (
	"fmt"
	"strconv"
	"strings"

	chess "github.com/mhouppin/libchessutil"
	"github.com/mhouppin/libchessutil/notation"
)

// Tags holds the seven-tag roster every PGN export must carry.
type Tags struct {
	Event, Site, Date, Round, White, Black, Result string
}

var tagOrder = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

func (t Tags) get(name string) string {
	switch name {
	case "Event":
		return t.Event
	case "Site":
		return t.Site
	case "Date":
		return t.Date
	case "Round":
		return t.Round
	case "White":
		return t.White
	case "Black":
		return t.Black
	case "Result":
		return t.Result
	default:
		return ""
	}
}

// SerializeGame renders tags and the move sequence played from startFEN as a
// PGN string. moves is replayed against a scratch position so the movetext
// carries accurate check/mate suffixes.
func SerializeGame(tags Tags, startFEN string, moves []chess.Move) (string, error) {
	pos, err := chess.ParseFEN(startFEN)
	if err != nil {
		return "", fmt.Errorf("pgn: invalid start FEN: %w", err)
	}

	var b strings.Builder
	for _, name := range tagOrder {
		fmt.Fprintf(&b, "[%s %q]\n", name, tags.get(name))
	}
	b.WriteByte('\n')

	startPly := pos.Ply()
	for i, m := range moves {
		legal := chess.GenLegalMoves(pos)
		san := notation.ToSAN(pos, m, legal)

		ply := pos.Ply() - startPly
		if pos.SideToMove() == chess.White {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d. %s", ply/2+1, san)
		} else {
			fmt.Fprintf(&b, " %d... %s", ply/2+1, san)
		}
		pos.Push(m)
	}

	if tags.Result != "" {
		if len(moves) > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tags.Result)
	}
	b.WriteByte('\n')
	return b.String(), nil
}

// ParsePGN extracts the tag pairs and resolves the movetext's SAN tokens
// into legal moves played from startFEN, stopping at a result token or the
// first token it cannot match against the legal move list.
func ParsePGN(startFEN, pgnText string) (Tags, []chess.Move, error) {
	tags := parseTags(pgnText)

	pos, err := chess.ParseFEN(startFEN)
	if err != nil {
		return tags, nil, fmt.Errorf("pgn: invalid start FEN: %w", err)
	}

	var moves []chess.Move
	for _, tok := range tokenizeMovetext(pgnText) {
		if isResultToken(tok) {
			break
		}
		legal := chess.GenLegalMoves(pos)
		m, err := resolveSAN(pos, tok, legal)
		if err != nil {
			return tags, moves, err
		}
		moves = append(moves, m)
		pos.Push(m)
	}
	return tags, moves, nil
}

func parseTags(pgnText string) Tags {
	var tags Tags
	for _, line := range strings.Split(pgnText, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}
		inner := line[1 : len(line)-1]
		sp := strings.IndexByte(inner, ' ')
		if sp < 0 {
			continue
		}
		name := inner[:sp]
		value, err := strconv.Unquote(strings.TrimSpace(inner[sp+1:]))
		if err != nil {
			continue
		}
		switch name {
		case "Event":
			tags.Event = value
		case "Site":
			tags.Site = value
		case "Date":
			tags.Date = value
		case "Round":
			tags.Round = value
		case "White":
			tags.White = value
		case "Black":
			tags.Black = value
		case "Result":
			tags.Result = value
		}
	}
	return tags
}

// tokenizeMovetext strips tag pairs and {...} comments, then splits the
// remaining movetext on whitespace, dropping move-number markers ("1.",
// "1...").
func tokenizeMovetext(pgnText string) []string {
	var b strings.Builder
	depth := 0
	for _, line := range strings.Split(pgnText, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			continue
		}
		for _, r := range line {
			switch {
			case r == '{':
				depth++
			case r == '}':
				if depth > 0 {
					depth--
				}
			case depth == 0:
				b.WriteRune(r)
			}
		}
		b.WriteByte(' ')
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if !isResultToken(tok) {
			tok = strings.TrimLeft(tok, "0123456789.")
		}
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func isResultToken(tok string) bool {
	switch tok {
	case "1-0", "0-1", "1/2-1/2", "*":
		return true
	default:
		return false
	}
}

// resolveSAN finds the legal move whose SAN (check/mate suffix included)
// matches tok exactly.
func resolveSAN(pos *chess.Position, tok string, legal chess.MoveList) (chess.Move, error) {
	for _, m := range legal.Slice() {
		if notation.ToSAN(pos, m, legal) == tok {
			return m, nil
		}
	}
	return chess.NullMove, fmt.Errorf("pgn: no legal move matches SAN token %q", tok)
}
