// Command perft walks the legal move generator to a fixed depth and prints
// the leaf-node count; it does not itself compare the count with the
// standard perft reference values (see
// https://www.chessprogramming.org/Perft_Results). It is the move
// generator's debugging and regression tool, not a playing engine.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	chess "github.com/mhouppin/libchessutil"
	"github.com/mhouppin/libchessutil/notation"
)

// counters accumulates the move-shape breakdown a verbose run reports.
type counters struct {
	nodes        int64
	captures     int64
	epCaptures   int64
	castles      int64
	promotions   int64
	checks       int64
	doubleChecks int64
}

// perft counts leaf nodes reached after depth plies, without collecting
// per-move statistics.
func perft(p *chess.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	l := chess.GenLegalMoves(p)
	if depth == 1 {
		return int64(l.Count)
	}

	var nodes int64
	for _, m := range l.Slice() {
		p.Push(m)
		nodes += perft(p, depth-1)
		p.Pop()
	}
	return nodes
}

// perftDivide runs perft one ply at a time from the root, logging each
// root move's subtree count, the standard way to localize a move generator
// bug against a reference perft tool.
func perftDivide(p *chess.Position, depth int, c *counters) int64 {
	l := chess.GenLegalMoves(p)
	var total int64

	for _, m := range l.Slice() {
		if isCapture(p, m) {
			c.captures++
		}
		switch m.Type() {
		case chess.Castling:
			c.castles++
		case chess.EnPassant:
			c.epCaptures++
		case chess.Promotion:
			c.promotions++
		}

		p.Push(m)

		if n := p.Checkers().PopCount(); n > 0 {
			c.checks++
			if n > 1 {
				c.doubleChecks++
			}
		}

		var sub int64
		if depth == 1 {
			sub = 1
		} else {
			sub = perft(p, depth-1)
		}
		slog.Info("divide", "move", notation.ToUCI(m), "nodes", sub)
		total += sub

		p.Pop()
	}

	c.nodes = total
	return total
}

func isCapture(p *chess.Position, m chess.Move) bool {
	if m.Type() == chess.EnPassant {
		return true
	}
	return p.PieceAt(m.To()) != chess.PieceNone
}

func main() {
	fen := flag.String("fen", chess.StartFEN, "FEN of the root position")
	depth := flag.Int("depth", 1, "perft depth")
	divide := flag.Bool("divide", false, "log each root move's subtree count and a move-shape breakdown")
	chess960 := flag.Bool("chess960", false, "expect a Chess960 position; only logs a warning if the FEN parses as classical")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to this file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			slog.Error("create cpu profile", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			slog.Error("start cpu profile", "error", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	p, err := chess.NewPosition(*fen)
	if err != nil {
		slog.Error("parse FEN", "fen", *fen, "error", err)
		os.Exit(1)
	}
	if *chess960 && !p.IsChess960() {
		slog.Warn("chess960 flag set but the FEN's castling rights parsed as classical; rook placement still drives legality")
	}

	start := time.Now()
	var nodes int64
	if *divide {
		c := &counters{}
		nodes = perftDivide(p, *depth, c)
		elapsed := time.Since(start)
		fmt.Printf("nodes=%d captures=%d ep=%d castles=%d promotions=%d checks=%d double_checks=%d\n",
			c.nodes, c.captures, c.epCaptures, c.castles, c.promotions, c.checks, c.doubleChecks)
		slog.Info("perft complete", "depth", *depth, "nodes", nodes, "elapsed", elapsed)
		return
	}

	nodes = perft(p, *depth)
	elapsed := time.Since(start)
	fmt.Printf("nodes=%d\n", nodes)
	slog.Info("perft complete", "depth", *depth, "nodes", nodes, "elapsed", elapsed,
		"nps", float64(nodes)/elapsed.Seconds())
}
