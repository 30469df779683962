// Command perft counts leaf positions of the legal move tree, splitting the
// work across root moves.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

var (
	fen     = flag.String("fen", board.StartFEN, "position to count from")
	depth   = flag.Int("depth", 5, "depth in plies")
	divide  = flag.Bool("divide", false, "print the count under each root move")
	workers = flag.Int("workers", runtime.NumCPU(), "root moves counted in parallel")
	audit   = flag.Bool("audit", false, "audit the position after every make and take")

	logLevel = flag.String("log-level", os.Getenv("CHESSCORE_LOG"), "log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	board.DebugAudit = *audit

	pos, err := board.LoadPosition(*fen)
	if err != nil {
		log.Fatal().Err(err).Str("fen", *fen).Msg("bad position")
	}
	if *depth < 1 {
		log.Fatal().Int("depth", *depth).Msg("depth must be at least 1")
	}

	start := time.Now()
	entries, err := parallelDivide(pos, *depth, *workers)
	if err != nil {
		log.Fatal().Err(err).Msg("perft failed")
	}

	var total uint64
	for _, e := range entries {
		if *divide {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
		}
		total += e.Nodes
	}
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", total)
	log.Info().
		Int("depth", *depth).
		Uint64("nodes", total).
		Dur("elapsed", elapsed).
		Float64("mnps", float64(total)/elapsed.Seconds()/1e6).
		Msg("perft done")
}

// parallelDivide counts each root move on its own copy of pos.
func parallelDivide(pos *board.Position, depth, workers int) ([]board.DivideEntry, error) {
	moves := pos.LegalMoves()
	entries := make([]board.DivideEntry, len(moves))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			child := pos.Copy()
			if !child.MakeMove(m) {
				return fmt.Errorf("root move %s left the king in check", m)
			}
			entries[i] = board.DivideEntry{Move: m, Nodes: board.CountLeaves(child, depth-1)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries, nil
}
