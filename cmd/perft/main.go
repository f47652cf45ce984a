// Command perft counts move-generation leaf nodes from a position and can
// split the count by root move. It is the tool for checking the move
// generator against published numbers and for profiling it.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/stdr"
	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "FEN string (defaults to the initial position)")
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at the root")
	jobs := flag.Int("jobs", runtime.GOMAXPROCS(0), "root moves searched in parallel")
	prof := flag.String("profile", "", "write a cpu or mem profile to the current directory")
	verbose := flag.Int("v", 0, "log verbosity")
	flag.Parse()

	stdr.SetVerbosity(*verbose)
	log := stdr.New(nil).WithName("perft")

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}
	pos, err := board.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		fmt.Fprintf(os.Stderr, "unknown profile %q (want cpu or mem)\n", *prof)
		os.Exit(2)
	}

	log.V(1).Info("starting", "fen", pos.ToFEN(), "depth", *depth, "jobs", *jobs)
	start := time.Now()
	entries, err := divideParallel(pos, *depth, *jobs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	if *divide {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Move.String() < entries[j].Move.String() })
		for _, e := range entries {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
		}
		fmt.Println()
	}

	nps := uint64(float64(total) / max(elapsed.Seconds(), 1e-9))
	fmt.Printf("depth %d: %s nodes in %v (%s nps)\n",
		*depth, humanize.Comma(int64(total)), elapsed.Round(time.Millisecond), humanize.Comma(int64(nps)))
}

// divideParallel counts the subtree below every root move, searching up
// to jobs root moves at once. Each worker owns a copy of the position.
func divideParallel(pos *board.Position, depth, jobs int) ([]board.DivideEntry, error) {
	var ml board.MoveList
	pos.LegalMoves(pos.SideToMove, &ml)
	entries := make([]board.DivideEntry, ml.Len())

	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i, m := range ml.Slice() {
		i, m := i, m // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			p := pos.Copy()
			p.Apply(m)
			entries[i] = board.DivideEntry{Move: m, Nodes: p.Perft(depth - 1)}
			p.Undo()
			if p.Hash != pos.Hash {
				return fmt.Errorf("perft %v: position not restored", m)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
