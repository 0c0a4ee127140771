package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	mg "chess-ai/chessmg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code so deferred profile writers always
// flush before the process ends.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fen := fs.String("fen", mg.FENStartPos, "FEN string (defaults to initial position)")
	depth := fs.Int("depth", 0, "Perft depth (required)")
	divide := fs.Bool("divide", false, "Print per-move node counts at root")
	repeat := fs.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := fs.String("label", "", "Optional label prefix for one-line output")
	oracle := fs.String("oracle", "", "Cross-check the count against a reference generator: dragontooth or notnil")
	cpuProf := fs.String("cpuprofile", "", "Write CPU profile to file during run")
	memProf := fs.String("memprofile", "", "Write heap profile to file after run")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *depth <= 0 {
		fmt.Fprintln(stderr, "-depth must be > 0")
		return 2
	}
	*repeat = max(*repeat, 1)

	pos, err := mg.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(stderr, "ParseFEN error: %v\n", err)
		return 2
	}

	if *divide {
		div := mg.PerftDivide(pos, *depth)
		byText := make(map[string]uint64, len(div))
		var sum uint64
		for m, n := range div {
			byText[m.String()] = n
			sum += n
		}
		keys := maps.Keys(byText)
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(stdout, "%s: %d\n", k, byText[k])
		}
		fmt.Fprintf(stdout, "Total: %d\n", sum)
		return 0
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(stderr, "creating cpuprofile: %v\n", err)
			return 2
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "start cpu profile: %v\n", err)
			_ = f.Close()
			return 2
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += mg.Perft(pos, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Depth Nodes Time NPS
	fmt.Fprintf(stdout, "%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)

	code := 0
	if *oracle != "" {
		got := totalNodes / uint64(*repeat)
		want, err := oracleCount(*oracle, *fen, *depth)
		switch {
		case err != nil:
			fmt.Fprintln(stderr, err)
			return 2
		case got != want:
			fmt.Fprintf(stdout, "MISMATCH: %s reports %d, we count %d\n", *oracle, want, got)
			code = 1
		default:
			fmt.Fprintf(stdout, "%s agrees: %d\n", *oracle, want)
		}
	}

	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			fmt.Fprintf(stderr, "creating memprofile: %v\n", err)
			return 2
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(stderr, "write heap profile: %v\n", err)
			return 2
		}
	}
	return code
}

// oracleCount runs perft with one of the reference move generators.
func oracleCount(name, fen string, depth int) (uint64, error) {
	switch name {
	case "dragontooth":
		b := dragontoothmg.ParseFen(fen)
		return dragonPerft(&b, depth), nil
	case "notnil":
		opt, err := chess.FEN(fen)
		if err != nil {
			return 0, fmt.Errorf("oracle FEN error: %w", err)
		}
		return notnilPerft(chess.NewGame(opt).Position(), depth), nil
	default:
		return 0, fmt.Errorf("unknown -oracle %q", name)
	}
}

func dragonPerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		undo := b.Apply(m)
		n += dragonPerft(b, depth-1)
		undo()
	}
	return n
}

func notnilPerft(p *chess.Position, depth int) uint64 {
	moves := p.ValidMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		n += notnilPerft(p.Update(m), depth-1)
	}
	return n
}
