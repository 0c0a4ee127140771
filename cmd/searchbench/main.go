package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	mg "chess-ai/chessmg"
	"chess-ai/engine"
)

func main() {
	depthFlag := flag.Int("depth", 4, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	timeout := flag.Duration("timeout", 0, "abandon each search after this long (0 = no limit)")
	verbose := flag.Bool("v", false, "debug logging")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if *depthFlag <= 0 {
		log.Fatal().Int("depth", *depthFlag).Msg("depth must be positive")
	}

	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fen := mg.FENStartPos
	if *fenFlag != "" {
		fen = *fenFlag
	}
	pos, err := mg.ParseFEN(fen)
	if err != nil {
		log.Fatal().Err(err).Str("fen", fen).Msg("bad FEN")
	}

	depth := *depthFlag
	repeat := *repeatFlag
	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", fen, depth, repeat)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < repeat; i++ {
		ctx, cancel := context.Background(), context.CancelFunc(func() {})
		if *timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, *timeout)
		}
		task := engine.StartSearch(ctx, pos, engine.TaskConfig{Depth: depth, Logger: log})
		r, err := task.Wait(context.Background())
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("wait")
		}
		if r.Err != nil {
			fmt.Printf("iteration %d: %v  nodes=%d time=%v\n", i+1, r.Err, r.Nodes, r.Elapsed)
			continue
		}
		totalNodes += r.Nodes
		nps := float64(r.Nodes) / r.Elapsed.Seconds()
		fmt.Printf("iteration %d: bestmove %s score %d  nodes=%d time=%v nps=%.0f\n",
			i+1, r.Move, r.Score, r.Nodes, r.Elapsed, nps)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v  nodes: %d\n", totalElapsed, totalNodes)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}
