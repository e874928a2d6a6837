// gannet-eval loads a network and scores positions given as FEN strings,
// optionally caching scores in a persistent store keyed by position hash.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gannetchess/gannet/internal/board"
	"github.com/gannetchess/gannet/internal/nnue"
	"github.com/gannetchess/gannet/internal/storage"
)

var (
	netFile  = flag.String("net", "", "network weights file (required)")
	fen      = flag.String("fen", board.StartFEN, "position to evaluate")
	fenFile  = flag.String("file", "", "file with one FEN per line (overrides -fen)")
	cacheDir = flag.String("cache", "", "directory for the persistent eval cache")
	verbose  = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *netFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	net := &nnue.Network{}
	if err := net.LoadFile(*netFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load network")
	}
	log.Debug().Str("file", *netFile).Msg("network loaded")

	var cache *storage.EvalCache
	if *cacheDir != "" {
		var err error
		cache, err = storage.Open(*cacheDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open eval cache")
		}
		defer cache.Close()
	}

	fens, err := collectFENs()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read positions")
	}

	state := nnue.NewState(net)
	for _, f := range fens {
		score, err := evaluate(state, cache, f)
		if err != nil {
			log.Error().Err(err).Str("fen", f).Msg("skipping position")
			continue
		}
		fmt.Printf("%+d\t%s\n", score, f)
	}
}

func collectFENs() ([]string, error) {
	if *fenFile == "" {
		return []string{*fen}, nil
	}

	f, err := os.Open(*fenFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fens []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fens = append(fens, line)
	}
	return fens, sc.Err()
}

func evaluate(state *nnue.State, cache *storage.EvalCache, fen string) (int, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return 0, err
	}

	if cache != nil {
		if score, ok, err := cache.Get(pos.Hash); err != nil {
			log.Warn().Err(err).Msg("cache read failed")
		} else if ok {
			log.Debug().Uint64("hash", pos.Hash).Msg("cache hit")
			return int(score), nil
		}
	}

	pos.AttachEval(state)
	score := state.Evaluate(pos.SideToMove)

	if cache != nil {
		if err := cache.Put(pos.Hash, int32(score)); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}

	return score, nil
}
