// gannet-netgen writes a seeded pseudo-random network file, useful as a
// test fixture or for benchmarking the evaluation path before trained
// weights are available.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gannetchess/gannet/internal/nnue"
)

var (
	out  = flag.String("out", "random.gnet", "output file")
	seed = flag.Int64("seed", 1, "generator seed")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	net := nnue.NewRandomNetwork(*seed)
	if err := net.SaveFile(*out); err != nil {
		log.Fatal().Err(err).Msg("failed to write network")
	}

	log.Info().Str("file", *out).Int64("seed", *seed).Msg("wrote random network")
}
