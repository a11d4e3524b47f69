package main

import (
	"flag"

	"github.com/lintang-b-s/rwroute/pkg/logger"
	"github.com/lintang-b-s/rwroute/pkg/preprocessor"
)

var (
	width        = flag.Int("width", 64, "tile grid width")
	height       = flag.Int("height", 64, "tile grid height")
	wiresPerTile = flag.Int("wires_per_tile", 12, "wires starting in every tile")
	seed         = flag.Uint64("seed", 42, "base cost jitter seed")
	output       = flag.String("output", "./data/route_graph.bz2", "output route graph file")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	prep := preprocessor.NewPreprocessor(*width, *height, *wiresPerTile, *seed, logger)
	err = prep.PreProcessing(*output)
	if err != nil {
		panic(err)
	}

	logger.Sugar().Infof("Preprocessing completed successfully.")
}
