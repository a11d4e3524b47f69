package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/rwroute/pkg"
	"github.com/lintang-b-s/rwroute/pkg/concurrent"
	"github.com/lintang-b-s/rwroute/pkg/costfunction"
	"github.com/lintang-b-s/rwroute/pkg/customizer"
	"github.com/lintang-b-s/rwroute/pkg/datastructure"
	"github.com/lintang-b-s/rwroute/pkg/engine/routing"
	"github.com/lintang-b-s/rwroute/pkg/logger"
	"github.com/lintang-b-s/rwroute/pkg/metrics"
	"github.com/lintang-b-s/rwroute/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

var (
	graphFile  = flag.String("graph", "./data/route_graph.bz2", "serialized routing resource graph")
	iteration  = flag.Int("iteration", 0, "routing iteration being closed")
	batchId    = flag.Int("batch", 0, "batch id within the iteration")
	simulate   = flag.Int("simulate_paths", 0, "random paths staged concurrently before the update")
	pathSteps  = flag.Int("path_steps", 8, "edges per simulated path")
	seed       = flag.Uint64("seed", 42, "simulation seed")
	metricsOut = flag.String("metrics_out", "", "write congestion metrics in Prometheus text format to this file")
)

func main() {
	flag.Parse()

	if err := util.ReadConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
	}
	cfg, err := util.LoadRouterConfig(viper.GetViper())
	if err != nil {
		panic(err)
	}

	log, err := logger.NewWithLevel(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Sugar().Infof("Reading routing resource graph from %s", *graphFile)
	graph, err := datastructure.ReadRouteGraph(*graphFile)
	if err != nil {
		log.Fatal("failed to read route graph", zap.Error(err))
	}
	log.Info("route graph loaded",
		zap.Int("nodes", graph.NumberOfNodes()),
		zap.Int("edges", graph.NumberOfEdges()))

	model := costfunction.NewCongestionCostModel(cfg.InitialPresentCongestionFactor, cfg.PresentCongestionMultiplier,
		cfg.MaxPresentCongestionFactor, cfg.HistoricalCongestionFactor)
	c := customizer.NewCustomizer(graph, model, cfg.NumWorkers, log)

	recorder, err := metrics.NewRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}
	c.SetRecorder(recorder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batchStamp := datastructure.BatchStamp(*iteration, cfg.NumBatches, *batchId)

	var table *datastructure.NodeInfoTable
	if *simulate > 0 {
		table = datastructure.NewNodeInfoTable(graph.NumberOfNodes())
		if err := stageRandomPaths(ctx, graph, table, batchStamp, cfg.NumWorkers); err != nil {
			log.Fatal("path simulation failed", zap.Error(err))
		}
		log.Sugar().Infof("Staged %d random paths for batch %d", *simulate, batchStamp)
	}

	res, err := c.EndIteration(ctx, *iteration, table, batchStamp)
	if err != nil {
		log.Fatal("congestion update failed", zap.Error(err))
	}

	log.Sugar().Infof("Congestion update completed: %d of %d used nodes overused (converged=%v)",
		res.Stats.OverusedNodes, res.Stats.UsedNodes, res.Stats.Converged())

	if *metricsOut != "" {
		if err := metrics.WriteTextfile(*metricsOut, prometheus.DefaultGatherer); err != nil {
			log.Fatal("failed to write metrics", zap.Error(err))
		}
		log.Sugar().Infof("Congestion metrics written to %s", *metricsOut)
	}
}

// stageRandomPaths walks random paths from output pins on numWorkers goroutines, all staging their
// occupancy changes into the same table.
func stageRandomPaths(ctx context.Context, graph *datastructure.RouteGraph, table *datastructure.NodeInfoTable,
	batchStamp int32, numWorkers int) error {
	sources := make([]datastructure.Index, 0)
	graph.ForNodes(func(i datastructure.Index, n *datastructure.RouteNode) {
		if n.GetNodeType() == pkg.PINFEED_O && n.GetChildrenSize() > 0 {
			sources = append(sources, i)
		}
	})
	if len(sources) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for w, r := range concurrent.Chunks(*simulate, numWorkers) {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(*seed + uint64(w)))
			path := make([]datastructure.Index, 0, *pathSteps+1)
			for i := r.From; i < r.To; i++ {
				if util.StopConcurrentOperation(gctx) {
					return gctx.Err()
				}
				path = path[:0]
				u := sources[rng.Intn(len(sources))]
				path = append(path, u)
				for step := 0; step < *pathSteps; step++ {
					node := graph.GetNode(u)
					if node.GetChildrenSize() == 0 {
						break
					}
					u = node.ChildAt(rng.Intn(node.GetChildrenSize()))
					path = append(path, u)
				}
				routing.StagePath(table, path, batchStamp)
			}
			return nil
		})
	}
	return g.Wait()
}
