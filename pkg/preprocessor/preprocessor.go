package preprocessor

import (
	"github.com/lintang-b-s/rwroute/pkg"
	da "github.com/lintang-b-s/rwroute/pkg/datastructure"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

/*
Preprocessor generates synthetic tile grid routing graphs for benchmarking the congestion engine.

every tile (x, y) holds one output pin (PINFEED_O), one input pin (PINFEED_I) and wiresPerTile wires.
wire k of a tile runs in direction k%4 (east, north, west, south) and spans 1 or 2 tiles. the output pin
drives every wire of its tile; every wire drives every wire starting in its end tile and that tile's input
pin. with more than INLINE_CHILDREN_CAPACITY wires per tile, wires use both edge storage tiers.
*/
type Preprocessor struct {
	logger       *zap.Logger
	width        int
	height       int
	wiresPerTile int
	rng          *rand.Rand
}

func NewPreprocessor(width, height, wiresPerTile int, seed uint64, logger *zap.Logger) *Preprocessor {
	return &Preprocessor{
		logger:       logger,
		width:        width,
		height:       height,
		wiresPerTile: wiresPerTile,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func (p *Preprocessor) PreProcessing(outputFile string) error {
	p.logger.Sugar().Infof("Building %dx%d tile grid with %d wires per tile...", p.width, p.height, p.wiresPerTile)
	g := p.BuildTileGrid()
	p.logger.Info("tile grid built",
		zap.Int("nodes", g.NumberOfNodes()),
		zap.Int("edges", g.NumberOfEdges()))

	p.logger.Sugar().Infof("Writing route graph to %s", outputFile)
	return g.WriteRouteGraph(outputFile)
}

func (p *Preprocessor) nodesPerTile() int {
	return p.wiresPerTile + 2
}

func (p *Preprocessor) tileIndex(x, y int) int {
	return y*p.width + x
}

func (p *Preprocessor) SourceOf(x, y int) da.Index {
	return da.Index(p.tileIndex(x, y) * p.nodesPerTile())
}

func (p *Preprocessor) SinkOf(x, y int) da.Index {
	return p.SourceOf(x, y) + 1
}

func (p *Preprocessor) WireOf(x, y, k int) da.Index {
	return p.SourceOf(x, y) + 2 + da.Index(k)
}

var directions = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

func (p *Preprocessor) wireEnd(x, y, k int) (int, int, int) {
	length := 1 + (k/4)%2
	d := directions[k%4]
	ex := min(max(x+d[0]*length, 0), p.width-1)
	ey := min(max(y+d[1]*length, 0), p.height-1)
	return ex, ey, length
}

func (p *Preprocessor) BuildTileGrid() *da.RouteGraph {
	g := da.NewRouteGraph(p.width * p.height * p.nodesPerTile())

	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			tx, ty := int16(x), int16(y)
			id := da.Index(g.NumberOfNodes())
			g.AddNode(id, tx, ty, tx, ty, 1, pkg.DEFAULT_NODE_LENGTH, pkg.PINFEED_O, false)
			g.AddNode(id+1, tx, ty, tx, ty, 1, pkg.DEFAULT_NODE_LENGTH, pkg.PINFEED_I, false)
			for k := 0; k < p.wiresPerTile; k++ {
				ex, ey, length := p.wireEnd(x, y, k)
				baseCost := 0.4*float32(length) + 0.1*p.rng.Float32()
				w := g.AddNode(da.Index(g.NumberOfNodes()), tx, ty, int16(ex), int16(ey), baseCost, int16(length),
					pkg.WIRE, false)
				g.GetNode(w).SetIsAccessibleWire(true)
			}
		}
	}

	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			for k := 0; k < p.wiresPerTile; k++ {
				g.AddEdge(p.SourceOf(x, y), p.WireOf(x, y, k))

				ex, ey, _ := p.wireEnd(x, y, k)
				for j := 0; j < p.wiresPerTile; j++ {
					g.AddEdge(p.WireOf(x, y, k), p.WireOf(ex, ey, j))
				}
				g.AddEdge(p.WireOf(x, y, k), p.SinkOf(ex, ey))
			}
		}
	}

	g.Seal()
	return g
}
