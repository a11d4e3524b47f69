package datastructure

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/rwroute/pkg"
	"github.com/lintang-b-s/rwroute/pkg/util"
)

/*
route graph file layout (little endian, bzip2 compressed):

	header:  magic uint32 | record version uint16 | number of nodes uint32
	nodes:   one fixed size node record per node, in arena order
	edges:   per node, number of children uint32 followed by the child indices (uint32 each)

node record (ROUTE_NODE_RECORD_SIZE bytes):

	id uint32 | endTileX int16 | endTileY int16 | beginTileX int16 | beginTileY int16 | length int16 |
	isAccessibleWire uint8 | baseCost float32 | type uint8 | isNodePinBounce uint8

occupancy, congestion costs and search state are not part of the record; they start at their initial
values after loading.
*/

const (
	graphHeaderSize      = 10
	maxPreallocatedNodes = 1 << 20
)

func EncodeRouteNodeRecord(buf []byte, n *RouteNode) {
	_ = buf[pkg.ROUTE_NODE_RECORD_SIZE-1]
	le := binary.LittleEndian
	le.PutUint32(buf[0:], uint32(n.id))
	le.PutUint16(buf[4:], uint16(n.endTileXCoordinate))
	le.PutUint16(buf[6:], uint16(n.endTileYCoordinate))
	le.PutUint16(buf[8:], uint16(n.beginTileXCoordinate))
	le.PutUint16(buf[10:], uint16(n.beginTileYCoordinate))
	le.PutUint16(buf[12:], uint16(n.length))
	buf[14] = boolToByte(n.isAccessibleWire)
	le.PutUint32(buf[15:], math.Float32bits(n.baseCost))
	buf[19] = byte(n.nodeType)
	buf[20] = boolToByte(n.isNodePinBounce)
}

// DecodeRouteNodeRecord fills n from a record written with the given record version.
func DecodeRouteNodeRecord(buf []byte, version uint16, n *RouteNode) error {
	if version != pkg.ROUTE_NODE_RECORD_VERSION {
		return util.WrapErrorf(nil, util.ErrUnsupportedVersion, "route node record version %d is not supported", version)
	}
	if len(buf) < pkg.ROUTE_NODE_RECORD_SIZE {
		return util.WrapErrorf(io.ErrUnexpectedEOF, util.ErrCorruptGraph, "route node record has %d bytes, want %d",
			len(buf), pkg.ROUTE_NODE_RECORD_SIZE)
	}
	le := binary.LittleEndian
	n.init(Index(le.Uint32(buf[0:])),
		int16(le.Uint16(buf[8:])), int16(le.Uint16(buf[10:])),
		int16(le.Uint16(buf[4:])), int16(le.Uint16(buf[6:])),
		math.Float32frombits(le.Uint32(buf[15:])),
		int16(le.Uint16(buf[12:])),
		pkg.NodeType(buf[19]),
		buf[20] != 0)
	n.isAccessibleWire = buf[14] != 0
	return nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (g *RouteGraph) WriteRouteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	if err := g.EncodeTo(bz); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

// EncodeTo writes the uncompressed graph encoding to w.
func (g *RouteGraph) EncodeTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	var header [graphHeaderSize]byte
	le.PutUint32(header[0:], pkg.ROUTE_GRAPH_MAGIC)
	le.PutUint16(header[4:], pkg.ROUTE_NODE_RECORD_VERSION)
	le.PutUint32(header[6:], uint32(len(g.nodes)))
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	var record [pkg.ROUTE_NODE_RECORD_SIZE]byte
	for i := range g.nodes {
		EncodeRouteNodeRecord(record[:], &g.nodes[i])
		if _, err := bw.Write(record[:]); err != nil {
			return err
		}
	}

	var word [4]byte
	for i := range g.nodes {
		le.PutUint32(word[:], uint32(g.nodes[i].GetChildrenSize()))
		if _, err := bw.Write(word[:]); err != nil {
			return err
		}
		var werr error
		g.nodes[i].ForChildren(func(child Index) {
			if werr != nil {
				return
			}
			le.PutUint32(word[:], uint32(child))
			_, werr = bw.Write(word[:])
		})
		if werr != nil {
			return werr
		}
	}

	return bw.Flush()
}

func ReadRouteGraph(filename string) (*RouteGraph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	return DecodeRouteGraph(bz)
}

// DecodeRouteGraph decodes an uncompressed graph encoding. the returned graph is sealed.
func DecodeRouteGraph(r io.Reader) (*RouteGraph, error) {
	br := bufio.NewReader(r)
	le := binary.LittleEndian

	var header [graphHeaderSize]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, util.WrapErrorf(err, util.ErrCorruptGraph, "reading route graph header: %v", err)
	}
	if magic := le.Uint32(header[0:]); magic != pkg.ROUTE_GRAPH_MAGIC {
		return nil, util.WrapErrorf(nil, util.ErrCorruptGraph, "bad route graph magic %#x", magic)
	}
	version := le.Uint16(header[4:])
	if version != pkg.ROUTE_NODE_RECORD_VERSION {
		return nil, util.WrapErrorf(nil, util.ErrUnsupportedVersion, "route node record version %d is not supported", version)
	}
	numNodes := le.Uint32(header[6:])
	if numNodes == uint32(INVALID_NODE_ID) {
		return nil, util.WrapErrorf(nil, util.ErrCorruptGraph, "route graph declares %d nodes", numNodes)
	}

	// the declared count is not trusted for the initial allocation; a truncated stream fails below.
	g := NewRouteGraph(int(min(numNodes, maxPreallocatedNodes)))

	var record [pkg.ROUTE_NODE_RECORD_SIZE]byte
	for i := uint32(0); i < numNodes; i++ {
		if _, err := io.ReadFull(br, record[:]); err != nil {
			return nil, util.WrapErrorf(err, util.ErrCorruptGraph, "reading route node record %d: %v", i, err)
		}
		g.nodes = append(g.nodes, RouteNode{})
		if err := DecodeRouteNodeRecord(record[:], version, &g.nodes[i]); err != nil {
			return nil, err
		}
	}

	var word [4]byte
	for i := uint32(0); i < numNodes; i++ {
		if _, err := io.ReadFull(br, word[:]); err != nil {
			return nil, util.WrapErrorf(err, util.ErrCorruptGraph, "reading children count of node %d: %v", i, err)
		}
		count := le.Uint32(word[:])
		for j := uint32(0); j < count; j++ {
			if _, err := io.ReadFull(br, word[:]); err != nil {
				return nil, util.WrapErrorf(err, util.ErrCorruptGraph, "reading child %d of node %d: %v", j, i, err)
			}
			child := le.Uint32(word[:])
			if child >= numNodes {
				return nil, util.WrapErrorf(nil, util.ErrCorruptGraph, "node %d has child %d outside [0, %d)", i, child, numNodes)
			}
			g.nodes[i].AddChildren(Index(child))
		}
	}

	g.Seal()
	return g, nil
}
