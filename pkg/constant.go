package pkg

// enum of routing resource kinds
type NodeType uint8

const (
	PINFEED_O NodeType = iota
	PINFEED_I
	PINBOUNCE
	WIRE
	LAGUNA_I
	SUPER_LONG_LINE
)

func (t NodeType) String() string {
	switch t {
	case PINFEED_O:
		return "PINFEED_O"
	case PINFEED_I:
		return "PINFEED_I"
	case PINBOUNCE:
		return "PINBOUNCE"
	case WIRE:
		return "WIRE"
	case LAGUNA_I:
		return "LAGUNA_I"
	case SUPER_LONG_LINE:
		return "SUPER_LONG_LINE"
	default:
		return "UNKNOWN"
	}
}

const (
	// every routing resource hosts at most one user before it counts as overused.
	NODE_CAPACITY int32 = 1

	DEFAULT_NODE_LENGTH int16 = 1

	INITIAL_CONGESTION_COST float32 = 1

	// sentinel for isVisited/isTarget markers and unset batch stamps.
	UNSET_STAMP int32 = -1
)

const (
	ROUTE_GRAPH_MAGIC         uint32 = 0x52574752 // "RWGR"
	ROUTE_NODE_RECORD_VERSION uint16 = 1
)

const (
	// id, end x/y, begin x/y, length, isAccessibleWire, baseCost, type, isNodePinBounce
	ROUTE_NODE_RECORD_SIZE = 21

	INLINE_CHILDREN_CAPACITY = 8
)
