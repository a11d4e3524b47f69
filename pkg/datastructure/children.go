package datastructure

import "github.com/lintang-b-s/rwroute/pkg"

/*
children is the fan-out edge list of a routing resource.

most FPGA routing resources drive only a handful of wires, so the first INLINE_CHILDREN_CAPACITY edges
live in a fixed array next to the node's hot fields. edges beyond that go to overflow. logically the
list is inline[:n] followed by overflow, both in insertion order; nothing outside this file can observe
which tier an edge is stored in.
*/
type children struct {
	inline   [pkg.INLINE_CHILDREN_CAPACITY]Index
	n        uint8
	overflow []Index
}

func (c *children) add(child Index) {
	if int(c.n) < pkg.INLINE_CHILDREN_CAPACITY {
		c.inline[c.n] = child
		c.n++
		return
	}
	c.overflow = append(c.overflow, child)
}

func (c *children) size() int {
	return int(c.n) + len(c.overflow)
}

func (c *children) at(i int) Index {
	if i < int(c.n) {
		return c.inline[i]
	}
	return c.overflow[i-int(c.n)]
}

func (c *children) clear() {
	c.n = 0
	c.overflow = c.overflow[:0]
}

func (c *children) appendTo(dst []Index) []Index {
	dst = append(dst, c.inline[:c.n]...)
	return append(dst, c.overflow...)
}

func (c *children) forEach(handle func(child Index)) {
	for i := uint8(0); i < c.n; i++ {
		handle(c.inline[i])
	}
	for _, child := range c.overflow {
		handle(child)
	}
}
