package isel

import (
	"github.com/lshpku/aise/internal/miso"
	"github.com/lshpku/aise/internal/node"
)

// DefaultMaxDepth bounds the upper-cone depth the selector's internal
// enumerator pass explores. isel has no CLI flag for it (unlike enum's
// -max-depth); it uses the same default enum falls back to.
const DefaultMaxDepth = 10

// Selector matches a library of MISO instructions against host DAGs.
type Selector struct {
	lib *Library
}

// NewSelector returns a Selector backed by lib.
func NewSelector(lib *Library) *Selector {
	return &Selector{lib: lib}
}

// Select runs the enumerator on d, filters its candidate tiles against
// the library, performs the bottom-up cost DP and top-down tile
// realization, and returns the total static cost of the resulting
// covering.
func (s *Selector) Select(d *node.DAG) int {
	for _, n := range d.Nodes {
		n.Tiles = nil
	}

	e := miso.New(s.lib.maxInput, DefaultMaxDepth)
	e.Enumerate(d)

	bestTile := make([]*node.Tile, d.Len())
	minCost := make([]int, d.Len())

	for id := 0; id < d.Len(); id++ {
		nid := node.ID(id)
		n := d.Node(nid)

		var surviving []*node.Tile
		for _, t := range n.Tiles {
			if cost, ok := s.lib.Lookup(t.RefRPN); ok {
				t.Cost = cost
				surviving = append(surviving, t)
			}
		}
		surviving = append(surviving, &node.Tile{
			RefRPN:  "",
			Cost:    node.RoundUpUnitCost(node.TypeCost(n.Type)),
			Operand: append([]node.ID(nil), n.Pred...),
		})

		best := surviving[0]
		bestCost := tileCost(best, minCost)
		for _, t := range surviving[1:] {
			if c := tileCost(t, minCost); c < bestCost {
				best, bestCost = t, c
			}
		}
		bestTile[nid] = best
		minCost[nid] = bestCost
	}

	matched := make([]bool, d.Len())
	var queue []node.ID
	for id := 0; id < d.Len(); id++ {
		if len(d.Node(node.ID(id)).Succ) == 0 {
			queue = append(queue, node.ID(id))
		}
	}

	total := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if matched[id] {
			continue
		}
		matched[id] = true
		total += bestTile[id].Cost
		queue = append(queue, bestTile[id].Operand...)
	}

	return total
}

func tileCost(t *node.Tile, minCost []int) int {
	c := t.Cost
	for _, op := range t.Operand {
		c += minCost[op]
	}
	return c
}
