// Package isel implements the MISO selector: a dynamic-programming
// instruction-set matcher that, after enumeration, performs a
// bottom-up minimal-cost tile assignment and a top-down tile
// realization producing a final covering.
package isel

import "github.com/lshpku/aise/internal/node"

// Library is the previously enumerated set of MISO instructions
// available to Select, keyed by canonical RPN key.
type Library struct {
	cost     map[string]int
	maxInput int
}

// NewLibrary returns an empty instruction library.
func NewLibrary() *Library {
	return &Library{cost: map[string]int{}}
}

// AddInstr adds a normalized instruction DAG to the library. The DAG's
// last node is its single output; AddInstr recomputes the canonical
// RPN key of that node, records its critical-path cost rounded to
// UnitCost, and tallies the maximum Input(k) it references into the
// library's running maxInput (the value later passed to the enumerator
// by Select).
func (lib *Library) AddInstr(d *node.DAG) {
	root := node.ID(d.Len() - 1)
	key := d.RefRPN(root)

	for id := 0; id < d.Len(); id++ {
		nid := node.ID(id)
		d.Node(nid).Index = d.CriticalPathCost(nid)
	}
	lib.cost[key] = node.RoundUpUnitCost(d.Node(root).Index)

	for _, n := range d.Nodes {
		if k, ok := n.Type.IsInput(); ok && k > lib.maxInput {
			lib.maxInput = k
		}
	}
}

// Lookup returns the unit cost registered for key, if any.
func (lib *Library) Lookup(key string) (cost int, ok bool) {
	cost, ok = lib.cost[key]
	return
}

// MaxInput returns the largest input count seen across every
// instruction added so far.
func (lib *Library) MaxInput() int { return lib.maxInput }

// Len reports how many distinct instructions the library holds.
func (lib *Library) Len() int { return len(lib.cost) }
