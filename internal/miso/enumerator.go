// Package miso implements the MISO enumerator: the convex-cone
// exploration that, for each DAG root, yields every admissible sub-DAG
// under input/depth bounds, canonicalizes it via all input
// permutations, and records the lexicographically minimal RPN key.
package miso

import (
	"container/heap"
	"sort"

	"github.com/lshpku/aise/internal/node"
	"github.com/lshpku/aise/internal/permute"
)

// Enumerator holds the running instruction table across one or more
// calls to Enumerate. Duplicate keys across roots (and across DAGs) are
// deduplicated here.
type Enumerator struct {
	maxInput int
	maxDepth int

	keys    []string       // unique canonical RPN keys, in discovery order
	keyrank map[string]int // key -> index into keys
}

// New returns an Enumerator bounding candidates to maxInput inputs and
// maxDepth upper-cone depth.
func New(maxInput, maxDepth int) *Enumerator {
	return &Enumerator{maxInput: maxInput, maxDepth: maxDepth, keyrank: map[string]int{}}
}

// Keys returns the unique canonical instruction keys discovered so far,
// in discovery order.
func (e *Enumerator) Keys() []string {
	return append([]string(nil), e.keys...)
}

func (e *Enumerator) record(key string) int {
	if i, ok := e.keyrank[key]; ok {
		return i
	}
	i := len(e.keys)
	e.keys = append(e.keys, key)
	e.keyrank[key] = i
	return i
}

// Enumerate runs the outer loop over every node of d: for each, it
// rebuilds a fresh context, explores the upper cone, and attaches
// discovered tiles to that node's Tiles list.
func (e *Enumerator) Enumerate(d *node.DAG) {
	for id := 0; id < d.Len(); id++ {
		root := node.ID(id)
		if d.Node(root).Type == node.Unknown {
			continue
		}
		cone := e.upperCone(d, root)
		if len(cone) == 0 {
			continue
		}
		ctx := &context{
			cone:     cone,
			choices:  []bool{true},
			selected: map[node.ID]bool{},
			inputs:   map[node.ID]bool{},
		}
		e.recurse(d, ctx)
	}
}

// idHeap is a max-heap of node IDs ordered by Node.Index (topological
// rank), largest first.
type idHeap struct {
	ids []node.ID
	d   *node.DAG
}

func (h *idHeap) Len() int            { return len(h.ids) }
func (h *idHeap) Less(i, j int) bool  { return h.d.Node(h.ids[i]).Index > h.d.Node(h.ids[j]).Index }
func (h *idHeap) Swap(i, j int)       { h.ids[i], h.ids[j] = h.ids[j], h.ids[i] }
func (h *idHeap) Push(x interface{})  { h.ids = append(h.ids, x.(node.ID)) }
func (h *idHeap) Pop() interface{} {
	n := len(h.ids)
	x := h.ids[n-1]
	h.ids = h.ids[:n-1]
	return x
}

// canInclude implements the "not output" predicate: a non-constant node
// qualifies iff every successor lies in selected (convex, nothing
// escapes); a constant qualifies iff at least one successor is
// selected (constants are never themselves classified as outputs).
func canInclude(d *node.DAG, id node.ID, selected map[node.ID]bool) bool {
	n := d.Node(id)
	if n.IsConstant() {
		for _, s := range n.Succ {
			if selected[s] {
				return true
			}
		}
		return false
	}
	for _, s := range n.Succ {
		if !selected[s] {
			return false
		}
	}
	return true
}

func pushNonUnknownPred(d *node.DAG, id node.ID, h *idHeap) {
	for _, p := range d.Node(id).Pred {
		if d.Node(p).Type != node.Unknown {
			heap.Push(h, p)
		}
	}
}

// upperCone returns the convex subgraph rooted at root reachable by
// reverse edges within maxDepth, in reverse topological order (root
// first).
func (e *Enumerator) upperCone(d *node.DAG, root node.ID) []node.ID {
	if d.Node(root).Type == node.Unknown {
		return nil
	}

	h := &idHeap{d: d}
	selected := map[node.ID]bool{root: true}
	depth := map[node.ID]int{root: 0}
	cone := []node.ID{root}

	pushNonUnknownPred(d, root, h)
	for _, p := range d.Node(root).Pred {
		if d.Node(p).Type != node.Unknown {
			if cur, ok := depth[p]; !ok || 1 > cur {
				depth[p] = 1
			}
		}
	}

	for h.Len() > 0 {
		cand := heap.Pop(h).(node.ID)
		if selected[cand] {
			continue
		}
		if depth[cand] > e.maxDepth {
			continue
		}
		if !canInclude(d, cand, selected) {
			continue
		}

		selected[cand] = true
		cone = append(cone, cand)

		for _, p := range d.Node(cand).Pred {
			if d.Node(p).Type == node.Unknown {
				continue
			}
			heap.Push(h, p)
			nd := depth[cand] + 1
			if cur, ok := depth[p]; !ok || nd > cur {
				depth[p] = nd
			}
		}
	}

	return cone
}

// context is the per-root subset-recursion state. cone is in reverse
// topological order (root at index 0); choices parallels it, one
// include/exclude decision per level.
type context struct {
	cone     []node.ID
	choices  []bool
	selected map[node.ID]bool
	inputs   map[node.ID]bool
}

// recurse enumerates every subset of context.cone that includes the
// root, backtracking choices on the way out.
func (e *Enumerator) recurse(d *node.DAG, ctx *context) {
	level := len(ctx.choices) - 1
	id := ctx.cone[level]
	choice := ctx.choices[level]

	var newInputs []node.ID
	isInput := false

	if choice {
		// A rejected inclusion prunes this entire branch: no recursion
		// into deeper cone elements, nothing to restore.
		if level > 0 && !canInclude(d, id, ctx.selected) {
			return
		}

		for _, p := range d.Node(id).Pred {
			if !ctx.inputs[p] {
				newInputs = append(newInputs, p)
				ctx.inputs[p] = true
			}
		}
		if ctx.inputs[id] {
			isInput = true
			delete(ctx.inputs, id)
		}
		ctx.selected[id] = true

		if len(ctx.inputs) <= e.maxInput && len(ctx.selected) >= 2 {
			e.yield(d, ctx)
		}
	}

	if len(ctx.choices) < len(ctx.cone) {
		ctx.choices = append(ctx.choices, true)
		e.recurse(d, ctx)
		ctx.choices = ctx.choices[:len(ctx.choices)-1]

		ctx.choices = append(ctx.choices, false)
		e.recurse(d, ctx)
		ctx.choices = ctx.choices[:len(ctx.choices)-1]
	}

	if choice && ctx.selected[id] {
		delete(ctx.selected, id)
		for _, p := range newInputs {
			delete(ctx.inputs, p)
		}
		if isInput {
			ctx.inputs[id] = true
		}
	}
}

// yield constructs a fresh normalized copy of Selected union Inputs,
// tries every input permutation, and records the lexicographically
// minimal canonical key as a tile on the host root.
func (e *Enumerator) yield(d *node.DAG, ctx *context) {
	all := make([]node.ID, 0, len(ctx.selected)+len(ctx.inputs))
	for id := range ctx.selected {
		all = append(all, id)
	}
	for id := range ctx.inputs {
		all = append(all, id)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	cp := node.New()
	oldToNew := make(map[node.ID]node.ID, len(all))
	var origInputIDs []node.ID

	for _, old := range all {
		if ctx.selected[old] {
			orig := d.Node(old)
			pred := make([]node.ID, len(orig.Pred))
			for i, p := range orig.Pred {
				pred[i] = oldToNew[p]
			}
			nid := cp.Add(&node.Node{Type: orig.Type, Value: orig.Value, Pred: pred})
			oldToNew[old] = nid
		} else {
			nid := cp.Add(&node.Node{Type: node.Unknown})
			oldToNew[old] = nid
			origInputIDs = append(origInputIDs, old)
		}
	}

	root := oldToNew[ctx.cone[0]]

	var bag []node.ID
	for _, old := range all {
		if ctx.selected[old] {
			cp.ToAssociative(oldToNew[old], &bag)
		}
	}
	for _, old := range all {
		if ctx.selected[old] {
			cp.RelaxOrder(oldToNew[old], &bag)
		}
	}
	cp.PropagateSucc()

	compacted, newRoot, compactedInputIDs := compactAncestors(cp, root, origInputIDs, oldToNew)

	n := len(origInputIDs)
	inputNodes := make([]*node.Node, n)
	for i, cid := range compactedInputIDs {
		inputNodes[i] = compacted.Node(cid)
	}

	var bestKey string
	var bestPerm []int
	first := true

	// permute.New(n) always yields at least one vector, even for n=0
	// (the empty permutation), so this loop runs at least once.
	perm := permute.New(n)
	for perm.HasNext() {
		idx := perm.Next()
		for i, v := range idx {
			inputNodes[i].Type = node.InputType(v + 1)
		}
		for id := 0; id < compacted.Len(); id++ {
			compacted.Sort(node.ID(id))
		}
		key := compacted.RefRPN(newRoot)

		if first || key < bestKey {
			bestKey = key
			bestPerm = append([]int(nil), idx...)
			first = false
		}
	}

	e.record(bestKey)

	operand := make([]node.ID, n)
	for i, pi := range bestPerm {
		operand[pi] = origInputIDs[i]
	}

	hostRoot := d.Node(ctx.cone[0])
	hostRoot.Tiles = append(hostRoot.Tiles, &node.Tile{
		RefRPN:  bestKey,
		Operand: operand,
	})
}

// compactAncestors returns a fresh DAG containing only ancestors of
// root (inclusive), remapped to dense sequential ids in topological
// order, plus the remapped root id and the remapped input ids (same
// order as origInputIDs).
func compactAncestors(d *node.DAG, root node.ID, origInputIDs []node.ID, oldToNew map[node.ID]node.ID) (*node.DAG, node.ID, []node.ID) {
	reachable := map[node.ID]bool{}
	var order []node.ID // post-order: every node after its operands
	var mark func(node.ID)
	mark = func(id node.ID) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		for _, p := range d.Node(id).Pred {
			mark(p)
		}
		order = append(order, id)
	}
	mark(root)

	out := node.New()
	remap := make(map[node.ID]node.ID, len(reachable))
	for _, oid := range order {
		orig := d.Node(oid)
		pred := make([]node.ID, len(orig.Pred))
		for i, p := range orig.Pred {
			pred[i] = remap[p]
		}
		nid := out.Add(&node.Node{Type: orig.Type, Value: orig.Value, Pred: pred})
		remap[oid] = nid
	}
	out.PropagateSucc()

	newRoot := remap[root]
	inputIDs := make([]node.ID, len(origInputIDs))
	for i, orig := range origInputIDs {
		inputIDs[i] = remap[oldToNew[orig]]
	}
	return out, newRoot, inputIDs
}
