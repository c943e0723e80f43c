package node

// DAG is an ordered sequence of Nodes in topological order: predecessors
// always precede successors. Every node's Index equals its position,
// which also serves as its ID.
type DAG struct {
	Nodes []*Node
}

// New returns an empty DAG.
func New() *DAG {
	return &DAG{}
}

// Add appends a node, assigning it the next ID (= its position).
func (d *DAG) Add(n *Node) ID {
	id := ID(len(d.Nodes))
	n.Index = int(id)
	d.Nodes = append(d.Nodes, n)
	return id
}

func (d *DAG) Node(id ID) *Node { return d.Nodes[id] }

func (d *DAG) Len() int { return len(d.Nodes) }

// PropagateSucc rebuilds every node's Succ set from Pred, in place.
// Invariant: succ(n) = {m : n in pred(m)} once this returns.
func (d *DAG) PropagateSucc() {
	for _, n := range d.Nodes {
		n.Succ = n.Succ[:0]
	}
	for id, n := range d.Nodes {
		for _, p := range n.Pred {
			pn := d.Nodes[p]
			pn.Succ = append(pn.Succ, ID(id))
		}
	}
}

// Clone returns a deep, independent copy of the DAG. Node IDs are
// preserved so Pred/Succ references remain valid in the copy.
func (d *DAG) Clone() *DAG {
	out := &DAG{Nodes: make([]*Node, len(d.Nodes))}
	for i, n := range d.Nodes {
		cp := *n
		cp.Pred = append([]ID(nil), n.Pred...)
		cp.Succ = append([]ID(nil), n.Succ...)
		cp.Tiles = nil // tiles are phase-local, never carried by Clone
		out.Nodes[i] = &cp
	}
	return out
}
