package node

// ToAssociative rewrites n in place to its associative-equivalent form:
// Sub(x,y) -> Add(x, AddInv(y)); Div(x,y) -> Mul(x, MulInv(y)). The
// newly created inverse-wrapper node is appended to the DAG and
// recorded in bag so the caller can account for it later.
func (d *DAG) ToAssociative(id ID, bag *[]ID) {
	n := d.Nodes[id]
	var invType Type
	switch n.Type {
	case Sub:
		n.Type = Add
		invType = AddInv
	case Div:
		n.Type = Mul
		invType = MulInv
	default:
		return
	}

	last := len(n.Pred) - 1
	inv := &Node{Type: invType, Pred: []ID{n.Pred[last]}}
	invID := d.Add(inv)
	n.Pred[last] = invID
	*bag = append(*bag, invID)
}

// RelaxOrder merges operands of associative ops into the current node's
// Pred (flattening same-type operands, which become unreachable), and
// wraps operand positions 1..min(arity,3)-1 of the other (non-associative)
// operator types, including the commutative Eq and Ne, in Order_k label
// nodes. Not recursive: callers must iterate nodes in
// topological order. New label nodes are appended to bag.
func (d *DAG) RelaxOrder(id ID, bag *[]ID) {
	n := d.Nodes[id]

	if n.Type.IsAssociative() {
		flat := make([]ID, 0, len(n.Pred))
		for _, p := range n.Pred {
			if d.Nodes[p].Type == n.Type {
				flat = append(flat, d.Nodes[p].Pred...)
				d.Nodes[p].Succ = nil // folded operand becomes unreachable
			} else {
				flat = append(flat, p)
			}
		}
		n.Pred = flat
		return
	}

	switch n.Type {
	case Sub, Div, Rem, Shl, LShr, AShr, Eq, Ne, Gt, Ge, Lt, Le, Select:
		// Order labels only for operand positions 1 and 2 (cnt < 3),
		// matching the original prototype's min(arity,3) bound.
		// Revisit if ternary ops beyond Select are introduced.
		for cnt := 0; cnt < len(n.Pred) && cnt < 3; cnt++ {
			if cnt == 0 {
				continue
			}
			labelType := Order1
			if cnt == 2 {
				labelType = Order2
			}
			label := &Node{Type: labelType, Pred: []ID{n.Pred[cnt]}}
			labelID := d.Add(label)
			n.Pred[cnt] = labelID
			*bag = append(*bag, labelID)
		}
	}
}

// Normalize runs the full legalization pass over every node already in
// d (ToAssociative, then RelaxOrder, then successor propagation, then
// Sort), in topological order. Nodes appended by ToAssociative/RelaxOrder
// (inverse wrappers, order labels) are sorted too but not themselves
// re-legalized, matching their fixed single-operand shape. Any caller
// producing a DAG from outside the normalizer (a front-end, a file
// parser) must call this before the DAG reaches the enumerator or
// selector.
func (d *DAG) Normalize() {
	n := d.Len()
	var bag []ID

	for id := 0; id < n; id++ {
		d.ToAssociative(ID(id), &bag)
	}
	for id := 0; id < n; id++ {
		d.RelaxOrder(ID(id), &bag)
	}
	d.PropagateSucc()
	for id := 0; id < n; id++ {
		d.Sort(ID(id))
	}
	for _, id := range bag {
		d.Sort(id)
	}
}

// less implements LessTypeCompare: identical types recurse into
// operands pairwise (shorter is smaller on prefix equality); constants
// compare by value string; labels compare greater than all non-labels
// and among themselves by tag; Input(k) types compare less than every
// operator type (so "$1 $2 *-1 +", not "$2 *-1 $1 +"); all other types
// compare by tag. Requires operands already sorted.
func (d *DAG) less(a, b ID) bool {
	if a == b {
		return false
	}
	na, nb := d.Nodes[a], d.Nodes[b]

	if na.Type == nb.Type {
		if na.IsConstant() {
			return na.Value < nb.Value
		}
		n := len(na.Pred)
		if len(nb.Pred) < n {
			n = len(nb.Pred)
		}
		for i := 0; i < n; i++ {
			if d.less(na.Pred[i], nb.Pred[i]) {
				return true
			}
			if d.less(nb.Pred[i], na.Pred[i]) {
				return false
			}
		}
		return len(na.Pred) < len(nb.Pred)
	}

	if na.IsLabel() {
		if nb.IsLabel() {
			return na.Type < nb.Type
		}
		return false
	}
	if nb.IsLabel() {
		return true
	}
	_, aIn := na.Type.IsInput()
	_, bIn := nb.Type.IsInput()
	if aIn != bIn {
		if aIn {
			return nb.Type >= AddInv
		}
		return na.Type < AddInv
	}
	return na.Type < nb.Type
}

// Sort reorders n's Pred by LessTypeCompare. Not recursive: requires
// predecessors to already be sorted (call in topological order).
func (d *DAG) Sort(id ID) {
	n := d.Nodes[id]
	pred := n.Pred
	// insertion sort: Pred is small (arity-bounded) and this must be
	// stable, matching std::list::sort in the original prototype.
	for i := 1; i < len(pred); i++ {
		for j := i; j > 0 && d.less(pred[j], pred[j-1]); j-- {
			pred[j], pred[j-1] = pred[j-1], pred[j]
		}
	}
}
