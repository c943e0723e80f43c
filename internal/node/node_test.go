package node

import "testing"

// buildInputDAG builds a DAG of n Input leaves followed by one op node
// referencing them (in order), and returns the DAG and the op's ID.
func buildInputDAG(t Type, inputs int) (*DAG, ID) {
	d := New()
	pred := make([]ID, inputs)
	for i := 0; i < inputs; i++ {
		pred[i] = d.Add(&Node{Type: InputType(i + 1)})
	}
	op := d.Add(&Node{Type: t, Pred: append([]ID(nil), pred...)})
	d.PropagateSucc()
	return d, op
}

func legalize(d *DAG, root ID) ID {
	d.Normalize()
	return root
}

func TestSubRewrite(t *testing.T) {
	d, root := buildInputDAG(Sub, 2)
	legalize(d, root)
	got := d.RefRPN(root)
	want := "$1 $2 *-1 +"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDivRewrite(t *testing.T) {
	d, root := buildInputDAG(Div, 2)
	legalize(d, root)
	got := d.RefRPN(root)
	want := "$1 $2 ^-1 *"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAssociativeFlatteningCommutativity(t *testing.T) {
	// (a + b) + c
	d1 := New()
	a := d1.Add(&Node{Type: InputType(1)})
	b := d1.Add(&Node{Type: InputType(2)})
	c := d1.Add(&Node{Type: InputType(3)})
	inner := d1.Add(&Node{Type: Add, Pred: []ID{a, b}})
	root1 := d1.Add(&Node{Type: Add, Pred: []ID{inner, c}})
	legalize(d1, root1)
	if len(d1.Nodes[root1].Pred) != 3 {
		t.Fatalf("expected flattened 3-ary Add, got %d operands", len(d1.Nodes[root1].Pred))
	}

	// (c + a) + b
	d2 := New()
	c2 := d2.Add(&Node{Type: InputType(3)})
	a2 := d2.Add(&Node{Type: InputType(1)})
	inner2 := d2.Add(&Node{Type: Add, Pred: []ID{c2, a2}})
	b2 := d2.Add(&Node{Type: InputType(2)})
	root2 := d2.Add(&Node{Type: Add, Pred: []ID{inner2, b2}})
	legalize(d2, root2)

	got1 := d1.RefRPN(root1)
	got2 := d2.RefRPN(root2)
	want := "$1 $2 $3 +3"
	if got1 != want {
		t.Fatalf("DAG1: got %q, want %q", got1, want)
	}
	if got2 != want {
		t.Fatalf("DAG2: got %q, want %q", got2, want)
	}
}

func TestNoSameTypeOperandAfterFlattening(t *testing.T) {
	d, root := buildInputDAG(Add, 2)
	// wrap an extra Add(Add(...), c) manually
	c := d.Add(&Node{Type: InputType(3)})
	top := d.Add(&Node{Type: Add, Pred: []ID{root, c}})
	legalize(d, top)
	topNode := d.Nodes[top]
	for _, p := range topNode.Pred {
		if d.Nodes[p].Type == Add {
			t.Fatalf("associative node has same-type operand after flattening")
		}
	}
}

func TestOrderLabels(t *testing.T) {
	d, root := buildInputDAG(Shl, 2)
	legalize(d, root)
	n := d.Nodes[root]
	if len(n.Pred) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(n.Pred))
	}
	if d.Nodes[n.Pred[0]].Type.IsLabel() {
		t.Fatalf("operand 0 must not be labeled")
	}
	if !d.Nodes[n.Pred[1]].IsLabel() || d.Nodes[n.Pred[1]].Type != Order1 {
		t.Fatalf("operand 1 must be wrapped in Order1, got type %v", d.Nodes[n.Pred[1]].Type)
	}
}

func TestPropagateSuccConsistency(t *testing.T) {
	d, root := buildInputDAG(Add, 3)
	d.PropagateSucc()
	for id, n := range d.Nodes {
		for _, s := range n.Succ {
			found := false
			for _, p := range d.Nodes[s].Pred {
				if int(p) == id {
					found = true
				}
			}
			if !found {
				t.Fatalf("succ(%d)=%d but %d not in pred(%d)", id, s, id, s)
			}
		}
	}
	_ = root
}

func TestCriticalPathCostAssociative(t *testing.T) {
	d := New()
	a := d.Add(&Node{Type: InputType(1)})
	b := d.Add(&Node{Type: InputType(2)})
	c := d.Add(&Node{Type: InputType(3)})
	root := d.Add(&Node{Type: Add, Pred: []ID{a, b, c}})
	// CriticalPathCost reads each operand's cost from its Index.
	for _, id := range []ID{a, b, c} {
		d.Nodes[id].Index = d.CriticalPathCost(id)
	}
	cost := d.CriticalPathCost(root)
	want := 2*TypeCost(Add) + 0
	if cost != want {
		t.Fatalf("got %d, want %d", cost, want)
	}
}

func TestRoundUpUnitCost(t *testing.T) {
	cases := map[int]int{0: 0, 1: 100, 100: 100, 101: 200, 250: 300}
	for in, want := range cases {
		if got := RoundUpUnitCost(in); got != want {
			t.Fatalf("RoundUpUnitCost(%d) = %d, want %d", in, got, want)
		}
	}
}
