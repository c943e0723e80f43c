package isel

import (
	"testing"

	"github.com/lshpku/aise/internal/node"
)

// threeAdds builds a DAG of three independent Add(a,b) trees whose
// roots are all outputs (no successors).
func threeAdds() *node.DAG {
	d := node.New()
	for i := 0; i < 3; i++ {
		a := d.Add(&node.Node{Type: node.InputType(2*i + 1)})
		b := d.Add(&node.Node{Type: node.InputType(2*i + 2)})
		d.Add(&node.Node{Type: node.Add, Pred: []node.ID{a, b}})
	}
	d.PropagateSucc()
	return d
}

func TestSelectEmptyLibrary(t *testing.T) {
	d := threeAdds()
	sel := NewSelector(NewLibrary())
	got := sel.Select(d)
	want := 3 * node.RoundUpUnitCost(node.TypeCost(node.Add))
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestSelectIdempotent(t *testing.T) {
	d := threeAdds()
	sel := NewSelector(NewLibrary())
	first := sel.Select(d)
	second := sel.Select(d)
	if first != second {
		t.Fatalf("Select not idempotent: %d then %d", first, second)
	}
}

func TestSelectUnknownNodeDefaultsToZero(t *testing.T) {
	d := node.New()
	d.Add(&node.Node{Type: node.Unknown})
	d.PropagateSucc()
	sel := NewSelector(NewLibrary())
	got := sel.Select(d)
	if got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestSelectWithLibraryBeatsDefault(t *testing.T) {
	// a + b as a single instruction, added directly to the library.
	instr := node.New()
	a := instr.Add(&node.Node{Type: node.InputType(1)})
	b := instr.Add(&node.Node{Type: node.InputType(2)})
	instr.Add(&node.Node{Type: node.Add, Pred: []node.ID{a, b}})
	instr.PropagateSucc()

	lib := NewLibrary()
	lib.AddInstr(instr)

	d := node.New()
	x := d.Add(&node.Node{Type: node.InputType(1)})
	y := d.Add(&node.Node{Type: node.InputType(2)})
	d.Add(&node.Node{Type: node.Add, Pred: []node.ID{x, y}})
	d.PropagateSucc()

	sel := NewSelector(lib)
	got := sel.Select(d)
	want := node.RoundUpUnitCost(node.TypeCost(node.Add))
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}
