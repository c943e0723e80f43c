package format

import (
	"strings"
	"testing"

	"github.com/lshpku/aise/internal/node"
)

func TestWriteDOTBasicShape(t *testing.T) {
	d := node.New()
	a := d.Add(&node.Node{Type: node.InputType(1)})
	b := d.Add(&node.Node{Type: node.InputType(2)})
	d.Add(&node.Node{Type: node.Add, Pred: []node.ID{a, b}})
	d.PropagateSucc()

	var buf strings.Builder
	if err := WriteDOT(&buf, "block0", d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"digraph block0", "n0 -> n2", "n1 -> n2", "lightgreen", "lightblue"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
