package format

import (
	"fmt"
	"io"

	"github.com/lshpku/aise/internal/node"
)

// WriteDOT emits a Graphviz DOT rendering of d for debugging: Input
// nodes in green, the block's unreferenced roots in light blue, every
// other node in light yellow labeled by its RPN token. Rendering the
// DOT source to an image is left to the caller's own `dot` invocation;
// this package only ever produces the text form.
func WriteDOT(w io.Writer, name string, d *node.DAG) error {
	fmt.Fprintf(w, "digraph %s {\n", name)
	fmt.Fprintln(w, "  rankdir=BT;")
	fmt.Fprintln(w, "  node [shape=box, style=filled, fontname=\"monospace\"];")

	for id := 0; id < d.Len(); id++ {
		n := d.Node(node.ID(id))
		color := "lightyellow"
		if _, ok := n.Type.IsInput(); ok {
			color = "lightgreen"
		} else if len(n.Succ) == 0 {
			color = "lightblue"
		}
		label := node.TypeName(n.Type)
		if n.IsConstant() {
			label = n.Value
		}
		fmt.Fprintf(w, "  n%d [label=\"%d: %s\", fillcolor=\"%s\"];\n", id, id, label, color)
	}

	fmt.Fprintln(w)
	for id := 0; id < d.Len(); id++ {
		n := d.Node(node.ID(id))
		for _, p := range n.Pred {
			fmt.Fprintf(w, "  n%d -> n%d;\n", p, id)
		}
	}

	fmt.Fprintln(w, "}")
	return nil
}
