package node

import (
	"strconv"
	"strings"
)

// WriteRPN emits the plain space-separated postfix string for the
// sub-DAG rooted at id: operands first, then the token; associative
// ops with more than 2 operands append the arity.
func (d *DAG) WriteRPN(id ID, buf *strings.Builder) {
	n := d.Nodes[id]

	if n.IsConstant() {
		buf.WriteString(n.Value)
		return
	}
	if n.IsLabel() {
		d.WriteRPN(n.Pred[0], buf)
		return
	}

	for _, p := range n.Pred {
		d.WriteRPN(p, buf)
		buf.WriteByte(' ')
	}
	buf.WriteString(TypeName(n.Type))
	if n.Type.IsAssociative() && len(n.Pred) > 2 {
		buf.WriteString(strconv.Itoa(len(n.Pred)))
	}
}

// RPN returns WriteRPN's output as a string.
func (d *DAG) RPN(id ID) string {
	var buf strings.Builder
	d.WriteRPN(id, &buf)
	return buf.String()
}

// WriteRefRPN emits the referenced RPN of the sub-DAG rooted at id: each
// distinct non-label node is assigned a small integer id the first time
// it's written and referenced as "@N" thereafter. This is the canonical
// shared-subexpression form used by the enumerator and the instruction
// library.
//
// ids must be pre-zeroed by the caller for every node the writer may
// visit (the index-field convention, see DESIGN.md); WriteRefRPN uses
// it to detect nodes already written in this call.
func (d *DAG) WriteRefRPN(id ID, buf *strings.Builder, next *int) {
	n := d.Nodes[id]

	if n.Index > 0 {
		buf.WriteByte('@')
		buf.WriteString(strconv.Itoa(n.Index))
		return
	}

	if n.IsConstant() {
		buf.WriteString(n.Value)
		n.Index = *next
		*next++
		return
	}
	if n.IsLabel() {
		// label node doesn't take up a reference slot
		d.WriteRefRPN(n.Pred[0], buf, next)
		return
	}

	for _, p := range n.Pred {
		d.WriteRefRPN(p, buf, next)
		buf.WriteByte(' ')
	}
	buf.WriteString(TypeName(n.Type))
	if n.Type.IsAssociative() && len(n.Pred) > 2 {
		buf.WriteString(strconv.Itoa(len(n.Pred)))
	}

	n.Index = *next
	*next++
}

// RefRPN returns WriteRefRPN's output as a string, pre-zeroing the
// Index of every node reachable from id first.
func (d *DAG) RefRPN(id ID) string {
	var visited = map[ID]bool{}
	var zero func(ID)
	zero = func(x ID) {
		if visited[x] {
			return
		}
		visited[x] = true
		d.Nodes[x].Index = 0
		for _, p := range d.Nodes[x].Pred {
			zero(p)
		}
	}
	zero(id)

	var buf strings.Builder
	next := 1
	d.WriteRefRPN(id, &buf, &next)
	return buf.String()
}
