package format

import (
	"testing"

	"github.com/lshpku/aise/internal/node"
)

func TestBuildDAGSimple(t *testing.T) {
	blk := Block{
		{Op: "unk"},                         // 0: opaque live-in value
		{Op: "unk"},                         // 1: opaque live-in value
		{Op: "add", Operands: []int{0, 1}}, // 2: node 0 + node 1
	}
	d, err := BuildDAG(blk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("got %d nodes, want 3", d.Len())
	}
	root := d.Node(node.ID(2))
	if root.Type != node.Add || len(root.Pred) != 2 {
		t.Fatalf("unexpected root node: %+v", root)
	}
}

func TestBuildDAGConstant(t *testing.T) {
	blk := Block{
		{Op: "const", Value: "42"},
		{Op: "unk"},
		{Op: "mul", Operands: []int{0, 1}},
	}
	d, err := BuildDAG(blk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.Node(node.ID(0)); got.Type != node.Constant || got.Value != "42" {
		t.Fatalf("got %+v, want Constant \"42\"", got)
	}
}

func TestBuildDAGEscapesAddsSink(t *testing.T) {
	blk := Block{
		{Op: "unk"},
		{Op: "unk"},
		{Op: "add", Operands: []int{0, 1}, Escapes: true},
	}
	d, err := BuildDAG(blk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 4 {
		t.Fatalf("got %d nodes, want 4 (escaping node plus its sink)", d.Len())
	}
	sink := d.Node(node.ID(3))
	if sink.Type != node.Unknown || len(sink.Pred) != 1 || sink.Pred[0] != node.ID(2) {
		t.Fatalf("unexpected sink node: %+v", sink)
	}
}

func TestBuildDAGNormalizesSub(t *testing.T) {
	blk := Block{
		{Op: "unk"},
		{Op: "unk"},
		{Op: "sub", Operands: []int{0, 1}},
	}
	d, err := BuildDAG(blk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root := d.Node(node.ID(2))
	if root.Type != node.Add {
		t.Fatalf("sub was not rewritten to Add: %+v", root)
	}
	// both leaves are "unk" records (opaque, non-constant values), so
	// they render as the "unk" token, not "$k" (Input types are only
	// ever assigned later by the enumerator).
	if got := d.RPN(node.ID(2)); got != "unk unk *-1 +" {
		t.Fatalf("got %q, want %q", got, "unk unk *-1 +")
	}
}

func TestBuildDAGUnknownOp(t *testing.T) {
	blk := Block{{Op: "frobnicate"}}
	if _, err := BuildDAG(blk); err == nil {
		t.Fatalf("expected error for unrecognized op")
	}
}

func TestBuildDAGForwardReference(t *testing.T) {
	blk := Block{
		{Op: "add", Operands: []int{0, 1}},
	}
	if _, err := BuildDAG(blk); err == nil {
		t.Fatalf("expected error for operand referencing itself/forward")
	}
}
