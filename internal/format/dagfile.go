package format

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lshpku/aise/internal/node"
)

// NodeRecord is one dataflow-graph node as produced by the (out of
// scope) bitcode lowering pass: an opcode name, indices of operand
// records earlier in the same block, a decimal literal for constants,
// and whether the value is used outside the block.
type NodeRecord struct {
	Op       string `json:"op"`
	Operands []int  `json:"operands,omitempty"`
	Value    string `json:"value,omitempty"`
	Escapes  bool   `json:"escapes,omitempty"`
}

// Block is one basic block's node records, in topological order.
type Block []NodeRecord

var opByName = map[string]node.Type{
	"add": node.Add, "sub": node.Sub, "mul": node.Mul, "div": node.Div, "rem": node.Rem,
	"shl": node.Shl, "lshr": node.LShr, "ashr": node.AShr,
	"and": node.And, "or": node.Or, "xor": node.Xor,
	"eq": node.Eq, "ne": node.Ne, "gt": node.Gt, "ge": node.Ge, "lt": node.Lt, "le": node.Le,
	"select": node.Select,
}

// ReadDAGFile reads a JSON document holding one array of NodeRecord per
// basic block and builds a legalized DAG for each.
func ReadDAGFile(path string) ([]*node.DAG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dag file: %w", err)
	}

	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("parsing dag JSON: %w", err)
	}

	dags := make([]*node.DAG, len(blocks))
	for i, blk := range blocks {
		d, err := BuildDAG(blk)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		dags[i] = d
	}
	return dags, nil
}

// BuildDAG turns one block's node records into a legalized DAG. A
// record with Escapes true gets an additional Unknown sink node wired
// as one more successor, modeling a use outside the block the same way
// the enumerator already treats any node with an Unknown successor:
// ineligible to be folded away.
func BuildDAG(blk Block) (*node.DAG, error) {
	d := node.New()
	recID := make([]node.ID, len(blk))

	for i, rec := range blk {
		var n *node.Node
		switch rec.Op {
		case "const":
			n = &node.Node{Type: node.Constant, Value: rec.Value}
		case "unk", "":
			n = &node.Node{Type: node.Unknown}
		default:
			typ, ok := opByName[rec.Op]
			if !ok {
				return nil, fmt.Errorf("node %d: unknown op %q", i, rec.Op)
			}
			pred := make([]node.ID, len(rec.Operands))
			for j, opIdx := range rec.Operands {
				if opIdx < 0 || opIdx >= i {
					return nil, fmt.Errorf("node %d: operand %d out of range", i, opIdx)
				}
				pred[j] = recID[opIdx]
			}
			n = &node.Node{Type: typ, Pred: pred}
		}

		id := d.Add(n)
		recID[i] = id
		if rec.Escapes {
			d.Add(&node.Node{Type: node.Unknown, Pred: []node.ID{id}})
		}
	}

	d.Normalize()
	return d, nil
}
