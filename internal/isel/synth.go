package isel

import "github.com/lshpku/aise/internal/node"

// SynthesizeArea sums TypeArea(node.Type) over every node of every DAG
// in dags and returns the total. A pure fold; malformed input is
// rejected upstream by the parser.
func SynthesizeArea(dags []*node.DAG) int {
	total := 0
	for _, d := range dags {
		for _, n := range d.Nodes {
			total += node.TypeArea(n.Type)
		}
	}
	return total
}
