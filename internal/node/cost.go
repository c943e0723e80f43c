package node

// UnitCost is the cost rounding granularity (one adder).
const UnitCost = 100

// RoundUpUnitCost rounds cost up to the next multiple of UnitCost.
func RoundUpUnitCost(cost int) int {
	return (cost + UnitCost - 1) / UnitCost * UnitCost
}

// typeCost is the static per-type cost table used for CriticalPathCost
// and for the selector's default-tile fallback.
var typeCost = map[Type]int{
	AddInv: 0,
	MulInv: 200,

	Add: 100,
	Sub: 100,
	Mul: 300,
	Div: 500,
	Rem: 500,

	Shl:  20,
	LShr: 20,
	AShr: 20,
	And:  10,
	Or:   10,
	Xor:  10,

	Eq: 10,
	Ne: 10,
	Gt: 100,
	Ge: 100,
	Lt: 100,
	Le: 100,

	Select: 20,
}

// TypeCost returns the base static cost of t. Unknown and Input types,
// which never carry an operation, cost 0.
func TypeCost(t Type) int {
	return typeCost[t]
}

// typeArea is the area-accounting table: identical to typeCost except
// Constant carries a cost for its literal source.
var typeArea = map[Type]int{
	Constant: 10,
}

// TypeArea returns the area contribution of t.
func TypeArea(t Type) int {
	if a, ok := typeArea[t]; ok {
		return a
	}
	return typeCost[t]
}

// CriticalPathCost computes the cost of n assuming every operand's
// Index already holds its own cost (post-order evaluation order).
// Associative nodes with N operands cost (N-1)*typeCost(type) plus the
// most expensive operand; all other operator nodes cost typeCost(type)
// plus the most expensive operand.
func (d *DAG) CriticalPathCost(id ID) int {
	n := d.Nodes[id]
	maxChild := 0
	for _, p := range n.Pred {
		if c := d.Nodes[p].Index; c > maxChild {
			maxChild = c
		}
	}
	if n.Type.IsAssociative() {
		return (len(n.Pred)-1)*TypeCost(n.Type) + maxChild
	}
	return TypeCost(n.Type) + maxChild
}
