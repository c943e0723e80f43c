// Package format implements the toolchain's external-facing textual
// interfaces: the MISO instruction-file parser, the per-block
// configuration-file parser, and a JSON dataflow-DAG front-end standing
// in for the (out of scope) bitcode lowering pass.
package format

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/lshpku/aise/internal/node"
)

// ParseError pinpoints the line and token number of a malformed MISO
// file entry.
type ParseError struct {
	Line  int
	Token int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, token %d: %s", e.Line, e.Token, e.Msg)
}

type opSpec struct {
	typ   node.Type
	arity int
}

// exactOp maps a literal RPN token to its fixed-arity operator. Order
// labels never appear in serialized RPN (WriteRPN forwards through
// them), so they have no entry here.
var exactOp = map[string]opSpec{
	"*-1": {node.AddInv, 1},
	"^-1": {node.MulInv, 1},
	"-":   {node.Sub, 2},
	"/":   {node.Div, 2},
	"%":   {node.Rem, 2},
	"<<":  {node.Shl, 2},
	">>>": {node.LShr, 2},
	">>":  {node.AShr, 2},
	"==":  {node.Eq, 2},
	"!=":  {node.Ne, 2},
	">":   {node.Gt, 2},
	">=":  {node.Ge, 2},
	"<":   {node.Lt, 2},
	"<=":  {node.Le, 2},
	"?:":  {node.Select, 3},
	"+":   {node.Add, 2},
	"*":   {node.Mul, 2},
	"&":   {node.And, 2},
	"|":   {node.Or, 2},
	"^":   {node.Xor, 2},
}

// assocBase maps an associative operator's base token to its type, for
// matching the variable-arity suffix form ("+3", "&4", ...).
var assocBase = map[string]node.Type{
	"+": node.Add,
	"*": node.Mul,
	"&": node.And,
	"|": node.Or,
	"^": node.Xor,
}

func parseOperator(tok string) (node.Type, int, bool) {
	if op, ok := exactOp[tok]; ok {
		return op.typ, op.arity, true
	}
	for base, typ := range assocBase {
		if strings.HasPrefix(tok, base) && len(tok) > len(base) {
			n, err := strconv.Atoi(tok[len(base):])
			if err == nil && n >= 3 {
				return typ, n, true
			}
		}
	}
	return node.Unknown, 0, false
}

var decimalRE = regexp.MustCompile(`^-?[0-9]+$`)

// ParseMISO reads a MISO file: whitespace-separated postfix tokens,
// one instruction per line. Each resulting DAG is legalized (ToAssociative,
// RelaxOrder, successor propagation, Sort) before being returned, so
// hand-authored lines using literal "-"/"/" tokens key the same as the
// enumerator's Add/AddInv-rewritten candidates.
func ParseMISO(r io.Reader) ([]*node.DAG, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var dags []*node.DAG
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		d, err := parseMISOLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		dags = append(dags, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return dags, nil
}

func parseMISOLine(line string, lineNo int) (*node.DAG, error) {
	toks := strings.Fields(line)
	d := node.New()
	var stack []node.ID

	for ti, tok := range toks {
		switch {
		case strings.HasPrefix(tok, "@"):
			n, err := strconv.Atoi(tok[1:])
			if err != nil || n < 1 || n > d.Len() {
				return nil, &ParseError{lineNo, ti + 1, fmt.Sprintf("reference %q out of bounds", tok)}
			}
			stack = append(stack, node.ID(n-1))

		case strings.HasPrefix(tok, "$"):
			k, err := strconv.Atoi(tok[1:])
			if err != nil || k < 1 {
				return nil, &ParseError{lineNo, ti + 1, fmt.Sprintf("invalid input token %q", tok)}
			}
			stack = append(stack, d.Add(&node.Node{Type: node.InputType(k)}))

		case decimalRE.MatchString(tok):
			stack = append(stack, d.Add(&node.Node{Type: node.Constant, Value: tok}))

		default:
			typ, arity, ok := parseOperator(tok)
			if !ok {
				return nil, &ParseError{lineNo, ti + 1, fmt.Sprintf("unknown token %q", tok)}
			}
			if len(stack) < arity {
				return nil, &ParseError{lineNo, ti + 1, fmt.Sprintf("stack underflow for %q", tok)}
			}
			pred := append([]node.ID(nil), stack[len(stack)-arity:]...)
			stack = stack[:len(stack)-arity]
			stack = append(stack, d.Add(&node.Node{Type: typ, Pred: pred}))
		}
	}

	if len(stack) != 1 {
		return nil, &ParseError{lineNo, len(toks), fmt.Sprintf("line reduces to %d roots, want exactly 1", len(stack))}
	}

	d.Normalize()
	return d, nil
}
