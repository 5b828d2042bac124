package nodes

import (
	"fmt"
	"strings"

	"github.com/matzehuels/shadergraph/pkg/graph"
)

// OperationParam is the label of the parameter that selects a node's operator.
const OperationParam = "Operation"

// gen adapts plain functions to [graph.Generator] and [graph.Labeler].
type gen struct {
	defs   []graph.Definition
	code   func(n *graph.Node, args []string) string
	labels map[string]string // operation value -> display label
}

func (g gen) Definitions(*graph.Node) []graph.Definition { return g.defs }

func (g gen) Code(n *graph.Node, args []string) string { return g.code(n, args) }

func (g gen) Label(n *graph.Node) string {
	if g.labels == nil {
		return ""
	}
	return g.labels[n.ParamValue(OperationParam)]
}

// assign emits "<type> <var> = <expr>;" for output 0.
func assign(expr func(args []string) string) func(*graph.Node, []string) string {
	return func(n *graph.Node, args []string) string {
		return n.Decl(0) + expr(args) + ";"
	}
}

// swizzle emits one float per output, reading the named component of the
// single vector input.
func swizzle(n *graph.Node, args []string) string {
	lines := make([]string, len(n.Outputs))
	for i, out := range n.Outputs {
		lines[i] = fmt.Sprintf("%s%s.%s;", n.Decl(i), args[0], strings.ToLower(out.Label))
	}
	return strings.Join(lines, "\n")
}

// binary emits either an infix operator or a two-argument function call,
// depending on the current operation.
func binary(n *graph.Node, args []string) string {
	op := n.ParamValue(OperationParam)
	switch op {
	case "+", "-", "*", "/", "<", "<=", ">", ">=", "==", "!=":
		return fmt.Sprintf("%s%s %s %s;", n.Decl(0), args[0], op, args[1])
	}
	return fmt.Sprintf("%s%s(%s, %s);", n.Decl(0), op, args[0], args[1])
}

// unary emits "op(arg)".
func unary(n *graph.Node, args []string) string {
	return fmt.Sprintf("%s%s(%s);", n.Decl(0), n.ParamValue(OperationParam), args[0])
}

func call(fn string) func(*graph.Node, []string) string {
	return func(n *graph.Node, args []string) string {
		return fmt.Sprintf("%s%s(%s);", n.Decl(0), fn, strings.Join(args, ", "))
	}
}
