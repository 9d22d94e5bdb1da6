package lang

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/lrepl/term"
)

// Build converts a parse tree to a term.
//
// Applications fold to the left, so the children [f a b] become ((f a) b),
// and a single child is returned unwrapped. Multi-parameter abstractions nest
// to the right: λx y.b becomes λx.λy.b. Nodes outside the closed set of
// [Node] implementations, including nil, fail with [ErrUnknownNode].
func Build(n Node) (term.Term, error) {
	switch n := n.(type) {
	case *VariableNode:
		if n == nil {
			break
		}

		return term.Var(n.Name()), nil

	case *AbstractionNode:
		if n == nil || len(n.Params) == 0 {
			break
		}

		body, err := Build(n.Body)
		if err != nil {
			return nil, err
		}

		return term.Abstract(body, n.Names()...), nil

	case *ApplicationNode:
		if n == nil || len(n.Children) == 0 {
			break
		}

		children := make([]term.Term, len(n.Children))

		for i, child := range n.Children {
			t, err := Build(child)
			if err != nil {
				return nil, err
			}

			children[i] = t
		}

		return term.Apply(children[0], children[1:]...), nil
	}

	return nil, ErrUnknownNode.With(slog.String("node", fmt.Sprintf("%T", n)))
}
