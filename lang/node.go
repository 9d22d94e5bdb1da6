package lang

// Node is a node of the parse tree produced by [ParseTree].
//
// The set of implementations is closed: [*VariableNode], [*AbstractionNode],
// and [*ApplicationNode].
type Node interface {
	// Pos returns the position of the first token of the node.
	Pos() Pos

	node()
}

// VariableNode is a variable leaf.
type VariableNode struct {
	Token Token
}

// AbstractionNode binds one or more parameters, outermost first, within Body.
type AbstractionNode struct {
	Lambda Token
	Params []Token
	Body   Node
}

// ApplicationNode is a left-associative sequence of one or more operands.
// The first child is applied to each of the remaining children in turn.
type ApplicationNode struct {
	Children []Node
}

func (*VariableNode) node()    {}
func (*AbstractionNode) node() {}
func (*ApplicationNode) node() {}

func (n *VariableNode) Pos() Pos    { return n.Token.Pos }
func (n *AbstractionNode) Pos() Pos { return n.Lambda.Pos }

func (n *ApplicationNode) Pos() Pos {
	if len(n.Children) == 0 {
		return Pos{}
	}

	return n.Children[0].Pos()
}

// Name returns the variable name.
func (n *VariableNode) Name() string { return n.Token.Text }

// Names returns the parameter names, outermost first.
func (n *AbstractionNode) Names() []string {
	names := make([]string, len(n.Params))

	for i, p := range n.Params {
		names[i] = p.Text
	}

	return names
}
