package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lrepl/term"
)

// Format writes the canonical form of t followed by a newline.
func Format(w io.Writer, t term.Term) error {
	_, err := fmt.Fprintln(w, t)

	return err
}

// FormatJSON writes the tree encoding of t as JSON. A positive indent
// pretty-prints with that many spaces per level.
func FormatJSON(w io.Writer, t term.Term, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(term.ToMap(t), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(term.ToMap(t))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the tree encoding of t as YAML. A positive indent sets
// the block indentation; otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, t term.Term, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, term.ToMap(t), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// FormatTree writes the parse tree rooted at n, one node per line, children
// indented by indent spaces beneath their parent.
func FormatTree(w io.Writer, n Node, indent int) error {
	return formatNode(w, n, indent, 0)
}

func formatNode(w io.Writer, n Node, indent, depth int) error {
	pad := strings.Repeat(" ", indent*depth)

	switch n := n.(type) {
	case *VariableNode:
		_, err := fmt.Fprintf(w, "%svariable %s\n", pad, n.Name())

		return err

	case *AbstractionNode:
		_, err := fmt.Fprintf(w, "%sabstraction %s\n",
			pad, strings.Join(n.Names(), " "))
		if err != nil {
			return err
		}

		return formatNode(w, n.Body, indent, depth+1)

	case *ApplicationNode:
		if _, err := fmt.Fprintf(w, "%sapplication\n", pad); err != nil {
			return err
		}

		for _, child := range n.Children {
			if err := formatNode(w, child, indent, depth+1); err != nil {
				return err
			}
		}

		return nil
	}

	return ErrUnknownNode.With(slog.String("node", fmt.Sprintf("%T", n)))
}
