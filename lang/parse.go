package lang

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ardnew/lrepl/log"
	"github.com/ardnew/lrepl/term"
)

// Option configures parsing.
type Option func(*parser)

// WithLogger sets the logger receiving parse traces.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// Parse parses src and builds its term.
//
// A source consisting of a single variable is returned directly without
// building a parse tree.
func Parse(ctx context.Context, src string, opts ...Option) (term.Term, error) {
	p := newParser(src, opts...)

	if len(p.tokens) == 2 && p.tokens[0].Kind == Variable {
		p.logger.TraceContext(ctx, "parse complete",
			slog.String("term", p.tokens[0].Text))

		return term.Var(p.tokens[0].Text), nil
	}

	node, err := p.parse(ctx)
	if err != nil {
		return nil, err
	}

	return Build(node)
}

// ParseTree parses src into a parse tree.
//
// The grammar, loosest binding first:
//
//	term        := abstraction | application
//	abstraction := LAMBDA VARIABLE (WHITESPACE VARIABLE)* DOT term
//	application := atom (WHITESPACE? atom)* abstraction?
//	atom        := VARIABLE | LPAR term RPAR
//
// Abstraction bodies and trailing abstraction arguments extend as far right
// as possible. Failures are reported as [*SyntaxError].
func ParseTree(ctx context.Context, src string, opts ...Option) (Node, error) {
	return newParser(src, opts...).parse(ctx)
}

// parser is a recursive-descent parser over the filtered tokens of one line.
// The final token is always [EOF].
type parser struct {
	src    string
	tokens []Token
	pos    int
	depth  int // open parentheses
	logger log.Logger
}

func newParser(src string, opts ...Option) *parser {
	tokens := slices.Collect(Filter(Tokens(src)))
	tokens = append(tokens, Token{
		Kind: EOF,
		Pos: Pos{
			Offset: len(src),
			Column: runeWidth(src) + 1,
			Width:  1,
		},
	})

	p := &parser{src: src, tokens: tokens}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *parser) parse(ctx context.Context) (Node, error) {
	node, err := p.parseTerm()
	if err != nil {
		p.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	if _, err := p.expect(EOF); err != nil {
		p.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("tokens", len(p.tokens)-1))

	return node, nil
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}

	return tok
}

func (p *parser) expect(kind Kind) (Token, error) {
	if p.peek().Kind != kind {
		return Token{}, p.unexpected(kind)
	}

	return p.next(), nil
}

func (p *parser) unexpected(expected ...Kind) error {
	return &SyntaxError{Token: p.peek(), Expected: expected, Source: p.src}
}

// parseTerm parses: abstraction | application.
func (p *parser) parseTerm() (Node, error) {
	switch p.peek().Kind {
	case Lambda:
		return p.parseAbstraction()
	case Variable, LPar:
		return p.parseApplication()
	default:
		return nil, p.unexpected(Lambda, Variable, LPar)
	}
}

// parseAbstraction parses: LAMBDA VARIABLE (WHITESPACE VARIABLE)* DOT term.
func (p *parser) parseAbstraction() (Node, error) {
	lambda, err := p.expect(Lambda)
	if err != nil {
		return nil, err
	}

	param, err := p.expect(Variable)
	if err != nil {
		return nil, err
	}

	params := []Token{param}

	for p.peek().Kind == Whitespace {
		p.next()

		if param, err = p.expect(Variable); err != nil {
			return nil, err
		}

		params = append(params, param)
	}

	if p.peek().Kind != Dot {
		return nil, p.unexpected(Variable, Dot)
	}

	p.next()

	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	return &AbstractionNode{Lambda: lambda, Params: params, Body: body}, nil
}

// parseApplication parses: atom (WHITESPACE? atom)* abstraction?.
func (p *parser) parseApplication() (Node, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	children := []Node{first}

	for {
		switch p.peek().Kind {
		case Whitespace:
			p.next()

			if p.peek().Kind != Variable {
				return nil, p.unexpected(Variable)
			}

			fallthrough

		case Variable, LPar:
			atom, err := p.parseAtom()
			if err != nil {
				return nil, err
			}

			children = append(children, atom)

		case Lambda:
			abs, err := p.parseAbstraction()
			if err != nil {
				return nil, err
			}

			return &ApplicationNode{Children: append(children, abs)}, nil

		default:
			if p.peek().Kind != p.closer() {
				return nil, p.unexpected(Variable, LPar, Lambda, p.closer())
			}

			return &ApplicationNode{Children: children}, nil
		}
	}
}

// closer returns the kind ending the innermost open term.
func (p *parser) closer() Kind {
	if p.depth > 0 {
		return RPar
	}

	return EOF
}

// parseAtom parses: VARIABLE | LPAR term RPAR.
func (p *parser) parseAtom() (Node, error) {
	switch p.peek().Kind {
	case Variable:
		return &VariableNode{Token: p.next()}, nil

	case LPar:
		p.next()
		p.depth++

		inner, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(RPar); err != nil {
			return nil, err
		}

		p.depth--

		return inner, nil

	default:
		return nil, p.unexpected(Variable, LPar)
	}
}
