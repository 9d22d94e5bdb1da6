package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

// Kind classifies a [Token].
type Kind int

const (
	Invalid    Kind = iota // invalid
	EOF                    // end of input
	Lambda                 // λ
	Variable               // variable
	Dot                    // .
	LPar                   // (
	RPar                   // )
	Whitespace             // whitespace
)

// Pos locates a token in its source line.
type Pos struct {
	Offset int // byte offset, starting at 0
	Column int // rune column, starting at 1
	Width  int // width in runes
}

// End returns the column immediately following the token.
func (p Pos) End() int { return p.Column + p.Width }

// Token is a lexeme of the surface syntax.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return t.Kind.String()
	case Variable, Whitespace, Invalid:
		return t.Kind.String() + " " + quote(t.Text)
	default:
		return quote(t.Text)
	}
}

func quote(s string) string { return "\"" + s + "\"" }
