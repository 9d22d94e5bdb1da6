package lang

import "iter"

// Filter drops whitespace from tokens, except where it separates two
// variables. Adjacent whitespace tokens are merged into one.
//
// Only the nearest non-whitespace token on each side decides whether a
// whitespace run is kept, so Filter needs no knowledge of the grammar.
func Filter(tokens iter.Seq[Token]) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		var (
			prev    = Invalid
			space   Token
			pending bool
		)

		for tok := range tokens {
			if tok.Kind == Whitespace {
				if pending {
					space.Text += tok.Text
					space.Pos.Width += tok.Pos.Width
				} else {
					space, pending = tok, true
				}

				continue
			}

			if pending && prev == Variable && tok.Kind == Variable {
				if !yield(space) {
					return
				}
			}

			pending = false

			if !yield(tok) {
				return
			}

			prev = tok.Kind
		}
	}
}
