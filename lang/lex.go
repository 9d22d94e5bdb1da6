package lang

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Tokens returns the tokens of a single line of source text.
//
// Variable and whitespace tokens are maximal runs. Every other rune yields a
// token of its own. Line breaks and other spacing runes that are neither
// space nor tab yield [Invalid] tokens, as do bytes that are not valid UTF-8.
//
// The sequence is lazy and may be ranged over any number of times.
func Tokens(src string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		col := 1

		for off := 0; off < len(src); {
			r, size := utf8.DecodeRuneInString(src[off:])
			kind := classify(r, size)
			end, width := off+size, 1

			if kind == Variable || kind == Whitespace {
				for end < len(src) {
					r, size := utf8.DecodeRuneInString(src[end:])
					if classify(r, size) != kind {
						break
					}

					end += size
					width++
				}
			}

			tok := Token{
				Kind: kind,
				Text: src[off:end],
				Pos:  Pos{Offset: off, Column: col, Width: width},
			}

			if !yield(tok) {
				return
			}

			off, col = end, col+width
		}
	}
}

func classify(r rune, size int) Kind {
	switch {
	case r == 'λ', r == '\\':
		return Lambda
	case r == '.':
		return Dot
	case r == '(':
		return LPar
	case r == ')':
		return RPar
	case r == ' ', r == '\t':
		return Whitespace
	case r == utf8.RuneError && size <= 1, unicode.IsSpace(r):
		return Invalid
	default:
		return Variable
	}
}
