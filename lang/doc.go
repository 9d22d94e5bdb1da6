// Package lang implements the surface syntax of lambda terms.
//
// # Syntax
//
//	λx.body   \x.body      abstraction ("λ" and "\" are interchangeable)
//	λx y.body              same as λx.λy.body
//	f a b                  application, same as (f a) b
//	(term)                 grouping
//
// A variable name is any run of characters other than "λ", "\", ".", "(",
// ")", and whitespace, so names such as "1x", "hi!", and "ähm-hi?" are valid.
// Whitespace is spaces and tabs. It is required only between two adjacent
// variables and is otherwise ignored.
//
// # Pipeline
//
// Text passes through four stages:
//
//  1. [Tokens] splits one line of text into tokens.
//  2. [Filter] drops whitespace that does not separate two variables.
//  3. [ParseTree] builds a [Node] tree by recursive descent.
//  4. [Build] converts the tree into a [term.Term].
//
// [Parse] runs all four stages.
//
// # Errors
//
// Unexpected input yields a [*SyntaxError] matching [ErrSyntax]. Its
// [SyntaxError.Snippet] points at the offending token:
//
//	t, err := lang.Parse(ctx, `a b c.`)
//	var se *lang.SyntaxError
//	if errors.As(err, &se) {
//		fmt.Print(se.Snippet())
//	}
//
//	a b c.
//	     ^
package lang
