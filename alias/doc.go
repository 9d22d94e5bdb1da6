// Package alias implements an ordered environment of named terms.
//
// Each alias is resolved against the aliases defined before it at the moment
// it is set, and the stored term never changes afterwards:
//
//	env := alias.New(term.CaptureAvoiding{})
//	env.Set("a", term.Var("1"))
//	env.Set("b", term.App(term.Var("a"), term.Var("c"))) // stores (1 c)
//	env.Set("a", term.Var("2"))                          // b is still (1 c)
//
// Because a term is resolved before its own name is defined, aliases cannot
// refer to themselves: setting a to (a b) stores (a b) with a left free.
package alias
