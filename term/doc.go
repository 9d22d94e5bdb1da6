// Package term implements untyped lambda-calculus terms and the rewriting
// operations over them.
//
// A [Term] is one of [Variable], [Abstraction], or [Application]. Terms are
// immutable values; every operation returns a new term.
//
// # Substitution
//
// Capture-avoiding substitution is expressed by the [Substitution] interface
// so that the renaming scheme can be swapped. [CaptureAvoiding] renames
// clashing binders with a [Fresh] strategy, [Counting] by default:
//
//	s := term.CaptureAvoiding{}
//	s.Substitute(term.Abs("y", term.Var("x")), "x", term.Var("y"))
//	// (λy1.y)
//
// # Normalization
//
// [Normalizer] reduces in normal order and exposes the reduction as a lazy
// sequence of [Step] values, each tagged [Alpha] or [Beta]:
//
//	for step, err := range n.Steps(ctx, t) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(step.Conversion, step.Term)
//	}
package term
