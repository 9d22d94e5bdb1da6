package term

import (
	"strings"
)

// Term is an untyped lambda-calculus term.
//
// The set of implementations is closed: [Variable], [Abstraction], and
// [Application]. Terms are plain values and never mutated once built, so two
// terms are structurally equal exactly when they compare equal with ==.
type Term interface {
	String() string

	term()
}

// Variable is a reference to a name.
type Variable struct {
	Name string
}

// Abstraction binds Param within Body.
type Abstraction struct {
	Param string
	Body  Term
}

// Application applies Func to Arg.
type Application struct {
	Func Term
	Arg  Term
}

func (Variable) term()    {}
func (Abstraction) term() {}
func (Application) term() {}

// Var returns a [Variable] named name.
func Var(name string) Variable { return Variable{Name: name} }

// Abs returns the [Abstraction] λparam.body.
func Abs(param string, body Term) Abstraction {
	return Abstraction{Param: param, Body: body}
}

// App returns the [Application] of fn to arg.
func App(fn, arg Term) Application {
	return Application{Func: fn, Arg: arg}
}

// Apply returns fn applied to each of args in turn, associating to the left:
// Apply(f, a, b) is ((f a) b). With no arguments fn is returned unchanged.
func Apply(fn Term, args ...Term) Term {
	for _, arg := range args {
		fn = Application{Func: fn, Arg: arg}
	}

	return fn
}

// Abstract returns body abstracted over params, outermost first:
// Abstract(b, "x", "y") is λx.λy.b.
func Abstract(body Term, params ...string) Term {
	for i := len(params) - 1; i >= 0; i-- {
		body = Abstraction{Param: params[i], Body: body}
	}

	return body
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Term) bool { return a == b }

// String returns the canonical form of the variable.
func (v Variable) String() string { return v.Name }

// String returns the canonical, fully parenthesized form (λx.body).
func (a Abstraction) String() string {
	var sb strings.Builder

	write(&sb, a)

	return sb.String()
}

// String returns the canonical, fully parenthesized form (f a).
func (a Application) String() string {
	var sb strings.Builder

	write(&sb, a)

	return sb.String()
}

func write(sb *strings.Builder, t Term) {
	switch t := t.(type) {
	case Variable:
		sb.WriteString(t.Name)

	case Abstraction:
		sb.WriteString("(λ")
		sb.WriteString(t.Param)
		sb.WriteByte('.')
		write(sb, t.Body)
		sb.WriteByte(')')

	case Application:
		sb.WriteByte('(')
		write(sb, t.Func)
		sb.WriteByte(' ')
		write(sb, t.Arg)
		sb.WriteByte(')')
	}
}

// FreeVariables returns the set of names occurring free in t.
func FreeVariables(t Term) map[string]struct{} {
	free := make(map[string]struct{})

	collectFree(t, map[string]int{}, free)

	return free
}

func collectFree(t Term, bound map[string]int, free map[string]struct{}) {
	switch t := t.(type) {
	case Variable:
		if bound[t.Name] == 0 {
			free[t.Name] = struct{}{}
		}

	case Abstraction:
		bound[t.Param]++
		collectFree(t.Body, bound, free)
		bound[t.Param]--

	case Application:
		collectFree(t.Func, bound, free)
		collectFree(t.Arg, bound, free)
	}
}

// IsFree reports whether name occurs free in t.
func IsFree(name string, t Term) bool {
	switch t := t.(type) {
	case Variable:
		return t.Name == name

	case Abstraction:
		return t.Param != name && IsFree(name, t.Body)

	case Application:
		return IsFree(name, t.Func) || IsFree(name, t.Arg)
	}

	return false
}

// names adds every name appearing in t, free or bound, to set.
func names(t Term, set map[string]struct{}) {
	switch t := t.(type) {
	case Variable:
		set[t.Name] = struct{}{}

	case Abstraction:
		set[t.Param] = struct{}{}
		names(t.Body, set)

	case Application:
		names(t.Func, set)
		names(t.Arg, set)
	}
}

// ToMap returns a tree of maps and strings describing t, suitable for
// encoding as JSON or YAML.
func ToMap(t Term) map[string]any {
	switch t := t.(type) {
	case Variable:
		return map[string]any{"variable": t.Name}

	case Abstraction:
		return map[string]any{
			"abstraction": map[string]any{
				"param": t.Param,
				"body":  ToMap(t.Body),
			},
		}

	case Application:
		return map[string]any{
			"application": map[string]any{
				"func": ToMap(t.Func),
				"arg":  ToMap(t.Arg),
			},
		}
	}

	return nil
}
