package term

import "strconv"

// Substitution replaces the free occurrences of a name in a term.
type Substitution interface {
	// Substitute returns t with every free occurrence of name replaced by
	// value. The receiver decides how bound names are renamed to keep the free
	// variables of value from being captured.
	Substitute(t Term, name string, value Term) Term
}

// Fresh chooses a replacement for the bound name base. The returned name must
// not satisfy taken.
type Fresh func(base string, taken func(string) bool) string

// Counting is the default [Fresh] strategy. It appends the smallest positive
// counter that yields a name not taken: x, then x1, x2, and so on.
func Counting(base string, taken func(string) bool) string {
	for n := 1; ; n++ {
		name := base + strconv.Itoa(n)
		if !taken(name) {
			return name
		}
	}
}

// CaptureAvoiding is a [Substitution] that alpha-renames binders which would
// otherwise capture a free variable of the substituted value.
type CaptureAvoiding struct {
	// Fresh picks new binder names. Nil means [Counting].
	Fresh Fresh
}

// Substitute implements [Substitution].
func (c CaptureAvoiding) Substitute(t Term, name string, value Term) Term {
	renamed := Rename(t, name, FreeVariables(value), c.fresh())

	return replace(renamed, name, value)
}

func (c CaptureAvoiding) fresh() Fresh {
	if c.Fresh == nil {
		return Counting
	}

	return c.Fresh
}

// Rename alpha-converts t so that substituting for name cannot capture any
// name in avoid. Every binder in avoid whose scope contains a free occurrence
// of name is renamed using fresh. Terms that need no renaming are returned
// unchanged (and compare equal to t).
func Rename(t Term, name string, avoid map[string]struct{}, fresh Fresh) Term {
	switch t := t.(type) {
	case Variable:
		return t

	case Application:
		return Application{
			Func: Rename(t.Func, name, avoid, fresh),
			Arg:  Rename(t.Arg, name, avoid, fresh),
		}

	case Abstraction:
		if t.Param == name || !IsFree(name, t.Body) {
			return t
		}

		param, body := t.Param, t.Body

		if _, clash := avoid[param]; clash {
			used := map[string]struct{}{name: {}}
			names(body, used)

			param = fresh(param, func(s string) bool {
				_, inAvoid := avoid[s]
				_, inUse := used[s]

				return inAvoid || inUse
			})
			body = replace(body, t.Param, Variable{Name: param})
		}

		return Abstraction{Param: param, Body: Rename(body, name, avoid, fresh)}
	}

	return t
}

// replace substitutes value for the free occurrences of name in t without
// renaming any binder. Callers guarantee that no capture can occur.
func replace(t Term, name string, value Term) Term {
	switch t := t.(type) {
	case Variable:
		if t.Name == name {
			return value
		}

		return t

	case Abstraction:
		if t.Param == name {
			return t
		}

		return Abstraction{Param: t.Param, Body: replace(t.Body, name, value)}

	case Application:
		return Application{
			Func: replace(t.Func, name, value),
			Arg:  replace(t.Arg, name, value),
		}
	}

	return t
}
