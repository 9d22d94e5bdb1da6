package alias

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lrepl/log"
	"github.com/ardnew/lrepl/term"
)

// Entry is a named term.
type Entry struct {
	Name string
	Term term.Term
}

// Environment is an ordered set of aliases. Iteration order is the order in
// which names were last set.
//
// An Environment is not safe for concurrent use.
type Environment struct {
	entries []Entry
	index   map[string]int

	subst  term.Substitution
	logger log.Logger
}

// Option configures an [Environment].
type Option func(*Environment)

// WithLogger sets the logger receiving alias traces.
func WithLogger(logger log.Logger) Option {
	return func(e *Environment) { e.logger = logger }
}

// New returns an empty [Environment] resolving aliases with subst. A nil
// subst means [term.CaptureAvoiding] with the default fresh-name strategy.
func New(subst term.Substitution, opts ...Option) *Environment {
	if subst == nil {
		subst = term.CaptureAvoiding{}
	}

	env := &Environment{index: make(map[string]int), subst: subst}

	for _, opt := range opts {
		opt(env)
	}

	return env
}

// Set resolves the current aliases into t and stores the result under name,
// moving name to the end of the iteration order. The order of all other
// aliases is unchanged. It returns the stored term.
//
// A free occurrence of name in t is not resolved, even when name is already
// defined: after Set("a", 1), Set("a", (a b)) stores (a b).
func (e *Environment) Set(name string, t term.Term) term.Term {
	if _, ok := e.index[name]; ok {
		e.remove(name)
	}

	resolved := e.Apply(t)

	e.store(name, resolved)

	e.logger.Trace("alias set",
		slog.String("name", name),
		slog.String("term", resolved.String()),
	)

	return resolved
}

// Restore stores t under name without resolving any alias into it, moving
// name to the end of the iteration order. It recreates an entry previously
// stored by [Environment.Set], so t may only contain free names that are
// undefined or defined after name.
func (e *Environment) Restore(name string, t term.Term) {
	if _, ok := e.index[name]; ok {
		e.remove(name)
	}

	e.store(name, t)

	e.logger.Trace("alias restored",
		slog.String("name", name),
		slog.String("term", t.String()),
	)
}

// Get returns the term stored under name.
func (e *Environment) Get(name string) (term.Term, error) {
	i, ok := e.index[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	return e.entries[i].Term, nil
}

// Delete removes the alias name.
func (e *Environment) Delete(name string) error {
	if _, ok := e.index[name]; !ok {
		return &NotFoundError{Name: name}
	}

	e.remove(name)

	e.logger.Trace("alias deleted", slog.String("name", name))

	return nil
}

// Clear removes every alias.
func (e *Environment) Clear() {
	e.entries = nil
	clear(e.index)

	e.logger.Trace("aliases cleared")
}

// Len returns the number of aliases.
func (e *Environment) Len() int { return len(e.entries) }

// Apply returns t with every free occurrence of each alias name replaced by
// its term, newest alias first, one substitution per alias.
//
// A stored term can only contain free names that were undefined when it was
// set, which are newer aliases, so resolving newest first never reintroduces
// a name that was already replaced.
func (e *Environment) Apply(t term.Term) term.Term {
	for _, entry := range slices.Backward(e.entries) {
		t = e.subst.Substitute(t, entry.Name, entry.Term)
	}

	return t
}

// All returns the aliases in iteration order.
func (e *Environment) All() iter.Seq2[string, term.Term] {
	return func(yield func(string, term.Term) bool) {
		for _, entry := range e.entries {
			if !yield(entry.Name, entry.Term) {
				return
			}
		}
	}
}

// Entries returns a copy of the aliases in iteration order.
func (e *Environment) Entries() []Entry { return slices.Clone(e.entries) }

// Names returns the alias names in iteration order.
func (e *Environment) Names() []string {
	names := make([]string, len(e.entries))

	for i, entry := range e.entries {
		names[i] = entry.Name
	}

	return names
}

func (e *Environment) store(name string, t term.Term) {
	e.index[name] = len(e.entries)
	e.entries = append(e.entries, Entry{Name: name, Term: t})
}

func (e *Environment) remove(name string) {
	i := e.index[name]

	e.entries = slices.Delete(e.entries, i, i+1)
	delete(e.index, name)

	for j := i; j < len(e.entries); j++ {
		e.index[e.entries[j].Name] = j
	}
}

// MarshalYAML encodes the aliases as an ordered mapping from name to
// canonical term.
func (e *Environment) MarshalYAML() (any, error) {
	m := make(yaml.MapSlice, len(e.entries))

	for i, entry := range e.entries {
		m[i] = yaml.MapItem{Key: entry.Name, Value: entry.Term.String()}
	}

	return m, nil
}

// MarshalJSON encodes the aliases as an ordered object from name to
// canonical term.
func (e *Environment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, entry := range e.entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(entry.Term.String())
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// FormatYAML writes the aliases as YAML.
func (e *Environment) FormatYAML(ctx context.Context, w io.Writer) error {
	data, err := yaml.MarshalContext(ctx, e)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
