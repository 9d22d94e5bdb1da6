package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/lrepl/alias"
)

// WriteScript writes the aliases as alias commands in definition order.
// Passing the output to [Session.Reload] recreates the same aliases.
func (s *Session) WriteScript(w io.Writer) error {
	for name, t := range s.env.All() {
		if _, err := fmt.Fprintf(w, "alias %s = %s\n", name, t); err != nil {
			return err
		}
	}

	return nil
}

// Reload replaces every alias with those defined by the script read from r,
// as written by [Session.WriteScript]. Alias commands store their terms
// exactly as written. Other commands run as by [Session.Load]. The aliases
// are left unchanged if any line of the script fails.
func (s *Session) Reload(ctx context.Context, r io.Reader, w io.Writer) error {
	prev := s.env
	s.env = alias.New(s.subst, alias.WithLogger(s.logger))

	if err := s.load(ctx, r, w, s.restore); err != nil {
		s.env = prev

		return err
	}

	s.logger.TraceContext(ctx, "aliases reloaded",
		slog.Int("before", prev.Len()),
		slog.Int("after", s.env.Len()),
	)

	return nil
}
