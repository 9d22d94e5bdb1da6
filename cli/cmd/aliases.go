package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// Aliases prints the aliases defined by the source scripts.
type Aliases struct {
	Format string `default:"native" enum:"native,script,json,yaml" help:"Output format (${enum})."                  short:"f"`
	Indent int    `default:"2"                                      help:"Indent width for JSON, 0 for compact." short:"i"`
}

// Run executes the aliases command.
func (a *Aliases) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := prepare(ctx)
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	switch a.Format {
	case "script":
		return s.WriteScript(w)

	case "json":
		data, err := s.Environment().MarshalJSON()
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		var buf bytes.Buffer
		if a.Indent > 0 {
			err = json.Indent(&buf, data, "", strings.Repeat(" ", a.Indent))
		} else {
			err = json.Compact(&buf, data)
		}

		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		buf.WriteByte('\n')

		_, err = buf.WriteTo(w)

		return err

	case "yaml":
		if err := s.Environment().FormatYAML(ctx, w); err != nil {
			return ErrYAMLMarshal.
				With(slog.Int("aliases", s.Environment().Len())).
				Wrap(err)
		}

		return nil

	default:
		_, err := s.Exec(ctx, "aliases", w)

		return err
	}
}
