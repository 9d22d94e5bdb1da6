package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lrepl/log"
)

// resolve is a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The YAML structure is converted as follows:
//   - Top-level keys name flags, e.g. "max-steps"
//   - Nested mappings join their keys with hyphens, so a "log" mapping with
//     a "level" key sets --log-level
//   - Underscores may be used in place of hyphens, e.g. "log_level"
//   - Sequences are joined with commas
//   - Numbers are passed to kong as strings
//
// Example config file, as written by the init command:
//
//	log-level: debug
//	log:
//	  format: text
//	  pretty: false
//	max-steps: 10000
//	source:
//	  - /home/user/.config/lrepl/prelude.txt
//
// Command-line flags override config file values. A file that is not valid
// YAML is ignored with a warning.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration",
				slog.String("error", err.Error()),
			)

			return config{}, nil
		}

		cfg := make(config, len(doc))
		cfg.flatten("", doc)

		log.TraceContext(ctx, "configuration loaded",
			slog.Int("keys", len(cfg)),
		)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys
	// may use underscores. Try both forms.
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten stores each scalar of m under its hyphen-joined key path.
func (r config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := val.(map[string]any); ok {
			r.flatten(key, sub)

			continue
		}

		if v := flagText(val); v != nil {
			r[key] = v
		}
	}
}

// flagText converts a decoded YAML value to a value kong can decode.
func flagText(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case bool, string:
		return v

	case []any:
		part := make([]string, 0, len(v))
		for _, e := range v {
			part = append(part, fmt.Sprint(e))
		}

		return strings.Join(part, ",")

	default:
		// Kong requires numbers as strings for parsing
		return fmt.Sprint(v)
	}
}
