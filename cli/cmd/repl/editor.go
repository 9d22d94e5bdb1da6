package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/lrepl/log"
	"github.com/ardnew/lrepl/session"
)

const defaultEditor = "vi"

// editAliasesCommand implements [tea.ExecCommand]. It writes the aliases of
// a session to a temporary script, opens the user's editor on it, and reloads
// the session from the result. On failure the user may edit again; declining
// leaves the aliases unchanged.
type editAliasesCommand struct {
	session *session.Session
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	changed bool
}

// SetStdin sets the stdin reader for the command.
func (c *editAliasesCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editAliasesCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editAliasesCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-reload-retry loop. It returns [ErrEditDeclined] if
// the user gives up after a failed reload.
func (c *editAliasesCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.session.WriteScript(&buf); err != nil {
		return err
	}

	f, err := os.CreateTemp("", "lrepl-aliases-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		// An emptied or untouched script cancels the edit.
		if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(data, buf.Bytes()) {
			return nil
		}

		err = c.session.Reload(ctx, bytes.NewReader(data), io.Discard)

		c.logger.TraceContext(
			ctx,
			"editor reload attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.changed = true

			return nil
		}

		fmt.Fprintln(c.stderr)
		_ = session.WriteError(c.stderr, err)

		if !confirm(c.stdin, c.stdout, "Re-edit? [Y/n] ") {
			return ErrEditDeclined
		}

		content = data
	}
}

// confirm asks prompt and reports whether the answer was not a no.
func confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprint(w, prompt)

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}

// runEditor runs $EDITOR, or vi, on path and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
