package cmd

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lrepl/log"
	"github.com/ardnew/lrepl/session"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, or the empty string.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

type sessionKey struct{}

// WithSession returns a new context.Context containing the session that
// commands evaluate terms in.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// sessionFrom returns the session stored by [WithSession], or a new session
// logging to the default logger.
func sessionFrom(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey{}).(*session.Session); ok && s != nil {
		return s
	}

	return session.New(session.WithLogger(log.Default()))
}

type outputKey struct{}

// WithOutput returns a new context.Context directing command output to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// outputFrom returns the writer stored by [WithOutput], or os.Stdout.
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// prepare returns the session of ctx after executing every source script in
// it. Script output is written to the command output.
func prepare(ctx context.Context) (*session.Session, error) {
	s := sessionFrom(ctx)

	src := sourceFilesFrom(ctx)
	if src == nil {
		return s, nil
	}

	var err error

	// Every file is closed, including those left unread after a failure.
	for name, r := range src.All() {
		if err == nil {
			log.DebugContext(ctx, "load source", slog.String("file", name))

			if lerr := s.Load(ctx, r, outputFrom(ctx)); lerr != nil {
				err = ErrLoadSource.
					With(slog.String("file", name)).
					Wrap(lerr)
			}
		}

		if c, ok := r.(io.Closer); ok && name != stdinSource {
			_ = c.Close()
		}
	}

	if err != nil {
		return nil, err
	}

	return s, nil
}

type (
	sourceFilesKey struct{}
	sourceFile     struct {
		name string
		r    io.Reader
	}
	sourceFiles struct {
		files    []sourceFile
		hasStdin bool
	}

	// SourceFiles are the scripts executed before a command runs.
	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		All() iter.Seq2[string, io.Reader]
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.files) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// All yields the name and content of each source in order, with stdin last.
func (s *sourceFiles) All() iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, f := range s.files {
			if !yield(f.name, f.r) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, os.Stdin)
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the given source
// scripts.
//
// Sources are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin source,
// placed last so it is read after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.files = make([]sourceFile, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinKey, hasStdinKey := fileKey{}, false
	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, hasStdinKey = makeFileKey(info)
	}

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		path, key, ok := resolveUniqueFile(src, seen)
		if !ok {
			continue
		}

		// Stdin named as a regular file.
		if hasStdinKey && key == stdinKey {
			srcs.hasStdin = true

			continue
		}

		file, err := os.Open(path)
		if err != nil {
			continue
		}

		srcs.files = append(srcs.files, sourceFile{name: src, r: file})
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// resolveUniqueFile resolves path to a file that hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the resolved path and its key, or false if the file is a duplicate
// or cannot be inspected.
func resolveUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (string, fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fileKey{}, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", fileKey{}, false
	}

	if _, exists := seen[key]; exists {
		return "", key, false
	}

	seen[key] = struct{}{}

	return resolved, key, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// sourceFilesFrom retrieves the sources stored in ctx by WithSourceFiles.
// Returns nil if none were stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}
