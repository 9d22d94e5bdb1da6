// Package profile provides optional runtime profiling for lrepl.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only
// when building with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
//
// A [Profiler] selects one mode and an output directory:
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/lrepl"}
//	defer p.Start().Stop()
//
// Profiles are written as <mode>.pprof and analyzed with go tool pprof:
//
//	go tool pprof -http=: /tmp/lrepl/cpu.pprof
//
// Normalizing divergent terms is the usual reason to profile lrepl. The
// "cpu" and "allocs" modes show time spent in substitution and renaming.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
