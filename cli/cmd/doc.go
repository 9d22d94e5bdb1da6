// Package cmd implements the lrepl subcommands.
//
// Every command runs in a [session.Session] taken from its context (see
// [WithSession]) after the global source scripts have been executed in it.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file written by [Init].
	ConfigIdentifier = "config"
)
