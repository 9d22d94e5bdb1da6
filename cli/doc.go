// Package cli contains the command line interface for lrepl.
//
// # Usage
//
// Without a command, lrepl starts an interactive session:
//
//	lrepl
//	lrepl --source prelude.txt repl --plain
//
// Terms can also be evaluated from the command line:
//
//	lrepl eval '(\x.\y.x) a b'
//	lrepl --source bools.txt trace 'not true'
//	lrepl fmt json --indent 0 '\x.x'
//
// Script files given with --source are run, one command per line, before
// the selected command. Aliases they define are visible to every command.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory. The init command writes config.yaml from the
// current flag values:
//
//	lrepl --log-level=debug --max-steps=100000 init
//
// Command-line flags override configuration values.
package cli
