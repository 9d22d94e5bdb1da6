// Package session implements the commands of an interactive lambda-calculus
// session over one alias environment.
//
// A [Session] is driven either through its methods or through [Session.Exec],
// which dispatches one command line:
//
//	evaluate TERM     print the normal form of TERM (also: eval)
//	trace TERM        print each conversion reducing TERM
//	alias NAME = TERM define an alias
//	aliases           list aliases in definition order
//	clear [NAME]      remove one alias, or all of them
//	help              list commands
//	exit              end the session (also: quit, EOF)
//
// Aliases are resolved into every term before it is evaluated. Evaluation may
// diverge; cancelling its context stops it and leaves the aliases untouched.
package session
