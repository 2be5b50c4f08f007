// Package shellexpand performs shell-like expansions in strings.
//
// Two expansions are supported: tilde expansion, where a "~" at the very
// beginning of a string (alone or in "~/some/path" form) becomes the user's
// home directory, and variable expansion, where $NAME and ${NAME} references
// become the values of the named variables. The sources of both (the home
// directory and the variable values) are supplied by the caller as plain
// functions, so resolution can come from the process environment, a static
// map, or a test double. Env, Tilde, and Full are convenience wrappers bound
// to the process environment for the common case.
//
// ExpandFull combines both expansions and gets their interaction right: a
// tilde that appears at the start of the result only because a substituted
// value begins with one is not expanded, while a literal "~$VAR" is expanded
// against the substituted text.
//
// Unknown variables are left in place verbatim rather than replaced with an
// empty string:
//
//	shellexpand.ExpandVariablesSimple("$A $B", func(string) (string, bool) {
//		return "", false
//	})
//	// "$A $B"
//
// Malformed syntax such as an unterminated "${" never causes an error either;
// it degrades to literal text. The only error any function here returns is a
// *LookupError, produced when the caller's own lookup function fails.
//
// Inputs that require no change are returned as-is, without allocating.
package shellexpand
