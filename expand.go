package shellexpand

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LookupFunc resolves a variable name to a value. The three outcomes are:
// resolved (value, true, nil), unresolved (_, false, nil), and failed
// (_, _, err). A non-nil error takes precedence over the other return
// values and aborts the whole expansion.
type LookupFunc func(name string) (value string, ok bool, err error)

// SimpleLookupFunc is the infallible variant of LookupFunc, for lookups
// that can never fail (static maps, defaults-only resolution).
type SimpleLookupFunc func(name string) (value string, ok bool)

// HomeDirFunc reports the current user's home directory. Returning
// ok=false means the home directory is unavailable; this is not an error,
// it merely disables tilde expansion for the call.
type HomeDirFunc func() (dir string, ok bool)

// ExpandVariables replaces $NAME and ${NAME} references in s with values
// resolved by lookup.
//
// A name is a maximal run of letters, digits, and underscores. The braced
// form accepts an empty name; "${}" performs a lookup of the empty string.
// "$$" is an escape producing a single literal "$". A "$" followed by
// neither a name character, "{", nor another "$" is literal. An
// unterminated "${" is literal as well; malformed syntax is never an
// error.
//
// A reference whose lookup reports unresolved is copied through verbatim,
// brackets included, so callers can see what remained unresolved. A lookup
// failure aborts the whole call and returns a *LookupError; no partially
// substituted text is returned alongside it.
//
// If s contains no "$", it is returned as-is without allocating.
func ExpandVariables(s string, lookup LookupFunc) (string, error) {
	result, _, err := scanVariables(s, lookup)
	return result, err
}

// ExpandVariablesSimple is ExpandVariables for lookups without an error
// channel. It panics if the wrapped lookup nevertheless reports an error,
// which cannot happen for a SimpleLookupFunc.
func ExpandVariablesSimple(s string, lookup SimpleLookupFunc) string {
	result, err := ExpandVariables(s, fallible(lookup))
	if err != nil {
		panic("shellexpand: lookup without an error channel failed: " + err.Error())
	}
	return result
}

// ExpandTilde expands a leading "~" in s using the home directory reported
// by homeDir.
//
// Only a tilde that is the whole input, or that is immediately followed by
// "/", is eligible. Forms like "~user/path" and tildes anywhere past the
// first character are returned untouched. If homeDir reports the directory
// as unavailable, s is returned unchanged.
func ExpandTilde(s string, homeDir HomeDirFunc) string {
	if !strings.HasPrefix(s, "~") {
		return s
	}
	rest := s[1:]
	if rest != "" && !strings.HasPrefix(rest, "/") {
		// ~otheruser form, unsupported.
		return s
	}
	dir, ok := homeDir()
	if !ok {
		return s
	}
	return dir + rest
}

// ExpandFull applies variable expansion followed by tilde expansion.
//
// The composition is ordering-aware in both directions. A tilde that
// appears at the start of the result only because a substituted value put
// it there is not treated as a home-directory marker: whether tilde
// expansion runs depends on the caller's original text. Conversely, a
// literal leading tilde followed by a variable, as in "~$VAR", is expanded
// against the post-substitution text, so a value starting with "/" joins
// up with the home directory correctly.
//
// A lookup failure is returned as a *LookupError and skips tilde expansion
// entirely.
func ExpandFull(s string, homeDir HomeDirFunc, lookup LookupFunc) (string, error) {
	expanded, changed, err := scanVariables(s, lookup)
	if err != nil {
		return "", err
	}
	if !changed {
		// No substitution happened, so the leading character of s is
		// literal truth.
		return ExpandTilde(s, homeDir), nil
	}
	if !strings.HasPrefix(s, "~") && strings.HasPrefix(expanded, "~") {
		// The tilde came out of a substituted value, not the caller's
		// text. Leave it alone.
		return expanded, nil
	}
	return ExpandTilde(expanded, homeDir), nil
}

// ExpandFullSimple is ExpandFull for lookups without an error channel.
func ExpandFullSimple(s string, homeDir HomeDirFunc, lookup SimpleLookupFunc) string {
	result, err := ExpandFull(s, homeDir, fallible(lookup))
	if err != nil {
		panic("shellexpand: lookup without an error channel failed: " + err.Error())
	}
	return result
}

// fallible adapts an infallible lookup to the general fallible shape.
func fallible(lookup SimpleLookupFunc) LookupFunc {
	return func(name string) (string, bool, error) {
		value, ok := lookup(name)
		return value, ok, nil
	}
}

// isNameRune reports whether r may appear in a variable name.
func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// scanVariables is the single-pass scanner behind ExpandVariables and
// ExpandFull. It returns the expanded text plus a changed tag: changed is
// false exactly when s contained no "$" and the returned string is s
// itself. ExpandFull's ordering rule consumes the tag to tell a borrowed
// result from a rebuilt one.
func scanVariables(s string, lookup LookupFunc) (result string, changed bool, err error) {
	next := strings.IndexByte(s, '$')
	if next < 0 {
		return s, false, nil
	}

	var out strings.Builder
	out.Grow(len(s))

	rest := s
	for {
		out.WriteString(rest[:next])
		rest = rest[next:]
		if rest == "" {
			break
		}

		// rest starts at a "$". Classify by the character after it.
		tail := rest[1:]
		switch {
		case strings.HasPrefix(tail, "{"):
			end := strings.IndexByte(tail, '}')
			if end < 0 {
				// Unterminated "${": both characters are literal and no
				// lookup happens. Scanning resumes after the "{".
				out.WriteString(rest[:2])
				rest = rest[2:]
				break
			}
			name := tail[1:end]
			value, ok, lookupErr := lookup(name)
			if lookupErr != nil {
				return "", false, &LookupError{Name: name, Cause: lookupErr}
			}
			if ok {
				out.WriteString(value)
			} else {
				// Unresolved: keep the whole "${NAME}" span, braces
				// included.
				out.WriteString(rest[:end+2])
			}
			rest = tail[end+1:]
		case strings.HasPrefix(tail, "$"):
			// "$$" escapes a literal dollar; both characters are consumed.
			out.WriteByte('$')
			rest = tail[1:]
		default:
			r, _ := utf8.DecodeRuneInString(tail)
			if tail == "" || !isNameRune(r) {
				// Stray "$" at end of input or before a non-name
				// character: literal. The following character is not
				// consumed here, so it may itself start a reference.
				out.WriteByte('$')
				rest = tail
				break
			}
			end := strings.IndexFunc(tail, func(r rune) bool { return !isNameRune(r) })
			if end < 0 {
				end = len(tail)
			}
			name := tail[:end]
			value, ok, lookupErr := lookup(name)
			if lookupErr != nil {
				return "", false, &LookupError{Name: name, Cause: lookupErr}
			}
			if ok {
				out.WriteString(value)
			} else {
				out.WriteString(rest[:end+1])
			}
			rest = tail[end:]
		}

		next = strings.IndexByte(rest, '$')
		if next < 0 {
			out.WriteString(rest)
			break
		}
	}

	return out.String(), true, nil
}
