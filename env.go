package shellexpand

import "os"

// Env expands $NAME and ${NAME} references in s using the process
// environment. Unlike the context variants, a reference to an unset
// variable is a failure here: the returned *LookupError carries
// ErrVariableNotSet as its cause.
func Env(s string) (string, error) {
	return ExpandVariables(s, envLookup)
}

// Tilde expands a leading "~" in s using os.UserHomeDir. If the home
// directory cannot be determined, s is returned unchanged.
func Tilde(s string) string {
	return ExpandTilde(s, osHomeDir)
}

// Full applies variable expansion against the process environment followed
// by tilde expansion against os.UserHomeDir, with ExpandFull's ordering
// rules. As with Env, an unset variable is a failure.
func Full(s string) (string, error) {
	return ExpandFull(s, osHomeDir, envLookup)
}

func envLookup(name string) (string, bool, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false, ErrVariableNotSet
	}
	return value, true, nil
}

func osHomeDir() (string, bool) {
	dir, err := os.UserHomeDir()
	if err != nil || dir == "" {
		return "", false
	}
	return dir, true
}
