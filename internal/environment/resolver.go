// Package environment assembles the variable sources the shellexpand tool
// resolves references against: the (optionally allowlist-filtered) system
// environment, .env files, and explicitly configured variables. The merged
// result is exposed as a shellexpand.LookupFunc, parameterized by the
// policy for unknown names.
package environment

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	shellexpand "github.com/isseis/go-shellexpand"
	"github.com/isseis/go-shellexpand/internal/safefile"
)

// Error definitions
var (
	// ErrUnknownVariable is the lookup cause under PolicyError when a
	// referenced variable has no value in any source.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrVariableNameEmpty is returned when a variable name is empty.
	ErrVariableNameEmpty = errors.New("variable name cannot be empty")

	// ErrInvalidVariableName is returned when a variable name does not
	// follow the POSIX naming rule.
	ErrInvalidVariableName = errors.New("invalid variable name")

	// ErrInvalidPolicy is returned for an unrecognized unknown-variable
	// policy string.
	ErrInvalidPolicy = errors.New("invalid unknown-variable policy")
)

// UnknownPolicy selects what a lookup reports for a name absent from all
// sources.
type UnknownPolicy string

// Supported policies. The engine itself is never changed by the policy;
// each one is just a differently shaped lookup function.
const (
	// PolicyKeep reports the name as unresolved, so the engine keeps the
	// literal reference in the output.
	PolicyKeep UnknownPolicy = "keep"

	// PolicyEmpty resolves unknown names to the empty string.
	PolicyEmpty UnknownPolicy = "empty"

	// PolicyError fails the lookup with ErrUnknownVariable.
	PolicyError UnknownPolicy = "error"
)

// ParsePolicy converts a policy string to an UnknownPolicy.
func ParsePolicy(s string) (UnknownPolicy, error) {
	switch UnknownPolicy(s) {
	case PolicyKeep, PolicyEmpty, PolicyError:
		return UnknownPolicy(s), nil
	default:
		return "", fmt.Errorf("%w: %q (want keep, empty, or error)", ErrInvalidPolicy, s)
	}
}

// variableNamePattern is the POSIX environment variable naming rule. It
// governs the names this tool accepts from its sources, not what the
// expansion engine recognizes in input text.
var variableNamePattern = regexp.MustCompile(`^[a-zA-Z_][0-9a-zA-Z_]*$`)

// ValidateName checks that name is a well-formed variable name.
func ValidateName(name string) error {
	if name == "" {
		return ErrVariableNameEmpty
	}
	if !variableNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidVariableName, name)
	}
	return nil
}

const envSeparatorParts = 2

// Resolver accumulates variables from multiple sources. Later additions
// override earlier ones, so callers add sources in increasing precedence
// order.
type Resolver struct {
	vars map[string]string
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{vars: make(map[string]string)}
}

// AddSystemEnvironment merges the process environment. A nil allowlist
// admits every variable; otherwise only the listed names are admitted.
func (r *Resolver) AddSystemEnvironment(allowlist []string) {
	var allowed map[string]bool
	if allowlist != nil {
		allowed = make(map[string]bool, len(allowlist))
		for _, name := range allowlist {
			allowed[name] = true
		}
	}

	count := 0
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", envSeparatorParts)
		if len(parts) != envSeparatorParts {
			continue
		}
		name, value := parts[0], parts[1]
		if allowed != nil && !allowed[name] {
			continue
		}
		if err := ValidateName(name); err != nil {
			continue
		}
		r.vars[name] = value
		count++
	}

	slog.Debug("Merged system environment", "count", count, "filtered", allowlist != nil)
}

// AddEnvFiles loads variables from .env files in order; later files win.
// Files are read through safefile and parsed with godotenv. Entries with
// malformed names are skipped with a warning rather than failing the whole
// file.
func (r *Resolver) AddEnvFiles(paths []string) error {
	for _, path := range paths {
		content, err := safefile.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read environment file %s: %w", path, err)
		}

		fileEnv, err := godotenv.Parse(bytes.NewReader(content))
		if err != nil {
			return fmt.Errorf("failed to parse environment file %s: %w", path, err)
		}

		for name, value := range fileEnv {
			if err := ValidateName(name); err != nil {
				slog.Warn("Skipping environment file variable",
					"file", path,
					"variable", name,
					"error", err)
				continue
			}
			r.vars[name] = value
		}
	}
	return nil
}

// AddVariables merges explicitly configured variables. Unlike file
// sources, a malformed name here is an error: the caller wrote it
// deliberately and should fix it.
func (r *Resolver) AddVariables(vars map[string]string) error {
	for name := range vars {
		if err := ValidateName(name); err != nil {
			return err
		}
	}
	maps.Copy(r.vars, vars)
	return nil
}

// Variables returns a copy of the merged variable map.
func (r *Resolver) Variables() map[string]string {
	result := make(map[string]string, len(r.vars))
	maps.Copy(result, r.vars)
	return result
}

// Lookup returns a lookup function over the merged sources, applying
// policy to names with no value.
func (r *Resolver) Lookup(policy UnknownPolicy) shellexpand.LookupFunc {
	return func(name string) (string, bool, error) {
		if value, ok := r.vars[name]; ok {
			return value, true, nil
		}
		switch policy {
		case PolicyEmpty:
			return "", true, nil
		case PolicyError:
			return "", false, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
		default:
			return "", false, nil
		}
	}
}
