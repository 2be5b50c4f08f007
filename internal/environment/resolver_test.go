package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shellexpand "github.com/isseis/go-shellexpand"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    UnknownPolicy
		wantErr bool
	}{
		{"keep", PolicyKeep, false},
		{"empty", PolicyEmpty, false},
		{"error", PolicyError, false},
		{"", "", true},
		{"KEEP", "", true},
		{"ignore", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolicy(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"PATH", "_private", "a", "VAR_1", "lower_case", "_123"}
	for _, name := range valid {
		assert.NoError(t, ValidateName(name), "name %q", name)
	}

	assert.ErrorIs(t, ValidateName(""), ErrVariableNameEmpty)

	invalid := []string{"1VAR", "VAR-NAME", "VAR NAME", "VAR.NAME", "日本語", "$VAR"}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateName(name), ErrInvalidVariableName, "name %q", name)
	}
}

func TestResolver_AddVariables(t *testing.T) {
	t.Run("valid variables merge", func(t *testing.T) {
		r := NewResolver()
		require.NoError(t, r.AddVariables(map[string]string{"A": "1", "B": "2"}))
		assert.Equal(t, map[string]string{"A": "1", "B": "2"}, r.Variables())
	})

	t.Run("invalid name is rejected", func(t *testing.T) {
		r := NewResolver()
		err := r.AddVariables(map[string]string{"bad-name": "x"})
		assert.ErrorIs(t, err, ErrInvalidVariableName)
	})

	t.Run("later additions override earlier ones", func(t *testing.T) {
		r := NewResolver()
		require.NoError(t, r.AddVariables(map[string]string{"A": "old"}))
		require.NoError(t, r.AddVariables(map[string]string{"A": "new"}))
		assert.Equal(t, "new", r.Variables()["A"])
	})
}

func TestResolver_AddSystemEnvironment(t *testing.T) {
	t.Setenv("SHELLEXPAND_SYS_A", "alpha")
	t.Setenv("SHELLEXPAND_SYS_B", "beta")

	t.Run("nil allowlist admits everything", func(t *testing.T) {
		r := NewResolver()
		r.AddSystemEnvironment(nil)

		vars := r.Variables()
		assert.Equal(t, "alpha", vars["SHELLEXPAND_SYS_A"])
		assert.Equal(t, "beta", vars["SHELLEXPAND_SYS_B"])
	})

	t.Run("allowlist admits only listed names", func(t *testing.T) {
		r := NewResolver()
		r.AddSystemEnvironment([]string{"SHELLEXPAND_SYS_A"})

		vars := r.Variables()
		assert.Equal(t, "alpha", vars["SHELLEXPAND_SYS_A"])
		assert.NotContains(t, vars, "SHELLEXPAND_SYS_B")
	})

	t.Run("empty allowlist admits nothing", func(t *testing.T) {
		r := NewResolver()
		r.AddSystemEnvironment([]string{})

		assert.Empty(t, r.Variables())
	})
}

func TestResolver_AddEnvFiles(t *testing.T) {
	writeEnvFile := func(t *testing.T, dir, name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("parses dotenv syntax", func(t *testing.T) {
		dir := t.TempDir()
		path := writeEnvFile(t, dir, "a.env", "A=1\nB=\"quoted value\"\n# comment\n")

		r := NewResolver()
		require.NoError(t, r.AddEnvFiles([]string{path}))

		vars := r.Variables()
		assert.Equal(t, "1", vars["A"])
		assert.Equal(t, "quoted value", vars["B"])
	})

	t.Run("later files win", func(t *testing.T) {
		dir := t.TempDir()
		first := writeEnvFile(t, dir, "first.env", "A=first\nONLY_FIRST=yes\n")
		second := writeEnvFile(t, dir, "second.env", "A=second\n")

		r := NewResolver()
		require.NoError(t, r.AddEnvFiles([]string{first, second}))

		vars := r.Variables()
		assert.Equal(t, "second", vars["A"])
		assert.Equal(t, "yes", vars["ONLY_FIRST"])
	})

	t.Run("missing file is an error", func(t *testing.T) {
		r := NewResolver()
		err := r.AddEnvFiles([]string{filepath.Join(t.TempDir(), "missing.env")})
		assert.Error(t, err)
	})
}

func TestResolver_Lookup(t *testing.T) {
	r := NewResolver()
	require.NoError(t, r.AddVariables(map[string]string{"KNOWN": "value"}))

	t.Run("known name resolves under every policy", func(t *testing.T) {
		for _, policy := range []UnknownPolicy{PolicyKeep, PolicyEmpty, PolicyError} {
			value, ok, err := r.Lookup(policy)("KNOWN")
			require.NoError(t, err, "policy %s", policy)
			assert.True(t, ok)
			assert.Equal(t, "value", value)
		}
	})

	t.Run("keep reports unresolved", func(t *testing.T) {
		_, ok, err := r.Lookup(PolicyKeep)("MISSING")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty resolves to empty string", func(t *testing.T) {
		value, ok, err := r.Lookup(PolicyEmpty)("MISSING")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, value)
	})

	t.Run("error fails the lookup", func(t *testing.T) {
		_, _, err := r.Lookup(PolicyError)("MISSING")
		assert.ErrorIs(t, err, ErrUnknownVariable)
	})

	t.Run("policies drive the engine end to end", func(t *testing.T) {
		keep, err := shellexpand.ExpandVariables("$KNOWN/$MISSING", r.Lookup(PolicyKeep))
		require.NoError(t, err)
		assert.Equal(t, "value/$MISSING", keep)

		empty, err := shellexpand.ExpandVariables("$KNOWN/$MISSING", r.Lookup(PolicyEmpty))
		require.NoError(t, err)
		assert.Equal(t, "value/", empty)

		_, err = shellexpand.ExpandVariables("$KNOWN/$MISSING", r.Lookup(PolicyError))
		require.Error(t, err)
		var lookupErr *shellexpand.LookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.Equal(t, "MISSING", lookupErr.Name)
		assert.ErrorIs(t, err, ErrUnknownVariable)
	})
}
