package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactionConfig_IsSensitiveName(t *testing.T) {
	config := DefaultRedactionConfig()

	tests := []struct {
		name      string
		sensitive bool
	}{
		{"DB_PASSWORD", true},
		{"password", true},
		{"GITHUB_TOKEN", true},
		{"MY_SECRET", true},
		{"API_KEY", true},
		{"AWS_SECRET_ACCESS_KEY", true},
		{"AUTHORIZATION", true},
		{"SSH_KEY_FILE", true},
		{"PATH", false},
		{"HOME", false},
		{"USER", false},
		{"EDITOR", false},
		{"PROJECT_DIR", false},
		{"KEYBOARD_LAYOUT", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sensitive, config.IsSensitiveName(tt.name))
		})
	}
}

func TestRedactingHandler(t *testing.T) {
	t.Run("masks values of sensitive keys", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewRedactingHandler(slog.NewTextHandler(&buf, nil), nil)

		logger := slog.New(h)
		logger.Info("resolved", "API_TOKEN", "hunter2", "PROJECT_DIR", "/srv/app")

		out := buf.String()
		assert.NotContains(t, out, "hunter2")
		assert.Contains(t, out, "API_TOKEN=***")
		assert.Contains(t, out, "PROJECT_DIR=/srv/app")
	})

	t.Run("masks inside groups", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewRedactingHandler(slog.NewTextHandler(&buf, nil), nil)

		logger := slog.New(h)
		logger.Info("resolved",
			slog.Group("variables",
				slog.String("DB_PASSWORD", "hunter2"),
				slog.String("DB_HOST", "localhost"),
			),
		)

		out := buf.String()
		assert.NotContains(t, out, "hunter2")
		assert.Contains(t, out, "DB_HOST=localhost")
	})

	t.Run("masks attributes attached with WithAttrs", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewRedactingHandler(slog.NewTextHandler(&buf, nil), nil)

		logger := slog.New(h).With("SLACK_TOKEN", "xoxb-1234")
		logger.Info("hello")

		out := buf.String()
		assert.NotContains(t, out, "xoxb-1234")
		assert.Contains(t, out, "SLACK_TOKEN=***")
	})

	t.Run("allowed names are never masked", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewRedactingHandler(slog.NewTextHandler(&buf, nil), nil)

		logger := slog.New(h)
		logger.Info("env", "PATH", "/usr/bin")

		assert.Contains(t, buf.String(), "PATH=/usr/bin")
	})
}
