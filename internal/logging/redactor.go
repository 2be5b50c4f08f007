package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// RedactionConfig contains configuration for redacting sensitive information
// from log records.
type RedactionConfig struct {
	// AllowedNames contains variable names that are safe to log in
	// cleartext even though they may match a sensitive pattern.
	AllowedNames []string
	// SensitivePatterns contains regex patterns matching variable or
	// attribute names whose values must not appear in logs.
	SensitivePatterns []*regexp.Regexp
}

// DefaultRedactionConfig returns a default redaction configuration.
func DefaultRedactionConfig() *RedactionConfig {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)(password|passwd|token|secret|credential|api_key)`),
		regexp.MustCompile(`(?i)(^|_)key($|_)`),
		regexp.MustCompile(`(?i)authorization`),
		regexp.MustCompile(`(?i)aws_access_key_id`),
		regexp.MustCompile(`(?i)aws_secret_access_key`),
		regexp.MustCompile(`(?i)aws_session_token`),
		regexp.MustCompile(`(?i)google_application_credentials`),
	}

	allowed := []string{
		"PATH", "HOME", "USER", "LANG", "SHELL", "TERM",
		"PWD", "OLDPWD", "HOSTNAME", "LOGNAME", "TZ",
	}

	return &RedactionConfig{
		AllowedNames:      allowed,
		SensitivePatterns: patterns,
	}
}

// IsSensitiveName reports whether a variable name is sensitive and its
// value should be masked before logging.
func (c *RedactionConfig) IsSensitiveName(name string) bool {
	for _, allowed := range c.AllowedNames {
		if strings.EqualFold(name, allowed) {
			return false
		}
	}
	for _, pattern := range c.SensitivePatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

const redactedPlaceholder = "***"

// RedactingHandler is a decorator that redacts sensitive information before
// forwarding records to the underlying handler.
type RedactingHandler struct {
	handler slog.Handler
	config  *RedactionConfig
}

// NewRedactingHandler creates a new redacting handler that wraps the given handler.
func NewRedactingHandler(handler slog.Handler, config *RedactionConfig) *RedactingHandler {
	if config == nil {
		config = DefaultRedactionConfig()
	}
	return &RedactingHandler{
		handler: handler,
		config:  config,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (r *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return r.handler.Enabled(ctx, level)
}

// Handle redacts the log record and forwards it to the underlying handler.
func (r *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)

	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(r.redactAttr(attr))
		return true
	})

	return r.handler.Handle(ctx, newRecord)
}

// WithAttrs returns a new RedactingHandler with the given attributes.
func (r *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		redacted = append(redacted, r.redactAttr(attr))
	}
	return &RedactingHandler{
		handler: r.handler.WithAttrs(redacted),
		config:  r.config,
	}
}

// WithGroup returns a new RedactingHandler with the given group name.
func (r *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{
		handler: r.handler.WithGroup(name),
		config:  r.config,
	}
}

// redactAttr redacts sensitive information from a single attribute. An
// attribute is masked when its key matches a sensitive pattern; group
// values are walked recursively.
func (r *RedactingHandler) redactAttr(attr slog.Attr) slog.Attr {
	if r.config.IsSensitiveName(attr.Key) {
		return slog.Attr{Key: attr.Key, Value: slog.StringValue(redactedPlaceholder)}
	}

	if attr.Value.Kind() == slog.KindGroup {
		groupAttrs := attr.Value.Group()
		redacted := make([]slog.Attr, 0, len(groupAttrs))
		for _, groupAttr := range groupAttrs {
			redacted = append(redacted, r.redactAttr(groupAttr))
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(redacted...)}
	}

	return attr
}
