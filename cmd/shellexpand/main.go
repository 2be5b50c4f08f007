// Package main provides the shellexpand command line tool, an
// envsubst-like filter: it reads text from files or stdin, expands
// $NAME / ${NAME} references and a leading tilde, and writes the result
// to stdout or a file. Variable values come from a TOML config, .env
// files, and the system environment, merged in that precedence order.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	shellexpand "github.com/isseis/go-shellexpand"
	"github.com/isseis/go-shellexpand/internal/color"
	"github.com/isseis/go-shellexpand/internal/config"
	"github.com/isseis/go-shellexpand/internal/environment"
	"github.com/isseis/go-shellexpand/internal/logging"
	"github.com/isseis/go-shellexpand/internal/safefile"
	"github.com/isseis/go-shellexpand/internal/terminal"
)

const outputFilePerm = 0o600

// version is set via build flags in release builds.
var version = "dev"

// Error definitions
var (
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// stringSliceFlag collects the values of a repeatable flag.
type stringSliceFlag []string

func (f *stringSliceFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *stringSliceFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

var (
	configPath  = flag.String("config", "", "path to TOML config file")
	noSystemEnv = flag.Bool("no-system-env", false, "do not resolve variables from the system environment")
	unknownMode = flag.String("unknown", "", "policy for unknown variables: keep, empty, or error (overrides config)")
	noTilde     = flag.Bool("no-tilde", false, "disable leading tilde expansion")
	outputPath  = flag.String("output", "", "write output to file instead of stdout")
	logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logDir      = flag.String("log-dir", "", "directory to place per-run JSON log (auto-named)")
	quiet       = flag.Bool("quiet", false, "suppress colored diagnostics")
	showVersion = flag.Bool("version", false, "print version and exit")

	envFiles stringSliceFlag
)

func init() {
	flag.Var(&envFiles, "env-file", "path to .env file (repeatable, later files win)")
}

func main() {
	// Generate run ID early so even setup failures are attributable.
	runID := logging.GenerateRunID()

	if err := run(runID); err != nil {
		reportError(err, *quiet)
		os.Exit(1)
	}
}

func run(runID string) error {
	flag.Parse()

	if *showVersion {
		fmt.Printf("shellexpand %s\n", version)
		return nil
	}

	if err := setupLogger(*logLevel, *logDir, runID); err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.Debug("Starting shellexpand", "run_id", runID, "version", version)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	policy, err := selectPolicy(cfg, *unknownMode)
	if err != nil {
		return err
	}

	resolver, err := buildResolver(cfg, envFiles, *noSystemEnv)
	if err != nil {
		return err
	}

	text, err := readInput(flag.Args())
	if err != nil {
		return err
	}

	expanded, err := expandText(text, expandOptions{
		lookup:  resolver.Lookup(policy),
		homeDir: homeDirFunc(cfg.Expand.Home),
		tilde:   cfg.TildeEnabled() && !*noTilde,
	})
	if err != nil {
		return err
	}

	if err := writeOutput(*outputPath, expanded); err != nil {
		return err
	}

	slog.Info("Expansion complete",
		"run_id", runID,
		"input_bytes", len(text),
		"output_bytes", len(expanded),
		"unknown_policy", string(policy))
	return nil
}

// setupLogger wires the process-wide slog default: a stderr text handler,
// plus a per-run JSON file handler when logDir is set, fanned out through
// a MultiHandler and wrapped in redaction so sensitive variable names
// never reach a log destination in cleartext.
func setupLogger(level, logDir, runID string) error {
	slogLevel, err := parseLogLevel(level)
	if err != nil {
		return err
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}),
	}

	var logPath string
	if logDir != "" {
		logFile, path, err := logging.OpenLogFile(logDir, runID)
		if err != nil {
			return err
		}
		handlers = append(handlers, slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slogLevel}))
		logPath = path
	}

	handler := logging.NewRedactingHandler(logging.NewMultiHandler(handlers...), nil)
	slog.SetDefault(slog.New(handler).With("run_id", runID))
	if logPath != "" {
		slog.Debug("Per-run log file created", "path", logPath)
	}
	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
	}
}

// loadConfig loads the TOML config, or returns the defaults when no path
// was given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.NewLoader().Load(path)
}

// selectPolicy resolves the unknown-variable policy: the command line flag
// wins over the config.
func selectPolicy(cfg *config.Config, flagValue string) (environment.UnknownPolicy, error) {
	if flagValue != "" {
		return environment.ParsePolicy(flagValue)
	}
	return cfg.UnknownPolicy()
}

// buildResolver merges the variable sources in increasing precedence
// order: system environment, config env files, flag env files, config
// variables.
func buildResolver(cfg *config.Config, extraEnvFiles []string, noSystemEnv bool) (*environment.Resolver, error) {
	resolver := environment.NewResolver()

	if cfg.SystemEnvAllowed() && !noSystemEnv {
		resolver.AddSystemEnvironment(cfg.Environment.Allowlist)
	}

	files := make([]string, 0, len(cfg.Environment.EnvFiles)+len(extraEnvFiles))
	files = append(files, cfg.Environment.EnvFiles...)
	files = append(files, extraEnvFiles...)
	if err := resolver.AddEnvFiles(files); err != nil {
		return nil, err
	}

	if err := resolver.AddVariables(cfg.Variables); err != nil {
		return nil, fmt.Errorf("invalid variable in config: %w", err)
	}

	return resolver, nil
}

// homeDirFunc returns the home directory provider: the config override if
// set, otherwise the OS-reported home directory.
func homeDirFunc(override string) shellexpand.HomeDirFunc {
	if override != "" {
		return func() (string, bool) { return override, true }
	}
	return func() (string, bool) {
		dir, err := os.UserHomeDir()
		if err != nil || dir == "" {
			return "", false
		}
		return dir, true
	}
}

type expandOptions struct {
	lookup  shellexpand.LookupFunc
	homeDir shellexpand.HomeDirFunc
	tilde   bool
}

// expandText applies full expansion, or variable-only expansion when
// tilde expansion is disabled.
func expandText(text string, opts expandOptions) (string, error) {
	if !opts.tilde {
		return shellexpand.ExpandVariables(text, opts.lookup)
	}
	return shellexpand.ExpandFull(text, opts.homeDir, opts.lookup)
}

// readInput concatenates the given files, or reads stdin when none are
// given.
func readInput(paths []string) (string, error) {
	if len(paths) == 0 {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), nil
	}

	var b strings.Builder
	for _, path := range paths {
		content, err := safefile.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read input file %s: %w", path, err)
		}
		b.Write(content)
	}
	return b.String(), nil
}

// writeOutput writes the result to path, or stdout when path is empty.
func writeOutput(path, text string) error {
	if path == "" {
		if _, err := io.WriteString(os.Stdout, text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(text), outputFilePerm); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

// reportError prints a final diagnostic to stderr, colored when the
// terminal is interactive. Lookup failures name the offending variable.
func reportError(err error, forceQuiet bool) {
	detector := terminal.NewDetector(terminal.Options{ForceNonInteractive: forceQuiet})
	palette := color.NewPalette(detector.IsInteractive())

	var lookupErr *shellexpand.LookupError
	if errors.As(err, &lookupErr) {
		fmt.Fprintf(os.Stderr, "%s: variable %s: %v\n",
			palette.Error("shellexpand"),
			palette.Accent(lookupErr.Name),
			lookupErr.Cause)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", palette.Error("shellexpand"), err)
}
