package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/unroll/internal/app"
	"github.com/specialistvlad/unroll/internal/config"
	"github.com/specialistvlad/unroll/internal/hcl"
	"github.com/specialistvlad/unroll/internal/unroll"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("unroll", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
unroll - expand "; repeat N" blocks in assembly source.

Every line after a "; repeat N" comment, up to the next label, is written
N times in place. Everything else is copied unchanged.

Usage:
  unroll [options] INPUT

Arguments:
  INPUT
    Path to the assembly source file.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the project file. Defaults to ./"+hcl.DefaultFileName+" when present.")
	outputFlag := flagSet.String("output", "", "Write the result to this file atomically instead of stdout.")
	oFlag := flagSet.String("o", "", "Output file (shorthand).")
	unterminatedFlag := flagSet.String("unterminated", unroll.PolicyWarn.String(), "What to do with a repeat block open at end of input. Options: "+strings.Join(unroll.PolicyNames(), ", ")+".")
	maxRepeatFlag := flagSet.Int("max-repeat", unroll.DefaultMaxRepeat, "Largest accepted repeat count. 0 disables the limit.")
	keywordFlag := flagSet.String("keyword", unroll.DefaultKeyword, "Comment word that opens a repeat block.")
	commentFlag := flagSet.String("comment-prefix", unroll.DefaultCommentPrefix, "String that starts an assembler comment.")
	labelFlag := flagSet.String("label-pattern", unroll.DefaultLabelPattern, "Regular expression for a label line that closes a block.")
	watchFlag := flagSet.Bool("watch", false, "Keep running and re-expand whenever INPUT changes. Requires an output file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No input path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected exactly one input file, got %d", flagSet.NArg())}
	}
	path := flagSet.Arg(0)
	slog.Debug("Input path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if _, err := unroll.ParsePolicy(*unterminatedFlag); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if *maxRepeatFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid max-repeat: must not be negative"}
	}
	slog.Debug("CLI parameter validation complete.")

	// Only flags given explicitly override the project file.
	var overrides config.Settings
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "keyword":
			overrides.Keyword = *keywordFlag
			overrides.Set |= config.FieldKeyword
		case "comment-prefix":
			overrides.CommentPrefix = *commentFlag
			overrides.Set |= config.FieldCommentPrefix
		case "label-pattern":
			overrides.LabelPattern = *labelFlag
			overrides.Set |= config.FieldLabelPattern
		case "unterminated":
			overrides.Unterminated = *unterminatedFlag
			overrides.Set |= config.FieldUnterminated
		case "max-repeat":
			overrides.MaxRepeat = *maxRepeatFlag
			overrides.Set |= config.FieldMaxRepeat
		}
	})

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = *oFlag
	}
	if outputPath != "" {
		overrides.Output = outputPath
		overrides.Set |= config.FieldOutput
	}

	configPath, configOptional := *configFlag, false
	if configPath == "" {
		configPath, configOptional = hcl.DefaultFileName, true
	}

	cfg, err := app.NewConfig(app.Config{
		InputPath:      path,
		ConfigPath:     configPath,
		ConfigOptional: configOptional,
		Overrides:      overrides,
		Watch:          *watchFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
