package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tomasbasham/qs"
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

// Config is the result of parsing the command line.
type Config struct {
	// Command is one of "parse", "build" or "merge".
	Command string
	// Args are the positional arguments following the command.
	Args []string
	// Format selects the output of parse and merge: "json", "yaml" or "query".
	Format string
	// Options configure query string parsing.
	Options qs.Options

	LogFormat string
	LogLevel  string
}

const usage = `
qs - parse and build PHP-style bracket notation query strings.

Usage:
  qs [options] parse [-strict] [-strict-decode] [-drop-blank] [-collect] [-format json|yaml|query] [QUERY]
  qs [options] build [FILE]
  qs [options] merge [-format json|yaml|query] SOURCE DEST

parse reads QUERY, or standard input when it is omitted, and prints the
nested structure. build reads a YAML or JSON document and prints it as a
query string. merge combines two query strings, SOURCE taking precedence.

Options:
`

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("qs", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

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

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config := &Config{
		Command:   flagSet.Arg(0),
		Options:   qs.DefaultOptions,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	}

	var err error
	var exit bool
	switch config.Command {
	case "parse":
		exit, err = parseParseFlags(config, flagSet.Args()[1:], output)
	case "build":
		exit, err = parseCommandFlags(config, flagSet.Args()[1:], output, 0, 1)
	case "merge":
		exit, err = parseMergeFlags(config, flagSet.Args()[1:], output)
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", config.Command)}
	}
	if err != nil || exit {
		return nil, exit, err
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command, "args", len(config.Args))
	return config, false, nil
}

func parseParseFlags(config *Config, args []string, output io.Writer) (bool, error) {
	fs := flag.NewFlagSet("qs parse", flag.ContinueOnError)
	fs.SetOutput(output)
	strict := fs.Bool("strict", false, "Reject pairs without an '=' separator.")
	strictDecode := fs.Bool("strict-decode", false, "Reject malformed percent escapes.")
	dropBlank := fs.Bool("drop-blank", false, "Drop pairs with an empty value.")
	collect := fs.Bool("collect", false, "Collect repeated plain keys into a list instead of keeping the last value.")
	format := fs.String("format", "json", "Output format. Options: 'json', 'yaml' or 'query'.")

	if exit, err := parseSubcommand(fs, args, 0, 1); err != nil || exit {
		return exit, err
	}
	if err := setFormat(config, *format); err != nil {
		return false, err
	}

	config.Args = fs.Args()
	config.Options.StrictParsing = *strict
	config.Options.StrictDecode = *strictDecode
	config.Options.KeepBlankValues = !*dropBlank
	config.Options.CollectDuplicates = *collect
	return false, nil
}

func parseMergeFlags(config *Config, args []string, output io.Writer) (bool, error) {
	fs := flag.NewFlagSet("qs merge", flag.ContinueOnError)
	fs.SetOutput(output)
	format := fs.String("format", "query", "Output format. Options: 'json', 'yaml' or 'query'.")

	if exit, err := parseSubcommand(fs, args, 2, 2); err != nil || exit {
		return exit, err
	}
	if err := setFormat(config, *format); err != nil {
		return false, err
	}
	config.Args = fs.Args()
	return false, nil
}

func parseCommandFlags(config *Config, args []string, output io.Writer, minArgs, maxArgs int) (bool, error) {
	fs := flag.NewFlagSet("qs "+config.Command, flag.ContinueOnError)
	fs.SetOutput(output)
	if exit, err := parseSubcommand(fs, args, minArgs, maxArgs); err != nil || exit {
		return exit, err
	}
	config.Args = fs.Args()
	return false, nil
}

// parseSubcommand parses fs and checks the number of positional arguments.
func parseSubcommand(fs *flag.FlagSet, args []string, minArgs, maxArgs int) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, &ExitError{Code: 2, Message: err.Error()}
	}
	if n := fs.NArg(); n < minArgs || n > maxArgs {
		return false, &ExitError{
			Code:    2,
			Message: fmt.Sprintf("%s: expected between %d and %d arguments, got %d", fs.Name(), minArgs, maxArgs, n),
		}
	}
	return false, nil
}

func setFormat(config *Config, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "json", "yaml", "query":
		config.Format = format
		return nil
	default:
		return &ExitError{Code: 2, Message: "invalid format: must be 'json', 'yaml' or 'query'"}
	}
}
