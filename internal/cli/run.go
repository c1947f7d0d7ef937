package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tomasbasham/qs"
	"github.com/tomasbasham/qs/internal/ctxlog"
	"github.com/tomasbasham/qs/internal/yamlvalue"
)

// Run executes the command described by config, reading input from in when
// no positional argument supplies it and writing the result to out.
func Run(ctx context.Context, config *Config, in io.Reader, out io.Writer) error {
	logger := ctxlog.FromContext(ctx).With("command", config.Command)
	ctx = ctxlog.WithLogger(ctx, logger)

	switch config.Command {
	case "parse":
		return runParse(ctx, config, in, out)
	case "build":
		return runBuild(ctx, config, in, out)
	case "merge":
		return runMerge(ctx, config, out)
	default:
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", config.Command)}
	}
}

func runParse(ctx context.Context, config *Config, in io.Reader, out io.Writer) error {
	query, err := argOrInput(config.Args, in)
	if err != nil {
		return err
	}
	query = strings.TrimSpace(query)

	m, err := qs.ParseWithOptions(query, config.Options)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	ctxlog.FromContext(ctx).Debug("Parsed query string.", "bytes", len(query), "fields", m.Len())

	return write(out, config.Format, m)
}

func runBuild(ctx context.Context, config *Config, in io.Reader, out io.Writer) error {
	var data []byte
	var err error
	if len(config.Args) > 0 {
		data, err = os.ReadFile(config.Args[0])
	} else {
		data, err = io.ReadAll(in)
	}
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	m, err := yamlvalue.Unmarshal(data)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	ctxlog.FromContext(ctx).Debug("Decoded document.", "fields", m.Len())

	return write(out, "query", m)
}

func runMerge(ctx context.Context, config *Config, out io.Writer) error {
	src, err := qs.ParseWithOptions(config.Args[0], config.Options)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("source: %v", err)}
	}
	dst, err := qs.ParseWithOptions(config.Args[1], config.Options)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("destination: %v", err)}
	}

	merged, ok := qs.Merge(src, dst).(*qs.Map)
	if !ok {
		return fmt.Errorf("merge did not produce a map")
	}
	ctxlog.FromContext(ctx).Debug("Merged query strings.",
		"source_fields", src.Len(), "destination_fields", dst.Len(), "fields", merged.Len())

	return write(out, config.Format, merged)
}

func argOrInput(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

func write(out io.Writer, format string, m *qs.Map) error {
	var data []byte
	var err error
	switch format {
	case "yaml":
		data, err = yamlvalue.Marshal(m)
	case "query":
		data = []byte(qs.Build(m) + "\n")
	default:
		data, err = json.MarshalIndent(m, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding %s output: %w", format, err)
	}
	_, err = out.Write(data)
	return err
}
