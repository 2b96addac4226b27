// cbdecode prints the JSON payload of a CircleBox persistence record.
//
// Both encodings written by the capture SDKs are accepted: the binary
// envelope (field 1 = wire version, field 2 = JSON payload) and the legacy
// raw JSON file. Output is pretty-printed with sorted keys by default, or
// compact with original key order when --compact is set.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/danmuck/cbdecode/internal/config"
	"github.com/danmuck/cbdecode/internal/envelope"
	"github.com/danmuck/cbdecode/internal/logging"
	"github.com/danmuck/cbdecode/internal/payload"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type options struct {
	compact    bool
	pretty     bool
	indent     int
	fields     bool
	configPath string
	help       bool
}

func main() {
	logging.ConfigureRuntime()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	flagSet := pflag.NewFlagSet("cbdecode", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&opts.compact, "compact", false, "print compact JSON in original key order")
	flagSet.BoolVar(&opts.pretty, "pretty", false, "print indented JSON with sorted keys (default)")
	flagSet.IntVar(&opts.indent, "indent", config.DefaultIndent, "spaces per indent level for pretty output")
	flagSet.BoolVar(&opts.fields, "fields", false, "list the envelope fields instead of printing the payload")
	flagSet.StringVar(&opts.configPath, "config", "", "path to a TOML config with output defaults")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintf(stderr, "cbdecode: %v\n", err)
		return exitUsage
	}
	if opts.help {
		printHelp(stdout, flagSet)
		return exitOK
	}
	if flagSet.NArg() != 1 {
		fmt.Fprintln(stderr, "cbdecode: expected exactly one input file")
		return exitUsage
	}
	if opts.compact && opts.pretty {
		fmt.Fprintln(stderr, "cbdecode: --compact and --pretty are mutually exclusive")
		return exitUsage
	}

	cfg, err := resolveConfig(flagSet, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Config failed: %v\n", err)
		return exitFail
	}
	logging.SetLevel(cfg.LogLevel)

	path := flagSet.Arg(0)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(stderr, "File not found: %s\n", path)
			return exitFail
		}
		fmt.Fprintf(stderr, "Read failed: %v\n", err)
		return exitFail
	}
	log.Debug().Str("path", path).Int("bytes", len(raw)).Msg("read persistence file")

	var out bytes.Buffer
	if opts.fields {
		err = writeFields(&out, raw)
	} else {
		err = decode(&out, raw, cfg)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Decode failed: %v\n", err)
		return exitFail
	}
	if _, err := stdout.Write(out.Bytes()); err != nil {
		fmt.Fprintf(stderr, "Write failed: %v\n", err)
		return exitFail
	}
	return exitOK
}

func resolveConfig(flagSet *pflag.FlagSet, opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	switch {
	case opts.compact:
		cfg.Output = config.OutputCompact
	case opts.pretty:
		cfg.Output = config.OutputPretty
	}
	if flagSet.Changed("indent") {
		cfg.Indent = opts.indent
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func decode(w io.Writer, raw []byte, cfg config.Config) error {
	res, err := envelope.Decode(raw)
	if err != nil {
		return err
	}
	event := log.Debug().Stringer("format", res.Format).Int("payload_bytes", len(res.Payload))
	if res.HasVersion {
		event = event.Uint64("version", res.Version)
	}
	event.Msg("decoded persistence envelope")

	doc, err := payload.Materialize(res.Payload)
	if err != nil {
		return err
	}
	if cfg.Output == config.OutputCompact {
		return doc.Compact(w)
	}
	return doc.Pretty(w, cfg.Indent)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Decode a CircleBox pending/checkpoint persistence file to JSON.

Usage:
  cbdecode [flags] <file>

Flags:
%s`, flagSet.FlagUsages())
}
