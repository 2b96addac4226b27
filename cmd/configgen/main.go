package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/danmuck/cbdecode/internal/config"
	"github.com/danmuck/cbdecode/internal/logging"
)

const defaultPath = "cbdecode.toml"

func main() {
	logging.Configure(logging.ProfileRuntime)
	logging.SetLevel("info")
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "configgen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	flagSet := pflag.NewFlagSet("configgen", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	output := flagSet.String("output", defaultPath, "output path for config template")
	validate := flagSet.Bool("validate", false, "validate an existing config file")
	input := flagSet.String("input", defaultPath, "config path for validation")
	force := flagSet.Bool("force", false, "overwrite existing config file")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			return err
		}
		log.Info().Str("path", *input).Str("output", string(cfg.Output)).Int("indent", cfg.Indent).Msg("validated config")
		return nil
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		return err
	}
	log.Info().Str("path", *output).Msg("wrote config template")
	return nil
}
