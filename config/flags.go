package config

import (
	"github.com/spf13/pflag"
)

var CliArgs *CliConfig

type CliConfig struct {
	ConfigFile string
	Debug      bool
	Version    bool
	Prompt     string
	// OneShot is set when --prompt was given, even with an empty value.
	OneShot bool

	flags *pflag.FlagSet
}

// ParseArgs parses the command line into CliArgs.
func ParseArgs(args []string) error {
	if CliArgs != nil {
		panic("already defined")
	}
	cli, err := parseFlags(args)
	if err != nil {
		return err
	}
	CliArgs = cli
	return nil
}

func parseFlags(args []string) (*CliConfig, error) {
	cli := &CliConfig{}
	fs := pflag.NewFlagSet("promptui", pflag.ContinueOnError)
	fs.StringVar(&cli.ConfigFile, "config", "", "Path to the config file")
	fs.BoolVarP(&cli.Debug, "debug", "d", false, "Enable debug mode")
	fs.BoolVarP(&cli.Version, "version", "v", false, "Print version and exit")
	fs.StringVar(&cli.Prompt, "prompt", "", "Submit this prompt once and print the response")
	fs.String("endpoint", "", "Query endpoint URL")
	fs.Duration("timeout", 0, "Request timeout, 0 waits indefinitely")
	fs.String("policy", "", "Concurrent submission policy: last-resolved or supersede")
	fs.String("listen", "", "Listen address for the page server")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cli.OneShot = fs.Changed("prompt")
	cli.flags = fs
	return cli, nil
}
