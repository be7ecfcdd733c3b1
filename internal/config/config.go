// Package config reads command-line flags, CC_PARSER_* environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

// EnvPrefix prefixes the environment variable of every flag, e.g.
// CC_PARSER_OUTPUT_DIR for --output-dir.
const EnvPrefix = "CC_PARSER"

// Config holds the CLI and server settings.
type Config struct {
	Addr        string
	Serve       bool
	Format      string
	OutputDir   string
	Issuer      string
	Workers     int
	MaxUploadMB int
	Header      bool
	Verbose     bool
	Version     bool

	// Files are the positional arguments.
	Files []string
}

// MaxUploadBytes is the request body limit for the HTTP server.
func (c *Config) MaxUploadBytes() int { return c.MaxUploadMB << 20 }

// Load parses args (without the program name) after loading envFile into
// the process environment. A missing envFile is not an error. The usage
// text is returned even when parsing fails; ff.ErrHelp is returned for
// --help.
func Load(args []string, envFile string) (*Config, string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	flags := ff.NewFlagSet("cc-statement-parser")
	flags.StringVar(&cfg.Addr, 0, "addr", ":8080", "HTTP listen address in --serve mode (PORT is honoured when unset)")
	flags.BoolVar(&cfg.Serve, 0, "serve", "run the HTTP API instead of converting files")
	flags.StringVar(&cfg.Format, 0, "format", "json", "output format: json or csv")
	flags.StringVar(&cfg.OutputDir, 0, "output-dir", "", "directory for converted files (default: next to each input)")
	flags.StringVar(&cfg.Issuer, 0, "issuer", "", "force the card issuer instead of detecting it (hdfc, icici, axis, chase, idfc)")
	flags.IntVar(&cfg.Workers, 0, "workers", 4, "files converted concurrently")
	flags.IntVar(&cfg.MaxUploadMB, 0, "max-upload-mb", 16, "largest accepted upload in MiB (MAX_UPLOAD_SIZE is honoured when unset)")
	noHeader := flags.BoolLong("no-header", "omit statement metadata rows from CSV output")
	flags.BoolVar(&cfg.Verbose, 'v', "verbose", "log debug output")
	flags.BoolVar(&cfg.Version, 0, "version", "print version and exit")

	usage := func() string { return ffhelp.Flags(flags).String() }

	if err := ff.Parse(flags, args, ff.WithEnvVarPrefix(EnvPrefix)); err != nil {
		return nil, usage(), err
	}
	cfg.Files = flags.GetArgs()
	cfg.Header = !*noHeader

	if !isSet(flags, "addr") {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Addr = ":" + strings.TrimPrefix(port, ":")
		}
	}
	if !isSet(flags, "max-upload-mb") {
		if raw := os.Getenv("MAX_UPLOAD_SIZE"); raw != "" {
			mb, err := strconv.Atoi(raw)
			if err != nil {
				return nil, usage(), fmt.Errorf("MAX_UPLOAD_SIZE: %w", err)
			}
			cfg.MaxUploadMB = mb
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, usage(), err
	}
	return cfg, usage(), nil
}

func isSet(flags *ff.FlagSet, name string) bool {
	f, ok := flags.GetFlag(name)
	return ok && f.IsSet()
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Format) {
	case "json", "csv":
	default:
		return fmt.Errorf("--format must be json or csv, got %q", c.Format)
	}
	if c.Workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("--max-upload-mb must be at least 1, got %d", c.MaxUploadMB)
	}
	return nil
}
