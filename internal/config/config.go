// Package config parses the application configuration from command-line
// flags, FETCHBOARD_ environment variables and an optional YAML endpoints
// file, in that order of priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/fetchboard/internal/content"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/request"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "FETCHBOARD_"

// Defaults.
const (
	DefaultTimeout      = 15 * time.Second
	DefaultComments     = 10
	DefaultLogLevel     = "info"
	DefaultMaxBodyBytes = 10 << 20
)

// EndpointSet holds the endpoint of each resource.
type EndpointSet struct {
	Joke     request.Endpoint `yaml:"joke"`
	Comments request.Endpoint `yaml:"comments"`
	Image    request.Endpoint `yaml:"image"`
}

// DefaultEndpointSet returns the public endpoints.
func DefaultEndpointSet() EndpointSet {
	d := request.DefaultEndpoints()
	return EndpointSet{
		Joke:     d[content.ResourceJoke],
		Comments: d[content.ResourceComments],
		Image:    d[content.ResourceImage],
	}
}

// Map returns the set keyed by resource, as request.NewBuilder expects.
func (e EndpointSet) Map() map[content.Resource]request.Endpoint {
	return map[content.Resource]request.Endpoint{
		content.ResourceJoke:     e.Joke,
		content.ResourceComments: e.Comments,
		content.ResourceImage:    e.Image,
	}
}

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Once runs a single cycle in the terminal and exits.
	Once bool
	// Serve, when non-empty, starts the HTTP server on this address.
	Serve string
	// Timeout bounds each individual fetch. Zero disables the bound.
	Timeout time.Duration
	// EndpointsFile is the optional YAML file overriding endpoints.
	EndpointsFile string
	// Endpoints is the resolved endpoint of each resource.
	Endpoints EndpointSet
	// RejectOverlap refuses a new cycle while one is in flight.
	RejectOverlap bool
	// LogLevel is the minimum zerolog level.
	LogLevel string
	// Quiet suppresses the activity indicator.
	Quiet bool
	// NoColor disables colored output.
	NoColor bool
	// Comments limits how many comments are rendered. Zero shows all.
	Comments int
	// MaxBodyBytes caps every response body.
	MaxBodyBytes int64
	// Completion, when set, prints a completion script for this shell.
	Completion string
}

// endpointFlags hold the per-resource URL flags before they are merged into
// the endpoint set.
type endpointFlags struct {
	joke, comments, image string
}

// ParseConfig parses args into an AppConfig. Help and parse errors are
// written to errorWriter. The returned error is flag.ErrHelp for -h, or an
// apperrors.ConfigError for invalid values.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The command-line arguments, without the program name.
//   - errorWriter: The writer for usage and parse errors.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: An error if parsing or validation failed.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	cfg := AppConfig{}
	var urls endpointFlags
	fs.BoolVar(&cfg.Once, "once", false, "Run a single fetch cycle, print the result and exit.")
	fs.StringVar(&cfg.Serve, "serve", "", "Serve /metrics, /health and /api/cycle on this address (e.g. :8080).")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Per-fetch timeout (0 disables).")
	fs.StringVar(&cfg.EndpointsFile, "endpoints", "", "YAML file overriding resource endpoints.")
	fs.StringVar(&urls.joke, "joke-url", "", "Override the joke endpoint URL.")
	fs.StringVar(&urls.comments, "comments-url", "", "Override the comments endpoint URL.")
	fs.StringVar(&urls.image, "image-url", "", "Override the image endpoint URL.")
	fs.BoolVar(&cfg.RejectOverlap, "reject-overlap", false, "Refuse a new cycle while one is in flight.")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error).")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress the activity indicator.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.IntVar(&cfg.Comments, "comments", DefaultComments, "Number of comments to display (0 shows all).")
	fs.Int64Var(&cfg.MaxBodyBytes, "max-body", DefaultMaxBodyBytes, "Maximum response body size in bytes.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script (bash, zsh, fish, powershell).")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&cfg, fs)

	cfg.Endpoints = DefaultEndpointSet()
	if cfg.EndpointsFile != "" {
		file, err := LoadEndpointsFile(cfg.EndpointsFile)
		if err != nil {
			return AppConfig{}, apperrors.NewConfigError("endpoints file: %v", err)
		}
		cfg.Endpoints = cfg.Endpoints.merge(file)
	}
	applyEndpointEnv(&cfg.Endpoints)
	cfg.Endpoints = cfg.Endpoints.merge(urls.set())

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	if c.Timeout < 0 {
		return apperrors.NewConfigError("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Comments < 0 {
		return apperrors.NewConfigError("comments must not be negative, got %d", c.Comments)
	}
	if c.MaxBodyBytes <= 0 {
		return apperrors.NewConfigError("max-body must be positive, got %d", c.MaxBodyBytes)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
	}
	if c.Once && c.Serve != "" {
		return apperrors.NewConfigError("--once and --serve are mutually exclusive")
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish", "powershell":
	default:
		return apperrors.NewConfigError("unsupported completion shell %q", c.Completion)
	}
	return nil
}

func (u endpointFlags) set() EndpointSet {
	return EndpointSet{
		Joke:     request.Endpoint{BaseURL: u.joke},
		Comments: request.Endpoint{BaseURL: u.comments},
		Image:    request.Endpoint{BaseURL: u.image},
	}
}

// merge overlays the non-empty endpoints of o onto e. An override with a
// base URL but no path replaces the whole endpoint.
func (e EndpointSet) merge(o EndpointSet) EndpointSet {
	pick := func(base, over request.Endpoint) request.Endpoint {
		switch {
		case over.BaseURL != "":
			return over
		case over.Path != "":
			base.Path = over.Path
		}
		return base
	}
	return EndpointSet{
		Joke:     pick(e.Joke, o.Joke),
		Comments: pick(e.Comments, o.Comments),
		Image:    pick(e.Image, o.Image),
	}
}

// String renders the endpoints for debug logs.
func (e EndpointSet) String() string {
	return fmt.Sprintf("joke=%s comments=%s image=%s", e.Joke.Raw(), e.Comments.Raw(), e.Image.Raw())
}
