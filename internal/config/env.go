// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/fetchboard/internal/request"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the FETCHBOARD_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},
	{"COMMENTS", []string{"comments"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Comments = parsed
		}
	}},
	{"MAX_BODY", []string{"max-body"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxBodyBytes = parsed
		}
	}},

	{"SERVE", []string{"serve"}, func(c *AppConfig, v string) {
		c.Serve = v
	}},
	{"ENDPOINTS", []string{"endpoints"}, func(c *AppConfig, v string) {
		c.EndpointsFile = v
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) {
		c.LogLevel = v
	}},

	{"ONCE", []string{"once"}, func(c *AppConfig, v string) {
		c.Once = parseBoolEnv(v, c.Once)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"REJECT_OVERLAP", []string{"reject-overlap"}, func(c *AppConfig, v string) {
		c.RejectOverlap = parseBoolEnv(v, c.RejectOverlap)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with FETCHBOARD_):
//   - TIMEOUT, COMMENTS, MAX_BODY, SERVE, ENDPOINTS, LOG_LEVEL,
//     ONCE, QUIET, NO_COLOR, REJECT_OVERLAP
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}

// applyEndpointEnv overlays FETCHBOARD_<RESOURCE>_BASE_URL and
// FETCHBOARD_<RESOURCE>_PATH onto the endpoint set.
func applyEndpointEnv(set *EndpointSet) {
	for _, e := range []struct {
		key string
		ep  *request.Endpoint
	}{
		{"JOKE", &set.Joke},
		{"COMMENTS", &set.Comments},
		{"IMAGE", &set.Image},
	} {
		if v := os.Getenv(EnvPrefix + e.key + "_BASE_URL"); v != "" {
			e.ep.BaseURL = v
		}
		if v, ok := os.LookupEnv(EnvPrefix + e.key + "_PATH"); ok {
			e.ep.Path = v
		}
	}
}
