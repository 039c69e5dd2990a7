// Package logging provides a unified logging interface for fetchboard.
// Components depend on the Logger interface; the default implementation is
// backed by zerolog, with a standard-library adapter for plain text output.
package logging
