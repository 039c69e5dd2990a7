// Package e2e builds the fetchboard binary and runs it against local
// upstream servers.
package e2e
