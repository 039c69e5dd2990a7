//go:build !unix

package cli

import "os"

// TerminalWidth returns DefaultWidth on platforms without a winsize ioctl.
func TerminalWidth(*os.File) int { return DefaultWidth }
