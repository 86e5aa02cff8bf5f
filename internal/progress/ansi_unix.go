//go:build !windows

package progress

import "os"

// enableWindowsANSI is a no-op where ANSI escapes work natively.
func enableWindowsANSI(_ *os.File) {}
