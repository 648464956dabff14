//go:build unix

package restart

import (
	"fmt"
	"os"
	"syscall"
)

// Exec replaces the current process with a fresh copy of the same binary,
// keeping its arguments and environment. It only returns on failure.
func Exec() error {
	path, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable: %w", err)
	}
	if err := syscall.Exec(path, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("re-executing %s: %w", path, err)
	}
	return nil
}
