//go:build !unix

package restart

import "errors"

// Exec is not available on this platform; use ModeExit with a supervisor.
func Exec() error {
	return errors.New("re-exec is not supported on this platform")
}
