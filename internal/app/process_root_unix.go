//go:build !windows

package app

import "os"

var processEUID = os.Geteuid

// IsProcessRoot reports whether the launcher runs with elevated privileges.
func IsProcessRoot() bool {
	return processEUID() == 0
}
