//go:build !linux && !windows

package app

import "errors"

func windowHandle() (int64, error) {
	return 0, errors.New("window embedding is not supported on this platform")
}
