//go:build !linux

package ui

import (
	"context"
	"log/slog"
)

// StartRemote returns a remote that never reports keys on non-Linux platforms.
func StartRemote(ctx context.Context, log *slog.Logger) *Remote {
	return newRemote(log)
}
