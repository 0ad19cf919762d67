// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/pakt-dev/pakt/internal/adapters/index"
	_ "github.com/pakt-dev/pakt/internal/adapters/lockfile"
	_ "github.com/pakt-dev/pakt/internal/adapters/logger"
	_ "github.com/pakt-dev/pakt/internal/adapters/manifest"
	_ "github.com/pakt-dev/pakt/internal/adapters/projlock"
	_ "github.com/pakt-dev/pakt/internal/adapters/tracker"
	// Register app and engine nodes.
	_ "github.com/pakt-dev/pakt/internal/app"
	_ "github.com/pakt-dev/pakt/internal/engine/orchestrator"
)
