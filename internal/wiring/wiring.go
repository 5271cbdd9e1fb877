// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/offline/internal/adapters/cachestorage"
	_ "go.trai.ch/offline/internal/adapters/clients"
	_ "go.trai.ch/offline/internal/adapters/config"
	_ "go.trai.ch/offline/internal/adapters/control"
	_ "go.trai.ch/offline/internal/adapters/logger"
	_ "go.trai.ch/offline/internal/adapters/notifier"
	_ "go.trai.ch/offline/internal/adapters/telemetry"
	_ "go.trai.ch/offline/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/offline/internal/app"
)
