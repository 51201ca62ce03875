// Package infra contains technical adapters: metrics exporters, the SQLite
// scenario store, the zerolog logger and the Sentry monitor. These packages
// should depend only on the interfaces defined in the core packages.
package infra
