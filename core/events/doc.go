// Package events defines the progress events a calculation publishes on the
// event bus.
//
// Available event types:
//   - PhaseEvent: a calculation entered a new phase
package events
