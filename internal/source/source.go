// Package source implements the telemetry producers that feed a dashboard:
// MQTT subscriptions and polled SNMP devices. Each source pushes partial
// snapshots onto a shared channel; the engine merges them into the
// dashboard's live telemetry tree.
package source

import (
	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/telemetry"
)

// Update is one partial telemetry reading. Snap is merged into the live
// tree under Prefix ("" merges at the root).
type Update struct {
	Prefix string
	Snap   telemetry.Snapshot
}

// Source is a telemetry producer. Run blocks until Stop is called, pushing
// updates onto the channel it was given. Stop is safe to call once.
type Source interface {
	Name() string
	Run(updates chan<- Update) error
	Stop()
}

// push delivers an update without blocking the producer. If the engine is
// behind, the reading is dropped; the next one supersedes it anyway.
func push(updates chan<- Update, u Update) bool {
	select {
	case updates <- u:
		return true
	default:
		return false
	}
}
