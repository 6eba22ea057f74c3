// Package interfaces defines the core abstractions of the prescription
// safety service so components can be wired and tested independently.
package interfaces

import (
	"time"

	"github.com/rxguard/rxguard-api/refdata"
)

// SnapshotStore provides thread-safe access to the current reference
// snapshot with atomic replacement for zero-downtime reloads.
type SnapshotStore interface {
	GetSnapshot() *refdata.Snapshot
	GetLastLoaded() time.Time
	IsReloading() bool
	GetServerStartTime() time.Time

	UpdateSnapshot(snapshot *refdata.Snapshot)
	SetServerStartTime(start time.Time)
	BeginReload() bool
	EndReload()
}

// Loader builds a fresh snapshot from the external reference data.
type Loader interface {
	LoadSnapshot() (*refdata.Snapshot, error)
}

// Scheduler manages the periodic reference-data reload.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker reports service health derived from snapshot state.
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)
	CalculateNextReload() time.Time
}

// InputValidator vets free-text user input before it reaches a lookup.
type InputValidator interface {
	ValidateInput(input string) error
}
