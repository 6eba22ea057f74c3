// Package data provides the thread-safe holder for the reference
// snapshot. A reload builds a complete new snapshot elsewhere and swaps
// it in with a single atomic store, so readers in flight always see
// either the fully-old or fully-new table set.
package data

import (
	"sync/atomic"
	"time"

	"github.com/rxguard/rxguard-api/interfaces"
	"github.com/rxguard/rxguard-api/logging"
	"github.com/rxguard/rxguard-api/refdata"
)

// Compile-time check to ensure DataContainer implements SnapshotStore
var _ interfaces.SnapshotStore = (*DataContainer)(nil)

// DataContainer holds the current snapshot behind an atomic pointer.
type DataContainer struct {
	snapshot        atomic.Value // *refdata.Snapshot
	lastLoaded      atomic.Value // time.Time
	reloading       atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container holding an empty snapshot.
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.snapshot.Store(refdata.EmptySnapshot())
	dc.lastLoaded.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// GetSnapshot returns the current snapshot. Never nil.
func (dc *DataContainer) GetSnapshot() *refdata.Snapshot {
	if v := dc.snapshot.Load(); v != nil {
		if snapshot, ok := v.(*refdata.Snapshot); ok {
			return snapshot
		}
	}

	logging.Warn("Snapshot is missing or invalid, serving empty tables")
	return refdata.EmptySnapshot()
}

// GetLastLoaded returns the timestamp of the last successful load.
func (dc *DataContainer) GetLastLoaded() time.Time {
	if v := dc.lastLoaded.Load(); v != nil {
		if lastLoaded, ok := v.(time.Time); ok {
			return lastLoaded
		}
	}

	logging.Warn("Could not get the last loaded value")
	return time.Time{}
}

// IsReloading reports whether a reference-data reload is in progress.
func (dc *DataContainer) IsReloading() bool {
	return dc.reloading.Load()
}

// SetServerStartTime records the process start time.
func (dc *DataContainer) SetServerStartTime(start time.Time) {
	dc.serverStartTime.Store(start)
}

// GetServerStartTime returns the process start time.
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if start, ok := v.(time.Time); ok {
			return start
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateSnapshot atomically replaces the current snapshot.
func (dc *DataContainer) UpdateSnapshot(snapshot *refdata.Snapshot) {
	if snapshot == nil {
		logging.Warn("Refusing to store a nil snapshot")
		return
	}
	dc.snapshot.Store(snapshot)
	dc.lastLoaded.Store(time.Now())
}

// BeginReload marks the start of a reload operation.
// Returns false if another reload is already in progress.
func (dc *DataContainer) BeginReload() bool {
	return dc.reloading.CompareAndSwap(false, true)
}

// EndReload marks the end of a reload operation.
func (dc *DataContainer) EndReload() {
	dc.reloading.Store(false)
}
