// Package health derives service health from the state of the
// reference snapshot.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/rxguard/rxguard-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store    interfaces.SnapshotStore
	reloadAt string // HH:MM, daily reference reload time
}

var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// NewHealthChecker creates a health checker with injected dependencies
func NewHealthChecker(store interfaces.SnapshotStore, reloadAt string) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		store:    store,
		reloadAt: reloadAt,
	}
}

// HealthCheck returns the status served by the /health endpoint.
// An empty drug catalog means the engine cannot evaluate anything and
// the service is unhealthy; stale reference data only degrades it.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	snapshot := h.store.GetSnapshot()
	lastLoaded := h.store.GetLastLoaded()
	isReloading := h.store.IsReloading()

	dataAge := time.Since(lastLoaded)

	switch {
	case len(snapshot.Drugs) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 7*24*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_loaded":       lastLoaded.Format(time.RFC3339),
		"data_age_hours":    math.Round(dataAge.Hours()*10) / 10,
		"drugs":             len(snapshot.Drugs),
		"interactions":      len(snapshot.Interactions),
		"contraindications": len(snapshot.Contraindications),
		"critical_values":   len(snapshot.CriticalValues),
		"is_reloading":      isReloading,
		"next_reload":       h.CalculateNextReload().Format(time.RFC3339),
	}

	return status, data, httpStatus
}

// CalculateNextReload returns the next scheduled reference reload.
func (h *HealthCheckerImpl) CalculateNextReload() time.Time {
	now := time.Now()

	at, err := time.Parse("15:04", h.reloadAt)
	if err != nil {
		// Config validation keeps this from happening; fall back to
		// 06:00 rather than returning a zero time.
		at, _ = time.Parse("15:04", "06:00")
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
