// Package scheduler drives the periodic reference-data reload: a new
// snapshot is built off to the side and swapped into the container
// atomically, so in-flight checks never see a partial table set.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rxguard/rxguard-api/interfaces"
	"github.com/rxguard/rxguard-api/logging"
	"github.com/rxguard/rxguard-api/metrics"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles reference reloads and staleness monitoring using
// dependency injection.
type Scheduler struct {
	store     interfaces.SnapshotStore
	loader    interfaces.Loader
	reloadAt  string // HH:MM
	scheduler *gocron.Scheduler
	stopCh    chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(store interfaces.SnapshotStore, loader interfaces.Loader, reloadAt string) *Scheduler {
	return &Scheduler{
		store:     store,
		loader:    loader,
		reloadAt:  reloadAt,
		scheduler: gocron.NewScheduler(time.Local),
		stopCh:    make(chan struct{}),
	}
}

// Start performs the initial load and schedules the daily reload.
func (s *Scheduler) Start() error {
	if err := s.reload(); err != nil {
		logging.Error("Failed to perform initial reference load", "error", err)
		return fmt.Errorf("initial reference load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(s.reloadAt).Do(func() {
		if err := s.reload(); err != nil {
			logging.Error("Failed to reload reference data", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule reference reloads", "error", err)
		return fmt.Errorf("failed to schedule reference reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.scheduler.Stop()
}

// reload builds a fresh snapshot and swaps it in atomically.
func (s *Scheduler) reload() error {
	if !s.store.BeginReload() {
		logging.Info("Reference reload already in progress, skipping...")
		return nil
	}
	defer s.store.EndReload()

	logging.Info("Starting reference data reload")
	start := time.Now()

	snapshot, err := s.loader.LoadSnapshot()
	if err != nil {
		metrics.ReferenceReloadsTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("load reference snapshot: %w", err)
	}

	s.store.UpdateSnapshot(snapshot)
	metrics.ReferenceReloadsTotal.WithLabelValues("success").Inc()

	logging.Info("Reference data reload completed",
		"duration", time.Since(start).String(),
		"drugs", len(snapshot.Drugs),
		"interactions", len(snapshot.Interactions),
	)
	return nil
}

// startStalenessMonitoring warns when the snapshot has not been
// refreshed within a day of its scheduled reload.
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				lastLoaded := s.store.GetLastLoaded()
				if time.Since(lastLoaded) > 25*time.Hour {
					logging.Warn("Reference data hasn't been reloaded in over 25 hours",
						"last_loaded", lastLoaded.Format(time.RFC3339))
				}
			}
		}
	}()
}
