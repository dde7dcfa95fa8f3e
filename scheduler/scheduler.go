// Package scheduler implements the background weather alert monitor.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"skywatch.app/metrics"
	"skywatch.app/service"
)

// DeviceCleaner is the slice of the notification service the monitor
// uses for its daily token sweep
type DeviceCleaner interface {
	CleanupStaleDevices() int
}

// AlertMonitor periodically evaluates every subscription and dispatches
// any produced alerts. One controlling flag governs the loop; Stop takes
// effect at the next iteration boundary, not preemptively.
type AlertMonitor struct {
	alerts   service.AlertServiceInterface
	devices  DeviceCleaner
	clock    clockwork.Clock
	interval time.Duration

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewAlertMonitor creates a monitor that checks all subscriptions on the
// given interval
func NewAlertMonitor(alerts service.AlertServiceInterface, devices DeviceCleaner, clock clockwork.Clock, interval time.Duration) *AlertMonitor {
	return &AlertMonitor{
		alerts:   alerts,
		devices:  devices,
		clock:    clock,
		interval: interval,
	}
}

// Running reports whether the monitor loop is active
func (m *AlertMonitor) Running() bool {
	return m.running.Load()
}

// Start launches the monitor loop and the daily device cleanup job.
// Calling Start on a running monitor is a no-op.
func (m *AlertMonitor) Start() {
	if !m.running.CompareAndSwap(false, true) {
		return
	}
	m.stopCh = make(chan struct{})

	slog.Info("Weather alert monitoring started", "interval", m.interval)

	m.wg.Add(2)
	go m.loop()
	go m.cleanupLoop()
}

// Stop signals the loop to exit. The current iteration finishes first.
func (m *AlertMonitor) Stop() {
	if !m.running.CompareAndSwap(true, false) {
		return
	}
	close(m.stopCh)
	m.wg.Wait()
	slog.Info("Weather alert monitoring stopped")
}

func (m *AlertMonitor) loop() {
	defer m.wg.Done()

	for {
		m.runCycle()

		select {
		case <-m.clock.After(m.interval):
		case <-m.stopCh:
			return
		}
	}
}

// runCycle checks every currently subscribed user. The snapshot is taken
// fresh each cycle; one user's failure never stops the others.
func (m *AlertMonitor) runCycle() {
	start := m.clock.Now()

	for _, userID := range m.alerts.SubscribedUserIDs() {
		m.checkUser(userID)
	}

	metrics.RecordMonitorCycle(m.clock.Since(start).Seconds())
}

func (m *AlertMonitor) checkUser(userID string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic during weather check", "user_id", userID, "panic", r)
			metrics.RecordMonitorCheckError()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m.alerts.CheckWeatherForUser(ctx, userID)
}

func (m *AlertMonitor) cleanupLoop() {
	defer m.wg.Done()

	for {
		select {
		case <-m.clock.After(24 * time.Hour):
			m.devices.CleanupStaleDevices()
		case <-m.stopCh:
			return
		}
	}
}
