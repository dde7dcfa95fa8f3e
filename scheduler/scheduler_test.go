package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"skywatch.app/models"
	"skywatch.app/service"
)

// stubAlertService records which users were checked and when
type stubAlertService struct {
	mu      sync.Mutex
	users   []string
	checked []string
	panicOn string
}

func (s *stubAlertService) Subscribe(userID string, latitude, longitude float64, locationName string, opts service.SubscribeOptions) bool {
	return true
}

func (s *stubAlertService) Unsubscribe(userID string) bool { return true }

func (s *stubAlertService) UpdateSubscription(userID string, updates map[string]interface{}) bool {
	return true
}

func (s *stubAlertService) GetSubscription(userID string) *models.WeatherSubscription { return nil }

func (s *stubAlertService) CheckWeatherForUser(ctx context.Context, userID string) []models.Alert {
	s.mu.Lock()
	s.checked = append(s.checked, userID)
	panicOn := s.panicOn
	s.mu.Unlock()
	if userID == panicOn {
		panic("boom")
	}
	return nil
}

func (s *stubAlertService) SubscribedUserIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.users...)
}

func (s *stubAlertService) checkedUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.checked...)
}

var _ service.AlertServiceInterface = (*stubAlertService)(nil)

type stubDeviceCleaner struct {
	mu    sync.Mutex
	calls int
}

func (c *stubDeviceCleaner) CleanupStaleDevices() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 0
}

func (c *stubDeviceCleaner) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestAlertMonitor_ChecksEachSubscribedUser(t *testing.T) {
	alerts := &stubAlertService{users: []string{"user-1", "user-2"}}
	clock := clockwork.NewFakeClock()
	monitor := NewAlertMonitor(alerts, &stubDeviceCleaner{}, clock, 30*time.Minute)

	monitor.Start()
	defer monitor.Stop()

	// Both the monitor loop and the cleanup job are asleep once the
	// first cycle is done
	clock.BlockUntil(2)

	assert.ElementsMatch(t, []string{"user-1", "user-2"}, alerts.checkedUsers())
}

func TestAlertMonitor_RunsCyclePerTick(t *testing.T) {
	alerts := &stubAlertService{users: []string{"user-1"}}
	clock := clockwork.NewFakeClock()
	monitor := NewAlertMonitor(alerts, &stubDeviceCleaner{}, clock, 30*time.Minute)

	monitor.Start()
	defer monitor.Stop()

	clock.BlockUntil(2)
	assert.Len(t, alerts.checkedUsers(), 1)

	clock.Advance(30 * time.Minute)
	clock.BlockUntil(2)
	assert.Len(t, alerts.checkedUsers(), 2)

	clock.Advance(30 * time.Minute)
	clock.BlockUntil(2)
	assert.Len(t, alerts.checkedUsers(), 3)
}

func TestAlertMonitor_PanicInOneCheckDoesNotStopOthers(t *testing.T) {
	alerts := &stubAlertService{users: []string{"user-1", "user-2", "user-3"}, panicOn: "user-2"}
	clock := clockwork.NewFakeClock()
	monitor := NewAlertMonitor(alerts, &stubDeviceCleaner{}, clock, 30*time.Minute)

	monitor.Start()
	defer monitor.Stop()

	clock.BlockUntil(2)

	assert.Len(t, alerts.checkedUsers(), 3)
	assert.True(t, monitor.Running())
}

func TestAlertMonitor_StopHaltsLoop(t *testing.T) {
	alerts := &stubAlertService{users: []string{"user-1"}}
	clock := clockwork.NewFakeClock()
	monitor := NewAlertMonitor(alerts, &stubDeviceCleaner{}, clock, 30*time.Minute)

	monitor.Start()
	clock.BlockUntil(2)
	assert.True(t, monitor.Running())

	monitor.Stop()
	assert.False(t, monitor.Running())

	checksAtStop := len(alerts.checkedUsers())
	clock.Advance(2 * time.Hour)
	assert.Len(t, alerts.checkedUsers(), checksAtStop)
}

func TestAlertMonitor_StartIsIdempotent(t *testing.T) {
	alerts := &stubAlertService{}
	clock := clockwork.NewFakeClock()
	monitor := NewAlertMonitor(alerts, &stubDeviceCleaner{}, clock, 30*time.Minute)

	monitor.Start()
	monitor.Start()
	defer monitor.Stop()

	clock.BlockUntil(2)
	assert.True(t, monitor.Running())
}

func TestAlertMonitor_DailyDeviceCleanup(t *testing.T) {
	alerts := &stubAlertService{}
	cleaner := &stubDeviceCleaner{}
	clock := clockwork.NewFakeClock()
	monitor := NewAlertMonitor(alerts, cleaner, clock, 30*time.Minute)

	monitor.Start()
	defer monitor.Stop()

	clock.BlockUntil(2)
	assert.Equal(t, 0, cleaner.callCount())

	clock.Advance(24 * time.Hour)
	clock.BlockUntil(2)

	assert.Equal(t, 1, cleaner.callCount())
}
