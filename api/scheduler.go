/*
scheduler.go - Background schedule alert sweep

PURPOSE:
  Periodically runs the schedule detector over upcoming events and logs
  double bookings and coverage shortages, so they show up even when
  nobody opens the alerts page. The last report is kept for
  GET /api/schedule/alerts/last.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Reads one snapshot per sweep and never writes
  - Only events on or after today are checked

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the sweep is active (default: true)

USAGE:
  alerts := NewAlertScheduler(handler)
  alerts.Start()
  // ... later
  alerts.Stop()

SEE ALSO:
  - handlers.go: ScheduleAlerts endpoint (on-demand check)
  - schedule/detector.go: Detect
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/studio-engine/schedule"
	"github.com/warp/studio-engine/studio"
)

// AlertScheduler runs schedule.Detect on a ticker.
type AlertScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	lastMu     sync.RWMutex
	lastReport schedule.Report
	lastSnap   studio.Snapshot
	lastRun    time.Time
}

// NewAlertScheduler creates a sweep and attaches it to the handler.
func NewAlertScheduler(handler *Handler) *AlertScheduler {
	as := &AlertScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
	handler.Alerts = as
	return as
}

// Start begins the sweep.
func (as *AlertScheduler) Start() {
	as.mu.Lock()
	defer as.mu.Unlock()

	logger := as.Handler.Logger
	if !as.Enabled || as.CheckInterval <= 0 {
		logger.Info("alert sweep disabled")
		return
	}
	if as.ticker != nil {
		return
	}

	as.ticker = time.NewTicker(as.CheckInterval)
	as.stop = make(chan struct{})
	as.wg.Add(1)

	go as.run(as.ticker, as.stop)

	logger.Info("alert sweep started", "interval", as.CheckInterval)
}

// Stop stops the sweep and waits for an in-flight check to finish. A
// stopped sweep can be started again.
func (as *AlertScheduler) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.ticker != nil {
		as.ticker.Stop()
		close(as.stop)
		as.wg.Wait()
		as.ticker = nil
		as.Handler.Logger.Info("alert sweep stopped")
	}
}

func (as *AlertScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer as.wg.Done()

	// Run immediately on start
	as.check(context.Background())

	for {
		select {
		case <-ticker.C:
			as.check(context.Background())
		case <-stop:
			return
		}
	}
}

func (as *AlertScheduler) check(ctx context.Context) {
	h := as.Handler
	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		h.Logger.Error("alert sweep: snapshot failed", "error", err)
		return
	}

	today := h.today()
	report := schedule.Detect(schedule.Upcoming(snap.Events, today), snap.Assignments, snap.Staff, h.Coverage)

	for _, c := range report.Conflicts {
		h.Logger.Warn("double booking",
			"staff_id", c.StaffID, "date", c.Date, "events", len(c.EventIDs))
	}
	for _, s := range report.Shortages {
		h.Logger.Warn("coverage shortage",
			"event_id", s.EventID, "date", s.Date, "role", s.Role, "missing", s.Missing())
	}
	if report.Empty() {
		h.Logger.Debug("alert sweep: schedule clear", "from", today)
	}

	as.lastMu.Lock()
	as.lastReport = report
	as.lastSnap = snap
	as.lastRun = time.Now()
	as.lastMu.Unlock()
}

// RunNow triggers an immediate check (for testing/admin).
func (as *AlertScheduler) RunNow(ctx context.Context) {
	as.check(ctx)
}

// Last returns the most recent report, the snapshot it was computed from
// and when it ran. The time is zero before the first sweep.
func (as *AlertScheduler) Last() (schedule.Report, studio.Snapshot, time.Time) {
	as.lastMu.RLock()
	defer as.lastMu.RUnlock()
	return as.lastReport, as.lastSnap, as.lastRun
}

// NextRunTime returns when the next scheduled check will occur, or the zero
// time when the sweep is not running.
func (as *AlertScheduler) NextRunTime() time.Time {
	as.mu.Lock()
	running := as.ticker != nil
	as.mu.Unlock()
	if !running {
		return time.Time{}
	}

	as.lastMu.RLock()
	defer as.lastMu.RUnlock()
	if as.lastRun.IsZero() {
		return time.Now()
	}
	return as.lastRun.Add(as.CheckInterval)
}
