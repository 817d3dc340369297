// Package health polls the platform health endpoint on a fixed schedule and
// tracks the last observed status.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"escrowdesk/api"
)

// StatusValue is the client-side interpretation of the health endpoint.
type StatusValue string

const (
	StatusUnknown  StatusValue = "unknown"
	StatusOnline   StatusValue = "online"
	StatusDegraded StatusValue = "degraded"
	StatusOffline  StatusValue = "offline"
)

// Checker is the one API call the monitor needs.
type Checker interface {
	CheckHealth(ctx context.Context) (api.HealthStatus, error)
}

// Monitor performs the periodic health check. It shares no state with the
// rest of the client; cancelling the context passed to Start stops the
// schedule, and late results after cancellation are discarded.
type Monitor struct {
	checker  Checker
	interval time.Duration
	onChange func(StatusValue)

	mu     sync.Mutex
	status StatusValue
	cron   *cron.Cron
}

// NewMonitor creates a monitor polling at the given interval.
func NewMonitor(checker Checker, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
		status:   StatusUnknown,
	}
}

// WithOnChange registers a callback fired whenever the status value changes.
func (m *Monitor) WithOnChange(fn func(StatusValue)) *Monitor {
	m.onChange = fn
	return m
}

// Status returns the last observed status.
func (m *Monitor) Status() StatusValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Start checks once immediately, then on the schedule, until ctx is
// cancelled.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.cron != nil {
		m.mu.Unlock()
		return fmt.Errorf("health: monitor already started")
	}
	c := cron.New()
	m.cron = c
	m.mu.Unlock()

	m.Check(ctx)

	spec := fmt.Sprintf("@every %s", m.interval)
	if _, err := c.AddFunc(spec, func() { m.Check(ctx) }); err != nil {
		return fmt.Errorf("health: schedule check: %w", err)
	}
	c.Start()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return nil
}

// Check performs one health probe and records the result. A probe resolving
// after ctx is cancelled leaves the status untouched.
func (m *Monitor) Check(ctx context.Context) StatusValue {
	resp, err := m.checker.CheckHealth(ctx)

	next := StatusOnline
	switch {
	case err != nil:
		next = StatusOffline
	case resp.Status != "ok":
		next = StatusDegraded
	}

	if ctx.Err() != nil {
		return m.Status()
	}

	m.mu.Lock()
	changed := m.status != next
	m.status = next
	onChange := m.onChange
	m.mu.Unlock()

	if changed && onChange != nil {
		onChange(next)
	}
	return next
}
