package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"escrowdesk/api"
)

type fakeChecker struct {
	status api.HealthStatus
	err    error
	calls  int
}

func (f *fakeChecker) CheckHealth(ctx context.Context) (api.HealthStatus, error) {
	f.calls++
	if f.err != nil {
		return api.HealthStatus{}, f.err
	}
	return f.status, nil
}

func TestMonitor_Check(t *testing.T) {
	checker := &fakeChecker{status: api.HealthStatus{Status: "ok"}}
	monitor := NewMonitor(checker, time.Second)

	if monitor.Status() != StatusUnknown {
		t.Fatalf("expected unknown before first probe, got %s", monitor.Status())
	}

	if got := monitor.Check(context.Background()); got != StatusOnline {
		t.Fatalf("expected online, got %s", got)
	}

	checker.status = api.HealthStatus{Status: "maintenance"}
	if got := monitor.Check(context.Background()); got != StatusDegraded {
		t.Fatalf("expected degraded, got %s", got)
	}

	checker.err = errors.New("connection refused")
	if got := monitor.Check(context.Background()); got != StatusOffline {
		t.Fatalf("expected offline, got %s", got)
	}
}

func TestMonitor_CancelledContextLeavesStatus(t *testing.T) {
	checker := &fakeChecker{status: api.HealthStatus{Status: "ok"}}
	monitor := NewMonitor(checker, time.Second)
	monitor.Check(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker.err = errors.New("boom")
	if got := monitor.Check(ctx); got != StatusOnline {
		t.Fatalf("late probe must not change status, got %s", got)
	}
	if monitor.Status() != StatusOnline {
		t.Fatalf("expected status kept, got %s", monitor.Status())
	}
}

func TestMonitor_OnChangeFiresOnTransitionsOnly(t *testing.T) {
	checker := &fakeChecker{status: api.HealthStatus{Status: "ok"}}

	var transitions []StatusValue
	monitor := NewMonitor(checker, time.Second).WithOnChange(func(s StatusValue) {
		transitions = append(transitions, s)
	})

	monitor.Check(context.Background())
	monitor.Check(context.Background()) // same result, no callback
	checker.err = errors.New("down")
	monitor.Check(context.Background())

	want := []StatusValue{StatusOnline, StatusOffline}
	if len(transitions) != len(want) {
		t.Fatalf("expected %v, got %v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, transitions)
		}
	}
}

func TestMonitor_StartChecksImmediatelyAndStopsOnCancel(t *testing.T) {
	checker := &fakeChecker{status: api.HealthStatus{Status: "ok"}}
	monitor := NewMonitor(checker, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := monitor.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if checker.calls != 1 {
		t.Fatalf("expected one immediate probe, got %d", checker.calls)
	}
	if monitor.Status() != StatusOnline {
		t.Fatalf("expected online after start, got %s", monitor.Status())
	}

	if err := monitor.Start(ctx); err == nil {
		t.Fatal("expected error on double start")
	}
}
