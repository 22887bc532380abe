package scheduler

import (
	"os"
	"testing"

	"staff-directory/pkg/logger"
)

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "scheduler-logs")
	logger.Init(dir, false)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestValidateCronExpression(t *testing.T) {
	if err := ValidateCronExpression("*/15 * * * *"); err != nil {
		t.Errorf("valid expression rejected: %v", err)
	}
	if err := ValidateCronExpression("every now and then"); err == nil {
		t.Error("invalid expression accepted")
	}
}

func TestAddAndRemoveJob(t *testing.T) {
	s := NewEventScheduler()

	if err := s.AddJob("roster-refresh", "*/15 * * * *", func() {}); err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	if err := s.AddJob("roster-refresh", "*/5 * * * *", func() {}); err == nil {
		t.Fatal("duplicate job id accepted")
	}

	jobs := s.ListJobs()
	info, ok := jobs["roster-refresh"]
	if !ok {
		t.Fatalf("job missing from %v", jobs)
	}
	if info.CronExpr != "*/15 * * * *" || info.NextRun == nil || info.LastRun != nil {
		t.Errorf("unexpected job info %+v", info)
	}

	if err := s.RemoveJob("roster-refresh"); err != nil {
		t.Fatalf("RemoveJob: %v", err)
	}
	if err := s.RemoveJob("roster-refresh"); err == nil {
		t.Fatal("removing a missing job should fail")
	}
}

func TestStartStop(t *testing.T) {
	s := NewEventScheduler()
	if s.IsRunning() {
		t.Fatal("new scheduler should not be running")
	}
	s.Start()
	if !s.IsRunning() {
		t.Fatal("scheduler should be running after Start")
	}
	s.Stop()
	if s.IsRunning() {
		t.Fatal("scheduler should be stopped after Stop")
	}
}
