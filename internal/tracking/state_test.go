package tracking

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2025, 5, 1, 6, 0, 0, 0, time.UTC)

func newSession() Session {
	return Session{ID: "s-1", UserID: "user-1", State: StateInProgress, StartTime: t0, PauseHistory: PauseHistory{}}
}

func TestPauseResumeCompleteTimeAccounting(t *testing.T) {
	s := newSession()
	if err := s.Pause(t0.Add(60 * time.Second)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if s.State != StatePaused || s.PauseHistory.Open() != 0 {
		t.Fatalf("expected open pause, got %+v", s)
	}
	if err := s.Resume(t0.Add(120 * time.Second)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if s.TotalPausedDuration != 60 {
		t.Fatalf("expected 60s paused, got %d", s.TotalPausedDuration)
	}

	m, err := s.Complete(t0.Add(180*time.Second), nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if m.MovingTimeSeconds != 120 || *s.MovingTimeSeconds != 120 {
		t.Fatalf("expected 120s moving, got %d", m.MovingTimeSeconds)
	}
	if s.State != StateCompleted || s.EndTime == nil || !s.EndTime.Equal(t0.Add(180*time.Second)) {
		t.Fatalf("expected completed with end time, got %+v", s)
	}
}

func TestDoubleResumeFails(t *testing.T) {
	s := newSession()
	_ = s.Pause(t0.Add(time.Second))
	if err := s.Resume(t0.Add(2 * time.Second)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	err := s.Resume(t0.Add(3 * time.Second))
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	var se *StateError
	if !errors.As(err, &se) || se.Current != StateInProgress || se.Required[0] != StatePaused {
		t.Fatalf("unexpected state error: %v", err)
	}
	if s.TotalPausedDuration != 1 {
		t.Fatalf("failed resume must not change paused total, got %d", s.TotalPausedDuration)
	}
}

func TestPauseRequiresInProgress(t *testing.T) {
	s := newSession()
	_ = s.Pause(t0)
	if err := s.Pause(t0.Add(time.Second)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if len(s.PauseHistory) != 1 {
		t.Fatalf("expected one interval, got %d", len(s.PauseHistory))
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	s := newSession()
	if _, err := s.Complete(t0.Add(time.Minute), nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := s.Complete(t0.Add(2*time.Minute), nil); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state on second complete, got %v", err)
	}
	if err := s.Pause(t0.Add(2 * time.Minute)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state on pause, got %v", err)
	}
	if err := s.CanTrack(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected track rejected, got %v", err)
	}
	if err := s.CanTrack(); err.Error() != "cannot track session in state completed: session must be in_progress or paused" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestCompleteWhilePausedClosesInterval(t *testing.T) {
	s := newSession()
	_ = s.Pause(t0.Add(100 * time.Second))
	if err := s.CanTrack(); err != nil {
		t.Fatalf("paused session should accept samples: %v", err)
	}
	m, err := s.Complete(t0.Add(130*time.Second), nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if s.PauseHistory.Open() != -1 {
		t.Fatalf("expected no open interval")
	}
	if s.TotalPausedDuration != 30 || m.MovingTimeSeconds != 100 {
		t.Fatalf("unexpected accounting: paused=%d moving=%d", s.TotalPausedDuration, m.MovingTimeSeconds)
	}
}

func TestPauseHistory(t *testing.T) {
	var h PauseHistory
	if _, ok := h.End(t0); ok {
		t.Fatalf("nothing to close")
	}
	h = h.Begin(t0)
	secs, ok := h.End(t0.Add(1500 * time.Millisecond))
	if !ok || secs != 2 {
		t.Fatalf("expected rounded 2s, got %d %v", secs, ok)
	}
	h = h.Begin(t0.Add(10 * time.Second))
	if h.Open() != 1 {
		t.Fatalf("expected open at 1, got %d", h.Open())
	}
	secs, _ = h.End(t0.Add(15 * time.Second))
	if secs != 5 || h.Open() != -1 {
		t.Fatalf("expected 5s and nothing open, got %d", secs)
	}
}
