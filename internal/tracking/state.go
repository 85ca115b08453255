package tracking

import "time"

func (s *Session) checkState(op string, allowed ...State) error {
	for _, a := range allowed {
		if s.State == a {
			return nil
		}
	}
	return &StateError{Op: op, Current: s.State, Required: allowed}
}

// CanTrack reports whether samples may be appended. Paused sessions still
// accept samples; only time accounting ignores the pause.
func (s *Session) CanTrack() error {
	return s.checkState("track", StateInProgress, StatePaused)
}

func (s *Session) Pause(now time.Time) error {
	if err := s.checkState("pause", StateInProgress); err != nil {
		return err
	}
	s.PauseHistory = s.PauseHistory.Begin(now)
	s.State = StatePaused
	return nil
}

func (s *Session) Resume(now time.Time) error {
	if err := s.checkState("resume", StatePaused); err != nil {
		return err
	}
	if seconds, ok := s.PauseHistory.End(now); ok {
		s.TotalPausedDuration += seconds
	}
	s.State = StateInProgress
	return nil
}

// Complete finishes the session at now and stores the metrics computed from
// samples. A pause still open at completion is closed at now.
func (s *Session) Complete(now time.Time, samples []GpsSample) (Metrics, error) {
	if err := s.checkState("complete", StateInProgress, StatePaused); err != nil {
		return Metrics{}, err
	}
	if seconds, ok := s.PauseHistory.End(now); ok {
		s.TotalPausedDuration += seconds
	}

	end := now
	s.EndTime = &end
	s.State = StateCompleted

	m := ComputeMetrics(s.StartTime, end, s.TotalPausedDuration, samples)
	s.MovingTimeSeconds = &m.MovingTimeSeconds
	s.TotalDistanceMeters = &m.TotalDistanceMeters
	s.AveragePaceMinPerKm = &m.AveragePaceMinPerKm
	s.Calories = &m.Calories
	return m, nil
}
