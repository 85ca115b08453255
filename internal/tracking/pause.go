package tracking

import "time"

// PauseHistory is the ordered pause ledger of a session.
type PauseHistory []PauseInterval

// Open returns the index of the most recent interval without a resume time, or -1.
func (h PauseHistory) Open() int {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].ResumeAt == nil {
			return i
		}
	}
	return -1
}

// Begin appends a new open interval starting at now.
func (h PauseHistory) Begin(now time.Time) PauseHistory {
	return append(h, PauseInterval{PauseAt: now})
}

// End closes the most recent open interval at now and returns its length in
// whole seconds. ok is false when nothing was open.
func (h PauseHistory) End(now time.Time) (seconds int64, ok bool) {
	idx := h.Open()
	if idx < 0 {
		return 0, false
	}
	resumeAt := now
	h[idx].ResumeAt = &resumeAt
	return intervalSeconds(h[idx].PauseAt, resumeAt), true
}

func intervalSeconds(from, to time.Time) int64 {
	return int64(to.Sub(from).Round(time.Second) / time.Second)
}
