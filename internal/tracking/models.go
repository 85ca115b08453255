package tracking

import "time"

type State string

const (
	StateInProgress State = "in_progress"
	StatePaused     State = "paused"
	StateCompleted  State = "completed"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PauseInterval struct {
	PauseAt  time.Time  `json:"pause_at"`
	ResumeAt *time.Time `json:"resume_at,omitempty"`
}

// Session is one tracked run. Metric pointers stay nil until completion.
type Session struct {
	ID                  string       `json:"session_id"`
	UserID              string       `json:"user_id"`
	RouteID             string       `json:"route_id,omitempty"`
	State               State        `json:"state"`
	StartTime           time.Time    `json:"start_time"`
	EndTime             *time.Time   `json:"end_time,omitempty"`
	CurrentPosition     Coordinate   `json:"current_position"`
	TotalPausedDuration int64        `json:"total_paused_duration"`
	PauseHistory        PauseHistory `json:"pause_history"`
	MovingTimeSeconds   *int64       `json:"moving_time_seconds,omitempty"`
	TotalDistanceMeters *float64     `json:"total_distance_meters,omitempty"`
	AveragePaceMinPerKm *float64     `json:"average_pace_min_per_km,omitempty"`
	Calories            *int         `json:"calories,omitempty"`
	Version             int          `json:"-"`
}

type GpsSample struct {
	ID         int64     `json:"-"`
	SessionID  string    `json:"-"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Speed      *float64  `json:"speed"`
	Altitude   *float64  `json:"altitude"`
	Accuracy   *float64  `json:"accuracy"`
	RecordedAt time.Time `json:"recorded_at"`
}

type StartSessionRequest struct {
	UserID   string  `json:"user_id"`
	RouteID  string  `json:"route_id"`
	StartLat float64 `json:"start_lat"`
	StartLng float64 `json:"start_lng"`
}

type GuidancePoint struct {
	Sequence          int      `json:"sequence"`
	Lat               float64  `json:"lat"`
	Lng               float64  `json:"lng"`
	Direction         string   `json:"direction"`
	Angle             *float64 `json:"angle,omitempty"`
	DistanceFromStart float64  `json:"distance_from_start"`
	DistanceToNext    float64  `json:"distance_to_next"`
	GuidanceID        string   `json:"guidance_id"`
	GuidanceText      string   `json:"guidance_text"`
	TTSURL            string   `json:"tts_url"`
	TriggerDistance   float64  `json:"trigger_distance"`
}

type StartSessionResponse struct {
	SessionID      string          `json:"session_id"`
	State          State           `json:"state"`
	StartTime      time.Time       `json:"start_time"`
	GuidancePoints []GuidancePoint `json:"guidance_points"`
}

type TrackRequest struct {
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	Speed      *float64   `json:"speed"`
	Altitude   *float64   `json:"altitude"`
	Accuracy   *float64   `json:"accuracy"`
	RecordedAt *time.Time `json:"recorded_at"`
}

type CompleteSessionResponse struct {
	SessionID             string    `json:"session_id"`
	StartTime             time.Time `json:"start_time"`
	EndTime               time.Time `json:"end_time"`
	TotalDistanceMeters   float64   `json:"total_distance_meters"`
	AveragePaceMinPerKm   float64   `json:"average_pace_min_per_km"`
	Calories              int       `json:"calories"`
	CompletionRatePercent float64   `json:"completion_rate_percent"`
}

type SessionSummary struct {
	SessionID           string     `json:"session_id"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             *time.Time `json:"end_time"`
	TotalDistanceMeters float64    `json:"total_distance_meters"`
	AveragePaceMinPerKm float64    `json:"average_pace_min_per_km"`
	Calories            int        `json:"calories"`
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

type Statistics struct {
	TotalRuns           int64   `json:"total_runs"`
	TotalDistanceMeters float64 `json:"total_distance_meters"`
	AveragePaceMinPerKm float64 `json:"average_pace_min_per_km"`
}

type Split struct {
	Index           int     `json:"index"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds int64   `json:"duration_seconds"`
	PaceMinPerKm    float64 `json:"pace_min_per_km"`
	Calories        int     `json:"calories"`
}

type Analysis struct {
	SessionID           string  `json:"session_id"`
	TotalDistanceMeters float64 `json:"total_distance_meters"`
	AveragePaceMinPerKm float64 `json:"average_pace_min_per_km"`
	MaxSpeed            float64 `json:"max_speed"`
	AvgSpeed            float64 `json:"avg_speed"`
	TotalCalories       int     `json:"total_calories"`
	Splits              []Split `json:"splits"`
}

// Event is pushed to live stream watchers of a session.
type Event struct {
	Type      string     `json:"type"`
	SessionID string     `json:"session_id"`
	State     State      `json:"state,omitempty"`
	Sample    *GpsSample `json:"sample,omitempty"`
	At        time.Time  `json:"at"`
}
