package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/db"

	"github.com/jackc/pgx/v5"
)

// Repository persists sessions and their GPS ledger.
type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) CreateSession(ctx context.Context, s *Session) error {
	history, err := json.Marshal(s.PauseHistory)
	if err != nil {
		return err
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO running_sessions (session_id, user_id, route_id, status, start_time, current_position, total_paused_duration, pause_history, version)
		VALUES ($1,$2,$3,$4,$5, ST_SetSRID(ST_MakePoint($6,$7), 4326)::geography, $8, $9, 0)
		RETURNING version
	`, s.ID, s.UserID, nullString(s.RouteID), string(s.State), s.StartTime, s.CurrentPosition.Lng, s.CurrentPosition.Lat, s.TotalPausedDuration, string(history))
	return row.Scan(&s.Version)
}

func (r *Repository) GetSession(ctx context.Context, id string) (Session, error) {
	row := r.db.QueryRow(ctx, `
		SELECT session_id, user_id, route_id, status, start_time, end_time,
		       COALESCE(ST_Y(current_position::geometry),0), COALESCE(ST_X(current_position::geometry),0),
		       total_paused_duration, pause_history, moving_time, actual_distance, average_pace, calories, version
		FROM running_sessions WHERE session_id=$1
	`, id)

	var (
		s       Session
		routeID *string
		status  string
		history []byte
	)
	err := row.Scan(&s.ID, &s.UserID, &routeID, &status, &s.StartTime, &s.EndTime,
		&s.CurrentPosition.Lat, &s.CurrentPosition.Lng,
		&s.TotalPausedDuration, &history, &s.MovingTimeSeconds, &s.TotalDistanceMeters, &s.AveragePaceMinPerKm, &s.Calories, &s.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}

	if routeID != nil {
		s.RouteID = *routeID
	}
	s.State = State(status)
	s.PauseHistory = PauseHistory{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &s.PauseHistory); err != nil {
			return Session{}, fmt.Errorf("decode pause history: %w", err)
		}
	}
	return s, nil
}

// SaveTransition writes the lifecycle fields of s if nobody else changed the
// row since it was read. A lost race returns ErrConflict.
func (r *Repository) SaveTransition(ctx context.Context, s *Session) error {
	history, err := json.Marshal(s.PauseHistory)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE running_sessions
		SET status=$3, end_time=$4, total_paused_duration=$5, pause_history=$6,
		    moving_time=$7, actual_distance=$8, average_pace=$9, calories=$10,
		    version=version+1, updated_at=NOW()
		WHERE session_id=$1 AND version=$2
	`, s.ID, s.Version, string(s.State), s.EndTime, s.TotalPausedDuration, string(history),
		s.MovingTimeSeconds, s.TotalDistanceMeters, s.AveragePaceMinPerKm, s.Calories)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	s.Version++
	return nil
}

// AppendSample stores a sample and moves the session's current position in
// one statement. It inserts nothing and returns pgx.ErrNoRows when the session
// is no longer trackable. Every sample bumps the session version, so a
// completion computed from an older ledger fails with ErrConflict.
func (r *Repository) AppendSample(ctx context.Context, p *GpsSample) error {
	row := r.db.QueryRow(ctx, `
		WITH active AS (
			UPDATE running_sessions
			SET current_position = ST_SetSRID(ST_MakePoint($2,$3), 4326)::geography,
			    version = version + 1, updated_at = NOW()
			WHERE session_id=$1 AND status IN ('in_progress','paused')
			RETURNING session_id
		)
		INSERT INTO gps_tracking_points (session_id, location, recorded_at, speed, altitude, accuracy)
		SELECT active.session_id, ST_SetSRID(ST_MakePoint($2,$3), 4326)::geography, $4, $5, $6, $7 FROM active
		RETURNING point_id
	`, p.SessionID, p.Lng, p.Lat, p.RecordedAt, p.Speed, p.Altitude, p.Accuracy)
	return row.Scan(&p.ID)
}

// Samples returns the ledger in recorded order, insertion order breaking ties.
func (r *Repository) Samples(ctx context.Context, sessionID string) ([]GpsSample, error) {
	rows, err := r.db.Query(ctx, `
		SELECT point_id, session_id, ST_Y(location::geometry), ST_X(location::geometry), recorded_at, speed, altitude, accuracy
		FROM gps_tracking_points WHERE session_id=$1
		ORDER BY recorded_at, point_id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := []GpsSample{}
	for rows.Next() {
		var p GpsSample
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Lat, &p.Lng, &p.RecordedAt, &p.Speed, &p.Altitude, &p.Accuracy); err != nil {
			return nil, err
		}
		samples = append(samples, p)
	}
	return samples, rows.Err()
}

func (r *Repository) CountCompleted(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM running_sessions WHERE user_id=$1 AND status='completed'
	`, userID).Scan(&total)
	return total, err
}

func (r *Repository) ListCompleted(ctx context.Context, userID string, limit, offset int) ([]SessionSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT session_id, start_time, end_time, COALESCE(actual_distance,0), COALESCE(average_pace,0), COALESCE(calories,0)
		FROM running_sessions
		WHERE user_id=$1 AND status='completed'
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []SessionSummary{}
	for rows.Next() {
		var it SessionSummary
		if err := rows.Scan(&it.SessionID, &it.StartTime, &it.EndTime, &it.TotalDistanceMeters, &it.AveragePaceMinPerKm, &it.Calories); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repository) Statistics(ctx context.Context, userID string) (Statistics, error) {
	var st Statistics
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(actual_distance),0), COALESCE(AVG(average_pace),0)
		FROM running_sessions WHERE user_id=$1 AND status='completed'
	`, userID).Scan(&st.TotalRuns, &st.TotalDistanceMeters, &st.AveragePaceMinPerKm)
	return st, err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nowUTC() time.Time { return time.Now().UTC() }
