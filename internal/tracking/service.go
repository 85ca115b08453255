package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/db"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/guidance"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/logging"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/route"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/shared/geo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	defaultCollaboratorTimeout = 2 * time.Second
	maxPageSize                = 100
)

// RouteCatalog supplies planned routes. It is read-only for tracking.
type RouteCatalog interface {
	PlannedDistance(ctx context.Context, routeID string) (float64, bool, error)
	GuidancePoints(ctx context.Context, routeID string) ([]route.TurnPoint, error)
}

type GuidanceLookup interface {
	TextAndAudio(ctx context.Context, guidanceID string) (guidance.Guidance, error)
}

type Broadcaster interface {
	Broadcast(sessionID string, payload []byte)
}

type Service struct {
	repo     *Repository
	routes   RouteCatalog
	guidance GuidanceLookup
	hub      Broadcaster
	logger   *zap.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewService wires the session engine. routes, lookup and hub may be nil.
func NewService(q db.Querier, hub Broadcaster, routes RouteCatalog, lookup GuidanceLookup, logger *zap.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultCollaboratorTimeout
	}
	return &Service{
		repo:     NewRepository(q),
		routes:   routes,
		guidance: lookup,
		hub:      hub,
		logger:   logging.OrNop(logger),
		timeout:  timeout,
		now:      nowUTC,
	}
}

func (s *Service) StartSession(ctx context.Context, req StartSessionRequest) (StartSessionResponse, error) {
	if req.UserID == "" {
		return StartSessionResponse{}, &ValidationError{Field: "user_id", Reason: "required"}
	}
	if !geo.ValidCoordinate(req.StartLat, req.StartLng) {
		return StartSessionResponse{}, &ValidationError{Field: "start_lat/start_lng", Reason: "coordinate out of range"}
	}

	session := Session{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		RouteID:         req.RouteID,
		State:           StateInProgress,
		StartTime:       s.now(),
		CurrentPosition: Coordinate{Lat: req.StartLat, Lng: req.StartLng},
		PauseHistory:    PauseHistory{},
	}
	if err := s.repo.CreateSession(ctx, &session); err != nil {
		return StartSessionResponse{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", session.UserID),
		zap.String("route_id", session.RouteID))
	s.publish(Event{Type: "state", SessionID: session.ID, State: session.State, At: session.StartTime})

	return StartSessionResponse{
		SessionID:      session.ID,
		State:          session.State,
		StartTime:      session.StartTime,
		GuidancePoints: s.guidancePoints(ctx, session.RouteID),
	}, nil
}

func (s *Service) TrackSample(ctx context.Context, sessionID string, req TrackRequest) error {
	if err := validateSample(req); err != nil {
		return err
	}

	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := session.CanTrack(); err != nil {
		return err
	}

	sample := GpsSample{
		SessionID:  sessionID,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Speed:      req.Speed,
		Altitude:   req.Altitude,
		Accuracy:   req.Accuracy,
		RecordedAt: s.now(),
	}
	if req.RecordedAt != nil && !req.RecordedAt.IsZero() {
		sample.RecordedAt = req.RecordedAt.UTC()
	}

	if err := s.repo.AppendSample(ctx, &sample); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// completed between the read and the insert
			return &StateError{Op: "track", Current: StateCompleted, Required: []State{StateInProgress, StatePaused}}
		}
		return fmt.Errorf("append sample: %w", err)
	}

	s.publish(Event{Type: "sample", SessionID: sessionID, Sample: &sample, At: sample.RecordedAt})
	return nil
}

func (s *Service) PauseSession(ctx context.Context, sessionID string) error {
	return s.transition(ctx, sessionID, "paused", func(session *Session, now time.Time) error {
		return session.Pause(now)
	})
}

func (s *Service) ResumeSession(ctx context.Context, sessionID string) error {
	return s.transition(ctx, sessionID, "resumed", func(session *Session, now time.Time) error {
		return session.Resume(now)
	})
}

func (s *Service) transition(ctx context.Context, sessionID, verb string, apply func(*Session, time.Time) error) error {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	now := s.now()
	if err := apply(&session, now); err != nil {
		return err
	}
	if err := s.repo.SaveTransition(ctx, &session); err != nil {
		return err
	}

	s.logger.Info("session "+verb,
		zap.String("session_id", sessionID),
		zap.Int64("total_paused_duration", session.TotalPausedDuration))
	s.publish(Event{Type: "state", SessionID: sessionID, State: session.State, At: now})
	return nil
}

func (s *Service) CompleteSession(ctx context.Context, sessionID string) (CompleteSessionResponse, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return CompleteSessionResponse{}, err
	}
	if err := session.checkState("complete", StateInProgress, StatePaused); err != nil {
		return CompleteSessionResponse{}, err
	}

	samples, err := s.repo.Samples(ctx, sessionID)
	if err != nil {
		return CompleteSessionResponse{}, fmt.Errorf("load samples: %w", err)
	}

	now := s.now()
	metrics, err := session.Complete(now, samples)
	if err != nil {
		return CompleteSessionResponse{}, err
	}
	if err := s.repo.SaveTransition(ctx, &session); err != nil {
		return CompleteSessionResponse{}, err
	}

	if metrics.MovingTimeSeconds < 0 {
		s.logger.Warn("negative moving time",
			zap.String("session_id", sessionID),
			zap.Int64("moving_time_seconds", metrics.MovingTimeSeconds))
	}
	s.logger.Info("session completed",
		zap.String("session_id", sessionID),
		zap.Int("samples", len(samples)),
		zap.Float64("distance_m", metrics.TotalDistanceMeters))
	s.publish(Event{Type: "state", SessionID: sessionID, State: session.State, At: now})

	return CompleteSessionResponse{
		SessionID:             session.ID,
		StartTime:             session.StartTime,
		EndTime:               now,
		TotalDistanceMeters:   metrics.TotalDistanceMeters,
		AveragePaceMinPerKm:   metrics.AveragePaceMinPerKm,
		Calories:              metrics.Calories,
		CompletionRatePercent: s.completionRate(ctx, session.RouteID, metrics.TotalDistanceMeters),
	}, nil
}

func (s *Service) GetSessionDetail(ctx context.Context, sessionID string) (Session, error) {
	return s.repo.GetSession(ctx, sessionID)
}

func (s *Service) ListGpsPoints(ctx context.Context, sessionID string) ([]GpsSample, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.Samples(ctx, sessionID)
}

func (s *Service) ListCompletedSessions(ctx context.Context, userID string, page, size int) (Page[SessionSummary], error) {
	if userID == "" {
		return Page[SessionSummary]{}, &ValidationError{Field: "user_id", Reason: "required"}
	}
	if page < 0 {
		return Page[SessionSummary]{}, &ValidationError{Field: "page", Reason: "must be >= 0"}
	}
	if size < 1 || size > maxPageSize {
		return Page[SessionSummary]{}, &ValidationError{Field: "size", Reason: fmt.Sprintf("must be between 1 and %d", maxPageSize)}
	}

	total, err := s.repo.CountCompleted(ctx, userID)
	if err != nil {
		return Page[SessionSummary]{}, err
	}
	items, err := s.repo.ListCompleted(ctx, userID, size, page*size)
	if err != nil {
		return Page[SessionSummary]{}, err
	}
	return Page[SessionSummary]{
		Content:       items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    int(math.Ceil(float64(total) / float64(size))),
	}, nil
}

func (s *Service) GetUserStatistics(ctx context.Context, userID string) (Statistics, error) {
	if userID == "" {
		return Statistics{}, &ValidationError{Field: "user_id", Reason: "required"}
	}
	return s.repo.Statistics(ctx, userID)
}

// AnalyzeSession recomputes splits from the ledger on every call.
func (s *Service) AnalyzeSession(ctx context.Context, sessionID string) (Analysis, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return Analysis{}, err
	}
	samples, err := s.repo.Samples(ctx, sessionID)
	if err != nil {
		return Analysis{}, fmt.Errorf("load samples: %w", err)
	}

	analysis := Analyze(samples)
	analysis.SessionID = session.ID
	if session.AveragePaceMinPerKm != nil {
		analysis.AveragePaceMinPerKm = *session.AveragePaceMinPerKm
	}
	return analysis, nil
}

func (s *Service) guidancePoints(ctx context.Context, routeID string) []GuidancePoint {
	points := []GuidancePoint{}
	if routeID == "" || s.routes == nil {
		return points
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	turns, err := s.routes.GuidancePoints(ctx, routeID)
	if err != nil {
		s.logger.Warn("guidance points unavailable",
			zap.String("route_id", routeID),
			zap.Error(fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)))
		return points
	}

	for _, t := range turns {
		gp := GuidancePoint{
			Sequence:          t.Sequence,
			Lat:               t.Lat,
			Lng:               t.Lng,
			Direction:         t.Direction,
			Angle:             t.Angle,
			DistanceFromStart: t.DistanceFromStart,
			DistanceToNext:    t.DistanceToNext,
			GuidanceID:        t.GuidanceID,
			TriggerDistance:   t.TriggerDistance,
		}
		if s.guidance != nil {
			g, err := s.guidance.TextAndAudio(ctx, t.GuidanceID)
			if err != nil {
				s.logger.Warn("guidance lookup failed",
					zap.String("guidance_id", t.GuidanceID),
					zap.Error(err))
			} else {
				gp.GuidanceText = g.Text
				gp.TTSURL = g.AudioURL
			}
		}
		points = append(points, gp)
	}
	return points
}

func (s *Service) completionRate(ctx context.Context, routeID string, meters float64) float64 {
	if routeID == "" || s.routes == nil {
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	planned, ok, err := s.routes.PlannedDistance(ctx, routeID)
	if err != nil {
		s.logger.Warn("planned distance unavailable",
			zap.String("route_id", routeID),
			zap.Error(fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)))
		return 0
	}
	if !ok {
		return 0
	}
	return CompletionRate(meters, planned)
}

func (s *Service) publish(ev Event) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Warn("encode stream event", zap.Error(err))
		return
	}
	s.hub.Broadcast(ev.SessionID, payload)
}

func validateSample(req TrackRequest) error {
	if !geo.ValidCoordinate(req.Lat, req.Lng) {
		return &ValidationError{Field: "lat/lng", Reason: "coordinate out of range"}
	}
	if req.Speed != nil && *req.Speed < 0 {
		return &ValidationError{Field: "speed", Reason: "must be >= 0"}
	}
	if req.Accuracy != nil && *req.Accuracy < 0 {
		return &ValidationError{Field: "accuracy", Reason: "must be >= 0"}
	}
	return nil
}
