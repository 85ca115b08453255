package route

import (
	"context"
	"errors"

	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/db"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("route not found")

// Service reads planned routes and their turn-by-turn points.
type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) GetRoute(ctx context.Context, id string) (Route, error) {
	row := s.db.QueryRow(ctx, `
		SELECT route_id, name, total_distance
		FROM routes WHERE route_id=$1
	`, id)
	var r Route
	if err := row.Scan(&r.ID, &r.Name, &r.TotalDistanceM); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Route{}, ErrNotFound
		}
		return Route{}, err
	}

	points, err := s.GuidancePoints(ctx, id)
	if err != nil {
		return Route{}, err
	}
	r.TurnPoints = points
	return r, nil
}

// PlannedDistance returns the route's target distance in meters. ok is false
// when the route is unknown or carries no positive distance.
func (s *Service) PlannedDistance(ctx context.Context, id string) (float64, bool, error) {
	var planned *float64
	err := s.db.QueryRow(ctx, `SELECT total_distance FROM routes WHERE route_id=$1`, id).Scan(&planned)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if planned == nil || *planned <= 0 {
		return 0, false, nil
	}
	return *planned, true, nil
}

// RouteGuidance is GuidancePoints for a route that must exist.
func (s *Service) RouteGuidance(ctx context.Context, id string) ([]TurnPoint, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM routes WHERE route_id=$1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return s.GuidancePoints(ctx, id)
}

func (s *Service) GuidancePoints(ctx context.Context, id string) ([]TurnPoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT sequence, ST_Y(location::geometry), ST_X(location::geometry), direction, angle,
		       COALESCE(distance_from_start,0)::float8, COALESCE(distance_to_next,0)::float8, guidance_id, trigger_distance
		FROM turn_points WHERE route_id=$1
		ORDER BY sequence
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []TurnPoint{}
	for rows.Next() {
		var p TurnPoint
		if err := rows.Scan(&p.Sequence, &p.Lat, &p.Lng, &p.Direction, &p.Angle, &p.DistanceFromStart, &p.DistanceToNext, &p.GuidanceID, &p.TriggerDistance); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
