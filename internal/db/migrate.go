package db

import "context"

const schema = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS routes (
    route_id text PRIMARY KEY,
    name text NOT NULL DEFAULT '',
    total_distance double precision,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS guidance_templates (
    guidance_id varchar(50) PRIMARY KEY,
    text varchar(500) NOT NULL,
    file_path varchar(200) NOT NULL,
    category varchar(50),
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS turn_points (
    turn_point_id bigserial PRIMARY KEY,
    route_id text NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
    sequence integer NOT NULL,
    location geography(Point, 4326) NOT NULL,
    direction varchar(20) NOT NULL,
    angle double precision,
    distance_from_start numeric(10,2),
    distance_to_next numeric(10,2),
    guidance_id varchar(50) NOT NULL,
    trigger_distance double precision NOT NULL DEFAULT 15,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS turn_points_route_seq_idx ON turn_points (route_id, sequence);

CREATE TABLE IF NOT EXISTS running_sessions (
    session_id text PRIMARY KEY,
    user_id text NOT NULL,
    route_id text,
    status varchar(20) NOT NULL DEFAULT 'in_progress',
    start_time timestamptz NOT NULL,
    end_time timestamptz,
    current_position geography(Point, 4326),
    total_paused_duration bigint NOT NULL DEFAULT 0,
    pause_history jsonb NOT NULL DEFAULT '[]'::jsonb,
    moving_time bigint,
    actual_distance double precision,
    average_pace double precision,
    calories integer,
    version integer NOT NULL DEFAULT 0,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT running_sessions_end_time_chk
        CHECK ((status = 'completed') = (end_time IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS running_sessions_user_status_idx
ON running_sessions (user_id, status, start_time DESC);

CREATE TABLE IF NOT EXISTS gps_tracking_points (
    point_id bigserial PRIMARY KEY,
    session_id text NOT NULL REFERENCES running_sessions(session_id),
    location geography(Point, 4326) NOT NULL,
    recorded_at timestamptz NOT NULL,
    speed double precision,
    altitude double precision,
    accuracy double precision,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS gps_tracking_points_session_idx
ON gps_tracking_points (session_id, recorded_at, point_id);
`

// Migrate creates the tables used by the service when they do not exist yet.
func Migrate(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schema)
	return err
}
