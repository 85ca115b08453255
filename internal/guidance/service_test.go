package guidance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
)

var errGuidance = errors.New("guidance db")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestTextAndAudioCachesInRedis(t *testing.T) {
	mock := newMock(t)
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rdb.Close()

	svc := NewService(mock, rdb, "http://cdn.local/", time.Minute, nil)

	mock.ExpectQuery(`SELECT text, file_path FROM guidance_templates`).
		WithArgs("g-left").
		WillReturnRows(pgxmock.NewRows([]string{"text", "file_path"}).AddRow("Turn left ahead", "left.mp3"))

	g, err := svc.TextAndAudio(context.Background(), "g-left")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if g.Text != "Turn left ahead" || g.AudioURL != "http://cdn.local/tts/left.mp3" {
		t.Fatalf("unexpected guidance %+v", g)
	}
	if !s.Exists("guidance:g-left") {
		t.Fatalf("expected cache entry")
	}
	if ttl := s.TTL("guidance:g-left"); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	// second call is served from cache, no query expected
	cached, err := svc.TextAndAudio(context.Background(), "g-left")
	if err != nil || cached != g {
		t.Fatalf("cached lookup: %v %+v", err, cached)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTextAndAudioUnknownID(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil, "http://localhost:8080", 0, nil)

	mock.ExpectQuery(`SELECT text, file_path FROM guidance_templates`).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"text", "file_path"}))

	g, err := svc.TextAndAudio(context.Background(), "nope")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if g.Text != "" || g.AudioURL != "http://localhost:8080/tts/default.mp3" {
		t.Fatalf("expected default guidance, got %+v", g)
	}
	if svc.ttl != defaultTTL {
		t.Fatalf("expected default ttl")
	}
}

func TestTextAndAudioErrors(t *testing.T) {
	mock := newMock(t)
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rdb.Close()
	svc := NewService(mock, rdb, "http://localhost:8080", time.Minute, nil)

	mock.ExpectQuery(`SELECT text, file_path FROM guidance_templates`).
		WithArgs("g-err").
		WillReturnError(errGuidance)
	if _, err := svc.TextAndAudio(context.Background(), "g-err"); !errors.Is(err, errGuidance) {
		t.Fatalf("expected db error, got %v", err)
	}
	if s.Exists("guidance:g-err") {
		t.Fatalf("errors must not be cached")
	}

	// a corrupt cache entry falls back to the store
	_ = s.Set("guidance:g-bad", "{")
	mock.ExpectQuery(`SELECT text, file_path FROM guidance_templates`).
		WithArgs("g-bad").
		WillReturnRows(pgxmock.NewRows([]string{"text", "file_path"}).AddRow("Go straight", "straight.mp3"))
	g, err := svc.TextAndAudio(context.Background(), "g-bad")
	if err != nil || g.Text != "Go straight" {
		t.Fatalf("expected store fallback: %v %+v", err, g)
	}

	// redis going away only degrades caching
	s.Close()
	mock.ExpectQuery(`SELECT text, file_path FROM guidance_templates`).
		WithArgs("g-down").
		WillReturnRows(pgxmock.NewRows([]string{"text", "file_path"}).AddRow("Turn right", "right.mp3"))
	if _, err := svc.TextAndAudio(context.Background(), "g-down"); err != nil {
		t.Fatalf("cache outage should not fail lookups: %v", err)
	}
}
