package guidance

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/db"
	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/logging"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cachePrefix   = "guidance:"
	defaultTTL    = time.Hour
	defaultFile   = "default.mp3"
	audioPathPart = "/tts/"
)

// Service resolves guidance ids against guidance_templates, caching results
// in redis when a client is configured.
type Service struct {
	db      db.Querier
	cache   *redis.Client
	baseURL string
	ttl     time.Duration
	logger  *zap.Logger
}

func NewService(q db.Querier, cache *redis.Client, baseURL string, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{
		db:      q,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		logger:  logging.OrNop(logger),
	}
}

// TextAndAudio returns the text and audio url for id. Unknown ids resolve to
// empty text and the default clip.
func (s *Service) TextAndAudio(ctx context.Context, id string) (Guidance, error) {
	if g, ok := s.cached(ctx, id); ok {
		return g, nil
	}

	g := Guidance{ID: id}
	var filePath string
	err := s.db.QueryRow(ctx, `
		SELECT text, file_path FROM guidance_templates WHERE guidance_id=$1
	`, id).Scan(&g.Text, &filePath)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		s.logger.Warn("guidance id not found, using default", zap.String("guidance_id", id))
		g.AudioURL = s.audioURL(defaultFile)
	case err != nil:
		return Guidance{}, err
	default:
		g.AudioURL = s.audioURL(filePath)
	}

	s.store(ctx, g)
	return g, nil
}

func (s *Service) audioURL(file string) string {
	return s.baseURL + audioPathPart + file
}

func (s *Service) cached(ctx context.Context, id string) (Guidance, bool) {
	if s.cache == nil {
		return Guidance{}, false
	}
	raw, err := s.cache.Get(ctx, cachePrefix+id).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("guidance cache read failed", zap.String("guidance_id", id), zap.Error(err))
		}
		return Guidance{}, false
	}
	var g Guidance
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return Guidance{}, false
	}
	return g, true
}

func (s *Service) store(ctx context.Context, g Guidance) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(g)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cachePrefix+g.ID, data, s.ttl).Err(); err != nil {
		s.logger.Warn("guidance cache write failed", zap.String("guidance_id", g.ID), zap.Error(err))
	}
}
