package trending

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/models"
	"github.com/audily-music-platform/pkg/redis"
)

const (
	songLimit   = 10
	artistLimit = 5
	cacheTTL    = 2 * time.Minute
)

type Service struct {
	db     *database.Store
	cache  *redis.Cache
	logger zerolog.Logger

	now func() time.Time
}

func NewService(db *database.Store, cache *redis.Cache, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		cache:  cache,
		logger: logger.With().Str("component", "trending").Logger(),
		now:    time.Now,
	}
}

// Songs returns the daily chart for date ("2006-01-02"). An empty date
// means today. Results are cached briefly since the chart changes with
// every play.
func (s *Service) Songs(ctx context.Context, date string) ([]models.TrendingSong, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("trending:songs:%s", date)
	var cached []models.TrendingSong
	if s.cache != nil {
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	songs, err := s.db.TrendingSongs(date, songLimit)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, songs)
	return songs, nil
}

func (s *Service) Artists(ctx context.Context, date string) ([]models.TrendingArtist, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("trending:artists:%s", date)
	var cached []models.TrendingArtist
	if s.cache != nil {
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	artists, err := s.db.TrendingArtists(date, artistLimit)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, artists)
	return artists, nil
}

func (s *Service) resolveDate(date string) (string, error) {
	if date == "" {
		return s.now().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", apperrors.Validation("date must be in YYYY-MM-DD format")
	}
	return date, nil
}

func (s *Service) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache trending chart")
	}
}
