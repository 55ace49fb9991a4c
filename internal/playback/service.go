package playback

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/events"
	"github.com/audily-music-platform/pkg/models"
)

type Publisher interface {
	PublishEvent(ctx context.Context, eventType events.EventType, userID uint, payload interface{}) error
}

type Service struct {
	db     *database.Store
	events Publisher
	logger zerolog.Logger
	// now is swapped out in tests to pin the trend date.
	now func() time.Time
}

func NewService(db *database.Store, publisher Publisher, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		events: publisher,
		logger: logger.With().Str("service", "playback").Logger(),
		now:    time.Now,
	}
}

// Play records one play of a song for a user: all-time counter, daily
// trend entry and activity log move together in one transaction. The
// returned detail carries the post-increment play count and the file
// reference the client streams from.
func (s *Service) Play(ctx context.Context, songID, userID uint) (*models.SongDetail, error) {
	trendDate := s.now().Format("2006-01-02")
	if err := s.db.RecordPlay(songID, userID, trendDate); err != nil {
		return nil, err
	}

	detail, err := s.db.GetSongDetail(songID)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		payload := events.SongPlayedPayload{
			SongID:    detail.SongID,
			Title:     detail.Title,
			Artists:   detail.Artists,
			PlayCount: detail.PlayCount,
		}
		if err := s.events.PublishEvent(ctx, events.EventTypeSongPlayed, userID, payload); err != nil {
			s.logger.Warn().Err(err).Uint("song_id", songID).Msg("failed to publish play event")
		}
	}

	return detail, nil
}

func (s *Service) AddComment(songID, userID uint, text string) (*models.Comment, error) {
	if text == "" {
		return nil, apperrors.Validation("comment text is required")
	}
	if _, err := s.db.GetSongByID(songID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Text: text, UserID: userID, SongID: songID}
	if err := s.db.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) Comments(songID uint) ([]models.CommentView, error) {
	return s.db.ListComments(songID)
}

// Rate upserts the user's rating for a song. Values run 0.0 to 5.0 in
// half-point steps.
func (s *Service) Rate(songID, userID uint, value float64) error {
	if value < 0 || value > 5 {
		return apperrors.Validation("rating must be between 0.0 and 5.0")
	}
	if math.Mod(value*2, 1) != 0 {
		return apperrors.Validation("rating must be a multiple of 0.5")
	}
	if _, err := s.db.GetSongByID(songID); err != nil {
		return err
	}
	return s.db.UpsertRating(userID, songID, value)
}

func (s *Service) Rating(songID, userID uint) (*models.Rating, error) {
	return s.db.GetRating(userID, songID)
}
