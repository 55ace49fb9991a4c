package upload

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/events"
	"github.com/audily-music-platform/pkg/models"
	"github.com/audily-music-platform/pkg/storage"
)

type Publisher interface {
	PublishEvent(ctx context.Context, eventType events.EventType, userID uint, payload interface{}) error
}

type Service struct {
	db     *database.Store
	blobs  storage.BlobStore
	events Publisher
	logger zerolog.Logger
}

func NewService(db *database.Store, blobs storage.BlobStore, publisher Publisher, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		blobs:  blobs,
		events: publisher,
		logger: logger.With().Str("service", "upload").Logger(),
	}
}

type SongUpload struct {
	Title         string
	Duration      int // seconds
	Genre         string
	Audio         io.Reader
	AudioName     string
	ArtistID      uint   // existing artist, or
	NewArtistName string // name for a new artist row
}

// Upload ingests a song: blob first, then artist/song/link rows in one
// transaction. A failed transaction removes the stored blob again.
func (s *Service) Upload(ctx context.Context, userID uint, req SongUpload) (*models.Song, error) {
	if req.Title == "" {
		return nil, apperrors.Validation("song title is required")
	}
	if req.Audio == nil {
		return nil, apperrors.Validation("audio file is required")
	}
	if req.Duration < 1 {
		return nil, apperrors.Validation("duration must be at least 1 second")
	}
	if req.ArtistID == 0 && req.NewArtistName == "" {
		return nil, apperrors.Validation("an existing artist id or a new artist name is required")
	}

	key := "songs/" + uuid.New().String() + filepath.Ext(req.AudioName)
	ref, err := s.blobs.Put(ctx, key, req.Audio)
	if err != nil {
		return nil, apperrors.Storage("failed to store audio file", err)
	}

	song := &models.Song{
		Title:    req.Title,
		Duration: req.Duration,
		Genre:    req.Genre,
		FilePath: ref,
		UserID:   userID,
	}

	artistID, err := s.db.CreateSong(song, req.ArtistID, req.NewArtistName)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, ref); delErr != nil {
			s.logger.Warn().Err(delErr).Str("ref", ref).Msg("failed to clean up audio blob")
		}
		return nil, err
	}

	if s.events != nil {
		artistName := req.NewArtistName
		if artistName == "" {
			if artist, err := s.db.GetArtistByID(artistID); err == nil {
				artistName = artist.Name
			}
		}
		payload := events.SongUploadedPayload{SongID: song.ID, Title: song.Title, Artist: artistName}
		if err := s.events.PublishEvent(ctx, events.EventTypeSongUploaded, userID, payload); err != nil {
			s.logger.Warn().Err(err).Uint("song_id", song.ID).Msg("failed to publish upload event")
		}
	}

	return song, nil
}

// Open returns the audio blob for streaming to the client.
func (s *Service) Open(ctx context.Context, songID uint) (io.ReadCloser, error) {
	song, err := s.db.GetSongByID(songID)
	if err != nil {
		return nil, err
	}
	rc, err := s.blobs.Get(ctx, song.FilePath)
	if err != nil {
		return nil, apperrors.Storage("failed to open audio file", err)
	}
	return rc, nil
}
