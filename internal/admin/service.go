package admin

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/models"
	"github.com/audily-music-platform/pkg/storage"
)

const reportLimit = 20

type Service struct {
	db     *database.Store
	blobs  storage.BlobStore
	logger zerolog.Logger
}

func NewService(db *database.Store, blobs storage.BlobStore, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		blobs:  blobs,
		logger: logger.With().Str("component", "admin").Logger(),
	}
}

func (s *Service) ListUsers() ([]models.User, error) {
	return s.db.ListUsers()
}

type NewUser struct {
	Username         string
	Email            string
	Password         string
	SubscriptionType string
}

func (s *Service) AddUser(input NewUser) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.Validation("username, email and password are required")
	}
	switch input.SubscriptionType {
	case "":
		input.SubscriptionType = models.SubscriptionFree
	case models.SubscriptionFree, models.SubscriptionPremium, models.SubscriptionFamily:
	default:
		return nil, apperrors.Validation("unknown subscription type")
	}

	existing, err := s.db.GetUserByUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Duplicate("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:         input.Username,
		Email:            input.Email,
		Password:         string(hash),
		SubscriptionType: input.SubscriptionType,
		Role:             models.RoleUser,
	}
	if err := s.db.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) ListSongs() ([]models.SongSummary, error) {
	return s.db.ListSongs("")
}

// DeleteSong removes the song, all rows referencing it and its stored
// audio. The blob delete runs after the database commit so a storage
// failure never leaves a half deleted catalog entry.
func (s *Service) DeleteSong(ctx context.Context, songID uint) error {
	song, err := s.db.GetSongByID(songID)
	if err != nil {
		return err
	}

	if err := s.db.DeleteSong(songID); err != nil {
		return err
	}

	if song.FilePath != "" {
		if err := s.blobs.Delete(ctx, song.FilePath); err != nil {
			s.logger.Warn().Err(err).Uint("song_id", songID).Msg("failed to delete audio blob")
		}
	}
	return nil
}

func (s *Service) ListArtists() ([]models.Artist, error) {
	return s.db.ListArtists()
}

func (s *Service) AddArtist(name, bio string) (*models.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("artist name is required")
	}
	artist := &models.Artist{Name: name, Bio: bio}
	if err := s.db.CreateArtist(artist); err != nil {
		return nil, err
	}
	return artist, nil
}

func (s *Service) UserActivityReport() ([]models.UserActivityReport, error) {
	return s.db.UserActivityReport()
}

func (s *Service) SongPopularityReport() ([]models.SongPopularity, error) {
	return s.db.SongPopularityReport(reportLimit)
}
