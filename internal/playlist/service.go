package playlist

import (
	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/models"
)

type Service struct {
	db *database.Store
}

func NewService(db *database.Store) *Service {
	return &Service{db: db}
}

func (s *Service) Create(userID uint, name string) (*models.Playlist, error) {
	if name == "" {
		return nil, apperrors.Validation("playlist name is required")
	}

	playlist := &models.Playlist{Name: name, UserID: userID}
	if err := s.db.CreatePlaylist(playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *Service) ListByUser(userID uint) ([]models.Playlist, error) {
	return s.db.ListPlaylistsByUser(userID)
}

// AddSong links a song into a playlist the user owns. Adding a song
// that is already present reports a duplicate, which the handler
// treats as benign.
func (s *Service) AddSong(userID, playlistID, songID uint) error {
	if err := s.checkOwner(userID, playlistID); err != nil {
		return err
	}
	if _, err := s.db.GetSongByID(songID); err != nil {
		return err
	}
	return s.db.AddSongToPlaylist(playlistID, songID)
}

func (s *Service) Delete(userID, playlistID uint) error {
	if err := s.checkOwner(userID, playlistID); err != nil {
		return err
	}
	return s.db.DeletePlaylist(playlistID)
}

func (s *Service) Songs(userID, playlistID uint) ([]models.SongSummary, error) {
	if err := s.checkOwner(userID, playlistID); err != nil {
		return nil, err
	}
	return s.db.SongsInPlaylist(playlistID)
}

func (s *Service) checkOwner(userID, playlistID uint) error {
	playlist, err := s.db.GetPlaylistByID(playlistID)
	if err != nil {
		return err
	}
	if playlist.UserID != userID {
		return apperrors.NotFound("playlist not found")
	}
	return nil
}
