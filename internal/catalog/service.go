package catalog

import (
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/models"
)

// Service answers the browse/search side of the catalog. All
// operations are read-only and return empty slices, never errors, when
// nothing matches.
type Service struct {
	db *database.Store
}

func NewService(db *database.Store) *Service {
	return &Service{db: db}
}

func (s *Service) ListSongs(search string) ([]models.SongSummary, error) {
	return s.db.ListSongs(search)
}

func (s *Service) ListArtists() ([]models.Artist, error) {
	return s.db.ListArtists()
}

func (s *Service) SongsByArtist(artistID uint) ([]models.SongSummary, error) {
	if _, err := s.db.GetArtistByID(artistID); err != nil {
		return nil, err
	}
	return s.db.SongsByArtist(artistID)
}

func (s *Service) ListGenres() ([]string, error) {
	return s.db.ListGenres()
}

func (s *Service) SongsByGenre(genre string) ([]models.SongSummary, error) {
	return s.db.SongsByGenre(genre)
}
