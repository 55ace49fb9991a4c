package dashboard

import (
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/models"
)

const (
	recentLimit    = 5
	recommendLimit = 5
)

// Service assembles the logged-in user's overview: activity counters,
// listening history, own uploads and recommendations.
type Service struct {
	db *database.Store
}

func NewService(db *database.Store) *Service {
	return &Service{db: db}
}

func (s *Service) Overview(userID uint) (*models.Dashboard, error) {
	stats, err := s.db.UserStats(userID)
	if err != nil {
		return nil, err
	}
	played, err := s.db.RecentlyPlayed(userID, recentLimit)
	if err != nil {
		return nil, err
	}
	uploads, err := s.db.RecentUploads(userID, recentLimit)
	if err != nil {
		return nil, err
	}
	recommended, err := s.db.RecommendedSongs(userID, recommendLimit)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		Stats:           *stats,
		RecentlyPlayed:  played,
		RecentUploads:   uploads,
		Recommendations: recommended,
	}, nil
}
