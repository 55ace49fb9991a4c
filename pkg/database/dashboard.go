package database

import (
	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/models"
)

// UserStats counts a user's playlists, uploads and recorded plays.
func (db *Store) UserStats(userID uint) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	counts := []struct {
		model interface{}
		where string
		dest  *int64
	}{
		{&models.Playlist{}, "user_id = ?", &stats.PlaylistCount},
		{&models.Song{}, "user_id = ?", &stats.UploadCount},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, userID).Count(c.dest).Error; err != nil {
			return nil, apperrors.Internal("database error", err)
		}
	}

	err := db.Model(&models.ActivityLog{}).
		Where("user_id = ? AND activity_type = ?", userID, "play").
		Count(&stats.TotalPlays).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return &stats, nil
}

// RecentlyPlayed lists the user's last distinct played songs, newest
// play first.
func (db *Store) RecentlyPlayed(userID uint, limit int) ([]models.SongSummary, error) {
	recent := db.Table("user_activity").
		Select("song_id, MAX(created_at) AS last_played").
		Where("user_id = ? AND activity_type = ?", userID, "play").
		Group("song_id")

	songs := []models.SongSummary{}
	err := db.Table("songs").
		Select(db.summaryColumns()).
		Joins("JOIN (?) AS recent ON recent.song_id = songs.id", recent).
		Joins("JOIN song_artists ON song_artists.song_id = songs.id").
		Joins("JOIN artists ON artists.id = song_artists.artist_id").
		Group("songs.id, songs.title, songs.genre, songs.duration, songs.play_count, recent.last_played").
		Order("recent.last_played DESC").
		Limit(limit).
		Scan(&songs).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return songs, nil
}

// RecentUploads lists the user's own songs, newest upload first.
func (db *Store) RecentUploads(userID uint, limit int) ([]models.SongSummary, error) {
	songs := []models.SongSummary{}
	err := db.Table("songs").
		Select(db.summaryColumns()).
		Joins("JOIN song_artists ON song_artists.song_id = songs.id").
		Joins("JOIN artists ON artists.id = song_artists.artist_id").
		Where("songs.user_id = ?", userID).
		Group("songs.id, songs.title, songs.genre, songs.duration, songs.play_count, songs.upload_date").
		Order("songs.upload_date DESC").
		Limit(limit).
		Scan(&songs).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return songs, nil
}

// RecommendedSongs suggests the most played songs the user has not
// played yet.
func (db *Store) RecommendedSongs(userID uint, limit int) ([]models.SongSummary, error) {
	played := db.Table("user_activity").
		Select("song_id").
		Where("user_id = ? AND activity_type = ?", userID, "play")

	q := db.summaryQuery().
		Where("songs.id NOT IN (?)", played).
		Order("songs.play_count DESC").
		Limit(limit)

	songs := []models.SongSummary{}
	if err := q.Scan(&songs).Error; err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return songs, nil
}
