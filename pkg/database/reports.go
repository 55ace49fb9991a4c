package database

import (
	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/models"
)

// UserActivityReport counts logged activities per user. The left join
// keeps zero-activity users in the result with count 0.
func (db *Store) UserActivityReport() ([]models.UserActivityReport, error) {
	rows := []models.UserActivityReport{}
	err := db.Table("users").
		Select("users.username, COUNT(user_activity.id) AS activity_count").
		Joins("LEFT JOIN user_activity ON user_activity.user_id = users.id").
		Group("users.id, users.username").
		Order("activity_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return rows, nil
}

// SongPopularityReport ranks songs by all-time plays.
func (db *Store) SongPopularityReport(limit int) ([]models.SongPopularity, error) {
	rows := []models.SongPopularity{}
	err := db.Table("songs").
		Select("songs.title, "+db.groupConcat("artists.name")+" AS artists, songs.play_count").
		Joins("JOIN song_artists ON song_artists.song_id = songs.id").
		Joins("JOIN artists ON artists.id = song_artists.artist_id").
		Group("songs.id, songs.title, songs.play_count").
		Order("songs.play_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return rows, nil
}
