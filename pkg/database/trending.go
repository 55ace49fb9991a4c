package database

import (
	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/models"
)

// TrendingSongs returns the top songs for a calendar day (YYYY-MM-DD),
// ranked by that day's play count.
func (db *Store) TrendingSongs(date string, limit int) ([]models.TrendingSong, error) {
	songs := []models.TrendingSong{}
	err := db.Table("trending").
		Select("songs.id AS song_id, songs.title, "+db.groupConcat("artists.name")+" AS artists, trending.play_count").
		Joins("JOIN songs ON songs.id = trending.song_id").
		Joins("JOIN song_artists ON song_artists.song_id = songs.id").
		Joins("JOIN artists ON artists.id = song_artists.artist_id").
		Where("trending.trend_date = ?", date).
		Group("songs.id, songs.title, trending.play_count").
		Order("trending.play_count DESC").
		Limit(limit).
		Scan(&songs).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return songs, nil
}

// TrendingArtists groups a day's trend entries by artist: distinct song
// count plus summed plays, ranked by total plays.
func (db *Store) TrendingArtists(date string, limit int) ([]models.TrendingArtist, error) {
	artists := []models.TrendingArtist{}
	err := db.Table("trending").
		Select("artists.id AS artist_id, artists.name, COUNT(DISTINCT trending.song_id) AS song_count, SUM(trending.play_count) AS total_plays").
		Joins("JOIN song_artists ON song_artists.song_id = trending.song_id").
		Joins("JOIN artists ON artists.id = song_artists.artist_id").
		Where("trending.trend_date = ?", date).
		Group("artists.id, artists.name").
		Order("total_plays DESC").
		Limit(limit).
		Scan(&artists).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return artists, nil
}
