package database

import (
	"gorm.io/gorm"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/models"
)

func (db *Store) CreatePlaylist(playlist *models.Playlist) error {
	if err := db.Create(playlist).Error; err != nil {
		return apperrors.Internal("database error", err)
	}
	return nil
}

func (db *Store) ListPlaylistsByUser(userID uint) ([]models.Playlist, error) {
	playlists := []models.Playlist{}
	if err := db.Where("user_id = ?", userID).Order("created_at").Find(&playlists).Error; err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return playlists, nil
}

func (db *Store) GetPlaylistByID(id uint) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := db.First(&playlist, id).Error; err != nil {
		return nil, translate(err, "playlist not found", "")
	}
	return &playlist, nil
}

// AddSongToPlaylist fails with a duplicate error when the song is
// already present; callers treat that as benign.
func (db *Store) AddSongToPlaylist(playlistID, songID uint) error {
	link := models.PlaylistSong{PlaylistID: playlistID, SongID: songID}
	if err := db.Create(&link).Error; err != nil {
		return translate(err, "", "song already in playlist")
	}
	return nil
}

// DeletePlaylist removes the playlist and its membership rows in one
// transaction.
func (db *Store) DeletePlaylist(playlistID uint) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlistID).Delete(&models.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Playlist{}, playlistID).Error
	})
	if err != nil {
		return apperrors.Transaction("failed to delete playlist", err)
	}
	return nil
}

func (db *Store) SongsInPlaylist(playlistID uint) ([]models.SongSummary, error) {
	q := db.summaryQuery().
		Where("songs.id IN (?)",
			db.Table("playlist_songs").Select("song_id").Where("playlist_id = ?", playlistID)).
		Order("songs.title")

	songs := []models.SongSummary{}
	if err := q.Scan(&songs).Error; err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return songs, nil
}
