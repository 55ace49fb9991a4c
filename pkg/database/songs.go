package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/models"
)

// summaryColumns builds the select list shared by all song listings.
func (db *Store) summaryColumns() string {
	return "songs.id AS song_id, songs.title, " + db.groupConcat("artists.name") +
		" AS artists, songs.genre, songs.duration, songs.play_count"
}

func (db *Store) summaryQuery() *gorm.DB {
	return db.Table("songs").
		Select(db.summaryColumns()).
		Joins("JOIN song_artists ON song_artists.song_id = songs.id").
		Joins("JOIN artists ON artists.id = song_artists.artist_id").
		Group("songs.id, songs.title, songs.genre, songs.duration, songs.play_count")
}

// ListSongs returns song summaries ordered by all-time play count. A
// non-empty search term filters by title or any linked artist name,
// case-insensitive substring. The artist filter runs as a subquery so a
// matched song still lists all of its artists.
func (db *Store) ListSongs(search string) ([]models.SongSummary, error) {
	q := db.summaryQuery().Order("songs.play_count DESC")

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(songs.title) LIKE ? OR songs.id IN (?)",
			pattern,
			db.Table("song_artists").
				Select("song_artists.song_id").
				Joins("JOIN artists ON artists.id = song_artists.artist_id").
				Where("LOWER(artists.name) LIKE ?", pattern),
		)
	}

	songs := []models.SongSummary{}
	if err := q.Scan(&songs).Error; err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return songs, nil
}

func (db *Store) ListArtists() ([]models.Artist, error) {
	artists := []models.Artist{}
	if err := db.Order("name").Find(&artists).Error; err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return artists, nil
}

func (db *Store) GetArtistByID(id uint) (*models.Artist, error) {
	var artist models.Artist
	if err := db.First(&artist, id).Error; err != nil {
		return nil, translate(err, "artist not found", "")
	}
	return &artist, nil
}

func (db *Store) CreateArtist(artist *models.Artist) error {
	if err := db.Create(artist).Error; err != nil {
		return apperrors.Internal("database error", err)
	}
	return nil
}

func (db *Store) SongsByArtist(artistID uint) ([]models.SongSummary, error) {
	q := db.summaryQuery().
		Where("songs.id IN (?)",
			db.Table("song_artists").Select("song_id").Where("artist_id = ?", artistID)).
		Order("songs.play_count DESC")

	songs := []models.SongSummary{}
	if err := q.Scan(&songs).Error; err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return songs, nil
}

func (db *Store) ListGenres() ([]string, error) {
	genres := []string{}
	err := db.Model(&models.Song{}).
		Where("genre IS NOT NULL AND genre <> ''").
		Distinct().
		Order("genre").
		Pluck("genre", &genres).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return genres, nil
}

func (db *Store) SongsByGenre(genre string) ([]models.SongSummary, error) {
	q := db.summaryQuery().
		Where("songs.genre = ?", genre).
		Order("songs.play_count DESC")

	songs := []models.SongSummary{}
	if err := q.Scan(&songs).Error; err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return songs, nil
}

func (db *Store) GetSongByID(id uint) (*models.Song, error) {
	var song models.Song
	if err := db.First(&song, id).Error; err != nil {
		return nil, translate(err, "song not found", "")
	}
	return &song, nil
}

// GetSongDetail returns a single song with its aggregated artist names
// and playback fields.
func (db *Store) GetSongDetail(id uint) (*models.SongDetail, error) {
	var detail models.SongDetail
	err := db.Table("songs").
		Select(db.summaryColumns()+", songs.file_path, songs.cover_image").
		Joins("JOIN song_artists ON song_artists.song_id = songs.id").
		Joins("JOIN artists ON artists.id = song_artists.artist_id").
		Where("songs.id = ?", id).
		Group("songs.id, songs.title, songs.genre, songs.duration, songs.play_count, songs.file_path, songs.cover_image").
		Scan(&detail).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	if detail.SongID == 0 {
		return nil, apperrors.NotFound("song not found")
	}
	return &detail, nil
}

// CreateSong inserts the song, an optional new artist, and the
// song-artist link in one transaction so no artist-less song can leak
// into the catalog. Returns the id of the artist the song was linked to.
func (db *Store) CreateSong(song *models.Song, artistID uint, newArtistName string) (uint, error) {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if newArtistName != "" {
			artist := models.Artist{Name: newArtistName}
			if err := tx.Create(&artist).Error; err != nil {
				return err
			}
			artistID = artist.ID
		} else {
			var artist models.Artist
			if err := tx.First(&artist, artistID).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(song).Error; err != nil {
			return err
		}
		return tx.Create(&models.SongArtist{SongID: song.ID, ArtistID: artistID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFound("artist not found")
		}
		return 0, apperrors.Transaction("failed to save song", err)
	}
	return artistID, nil
}

// DeleteSong removes the song and every dependent row (links, playlist
// membership, trend entries, comments, ratings) in one transaction.
func (db *Store) DeleteSong(songID uint) error {
	var song models.Song
	if err := db.First(&song, songID).Error; err != nil {
		return translate(err, "song not found", "")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&models.SongArtist{},
			&models.PlaylistSong{},
			&models.TrendEntry{},
			&models.Comment{},
			&models.Rating{},
		}
		for _, model := range dependents {
			if err := tx.Where("song_id = ?", songID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Song{}, songID).Error
	})
	if err != nil {
		return apperrors.Transaction("failed to delete song", err)
	}
	return nil
}
