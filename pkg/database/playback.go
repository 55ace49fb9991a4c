package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/models"
)

// RecordPlay applies all side effects of one play as a single
// transaction: bump the all-time counter, upsert today's trend row,
// append the activity entry. A crash mid-way leaves no partial state.
func (db *Store) RecordPlay(songID, userID uint, trendDate string) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var song models.Song
		if err := tx.First(&song, songID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Song{}).
			Where("id = ?", songID).
			UpdateColumn("play_count", gorm.Expr("play_count + 1")).Error; err != nil {
			return err
		}

		entry := models.TrendEntry{SongID: songID, TrendDate: trendDate, PlayCount: 1}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "song_id"}, {Name: "trend_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"play_count": gorm.Expr("trending.play_count + 1"),
			}),
		}).Create(&entry).Error; err != nil {
			return err
		}

		return tx.Create(&models.ActivityLog{
			UserID:       userID,
			ActivityType: "play",
			SongID:       songID,
			Details:      fmt.Sprintf("Played song: %s", song.Title),
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("song not found")
		}
		return apperrors.Transaction("failed to record play", err)
	}
	return nil
}

func (db *Store) CreateComment(comment *models.Comment) error {
	if err := db.Create(comment).Error; err != nil {
		return apperrors.Internal("database error", err)
	}
	return nil
}

func (db *Store) ListComments(songID uint) ([]models.CommentView, error) {
	comments := []models.CommentView{}
	err := db.Table("comments").
		Select("comments.id, comments.comment_text AS text, users.username, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.song_id = ?", songID).
		Order("comments.created_at DESC").
		Scan(&comments).Error
	if err != nil {
		return nil, apperrors.Internal("database error", err)
	}
	return comments, nil
}

// UpsertRating inserts the rating or updates the existing row for the
// same (user, song) pair in place.
func (db *Store) UpsertRating(userID, songID uint, value float64) error {
	rating := models.Rating{UserID: userID, SongID: songID, Value: value}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "song_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rating_value": value,
		}),
	}).Create(&rating).Error
	if err != nil {
		return apperrors.Internal("database error", err)
	}
	return nil
}

func (db *Store) GetRating(userID, songID uint) (*models.Rating, error) {
	var rating models.Rating
	err := db.Where("user_id = ? AND song_id = ?", userID, songID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("database error", err)
	}
	return &rating, nil
}
