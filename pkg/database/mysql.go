package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/models"
)

// Store wraps the GORM handle and carries every query/update operation
// of the application. Production uses MySQL; tests wrap an in-memory
// SQLite handle via New.
type Store struct {
	*gorm.DB
}

func NewMySQL(host, port, user, password, dbname string) (*Store, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return New(db)
}

// New migrates the schema on the given handle and wraps it in a Store.
func New(db *gorm.DB) (*Store, error) {
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{DB: db}, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Artist{},
		&models.Song{},
		&models.SongArtist{},
		&models.Playlist{},
		&models.PlaylistSong{},
		&models.TrendEntry{},
		&models.Comment{},
		&models.Rating{},
		&models.ActivityLog{},
	)
}

func (db *Store) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// groupConcat returns the dialect's expression for aggregating artist
// names into one comma-joined string. MySQL and SQLite spell the
// separator differently.
func (db *Store) groupConcat(column string) string {
	if db.Dialector.Name() == "mysql" {
		return fmt.Sprintf("GROUP_CONCAT(%s SEPARATOR ', ')", column)
	}
	return fmt.Sprintf("GROUP_CONCAT(%s, ', ')", column)
}

// translate maps driver/GORM errors to the application taxonomy so
// callers never branch on backend-specific error text.
func translate(err error, notFoundMsg, duplicateMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(notFoundMsg)
	}
	if isDuplicate(err) {
		return apperrors.Duplicate(duplicateMsg)
	}
	return apperrors.Internal("database error", err)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for dialects whose driver errors GORM does not translate.
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
