package playback

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/models"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	store, err := database.New(db)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestService(t *testing.T) (*Service, *database.Store) {
	t.Helper()
	store := newTestStore(t)
	service := NewService(store, nil, zerolog.Nop())
	service.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return service, store
}

func seedSong(t *testing.T, store *database.Store) (uint, uint) {
	t.Helper()
	user := &models.User{Username: "listener", Email: "l@example.com", Password: "hash"}
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	song := &models.Song{Title: "Track", Duration: 100, FilePath: "songs/t.mp3", UserID: user.ID}
	if _, err := store.CreateSong(song, 0, "Nova"); err != nil {
		t.Fatalf("seed song: %v", err)
	}
	return song.ID, user.ID
}

func TestPlayIncrementsCounters(t *testing.T) {
	service, store := newTestService(t)
	songID, userID := seedSong(t, store)
	ctx := context.Background()

	var detail *models.SongDetail
	var err error
	for i := 0; i < 3; i++ {
		detail, err = service.Play(ctx, songID, userID)
		if err != nil {
			t.Fatalf("Play %d: %v", i, err)
		}
	}
	if detail.PlayCount != 3 {
		t.Errorf("expected play count 3, got %d", detail.PlayCount)
	}

	trend, err := store.TrendingSongs("2026-09-01", 10)
	if err != nil {
		t.Fatalf("TrendingSongs: %v", err)
	}
	if len(trend) != 1 || trend[0].PlayCount != 3 {
		t.Fatalf("unexpected trend state: %+v", trend)
	}
}

func TestPlayUnknownSong(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Play(context.Background(), 42, 1)
	if !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRateValidation(t *testing.T) {
	service, store := newTestService(t)
	songID, userID := seedSong(t, store)

	for _, value := range []float64{-0.5, 5.5, 4.25, 3.1} {
		if err := service.Rate(songID, userID, value); !apperrors.Is(err, apperrors.KindValidation) {
			t.Errorf("value %v: expected validation error, got %v", value, err)
		}
	}

	if err := service.Rate(songID, userID, 3.0); err != nil {
		t.Fatalf("Rate 3.0: %v", err)
	}
	if err := service.Rate(songID, userID, 4.5); err != nil {
		t.Fatalf("Rate 4.5: %v", err)
	}

	rating, err := service.Rating(songID, userID)
	if err != nil {
		t.Fatalf("Rating: %v", err)
	}
	if rating == nil || rating.Value != 4.5 {
		t.Fatalf("expected rating 4.5, got %+v", rating)
	}
}

func TestRatingAbsent(t *testing.T) {
	service, store := newTestService(t)
	songID, userID := seedSong(t, store)

	rating, err := service.Rating(songID, userID)
	if err != nil {
		t.Fatalf("Rating: %v", err)
	}
	if rating != nil {
		t.Fatalf("expected nil rating, got %+v", rating)
	}
}

func TestComments(t *testing.T) {
	service, store := newTestService(t)
	songID, userID := seedSong(t, store)

	if _, err := service.AddComment(songID, userID, ""); !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatal("expected validation error for empty comment")
	}
	if _, err := service.AddComment(999, userID, "hello"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatal("expected not found for unknown song")
	}

	if _, err := service.AddComment(songID, userID, "great track"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	comments, err := service.Comments(songID)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(comments) != 1 || comments[0].Text != "great track" || comments[0].Username != "listener" {
		t.Fatalf("unexpected comments: %+v", comments)
	}
}
