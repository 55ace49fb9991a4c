package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// An in-memory database exists per connection; keep it to one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	store, err := New(db)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *Store, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func seedSong(t *testing.T, store *Store, title, artistName string, userID uint) *models.Song {
	t.Helper()
	song := &models.Song{Title: title, Duration: 200, Genre: "Pop", FilePath: "songs/" + title + ".mp3", UserID: userID}
	if _, err := store.CreateSong(song, 0, artistName); err != nil {
		t.Fatalf("failed to seed song %s: %v", title, err)
	}
	return song
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := newTestStore(t)
	seedUser(t, store, "alice")

	err := store.CreateUser(&models.User{Username: "alice", Email: "other@example.com", Password: "hash"})
	if !apperrors.Is(err, apperrors.KindDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestGetUserByUsernameAbsent(t *testing.T) {
	store := newTestStore(t)

	user, err := store.GetUserByUsername("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestCreateSongWithNewArtist(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "uploader")

	song := &models.Song{Title: "First Light", Duration: 180, FilePath: "songs/a.mp3", UserID: user.ID}
	artistID, err := store.CreateSong(song, 0, "Nova")
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}
	if song.ID == 0 || artistID == 0 {
		t.Fatalf("expected ids to be assigned, got song=%d artist=%d", song.ID, artistID)
	}

	songs, err := store.ListSongs("")
	if err != nil {
		t.Fatalf("ListSongs: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("expected 1 song, got %d", len(songs))
	}
	if songs[0].Artists != "Nova" {
		t.Errorf("expected artist Nova, got %q", songs[0].Artists)
	}
}

func TestCreateSongUnknownArtist(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "uploader")

	song := &models.Song{Title: "Orphan", Duration: 90, FilePath: "songs/o.mp3", UserID: user.ID}
	_, err := store.CreateSong(song, 999, "")
	if !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// The failed transaction must not leave a song row behind.
	songs, err := store.ListSongs("")
	if err != nil {
		t.Fatalf("ListSongs: %v", err)
	}
	if len(songs) != 0 {
		t.Fatalf("expected no songs after rollback, got %d", len(songs))
	}
}

func TestListSongsSearch(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "uploader")
	seedSong(t, store, "Midnight Drive", "Nova", user.ID)
	seedSong(t, store, "Sunrise", "Helios", user.ID)

	byTitle, err := store.ListSongs("midnight")
	if err != nil {
		t.Fatalf("ListSongs: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].Title != "Midnight Drive" {
		t.Fatalf("title search: got %+v", byTitle)
	}

	byArtist, err := store.ListSongs("helios")
	if err != nil {
		t.Fatalf("ListSongs: %v", err)
	}
	if len(byArtist) != 1 || byArtist[0].Title != "Sunrise" {
		t.Fatalf("artist search: got %+v", byArtist)
	}

	none, err := store.ListSongs("jazz flute")
	if err != nil {
		t.Fatalf("ListSongs: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %d rows", len(none))
	}
}

func TestRecordPlayAccumulates(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "listener")
	song := seedSong(t, store, "Loop", "Nova", user.ID)

	const plays = 3
	for i := 0; i < plays; i++ {
		if err := store.RecordPlay(song.ID, user.ID, "2026-09-01"); err != nil {
			t.Fatalf("RecordPlay %d: %v", i, err)
		}
	}

	got, err := store.GetSongByID(song.ID)
	if err != nil {
		t.Fatalf("GetSongByID: %v", err)
	}
	if got.PlayCount != plays {
		t.Errorf("expected play_count %d, got %d", plays, got.PlayCount)
	}

	var entries []models.TrendEntry
	if err := store.Where("song_id = ?", song.ID).Find(&entries).Error; err != nil {
		t.Fatalf("load trend entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one trend row, got %d", len(entries))
	}
	if entries[0].PlayCount != plays {
		t.Errorf("expected trend play_count %d, got %d", plays, entries[0].PlayCount)
	}

	var activities int64
	if err := store.Model(&models.ActivityLog{}).Where("user_id = ?", user.ID).Count(&activities).Error; err != nil {
		t.Fatalf("count activity: %v", err)
	}
	if activities != plays {
		t.Errorf("expected %d activity rows, got %d", plays, activities)
	}
}

func TestRecordPlayUnknownSong(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "listener")

	err := store.RecordPlay(42, user.ID, "2026-09-01")
	if !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpsertRatingSingleRow(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "critic")
	song := seedSong(t, store, "Rated", "Nova", user.ID)

	if err := store.UpsertRating(user.ID, song.ID, 3.0); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if err := store.UpsertRating(user.ID, song.ID, 4.5); err != nil {
		t.Fatalf("second rating: %v", err)
	}

	var ratings []models.Rating
	if err := store.Where("user_id = ? AND song_id = ?", user.ID, song.ID).Find(&ratings).Error; err != nil {
		t.Fatalf("load ratings: %v", err)
	}
	if len(ratings) != 1 {
		t.Fatalf("expected one rating row, got %d", len(ratings))
	}
	if ratings[0].Value != 4.5 {
		t.Errorf("expected value 4.5, got %v", ratings[0].Value)
	}
}

func TestAddSongToPlaylistDuplicate(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "curator")
	song := seedSong(t, store, "Tracked", "Nova", user.ID)

	playlist := &models.Playlist{Name: "Favorites", UserID: user.ID}
	if err := store.CreatePlaylist(playlist); err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}

	if err := store.AddSongToPlaylist(playlist.ID, song.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := store.AddSongToPlaylist(playlist.ID, song.ID)
	if !apperrors.Is(err, apperrors.KindDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	songs, err := store.SongsInPlaylist(playlist.ID)
	if err != nil {
		t.Fatalf("SongsInPlaylist: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("expected one song in playlist, got %d", len(songs))
	}
}

func TestDeleteSongCascades(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "owner")
	song := seedSong(t, store, "Doomed", "Nova", user.ID)

	playlist := &models.Playlist{Name: "Mix", UserID: user.ID}
	if err := store.CreatePlaylist(playlist); err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}
	if err := store.AddSongToPlaylist(playlist.ID, song.ID); err != nil {
		t.Fatalf("AddSongToPlaylist: %v", err)
	}
	if err := store.RecordPlay(song.ID, user.ID, "2026-09-01"); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}
	if err := store.CreateComment(&models.Comment{Text: "nice", UserID: user.ID, SongID: song.ID}); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if err := store.UpsertRating(user.ID, song.ID, 4.0); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	if err := store.DeleteSong(song.ID); err != nil {
		t.Fatalf("DeleteSong: %v", err)
	}

	if _, err := store.GetSongByID(song.ID); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("expected song gone, got %v", err)
	}
	for table, model := range map[string]interface{}{
		"song_artists":   &models.SongArtist{},
		"playlist_songs": &models.PlaylistSong{},
		"trending":       &models.TrendEntry{},
		"comments":       &models.Comment{},
		"ratings":        &models.Rating{},
	} {
		var count int64
		if err := store.Model(model).Where("song_id = ?", song.ID).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("expected no %s rows for deleted song, found %d", table, count)
		}
	}

	// The playlist itself must survive.
	if _, err := store.GetPlaylistByID(playlist.ID); err != nil {
		t.Errorf("playlist should survive song deletion: %v", err)
	}
}

func TestDeletePlaylistRemovesLinks(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "curator")
	song := seedSong(t, store, "Kept", "Nova", user.ID)

	playlist := &models.Playlist{Name: "Temp", UserID: user.ID}
	if err := store.CreatePlaylist(playlist); err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}
	if err := store.AddSongToPlaylist(playlist.ID, song.ID); err != nil {
		t.Fatalf("AddSongToPlaylist: %v", err)
	}

	if err := store.DeletePlaylist(playlist.ID); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}

	var links int64
	if err := store.Model(&models.PlaylistSong{}).Where("playlist_id = ?", playlist.ID).Count(&links).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Errorf("expected no playlist_songs rows, found %d", links)
	}
	if _, err := store.GetSongByID(song.ID); err != nil {
		t.Errorf("song should survive playlist deletion: %v", err)
	}
}

func TestTrendingCharts(t *testing.T) {
	store := newTestStore(t)
	user := seedUser(t, store, "listener")
	hit := seedSong(t, store, "Hit", "Nova", user.ID)
	sleeper := seedSong(t, store, "Sleeper", "Helios", user.ID)

	const date = "2026-09-01"
	for i := 0; i < 5; i++ {
		if err := store.RecordPlay(hit.ID, user.ID, date); err != nil {
			t.Fatalf("RecordPlay hit: %v", err)
		}
	}
	if err := store.RecordPlay(sleeper.ID, user.ID, date); err != nil {
		t.Fatalf("RecordPlay sleeper: %v", err)
	}
	// A play on another day must not leak into the chart.
	if err := store.RecordPlay(sleeper.ID, user.ID, "2026-09-02"); err != nil {
		t.Fatalf("RecordPlay other day: %v", err)
	}

	songs, err := store.TrendingSongs(date, 10)
	if err != nil {
		t.Fatalf("TrendingSongs: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 chart rows, got %d", len(songs))
	}
	if songs[0].Title != "Hit" || songs[0].PlayCount != 5 {
		t.Errorf("expected Hit with 5 plays first, got %+v", songs[0])
	}
	if songs[1].Title != "Sleeper" || songs[1].PlayCount != 1 {
		t.Errorf("expected Sleeper with 1 play second, got %+v", songs[1])
	}

	artists, err := store.TrendingArtists(date, 5)
	if err != nil {
		t.Fatalf("TrendingArtists: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("expected 2 artist rows, got %d", len(artists))
	}
	if artists[0].Name != "Nova" || artists[0].TotalPlays != 5 || artists[0].SongCount != 1 {
		t.Errorf("unexpected top artist: %+v", artists[0])
	}
}

func TestReports(t *testing.T) {
	store := newTestStore(t)
	active := seedUser(t, store, "active")
	idle := seedUser(t, store, "idle")
	song := seedSong(t, store, "Counted", "Nova", active.ID)

	for i := 0; i < 2; i++ {
		if err := store.RecordPlay(song.ID, active.ID, "2026-09-01"); err != nil {
			t.Fatalf("RecordPlay: %v", err)
		}
	}

	activity, err := store.UserActivityReport()
	if err != nil {
		t.Fatalf("UserActivityReport: %v", err)
	}
	counts := map[string]int64{}
	for _, row := range activity {
		counts[row.Username] = row.ActivityCount
	}
	if counts["active"] != 2 {
		t.Errorf("expected active=2, got %d", counts["active"])
	}
	if counts[idle.Username] != 0 {
		t.Errorf("expected idle=0, got %d", counts[idle.Username])
	}

	popularity, err := store.SongPopularityReport(10)
	if err != nil {
		t.Fatalf("SongPopularityReport: %v", err)
	}
	if len(popularity) != 1 || popularity[0].PlayCount != 2 {
		t.Fatalf("unexpected popularity report: %+v", popularity)
	}
}
