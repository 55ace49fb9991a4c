package models

import (
	"time"
)

// Subscription tiers for users.
const (
	SubscriptionFree    = "Free"
	SubscriptionPremium = "Premium"
	SubscriptionFamily  = "Family"
)

// Roles. Admin endpoints require RoleAdmin.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Username         string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email            string    `json:"email" gorm:"size:100;not null"`
	Password         string    `json:"-" gorm:"size:100;not null"`
	ProfilePicture   string    `json:"profile_picture,omitempty" gorm:"size:255"`
	SubscriptionType string    `json:"subscription_type" gorm:"size:20;default:Free"`
	Role             string    `json:"role" gorm:"size:20;default:user"`
	CreatedAt        time.Time `json:"created_at"`
}

type Artist struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"size:100;not null"`
	Bio            string `json:"bio,omitempty" gorm:"type:text"`
	ProfilePicture string `json:"profile_picture,omitempty" gorm:"size:255"`
}

type Song struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:100;not null"`
	Duration   int       `json:"duration" gorm:"not null"` // seconds
	Genre      string    `json:"genre,omitempty" gorm:"size:50"`
	FilePath   string    `json:"file_path" gorm:"size:255;not null"`
	CoverImage string    `json:"cover_image,omitempty" gorm:"size:255"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	UploadDate time.Time `json:"upload_date" gorm:"autoCreateTime"`
	PlayCount  int64     `json:"play_count" gorm:"not null;default:0"`
}

// SongArtist links songs to artists, many-to-many.
type SongArtist struct {
	SongID   uint `json:"song_id" gorm:"primaryKey;autoIncrement:false"`
	ArtistID uint `json:"artist_id" gorm:"primaryKey;autoIncrement:false"`
}

type Playlist struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

type PlaylistSong struct {
	PlaylistID uint `json:"playlist_id" gorm:"primaryKey;autoIncrement:false"`
	SongID     uint `json:"song_id" gorm:"primaryKey;autoIncrement:false"`
}

// TrendEntry is the per-day play counter behind the trending charts,
// distinct from the all-time counter on the song row. One row per
// (song, calendar day), incremented on every play.
type TrendEntry struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SongID    uint   `json:"song_id" gorm:"not null;uniqueIndex:idx_song_trend_date"`
	TrendDate string `json:"trend_date" gorm:"type:date;not null;uniqueIndex:idx_song_trend_date"`
	PlayCount int64  `json:"play_count" gorm:"not null;default:0"`
}

func (TrendEntry) TableName() string {
	return "trending"
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"column:comment_text;type:text;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	SongID    uint      `json:"song_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

type Rating struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Value  float64 `json:"value" gorm:"column:rating_value;not null"`
	UserID uint    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_song"`
	SongID uint    `json:"song_id" gorm:"not null;uniqueIndex:idx_user_song"`
}

// ActivityLog is an append-only audit trail of user actions. SongID is
// set for play entries so listening history can join back to songs.
type ActivityLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	ActivityType string    `json:"activity_type" gorm:"size:50;not null"`
	SongID       uint      `json:"song_id,omitempty" gorm:"index"`
	Details      string    `json:"details,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "user_activity"
}

// SongSummary is the row shape returned by catalog listings: artist
// names are aggregated into a single comma-joined string.
type SongSummary struct {
	SongID    uint   `json:"song_id"`
	Title     string `json:"title"`
	Artists   string `json:"artists"`
	Genre     string `json:"genre,omitempty"`
	Duration  int    `json:"duration"`
	PlayCount int64  `json:"play_count"`
}

// SongDetail adds playback fields to a summary.
type SongDetail struct {
	SongSummary
	FilePath   string `json:"file_path"`
	CoverImage string `json:"cover_image,omitempty"`
}

type CommentView struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type TrendingSong struct {
	SongID    uint   `json:"song_id"`
	Title     string `json:"title"`
	Artists   string `json:"artists"`
	PlayCount int64  `json:"play_count"`
}

type TrendingArtist struct {
	ArtistID   uint   `json:"artist_id"`
	Name       string `json:"name"`
	SongCount  int64  `json:"song_count"`
	TotalPlays int64  `json:"total_plays"`
}

type UserActivityReport struct {
	Username      string `json:"username"`
	ActivityCount int64  `json:"activity_count"`
}

type DashboardStats struct {
	PlaylistCount int64 `json:"playlist_count"`
	UploadCount   int64 `json:"upload_count"`
	TotalPlays    int64 `json:"total_plays"`
}

// Dashboard is the per-user overview: counters plus short song lists.
type Dashboard struct {
	Stats           DashboardStats `json:"stats"`
	RecentlyPlayed  []SongSummary  `json:"recently_played"`
	RecentUploads   []SongSummary  `json:"recent_uploads"`
	Recommendations []SongSummary  `json:"recommendations"`
}

type SongPopularity struct {
	Title     string `json:"title"`
	Artists   string `json:"artists"`
	PlayCount int64  `json:"play_count"`
}
