package auth

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/audily-music-platform/pkg/apperrors"
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/events"
	"github.com/audily-music-platform/pkg/jwt"
	"github.com/audily-music-platform/pkg/models"
	"github.com/audily-music-platform/pkg/redis"
	"github.com/audily-music-platform/pkg/storage"
)

// SessionStore is the slice of the Redis session store the auth flow
// needs; tests substitute an in-memory implementation.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, session *redis.Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*redis.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// Publisher is the event-publishing slice of the Kafka client. May be
// nil; publishing is always best-effort.
type Publisher interface {
	PublishEvent(ctx context.Context, eventType events.EventType, userID uint, payload interface{}) error
}

type Service struct {
	db       *database.Store
	sessions SessionStore
	blobs    storage.BlobStore
	events   Publisher
	secret   string
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewService(db *database.Store, sessions SessionStore, blobs storage.BlobStore, publisher Publisher, secret string, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		db:       db,
		sessions: sessions,
		blobs:    blobs,
		events:   publisher,
		secret:   secret,
		ttl:      ttl,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates the user account. The optional profile image goes to
// the blob store first; if the row insert then fails the blob is
// removed again so storage does not leak.
func (s *Service) Register(ctx context.Context, username, email, password string, image io.Reader, imageName string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperrors.Validation("username, email and password are required")
	}

	existing, err := s.db.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Duplicate("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	var imageRef string
	if image != nil {
		key := "profile_pics/" + uuid.New().String() + filepath.Ext(imageName)
		imageRef, err = s.blobs.Put(ctx, key, image)
		if err != nil {
			return nil, apperrors.Storage("failed to store profile picture", err)
		}
	}

	user := &models.User{
		Username:         username,
		Email:            email,
		Password:         string(hashed),
		ProfilePicture:   imageRef,
		SubscriptionType: models.SubscriptionFree,
		Role:             models.RoleUser,
	}

	if err := s.db.CreateUser(user); err != nil {
		if imageRef != "" {
			if delErr := s.blobs.Delete(ctx, imageRef); delErr != nil {
				s.logger.Warn().Err(delErr).Str("ref", imageRef).Msg("failed to clean up profile picture")
			}
		}
		return nil, err
	}

	s.publish(ctx, events.EventTypeUserRegistered, user.ID, events.UserRegisteredPayload{Username: username})

	return user, nil
}

// EnsureAdmin guarantees an administrator account exists at startup.
// An existing user with the name is promoted; otherwise the account is
// created with the given password. Without it no session could ever
// reach the admin routes.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" {
		return nil
	}

	user, err := s.db.GetUserByUsername(username)
	if err != nil {
		return err
	}
	if user != nil {
		if user.Role == models.RoleAdmin {
			return nil
		}
		s.logger.Info().Str("username", username).Msg("promoting existing user to admin")
		return s.db.SetUserRole(user.ID, models.RoleAdmin)
	}

	if password == "" {
		return apperrors.Validation("admin password is required to create the admin account")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}

	admin := &models.User{
		Username:         username,
		Email:            email,
		Password:         string(hashed),
		SubscriptionType: models.SubscriptionFree,
		Role:             models.RoleAdmin,
	}
	if err := s.db.CreateUser(admin); err != nil {
		return err
	}
	s.logger.Info().Str("username", username).Msg("created admin account")
	return nil
}

// Login verifies the credentials, creates a Redis session and mints a
// JWT bound to it.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.db.GetUserByUsername(username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperrors.Unauthorized("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.Unauthorized("invalid username or password")
	}

	sessionID := uuid.New().String()
	session := &redis.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sessionID, session, s.ttl); err != nil {
		return nil, "", apperrors.Internal("failed to create session", err)
	}

	token, err := jwt.GenerateToken(user.ID, sessionID, s.secret, s.ttl)
	if err != nil {
		return nil, "", apperrors.Internal("failed to generate token", err)
	}

	return user, token, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.Internal("failed to delete session", err)
	}
	return nil
}

func (s *Service) GetUser(id uint) (*models.User, error) {
	return s.db.GetUserByID(id)
}

func (s *Service) publish(ctx context.Context, eventType events.EventType, userID uint, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, eventType, userID, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", string(eventType)).Msg("failed to publish event")
	}
}
