package upload

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/audily-music-platform/internal/auth"
	"github.com/audily-music-platform/pkg/apperrors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/songs", h.uploadSong)
	r.GET("/songs/:id/audio", h.streamAudio)
}

func (h *Handler) uploadSong(c *gin.Context) {
	var duration int
	if v := c.PostForm("duration"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
			return
		}
		duration = parsed
	}

	var artistID uint64
	if v := c.PostForm("artist_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artist id"})
			return
		}
		artistID = parsed
	}

	req := SongUpload{
		Title:         c.PostForm("title"),
		Duration:      duration,
		Genre:         c.PostForm("genre"),
		ArtistID:      uint(artistID),
		NewArtistName: c.PostForm("artist_name"),
	}

	if fileHeader, err := c.FormFile("audio"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read audio file"})
			return
		}
		defer f.Close()
		req.Audio = f
		req.AudioName = fileHeader.Filename
	}

	song, err := h.service.Upload(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, song)
}

func (h *Handler) streamAudio(c *gin.Context) {
	songID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return
	}

	rc, err := h.service.Open(c.Request.Context(), uint(songID))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "audio/mpeg")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, rc)
}
