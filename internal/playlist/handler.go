package playlist

import (
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
	playlists := r.Group("/playlists")
	{
		playlists.POST("", h.create)
		playlists.GET("", h.list)
		playlists.GET("/:id/songs", h.songs)
		playlists.POST("/:id/songs", h.addSong)
		playlists.DELETE("/:id", h.delete)
	}
}

type CreatePlaylistRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) create(c *gin.Context) {
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	playlist, err := h.service.Create(auth.UserID(c), req.Name)
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, playlist)
}

func (h *Handler) list(c *gin.Context) {
	playlists, err := h.service.ListByUser(auth.UserID(c))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, playlists)
}

func (h *Handler) songs(c *gin.Context) {
	playlistID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid playlist id"})
		return
	}

	songs, err := h.service.Songs(auth.UserID(c), playlistID)
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, songs)
}

type AddSongRequest struct {
	SongID uint `json:"song_id" binding:"required"`
}

func (h *Handler) addSong(c *gin.Context) {
	playlistID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid playlist id"})
		return
	}

	var req AddSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.AddSong(auth.UserID(c), playlistID, req.SongID); err != nil {
		// A duplicate add means the song is already there; report
		// success rather than failing the request.
		if apperrors.Is(err, apperrors.KindDuplicate) {
			c.JSON(http.StatusOK, gin.H{"status": "song already in playlist"})
			return
		}
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "song added"})
}

func (h *Handler) delete(c *gin.Context) {
	playlistID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid playlist id"})
		return
	}

	if err := h.service.Delete(auth.UserID(c), playlistID); err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "playlist deleted"})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
