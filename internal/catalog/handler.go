package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/audily-music-platform/pkg/apperrors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/songs", h.listSongs)
	r.GET("/artists", h.listArtists)
	r.GET("/artists/:id/songs", h.songsByArtist)
	r.GET("/genres", h.listGenres)
	r.GET("/genres/:genre/songs", h.songsByGenre)
}

func (h *Handler) listSongs(c *gin.Context) {
	songs, err := h.service.ListSongs(c.Query("search"))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, songs)
}

func (h *Handler) listArtists(c *gin.Context) {
	artists, err := h.service.ListArtists()
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, artists)
}

func (h *Handler) songsByArtist(c *gin.Context) {
	artistID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artist id"})
		return
	}

	songs, err := h.service.SongsByArtist(uint(artistID))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, songs)
}

func (h *Handler) listGenres(c *gin.Context) {
	genres, err := h.service.ListGenres()
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, genres)
}

func (h *Handler) songsByGenre(c *gin.Context) {
	songs, err := h.service.SongsByGenre(c.Param("genre"))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, songs)
}
