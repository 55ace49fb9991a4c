package trending

import (
	"net/http"

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
	r.GET("/trending/songs", h.songs)
	r.GET("/trending/artists", h.artists)
}

func (h *Handler) songs(c *gin.Context) {
	songs, err := h.service.Songs(c.Request.Context(), c.Query("date"))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, songs)
}

func (h *Handler) artists(c *gin.Context) {
	artists, err := h.service.Artists(c.Request.Context(), c.Query("date"))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, artists)
}
