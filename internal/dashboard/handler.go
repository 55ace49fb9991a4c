package dashboard

import (
	"net/http"

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
	r.GET("/me/dashboard", h.overview)
}

func (h *Handler) overview(c *gin.Context) {
	overview, err := h.service.Overview(auth.UserID(c))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, overview)
}
