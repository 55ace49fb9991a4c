package playback

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
	r.POST("/songs/:id/play", h.play)
	r.POST("/songs/:id/comments", h.addComment)
	r.GET("/songs/:id/comments", h.comments)
	r.PUT("/songs/:id/rating", h.rate)
	r.GET("/songs/:id/rating", h.rating)
}

func (h *Handler) play(c *gin.Context) {
	songID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return
	}

	detail, err := h.service.Play(c.Request.Context(), songID, auth.UserID(c))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, detail)
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) addComment(c *gin.Context) {
	songID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.AddComment(songID, auth.UserID(c), req.Text)
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) comments(c *gin.Context) {
	songID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return
	}

	comments, err := h.service.Comments(songID)
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, comments)
}

type RatingRequest struct {
	Value float64 `json:"value"`
}

func (h *Handler) rate(c *gin.Context) {
	songID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Rate(songID, auth.UserID(c), req.Value); err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rating saved"})
}

func (h *Handler) rating(c *gin.Context) {
	songID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return
	}

	rating, err := h.service.Rating(songID, auth.UserID(c))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	if rating == nil {
		c.JSON(http.StatusOK, gin.H{"value": nil})
		return
	}
	c.JSON(http.StatusOK, rating)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
