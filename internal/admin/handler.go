package admin

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
	r.GET("/users", h.listUsers)
	r.POST("/users", h.addUser)
	r.GET("/songs", h.listSongs)
	r.DELETE("/songs/:id", h.deleteSong)
	r.GET("/artists", h.listArtists)
	r.POST("/artists", h.addArtist)
	r.GET("/reports/activity", h.userActivityReport)
	r.GET("/reports/popularity", h.songPopularityReport)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, users)
}

type AddUserRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required"`
	Password         string `json:"password" binding:"required"`
	SubscriptionType string `json:"subscription_type"`
}

func (h *Handler) addUser(c *gin.Context) {
	var req AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.AddUser(NewUser{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		SubscriptionType: req.SubscriptionType,
	})
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) listSongs(c *gin.Context) {
	songs, err := h.service.ListSongs()
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, songs)
}

func (h *Handler) deleteSong(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid song id"})
		return
	}

	if err := h.service.DeleteSong(c.Request.Context(), uint(id)); err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "song deleted"})
}

func (h *Handler) listArtists(c *gin.Context) {
	artists, err := h.service.ListArtists()
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, artists)
}

type AddArtistRequest struct {
	Name string `json:"name" binding:"required"`
	Bio  string `json:"bio"`
}

func (h *Handler) addArtist(c *gin.Context) {
	var req AddArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artist, err := h.service.AddArtist(req.Name, req.Bio)
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, artist)
}

func (h *Handler) userActivityReport(c *gin.Context) {
	report, err := h.service.UserActivityReport()
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) songPopularityReport(c *gin.Context) {
	report, err := h.service.SongPopularityReport()
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, report)
}
