package auth

import (
	"io"
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

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, secret string) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)

		protected := authGroup.Group("", Middleware(h.service.sessions, secret))
		protected.POST("/logout", h.logout)
		protected.GET("/me", h.me)
	}
}

func (h *Handler) register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	if password != confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords don't match"})
		return
	}

	var image io.Reader
	imageName := ""
	if fileHeader, err := c.FormFile("profile_picture"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read profile picture"})
			return
		}
		defer f.Close()
		image = f
		imageName = fileHeader.Filename
	}

	user, err := h.service.Register(c.Request.Context(), username, email, password, image, imageName)
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) logout(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.service.GetUser(UserID(c))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"error": apperrors.Message(err)})
		return
	}
	c.JSON(http.StatusOK, user)
}
