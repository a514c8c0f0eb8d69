package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cifrabox/cifrabox/internal/app"
	"github.com/cifrabox/cifrabox/internal/auth"
	"github.com/cifrabox/cifrabox/internal/fetch"
	"github.com/cifrabox/cifrabox/internal/store"
)

const userIDKey = "userID"

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	User      *store.User `json:"user"`
}

type favoriteRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	user, err := s.store.CreateUser(c.Request.Context(), req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, err := s.store.UserByUsername(c.Request.Context(), req.Username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, expires, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: expires.UTC().Format(time.RFC3339), User: user})
}

// search never answers 5xx: provider faults already degrade to an empty
// list inside the service.
func (s *Server) search(c *gin.Context) {
	results, err := s.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) page(c *gin.Context) {
	res, err := s.svc.Page(c.Request.Context(), c.Query("url"))
	if err != nil {
		var te *fetch.TransportError
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid url"})
		case errors.As(err, &te):
			c.JSON(http.StatusBadGateway, gin.H{"error": te.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "extraction failed"})
		}
		return
	}
	switch {
	case res.Sheet != nil:
		c.JSON(http.StatusOK, res.Sheet)
	case res.Listing != nil:
		c.JSON(http.StatusOK, res.Listing)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "no recognized content"})
	}
}

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	userID, err := s.jwt.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

func currentUser(c *gin.Context) uuid.UUID {
	id, _ := c.Get(userIDKey)
	uid, _ := id.(uuid.UUID)
	return uid
}

func (s *Server) listFavorites(c *gin.Context) {
	favs, err := s.store.Favorites(c.Request.Context(), currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, favs)
}

func (s *Server) addFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	fav, err := s.store.AddFavorite(c.Request.Context(), currentUser(c), req.Title, req.URL)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateFavorite) {
			c.JSON(http.StatusConflict, gin.H{"error": "favorite already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "saving failed"})
		return
	}
	c.JSON(http.StatusCreated, fav)
}

func (s *Server) removeFavorite(c *gin.Context) {
	favID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid favorite id"})
		return
	}
	if err := s.store.RemoveFavorite(c.Request.Context(), currentUser(c), favID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "removal failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
