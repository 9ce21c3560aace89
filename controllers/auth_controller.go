package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marco-deluca/pizza-orders-api/config"
	"github.com/marco-deluca/pizza-orders-api/middleware"
	"github.com/marco-deluca/pizza-orders-api/models"
	"github.com/marco-deluca/pizza-orders-api/services"
)

// SignUpRequest represents the request body for registering a user
type SignUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IsActive bool   `json:"is_active"`
	IsStaff  bool   `json:"is_staff"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HelloAuth handles GET /auth/ - a token-gated liveness probe
func HelloAuth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "hello_auth"})
}

// SignUp handles POST /auth/signup - registers a new user.
// The password is stored only after one-way hashing and is never returned.
func SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	db := config.GetDB()

	// Reject duplicate email or username up front. The original system only
	// checked email; the username column is unique as well, so a taken
	// username surfaces as the same domain error instead of a raw DB failure.
	var existing models.User
	if err := db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "user already exists"})
		return
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to hash password"})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		IsActive: req.IsActive,
		IsStaff:  req.IsStaff,
	}

	if err := db.Create(&user).Error; err != nil {
		// A concurrent registration can slip past the lookup above and land
		// on the unique index instead; surface it as the same domain error.
		if isDuplicateUserError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "user already exists"})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// isDuplicateUserError reports whether err is a unique-constraint violation
// (works with both PostgreSQL and SQLite)
func isDuplicateUserError(err error) bool {
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}

// Login handles POST /auth/login - verifies credentials and issues a token pair
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid user login"})
		return
	}

	if !services.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid user login"})
		return
	}

	pair, err := services.IssueTokenPair(config.GetConfig(), user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue tokens"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh handles GET /auth/refresh - mints a new access token for the
// subject of a presented refresh token. The refresh-class check happens in
// middleware.RequireRefreshToken.
func Refresh(c *gin.Context) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "invalid refresh token"})
		return
	}

	accessToken, err := services.IssueAccessToken(config.GetConfig(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

// GetMe handles GET /auth/me - returns the acting user's record
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, user)
}
