package handlers

import (
	"net/http"
	"time"

	"resto-pos/middleware"
	"resto-pos/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login authenticates a staff member and returns a JWT.
// Accepts JSON or form bodies.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		failBinding(c, err)
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(&user, h.Secret)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	ok(c, http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout revokes the caller's token
func (h *Handler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.ID == "" {
		ok(c, http.StatusOK, nil)
		return
	}
	expires := time.Now().Add(middleware.TokenTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	revoked := models.RevokedToken{ID: claims.ID, ExpiresAt: expires}
	if err := h.DB.Create(&revoked).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to log out")
		return
	}
	// Drop revocations that can no longer be presented
	h.DB.Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{})
	ok(c, http.StatusOK, nil)
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *gin.Context) {
	var user models.User
	if err := h.DB.First(&user, middleware.GetUserID(c)).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, http.StatusOK, user)
}
