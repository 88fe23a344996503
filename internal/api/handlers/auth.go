// Package handlers holds the gin handler functions for the HTTP API,
// scoped to bare account management: registration, login, logout, and the
// current-user lookup that gate access to the planning endpoints. Broader
// profile or password-reset flows are out of scope for an operator-auth
// layer in front of a planning service.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apimodels "github.com/oleamind/cropplanner/internal/api/models"
	"github.com/oleamind/cropplanner/internal/api/userstore"
)

// AuthHandlers bundles the account store and signing secret every auth
// endpoint needs.
type AuthHandlers struct {
	Store     *userstore.Store
	JWTSecret string
}

type registerBody struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Register creates a new operator account and returns a signed token.
func (h AuthHandlers) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := apimodels.User{
		Email:     body.Email,
		Password:  string(hash),
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Active:    true,
	}
	if err := h.Store.Create(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists or invalid data"})
		return
	}

	token, err := h.sign(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": userView(user)})
}

type loginBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an operator and returns a signed token.
func (h AuthHandlers) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.Store.FindByEmail(c.Request.Context(), body.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if !user.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := h.sign(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	if err := h.Store.RecordLogin(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record login"})
		return
	}
	setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": userView(user)})
}

// Logout clears the auth cookie. Token revocation is client-side; the API
// issues short-lived tokens and carries no server-side blocklist.
func (h AuthHandlers) Logout(c *gin.Context) {
	c.SetCookie("Authorization", "", -1, "", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// GetCurrentUser returns the caller's own account, as loaded by the auth
// middleware.
func (h AuthHandlers) GetCurrentUser(c *gin.Context) {
	raw, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(raw.(apimodels.User))})
}

func (h AuthHandlers) sign(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(h.JWTSecret))
}

func setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("Authorization", token, 3600*24, "", "", false, true)
}

func userView(u apimodels.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"active":    u.Active,
		"lastLogin": u.LastLogin,
	}
}
