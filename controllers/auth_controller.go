package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Monikarana27/ChatBud/middleware"
	"github.com/Monikarana27/ChatBud/models"
	"github.com/Monikarana27/ChatBud/store"
	"github.com/Monikarana27/ChatBud/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionMaxAge = 7 * 24 * time.Hour

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	// Email accepts an email address or a username.
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	users     *store.Users
	jwtSecret string
}

func NewAuthController(users *store.Users, jwtSecret string) *AuthController {
	return &AuthController{users: users, jwtSecret: jwtSecret}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account; the username is derived from the email local part
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body RegisterInput true "Registration"
// @Success 201 {object} map[string]interface{} "Registered"
// @Failure 400 {object} map[string]interface{} "Invalid input"
// @Failure 409 {object} map[string]interface{} "Email already registered"
// @Failure 500 {object} map[string]interface{} "Server error"
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and password are required"})
		return
	}

	base := strings.SplitN(input.Email, "@", 2)[0]
	username, err := ac.users.NextAvailableUsername(base)
	if err != nil {
		log.Printf("register: resolving username for %q failed: %v", input.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register"})
		return
	}

	user := models.User{
		Username: username,
		Email:    input.Email,
		Password: input.Password,
		LastSeen: time.Now(),
	}
	if err := ac.users.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Email already registered"})
			return
		}
		log.Printf("register: creating user %q failed: %v", input.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to register"})
		return
	}

	if !ac.setSession(c, user.ID) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    gin.H{"id": user.ID, "username": user.Username},
	})
}

// Login godoc
// @Summary Log in
// @Description Authenticates by email or username plus password and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{} "Logged in"
// @Failure 400 {object} map[string]interface{} "Missing fields"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Failure 500 {object} map[string]interface{} "Server error"
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and password are required"})
		return
	}

	user, err := ac.users.FindByEmailOrUsername(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
			return
		}
		log.Printf("login: lookup for %q failed: %v", input.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to log in"})
		return
	}

	if err := user.ValidatePassword(input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}

	if !ac.setSession(c, user.ID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    gin.H{"id": user.ID, "username": user.Username},
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Logged out"
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CurrentUser godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Current user"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Router /api/user [get]
func (ac *AuthController) CurrentUser(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	user, err := ac.users.FindByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    gin.H{"id": user.ID, "username": user.Username},
	})
}

// setSession issues the identity token and sets it as an httpOnly cookie. On
// failure it writes the error response and returns false.
func (ac *AuthController) setSession(c *gin.Context, userID uint) bool {
	token, err := utils.GenerateToken(userID, ac.jwtSecret)
	if err != nil {
		log.Printf("auth: generating token failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to establish session"})
		return false
	}
	c.SetCookie(middleware.SessionCookie, token, int(sessionMaxAge.Seconds()), "/", "", false, true)
	return true
}
