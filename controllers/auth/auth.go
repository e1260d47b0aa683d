package authController

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mohamedamineameur/comptia/config"
	"github.com/mohamedamineameur/comptia/database"
	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/models"
	authValidator "github.com/mohamedamineameur/comptia/validators/auth"
)

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func createSession(c *fiber.Ctx, db *gorm.DB, userID uint) (*models.Session, error) {
	sessionID, err := newSessionID()
	if err != nil {
		return nil, err
	}

	session := models.Session{
		SessionID: sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(config.AppConfig.SessionTTLHours) * time.Hour),
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func setSessionCookie(c *fiber.Ctx, session *models.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.SessionID,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

func safeUser(user *models.User) fiber.Map {
	return fiber.Map{
		"id":          user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
	}
}

// Register creates an account, opens a session and sets the sid cookie
func Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	db := database.Database.Db

	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeEmailAlreadyUsed, fiber.StatusConflict))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.ErrorResponse(c, err)
	}

	user := models.User{
		Email:        reqData.Email,
		PasswordHash: string(hashedPassword),
		DisplayName:  reqData.DisplayName,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.ErrorResponse(c, err)
	}

	session, err := createSession(c, db, user.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	setSessionCookie(c, session)

	token, err := middleware.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"user":  safeUser(&user),
		"token": token,
	})
}

// Login verifies credentials, opens a session and sets the sid cookie
func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidCredentials, fiber.StatusUnauthorized))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(reqData.Password)); err != nil {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidCredentials, fiber.StatusUnauthorized))
	}

	session, err := createSession(c, db, user.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	setSessionCookie(c, session)

	token, err := middleware.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged in successfully.", fiber.Map{
		"user":  safeUser(&user),
		"token": token,
	})
}

// Me returns the authenticated user
func Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Current user.", safeUser(&user))
}

// Logout revokes the active session and clears the cookie
func Logout(c *fiber.Ctx) error {
	if sid := c.Cookies(middleware.SessionCookieName); sid != "" {
		now := time.Now()
		database.Database.Db.Model(&models.Session{}).
			Where("session_id = ?", sid).
			Update("revoked_at", now)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out.", nil)
}
