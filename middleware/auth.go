package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/mohamedamineameur/comptia/config"
	"github.com/mohamedamineameur/comptia/database"
	"github.com/mohamedamineameur/comptia/models"
)

// SessionCookieName is the cookie carrying the opaque session id
const SessionCookieName = "sid"

// GenerateJWT generates a bearer token for non-browser clients
func GenerateJWT(userID uint, email string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// RequireAuth resolves the caller from the sid session cookie, falling back to
// a Bearer token, and stores the user id in Locals. Unauthenticated requests
// get 401.
func RequireAuth(c *fiber.Ctx) error {
	if sid := c.Cookies(SessionCookieName); sid != "" {
		var session models.Session
		err := database.Database.Db.
			Where("session_id = ? AND revoked_at IS NULL AND expires_at > ?", sid, time.Now()).
			First(&session).Error
		if err == nil {
			c.Locals("userId", session.UserID)
			return c.Next()
		}
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString := authHeader[len("Bearer "):]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(config.AppConfig.JWTKey), nil
		})
		if err == nil && token.Valid {
			if claims, ok := token.Claims.(jwt.MapClaims); ok && claims["userId"] != nil {
				userID := claims["userId"].(float64) // JWT numeric claims decode as float64
				c.Locals("userId", uint(userID))
				return c.Next()
			}
		}
	}

	return ErrorResponse(c, NewAppError(CodeUnauthorized, fiber.StatusUnauthorized))
}

// RequireAdmin allows only users whose email is listed in ADMIN_EMAILS.
// Must run after RequireAuth.
func RequireAdmin(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return ErrorResponse(c, NewAppError(CodeUnauthorized, fiber.StatusUnauthorized))
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return ErrorResponse(c, NewAppError(CodeUnauthorized, fiber.StatusUnauthorized))
	}

	for _, email := range config.AppConfig.AdminEmails {
		if strings.EqualFold(email, user.Email) {
			return c.Next()
		}
	}
	return ErrorResponse(c, NewAppError(CodeForbidden, fiber.StatusForbidden))
}
