package authValidator

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mohamedamineameur/comptia/middleware"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterRequest is the validated body of POST /register
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the validated body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates the registration body
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidBody, fiber.StatusBadRequest))
		}

		reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))
		if reqData.Email == "" || !emailPattern.MatchString(reqData.Email) {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidEmail, fiber.StatusBadRequest))
		}
		if len(reqData.Password) < 8 {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidPassword, fiber.StatusBadRequest))
		}

		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

// Login validates the login body
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidBody, fiber.StatusBadRequest))
		}

		reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))
		if reqData.Email == "" || reqData.Password == "" {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidBody, fiber.StatusBadRequest))
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
