package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mohamedamineameur/comptia/utils"
)

// Stable error codes returned to clients
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
	CodeInvalidBody         = "INVALID_BODY"
	CodeInvalidQueryParam   = "INVALID_QUERY_PARAM"
	CodeInvalidEmail        = "INVALID_EMAIL"
	CodeInvalidPassword     = "INVALID_PASSWORD"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeEmailAlreadyUsed    = "EMAIL_ALREADY_USED"
	CodeQuotaExceeded       = "DAILY_GENERATION_QUOTA_EXCEEDED"
	CodeTooManyGenerations  = "TOO_MANY_GENERATION_REQUESTS"
	CodeQuestionNotFound    = "QUESTION_NOT_FOUND"
	CodeSubObjectiveMissing = "SUB_OBJECTIVE_NOT_FOUND"
	CodeInvalidChoice       = "INVALID_CHOICE"
	CodeOpenAIKeyMissing    = "OPENAI_API_KEY_MISSING"
	CodeOpenAIEmpty         = "OPENAI_EMPTY_RESPONSE"
	CodeOpenAIInvalidFormat = "OPENAI_INVALID_FORMAT"
	CodeOpenAIFailed        = "OPENAI_API_FAILED"
	CodeAdminInvalidPayload = "ADMIN_INVALID_PAYLOAD"
)

// AppError is an error with a stable code and an HTTP status
type AppError struct {
	Code   string
	Status int
}

func (e *AppError) Error() string {
	return e.Code
}

// NewAppError builds a typed error for the given code and HTTP status
func NewAppError(code string, status int) *AppError {
	return &AppError{Code: code, Status: status}
}

// errorMessages maps error codes to localized client messages
var errorMessages = map[string]map[utils.Locale]string{
	CodeBadRequest: {
		utils.LocaleFr: "Requete invalide.",
		utils.LocaleEn: "Invalid request.",
	},
	CodeUnauthorized: {
		utils.LocaleFr: "Authentification requise.",
		utils.LocaleEn: "Authentication required.",
	},
	CodeForbidden: {
		utils.LocaleFr: "Acces refuse.",
		utils.LocaleEn: "Access denied.",
	},
	CodeNotFound: {
		utils.LocaleFr: "Ressource introuvable.",
		utils.LocaleEn: "Resource not found.",
	},
	CodeConflict: {
		utils.LocaleFr: "Conflit de donnees.",
		utils.LocaleEn: "Data conflict.",
	},
	CodeInternal: {
		utils.LocaleFr: "Erreur interne du serveur.",
		utils.LocaleEn: "Internal server error.",
	},
	CodeInvalidBody: {
		utils.LocaleFr: "Corps de requete invalide.",
		utils.LocaleEn: "Invalid request body.",
	},
	CodeInvalidQueryParam: {
		utils.LocaleFr: "Parametre de requete invalide.",
		utils.LocaleEn: "Invalid query parameter.",
	},
	CodeInvalidEmail: {
		utils.LocaleFr: "Adresse email invalide.",
		utils.LocaleEn: "Invalid email address.",
	},
	CodeInvalidPassword: {
		utils.LocaleFr: "Mot de passe invalide (8 caracteres minimum).",
		utils.LocaleEn: "Invalid password (minimum 8 characters).",
	},
	CodeInvalidCredentials: {
		utils.LocaleFr: "Identifiants invalides.",
		utils.LocaleEn: "Invalid credentials.",
	},
	CodeEmailAlreadyUsed: {
		utils.LocaleFr: "Cet email est deja utilise.",
		utils.LocaleEn: "This email is already used.",
	},
	CodeQuotaExceeded: {
		utils.LocaleFr: "Quota journalier de generation atteint.",
		utils.LocaleEn: "Daily generation quota reached.",
	},
	CodeTooManyGenerations: {
		utils.LocaleFr: "Trop de generations en peu de temps.",
		utils.LocaleEn: "Too many generation requests in a short time.",
	},
	CodeQuestionNotFound: {
		utils.LocaleFr: "Question introuvable.",
		utils.LocaleEn: "Question not found.",
	},
	CodeSubObjectiveMissing: {
		utils.LocaleFr: "Sous-objectif introuvable.",
		utils.LocaleEn: "Sub-objective not found.",
	},
	CodeInvalidChoice: {
		utils.LocaleFr: "Choix de reponse invalide.",
		utils.LocaleEn: "Invalid answer choice.",
	},
	CodeOpenAIKeyMissing: {
		utils.LocaleFr: "Cle API du fournisseur de generation absente.",
		utils.LocaleEn: "Generation provider API key is missing.",
	},
	CodeOpenAIEmpty: {
		utils.LocaleFr: "Reponse vide du fournisseur de generation.",
		utils.LocaleEn: "Empty response from the generation provider.",
	},
	CodeOpenAIInvalidFormat: {
		utils.LocaleFr: "Format invalide renvoye par le fournisseur de generation.",
		utils.LocaleEn: "Invalid format returned by the generation provider.",
	},
	CodeOpenAIFailed: {
		utils.LocaleFr: "Service externe indisponible temporairement.",
		utils.LocaleEn: "External service temporarily unavailable.",
	},
	CodeAdminInvalidPayload: {
		utils.LocaleFr: "Donnees administrateur invalides.",
		utils.LocaleEn: "Invalid admin payload.",
	},
}

// LocalizedMessage returns the client message for a code, falling back to the
// internal error message when the code is unknown
func LocalizedMessage(code string, locale utils.Locale) string {
	if byLocale, ok := errorMessages[code]; ok {
		if msg, ok := byLocale[locale]; ok {
			return msg
		}
	}
	return errorMessages[CodeInternal][locale]
}

// NormalizeError converts any error to an AppError with a stable code
func NormalizeError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewAppError(CodeNotFound, fiber.StatusNotFound)
	}
	return NewAppError(CodeInternal, fiber.StatusInternalServerError)
}

// ErrorResponse normalizes err and replies with the stable {code, message}
// shape, localized by request locale
func ErrorResponse(c *fiber.Ctx, err error) error {
	appErr := NormalizeError(err)
	if appErr.Status >= fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	}
	locale := utils.ResolveLocale(c)
	return c.Status(appErr.Status).JSON(fiber.Map{
		"code":    appErr.Code,
		"message": LocalizedMessage(appErr.Code, locale),
	})
}

// JsonResponse replies with the standard success envelope
func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// ValidationErrorResponse replies with per-field validation errors
func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", errors)
}
