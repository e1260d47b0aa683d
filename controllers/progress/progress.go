package progressController

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/services"
	"github.com/mohamedamineameur/comptia/utils"
)

var service *services.ProgressService

// Init injects the progress service, called once from route setup
func Init(progressService *services.ProgressService) {
	service = progressService
}

func currentUser(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userId").(uint)
	return userID, ok
}

// GetSummary returns overall answer counts, accuracy and mastery averages
func GetSummary(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}

	summary, err := service.GetSummary(userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.JSON(summary)
}

// GetByDomain returns mastery averaged per domain
func GetByDomain(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}

	rows, err := service.GetByDomain(userID, utils.ResolveLocale(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.JSON(rows)
}

// GetBySubObjective returns per-sub-objective mastery rows
func GetBySubObjective(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}

	rows, err := service.GetBySubObjective(userID, utils.ResolveLocale(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.JSON(rows)
}

// GetDailyStats returns the 7-day activity window
func GetDailyStats(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}

	stats, err := service.GetDailyStats(userID, services.DefaultDailyStatsDays)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.JSON(stats)
}

// GetWeakAreas returns the lowest-mastery sub-objectives
func GetWeakAreas(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}

	areas, err := service.GetWeakAreas(userID, utils.ResolveLocale(c), services.DefaultWeakAreaLimit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.JSON(areas)
}

// GetNextBest returns the recommended next sub-objective, or null
func GetNextBest(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}

	recommendation, err := service.GetNextBest(userID, utils.ResolveLocale(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.JSON(recommendation)
}

// GetDashboard returns every progress view in one payload
func GetDashboard(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}

	dashboard, err := service.GetDashboard(userID, utils.ResolveLocale(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.JSON(dashboard)
}
