package catalogController

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mohamedamineameur/comptia/database"
	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/models"
	"github.com/mohamedamineameur/comptia/utils"
)

type catalogNode struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// GetExams lists all exams
func GetExams(c *fiber.Ctx) error {
	var exams []models.Exam
	if err := database.Database.Db.Order("code asc").Find(&exams).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	out := make([]catalogNode, len(exams))
	for i, exam := range exams {
		out[i] = catalogNode{ID: exam.ID, Code: exam.Code, Name: exam.Title}
	}
	return c.JSON(out)
}

// GetDomains lists the domains of an exam, localized
func GetDomains(c *fiber.Ctx) error {
	examCode := c.Query("exam")
	if examCode == "" {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidQueryParam, fiber.StatusBadRequest))
	}
	locale := utils.ResolveLocale(c)
	db := database.Database.Db

	var exam models.Exam
	if err := db.Where("code = ?", examCode).First(&exam).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var domains []models.Domain
	if err := db.Where("exam_id = ?", exam.ID).Order("code asc").Find(&domains).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	out := make([]catalogNode, len(domains))
	for i, domain := range domains {
		out[i] = catalogNode{
			ID:   domain.ID,
			Code: domain.Code,
			Name: utils.PickLocalized(domain.NameEn, domain.NameFr, locale, domain.Code),
		}
	}
	return c.JSON(out)
}

// GetObjectives lists the objectives of a domain, localized
func GetObjectives(c *fiber.Ctx) error {
	domainCode := c.Query("domain")
	if domainCode == "" {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidQueryParam, fiber.StatusBadRequest))
	}
	locale := utils.ResolveLocale(c)
	db := database.Database.Db

	var domain models.Domain
	if err := db.Where("code = ?", domainCode).First(&domain).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var objectives []models.Objective
	if err := db.Where("domain_id = ?", domain.ID).Order("code asc").Find(&objectives).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	out := make([]catalogNode, len(objectives))
	for i, objective := range objectives {
		out[i] = catalogNode{
			ID:   objective.ID,
			Code: objective.Code,
			Name: utils.PickLocalized(objective.TitleEn, objective.TitleFr, locale, objective.Code),
		}
	}
	return c.JSON(out)
}

// GetSubObjectives lists the sub-objectives of an objective, localized
func GetSubObjectives(c *fiber.Ctx) error {
	objectiveCode := c.Query("objective")
	if objectiveCode == "" {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidQueryParam, fiber.StatusBadRequest))
	}
	locale := utils.ResolveLocale(c)
	db := database.Database.Db

	var objective models.Objective
	if err := db.Where("code = ?", objectiveCode).First(&objective).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var subObjectives []models.SubObjective
	if err := db.Where("objective_id = ?", objective.ID).Order("code asc").Find(&subObjectives).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	out := make([]catalogNode, len(subObjectives))
	for i, subObjective := range subObjectives {
		out[i] = catalogNode{
			ID:   subObjective.ID,
			Code: subObjective.Code,
			Name: utils.PickLocalized(subObjective.TitleEn, subObjective.TitleFr, locale, subObjective.Code),
		}
	}
	return c.JSON(out)
}

// GetTopics lists the topics of a sub-objective, localized
func GetTopics(c *fiber.Ctx) error {
	subObjectiveCode := c.Query("subObjective")
	if subObjectiveCode == "" {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidQueryParam, fiber.StatusBadRequest))
	}
	locale := utils.ResolveLocale(c)
	db := database.Database.Db

	var subObjective models.SubObjective
	if err := db.Where("code = ?", subObjectiveCode).First(&subObjective).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var topics []models.Topic
	if err := db.Where("sub_objective_id = ?", subObjective.ID).Order("code asc").Find(&topics).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	out := make([]catalogNode, len(topics))
	for i, topic := range topics {
		out[i] = catalogNode{
			ID:   topic.ID,
			Code: topic.Code,
			Name: utils.PickLocalized(topic.NameEn, topic.NameFr, locale, topic.Code),
		}
	}
	return c.JSON(out)
}
