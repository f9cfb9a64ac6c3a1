package analytics

import (
	"strconv"

	"github.com/amitesh-7/predictwise-ai-sub000/services"
	"github.com/amitesh-7/predictwise-ai-sub000/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AnalyticsHandler handles analytics and reporting requests
type AnalyticsHandler struct {
	db               *gorm.DB
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		db:               db,
		analyticsService: analyticsService,
	}
}

// GetDashboard handles GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c *fiber.Ctx) error {
	stats, err := h.analyticsService.GetDashboardStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute dashboard statistics")
	}

	return response.Success(c, stats)
}

// GetSubjects handles GET /api/v1/analytics/subjects
func (h *AnalyticsHandler) GetSubjects(c *fiber.Ctx) error {
	stats, err := h.analyticsService.GetSubjectStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute subject statistics")
	}

	return response.Success(c, fiber.Map{
		"subjects": stats,
		"total":    len(stats),
	})
}

// GetTopKeywords handles GET /api/v1/analytics/keywords
func (h *AnalyticsHandler) GetTopKeywords(c *fiber.Ctx) error {
	subject := c.Query("subject")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	keywords, err := h.analyticsService.GetTopKeywords(c.Context(), subject, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to rank keywords")
	}

	return response.Success(c, fiber.Map{
		"subject":  subject,
		"keywords": keywords,
	})
}

// GetQuestionTypes handles GET /api/v1/analytics/question-types
// Optional paper_id query narrows the distribution to one paper
func (h *AnalyticsHandler) GetQuestionTypes(c *fiber.Ctx) error {
	paperID, _ := strconv.ParseUint(c.Query("paper_id", "0"), 10, 32)

	counts, err := h.analyticsService.GetQuestionTypeDistribution(c.Context(), uint(paperID))
	if err != nil {
		return response.InternalServerError(c, "Failed to compute question type distribution")
	}

	return response.Success(c, fiber.Map{
		"paper_id": paperID,
		"types":    counts,
	})
}
