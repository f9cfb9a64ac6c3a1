package analysis

import (
	"strconv"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
	"github.com/amitesh-7/predictwise-ai-sub000/services"
	"github.com/amitesh-7/predictwise-ai-sub000/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AnalysisHandler handles analysis and prediction requests
type AnalysisHandler struct {
	db              *gorm.DB
	analysisService *services.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(db *gorm.DB, analysisService *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		db:              db,
		analysisService: analysisService,
	}
}

// TriggerAnalysis handles POST /api/v1/papers/:id/analyze
// Starts the background pipeline and returns the job for status polling
func (h *AnalysisHandler) TriggerAnalysis(c *fiber.Ctx) error {
	paperID, err := parsePaperID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid paper ID")
	}

	job, err := h.analysisService.TriggerAnalysis(c.Context(), paperID)
	if err != nil {
		// An already-running job is a conflict, not a server error
		if active, aerr := h.analysisService.GetActiveJob(c.Context(), paperID); aerr == nil && active != "" {
			return response.Conflict(c, "Paper already has an active analysis job: "+active)
		}
		return response.BadRequest(c, err.Error())
	}

	return response.SuccessWithMessage(c, "Analysis started", fiber.Map{
		"job_id":   job.JobID,
		"paper_id": job.PaperID,
		"status":   job.Status,
	})
}

// GetJobStatus handles GET /api/v1/analysis/jobs/:job_id
func (h *AnalysisHandler) GetJobStatus(c *fiber.Ctx) error {
	jobID := c.Params("job_id")
	if jobID == "" {
		return response.BadRequest(c, "Missing job ID")
	}

	job, err := h.analysisService.GetJob(c.Context(), jobID)
	if err != nil {
		return response.NotFound(c, "Job not found or expired")
	}

	return response.Success(c, job)
}

// CancelJob handles POST /api/v1/analysis/jobs/:job_id/cancel
func (h *AnalysisHandler) CancelJob(c *fiber.Ctx) error {
	jobID := c.Params("job_id")
	if jobID == "" {
		return response.BadRequest(c, "Missing job ID")
	}

	if err := h.analysisService.CancelJob(c.Context(), jobID); err != nil {
		return response.NotFound(c, "Job not found or expired")
	}

	return response.SuccessWithMessage(c, "Job cancelled", nil)
}

// GetActiveJob handles GET /api/v1/papers/:id/analysis
// Returns the running job for a paper, or the paper's stored status when idle
func (h *AnalysisHandler) GetActiveJob(c *fiber.Ctx) error {
	paperID, err := parsePaperID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid paper ID")
	}

	jobID, err := h.analysisService.GetActiveJob(c.Context(), paperID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check active job")
	}

	if jobID == "" {
		var paper model.ExamPaper
		if err := h.db.First(&paper, paperID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Paper not found")
			}
			return response.InternalServerError(c, "Failed to fetch paper")
		}
		return response.Success(c, fiber.Map{
			"active":          false,
			"analysis_status": paper.AnalysisStatus,
			"analysis_error":  paper.AnalysisError,
		})
	}

	job, err := h.analysisService.GetJob(c.Context(), jobID)
	if err != nil {
		return response.Success(c, fiber.Map{"active": false})
	}

	return response.Success(c, fiber.Map{
		"active": true,
		"job":    job,
	})
}

// ListPredictions handles GET /api/v1/papers/:id/predictions
func (h *AnalysisHandler) ListPredictions(c *fiber.Ctx) error {
	paperID, err := parsePaperID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid paper ID")
	}

	var paper model.ExamPaper
	if err := h.db.First(&paper, paperID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Paper not found")
		}
		return response.InternalServerError(c, "Failed to fetch paper")
	}

	sets, err := h.analysisService.GetPredictions(c.Context(), paperID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch predictions")
	}

	responses := make([]*model.PredictionSetResponse, 0, len(sets))
	for i := range sets {
		responses = append(responses, sets[i].ToResponse())
	}

	return response.Success(c, fiber.Map{
		"paper_id":    paperID,
		"total":       len(responses),
		"predictions": responses,
	})
}

// GetPredictionSet handles GET /api/v1/predictions/:uuid
func (h *AnalysisHandler) GetPredictionSet(c *fiber.Ctx) error {
	setUUID := c.Params("uuid")
	if setUUID == "" {
		return response.BadRequest(c, "Missing prediction set UUID")
	}

	set, err := h.analysisService.GetPredictionSet(c.Context(), setUUID)
	if err != nil {
		return response.NotFound(c, "Prediction set not found")
	}

	return response.Success(c, set.ToResponse())
}

func parsePaperID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
