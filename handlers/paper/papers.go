package paper

import (
	"strconv"
	"time"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
	"github.com/amitesh-7/predictwise-ai-sub000/services"
	"github.com/amitesh-7/predictwise-ai-sub000/utils/response"
	"github.com/amitesh-7/predictwise-ai-sub000/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// downloadURLExpiry is how long a presigned paper download link stays valid
const downloadURLExpiry = 15 * time.Minute

// PaperHandler handles exam paper requests
type PaperHandler struct {
	db           *gorm.DB
	paperService *services.PaperService
	validator    *validation.Validator
}

// NewPaperHandler creates a new paper handler
func NewPaperHandler(db *gorm.DB, paperService *services.PaperService) *PaperHandler {
	return &PaperHandler{
		db:           db,
		paperService: paperService,
		validator:    validation.NewValidator(),
	}
}

// UploadPaper handles POST /api/v1/papers
// Expects multipart form with a "file" field plus title/subject metadata
func (h *PaperHandler) UploadPaper(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Missing file field in multipart form")
	}

	year, _ := strconv.Atoi(c.FormValue("year"))

	input := services.UploadPaperInput{
		Title:    validation.SanitizeString(c.FormValue("title")),
		Subject:  validation.SanitizeString(c.FormValue("subject")),
		Year:     year,
		ExamType: validation.SanitizeString(c.FormValue("exam_type")),
	}

	if input.Title == "" {
		input.Title = file.Filename
	}

	if err := h.validator.ValidateStruct(input); err != nil {
		return response.ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
			"Validation failed", "VALIDATION_ERROR", formatErrors(err))
	}

	paper, err := h.paperService.UploadPaper(c.Context(), file, input)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, paper.ToResponse())
}

// ListPapers handles GET /api/v1/papers
func (h *PaperHandler) ListPapers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	year, _ := strconv.Atoi(c.Query("year", "0"))

	filter := services.ListPapersFilter{
		Subject:  c.Query("subject"),
		Year:     year,
		ExamType: c.Query("exam_type"),
		Status:   model.PaperAnalysisStatus(c.Query("status")),
	}

	papers, total, err := h.paperService.ListPapers(c.Context(), filter, page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list papers")
	}

	return response.Paginated(c, papers, response.CalculatePagination(page, limit, total))
}

// GetPaper handles GET /api/v1/papers/:id
func (h *PaperHandler) GetPaper(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid paper ID")
	}

	withQuestions := c.Query("questions", "true") != "false"

	paper, err := h.paperService.GetPaper(c.Context(), id, withQuestions)
	if err != nil {
		return response.NotFound(c, "Paper not found")
	}

	return response.Success(c, paper.ToResponse())
}

// GetQuestions handles GET /api/v1/papers/:id/questions
func (h *PaperHandler) GetQuestions(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid paper ID")
	}

	if _, err := h.paperService.GetPaper(c.Context(), id, false); err != nil {
		return response.NotFound(c, "Paper not found")
	}

	questions, err := h.paperService.GetQuestions(c.Context(), id)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch questions")
	}

	return response.Success(c, fiber.Map{
		"paper_id":  id,
		"total":     len(questions),
		"questions": questions,
	})
}

// GetDownloadURL handles GET /api/v1/papers/:id/download
func (h *PaperHandler) GetDownloadURL(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid paper ID")
	}

	paper, err := h.paperService.GetPaper(c.Context(), id, false)
	if err != nil {
		return response.NotFound(c, "Paper not found")
	}

	url, err := h.paperService.GetDownloadURL(paper, downloadURLExpiry)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate download URL")
	}

	return response.Success(c, fiber.Map{
		"url":        url,
		"expires_in": int(downloadURLExpiry.Seconds()),
	})
}

// DeletePaper handles DELETE /api/v1/papers/:id
func (h *PaperHandler) DeletePaper(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid paper ID")
	}

	if err := h.paperService.DeletePaper(c.Context(), id); err != nil {
		return response.NotFound(c, "Paper not found")
	}

	return response.SuccessWithMessage(c, "Paper deleted", nil)
}

// ListSubjects handles GET /api/v1/subjects
func (h *PaperHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.paperService.ListSubjects(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list subjects")
	}

	return response.Success(c, fiber.Map{
		"subjects": subjects,
		"total":    len(subjects),
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func formatErrors(err error) string {
	fields := validation.FormatValidationErrors(err)
	msg := ""
	for _, v := range fields {
		if msg != "" {
			msg += "; "
		}
		msg += v
	}
	if msg == "" {
		msg = err.Error()
	}
	return msg
}
