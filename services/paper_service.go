package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"time"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
	"github.com/amitesh-7/predictwise-ai-sub000/services/storage"
	"github.com/amitesh-7/predictwise-ai-sub000/utils/pdfvalidation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// paperStoragePrefix groups uploaded papers under one key prefix in Spaces
const paperStoragePrefix = "papers"

// PaperService manages uploaded exam papers
type PaperService struct {
	db     *gorm.DB
	spaces *storage.SpacesClient
	limits pdfvalidation.PDFLimits
}

// NewPaperService creates a new paper service
func NewPaperService(db *gorm.DB, spaces *storage.SpacesClient, maxUploadMB int) *PaperService {
	return &PaperService{
		db:     db,
		spaces: spaces,
		limits: pdfvalidation.PaperLimits(maxUploadMB),
	}
}

// UploadPaperInput holds the metadata submitted with a paper upload
type UploadPaperInput struct {
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Subject  string `json:"subject" validate:"required,min=2,max=255"`
	Year     int    `json:"year" validate:"omitempty,min=1990,max=2100"`
	ExamType string `json:"exam_type" validate:"omitempty,max=50"`
}

// UploadPaper validates the PDF, stores it in Spaces, and creates the paper
// record in pending analysis state
func (s *PaperService) UploadPaper(ctx context.Context, file *multipart.FileHeader, input UploadPaperInput) (*model.ExamPaper, error) {
	validation, err := pdfvalidation.ValidatePDFFile(file, s.limits)
	if err != nil {
		return nil, fmt.Errorf("failed to validate PDF: %w", err)
	}
	if !validation.Valid {
		return nil, fmt.Errorf("invalid exam paper: %s", validation.Error)
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer fileContent.Close()

	content, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	storageKey := storage.GenerateKey(paperStoragePrefix, file.Filename)
	fileURL, err := s.spaces.UploadBytes(ctx, storageKey, content, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to store exam paper: %w", err)
	}

	paper := &model.ExamPaper{
		UUID:           uuid.NewString(),
		Title:          input.Title,
		Subject:        input.Subject,
		Year:           input.Year,
		ExamType:       input.ExamType,
		StorageKey:     storageKey,
		FileURL:        fileURL,
		FileSize:       validation.FileSize,
		PageCount:      validation.PageCount,
		AnalysisStatus: model.AnalysisPending,
	}

	if err := s.db.WithContext(ctx).Create(paper).Error; err != nil {
		// Best effort cleanup of the orphaned object
		if delErr := s.spaces.DeleteFile(ctx, storageKey); delErr != nil {
			log.Printf("Paper Service: Failed to clean up orphaned object %s: %v", storageKey, delErr)
		}
		return nil, fmt.Errorf("failed to create paper record: %w", err)
	}

	log.Printf("Paper Service: Uploaded paper %d (%s, %d pages)", paper.ID, paper.Subject, paper.PageCount)

	return paper, nil
}

// GetPaper fetches a paper by ID, optionally preloading its questions
func (s *PaperService) GetPaper(ctx context.Context, id uint, withQuestions bool) (*model.ExamPaper, error) {
	query := s.db.WithContext(ctx)
	if withQuestions {
		query = query.Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
	}

	var paper model.ExamPaper
	if err := query.First(&paper, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("paper not found: %d", id)
		}
		return nil, fmt.Errorf("failed to fetch paper: %w", err)
	}
	return &paper, nil
}

// GetPaperByUUID fetches a paper by its public UUID
func (s *PaperService) GetPaperByUUID(ctx context.Context, paperUUID string, withQuestions bool) (*model.ExamPaper, error) {
	query := s.db.WithContext(ctx)
	if withQuestions {
		query = query.Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
	}

	var paper model.ExamPaper
	if err := query.Where("uuid = ?", paperUUID).First(&paper).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("paper not found: %s", paperUUID)
		}
		return nil, fmt.Errorf("failed to fetch paper: %w", err)
	}
	return &paper, nil
}

// ListPapersFilter narrows the paper listing
type ListPapersFilter struct {
	Subject  string
	Year     int
	ExamType string
	Status   model.PaperAnalysisStatus
}

// ListPapers returns a page of paper summaries plus the total count
func (s *PaperService) ListPapers(ctx context.Context, filter ListPapersFilter, page, limit int) ([]model.ExamPaperSummary, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&model.ExamPaper{})
	if filter.Subject != "" {
		query = query.Where("subject ILIKE ?", "%"+filter.Subject+"%")
	}
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.ExamType != "" {
		query = query.Where("exam_type = ?", filter.ExamType)
	}
	if filter.Status != "" {
		query = query.Where("analysis_status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count papers: %w", err)
	}

	var papers []model.ExamPaper
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&papers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list papers: %w", err)
	}

	summaries := make([]model.ExamPaperSummary, 0, len(papers))
	for i := range papers {
		summaries = append(summaries, papers[i].ToSummary())
	}

	return summaries, total, nil
}

// DeletePaper removes a paper, its questions, predictions, and the stored PDF
func (s *PaperService) DeletePaper(ctx context.Context, id uint) error {
	paper, err := s.GetPaper(ctx, id, false)
	if err != nil {
		return err
	}

	// Hard delete so the CASCADE clears questions and predictions
	if err := s.db.WithContext(ctx).Unscoped().Delete(&model.ExamPaper{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete paper: %w", err)
	}

	if paper.StorageKey != "" {
		if err := s.spaces.DeleteFile(ctx, paper.StorageKey); err != nil {
			log.Printf("Paper Service: Failed to delete stored object %s: %v", paper.StorageKey, err)
		}
	}

	log.Printf("Paper Service: Deleted paper %d", id)
	return nil
}

// GetDownloadURL returns a short-lived presigned URL for the stored PDF
func (s *PaperService) GetDownloadURL(paper *model.ExamPaper, expiration time.Duration) (string, error) {
	if paper.StorageKey == "" {
		return "", fmt.Errorf("paper %d has no stored file", paper.ID)
	}
	return s.spaces.GetPresignedURL(paper.StorageKey, expiration)
}

// GetQuestions returns the extracted questions for a paper in order
func (s *PaperService) GetQuestions(ctx context.Context, paperID uint) ([]model.ExtractedQuestion, error) {
	var questions []model.ExtractedQuestion
	err := s.db.WithContext(ctx).
		Where("paper_id = ?", paperID).
		Order("position ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %w", err)
	}
	return questions, nil
}

// ListSubjects returns the distinct subjects that have uploaded papers
func (s *PaperService) ListSubjects(ctx context.Context) ([]string, error) {
	var subjects []string
	err := s.db.WithContext(ctx).
		Model(&model.ExamPaper{}).
		Distinct("subject").
		Order("subject ASC").
		Pluck("subject", &subjects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}
