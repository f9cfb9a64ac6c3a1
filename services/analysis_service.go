package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
	"github.com/amitesh-7/predictwise-ai-sub000/services/extraction"
	"github.com/amitesh-7/predictwise-ai-sub000/services/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// analysisTimeout bounds a full background pipeline run
const analysisTimeout = 15 * time.Minute

// AnalysisService orchestrates the paper analysis pipeline: fetch the PDF,
// extract text (OCR fallback for scanned papers), run question extraction,
// persist the questions, and generate a predicted paper.
type AnalysisService struct {
	db           *gorm.DB
	spaces       *storage.SpacesClient
	tracker      *ProgressTracker
	pdfExtractor *PDFExtractor
	ocrClient    *OCRClient
	predictor    Predictor
	fallback     Predictor
}

// NewAnalysisService creates the analysis orchestrator. predictor may be nil
// when no inference API is configured; the heuristic fallback then handles
// all predictions.
func NewAnalysisService(
	db *gorm.DB,
	spaces *storage.SpacesClient,
	tracker *ProgressTracker,
	ocrClient *OCRClient,
	predictor Predictor,
) *AnalysisService {
	return &AnalysisService{
		db:           db,
		spaces:       spaces,
		tracker:      tracker,
		pdfExtractor: NewPDFExtractor(),
		ocrClient:    ocrClient,
		predictor:    predictor,
		fallback:     NewHeuristicPredictor(),
	}
}

// TriggerAnalysis starts the pipeline for a paper in the background and
// returns the created job
func (s *AnalysisService) TriggerAnalysis(ctx context.Context, paperID uint) (*model.AnalysisJob, error) {
	var paper model.ExamPaper
	if err := s.db.WithContext(ctx).First(&paper, paperID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("paper not found: %d", paperID)
		}
		return nil, fmt.Errorf("failed to fetch paper: %w", err)
	}

	job, err := s.tracker.CreateJob(ctx, paper.ID)
	if err != nil {
		return nil, err
	}

	// Detached context, the HTTP request that triggered us will finish first
	go s.runAnalysis(job.JobID, paper.ID)

	return job, nil
}

// runAnalysis executes the full pipeline for one job
func (s *AnalysisService) runAnalysis(jobID string, paperID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Analysis: panic in job %s: %v", jobID, r)
			s.failJob(ctx, jobID, paperID, fmt.Errorf("internal error: %v", r))
		}
	}()

	s.progress(ctx, jobID, "started", "download", "Downloading paper from storage")
	s.setPaperStatus(ctx, paperID, model.AnalysisProcessing, "")

	var paper model.ExamPaper
	if err := s.db.WithContext(ctx).First(&paper, paperID).Error; err != nil {
		s.failJob(ctx, jobID, paperID, fmt.Errorf("failed to load paper: %w", err))
		return
	}

	content, err := s.spaces.DownloadFile(ctx, paper.StorageKey)
	if err != nil {
		s.failJob(ctx, jobID, paperID, fmt.Errorf("failed to download paper: %w", err))
		return
	}

	if s.cancelled(ctx, jobID, paperID) {
		return
	}

	// Phase: text extraction with OCR fallback
	s.progress(ctx, jobID, "progress", "extract", "Extracting text from PDF")

	text, ocrUsed, err := s.extractText(ctx, jobID, content, paper.Title)
	if err != nil {
		s.failJob(ctx, jobID, paperID, err)
		return
	}

	if s.cancelled(ctx, jobID, paperID) {
		return
	}

	// Phase: question extraction
	s.progress(ctx, jobID, "progress", "analyze", "Extracting questions from text")

	records := extraction.ExtractQuestionsWithMetadata(text)
	if len(records) == 0 {
		s.failJob(ctx, jobID, paperID, fmt.Errorf("no valid questions found in paper"))
		return
	}

	log.Printf("Analysis: Job %s extracted %d questions from paper %d", jobID, len(records), paperID)

	if err := s.saveQuestions(ctx, &paper, extraction.Normalize(text), records, ocrUsed); err != nil {
		s.failJob(ctx, jobID, paperID, err)
		return
	}

	if s.cancelled(ctx, jobID, paperID) {
		return
	}

	// Phase: prediction
	s.progress(ctx, jobID, "progress", "predict", "Generating predicted paper")

	draft := s.predict(ctx, jobID, &paper, records)

	var setID uint
	if draft != nil {
		s.progress(ctx, jobID, "progress", "save", "Saving prediction set")
		set, err := s.savePrediction(ctx, paper.ID, draft)
		if err != nil {
			// Questions are already saved, a failed prediction should not
			// discard the analysis
			log.Printf("Analysis: Job %s failed to save prediction: %v", jobID, err)
		} else {
			setID = set.ID
		}
	}

	s.setPaperStatus(ctx, paperID, model.AnalysisCompleted, "")

	s.tracker.UpdateProgress(ctx, jobID, ProgressEvent{
		Type:            "complete",
		JobID:           jobID,
		Progress:        CalculateProgress("complete"),
		Phase:           "complete",
		Message:         fmt.Sprintf("Analysis complete: %d questions extracted", len(records)),
		QuestionsFound:  len(records),
		PredictionSetID: setID,
		Timestamp:       time.Now(),
	})

	log.Printf("Analysis: Job %s completed for paper %d", jobID, paperID)
}

// extractText pulls text from the PDF, falling back to OCR when the paper
// is scanned
func (s *AnalysisService) extractText(ctx context.Context, jobID string, content []byte, filename string) (string, bool, error) {
	text, err := s.pdfExtractor.ExtractText(content)
	if err == nil {
		return text, false, nil
	}

	if !errors.Is(err, ErrInsufficientText) {
		return "", false, fmt.Errorf("text extraction failed: %w", err)
	}

	if s.ocrClient == nil {
		return "", false, fmt.Errorf("paper appears to be scanned and no OCR service is configured: %w", err)
	}

	s.progress(ctx, jobID, "progress", "ocr", "Paper appears scanned, running OCR")
	log.Printf("Analysis: Job %s falling back to OCR", jobID)

	ocrResp, ocrErr := s.ocrClient.ProcessPDFFile(ctx, content, filename+".pdf")
	if ocrErr != nil {
		return "", false, fmt.Errorf("OCR fallback failed: %w", ocrErr)
	}
	if len(ocrResp.Text) == 0 {
		return "", false, fmt.Errorf("OCR produced no text")
	}

	return ocrResp.Text, true, nil
}

// predict runs the configured predictor and falls back to the heuristic on
// failure. Returns nil only when both predictors fail.
func (s *AnalysisService) predict(ctx context.Context, jobID string, paper *model.ExamPaper, records []extraction.QuestionRecord) *PredictionDraft {
	if s.predictor != nil {
		draft, err := s.predictor.Predict(ctx, paper, records)
		if err == nil {
			return draft
		}

		errType, recoverable := ClassifyError(err)
		log.Printf("Analysis: Job %s AI prediction failed (%s, recoverable=%v): %v", jobID, errType, recoverable, err)
		s.tracker.UpdateProgress(ctx, jobID, ProgressEvent{
			Type:         "warning",
			JobID:        jobID,
			Progress:     CalculateProgress("predict"),
			Phase:        "predict",
			Message:      "AI prediction failed, using frequency heuristic",
			ErrorType:    string(errType),
			ErrorMessage: err.Error(),
			Recoverable:  recoverable,
			Timestamp:    time.Now(),
		})
	}

	draft, err := s.fallback.Predict(ctx, paper, records)
	if err != nil {
		log.Printf("Analysis: Job %s heuristic prediction failed: %v", jobID, err)
		return nil
	}
	return draft
}

// saveQuestions replaces the paper's extracted questions in one transaction
func (s *AnalysisService) saveQuestions(ctx context.Context, paper *model.ExamPaper, sourceText string, records []extraction.QuestionRecord, ocrUsed bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-analysis replaces any previous extraction
		if err := tx.Unscoped().Where("paper_id = ?", paper.ID).Delete(&model.ExtractedQuestion{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous questions: %w", err)
		}

		questions := make([]model.ExtractedQuestion, 0, len(records))
		for _, r := range records {
			keywords, err := json.Marshal(r.Keywords)
			if err != nil {
				return fmt.Errorf("failed to encode keywords: %w", err)
			}

			questions = append(questions, model.ExtractedQuestion{
				PaperID:         paper.ID,
				Position:        r.ID,
				QuestionText:    r.Text,
				QuestionType:    string(r.EstimatedType),
				HasQuestionMark: r.HasQuestionMark,
				WordCount:       r.WordCount,
				Keywords:        keywords,
			})
		}

		if err := tx.Create(&questions).Error; err != nil {
			return fmt.Errorf("failed to save questions: %w", err)
		}

		updates := map[string]interface{}{
			"total_questions": len(records),
			"source_text":     sourceText,
			"ocr_processed":   ocrUsed,
		}
		if err := tx.Model(&model.ExamPaper{}).Where("id = ?", paper.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update paper: %w", err)
		}

		return nil
	})
}

// savePrediction persists a prediction draft as a new set
func (s *AnalysisService) savePrediction(ctx context.Context, paperID uint, draft *PredictionDraft) (*model.PredictionSet, error) {
	set := &model.PredictionSet{
		UUID:      uuid.NewString(),
		PaperID:   paperID,
		Source:    draft.Source,
		Model:     draft.Model,
		Summary:   draft.Summary,
		RawOutput: draft.RawOutput,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(set).Error; err != nil {
			return fmt.Errorf("failed to create prediction set: %w", err)
		}

		questions := make([]model.PredictedQuestion, 0, len(draft.Questions))
		for i, q := range draft.Questions {
			keywords, err := json.Marshal(q.Keywords)
			if err != nil {
				return fmt.Errorf("failed to encode keywords: %w", err)
			}

			questions = append(questions, model.PredictedQuestion{
				SetID:        set.ID,
				Position:     i + 1,
				QuestionText: q.QuestionText,
				QuestionType: q.QuestionType,
				Topic:        q.Topic,
				Section:      q.Section,
				Marks:        q.Marks,
				Probability:  q.Probability,
				Rationale:    q.Rationale,
				Keywords:     keywords,
			})
		}

		if err := tx.Create(&questions).Error; err != nil {
			return fmt.Errorf("failed to save predicted questions: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

// GetJob returns the current state of an analysis job
func (s *AnalysisService) GetJob(ctx context.Context, jobID string) (*model.AnalysisJob, error) {
	return s.tracker.GetJob(ctx, jobID)
}

// GetActiveJob returns the running job ID for a paper, empty when idle
func (s *AnalysisService) GetActiveJob(ctx context.Context, paperID uint) (string, error) {
	return s.tracker.GetActiveJob(ctx, paperID)
}

// CancelJob flags a running job for cancellation
func (s *AnalysisService) CancelJob(ctx context.Context, jobID string) error {
	return s.tracker.CancelJob(ctx, jobID)
}

// GetPredictions returns all prediction sets for a paper, newest first
func (s *AnalysisService) GetPredictions(ctx context.Context, paperID uint) ([]model.PredictionSet, error) {
	var sets []model.PredictionSet
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("paper_id = ?", paperID).
		Order("created_at DESC").
		Find(&sets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch predictions: %w", err)
	}
	return sets, nil
}

// GetPredictionSet returns one prediction set by its public UUID
func (s *AnalysisService) GetPredictionSet(ctx context.Context, setUUID string) (*model.PredictionSet, error) {
	var set model.PredictionSet
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("uuid = ?", setUUID).
		First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("prediction set not found: %s", setUUID)
		}
		return nil, fmt.Errorf("failed to fetch prediction set: %w", err)
	}
	return &set, nil
}

// progress reports a phase transition for a job
func (s *AnalysisService) progress(ctx context.Context, jobID, eventType, phase, message string) {
	if err := s.tracker.UpdateProgress(ctx, jobID, ProgressEvent{
		Type:      eventType,
		JobID:     jobID,
		Progress:  CalculateProgress(phase),
		Phase:     phase,
		Message:   message,
		Timestamp: time.Now(),
	}); err != nil {
		log.Printf("Analysis: Failed to update progress for job %s: %v", jobID, err)
	}
}

// cancelled checks the cancellation flag and finalizes state when set
func (s *AnalysisService) cancelled(ctx context.Context, jobID string, paperID uint) bool {
	if !s.tracker.IsJobCancelled(ctx, jobID) {
		return false
	}
	log.Printf("Analysis: Job %s cancelled", jobID)
	s.setPaperStatus(ctx, paperID, model.AnalysisPending, "")
	return true
}

// failJob marks both the job and the paper as failed
func (s *AnalysisService) failJob(ctx context.Context, jobID string, paperID uint, err error) {
	errType, recoverable := ClassifyError(err)
	log.Printf("Analysis: Job %s failed (%s): %v", jobID, errType, err)

	s.setPaperStatus(ctx, paperID, model.AnalysisFailed, err.Error())

	s.tracker.UpdateProgress(ctx, jobID, ProgressEvent{
		Type:         "error",
		JobID:        jobID,
		Phase:        "error",
		Message:      "Analysis failed",
		ErrorType:    string(errType),
		ErrorMessage: err.Error(),
		Recoverable:  recoverable,
		Timestamp:    time.Now(),
	})
}

// setPaperStatus updates the paper's analysis status column
func (s *AnalysisService) setPaperStatus(ctx context.Context, paperID uint, status model.PaperAnalysisStatus, analysisError string) {
	updates := map[string]interface{}{
		"analysis_status": status,
		"analysis_error":  analysisError,
	}
	if err := s.db.WithContext(ctx).Model(&model.ExamPaper{}).Where("id = ?", paperID).Updates(updates).Error; err != nil {
		log.Printf("Analysis: Failed to update paper %d status: %v", paperID, err)
	}
}
