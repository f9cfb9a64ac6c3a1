package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amitesh-7/predictwise-ai-sub000/model"
	"github.com/amitesh-7/predictwise-ai-sub000/utils/cache"
)

// TTL configurations for job states
const (
	JobStateTTLSuccess = 1 * time.Hour   // 1 hour for successful jobs
	JobStateTTLFailure = 24 * time.Hour  // 24 hours for failed jobs
	JobStateTTLPending = 24 * time.Hour  // 24 hours for pending/processing jobs
	JobCancelTTL       = 5 * time.Minute // Cancellation flag lifetime
)

// ProgressEvent carries a progress update for an analysis job
type ProgressEvent struct {
	Type  string `json:"type"` // "started", "progress", "warning", "complete", "error"
	JobID string `json:"job_id"`

	Progress int    `json:"progress"` // 0-100
	Phase    string `json:"phase"`
	Message  string `json:"message"`

	// Error info (for warning/error events)
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	RetryCount   int    `json:"retry_count,omitempty"`
	Recoverable  bool   `json:"recoverable,omitempty"`

	// Result info (for complete events)
	QuestionsFound  int `json:"questions_found,omitempty"`
	PredictionSetID uint `json:"prediction_set_id,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// ErrorType represents the type of error that occurred during analysis
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeLLM        ErrorType = "llm"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypePDF        ErrorType = "pdf"
	ErrorTypeOCR        ErrorType = "ocr"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// ProgressTracker manages analysis job state in Redis
type ProgressTracker struct {
	cache *cache.RedisCache
}

// NewProgressTracker creates a new progress tracker instance
func NewProgressTracker(redisCache *cache.RedisCache) *ProgressTracker {
	return &ProgressTracker{cache: redisCache}
}

// CreateJob creates a new analysis job and marks it active for the paper.
// Only one job may run per paper at a time.
func (pt *ProgressTracker) CreateJob(ctx context.Context, paperID uint) (*model.AnalysisJob, error) {
	jobID := fmt.Sprintf("%d_%d", paperID, time.Now().Unix())

	// Claim the active-job key atomically so concurrent triggers for the
	// same paper cannot both create a job.
	activeJobKey := fmt.Sprintf(model.RedisKeyActiveJob, paperID)
	claimed, err := pt.cache.SetNX(ctx, activeJobKey, jobID, JobStateTTLPending)
	if err != nil {
		return nil, fmt.Errorf("failed to mark job as active: %w", err)
	}
	if !claimed {
		existingJobID, _ := pt.cache.Get(ctx, activeJobKey)
		return nil, fmt.Errorf("paper already has an active analysis job: %s", existingJobID)
	}

	job := &model.AnalysisJob{
		JobID:        jobID,
		PaperID:      paperID,
		Status:       model.JobStatusPending,
		Progress:     0,
		CurrentPhase: "initializing",
		Message:      "Analysis queued",
		StartedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	jobKey := fmt.Sprintf(model.RedisKeyJobState, jobID)
	if err := pt.cache.SetJSON(ctx, jobKey, job, JobStateTTLPending); err != nil {
		// Release the claim if we failed to persist the job state
		pt.cache.Delete(ctx, activeJobKey)
		return nil, fmt.Errorf("failed to save job state: %w", err)
	}

	return job, nil
}

// UpdateProgress applies an event to the stored job state
func (pt *ProgressTracker) UpdateProgress(ctx context.Context, jobID string, event ProgressEvent) error {
	job, err := pt.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Progress = event.Progress
	job.CurrentPhase = event.Phase
	job.Message = event.Message
	job.UpdatedAt = time.Now()

	switch event.Type {
	case "started":
		job.Status = model.JobStatusProcessing
	case "complete":
		job.Status = model.JobStatusCompleted
		now := time.Now()
		job.CompletedAt = &now
		if event.QuestionsFound > 0 {
			job.QuestionsFound = event.QuestionsFound
		}
		if event.PredictionSetID > 0 {
			job.PredictionSetID = event.PredictionSetID
		}
	case "error":
		job.Status = model.JobStatusFailed
		job.Error = event.ErrorMessage
		job.ErrorType = event.ErrorType
		now := time.Now()
		job.CompletedAt = &now
	case "warning":
		// Warning keeps the status, but we track retries
		if event.RetryCount > 0 {
			job.RetryCount = event.RetryCount
		}
	}

	ttl := JobStateTTLPending
	if job.Status == model.JobStatusCompleted {
		ttl = JobStateTTLSuccess
	} else if job.Status == model.JobStatusFailed {
		ttl = JobStateTTLFailure
	}

	jobKey := fmt.Sprintf(model.RedisKeyJobState, jobID)
	if err := pt.cache.SetJSON(ctx, jobKey, job, ttl); err != nil {
		return fmt.Errorf("failed to update job state: %w", err)
	}

	if job.Status == model.JobStatusCompleted || job.Status == model.JobStatusFailed {
		activeJobKey := fmt.Sprintf(model.RedisKeyActiveJob, job.PaperID)
		pt.cache.Delete(ctx, activeJobKey)
	}

	return nil
}

// GetJob retrieves job state from Redis
func (pt *ProgressTracker) GetJob(ctx context.Context, jobID string) (*model.AnalysisJob, error) {
	jobKey := fmt.Sprintf(model.RedisKeyJobState, jobID)

	var job model.AnalysisJob
	if err := pt.cache.GetJSON(ctx, jobKey, &job); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, fmt.Errorf("job not found or expired: %s", jobID)
		}
		return nil, fmt.Errorf("failed to get job state: %w", err)
	}

	return &job, nil
}

// GetActiveJob returns the active job ID for a paper (if any)
func (pt *ProgressTracker) GetActiveJob(ctx context.Context, paperID uint) (string, error) {
	activeJobKey := fmt.Sprintf(model.RedisKeyActiveJob, paperID)
	jobID, err := pt.cache.Get(ctx, activeJobKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return "", nil // No active job
		}
		return "", err
	}
	return jobID, nil
}

// ClearActiveJob removes the active job reference for a paper
func (pt *ProgressTracker) ClearActiveJob(ctx context.Context, paperID uint) error {
	activeJobKey := fmt.Sprintf(model.RedisKeyActiveJob, paperID)
	return pt.cache.Delete(ctx, activeJobKey)
}

// CancelJob cancels an active job
func (pt *ProgressTracker) CancelJob(ctx context.Context, jobID string) error {
	job, err := pt.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	if job.Status == model.JobStatusPending || job.Status == model.JobStatusProcessing {
		job.Status = model.JobStatusCancelled
		now := time.Now()
		job.CompletedAt = &now
		job.UpdatedAt = now
		job.Message = "Job cancelled by user"

		jobKey := fmt.Sprintf(model.RedisKeyJobState, jobID)
		if err := pt.cache.SetJSON(ctx, jobKey, job, JobStateTTLFailure); err != nil {
			return fmt.Errorf("failed to update job state: %w", err)
		}

		// Set cancellation flag so the running pipeline can check it
		cancelKey := fmt.Sprintf(model.RedisKeyJobCancel, jobID)
		pt.cache.Set(ctx, cancelKey, "1", JobCancelTTL)
	}

	activeJobKey := fmt.Sprintf(model.RedisKeyActiveJob, job.PaperID)
	pt.cache.Delete(ctx, activeJobKey)

	return nil
}

// IsJobCancelled checks if a job has been flagged for cancellation
func (pt *ProgressTracker) IsJobCancelled(ctx context.Context, jobID string) bool {
	cancelKey := fmt.Sprintf(model.RedisKeyJobCancel, jobID)
	val, err := pt.cache.Get(ctx, cancelKey)
	return err == nil && val == "1"
}

// ClassifyError classifies an error and determines if it's recoverable
func ClassifyError(err error) (ErrorType, bool) {
	if err == nil {
		return ErrorTypeUnknown, false
	}

	errStr := strings.ToLower(err.Error())

	// Network errors (recoverable)
	if strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "dial") ||
		strings.Contains(errStr, "eof") ||
		strings.Contains(errStr, "reset by peer") {
		return ErrorTypeNetwork, true
	}

	// OCR sidecar errors (recoverable, the service may restart). Checked
	// before the LLM branch since OCR errors also carry status codes.
	if strings.Contains(errStr, "ocr service") {
		return ErrorTypeOCR, true
	}

	// LLM API errors (recoverable)
	if strings.Contains(errStr, "inference api") ||
		strings.Contains(errStr, "status 429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "status 500") ||
		strings.Contains(errStr, "status 502") ||
		strings.Contains(errStr, "status 503") ||
		strings.Contains(errStr, "status 504") ||
		strings.Contains(errStr, "llm") {
		return ErrorTypeLLM, true
	}

	// Timeout errors (recoverable)
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context deadline") {
		return ErrorTypeTimeout, true
	}

	// Database errors (not recoverable)
	if strings.Contains(errStr, "database") ||
		strings.Contains(errStr, "transaction") ||
		strings.Contains(errStr, "sql") ||
		strings.Contains(errStr, "gorm") {
		return ErrorTypeDatabase, false
	}

	// PDF errors (not recoverable)
	if strings.Contains(errStr, "pdf") ||
		strings.Contains(errStr, "extract text") ||
		strings.Contains(errStr, "invalid document") {
		return ErrorTypePDF, false
	}

	// Validation errors (not recoverable)
	if strings.Contains(errStr, "validation") ||
		strings.Contains(errStr, "invalid") ||
		strings.Contains(errStr, "required") {
		return ErrorTypeValidation, false
	}

	return ErrorTypeUnknown, false
}

// CalculateProgress maps a pipeline phase to an overall percentage
func CalculateProgress(phase string) int {
	switch phase {
	case "initializing":
		return 0
	case "download":
		return 10
	case "extract":
		return 25
	case "ocr":
		return 40
	case "analyze":
		return 60
	case "predict":
		return 80
	case "save":
		return 95
	case "complete":
		return 100
	default:
		return 0
	}
}
