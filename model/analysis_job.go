package model

import "time"

// AnalysisJobStatus represents the status of a paper analysis job
type AnalysisJobStatus string

const (
	JobStatusPending    AnalysisJobStatus = "pending"
	JobStatusProcessing AnalysisJobStatus = "processing"
	JobStatusCompleted  AnalysisJobStatus = "completed"
	JobStatusFailed     AnalysisJobStatus = "failed"
	JobStatusCancelled  AnalysisJobStatus = "cancelled"
)

// AnalysisJob represents the state of a paper analysis job stored in Redis
type AnalysisJob struct {
	JobID        string            `json:"job_id"`
	PaperID      uint              `json:"paper_id"`
	Status       AnalysisJobStatus `json:"status"`
	Progress     int               `json:"progress"`      // 0-100
	CurrentPhase string            `json:"current_phase"` // "download", "extract", "ocr", "analyze", "predict", "save"
	Message      string            `json:"message"`

	// Error tracking
	Error      string `json:"error,omitempty"`
	ErrorType  string `json:"error_type,omitempty"`
	RetryCount int    `json:"retry_count,omitempty"`

	// Result
	QuestionsFound  int  `json:"questions_found,omitempty"`
	PredictionSetID uint `json:"prediction_set_id,omitempty"`

	// Timestamps
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Redis key patterns for analysis jobs
const (
	// RedisKeyJobState stores the full job state as JSON
	// Usage: fmt.Sprintf(RedisKeyJobState, jobID)
	RedisKeyJobState = "analysis:state:%s"

	// RedisKeyActiveJob tracks the active job ID for a paper, preventing
	// concurrent analyses of the same upload
	// Usage: fmt.Sprintf(RedisKeyActiveJob, paperID)
	RedisKeyActiveJob = "analysis:active:%d"

	// RedisKeyJobCancel flags a job for cancellation
	// Usage: fmt.Sprintf(RedisKeyJobCancel, jobID)
	RedisKeyJobCancel = "analysis:cancel:%s"
)
