package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaperAnalysisStatus represents the status of question extraction for a paper
type PaperAnalysisStatus string

const (
	AnalysisPending    PaperAnalysisStatus = "pending"
	AnalysisProcessing PaperAnalysisStatus = "processing"
	AnalysisCompleted  PaperAnalysisStatus = "completed"
	AnalysisFailed     PaperAnalysisStatus = "failed"
)

// ExamPaper represents an uploaded previous-year exam paper
type ExamPaper struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	Subject  string `gorm:"type:varchar(255);index;not null" json:"subject"`
	Year     int    `gorm:"index" json:"year,omitempty"`                 // e.g., 2023, 2024
	ExamType string `gorm:"type:varchar(50)" json:"exam_type,omitempty"` // e.g., "End Semester", "Mid Semester"

	// Storage
	StorageKey   string `gorm:"type:varchar(512)" json:"storage_key,omitempty"` // Object storage key
	FileURL      string `gorm:"type:varchar(512)" json:"file_url,omitempty"`
	FileSize     int64  `gorm:"default:0" json:"file_size"`
	PageCount    int    `gorm:"default:0" json:"page_count"`
	OCRProcessed bool   `gorm:"default:false" json:"ocr_processed"` // True if text came from OCR fallback

	// Analysis
	AnalysisStatus PaperAnalysisStatus `gorm:"type:varchar(20);default:'pending'" json:"analysis_status"`
	AnalysisError  string              `gorm:"type:text" json:"analysis_error,omitempty"`
	TotalQuestions int                 `gorm:"default:0" json:"total_questions"`
	SourceText     string              `gorm:"type:text" json:"-"` // Normalized extracted text, kept for re-analysis

	// Relationships
	Questions   []ExtractedQuestion `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Predictions []PredictionSet     `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"predictions,omitempty"`
}

// ExtractedQuestion represents one question recovered from a paper
type ExtractedQuestion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PaperID         uint           `gorm:"not null;index" json:"paper_id"`
	Position        int            `gorm:"not null" json:"position"` // 1-based order within the paper
	QuestionText    string         `gorm:"type:text;not null" json:"question_text"`
	QuestionType    string         `gorm:"type:varchar(20);index" json:"question_type"` // e.g., "numerical", "long_answer"
	HasQuestionMark bool           `gorm:"default:false" json:"has_question_mark"`
	WordCount       int            `gorm:"default:0" json:"word_count"`
	Keywords        datatypes.JSON `gorm:"type:jsonb" json:"keywords,omitempty"` // JSON array of lowercase keywords

	// Relationships
	Paper ExamPaper `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"-"`
}

// ============= Response Types =============

// ExamPaperResponse is used for API responses
type ExamPaperResponse struct {
	ID             uint                        `json:"id"`
	UUID           string                      `json:"uuid"`
	Title          string                      `json:"title"`
	Subject        string                      `json:"subject"`
	Year           int                         `json:"year,omitempty"`
	ExamType       string                      `json:"exam_type,omitempty"`
	FileURL        string                      `json:"file_url,omitempty"`
	FileSize       int64                       `json:"file_size"`
	PageCount      int                         `json:"page_count"`
	OCRProcessed   bool                        `json:"ocr_processed"`
	AnalysisStatus PaperAnalysisStatus         `json:"analysis_status"`
	AnalysisError  string                      `json:"analysis_error,omitempty"`
	TotalQuestions int                         `json:"total_questions"`
	Questions      []ExtractedQuestionResponse `json:"questions,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// ExtractedQuestionResponse is used for API responses
type ExtractedQuestionResponse struct {
	ID              uint           `json:"id"`
	Position        int            `json:"position"`
	QuestionText    string         `json:"question_text"`
	QuestionType    string         `json:"question_type"`
	HasQuestionMark bool           `json:"has_question_mark"`
	WordCount       int            `json:"word_count"`
	Keywords        datatypes.JSON `json:"keywords,omitempty"`
}

// ToResponse converts ExamPaper model to ExamPaperResponse
func (p *ExamPaper) ToResponse() *ExamPaperResponse {
	response := &ExamPaperResponse{
		ID:             p.ID,
		UUID:           p.UUID,
		Title:          p.Title,
		Subject:        p.Subject,
		Year:           p.Year,
		ExamType:       p.ExamType,
		FileURL:        p.FileURL,
		FileSize:       p.FileSize,
		PageCount:      p.PageCount,
		OCRProcessed:   p.OCRProcessed,
		AnalysisStatus: p.AnalysisStatus,
		AnalysisError:  p.AnalysisError,
		TotalQuestions: p.TotalQuestions,
		Questions:      make([]ExtractedQuestionResponse, 0),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	for _, q := range p.Questions {
		response.Questions = append(response.Questions, ExtractedQuestionResponse{
			ID:              q.ID,
			Position:        q.Position,
			QuestionText:    q.QuestionText,
			QuestionType:    q.QuestionType,
			HasQuestionMark: q.HasQuestionMark,
			WordCount:       q.WordCount,
			Keywords:        q.Keywords,
		})
	}

	return response
}

// ExamPaperSummary is a lightweight version for listing
type ExamPaperSummary struct {
	ID             uint                `json:"id"`
	UUID           string              `json:"uuid"`
	Title          string              `json:"title"`
	Subject        string              `json:"subject"`
	Year           int                 `json:"year,omitempty"`
	ExamType       string              `json:"exam_type,omitempty"`
	AnalysisStatus PaperAnalysisStatus `json:"analysis_status"`
	TotalQuestions int                 `json:"total_questions"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ToSummary converts ExamPaper to ExamPaperSummary
func (p *ExamPaper) ToSummary() ExamPaperSummary {
	return ExamPaperSummary{
		ID:             p.ID,
		UUID:           p.UUID,
		Title:          p.Title,
		Subject:        p.Subject,
		Year:           p.Year,
		ExamType:       p.ExamType,
		AnalysisStatus: p.AnalysisStatus,
		TotalQuestions: p.TotalQuestions,
		CreatedAt:      p.CreatedAt,
	}
}
