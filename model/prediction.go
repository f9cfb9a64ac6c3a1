package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PredictionSource identifies how a prediction set was produced
type PredictionSource string

const (
	PredictionSourceAI        PredictionSource = "ai"
	PredictionSourceHeuristic PredictionSource = "heuristic"
)

// PredictionSet represents one predicted exam paper generated from an
// analyzed paper's question bank
type PredictionSet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PaperID uint             `gorm:"not null;index" json:"paper_id"`
	Source  PredictionSource `gorm:"type:varchar(20);not null" json:"source"`
	Model   string           `gorm:"type:varchar(100)" json:"model,omitempty"` // LLM model name, empty for heuristic
	Summary string           `gorm:"type:text" json:"summary,omitempty"`      // Model's overall rationale for the set

	// RawOutput keeps the unparsed model response for debugging and re-parsing
	RawOutput string `gorm:"type:text" json:"-"`

	// Relationships
	Paper     ExamPaper           `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"-"`
	Questions []PredictedQuestion `gorm:"foreignKey:SetID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// PredictedQuestion represents one question in a predicted paper
type PredictedQuestion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SetID        uint           `gorm:"not null;index" json:"set_id"`
	Position     int            `gorm:"not null" json:"position"`
	QuestionText string         `gorm:"type:text;not null" json:"question_text"`
	QuestionType string         `gorm:"type:varchar(20)" json:"question_type,omitempty"`
	Topic        string         `gorm:"type:varchar(255)" json:"topic,omitempty"`
	Section      string         `gorm:"type:varchar(50)" json:"section,omitempty"`
	Marks        int            `gorm:"default:0" json:"marks,omitempty"`
	Probability  float64        `gorm:"default:0" json:"probability"` // 0.0 - 1.0 likelihood estimate
	Rationale    string         `gorm:"type:text" json:"rationale,omitempty"`
	Keywords     datatypes.JSON `gorm:"type:jsonb" json:"keywords,omitempty"`

	// Relationships
	Set PredictionSet `gorm:"foreignKey:SetID;constraint:OnDelete:CASCADE" json:"-"`
}

// ============= Response Types =============

// PredictionSetResponse is used for API responses
type PredictionSetResponse struct {
	ID        uint                        `json:"id"`
	UUID      string                      `json:"uuid"`
	PaperID   uint                        `json:"paper_id"`
	Source    PredictionSource            `json:"source"`
	Model     string                      `json:"model,omitempty"`
	Summary   string                      `json:"summary,omitempty"`
	Questions []PredictedQuestionResponse `json:"questions"`
	CreatedAt time.Time                   `json:"created_at"`
}

// PredictedQuestionResponse is used for API responses
type PredictedQuestionResponse struct {
	ID           uint           `json:"id"`
	Position     int            `json:"position"`
	QuestionText string         `json:"question_text"`
	QuestionType string         `json:"question_type,omitempty"`
	Topic        string         `json:"topic,omitempty"`
	Section      string         `json:"section,omitempty"`
	Marks        int            `json:"marks,omitempty"`
	Probability  float64        `json:"probability"`
	Rationale    string         `json:"rationale,omitempty"`
	Keywords     datatypes.JSON `json:"keywords,omitempty"`
}

// ToResponse converts PredictionSet model to PredictionSetResponse
func (s *PredictionSet) ToResponse() *PredictionSetResponse {
	response := &PredictionSetResponse{
		ID:        s.ID,
		UUID:      s.UUID,
		PaperID:   s.PaperID,
		Source:    s.Source,
		Model:     s.Model,
		Summary:   s.Summary,
		Questions: make([]PredictedQuestionResponse, 0),
		CreatedAt: s.CreatedAt,
	}

	for _, q := range s.Questions {
		response.Questions = append(response.Questions, PredictedQuestionResponse{
			ID:           q.ID,
			Position:     q.Position,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Topic:        q.Topic,
			Section:      q.Section,
			Marks:        q.Marks,
			Probability:  q.Probability,
			Rationale:    q.Rationale,
			Keywords:     q.Keywords,
		})
	}

	return response
}
