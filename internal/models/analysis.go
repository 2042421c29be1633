package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// Analysis is an asynchronous résumé analysis job. Feedback holds the
// shaped feedback record as JSON once the job completes.
type Analysis struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"document_id"`
	Mode         string         `gorm:"type:text;not null;default:'json'" json:"mode"`
	Status       AnalysisStatus `gorm:"not null;default:'queued';index" json:"status"`
	OverallScore *int           `json:"overall_score,omitempty"`
	Feedback     *string        `gorm:"type:text" json:"-"`
	RawResponse  *string        `gorm:"type:text" json:"-"`
	ErrorKind    *string        `gorm:"type:text" json:"error_kind,omitempty"`
	ErrorMessage *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
