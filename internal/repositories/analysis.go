package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careerboost/cv-analyzer/internal/models"
)

type AnalysisRepository interface {
	Create(analysis *models.Analysis) error
	FindByID(id uuid.UUID) (*models.Analysis, error)
	UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error
	UpdateResult(id uuid.UUID, result *AnalysisResultData) error
	UpdateError(id uuid.UUID, kind, message string, rawResponse *string) error
	FindPendingJobs(limit int) ([]models.Analysis, error)
	RequeueStale(olderThan time.Duration) (int64, error)
}

// AnalysisResultData is what a completed job writes back.
type AnalysisResultData struct {
	OverallScore *int
	Feedback     string
	RawResponse  string
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.Analysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := r.db.Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepository) UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error {
	return r.update(id, map[string]interface{}{
		"status": status,
	})
}

func (r *analysisRepository) UpdateResult(id uuid.UUID, data *AnalysisResultData) error {
	updates := map[string]interface{}{
		"status":       models.StatusCompleted,
		"feedback":     data.Feedback,
		"raw_response": data.RawResponse,
	}
	if data.OverallScore != nil {
		updates["overall_score"] = *data.OverallScore
	}

	return r.update(id, updates)
}

func (r *analysisRepository) UpdateError(id uuid.UUID, kind, message string, rawResponse *string) error {
	updates := map[string]interface{}{
		"status":        models.StatusFailed,
		"error_kind":    kind,
		"error_message": message,
	}
	if rawResponse != nil {
		updates["raw_response"] = *rawResponse
	}

	return r.update(id, updates)
}

func (r *analysisRepository) FindPendingJobs(limit int) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return analyses, nil
}

// RequeueStale puts jobs left in "processing" for longer than olderThan back
// to "queued", so work lost to a crash is picked up again.
func (r *analysisRepository) RequeueStale(olderThan time.Duration) (int64, error) {
	now := time.Now()
	result := r.db.Model(&models.Analysis{}).
		Where("status = ? AND updated_at < ?", models.StatusProcessing, now.Add(-olderThan)).
		Updates(map[string]interface{}{
			"status":     models.StatusQueued,
			"updated_at": now,
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to requeue stale jobs: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *analysisRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update analysis: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}

	return nil
}
