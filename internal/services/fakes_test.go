package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"careerboost/cv-analyzer/internal/models"
	"careerboost/cv-analyzer/internal/repositories"
)

type fakeGemini struct {
	response   string
	err        error
	embedErr   error
	lastPrompt string
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}

type fakeCatalog struct {
	results []SearchResult
	err     error
}

func (f *fakeCatalog) InitCollection(ctx context.Context) error { return nil }

func (f *fakeCatalog) UpsertChunk(ctx context.Context, source string, index int, text string, embedding []float32) error {
	return nil
}

func (f *fakeCatalog) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	return f.results, f.err
}

func (f *fakeCatalog) DeleteSource(ctx context.Context, source string) error { return nil }

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(data []byte, mimeType string) (*DocumentContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &DocumentContent{Text: f.text, PageCount: 1, MimeType: mimeType}, nil
}

func (f *fakeExtractor) ExtractFile(filePath, mimeType string) (*DocumentContent, error) {
	return f.Extract(nil, mimeType)
}

type fakeAnalysisRepo struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*models.Analysis
	statuses []models.AnalysisStatus
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{items: make(map[uuid.UUID]*models.Analysis)}
}

func (r *fakeAnalysisRepo) Create(analysis *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if analysis.ID == uuid.Nil {
		analysis.ID = uuid.New()
	}
	if analysis.Status == "" {
		analysis.Status = models.StatusQueued
	}
	r.items[analysis.ID] = analysis
	return nil
}

func (r *fakeAnalysisRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("analysis %s: %w", id, repositories.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAnalysisRepo) UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *fakeAnalysisRepo) UpdateResult(id uuid.UUID, data *repositories.AnalysisResultData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Status = models.StatusCompleted
	a.OverallScore = data.OverallScore
	a.Feedback = &data.Feedback
	a.RawResponse = &data.RawResponse
	return nil
}

func (r *fakeAnalysisRepo) UpdateError(id uuid.UUID, kind, message string, rawResponse *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Status = models.StatusFailed
	a.ErrorKind = &kind
	a.ErrorMessage = &message
	a.RawResponse = rawResponse
	return nil
}

func (r *fakeAnalysisRepo) FindPendingJobs(limit int) ([]models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Analysis
	for _, a := range r.items {
		if a.Status == models.StatusQueued && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAnalysisRepo) RequeueStale(olderThan time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var n int64
	for _, a := range r.items {
		if a.Status == models.StatusProcessing && a.UpdatedAt.Before(cutoff) {
			a.Status = models.StatusQueued
			a.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (r *fakeAnalysisRepo) get(id uuid.UUID) models.Analysis {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.items[id]
}

type fakeDocRepo struct {
	docs map[uuid.UUID]*models.Document
}

func (r *fakeDocRepo) Create(document *models.Document) error {
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	r.docs[document.ID] = document
	return nil
}

func (r *fakeDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, repositories.ErrNotFound)
	}
	return d, nil
}

func (r *fakeDocRepo) Delete(id uuid.UUID) error {
	if _, ok := r.docs[id]; !ok {
		return errors.New("not found")
	}
	delete(r.docs, id)
	return nil
}
