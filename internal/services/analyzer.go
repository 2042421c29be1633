package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"careerboost/cv-analyzer/internal/feedback"
	"careerboost/cv-analyzer/internal/models"
	"careerboost/cv-analyzer/internal/repositories"
)

// Failure kinds raised outside the feedback parser. Parser failures keep
// their feedback.ErrorKind.
const (
	KindUnsupportedFormat = "UNSUPPORTED_FORMAT"
	KindExtractionFailed  = "EXTRACTION_FAILED"
	KindAIServiceFailed   = "AI_SERVICE_FAILED"
	KindDocumentNotFound  = "DOCUMENT_NOT_FOUND"
)

const (
	analysisTemperature = 0.3
	courseContextLimit  = 5
)

// AnalysisError classifies a failed analysis. RawResponse is set when the
// model answered but its output could not be used.
type AnalysisError struct {
	Kind        string
	Err         error
	RawResponse string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// IsParseFailure reports whether the model responded with unusable output.
func (e *AnalysisError) IsParseFailure() bool {
	var pe *feedback.ParseError
	return errors.As(e.Err, &pe)
}

// AnalyzeInput is one résumé file to analyze.
type AnalyzeInput struct {
	Data     []byte
	Filename string
	MimeType string
	Size     int64
	Mode     feedback.Mode
}

type AnalysisOutcome struct {
	Feedback    *feedback.Feedback
	RawResponse string
}

type AnalyzerService interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisOutcome, error)
	ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error
}

type analyzerService struct {
	analysisRepo        repositories.AnalysisRepository
	docRepo             repositories.DocumentRepository
	geminiService       GeminiService
	courseCatalog       CourseCatalog
	extractor           TextExtractor
	promptBuilder       *PromptBuilder
	maxRetries          int
	recommendedFileSize int64
}

// NewAnalyzerService wires the analysis pipeline. courseCatalog may be nil,
// in which case prompts carry no catalog context.
func NewAnalyzerService(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	geminiService GeminiService,
	courseCatalog CourseCatalog,
	extractor TextExtractor,
	maxRetries int,
	recommendedFileSize int64,
) AnalyzerService {
	return &analyzerService{
		analysisRepo:        analysisRepo,
		docRepo:             docRepo,
		geminiService:       geminiService,
		courseCatalog:       courseCatalog,
		extractor:           extractor,
		promptBuilder:       NewPromptBuilder(),
		maxRetries:          maxRetries,
		recommendedFileSize: recommendedFileSize,
	}
}

// Analyze implements AnalyzerService.
func (a *analyzerService) Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisOutcome, error) {
	log.Printf("📄 Extracting text from %s (%s, %d bytes)\n", in.Filename, in.MimeType, in.Size)
	content, err := a.extractor.Extract(in.Data, in.MimeType)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return nil, &AnalysisError{Kind: KindUnsupportedFormat, Err: err}
		}
		return nil, &AnalysisError{Kind: KindExtractionFailed, Err: err}
	}

	courseContext, err := a.retrieveCourseContext(ctx, content.Text)
	if err != nil {
		log.Printf("⚠️  Warning: Failed to retrieve course context: %v\n", err)
		courseContext = ""
	}

	prompt := a.promptBuilder.Build(in.Mode, content.Text, courseContext)
	log.Printf("📝 Analysis prompt length: %d characters (mode=%s)\n", len(prompt), in.Mode)

	response, err := a.geminiService.GenerateTextWithRetry(ctx, prompt, analysisTemperature, a.maxRetries)
	if err != nil {
		log.Printf("❌ Analysis generation failed: %v\n", err)
		return nil, &AnalysisError{Kind: KindAIServiceFailed, Err: err}
	}
	log.Printf("✅ Analysis response received: %d characters\n", len(response))
	log.Printf("🐛 Raw model response:\n%s\n", response)

	fb, err := feedback.Parse(response, in.Mode)
	if err == nil {
		err = fb.Validate()
	}
	if err != nil {
		var pe *feedback.ParseError
		kind := KindAIServiceFailed
		if errors.As(err, &pe) {
			kind = string(pe.Kind)
		}
		log.Printf("❌ Failed to parse analysis response: %v\n", err)
		return nil, &AnalysisError{Kind: kind, Err: err, RawResponse: response}
	}

	a.applyFileFacts(fb, in)

	if processed, err := json.Marshal(fb); err == nil {
		log.Printf("🐛 Processed feedback: %s\n", processed)
	}

	return &AnalysisOutcome{Feedback: fb, RawResponse: response}, nil
}

// applyFileFacts overwrites fileSizeFormat with what is known about the
// upload; the model only sees extracted text.
func (a *analyzerService) applyFileFacts(fb *feedback.Feedback, in AnalyzeInput) {
	if fb.Sections == nil {
		return
	}

	fb.Sections.FileSizeFormat = map[string]string{
		feedback.FileSizeKey:   yesNo(in.Size <= a.recommendedFileSize),
		feedback.FileFormatKey: yesNo(in.MimeType == MimePDF),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func (a *analyzerService) retrieveCourseContext(ctx context.Context, cvText string) (string, error) {
	if a.courseCatalog == nil {
		return "", nil
	}

	log.Println("🔍 Retrieving relevant courses from catalog...")
	embedding, err := a.geminiService.GenerateEmbedding(ctx, a.promptBuilder.BuildCourseQuery(cvText))
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := a.courseCatalog.SearchSimilar(ctx, embedding, courseContextLimit)
	if err != nil {
		return "", fmt.Errorf("failed to search course catalog: %w", err)
	}

	return FormatRAGContext(results), nil
}

// ProcessAnalysis implements AnalyzerService. Failures are recorded on the
// analysis row before being returned.
func (a *analyzerService) ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	if err := a.analysisRepo.UpdateStatus(analysisID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting analysis for job ID: %s\n", analysisID)

	analysis, err := a.analysisRepo.FindByID(analysisID)
	if err != nil {
		a.recordFailure(analysisID, &AnalysisError{Kind: KindDocumentNotFound, Err: err})
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	doc, err := a.docRepo.FindByID(analysis.DocumentID)
	if err != nil {
		a.recordFailure(analysisID, &AnalysisError{Kind: KindDocumentNotFound, Err: err})
		return fmt.Errorf("failed to get document: %w", err)
	}

	mode, err := feedback.ParseMode(analysis.Mode, feedback.ModeJSON)
	if err != nil {
		a.recordFailure(analysisID, &AnalysisError{Kind: string(feedback.KindUnknownMode), Err: err})
		return fmt.Errorf("invalid mode on analysis: %w", err)
	}

	content, err := a.readDocument(doc)
	if err != nil {
		a.recordFailure(analysisID, err)
		return err
	}

	outcome, err := a.Analyze(ctx, AnalyzeInput{
		Data:     content,
		Filename: doc.OriginalFileName,
		MimeType: doc.MimeType,
		Size:     doc.SizeBytes,
		Mode:     mode,
	})
	if err != nil {
		a.recordFailure(analysisID, err)
		return fmt.Errorf("failed to analyze document: %w", err)
	}

	encoded, err := json.Marshal(outcome.Feedback)
	if err != nil {
		return fmt.Errorf("failed to encode feedback: %w", err)
	}

	log.Println("💾 Saving analysis results...")
	if err := a.analysisRepo.UpdateResult(analysisID, &repositories.AnalysisResultData{
		OverallScore: outcome.Feedback.OverallScore,
		Feedback:     string(encoded),
		RawResponse:  outcome.RawResponse,
	}); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("✅ Analysis completed successfully for job ID: %s\n", analysisID)
	return nil
}

func (a *analyzerService) readDocument(doc *models.Document) ([]byte, error) {
	data, err := os.ReadFile(doc.FilePath)
	if err != nil {
		return nil, &AnalysisError{Kind: KindExtractionFailed, Err: fmt.Errorf("failed to read %s: %w", doc.Filename, err)}
	}
	return data, nil
}

func (a *analyzerService) recordFailure(analysisID uuid.UUID, err error) {
	kind := KindAIServiceFailed
	var raw *string

	var ae *AnalysisError
	if errors.As(err, &ae) {
		kind = ae.Kind
		if ae.RawResponse != "" {
			raw = &ae.RawResponse
		}
	}

	if updateErr := a.analysisRepo.UpdateError(analysisID, kind, err.Error(), raw); updateErr != nil {
		log.Printf("⚠️  Failed to record error for job %s: %v\n", analysisID, updateErr)
	}
}
