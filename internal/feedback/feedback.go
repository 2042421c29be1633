// Package feedback turns free-form model output describing a résumé into a
// structured record. Two parsers are provided, one for strict JSON output and
// one for headed markdown reports; both produce a Feedback.
package feedback

import (
	"encoding/json"
	"fmt"
)

// Mode selects which parser handles a raw response.
type Mode string

const (
	ModeJSON     Mode = "json"
	ModeMarkdown Mode = "markdown"
)

// ParseMode converts user input into a Mode. An empty string yields fallback.
func ParseMode(s string, fallback Mode) (Mode, error) {
	switch Mode(s) {
	case "":
		return fallback, nil
	case ModeJSON, ModeMarkdown:
		return Mode(s), nil
	default:
		return "", &ParseError{Kind: KindUnknownMode, Cause: fmt.Errorf("mode %q", s)}
	}
}

// Feedback is the structured record both parsers produce. Sections is only
// set by the JSON path; Courses only by the markdown path.
type Feedback struct {
	OverallScore      *int           `json:"overallScore"`
	Sections          *Sections      `json:"sections,omitempty"`
	Recommendations   []string       `json:"recommendations"`
	CourseSuggestions []Course       `json:"courseSuggestions"`
	Courses           []CourseDetail `json:"courses"`

	// Extra holds members of the model's object that no field above took,
	// so they survive a decode/encode cycle.
	Extra map[string]json.RawMessage `json:"-"`
}

// Sections are the named sub-reports of a JSON-mode analysis.
type Sections struct {
	ContentFormatting string            `json:"contentFormatting,omitempty"`
	KeySkills         *KeySkills        `json:"keySkills,omitempty"`
	ATSOptimization   string            `json:"atsOptimization,omitempty"`
	JobAlignment      *int              `json:"jobAlignment,omitempty"`
	SpellingGrammar   string            `json:"spellingGrammar,omitempty"`
	FileSizeFormat    map[string]string `json:"fileSizeFormat,omitempty"`
	RepetitionCheck   RepetitionCheck   `json:"repetitionCheck"`
	ResumeLength      *ResumeLength     `json:"resumeLength,omitempty"`
	DesignTemplate    string            `json:"designTemplate,omitempty"`
	ContactInfo       map[string]any    `json:"contactInfo,omitempty"`
	ActiveVoice       string            `json:"activeVoice,omitempty"`
	Buzzwords         Buzzwords         `json:"buzzwords"`

	Extra map[string]json.RawMessage `json:"-"`
}

type KeySkills struct {
	HardSkills    []string `json:"hardSkills"`
	SoftSkills    []string `json:"softSkills"`
	MissingSkills []string `json:"missingSkills"`

	Extra map[string]json.RawMessage `json:"-"`
}

type RepetitionCheck struct {
	RepeatedWords []string `json:"repeatedWords"`
	Suggestions   []string `json:"suggestions"`

	Extra map[string]json.RawMessage `json:"-"`
}

type ResumeLength struct {
	WordCount int    `json:"wordCount"`
	Status    string `json:"status"`

	Extra map[string]json.RawMessage `json:"-"`
}

type Buzzwords struct {
	Found       []string `json:"found"`
	Suggestions []string `json:"suggestions"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Course is a course suggestion as emitted by the JSON prompt.
type Course struct {
	Title       string `json:"title"`
	Platform    string `json:"platform"`
	Description string `json:"description"`
	URL         string `json:"url"`

	Extra map[string]json.RawMessage `json:"-"`
}

// CourseDetail is a course suggestion recovered from a markdown report.
type CourseDetail struct {
	Title        string `json:"title"`
	Platform     string `json:"platform"`
	Description  string `json:"description"`
	YouTubeTitle string `json:"youtubeTitle"`
	YouTubeLink  string `json:"youtubeLink"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Keys of Sections.FileSizeFormat.
const (
	FileSizeKey   = "File under 2MB size"
	FileFormatKey = "File in a PDF format"
)

// Validate reports scores outside [0,100]. Out-of-range values are left
// untouched on the record.
func (f *Feedback) Validate() error {
	if f.OverallScore != nil {
		if err := checkScore("overallScore", *f.OverallScore); err != nil {
			return err
		}
	}
	if f.Sections != nil && f.Sections.JobAlignment != nil {
		if err := checkScore("sections.jobAlignment", *f.Sections.JobAlignment); err != nil {
			return err
		}
	}
	return nil
}

func checkScore(field string, v int) error {
	if v < 0 || v > 100 {
		return &ParseError{
			Kind:  KindScoreOutOfRange,
			Cause: fmt.Errorf("%s = %d, want 0..100", field, v),
		}
	}
	return nil
}

// Parse runs the parser selected by mode and shapes the result.
func Parse(raw string, mode Mode) (*Feedback, error) {
	switch mode {
	case ModeJSON:
		return ParseJSON(raw)
	case ModeMarkdown:
		return ParseMarkdown(raw), nil
	default:
		return nil, &ParseError{Kind: KindUnknownMode, Cause: fmt.Errorf("mode %q", mode)}
	}
}
