package services

import (
	"fmt"
	"strings"

	"careerboost/cv-analyzer/internal/feedback"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build returns the analysis prompt matching the parser that will read the
// model's answer.
func (pb *PromptBuilder) Build(mode feedback.Mode, cvText, courseContext string) string {
	if mode == feedback.ModeMarkdown {
		return pb.BuildMarkdownAnalysisPrompt(cvText, courseContext)
	}
	return pb.BuildJSONAnalysisPrompt(cvText, courseContext)
}

// BuildJSONAnalysisPrompt asks for a single JSON object in the shape
// feedback.ParseJSON reads.
func (pb *PromptBuilder) BuildJSONAnalysisPrompt(cvText, courseContext string) string {
	return fmt.Sprintf(`You are an AI specializing in resume analysis. Analyze the following CV and return a structured JSON response.

IMPORTANT: The response **MUST** be valid JSON. Ensure all characters are properly escaped.

CV TEXT:
%s
%s
Format the response as follows:

{
  "overallScore": 85,
  "sections": {
    "contentFormatting": "Clear and well-structured.",
    "keySkills": {
      "hardSkills": ["React", "Next.js", "TypeScript"],
      "softSkills": ["Communication", "Problem-solving"],
      "missingSkills": ["GraphQL", "Redux"]
    },
    "atsOptimization": "Good ATS compatibility.",
    "jobAlignment": 90,
    "spellingGrammar": "No errors found.",
    "fileSizeFormat": {
      "%s": "Yes",
      "%s": "Yes"
    },
    "repetitionCheck": {
      "repeatedWords": ["team", "leadership"],
      "suggestions": ["Use synonyms for 'team'"]
    },
    "resumeLength": {
      "wordCount": 450,
      "status": "Good"
    },
    "designTemplate": "Professional layout.",
    "contactInfo": {
      "hasEmail": "Yes",
      "hasContactInfo": "Yes"
    },
    "activeVoice": "80%%",
    "buzzwords": {
      "found": ["innovative", "synergy"],
      "suggestions": ["Use simpler alternatives"]
    }
  },
  "recommendations": ["Add a summary section.", "Include more measurable achievements."],
  "courseSuggestions": [
    {
      "title": "Advanced React Patterns",
      "platform": "Udemy",
      "description": "Master advanced React concepts.",
      "url": "https://udemy.com/react-patterns"
    }
  ]
}

Scores are integers from 0 to 100.`,
		cvText, courseSection(courseContext), feedback.FileSizeKey, feedback.FileFormatKey)
}

// BuildMarkdownAnalysisPrompt asks for the headed report feedback.ParseMarkdown reads.
func (pb *PromptBuilder) BuildMarkdownAnalysisPrompt(cvText, courseContext string) string {
	return fmt.Sprintf(`You are an expert career coach reviewing a CV. Read the CV below and write a short report.

CV TEXT:
%s
%s
Use exactly this layout and these headings:

**%s:** <integer 0-100>%%

**%s:**

* **<Short title>:** <one-sentence recommendation>

**%s:**

* **<Course title>:** (<Platform>) <what the course teaches>
    * **YouTube Link:** [<video title>](<video url>)

Give 3-5 recommendations and 2-4 courses. Omit the YouTube Link line when you do not know a matching video.`,
		cvText, courseSection(courseContext),
		feedback.ScoreHeading, feedback.RecommendationsHeading, feedback.CoursesHeading)
}

func courseSection(courseContext string) string {
	if strings.TrimSpace(courseContext) == "" {
		return ""
	}
	return fmt.Sprintf(`
COURSE CATALOG (prefer these when suggesting courses):
%s
`, courseContext)
}

// BuildCourseQuery turns extracted CV text into a catalog search query.
func (pb *PromptBuilder) BuildCourseQuery(cvText string) string {
	const maxQuery = 4000
	if len(cvText) > maxQuery {
		cvText = cvText[:maxQuery]
	}
	return "Courses that close skill gaps for this candidate:\n" + cvText
}

// FormatRAGContext renders catalog hits for inclusion in a prompt.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Course %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
