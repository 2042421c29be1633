package feedback

import (
	"fmt"
	"strings"
)

// RenderMarkdown writes f in the report layout ParseMarkdown reads.
// Recommendations without a "Title: body" shape are given a generic title.
// JSON-mode course suggestions are rendered as courses without a link line.
func RenderMarkdown(f *Feedback) string {
	var b strings.Builder

	if f.OverallScore != nil {
		fmt.Fprintf(&b, "**%s:** %d%%\n\n", ScoreHeading, *f.OverallScore)
	}

	if len(f.Recommendations) > 0 {
		fmt.Fprintf(&b, "**%s:**\n\n", RecommendationsHeading)
		for _, rec := range f.Recommendations {
			title, body, ok := strings.Cut(rec, ": ")
			if !ok || strings.Contains(title, "*") {
				title, body = "Suggestion", rec
			}
			fmt.Fprintf(&b, "* **%s:** %s\n", title, body)
		}
		b.WriteString("\n")
	}

	if len(f.Courses)+len(f.CourseSuggestions) > 0 {
		fmt.Fprintf(&b, "**%s:**\n\n", CoursesHeading)
		for _, c := range f.Courses {
			fmt.Fprintf(&b, "* **%s:** (%s) %s\n", c.Title, c.Platform, c.Description)
			if c.YouTubeLink != "" || c.YouTubeTitle != "" {
				fmt.Fprintf(&b, "    * **YouTube Link:** [%s](%s)\n", c.YouTubeTitle, c.YouTubeLink)
			}
		}
		for _, c := range f.CourseSuggestions {
			fmt.Fprintf(&b, "* **%s:** (%s) %s\n", c.Title, c.Platform, c.Description)
		}
	}

	return b.String()
}
