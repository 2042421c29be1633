package feedback

// Placeholders substituted for empty optional lists. Clients compare these
// strings, so they must not change.
const (
	DefaultRepeatedWords         = "No repeated words detected"
	DefaultRepetitionSuggestions = "No suggestions available"
	DefaultBuzzwordsFound        = "No buzzwords detected"
	DefaultBuzzwordSuggestions   = "No alternative suggestions available"
)

// FillDefaults makes every sequence on f non-nil and, when f carries
// sections, replaces empty optional lists with their placeholders. It
// modifies f in place and returns it. Applying it twice is a no-op.
func FillDefaults(f *Feedback) *Feedback {
	if f.Recommendations == nil {
		f.Recommendations = []string{}
	}
	if f.CourseSuggestions == nil {
		f.CourseSuggestions = []Course{}
	}
	if f.Courses == nil {
		f.Courses = []CourseDetail{}
	}

	if s := f.Sections; s != nil {
		s.RepetitionCheck.RepeatedWords = orDefault(s.RepetitionCheck.RepeatedWords, DefaultRepeatedWords)
		s.RepetitionCheck.Suggestions = orDefault(s.RepetitionCheck.Suggestions, DefaultRepetitionSuggestions)
		s.Buzzwords.Found = orDefault(s.Buzzwords.Found, DefaultBuzzwordsFound)
		s.Buzzwords.Suggestions = orDefault(s.Buzzwords.Suggestions, DefaultBuzzwordSuggestions)
	}

	return f
}

func orDefault(v []string, placeholder string) []string {
	if len(v) > 0 {
		return v
	}
	return []string{placeholder}
}
