package feedback

import "encoding/json"

func (f *Feedback) UnmarshalJSON(data []byte) error {
	var out Feedback
	extra, err := decodeFields(data, map[string]fieldDecoder{
		"overallScore": score(&out.OverallScore),
		"sections": func(v json.RawMessage) bool {
			if isNull(v) {
				return true
			}
			var s Sections
			if json.Unmarshal(v, &s) != nil {
				return false
			}
			out.Sections = &s
			return true
		},
		"recommendations":   textList(&out.Recommendations),
		"courseSuggestions": into(&out.CourseSuggestions),
		"courses":           into(&out.Courses),
	})
	if err != nil {
		return err
	}
	out.Extra = extra
	*f = out
	return nil
}

func (f Feedback) MarshalJSON() ([]byte, error) {
	type plain Feedback
	encoded, err := json.Marshal(plain(f))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, f.Extra)
}

func (s *Sections) UnmarshalJSON(data []byte) error {
	var out Sections
	extra, err := decodeFields(data, map[string]fieldDecoder{
		"contentFormatting": text(&out.ContentFormatting),
		"keySkills":         into(&out.KeySkills),
		"atsOptimization":   text(&out.ATSOptimization),
		"jobAlignment":      score(&out.JobAlignment),
		"spellingGrammar":   text(&out.SpellingGrammar),
		"fileSizeFormat":    flagMap(&out.FileSizeFormat),
		"repetitionCheck":   into(&out.RepetitionCheck),
		"resumeLength":      into(&out.ResumeLength),
		"designTemplate":    text(&out.DesignTemplate),
		"contactInfo":       into(&out.ContactInfo),
		"activeVoice":       text(&out.ActiveVoice),
		"buzzwords":         into(&out.Buzzwords),
	})
	if err != nil {
		return err
	}
	out.Extra = extra
	*s = out
	return nil
}

func (s Sections) MarshalJSON() ([]byte, error) {
	type plain Sections
	encoded, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, s.Extra)
}

func (k *KeySkills) UnmarshalJSON(data []byte) error {
	var out KeySkills
	extra, err := decodeFields(data, map[string]fieldDecoder{
		"hardSkills":    textList(&out.HardSkills),
		"softSkills":    textList(&out.SoftSkills),
		"missingSkills": textList(&out.MissingSkills),
	})
	if err != nil {
		return err
	}
	out.Extra = extra
	*k = out
	return nil
}

func (k KeySkills) MarshalJSON() ([]byte, error) {
	type plain KeySkills
	encoded, err := json.Marshal(plain(k))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, k.Extra)
}

func (r *RepetitionCheck) UnmarshalJSON(data []byte) error {
	var out RepetitionCheck
	extra, err := decodeFields(data, map[string]fieldDecoder{
		"repeatedWords": textList(&out.RepeatedWords),
		"suggestions":   textList(&out.Suggestions),
	})
	if err != nil {
		return err
	}
	out.Extra = extra
	*r = out
	return nil
}

func (r RepetitionCheck) MarshalJSON() ([]byte, error) {
	type plain RepetitionCheck
	encoded, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, r.Extra)
}

func (r *ResumeLength) UnmarshalJSON(data []byte) error {
	var out ResumeLength
	extra, err := decodeFields(data, map[string]fieldDecoder{
		"wordCount": integer(&out.WordCount),
		"status":    text(&out.Status),
	})
	if err != nil {
		return err
	}
	out.Extra = extra
	*r = out
	return nil
}

func (r ResumeLength) MarshalJSON() ([]byte, error) {
	type plain ResumeLength
	encoded, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, r.Extra)
}

func (b *Buzzwords) UnmarshalJSON(data []byte) error {
	var out Buzzwords
	extra, err := decodeFields(data, map[string]fieldDecoder{
		"found":       textList(&out.Found),
		"suggestions": textList(&out.Suggestions),
	})
	if err != nil {
		return err
	}
	out.Extra = extra
	*b = out
	return nil
}

func (b Buzzwords) MarshalJSON() ([]byte, error) {
	type plain Buzzwords
	encoded, err := json.Marshal(plain(b))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, b.Extra)
}

// UnmarshalJSON also accepts a bare string as the course title.
func (c *Course) UnmarshalJSON(data []byte) error {
	var title string
	if json.Unmarshal(data, &title) == nil {
		*c = Course{Title: title}
		return nil
	}

	var out Course
	extra, err := decodeFields(data, map[string]fieldDecoder{
		"title":       text(&out.Title),
		"platform":    text(&out.Platform),
		"description": text(&out.Description),
		"url":         text(&out.URL),
	})
	if err != nil {
		return err
	}
	out.Extra = extra
	*c = out
	return nil
}

func (c Course) MarshalJSON() ([]byte, error) {
	type plain Course
	encoded, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, c.Extra)
}

func (c *CourseDetail) UnmarshalJSON(data []byte) error {
	var title string
	if json.Unmarshal(data, &title) == nil {
		*c = CourseDetail{Title: title}
		return nil
	}

	var out CourseDetail
	extra, err := decodeFields(data, map[string]fieldDecoder{
		"title":        text(&out.Title),
		"platform":     text(&out.Platform),
		"description":  text(&out.Description),
		"youtubeTitle": text(&out.YouTubeTitle),
		"youtubeLink":  text(&out.YouTubeLink),
	})
	if err != nil {
		return err
	}
	out.Extra = extra
	*c = out
	return nil
}

func (c CourseDetail) MarshalJSON() ([]byte, error) {
	type plain CourseDetail
	encoded, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}
	return withExtra(encoded, c.Extra)
}
