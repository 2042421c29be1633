package feedback

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
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
      "File under 2MB size": "Yes",
      "File in a PDF format": "Yes"
    },
    "repetitionCheck": {
      "repeatedWords": ["team", "leadership"],
      "suggestions": ["Use synonyms for 'team'"]
    },
    "resumeLength": {"wordCount": 450, "status": "Good"},
    "designTemplate": "Professional layout.",
    "contactInfo": {"hasEmail": "Yes", "hasContactInfo": "Yes"},
    "activeVoice": "80%",
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
}`

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "bare object", text: `{"a":1}`, want: `{"a":1}`},
		{name: "prose around", text: "Here is the analysis:\n{\"a\":1}\nHope it helps!", want: `{"a":1}`},
		{name: "code fence", text: "```json\n{\"a\":{\"b\":2}}\n```", want: "{\"a\":{\"b\":2}}"},
		{name: "greedy outer braces", text: `x {"a":1} y {"b":2} z`, want: `{"a":1} y {"b":2}`},
		{name: "no braces", text: "Sorry, I cannot help with that.", wantErr: true},
		{name: "close before open", text: "} then {", wantErr: true},
		{name: "empty", text: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNoJSONFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepairJSON(t *testing.T) {
	assert.Equal(t, `{"a": "line one line two"}`, RepairJSON("{\"a\": \"line one\r\n\tline two\"}"))
	assert.Equal(t, `{ "a": 1 }`, RepairJSON("{\n\x00\"a\": 1\x1f}"))
	assert.Equal(t, "héllo wörld", RepairJSON("héllo\nwörld"))
}

func TestParseJSON_RecoversWrappedObject(t *testing.T) {
	wrappers := map[string]string{
		"plain":  sampleJSON,
		"fenced": "```json\n" + sampleJSON + "\n```",
		"prose":  "Sure! Here's the structured evaluation you asked for:\n\n" + sampleJSON + "\n\nLet me know if you need anything else.",
	}

	var want Feedback
	require.NoError(t, json.Unmarshal([]byte(sampleJSON), &want))
	FillDefaults(&want)

	for name, raw := range wrappers {
		t.Run(name, func(t *testing.T) {
			fb, err := ParseJSON(raw)
			require.NoError(t, err)
			assert.Equal(t, &want, fb)
			assert.Empty(t, fb.Courses)
			assert.NotNil(t, fb.Courses)
		})
	}
}

func TestParseJSON_LiteralNewlinesInStrings(t *testing.T) {
	raw := "{\"overallScore\": 72, \"recommendations\": [\"Add a summary\nsection.\", \"Use\tbullet points\"], " +
		"\"sections\": {\"contentFormatting\": \"Good.\r\nCould be tighter.\"}}"

	fb, err := ParseJSON(raw)
	require.NoError(t, err)
	require.NotNil(t, fb.OverallScore)
	assert.Equal(t, 72, *fb.OverallScore)
	assert.Equal(t, []string{"Add a summary section.", "Use bullet points"}, fb.Recommendations)
	assert.Equal(t, "Good. Could be tighter.", fb.Sections.ContentFormatting)
}

func TestParseJSON_Errors(t *testing.T) {
	_, err := ParseJSON("The model refused.")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoJSONFound)

	_, err = ParseJSON(`{"overallScore": 80, "recommendations": ["a",]}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedJSON)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindMalformedJSON, perr.Kind)
	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr), "decoder diagnostic should be wrapped")
}

func TestParseJSON_FillsDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no sections", raw: `{"overallScore": 60}`},
		{name: "null sections", raw: `{"overallScore": 60, "sections": null}`},
		{name: "empty lists", raw: `{"overallScore": 60, "sections": {"repetitionCheck": {"repeatedWords": [], "suggestions": []}, "buzzwords": {"found": [], "suggestions": []}}}`},
		{name: "missing nested", raw: `{"overallScore": 60, "sections": {"repetitionCheck": {}, "buzzwords": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := ParseJSON(tt.raw)
			require.NoError(t, err)
			require.NotNil(t, fb.Sections)
			assert.Equal(t, []string{"No repeated words detected"}, fb.Sections.RepetitionCheck.RepeatedWords)
			assert.Equal(t, []string{"No suggestions available"}, fb.Sections.RepetitionCheck.Suggestions)
			assert.Equal(t, []string{"No buzzwords detected"}, fb.Sections.Buzzwords.Found)
			assert.Equal(t, []string{"No alternative suggestions available"}, fb.Sections.Buzzwords.Suggestions)
			assert.NotNil(t, fb.Recommendations)
			assert.NotNil(t, fb.CourseSuggestions)
		})
	}
}

func TestParseJSON_OutputRoundTrip(t *testing.T) {
	first, err := ParseJSON("```json\n" + sampleJSON + "\n```")
	require.NoError(t, err)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := ParseJSON(string(encoded))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseJSON_WireKeys(t *testing.T) {
	fb, err := ParseJSON(`{"overallScore": 50}`)
	require.NoError(t, err)

	encoded, err := json.Marshal(fb)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(encoded, &generic))
	assert.Contains(t, generic, "overallScore")
	assert.Contains(t, generic, "recommendations")
	assert.Contains(t, generic, "courseSuggestions")

	sections := generic["sections"].(map[string]any)
	rep := sections["repetitionCheck"].(map[string]any)
	assert.Equal(t, []any{"No repeated words detected"}, rep["repeatedWords"])
	buzz := sections["buzzwords"].(map[string]any)
	assert.Equal(t, []any{"No alternative suggestions available"}, buzz["suggestions"])
}

func TestParseJSON_LooseScores(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantScore    *int
		wantAlign    *int
		wantExtraKey string
	}{
		{name: "float score", raw: `{"overallScore": 85.0}`, wantScore: intPtr(85)},
		{name: "fractional score rounds", raw: `{"overallScore": 84.6}`, wantScore: intPtr(85)},
		{name: "percent string", raw: `{"overallScore": "78%"}`, wantScore: intPtr(78)},
		{name: "out of hundred string", raw: `{"overallScore": "64/100"}`, wantScore: intPtr(64)},
		{name: "job alignment string", raw: `{"sections": {"jobAlignment": "90%"}}`, wantAlign: intPtr(90)},
		{name: "null score", raw: `{"overallScore": null}`},
		{name: "unreadable score kept", raw: `{"overallScore": "excellent"}`, wantExtraKey: "overallScore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := ParseJSON(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, fb.OverallScore)
			assert.Equal(t, tt.wantAlign, fb.Sections.JobAlignment)
			if tt.wantExtraKey != "" {
				assert.Contains(t, fb.Extra, tt.wantExtraKey)
			}
		})
	}
}

func TestParseJSON_TypeDriftIsNotMalformed(t *testing.T) {
	raw := `{
	  "overallScore": 70,
	  "sections": {
	    "contactInfo": {"hasEmail": true, "phoneCount": 1},
	    "resumeLength": {"wordCount": "450", "status": "Good"},
	    "activeVoice": 80,
	    "fileSizeFormat": {"File under 2MB size": true, "File in a PDF format": false},
	    "repetitionCheck": {"repeatedWords": "team", "suggestions": []},
	    "keySkills": {"hardSkills": ["Go", 42]}
	  },
	  "recommendations": "Add metrics.",
	  "courseSuggestions": ["Intro to Go", {"title": "SQL", "url": "https://example.com", "hours": 6}]
	}`

	fb, err := ParseJSON(raw)
	require.NoError(t, err)

	s := fb.Sections
	assert.Equal(t, map[string]any{"hasEmail": true, "phoneCount": float64(1)}, s.ContactInfo)
	assert.Equal(t, 450, s.ResumeLength.WordCount)
	assert.Equal(t, "", s.ActiveVoice)
	assert.JSONEq(t, `80`, string(s.Extra["activeVoice"]))
	assert.Equal(t, map[string]string{FileSizeKey: "Yes", FileFormatKey: "No"}, s.FileSizeFormat)
	assert.Equal(t, []string{"team"}, s.RepetitionCheck.RepeatedWords)
	assert.Equal(t, []string{"Go", "42"}, s.KeySkills.HardSkills)
	assert.Equal(t, []string{"Add metrics."}, fb.Recommendations)
	require.Len(t, fb.CourseSuggestions, 2)
	assert.Equal(t, "Intro to Go", fb.CourseSuggestions[0].Title)
	assert.Equal(t, "SQL", fb.CourseSuggestions[1].Title)
	assert.JSONEq(t, `6`, string(fb.CourseSuggestions[1].Extra["hours"]))
}

func TestParseJSON_KeepsUnknownMembers(t *testing.T) {
	fb, err := ParseJSON(`{"overallScore": 55, "summary": "kept", "sections": {"extra": 1, "activeVoice": 80}}`)
	require.NoError(t, err)

	encoded, err := json.Marshal(fb)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(encoded, &generic))
	assert.Equal(t, "kept", generic["summary"])
	assert.Equal(t, float64(55), generic["overallScore"])

	sections := generic["sections"].(map[string]any)
	assert.Equal(t, float64(1), sections["extra"])
	assert.Equal(t, float64(80), sections["activeVoice"])
	assert.Contains(t, sections, "repetitionCheck")

	again, err := ParseJSON(string(encoded))
	require.NoError(t, err)
	assert.Equal(t, fb, again)
}

func TestParseJSON_TypedValueWinsOverExtra(t *testing.T) {
	fb, err := ParseJSON(`{"sections": {"fileSizeFormat": "n/a"}}`)
	require.NoError(t, err)
	require.Contains(t, fb.Sections.Extra, "fileSizeFormat")

	fb.Sections.FileSizeFormat = map[string]string{FileSizeKey: "Yes", FileFormatKey: "Yes"}
	encoded, err := json.Marshal(fb)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(encoded, &generic))
	sections := generic["sections"].(map[string]any)
	assert.Equal(t, map[string]any{FileSizeKey: "Yes", FileFormatKey: "Yes"}, sections["fileSizeFormat"])
}
