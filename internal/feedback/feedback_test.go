package feedback

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDefaults_Idempotent(t *testing.T) {
	fb := FillDefaults(&Feedback{Sections: &Sections{}})
	snapshot := *fb
	sections := *fb.Sections

	again := FillDefaults(fb)

	assert.Equal(t, snapshot.Recommendations, again.Recommendations)
	assert.Equal(t, snapshot.CourseSuggestions, again.CourseSuggestions)
	assert.Equal(t, snapshot.Courses, again.Courses)
	assert.Equal(t, sections, *again.Sections)
}

func TestFillDefaults_KeepsPopulatedLists(t *testing.T) {
	fb := &Feedback{
		Recommendations: []string{"Add metrics"},
		Sections: &Sections{
			RepetitionCheck: RepetitionCheck{RepeatedWords: []string{"team"}},
			Buzzwords:       Buzzwords{Suggestions: []string{"Be concrete"}},
		},
	}

	FillDefaults(fb)

	assert.Equal(t, []string{"Add metrics"}, fb.Recommendations)
	assert.Equal(t, []string{"team"}, fb.Sections.RepetitionCheck.RepeatedWords)
	assert.Equal(t, []string{DefaultRepetitionSuggestions}, fb.Sections.RepetitionCheck.Suggestions)
	assert.Equal(t, []string{DefaultBuzzwordsFound}, fb.Sections.Buzzwords.Found)
	assert.Equal(t, []string{"Be concrete"}, fb.Sections.Buzzwords.Suggestions)
}

func TestFillDefaults_NoSectionsStaysNil(t *testing.T) {
	fb := FillDefaults(&Feedback{})
	assert.Nil(t, fb.Sections)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		fb      Feedback
		wantErr bool
	}{
		{name: "no score", fb: Feedback{}},
		{name: "in range", fb: Feedback{OverallScore: intPtr(100)}},
		{name: "zero", fb: Feedback{OverallScore: intPtr(0)}},
		{name: "too high", fb: Feedback{OverallScore: intPtr(150)}, wantErr: true},
		{name: "negative", fb: Feedback{OverallScore: intPtr(-1)}, wantErr: true},
		{name: "job alignment too high", fb: Feedback{OverallScore: intPtr(80), Sections: &Sections{JobAlignment: intPtr(101)}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fb.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrScoreOutOfRange)
		})
	}
}

func TestValidate_DoesNotClamp(t *testing.T) {
	fb, err := ParseJSON(`{"overallScore": 150}`)
	require.NoError(t, err)

	assert.ErrorIs(t, fb.Validate(), ErrScoreOutOfRange)
	assert.Equal(t, 150, *fb.OverallScore)
}

func TestParse_Dispatch(t *testing.T) {
	fb, err := Parse(`{"overallScore": 42}`, ModeJSON)
	require.NoError(t, err)
	assert.Equal(t, 42, *fb.OverallScore)
	assert.NotNil(t, fb.Sections)

	fb, err = Parse("**Overall Score:** 42%", ModeMarkdown)
	require.NoError(t, err)
	assert.Equal(t, 42, *fb.OverallScore)
	assert.Nil(t, fb.Sections)

	_, err = Parse("anything", Mode("yaml"))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("", ModeMarkdown)
	require.NoError(t, err)
	assert.Equal(t, ModeMarkdown, m)

	m, err = ParseMode("json", ModeMarkdown)
	require.NoError(t, err)
	assert.Equal(t, ModeJSON, m)

	_, err = ParseMode("xml", ModeJSON)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &ParseError{Kind: KindMalformedJSON, Cause: cause}

	assert.Equal(t, "MALFORMED_JSON: model response JSON could not be parsed (caused by: unexpected end of JSON input)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, fmt.Errorf("analyze: %w", err), ErrMalformedJSON)
	assert.NotErrorIs(t, err, ErrNoJSONFound)
	assert.Equal(t, "NO_JSON_FOUND: no JSON object found in model response", ErrNoJSONFound.Error())
}

func TestParse_ConcurrentCallers(t *testing.T) {
	want := ParseMarkdown(sampleReport)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, ParseMarkdown(sampleReport))
		}()
	}
	wg.Wait()
}
