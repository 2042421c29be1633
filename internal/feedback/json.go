package feedback

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f]+`)

// ExtractJSON returns the span from the first '{' to the last '}' in text.
// Prose and markdown fences around the object are dropped.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return "", &ParseError{Kind: KindNoJSONFound, Cause: errors.New("no {...} span in response")}
	}
	return text[start : end+1], nil
}

// RepairJSON replaces every run of ASCII control characters with a single
// space. Models often emit literal newlines inside string values, which
// strict JSON rejects.
func RepairJSON(s string) string {
	return controlChars.ReplaceAllString(s, " ")
}

// ParseJSON extracts, repairs and decodes a JSON feedback object embedded in
// raw, then back-fills defaults. Only invalid JSON fails; members of an
// unexpected type or name are carried in the records' Extra maps.
func ParseJSON(raw string) (*Feedback, error) {
	candidate, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var fb Feedback
	if err := json.Unmarshal([]byte(RepairJSON(candidate)), &fb); err != nil {
		return nil, &ParseError{Kind: KindMalformedJSON, Cause: err}
	}

	if fb.Sections == nil {
		fb.Sections = &Sections{}
	}

	return FillDefaults(&fb), nil
}
