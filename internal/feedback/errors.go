package feedback

import "fmt"

// ErrorKind categorizes parse failures so callers can map them to responses.
type ErrorKind string

const (
	KindNoJSONFound     ErrorKind = "NO_JSON_FOUND"
	KindMalformedJSON   ErrorKind = "MALFORMED_JSON"
	KindScoreOutOfRange ErrorKind = "SCORE_OUT_OF_RANGE"
	KindUnknownMode     ErrorKind = "UNKNOWN_MODE"
)

// Sentinels for errors.Is. A *ParseError matches a sentinel of the same kind.
var (
	ErrNoJSONFound     = &ParseError{Kind: KindNoJSONFound}
	ErrMalformedJSON   = &ParseError{Kind: KindMalformedJSON}
	ErrScoreOutOfRange = &ParseError{Kind: KindScoreOutOfRange}
	ErrUnknownMode     = &ParseError{Kind: KindUnknownMode}
)

type ParseError struct {
	Kind  ErrorKind
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Kind.message(), e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Kind.message())
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

func (k ErrorKind) message() string {
	switch k {
	case KindNoJSONFound:
		return "no JSON object found in model response"
	case KindMalformedJSON:
		return "model response JSON could not be parsed"
	case KindScoreOutOfRange:
		return "score outside 0-100"
	case KindUnknownMode:
		return "unknown feedback mode"
	default:
		return "feedback parse failed"
	}
}
