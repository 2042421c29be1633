package feedback

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
)

// Models drift from the requested schema: scores arrive as 85.0 or "90%",
// flags as booleans, lists as a single string. Decoding is done member by
// member; a member whose value does not fit its field is kept verbatim in
// the owning struct's Extra, as is every member the struct does not know.
// Only syntactically invalid JSON is an error.

// fieldDecoder stores v into its target and reports whether v fit.
type fieldDecoder func(v json.RawMessage) bool

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// decodeFields decodes data as an object, handing each member to the
// decoder registered for its key. Rejected and unknown members are returned.
func decodeFields(data []byte, fields map[string]fieldDecoder) (map[string]json.RawMessage, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}

	var extra map[string]json.RawMessage
	for key, v := range members {
		if decode, ok := fields[key]; ok && decode(v) {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key] = v
	}
	return extra, nil
}

// withExtra adds extra members to an encoded object. A typed member wins
// unless it was omitted or encoded as null.
func withExtra(encoded []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return encoded, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return nil, err
	}
	for key, v := range extra {
		if cur, ok := merged[key]; ok && !isNull(cur) {
			continue
		}
		merged[key] = v
	}
	return json.Marshal(merged)
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// toInt reads an integer from a JSON number or from the first number in a
// string ("90%", "85/100"). Fractions are rounded.
func toInt(v json.RawMessage) (int, bool) {
	var x any
	if err := json.Unmarshal(v, &x); err != nil {
		return 0, false
	}

	var f float64
	switch t := x.(type) {
	case float64:
		f = t
	case string:
		m := numberPattern.FindString(t)
		if m == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(math.Round(f)), true
}

func score(dst **int) fieldDecoder {
	return func(v json.RawMessage) bool {
		if isNull(v) {
			*dst = nil
			return true
		}
		n, ok := toInt(v)
		if ok {
			*dst = &n
		}
		return ok
	}
}

func integer(dst *int) fieldDecoder {
	return func(v json.RawMessage) bool {
		if isNull(v) {
			return true
		}
		n, ok := toInt(v)
		if ok {
			*dst = n
		}
		return ok
	}
}

func text(dst *string) fieldDecoder {
	return func(v json.RawMessage) bool {
		if isNull(v) {
			return true
		}
		return json.Unmarshal(v, dst) == nil
	}
}

// textList accepts an array or a lone string. Array elements that are not
// strings keep their compact JSON text.
func textList(dst *[]string) fieldDecoder {
	return func(v json.RawMessage) bool {
		if isNull(v) {
			return true
		}

		var single string
		if json.Unmarshal(v, &single) == nil {
			if single != "" {
				*dst = []string{single}
			}
			return true
		}

		var items []json.RawMessage
		if json.Unmarshal(v, &items) != nil {
			return false
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if json.Unmarshal(item, &s) == nil {
				out = append(out, s)
				continue
			}
			var compact bytes.Buffer
			if json.Compact(&compact, item) != nil {
				return false
			}
			out = append(out, compact.String())
		}
		*dst = out
		return true
	}
}

// flagMap accepts an object of strings, booleans or numbers. Booleans
// become "Yes"/"No".
func flagMap(dst *map[string]string) fieldDecoder {
	return func(v json.RawMessage) bool {
		if isNull(v) {
			return true
		}

		var members map[string]any
		if json.Unmarshal(v, &members) != nil {
			return false
		}
		out := make(map[string]string, len(members))
		for key, val := range members {
			switch t := val.(type) {
			case string:
				out[key] = t
			case bool:
				if t {
					out[key] = "Yes"
				} else {
					out[key] = "No"
				}
			case float64:
				out[key] = strconv.FormatFloat(t, 'f', -1, 64)
			default:
				return false
			}
		}
		*dst = out
		return true
	}
}

// into decodes with the target's own rules.
func into(dst any) fieldDecoder {
	return func(v json.RawMessage) bool {
		return json.Unmarshal(v, dst) == nil
	}
}
