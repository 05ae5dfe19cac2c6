package registry

import (
	"strconv"
	"strings"
)

// requiredFields lists every key a report must carry. A key that is present
// with an empty value passes; only absence fails.
var requiredFields = []string{
	"playerName",
	"displayName",
	"gameName",
	"serverPlayers",
	"maxPlayers",
	"placeId",
	"jobId",
	"currentTime",
	"country",
	"executor",
	"version",
}

// MissingFieldError reports a required key absent from the submission.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// NotNumericError reports a population field that carries no integer.
type NotNumericError struct {
	Field string
}

func (e *NotNumericError) Error() string {
	return "field is not numeric: " + e.Field
}

// Validate checks that payload carries every required field and that the
// player counts parse as integers. The payload itself is never modified.
func Validate(payload map[string]any) error {
	for _, field := range requiredFields {
		if _, ok := payload[field]; !ok {
			return &MissingFieldError{Field: field}
		}
	}

	for _, field := range []string{"serverPlayers", "maxPlayers"} {
		if _, ok := leadingInt(fieldString(payload[field])); !ok {
			return &NotNumericError{Field: field}
		}
	}

	return nil
}

// leadingInt parses the integer prefix of s. Existing reporters send values
// like "12" but also "12 players", so trailing garbage is tolerated: "12abc"
// yields 12, "abc" fails.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)

	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}

	return n, true
}

// fieldString renders a decoded JSON value as a string. Reporters usually
// send counts as strings, but numeric JSON literals are accepted too.
func fieldString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
