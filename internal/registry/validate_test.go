package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]any {
	return map[string]any{
		"playerName":    "A",
		"displayName":   "Alpha",
		"gameName":      "Jailbreak",
		"serverPlayers": "5",
		"maxPlayers":    "10",
		"placeId":       "606849621",
		"jobId":         "J1",
		"currentTime":   "12:00:00",
		"country":       "US",
		"executor":      "Wave",
		"version":       "1.0.0",
	}
}

func TestValidateAccepts(t *testing.T) {
	require.NoError(t, Validate(validPayload()))
}

func TestValidateMissingField(t *testing.T) {
	for _, field := range requiredFields {
		payload := validPayload()
		delete(payload, field)

		err := Validate(payload)
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing, "dropping %q must fail", field)
		assert.Equal(t, field, missing.Field)
	}
}

func TestValidateEmptyValueAccepted(t *testing.T) {
	// Only absence fails; a present-but-empty string passes
	payload := validPayload()
	payload["displayName"] = ""

	require.NoError(t, Validate(payload))
}

func TestValidateNotNumeric(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"letters", "serverPlayers", "abc"},
		{"empty", "maxPlayers", ""},
		{"null", "serverPlayers", nil},
		{"sign only", "maxPlayers", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			payload[tt.field] = tt.value

			err := Validate(payload)
			var notNumeric *NotNumericError
			require.ErrorAs(t, err, &notNumeric)
			assert.Equal(t, tt.field, notNumeric.Field)
		})
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"12abc", 12, true}, // trailing garbage tolerated
		{" 7 ", 7, true},
		{"-3", -3, true},
		{"+4x", 4, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}

	for _, tt := range tests {
		got, ok := leadingInt(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFieldStringNumericLiteral(t *testing.T) {
	// JSON numbers decode as float64 and still validate
	payload := validPayload()
	payload["serverPlayers"] = float64(5)
	payload["maxPlayers"] = float64(10)

	require.NoError(t, Validate(payload))
}
