package judge

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimJustification(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		wantLen       int
		wantTruncated bool
	}{
		{name: "empty", in: "", wantLen: 0, wantTruncated: false},
		{name: "whitespace only", in: "   ", wantLen: 0, wantTruncated: false},
		{name: "short", in: "the expected answer is an alias", wantLen: 31, wantTruncated: false},
		{name: "exactly at limit", in: strings.Repeat("a", MaxJustificationChars), wantLen: MaxJustificationChars, wantTruncated: false},
		{name: "over limit", in: strings.Repeat("a", MaxJustificationChars+50), wantLen: MaxJustificationChars, wantTruncated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TrimJustification(tt.in)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantTruncated, truncated)
		})
	}
}

func TestTrimJustification_MultiByteRunes(t *testing.T) {
	// Limits count characters; the cut must not land inside a multi-byte
	// sequence.
	got, truncated := TrimJustification(strings.Repeat("é", MaxJustificationChars+10))

	assert.True(t, truncated)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxJustificationChars, utf8.RuneCountInString(got))
}

func TestUserPrompt(t *testing.T) {
	prompt := userPrompt(Request{
		ClueText:         "He wrote Huckleberry Finn",
		ExpectedResponse: "Mark Twain",
		UserResponse:     "Samuel Clemens",
		Justification:    "pen name",
	})

	assert.Contains(t, prompt, "Clue: He wrote Huckleberry Finn")
	assert.Contains(t, prompt, "Expected: Mark Twain")
	assert.Contains(t, prompt, "User response: Samuel Clemens")
	assert.Contains(t, prompt, "User appeal note: pen name")
	assert.Contains(t, prompt, "Be conservative when uncertain")
}

func TestUserPrompt_EmptyJustification(t *testing.T) {
	prompt := userPrompt(Request{ClueText: "c", ExpectedResponse: "e", UserResponse: "u"})
	assert.Contains(t, prompt, "User appeal note: (none)")
}

func TestVerdictSchema(t *testing.T) {
	raw, err := json.Marshal(VerdictSchema())
	require.NoError(t, err)
	schema := string(raw)

	for _, field := range []string{
		"overturn", "final_correct", "reason_code", "match_type",
		"same_entity_likelihood", "reason", "confidence",
	} {
		assert.Contains(t, schema, `"`+field+`"`)
	}
	assert.Contains(t, schema, `"additionalProperties":false`)
	assert.Contains(t, schema, `"semantic_equivalence"`)
	assert.Contains(t, schema, `"minor_typo"`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	required, ok := decoded["required"].([]any)
	require.True(t, ok, "schema must list required fields")
	assert.Len(t, required, 7)
}
