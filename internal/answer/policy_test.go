package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictMatch(t *testing.T) {
	strict := Strict()

	tests := []struct {
		name         string
		response     string
		expected     string
		wantStage    Stage
		wantDecision Decision
	}{
		{
			name:         "empty response rejects",
			response:     "   ",
			expected:     "Mark Twain",
			wantStage:    StageNone,
			wantDecision: DecisionReject,
		},
		{
			name:         "exact after normalization",
			response:     "What is the Nile?",
			expected:     "The Nile",
			wantStage:    StageExact,
			wantDecision: DecisionAccept,
		},
		{
			name:         "parenthetical alternate is exact",
			response:     "edo",
			expected:     "Tokyo (or Edo)",
			wantStage:    StageExact,
			wantDecision: DecisionAccept,
		},
		{
			name:         "numeric variant is order independent",
			response:     "18/15/12",
			expected:     "12, 15, 18",
			wantStage:    StageVariant,
			wantDecision: DecisionAccept,
		},
		{
			name:         "numeric variant with mismatched set defers",
			response:     "18/15/13",
			expected:     "12, 15, 18",
			wantStage:    StageNone,
			wantDecision: DecisionDefer,
		},
		{
			name:         "similarity at threshold accepts",
			response:     "abxye",
			expected:     "abcde",
			wantStage:    StageNormalized,
			wantDecision: DecisionAccept,
		},
		{
			name:         "similarity below threshold defers",
			response:     "abxyzfg",
			expected:     "abcdefg",
			wantStage:    StageNone,
			wantDecision: DecisionDefer,
		},
		{
			name:         "different name defers to judge",
			response:     "Samuel Clemens",
			expected:     "Mark Twain",
			wantStage:    StageNone,
			wantDecision: DecisionDefer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strict.Match("clue text", tt.response, tt.expected)
			assert.Equal(t, tt.wantStage, got.Stage)
			assert.Equal(t, tt.wantDecision, got.Decision)
			assert.Equal(t, tt.wantDecision == DecisionAccept, got.Correct)
		})
	}
}

func TestStrictMatch_NoPersonHeuristics(t *testing.T) {
	// The strict policy deliberately leaves last-name acceptance and
	// specificity rejection to the judge.
	strict := Strict()

	got := strict.Match("He wrote many novels", "Twain", "Mark Twain")
	assert.Equal(t, DecisionDefer, got.Decision)
}

func TestPermissiveMatch_LastName(t *testing.T) {
	permissive := Permissive()

	tests := []struct {
		name         string
		clue         string
		response     string
		expected     string
		wantDecision Decision
		wantReason   string
	}{
		{
			name:         "last name accepted for person clue",
			clue:         "He wrote The Adventures of Huckleberry Finn",
			response:     "Twain",
			expected:     "Mark Twain",
			wantDecision: DecisionAccept,
			wantReason:   ReasonLastNameMatch,
		},
		{
			name:         "honorific plus last name accepted",
			clue:         "This author wrote The Adventures of Huckleberry Finn",
			response:     "Mr Twain",
			expected:     "Mark Twain",
			wantDecision: DecisionAccept,
			wantReason:   ReasonLastNameMatch,
		},
		{
			name:         "suffix stripped from expected name",
			clue:         "He was an actor",
			response:     "Downey",
			expected:     "Robert Downey Jr.",
			wantDecision: DecisionAccept,
			wantReason:   ReasonLastNameMatch,
		},
		{
			name:         "no person cue keeps specificity rejection",
			clue:         "This river flows north",
			response:     "Twain",
			expected:     "Mark Twain",
			wantDecision: DecisionReject,
			wantReason:   ReasonUnderspecified,
		},
		{
			name:         "single word against multi-word answer rejects",
			clue:         "This mountain range spans seven countries",
			response:     "Alps",
			expected:     "Swiss Alps",
			wantDecision: DecisionReject,
			wantReason:   ReasonUnderspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := permissive.Match(tt.clue, tt.response, tt.expected)
			require.Equal(t, tt.wantDecision, got.Decision)
			assert.Equal(t, tt.wantReason, got.ReasonCode)
		})
	}
}

func TestExpectedLastName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mark Twain", "twain"},
		{"Robert Downey Jr.", "downey"},
		{"Dr. Martin Luther King Jr.", "king"},
		{"Twain", ""},
		{"Mr. Smith", ""},
	}

	for _, tt := range tests {
		if got := ExpectedLastName(tt.in); got != tt.want {
			t.Errorf("ExpectedLastName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLooksLikePersonClue(t *testing.T) {
	assert.True(t, LooksLikePersonClue("He wrote many novels"))
	assert.True(t, LooksLikePersonClue("This president signed the bill"))
	assert.False(t, LooksLikePersonClue("This river flows north through Egypt"))
}

func TestLooksLikePersonName(t *testing.T) {
	assert.True(t, LooksLikePersonName("Mark Twain"))
	assert.True(t, LooksLikePersonName("Samuel Clemens (or Mark Twain)"))
	assert.False(t, LooksLikePersonName("Tokyo"))
	assert.False(t, LooksLikePersonName("12, 15, 18"))
}

func TestTokenOverlapScore(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "mark twain", b: "mark twain", want: 1},
		{name: "half overlap", a: "mark twain", b: "mark", want: 0.5},
		{name: "no overlap", a: "mark twain", b: "charles dickens", want: 0},
		{name: "empty side", a: "", b: "mark", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TokenOverlapScore(tt.a, tt.b), 1e-9)
		})
	}
}
