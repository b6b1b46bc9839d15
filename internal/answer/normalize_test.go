package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "interrogative prefix and article", in: "What is the Nile?", want: "nile"},
		{name: "already normalized", in: "nile", want: "nile"},
		{name: "article only", in: "the nile", want: "nile"},
		{name: "punctuation stripped", in: "O'Brien, Jr.", want: "obrien jr"},
		{name: "whitespace collapsed", in: "  mark   twain  ", want: "mark twain"},
		{name: "who was prefix", in: "Who was Mark Twain", want: "mark twain"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: "?!.", want: ""},
		{name: "accented letters kept", in: "Who is José Martí?", want: "josé martí"},
		{name: "umlaut kept", in: "Düsseldorf", want: "düsseldorf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"What is the Nile?",
		"Who are The Beatles",
		"the a an confusing title",
		"12, 15, 18",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestExtractAlternates(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		want     []string
	}{
		{name: "or parenthetical", expected: "Tokyo (or Edo)", want: []string{"Tokyo", "Edo"}},
		{name: "plain parenthetical", expected: "Nihon (Nippon)", want: []string{"Nihon", "Nippon"}},
		{name: "no parenthetical", expected: "Mark Twain", want: []string{"Mark Twain"}},
		{name: "multiple groups", expected: "A (or B) (C)", want: []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAlternates(tt.expected))
		})
	}
}

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
		want     bool
	}{
		{name: "exact", response: "Mark Twain", expected: "Mark Twain", want: true},
		{name: "question form", response: "Who is Mark Twain?", expected: "Mark Twain", want: true},
		{name: "alternate form", response: "edo", expected: "Tokyo (or Edo)", want: true},
		{name: "word order", response: "Twain Mark", expected: "Mark Twain", want: true},
		{name: "wrong answer", response: "Charles Dickens", expected: "Mark Twain", want: false},
		{name: "blank", response: "", expected: "Mark Twain", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, display := CheckAnswer(tt.response, tt.expected, StrictThreshold)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.expected, display)
		})
	}
}
