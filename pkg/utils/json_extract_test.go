package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "plain object", input: `{"a":1}`, expected: `{"a":1}`},
		{name: "markdown fence", input: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "chatty prefix and suffix", input: "Here is your plan:\n{\"days\":[{\"day\":1}]}\nEnjoy!", expected: `{"days":[{"day":1}]}`},
		{name: "braces inside strings", input: `noise {"title":"a } tricky { one","n":2} trailing`, expected: `{"title":"a } tricky { one","n":2}`},
		{name: "escaped quotes", input: `x {"q":"say \"hi\" }"} y`, expected: `{"q":"say \"hi\" }"}`},
		{name: "array", input: `result: [1,2,3] done`, expected: `[1,2,3]`},
		{name: "no json", input: "Sorry, I cannot help with that.", wantErr: true},
		{name: "empty", input: "   ", wantErr: true},
		{name: "unbalanced", input: `{"a": [1, 2}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestJSONCandidates(t *testing.T) {
	got := JSONCandidates("Sources [1]\n{\"days\":[{\"day\":1}]}\nsee also {\"x\":[2]}")
	assert.Equal(t, []string{`[1]`, `{"days":[{"day":1}]}`, `{"x":[2]}`}, got)

	assert.Equal(t, []string{`{"a":1}`}, JSONCandidates("```json\n{\"a\":1}\n```"))
	assert.Empty(t, JSONCandidates("no json here"))
}
