package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain json untouched",
			input: `{"key": "value"}`,
			want:  `{"key": "value"}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"key\": \"value\"}\n```",
			want:  `{"key": "value"}`,
		},
		{
			name:  "generic fence",
			input: "```\n{\"key\": \"value\"}\n```",
			want:  `{"key": "value"}`,
		},
		{
			name:  "fence with surrounding whitespace",
			input: "  \n```json\n{\"a\": 1}\n```  \n",
			want:  `{"a": 1}`,
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "fenced array",
			input: "```json\n[{\"a\": 1}]\n```",
			want:  `[{"a": 1}]`,
		},
		{
			name:  "single line fence",
			input: "```{\"a\": 1}```",
			want:  `{"a": 1}`,
		},
		{
			name:  "json starts on opening fence line",
			input: "```{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "missing closing fence",
			input: "```json\n{\"a\": 1}",
			want:  `{"a": 1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}
