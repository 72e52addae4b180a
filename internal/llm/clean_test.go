package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips think block",
			in:   "<think>planning the attack</think>final prompt",
			want: "final prompt",
		},
		{
			name: "case insensitive tags",
			in:   "<THINK>hidden</THINK>visible",
			want: "visible",
		},
		{
			name: "multiline think block",
			in:   "<think>line one\nline two</think>\nthe prompt",
			want: "the prompt",
		},
		{
			name: "multiple blocks",
			in:   "<think>a</think>one\n<think>b</think>two",
			want: "one\ntwo",
		},
		{
			name: "drops blank lines and trims",
			in:   "  first  \n\n\n  second  ",
			want: "first\nsecond",
		},
		{
			name: "plain text untouched",
			in:   "just a prompt",
			want: "just a prompt",
		},
		{
			name: "unclosed tag left alone",
			in:   "<think>never closed",
			want: "<think>never closed",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanOutput(tc.in))
		})
	}
}
