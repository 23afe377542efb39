package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type account string

func TestDedupeBy(t *testing.T) {
	tests := []struct {
		name     string
		input    []account
		expected []account
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []account{},
			expected: []account{},
		},
		{
			name:     "keeps first occurrence in order",
			input:    []account{"0xaa", "0xbb", "0xaa", "0xcc", "0xbb"},
			expected: []account{"0xaa", "0xbb", "0xcc"},
		},
		{
			name:     "case variants collapse to the first spelling",
			input:    []account{"0xAbC", "0xabc", "0xABC"},
			expected: []account{"0xAbC"},
		},
		{
			name:     "blank entries are dropped",
			input:    []account{"", "  ", "0xaa"},
			expected: []account{"0xaa"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeBy(tt.input, FoldKey[account]))
		})
	}
}

func TestDedupeBy_CustomKeyCanExclude(t *testing.T) {
	values := []int{1, 2, 3, 4, 2}
	odd := func(v int) string {
		if v%2 == 0 {
			return ""
		}
		return string(rune('0' + v))
	}
	assert.Equal(t, []int{1, 3}, DedupeBy(values, odd))
}
