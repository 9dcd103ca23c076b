package bind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountMarkers(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"SELECT 1", 0},
		{"SELECT ? + ?", 2},
		{"SELECT '?'", 0},
		{"SELECT 'it''s ?', ?", 1},
		{"INSERT INTO t VALUES (?, ?, ?)", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountMarkers(tt.text), "text=%q", tt.text)
	}
}
