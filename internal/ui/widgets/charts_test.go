package widgets

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		width int
		want  string
	}{
		{name: "empty", v: 0, width: 4, want: "░░░░"},
		{name: "half", v: 0.5, width: 4, want: "██░░"},
		{name: "full", v: 1, width: 4, want: "████"},
		{name: "over capacity", v: 1.7, width: 4, want: "████"},
		{name: "tiny rounds up", v: 0.01, width: 4, want: "█░░░"},
		{name: "nan", v: math.NaN(), width: 3, want: "░░░"},
		{name: "negative", v: -1, width: 2, want: "░░"},
		{name: "zero width", v: 0.5, width: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bar(tt.v, tt.width)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, max(tt.width, 0), utf8.RuneCountInString(got))
		})
	}
}
