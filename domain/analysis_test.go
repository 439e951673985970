package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEstimate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"150", "150"},
		{"150 kcal", "150"},
		{"Choco Pie 150", "150"},
		{"About 1,200 kcal", "1200"},
		{"12,345,678", "12345678"},
		{"150-200 kcal", "150"},
		{"007", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseEstimate(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEstimate_Malformed(t *testing.T) {
	for _, text := range []string{"", "no idea", "-50", "about -50 kcal"} {
		_, err := ParseEstimate(text)
		assert.ErrorIs(t, err, ErrMalformedEstimate, text)
	}
}
