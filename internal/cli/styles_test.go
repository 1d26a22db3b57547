package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessages(t *testing.T) {
	tests := []struct {
		name   string
		format func(string) string
		want   string
	}{
		{"success", FormatSuccess, "✓ saved"},
		{"warning", FormatWarning, "⚠️ saved"},
		{"info", FormatInfo, "ℹ️ saved"},
		{"title", FormatTitle, RepeatIcon + " saved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.format("saved"), tt.want)
		})
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.95, "95%"},
		{0.85, "85%"},
		{0.72, "72%"},
		{0.4, "40%"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Contains(t, formatConfidence(tt.confidence), tt.want)
		})
	}
}
