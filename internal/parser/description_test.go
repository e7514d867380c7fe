package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devjobshq/jobharvest/internal/parser"
)

func TestWindowDescription(t *testing.T) {
	title := "Programme Officer"

	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name: "captures between title and related-listings banner",
			lines: []string{
				"Home", title, "First paragraph.", "Second paragraph.",
				"Other Jobs You May Like", "Trailing junk",
			},
			want: "First paragraph.\nSecond paragraph.",
		},
		{
			name: "captures until membership upsell",
			lines: []string{
				title, "Body line.", "Become a Premium Member today", "More junk",
			},
			want: "Body line.",
		},
		{
			name:  "no title anchor yields empty description",
			lines: []string{"Home", "Some body text", "Other Jobs You May Like"},
			want:  "",
		},
		{
			name:  "title is last line",
			lines: []string{"Home", title},
			want:  "",
		},
		{
			name:  "no stop marker captures to end",
			lines: []string{title, "Only line one.", "Only line two."},
			want:  "Only line one.\nOnly line two.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.WindowDescription(tt.lines, title))
		})
	}
}
