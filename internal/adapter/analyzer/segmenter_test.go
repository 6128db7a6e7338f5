package analyzer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegmenter_Segment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "two sentences",
			input: "The cat sat. It was happy.",
			want:  []string{"The cat sat.", "It was happy."},
		},
		{
			name:  "lowercase continuation is merged",
			input: "He earns $5. it's fine.",
			want:  []string{"He earns $5. it's fine."},
		},
		{
			name:  "uppercase after abbreviation splits",
			input: "Dr. Smith went home. It was late.",
			want:  []string{"Dr.", "Smith went home.", "It was late."},
		},
		{
			name:  "decimal point is merged",
			input: "Pi is about 3.14 exactly. Yes!",
			want:  []string{"Pi is about 3. 14 exactly.", "Yes!"},
		},
		{
			name:  "ellipsis is one terminator",
			input: "Wait... What? no way!",
			want:  []string{"Wait…", "What? no way!"},
		},
		{
			name:  "trailing remainder",
			input: "First one. Then a fragment",
			want:  []string{"First one.", "Then a fragment"},
		},
		{
			name:  "punctuation-only chunk is merged",
			input: "Wow!! Great.",
			want:  []string{"Wow! !", "Great."},
		},
		{
			name:  "leading punctuation-only chunk starts the accumulator",
			input: "... And then. more",
			want:  []string{"…", "And then. more"},
		},
		{
			name:  "cyrillic capitals",
			input: "Привет. Как дела? хорошо.",
			want:  []string{"Привет.", "Как дела? хорошо."},
		},
	}

	seg := NewSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seg.Segment(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Segment(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestSegmenter_Empty(t *testing.T) {
	seg := NewSegmenter()

	for _, input := range []string{"", "   ", "\n\t"} {
		if got := seg.Segment(input); len(got) != 0 {
			t.Errorf("expected no sentences for %q, got %v", input, got)
		}
	}
}

func TestSegmenter_SentencesAreTrimmed(t *testing.T) {
	seg := NewSegmenter()

	for _, s := range seg.Segment("  One.   Two!\n\nThree?   ") {
		if s == "" || s != strings.TrimSpace(s) {
			t.Errorf("sentence %q is not trimmed and non-empty", s)
		}
	}
}

func TestStartsSentence(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Hello", true},
		{"hello", false},
		{"42 Apples", true},
		{"42 apples", false},
		{"...", false},
		{"", false},
		{"«Ёлка»", true},
	}

	for _, tt := range tests {
		if got := startsSentence(tt.input); got != tt.want {
			t.Errorf("startsSentence(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
