package langdetect

import (
	"context"
	"testing"
)

func TestWhatlangDetector(t *testing.T) {
	d := NewWhatlangDetector()
	ctx := context.Background()

	tests := []struct {
		text string
		want string
	}{
		{"The quick brown fox jumps over the lazy dog. It was a bright and sunny morning in the village.", "en"},
		{"Съешь же ещё этих мягких французских булок, да выпей чаю. Сегодня хорошая погода в городе.", "ru"},
	}

	for _, tt := range tests {
		got, err := d.Detect(ctx, tt.text)
		if err != nil {
			t.Fatalf("Detect(%q): unexpected error: %v", tt.text, err)
		}
		if got != tt.want {
			t.Errorf("Detect(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestWhatlangDetector_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewWhatlangDetector().Detect(ctx, "Hello there."); err == nil {
		t.Error("expected context error")
	}
}

func TestFixedDetector(t *testing.T) {
	got, err := NewFixedDetector("ru").Detect(context.Background(), "anything")
	if err != nil || got != "ru" {
		t.Errorf("expected ru, got %q (%v)", got, err)
	}
}
