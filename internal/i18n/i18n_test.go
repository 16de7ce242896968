package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestScoreLabels(t *testing.T) {
	ctx := initLang(t, "en")

	tests := []struct {
		id   string
		want string
	}{
		{"score.excellent", "Excellent!"},
		{"score.great", "Great Job!"},
		{"score.good", "Good Effort!"},
		{"score.keep_practicing", "Keep Practicing!"},
		{"score.needs_improvement", "Needs Improvement"},
	}
	for _, tt := range tests {
		if got := T(ctx, tt.id); got != tt.want {
			t.Errorf("T(%s) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestValidationMessages(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "validate.prompt_required"); got != "Please write your prompt first!" {
		t.Errorf("T(validate.prompt_required) = %q", got)
	}
	if got := T(ctx, "result.none"); got != "No result data found." {
		t.Errorf("T(result.none) = %q", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "attempt.back", map[string]any{"Level": "beginner"})
	if got != "Back to beginner challenges" {
		t.Errorf("Td(attempt.back) = %q, want 'Back to beginner challenges'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	// Missing IDs fall back to the ID itself.
	if got := T(ctx, "no.such.key"); got != "no.such.key" {
		t.Errorf("T(no.such.key) = %q, want the ID back", got)
	}
}
