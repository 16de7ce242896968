package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/promptdojo/promptdojo/internal/attempt"
	appI18n "github.com/promptdojo/promptdojo/internal/i18n"
	"github.com/promptdojo/promptdojo/internal/model"
)

func initI18n(t *testing.T) {
	t.Helper()
	if err := appI18n.Init("en"); err != nil {
		t.Fatalf("i18n init: %v", err)
	}
}

func TestScoreTier(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{10, TierGreen},
		{8, TierGreen},
		{7.9, TierYellow},
		{5, TierYellow},
		{4.9, TierOrange},
		{3, TierOrange},
		{2.9, TierRed},
		{0, TierRed},
	}
	for _, tt := range tests {
		if got := ScoreTier(tt.score); got != tt.want {
			t.Errorf("ScoreTier(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestScoreLabel(t *testing.T) {
	initI18n(t)
	ctx := context.Background()

	tests := []struct {
		score float64
		want  string
	}{
		{10, "Excellent!"},
		{9, "Excellent!"},
		{8.9, "Great Job!"},
		{8, "Great Job!"},
		{7, "Great Job!"},
		{6.9, "Good Effort!"},
		{5, "Good Effort!"},
		{4.9, "Keep Practicing!"},
		{3, "Keep Practicing!"},
		{2.9, "Needs Improvement"},
		{0, "Needs Improvement"},
	}
	for _, tt := range tests {
		if got := ScoreLabel(ctx, tt.score); got != tt.want {
			t.Errorf("ScoreLabel(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(8, 10); got != 80 {
		t.Errorf("Percentage(8, 10) = %v, want 80", got)
	}
	if got := Percentage(5, 0); got != 0 {
		t.Errorf("Percentage(5, 0) = %v, want 0 for zero max", got)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "[------------------------------]"},
		{100, "[##############################]"},
		{50, "[###############---------------]"},
		{-10, "[------------------------------]"},
		{150, "[##############################]"},
	}
	for _, tt := range tests {
		if got := Bar(tt.pct); got != tt.want {
			t.Errorf("Bar(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func renderToString(t *testing.T, o *attempt.Outcome) string {
	t.Helper()
	initI18n(t)
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	New(&buf).Render(context.Background(), o)
	return buf.String()
}

func TestRenderFullResult(t *testing.T) {
	out := renderToString(t, &attempt.Outcome{
		Result: model.ScoreResult{
			ChallengeID:     1,
			RuleScore:       8,
			SimilarityScore: 6,
			FinalScore:      7,
			MaxScore:        10,
			Feedback:        []string{"Role is specified in your prompt"},
			Improvements:    []string{"Mention the target audience (e.g., for beginner developers...)"},
		},
		Challenge: model.ChallengeSummary{ID: 1, Title: "Golden Sunset Beach", Level: model.LevelBeginner},
	})

	for _, want := range []string{
		"Challenge: Golden Sunset Beach",
		"7 / 10  Great Job!",
		"70%",
		"Rule-Based Score",
		"Similarity Score",
		"What You Did Well",
		"+ Role is specified in your prompt",
		"How to Improve",
		"* Mention the target audience",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Auto Help") {
		t.Error("Auto Help section rendered without auto help data")
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	out := renderToString(t, &attempt.Outcome{
		Result: model.ScoreResult{
			FinalScore: 10, MaxScore: 10, RuleScore: 10, SimilarityScore: 10,
		},
		Challenge: model.ChallengeSummary{Title: "Sunset"},
	})

	if strings.Contains(out, "How to Improve") {
		t.Error("improvements section rendered with no improvements")
	}
	if strings.Contains(out, "What You Did Well") {
		t.Error("feedback section rendered with no feedback")
	}
}

func TestRenderAutoHelp(t *testing.T) {
	out := renderToString(t, &attempt.Outcome{
		Result: model.ScoreResult{
			FinalScore: 1, MaxScore: 10,
			AutoHelp: &model.AutoHelp{
				Message:         "Your score is low. Here is help to improve your prompting skills:",
				MissingElements: []string{"Your prompt may be too short or vague"},
				SamplePrompt:    "You are a professional digital artist.",
			},
		},
		Challenge: model.ChallengeSummary{Title: "Sunset"},
	})

	for _, want := range []string{
		"Auto Help",
		"Your score is low.",
		"Missing elements:",
		"- Your prompt may be too short or vague",
		"Sample Prompt Template:",
		"You are a professional digital artist.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderMissing(t *testing.T) {
	initI18n(t)
	var buf bytes.Buffer
	New(&buf).RenderMissing(context.Background())

	if !strings.Contains(buf.String(), "No result data found.") {
		t.Errorf("output = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Go to challenges") {
		t.Errorf("output missing navigation fallback: %q", buf.String())
	}
}
