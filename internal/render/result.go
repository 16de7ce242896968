// Package render draws the result view. It is a pure renderer: it receives a
// previously computed score result and performs no network I/O.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/promptdojo/promptdojo/internal/attempt"
	appI18n "github.com/promptdojo/promptdojo/internal/i18n"
)

// Tier is the qualitative color band for a score. Its thresholds (8, 5, 3)
// are a different scale from the label thresholds (9, 7, 5, 3); both are
// part of the scoring presentation contract.
type Tier string

const (
	TierGreen  Tier = "green"
	TierYellow Tier = "yellow"
	TierOrange Tier = "orange"
	TierRed    Tier = "red"
)

// ScoreTier maps a score to its color band.
func ScoreTier(score float64) Tier {
	switch {
	case score >= 8:
		return TierGreen
	case score >= 5:
		return TierYellow
	case score >= 3:
		return TierOrange
	default:
		return TierRed
	}
}

// ScoreLabel maps a final score to its qualitative label.
func ScoreLabel(ctx context.Context, score float64) string {
	switch {
	case score >= 9:
		return appI18n.T(ctx, "score.excellent")
	case score >= 7:
		return appI18n.T(ctx, "score.great")
	case score >= 5:
		return appI18n.T(ctx, "score.good")
	case score >= 3:
		return appI18n.T(ctx, "score.keep_practicing")
	default:
		return appI18n.T(ctx, "score.needs_improvement")
	}
}

// Percentage computes the progress-bar fill for a final score.
func Percentage(finalScore, maxScore float64) float64 {
	if maxScore == 0 {
		return 0
	}
	return finalScore / maxScore * 100
}

func tierColor(t Tier) *color.Color {
	switch t {
	case TierGreen:
		return color.New(color.FgGreen)
	case TierYellow:
		return color.New(color.FgYellow)
	case TierOrange:
		return color.New(color.FgHiYellow)
	default:
		return color.New(color.FgRed)
	}
}

const barWidth = 30

// Bar renders a textual progress bar for a 0-100 percentage.
func Bar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * barWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

// Renderer writes result views to an output stream.
type Renderer struct {
	out io.Writer
}

// New creates a renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render draws the full result view for a taken handoff outcome.
func (r *Renderer) Render(ctx context.Context, o *attempt.Outcome) {
	res := o.Result
	c := tierColor(ScoreTier(res.FinalScore))
	pct := Percentage(res.FinalScore, res.MaxScore)

	fmt.Fprintln(r.out, appI18n.Td(ctx, "result.challenge", map[string]any{"Title": o.Challenge.Title}))
	fmt.Fprintln(r.out)
	c.Fprintf(r.out, "  %g / %g  %s\n", res.FinalScore, res.MaxScore, ScoreLabel(ctx, res.FinalScore))
	fmt.Fprintf(r.out, "  %s %.0f%%\n\n", Bar(pct), pct)

	r.subScore(ctx, "result.rule_title", "result.rule_desc", res.RuleScore)
	r.subScore(ctx, "result.similarity_title", "result.similarity_desc", res.SimilarityScore)

	if len(res.Feedback) > 0 {
		fmt.Fprintln(r.out, appI18n.T(ctx, "result.feedback_title"))
		for _, item := range res.Feedback {
			fmt.Fprintf(r.out, "  + %s\n", item)
		}
		fmt.Fprintln(r.out)
	}
	if len(res.Improvements) > 0 {
		fmt.Fprintln(r.out, appI18n.T(ctx, "result.improvements_title"))
		for _, item := range res.Improvements {
			fmt.Fprintf(r.out, "  * %s\n", item)
		}
		fmt.Fprintln(r.out)
	}
	if res.AutoHelp != nil {
		fmt.Fprintln(r.out, appI18n.T(ctx, "result.autohelp_title"))
		fmt.Fprintf(r.out, "  %s\n", res.AutoHelp.Message)
		fmt.Fprintf(r.out, "  %s\n", appI18n.T(ctx, "result.missing_elements"))
		for _, item := range res.AutoHelp.MissingElements {
			fmt.Fprintf(r.out, "    - %s\n", item)
		}
		fmt.Fprintf(r.out, "  %s\n", appI18n.T(ctx, "result.sample_prompt"))
		fmt.Fprintf(r.out, "    %s\n", res.AutoHelp.SamplePrompt)
	}
}

func (r *Renderer) subScore(ctx context.Context, titleID, descID string, score float64) {
	c := tierColor(ScoreTier(score))
	fmt.Fprintln(r.out, appI18n.T(ctx, titleID))
	c.Fprintf(r.out, "  %g / 10\n", score)
	fmt.Fprintf(r.out, "  %s\n", appI18n.T(ctx, descID))
	fmt.Fprintf(r.out, "  %s\n\n", Bar(Percentage(score, 10)))
}

// RenderMissing draws the fallback view for a missing handoff (for example a
// re-run of the result view after it has already been shown). It issues no
// network request.
func (r *Renderer) RenderMissing(ctx context.Context) {
	fmt.Fprintln(r.out, appI18n.T(ctx, "result.none"))
	fmt.Fprintln(r.out, appI18n.T(ctx, "result.go_to_challenges"))
}
