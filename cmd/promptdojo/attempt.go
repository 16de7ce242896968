package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/promptdojo/promptdojo/internal/api"
	"github.com/promptdojo/promptdojo/internal/attempt"
	appI18n "github.com/promptdojo/promptdojo/internal/i18n"
	"github.com/promptdojo/promptdojo/internal/llm"
	"github.com/promptdojo/promptdojo/internal/model"
	"github.com/promptdojo/promptdojo/internal/render"
)

func attemptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attempt <id>",
		Short: "Work on a challenge and submit it for scoring",
		Args:  cobra.ExactArgs(1),
		RunE:  runAttempt,
	}
	f := cmd.Flags()
	f.StringP("prompt", "p", "", "Your prompt (read interactively when omitted)")
	f.StringP("output", "o", "", "The generated output to grade")
	f.String("code", "", "The generated code to grade (code challenges)")
	f.String("file", "", "Attach a file as the generated output or code")
	f.BoolP("generate", "g", false, "Generate the output from your prompt before submitting")
	f.Bool("hint", false, "Show the hint before drafting")
	f.String("llm-url", "", "OpenAI-compatible API base URL for direct generation (default: backend side-channel)")
	f.String("llm-key", "", "API key for direct generation")
	f.String("llm-model", "gpt-4o-mini", "Model name for direct generation")
	addCommonFlags(f)
	return cmd
}

// generator picks between the backend's AI side-channel and a direct
// OpenAI-compatible endpoint, depending on whether an LLM URL is configured.
func (a *app) generator(ctx context.Context) (attempt.Generator, error) {
	llmURL := a.v.GetString("llm-url")
	if llmURL == "" {
		return nil, nil // nil means the workflow falls back to the backend
	}
	client := llm.New(llmURL, a.v.GetString("llm-key"), a.v.GetString("llm-model"))
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("LLM health check: %w", err)
	}
	slog.Info("using direct LLM endpoint", "url", llmURL, "model", a.v.GetString("llm-model"))
	return client, nil
}

func runAttempt(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	id, err := idArg(args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	gen, err := a.generator(ctx)
	if err != nil {
		return err
	}

	handoff := &attempt.Handoff{}
	w := attempt.New(a.client, gen, handoff)

	if err := w.Start(ctx, id); err != nil {
		if errors.Is(err, api.ErrChallengeNotFound) {
			return fmt.Errorf("%s", appI18n.T(ctx, "attempt.not_found"))
		}
		return fmt.Errorf("load challenge: %w", err)
	}
	ch := w.Challenge()
	printChallengeDetail(ch)
	fmt.Println()

	if a.v.GetBool("hint") {
		h, err := w.FetchHint(ctx)
		if err != nil {
			slog.Warn("hint fetch failed", "error", err)
		} else {
			fmt.Printf("%s: %s\n\n", appI18n.T(ctx, "hint.title"), h.Hint)
		}
	}

	prompt := a.v.GetString("prompt")
	if prompt == "" {
		prompt, err = promptLine("Your prompt: ")
		if err != nil {
			return err
		}
	}
	w.SetPrompt(prompt)

	if a.v.GetBool("generate") {
		if err := generateIntoDraft(ctx, w, ch); err != nil {
			return err
		}
	}
	if path := a.v.GetString("file"); path != "" {
		if err := w.AttachFile(path); err != nil {
			return err
		}
		fmt.Printf("Attached %s\n", w.Draft().FileName)
	}
	if out := a.v.GetString("output"); out != "" {
		w.SetOutput(out)
	}
	if code := a.v.GetString("code"); code != "" {
		w.SetCode(code)
	}

	// Last chance to satisfy the required-field rules interactively.
	if err := promptMissingFields(ctx, w, ch); err != nil {
		return err
	}

	fmt.Println(appI18n.T(ctx, "attempt.submitting"))
	if err := w.Submit(ctx); err != nil {
		var verr *attempt.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s", verr.Message)
		}
		return fmt.Errorf("%s", appI18n.Td(ctx, "attempt.submit_failed", map[string]any{"Error": err.Error()}))
	}

	outcome, ok := handoff.Take()
	if !ok {
		render.New(color.Output).RenderMissing(ctx)
		return nil
	}
	fmt.Println()
	render.New(color.Output).Render(ctx, outcome)
	return nil
}

func generateIntoDraft(ctx context.Context, w *attempt.Workflow, ch *model.Challenge) error {
	if err := w.Generate(ctx); err != nil {
		var verr *attempt.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s", verr.Message)
		}
		return fmt.Errorf("%s", appI18n.Td(ctx, "attempt.generate_failed", map[string]any{"Error": err.Error()}))
	}

	d := w.Draft()
	switch ch.ModuleType {
	case model.ModuleImage:
		fmt.Printf("Generated image: %s\n", truncate(d.GeneratedOutput, 80))
		if d.ImageDescription != "" {
			fmt.Printf("Description: %s\n", d.ImageDescription)
		}
	case model.ModuleCode:
		fmt.Printf("Generated code:\n%s\n", d.GeneratedCode)
	default:
		fmt.Printf("Generated output:\n%s\n", d.GeneratedOutput)
	}
	return nil
}

// promptMissingFields asks for whichever required field is still empty so a
// bare `promptdojo attempt N` stays usable without flags.
func promptMissingFields(ctx context.Context, w *attempt.Workflow, ch *model.Challenge) error {
	d := w.Draft()
	if ch.ModuleType == model.ModuleCode {
		if strings.TrimSpace(d.GeneratedCode) == "" {
			code, err := promptLine("Paste the generated code: ")
			if err != nil {
				return err
			}
			w.SetCode(code)
		}
		return nil
	}
	if strings.TrimSpace(d.GeneratedOutput) == "" {
		out, err := promptLine("Paste the generated output: ")
		if err != nil {
			return err
		}
		w.SetOutput(out)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
