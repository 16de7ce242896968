// Package attempt drives the challenge-attempt workflow: load a challenge,
// collect the user's prompt and generated output, validate, submit for
// scoring, and hand the score result off to the result view.
package attempt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/promptdojo/promptdojo/internal/api"
	appI18n "github.com/promptdojo/promptdojo/internal/i18n"
	"github.com/promptdojo/promptdojo/internal/model"
)

// State is the workflow's position in the attempt lifecycle.
type State string

const (
	// StateLoading means the challenge detail fetch is in flight.
	StateLoading State = "loading"
	// StateDrafting means the draft is open for edits, generation, and upload.
	StateDrafting State = "drafting"
	// StateSubmitting means the submission round trip is in flight.
	StateSubmitting State = "submitting"
	// StateCompleted means the attempt was scored; the result is in the handoff.
	StateCompleted State = "completed"
	// StateErrored means the challenge could not be loaded. Terminal.
	StateErrored State = "errored"
)

// ValidationError is a client-side required-field failure, raised before any
// network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Generator produces AI output for a prompt. The backend's side-channel
// endpoints and the direct OpenAI-compatible client both implement it.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) (*model.GeneratedImage, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Draft is the user's in-progress, unsaved work on one challenge. It lives
// only in memory and is discarded on submit or abandonment.
type Draft struct {
	UserPrompt       string
	GeneratedOutput  string
	GeneratedCode    string
	ImageDescription string
	FileName         string
}

// Workflow is the attempt state machine for a single challenge. Methods are
// called from one goroutine; network calls are blocking round trips that are
// never deduplicated or aborted.
type Workflow struct {
	client  *api.Client
	gen     Generator
	handoff *Handoff

	state     State
	challenge *model.Challenge
	draft     Draft
	hint      *model.Hint
	loadErr   string
}

// New creates a workflow. gen may be nil, in which case the backend's
// generation endpoints are used.
func New(client *api.Client, gen Generator, handoff *Handoff) *Workflow {
	if gen == nil {
		gen = client
	}
	return &Workflow{client: client, gen: gen, handoff: handoff, state: StateLoading}
}

// State returns the current workflow state.
func (w *Workflow) State() State { return w.state }

// Challenge returns the loaded challenge, or nil before Start succeeds.
func (w *Workflow) Challenge() *model.Challenge { return w.challenge }

// Draft returns a copy of the current draft.
func (w *Workflow) Draft() Draft { return w.draft }

// Hint returns the fetched hint, or nil.
func (w *Workflow) Hint() *model.Hint { return w.hint }

// LoadError returns the message that moved the workflow to StateErrored.
func (w *Workflow) LoadError() string { return w.loadErr }

// Start fetches the challenge detail and opens an empty draft. A fetch
// failure or a backend error field is terminal for this attempt.
func (w *Workflow) Start(ctx context.Context, id int) error {
	w.state = StateLoading
	ch, err := w.client.GetChallenge(ctx, id)
	if err != nil {
		w.state = StateErrored
		w.loadErr = err.Error()
		return err
	}
	w.challenge = ch
	w.draft = Draft{}
	w.state = StateDrafting
	return nil
}

// SetPrompt replaces the draft's prompt text.
func (w *Workflow) SetPrompt(text string) { w.draft.UserPrompt = text }

// SetOutput replaces the draft's generated output (the manual paste path).
func (w *Workflow) SetOutput(text string) { w.draft.GeneratedOutput = text }

// SetCode replaces the draft's generated code (the manual paste path for
// code challenges).
func (w *Workflow) SetCode(text string) { w.draft.GeneratedCode = text }

// FetchHint loads the hint and teaching objective. It never affects the
// validity of a submit.
func (w *Workflow) FetchHint(ctx context.Context) (*model.Hint, error) {
	if w.challenge == nil {
		return nil, errors.New("no challenge loaded")
	}
	h, err := w.client.GetHint(ctx, w.challenge.ID)
	if err != nil {
		return nil, err
	}
	w.hint = h
	return h, nil
}

// Generate runs the AI side-channel for the current prompt and routes the
// result into the draft: image challenges get an image URL (and optionally a
// description), code challenges get generated code, everything else gets
// generated output. On failure the draft is untouched and the workflow stays
// in Drafting. Overlapping calls race last-resolved-wins.
func (w *Workflow) Generate(ctx context.Context) error {
	if strings.TrimSpace(w.draft.UserPrompt) == "" {
		return &ValidationError{Message: appI18n.T(ctx, "validate.prompt_required")}
	}

	if w.challenge.ModuleType == model.ModuleImage {
		img, err := w.gen.GenerateImage(ctx, w.draft.UserPrompt)
		if err != nil {
			return fmt.Errorf("generate image: %w", err)
		}
		w.draft.GeneratedOutput = img.ImageURL
		if img.Description != "" {
			w.draft.ImageDescription = img.Description
		}
		return nil
	}

	text, err := w.gen.GenerateText(ctx, w.draft.UserPrompt)
	if err != nil {
		return fmt.Errorf("generate text: %w", err)
	}
	if w.challenge.ModuleType == model.ModuleCode {
		w.draft.GeneratedCode = text
	} else {
		w.draft.GeneratedOutput = text
	}
	return nil
}

// AttachFile reads the whole file and routes its content into the draft,
// overwriting any previous value. Only one attachment at a time; attaching
// again replaces the previous one.
func (w *Workflow) AttachFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	w.draft.FileName = filepath.Base(path)
	if w.challenge.ModuleType == model.ModuleCode {
		w.draft.GeneratedCode = string(data)
	} else {
		w.draft.GeneratedOutput = string(data)
	}
	return nil
}

// Validate applies the required-field rules: a prompt is always required;
// non-code challenges require generated output; code challenges require
// generated code. The image description is always optional.
func (w *Workflow) Validate(ctx context.Context) error {
	if strings.TrimSpace(w.draft.UserPrompt) == "" {
		return &ValidationError{Message: appI18n.T(ctx, "validate.prompt_required")}
	}
	isCode := w.challenge.ModuleType == model.ModuleCode
	if !isCode && strings.TrimSpace(w.draft.GeneratedOutput) == "" {
		return &ValidationError{Message: appI18n.T(ctx, "validate.output_required")}
	}
	if isCode && strings.TrimSpace(w.draft.GeneratedCode) == "" {
		return &ValidationError{Message: appI18n.T(ctx, "validate.code_required")}
	}
	return nil
}

// buildRequest snapshots the draft into a submission request. Generated
// output falls back to generated code when empty; the code and image
// description fields are sent only for their module types.
func (w *Workflow) buildRequest() model.SubmissionRequest {
	req := model.SubmissionRequest{
		ChallengeID: w.challenge.ID,
		UserPrompt:  w.draft.UserPrompt,
	}
	req.GeneratedOutput = w.draft.GeneratedOutput
	if req.GeneratedOutput == "" {
		req.GeneratedOutput = w.draft.GeneratedCode
	}
	if w.challenge.ModuleType == model.ModuleCode {
		code := w.draft.GeneratedCode
		req.GeneratedCode = &code
	}
	if w.challenge.ModuleType == model.ModuleImage {
		desc := w.draft.ImageDescription
		req.GeneratedImageDescription = &desc
	}
	return req
}

// Submit validates the draft, posts it for scoring, and on success places
// the score result and challenge summary into the handoff. On failure the
// draft is preserved and the workflow returns to Drafting so the user can
// retry without retyping.
func (w *Workflow) Submit(ctx context.Context) error {
	if w.state != StateDrafting {
		return errors.New("nothing to submit")
	}
	if err := w.Validate(ctx); err != nil {
		return err
	}

	req := w.buildRequest()
	w.state = StateSubmitting
	result, err := w.client.CreateSubmission(ctx, req)
	if err != nil {
		w.state = StateDrafting
		return fmt.Errorf("submit: %w", err)
	}

	w.handoff.Put(Outcome{Result: *result, Challenge: w.challenge.Summary()})
	w.draft = Draft{}
	w.state = StateCompleted
	return nil
}
