package practice

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/promptdojo/promptdojo/internal/api"
	"github.com/promptdojo/promptdojo/internal/model"
)

func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(NewServer().Handler())
	t.Cleanup(srv.Close)
	return api.New(srv.URL)
}

// registerAndLogin creates an account and leaves the client authenticated.
func registerAndLogin(t *testing.T, client *api.Client, username string) {
	t.Helper()
	ctx := context.Background()
	err := client.Register(ctx, model.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "sekret1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	auth, err := client.Login(ctx, model.LoginRequest{Username: username, Password: "sekret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	client.SetToken(auth.AccessToken)
}

func TestRegisterLoginMe(t *testing.T) {
	client := newTestClient(t)
	registerAndLogin(t, client, "alice")

	u, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if u.Username != "alice" || u.Email != "alice@example.com" {
		t.Errorf("profile = %+v, want alice/alice@example.com", u)
	}
	if u.ID == 0 {
		t.Error("profile ID is zero")
	}
}

func TestRegisterValidation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"short username", model.RegisterRequest{Username: "ab", Email: "a@b.com", Password: "sekret1"}},
		{"bad email", model.RegisterRequest{Username: "bob", Email: "not-an-email", Password: "sekret1"}},
		{"short password", model.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Register(ctx, tt.req)
			var reqErr *api.RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("Register error = %v, want *api.RequestError", err)
			}
			if reqErr.StatusCode != 422 {
				t.Errorf("status = %d, want 422", reqErr.StatusCode)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	client := newTestClient(t)
	registerAndLogin(t, client, "carol")

	err := client.Register(context.Background(), model.RegisterRequest{
		Username: "carol",
		Email:    "other@example.com",
		Password: "sekret1",
	})
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *api.RequestError", err)
	}
	if got := reqErr.Detail("fallback"); got != "Username already registered" {
		t.Errorf("detail = %q", got)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	client := newTestClient(t)
	_, err := client.Login(context.Background(), model.LoginRequest{Username: "nobody", Password: "x"})
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *api.RequestError", err)
	}
	if reqErr.StatusCode != 401 {
		t.Errorf("status = %d, want 401", reqErr.StatusCode)
	}
	if got := reqErr.Detail("fallback"); got != "Incorrect username or password" {
		t.Errorf("detail = %q", got)
	}
}

func TestMeRequiresAuth(t *testing.T) {
	client := newTestClient(t)
	_, err := client.Me(context.Background())
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != 401 {
		t.Fatalf("error = %v, want 401 *api.RequestError", err)
	}
}

func TestListChallenges(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	all, err := client.ListChallenges(ctx, "", "")
	if err != nil {
		t.Fatalf("ListChallenges: %v", err)
	}
	if len(all) != len(catalog) {
		t.Errorf("len = %d, want %d", len(all), len(catalog))
	}
	for _, ch := range all {
		if ch.Hint != "" {
			t.Errorf("challenge %d leaks hint in list", ch.ID)
		}
	}

	code, err := client.ListChallenges(ctx, "", "code")
	if err != nil {
		t.Fatalf("ListChallenges code: %v", err)
	}
	if len(code) != 3 {
		t.Errorf("code challenges = %d, want 3", len(code))
	}

	beginner, err := client.ChallengesByLevel(ctx, model.LevelBeginner)
	if err != nil {
		t.Fatalf("ChallengesByLevel: %v", err)
	}
	if len(beginner) != 5 {
		t.Errorf("beginner challenges = %d, want 5", len(beginner))
	}
}

func TestGetChallengeDetail(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	ch, err := client.GetChallenge(ctx, 12)
	if err != nil {
		t.Fatalf("GetChallenge: %v", err)
	}
	if ch.Hint == "" {
		t.Error("detail omits hint")
	}
	if len(ch.TestCases) == 0 {
		t.Error("code challenge detail omits test cases")
	}

	_, err = client.GetChallenge(ctx, 999)
	if !errors.Is(err, api.ErrChallengeNotFound) {
		t.Errorf("error = %v, want ErrChallengeNotFound", err)
	}
}

func TestGetHint(t *testing.T) {
	client := newTestClient(t)
	h, err := client.GetHint(context.Background(), 8)
	if err != nil {
		t.Fatalf("GetHint: %v", err)
	}
	if h.Hint == "" || h.TeachingObjective == "" {
		t.Errorf("hint = %+v, want both fields populated", h)
	}
}

// passingSubmission builds a request that scores a perfect 10 for the given
// image challenge.
func passingSubmission(id int) model.SubmissionRequest {
	e, _ := findEntry(id)
	desc := e.ExpectedOutput
	return model.SubmissionRequest{
		ChallengeID: id,
		UserPrompt: "You are a professional digital artist. Format: one detailed paragraph. " +
			"Keep it vivid for art lovers viewing the final rendered scene.",
		GeneratedOutput:           "data:image/png;base64,abc",
		GeneratedImageDescription: &desc,
	}
}

func TestNextChallengeSkipsPassed(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, client, "dave")

	first, err := client.NextChallenge(ctx, model.LevelBeginner, "")
	if err != nil {
		t.Fatalf("NextChallenge: %v", err)
	}
	if first.ID != 1 {
		t.Fatalf("first challenge ID = %d, want 1", first.ID)
	}

	if _, err := client.CreateSubmission(ctx, passingSubmission(1)); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	next, err := client.NextChallenge(ctx, model.LevelBeginner, "")
	if err != nil {
		t.Fatalf("NextChallenge after pass: %v", err)
	}
	if next.ID != 2 {
		t.Errorf("next challenge ID = %d, want 2", next.ID)
	}
}

func TestNextChallengeAnonymous(t *testing.T) {
	client := newTestClient(t)
	next, err := client.NextChallenge(context.Background(), model.LevelAdvanced, "code")
	if err != nil {
		t.Fatalf("NextChallenge: %v", err)
	}
	if next.ID != 12 {
		t.Errorf("ID = %d, want 12", next.ID)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, client, "erin")

	sub, err := client.SubmitSolution(ctx, model.SubmissionCreate{
		ChallengeID:     4,
		Prompt:          "You are a copywriter. Format: short email. Keep it friendly for new fitness app users starting out.",
		GeneratedOutput: "Welcome to the app! Set your first goal today.",
	})
	if err != nil {
		t.Fatalf("SubmitSolution: %v", err)
	}
	if sub.ID == 0 || sub.Score == nil {
		t.Fatalf("submission = %+v, want id and score set", sub)
	}

	list, err := client.ListSubmissions(ctx, 0)
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}

	filtered, err := client.ListSubmissions(ctx, 999)
	if err != nil {
		t.Fatalf("ListSubmissions filtered: %v", err)
	}
	if len(filtered) != 0 {
		t.Errorf("filtered len = %d, want 0", len(filtered))
	}

	got, err := client.GetSubmission(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if got.ChallengeID != 4 {
		t.Errorf("ChallengeID = %d, want 4", got.ChallengeID)
	}

	_, err = client.GetSubmission(ctx, 999)
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != 404 {
		t.Errorf("missing submission error = %v, want 404", err)
	}
}

func TestProgress(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, client, "frank")

	if _, err := client.CreateSubmission(ctx, passingSubmission(1)); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if _, err := client.CreateSubmission(ctx, model.SubmissionRequest{ChallengeID: 2, UserPrompt: "hi"}); err != nil {
		t.Fatalf("CreateSubmission weak: %v", err)
	}

	p, err := client.Progress(ctx)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.TotalChallenges != len(catalog) {
		t.Errorf("TotalChallenges = %d, want %d", p.TotalChallenges, len(catalog))
	}
	if p.CompletedChallenges != 1 {
		t.Errorf("CompletedChallenges = %d, want 1", p.CompletedChallenges)
	}
	if p.TotalAttempts != 2 {
		t.Errorf("TotalAttempts = %d, want 2", p.TotalAttempts)
	}
}

func TestProgressRequiresAuth(t *testing.T) {
	client := newTestClient(t)
	_, err := client.Progress(context.Background())
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != 401 {
		t.Fatalf("error = %v, want 401 *api.RequestError", err)
	}
}

func TestGenerateText(t *testing.T) {
	client := newTestClient(t)
	text, err := client.GenerateText(context.Background(), "write a haiku about rivers")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if !strings.Contains(text, "write a haiku about rivers") {
		t.Errorf("generated text %q does not echo the prompt", text)
	}
}

func TestGenerateImage(t *testing.T) {
	client := newTestClient(t)
	img, err := client.GenerateImage(context.Background(), "a sunset")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if !strings.HasPrefix(img.ImageURL, "data:image/png;base64,") {
		t.Errorf("ImageURL = %q, want data URI", img.ImageURL)
	}
	if img.Description != "AI generated image based on: a sunset" {
		t.Errorf("Description = %q", img.Description)
	}
}
