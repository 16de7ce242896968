package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/promptdojo/promptdojo/internal/model"
)

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id": 1, "username": "alice"}`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, WithToken("tok123"))
	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want Bearer tok123", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL)
	if _, err := client.ListChallenges(context.Background(), "", ""); err != nil {
		t.Fatalf("ListChallenges: %v", err)
	}
	if hasAuth {
		t.Errorf("Authorization header sent without token: %q", gotAuth)
	}
}

func TestErrorBodyPropagation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Incorrect username or password"}`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL)
	_, err := client.Login(context.Background(), model.LoginRequest{Username: "x", Password: "y"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", reqErr.StatusCode)
	}
	if reqErr.Error() != `{"detail": "Incorrect username or password"}` {
		t.Errorf("Error() = %q, want raw body", reqErr.Error())
	}
	if got := reqErr.Detail("fallback"); got != "Incorrect username or password" {
		t.Errorf("Detail() = %q", got)
	}
}

func TestRequestErrorDetailFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain text body", "Internal Server Error", "fallback"},
		{"json without detail", `{"message": "nope"}`, "fallback"},
		{"empty body", "", "fallback"},
		{"detail present", `{"detail": "boom"}`, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &RequestError{StatusCode: 500, Body: tt.body}
			if got := e.Detail("fallback"); got != tt.want {
				t.Errorf("Detail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestErrorMessage(t *testing.T) {
	e := &RequestError{StatusCode: 500, Body: "  "}
	if e.Error() != "API call failed" {
		t.Errorf("Error() = %q, want generic message for blank body", e.Error())
	}
}

func TestGetChallengeErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Backend answers unknown ids with 200 and an error field.
		w.Write([]byte(`{"error": "Challenge not found"}`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL)
	_, err := client.GetChallenge(context.Background(), 42)
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("error = %v, want ErrChallengeNotFound", err)
	}
}

func TestBrowseQuery(t *testing.T) {
	tests := []struct {
		level, moduleType string
		want              string
	}{
		{"", "", ""},
		{"beginner", "", "?level=beginner"},
		{"", "code", "?module_type=code"},
		{"advanced", "image", "?level=advanced&module_type=image"},
	}
	for _, tt := range tests {
		if got := browseQuery(tt.level, tt.moduleType); got != tt.want {
			t.Errorf("browseQuery(%q, %q) = %q, want %q", tt.level, tt.moduleType, got, tt.want)
		}
	}
}

func TestCreateSubmissionBody(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions/create" {
			t.Errorf("path = %q, want /submissions/create", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"challenge_id": 7, "final_score": 5, "max_score": 10}`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL)
	_, err := client.CreateSubmission(context.Background(), model.SubmissionRequest{
		ChallengeID:     7,
		UserPrompt:      "a prompt",
		GeneratedOutput: "an output",
	})
	if err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	// Script submissions must not carry null code or image fields.
	if _, present := raw["generated_code"]; present {
		t.Error("generated_code present in script submission body")
	}
	if _, present := raw["generated_image_description"]; present {
		t.Error("generated_image_description present in script submission body")
	}
	if string(raw["challenge_id"]) != "7" {
		t.Errorf("challenge_id = %s, want 7", raw["challenge_id"])
	}
}

func TestBaseURLTrimsTrailingSlash(t *testing.T) {
	client := New("http://example.com/")
	if client.BaseURL() != "http://example.com" {
		t.Errorf("BaseURL() = %q", client.BaseURL())
	}
}

func TestGenerateImageEmptyURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"image_url": ""}`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL)
	if _, err := client.GenerateImage(context.Background(), "a cat"); err == nil {
		t.Error("GenerateImage succeeded with empty image_url")
	}
}
