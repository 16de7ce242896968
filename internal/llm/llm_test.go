package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newStubServer(t *testing.T, chatBody string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/chat/completions"):
			w.Write([]byte(chatBody))
		case strings.HasSuffix(r.URL.Path, "/images/generations"):
			w.Write([]byte(`{"data": [{"b64_json": "aGVsbG8="}]}`))
		case strings.HasSuffix(r.URL.Path, "/models"):
			w.Write([]byte(`{"data": []}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key", "test-model")
}

func TestGenerateText(t *testing.T) {
	c := newStubServer(t, `{"choices": [{"message": {"role": "assistant", "content": "Dear user,"}}]}`)
	got, err := c.GenerateText(context.Background(), "write an email")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if got != "Dear user," {
		t.Errorf("content = %q", got)
	}
}

func TestGenerateTextNoChoices(t *testing.T) {
	c := newStubServer(t, `{"choices": []}`)
	if _, err := c.GenerateText(context.Background(), "anything"); err == nil {
		t.Error("GenerateText succeeded with no choices")
	}
}

func TestGenerateImage(t *testing.T) {
	c := newStubServer(t, `{}`)
	img, err := c.GenerateImage(context.Background(), "a sunset over water")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if img.ImageURL != "data:image/png;base64,aGVsbG8=" {
		t.Errorf("ImageURL = %q", img.ImageURL)
	}
	if img.Description != "AI generated image based on: a sunset over water" {
		t.Errorf("Description = %q", img.Description)
	}
}

func TestPing(t *testing.T) {
	c := newStubServer(t, `{}`)
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestDataURI(t *testing.T) {
	if got := DataURI("abc"); got != "data:image/png;base64,abc" {
		t.Errorf("DataURI = %q", got)
	}
}
