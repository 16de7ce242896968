// Package api is the HTTP client for the prompt-practice platform backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/promptdojo/promptdojo/internal/model"
)

// ErrChallengeNotFound reports a challenge id the backend does not know.
// The backend answers these with a 200 body carrying an "error" field.
var ErrChallengeNotFound = errors.New("challenge not found")

// RequestError is returned for any non-2xx response. Its message is the raw
// response body text; callers must not assume a structured error body.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return "API call failed"
	}
	return e.Body
}

// Detail extracts a FastAPI-style {"detail": "..."} message from the body,
// or returns the fallback when the body has no such field.
func (e *RequestError) Detail(fallback string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fallback
}

// Client talks JSON over HTTP to a fixed base URL. Zero value is not usable;
// construct with New.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a per-request timeout. The default client has none: each
// call is a single best-effort round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the given backend origin.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token for subsequent requests. An empty token
// means requests go out unauthenticated.
func (c *Client) SetToken(token string) { c.token = token }

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// request performs one round trip and returns the raw response body.
// Content-Type is always application/json; Authorization is attached only
// when a token is set. No retries, no cancellation beyond ctx.
func (c *Client) request(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	body, err := c.request(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// Login authenticates and returns the access token payload.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var auth model.AuthResponse
	if err := c.postJSON(ctx, "/auth/login", req, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Me fetches the profile for the client's current bearer token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.getJSON(ctx, "/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Register creates a new account. The server body is discarded on success;
// callers follow up with Login.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) error {
	return c.postJSON(ctx, "/auth/register", req, nil)
}

func browseQuery(level, moduleType string) string {
	params := url.Values{}
	if level != "" {
		params.Set("level", level)
	}
	if moduleType != "" {
		params.Set("module_type", moduleType)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// ListChallenges lists challenges, optionally filtered by level and module type.
func (c *Client) ListChallenges(ctx context.Context, level, moduleType string) ([]model.Challenge, error) {
	var challenges []model.Challenge
	if err := c.getJSON(ctx, "/challenges"+browseQuery(level, moduleType), &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

// ChallengesByLevel lists the challenges for one level.
func (c *Client) ChallengesByLevel(ctx context.Context, level string) ([]model.Challenge, error) {
	var challenges []model.Challenge
	if err := c.getJSON(ctx, "/challenges/level/"+url.PathEscape(level), &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

// NextChallenge returns the next unsolved challenge matching the filters.
func (c *Client) NextChallenge(ctx context.Context, level, moduleType string) (*model.Challenge, error) {
	var ch model.Challenge
	if err := c.getJSON(ctx, "/challenges/next"+browseQuery(level, moduleType), &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// GetChallenge fetches one challenge's detail. A 200 body with an "error"
// field is mapped to ErrChallengeNotFound.
func (c *Client) GetChallenge(ctx context.Context, id int) (*model.Challenge, error) {
	body, err := c.request(ctx, http.MethodGet, "/challenges/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrChallengeNotFound, probe.Error)
	}
	var ch model.Challenge
	if err := json.Unmarshal(body, &ch); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return &ch, nil
}

// GetHint fetches the hint and teaching objective for a challenge.
func (c *Client) GetHint(ctx context.Context, id int) (*model.Hint, error) {
	var h model.Hint
	if err := c.getJSON(ctx, "/challenges/"+strconv.Itoa(id)+"/hint", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// CreateSubmission submits an attempt for scoring and returns the score result.
func (c *Client) CreateSubmission(ctx context.Context, req model.SubmissionRequest) (*model.ScoreResult, error) {
	var result model.ScoreResult
	if err := c.postJSON(ctx, "/submissions/create", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitSolution posts to the alternate submission path, which records and
// returns a Submission instead of scoring synchronously.
func (c *Client) SubmitSolution(ctx context.Context, req model.SubmissionCreate) (*model.Submission, error) {
	var sub model.Submission
	if err := c.postJSON(ctx, "/submissions/", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubmissions lists the caller's submissions, optionally for one challenge.
func (c *Client) ListSubmissions(ctx context.Context, challengeID int) ([]model.Submission, error) {
	path := "/submissions"
	if challengeID > 0 {
		path += "?challenge_id=" + strconv.Itoa(challengeID)
	}
	var subs []model.Submission
	if err := c.getJSON(ctx, path, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// GetSubmission fetches one submission by id.
func (c *Client) GetSubmission(ctx context.Context, id int) (*model.Submission, error) {
	var sub model.Submission
	if err := c.getJSON(ctx, "/submissions/"+strconv.Itoa(id), &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Progress fetches the caller's aggregate submission stats.
func (c *Client) Progress(ctx context.Context) (*model.ProgressSummary, error) {
	var p model.ProgressSummary
	if err := c.getJSON(ctx, "/submissions/progress/me", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GenerateImage asks the backend's AI side-channel to render an image for
// the prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*model.GeneratedImage, error) {
	var img model.GeneratedImage
	if err := c.postJSON(ctx, "/gemini/generate-image", map[string]string{"prompt": prompt}, &img); err != nil {
		return nil, err
	}
	if img.ImageURL == "" {
		return nil, errors.New("generation returned no image")
	}
	return &img, nil
}

// GenerateText asks the backend's AI side-channel to generate text or code
// for the prompt.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	var out struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := c.postJSON(ctx, "/gemini/generate-text", map[string]string{"prompt": prompt}, &out); err != nil {
		return "", err
	}
	if out.GeneratedText == "" {
		return "", errors.New("generation returned no content")
	}
	return out.GeneratedText, nil
}
