package model

import "time"

// ModuleType classifies a challenge's expected output medium.
type ModuleType string

const (
	// ModuleImage expects an image (URL or data URI) as the generated output.
	ModuleImage ModuleType = "image"
	// ModuleScript expects free text (emails, speeches, articles).
	ModuleScript ModuleType = "script"
	// ModuleCode expects source code.
	ModuleCode ModuleType = "code"
	// ModuleOther is anything the backend has not classified.
	ModuleOther ModuleType = "other"
)

// Level names used by the backend catalog.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// TestCase is a sample input/expected pair shown for code challenges.
type TestCase struct {
	Input    any `json:"input"`
	Expected any `json:"expected"`
}

// Challenge is a backend-authored exercise. List endpoints omit Hint and
// TestCases; the detail endpoint includes them.
type Challenge struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Level       string     `json:"level"`
	ModuleType  ModuleType `json:"module_type"`
	ImageURL    string     `json:"image_url,omitempty"`
	Hint        string     `json:"hint,omitempty"`
	TestCases   []TestCase `json:"test_cases,omitempty"`
}

// Summary reduces a challenge to the fields the result view needs.
func (c Challenge) Summary() ChallengeSummary {
	return ChallengeSummary{
		ID:         c.ID,
		Title:      c.Title,
		Level:      c.Level,
		ModuleType: c.ModuleType,
	}
}

// ChallengeSummary travels alongside a score result to the result view.
type ChallengeSummary struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Level      string     `json:"level"`
	ModuleType ModuleType `json:"module_type"`
}

// Hint is the teaching help fetched separately from the challenge detail.
type Hint struct {
	Hint              string `json:"hint"`
	TeachingObjective string `json:"teaching_objective"`
}

// User is the authenticated account profile.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// LoginRequest is the POST /auth/login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the POST /auth/register payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse is the successful login response.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SubmissionRequest is the scored-submission payload for POST
// /submissions/create. GeneratedCode is sent only for code challenges and
// GeneratedImageDescription only for image challenges; both marshal as
// absent, not null, when unset.
type SubmissionRequest struct {
	ChallengeID               int     `json:"challenge_id"`
	UserPrompt                string  `json:"user_prompt"`
	GeneratedOutput           string  `json:"generated_output"`
	GeneratedCode             *string `json:"generated_code,omitempty"`
	GeneratedImageDescription *string `json:"generated_image_description,omitempty"`
}

// AutoHelp is remediation content attached to low-scoring results.
type AutoHelp struct {
	Message         string   `json:"message"`
	MissingElements []string `json:"missing_elements"`
	SamplePrompt    string   `json:"sample_prompt"`
}

// ScoreResult is the backend's evaluation of a submission. The client treats
// it as opaque: it is rendered once and never cached or refetched.
type ScoreResult struct {
	ChallengeID     int       `json:"challenge_id"`
	RuleScore       float64   `json:"rule_score"`
	SimilarityScore float64   `json:"similarity_score"`
	FinalScore      float64   `json:"final_score"`
	MaxScore        float64   `json:"max_score"`
	Feedback        []string  `json:"feedback"`
	Improvements    []string  `json:"improvements"`
	AutoHelp        *AutoHelp `json:"auto_help"`
}

// SubmissionCreate is the payload for the alternate POST /submissions/ path.
type SubmissionCreate struct {
	ChallengeID     int    `json:"challenge_id"`
	Prompt          string `json:"prompt"`
	GeneratedOutput string `json:"generated_output"`
}

// Submission is a stored submission record.
type Submission struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	ChallengeID     int       `json:"challenge_id"`
	Prompt          string    `json:"prompt"`
	GeneratedOutput string    `json:"generated_output"`
	Score           *float64  `json:"score,omitempty"`
	Feedback        string    `json:"feedback,omitempty"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// ProgressSummary aggregates a user's submission history.
type ProgressSummary struct {
	TotalChallenges     int     `json:"total_challenges"`
	CompletedChallenges int     `json:"completed_challenges"`
	TotalAttempts       int     `json:"total_attempts"`
	AverageScore        float64 `json:"average_score"`
}

// GeneratedImage is the AI image-generation response.
type GeneratedImage struct {
	ImageURL    string `json:"image_url"`
	Description string `json:"description,omitempty"`
}
