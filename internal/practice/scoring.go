package practice

import (
	"math"
	"strings"

	"github.com/promptdojo/promptdojo/internal/model"
)

var (
	roleKeywords = []string{
		"you are", "act as", "imagine you", "as a", "role:", "pretend",
		"assume you are", "behave as",
	}
	formatKeywords = []string{
		"format:", "output:", "write as", "in the form of", "structure:",
		"list", "bullet points", "paragraph", "json", "markdown", "table",
		"step by step", "numbered",
	}
	constraintKeywords = []string{
		"must", "should", "limit", "maximum", "minimum", "at least",
		"no more than", "words", "sentences", "tone:", "style:", "formal",
		"casual", "professional", "within", "between", "exactly", "keep it",
		"short", "detailed", "brief",
	}
	audienceKeywords = []string{
		"audience:", "for", "target", "reader", "user", "beginner", "expert",
		"student", "children", "developer", "customer", "client", "manager",
		"team",
	}

	stopWords = map[string]struct{}{
		"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {},
		"were": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
		"of": {}, "with": {}, "and": {}, "or": {}, "but": {}, "not": {},
		"this": {}, "that": {}, "it": {}, "be": {}, "as": {}, "by": {},
	}
)

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// ruleBasedScore awards two points for each prompt-engineering element
// present in the prompt: role, output format, constraints, detail, audience.
func ruleBasedScore(prompt string) (score float64, feedback, improvements []string) {
	lower := strings.ToLower(prompt)

	if containsAny(lower, roleKeywords) {
		score += 2
		feedback = append(feedback, "Role is specified in your prompt")
	} else {
		improvements = append(improvements, "Try assigning a role (e.g., You are a professional photographer...)")
	}

	if containsAny(lower, formatKeywords) {
		score += 2
		feedback = append(feedback, "Output format is specified")
	} else {
		improvements = append(improvements, "Specify the desired output format (e.g., Write as a numbered list...)")
	}

	if containsAny(lower, constraintKeywords) {
		score += 2
		feedback = append(feedback, "Constraints are specified (length/style/tone)")
	} else {
		improvements = append(improvements, "Add constraints like length, tone, or style (e.g., Keep it under 200 words, professional tone)")
	}

	if len(strings.Fields(prompt)) >= 10 {
		score += 2
		feedback = append(feedback, "Task is clearly described with enough detail")
	} else {
		improvements = append(improvements, "Describe the task more clearly with more detail (aim for at least 10 words)")
	}

	if containsAny(lower, audienceKeywords) {
		score += 2
		feedback = append(feedback, "Audience or context is mentioned")
	} else {
		improvements = append(improvements, "Mention the target audience (e.g., for beginner developers...)")
	}

	return score, feedback, improvements
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

// similarityScore measures lexical overlap between the compared text and the
// expected output, ignoring stop words, scaled to 0..10.
func similarityScore(text, expected string) float64 {
	textWords := wordSet(text)
	expectedWords := wordSet(expected)

	meaningfulExpected := 0
	meaningfulCommon := 0
	for w := range expectedWords {
		if _, stop := stopWords[w]; stop {
			continue
		}
		meaningfulExpected++
		if _, ok := textWords[w]; ok {
			meaningfulCommon++
		}
	}
	if meaningfulExpected == 0 {
		return 0
	}

	ratio := float64(meaningfulCommon) / float64(meaningfulExpected)
	return roundTo1(math.Min(ratio*10, 10))
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// comparableText picks which submitted text gets measured against the
// expected output. Image challenges prefer the AI description; a raw image
// URL or data URI is useless for lexical comparison, so the user prompt is
// the last resort there.
func comparableText(req model.SubmissionRequest, moduleType model.ModuleType) string {
	switch moduleType {
	case model.ModuleImage:
		if req.GeneratedImageDescription != nil && *req.GeneratedImageDescription != "" {
			return *req.GeneratedImageDescription
		}
		if req.GeneratedOutput != "" &&
			!strings.HasPrefix(req.GeneratedOutput, "data:image") &&
			!strings.HasPrefix(req.GeneratedOutput, "http") {
			return req.GeneratedOutput
		}
		return req.UserPrompt
	case model.ModuleCode:
		if req.GeneratedCode != nil && *req.GeneratedCode != "" {
			return *req.GeneratedCode
		}
		return req.GeneratedOutput
	default:
		return req.GeneratedOutput
	}
}

// autoHelp builds remediation content with a sample prompt template matched
// to the challenge's module type.
func autoHelp(moduleType model.ModuleType) *model.AutoHelp {
	var sample string
	switch moduleType {
	case model.ModuleImage:
		sample = "You are a professional digital artist. Create a highly detailed image of [describe scene]. The style should be [style]. Include [specific elements]. The lighting should be [lighting type]. The mood is [mood]."
	case model.ModuleCode:
		sample = "You are an expert Python developer. Write a clean, well-documented function called [name] that [does what]. It should accept [parameters] and return [return type]. Handle edge cases like [cases]. Include type hints and docstring."
	default:
		sample = "You are a [role] with expertise in [domain]. Write a [format] about [topic] for [audience]. The tone should be [tone]. Include [sections/elements]. Keep it [length constraint]."
	}

	return &model.AutoHelp{
		Message: "Your score is low. Here is help to improve your prompting skills:",
		MissingElements: []string{
			"Your prompt may be too short or vague",
			"Try adding a specific role for the AI",
			"Describe exactly what output format you want",
			"Add constraints like length, tone, or style",
			"Mention who the target audience is",
		},
		SamplePrompt: sample,
	}
}

// scoreSubmission runs the full evaluation pipeline for one submission.
// Unknown challenge IDs still score: the similarity component is simply zero.
func scoreSubmission(req model.SubmissionRequest) model.ScoreResult {
	ruleScore, feedback, improvements := ruleBasedScore(req.UserPrompt)

	expected := ""
	moduleType := model.ModuleScript
	if e, ok := findEntry(req.ChallengeID); ok {
		expected = e.ExpectedOutput
		moduleType = e.ModuleType
	}

	similarity := similarityScore(comparableText(req, moduleType), expected)
	final := roundTo1((ruleScore + similarity) / 2)

	result := model.ScoreResult{
		ChallengeID:     req.ChallengeID,
		RuleScore:       ruleScore,
		SimilarityScore: similarity,
		FinalScore:      final,
		MaxScore:        10,
		Feedback:        feedback,
		Improvements:    improvements,
	}
	if final < 2 {
		result.AutoHelp = autoHelp(moduleType)
	}
	return result
}
