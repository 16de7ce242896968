package attempt

import (
	"sync"

	"github.com/promptdojo/promptdojo/internal/model"
)

// Outcome is what the attempt workflow passes to the result view: the score
// result plus a minimal challenge summary.
type Outcome struct {
	Result    model.ScoreResult
	Challenge model.ChallengeSummary
}

// Handoff is a one-shot in-memory channel between the attempt workflow and
// the result view. Results are never persisted: a result can be taken exactly
// once, and a consumer arriving without a prior Put gets nothing and must
// render its fallback.
type Handoff struct {
	mu      sync.Mutex
	outcome *Outcome
}

// Put stores an outcome, replacing any untaken one.
func (h *Handoff) Put(o Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outcome = &o
}

// Take removes and returns the stored outcome. The second of two consecutive
// takes reports false.
func (h *Handoff) Take() (*Outcome, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o := h.outcome
	h.outcome = nil
	return o, o != nil
}
