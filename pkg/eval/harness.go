package eval

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/chessvlm/rulebench/pkg/rulegen"
)

// Per-case grading states.
const (
	StatusPending            = "PENDING"
	StatusPrompted           = "PROMPTED"
	StatusVerified           = "VERIFIED"
	StatusVerificationFailed = "VERIFICATION_FAILED"
	StatusScored             = "SCORED"
)

// Harness drives the sequential evaluation loop. RateLimitRequests > 0
// inserts a pause of RateLimitPause after that many answerer calls.
type Harness struct {
	Answerer          Answerer
	RateLimitRequests int
	RateLimitPause    time.Duration

	// sleep is swappable in tests.
	sleep func(time.Duration)
}

// NewHarness wires a harness around an answerer.
func NewHarness(a Answerer) *Harness {
	return &Harness{Answerer: a, sleep: time.Sleep}
}

// Run evaluates every case in order and returns the trace plus the counters.
// Answerer failures count the affected case as a verification failure and the
// loop continues; every case ends in the SCORED state.
func (h *Harness) Run(ctx context.Context, cases []rulegen.Case) ([]Result, Stats) {
	var stats Stats
	results := make([]Result, 0, len(cases))
	sleep := h.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			log.Printf("evaluation stopped after %d/%d cases: %v", i, len(cases), err)
			break
		}

		log.Printf("[%d/%d] evaluating %s", i+1, len(cases), c.CaseID)
		stats.Total++

		result := Result{
			CaseID:               c.CaseID,
			RuleType:             c.Type,
			Subtype:              c.Subtype,
			Status:               StatusPending,
			VerificationQuestion: c.VerificationQuestion,
			VerificationExpected: c.VerificationExpected,
			Question:             c.Question,
			ExpectedAnswer:       c.Expected,
			ImagePaths:           c.ImagePaths,
			Timestamp:            time.Now().Format(time.RFC3339),
			ModelName:            h.Answerer.ModelName(),
		}

		prompt := CombinedPrompt(c)
		result.Status = StatusPrompted

		response, err := h.Answerer.Answer(ctx, prompt, c.ImagePaths)
		if err != nil {
			log.Printf("  answerer error for %s: %v", c.CaseID, err)
			result.VerificationResponse = "error"
			result.ModelResponse = "error"
			result.ModelAnswer = "error"
			stats.VerificationFailed++
			// An error case still terminates the state machine: it passes
			// through VERIFICATION_FAILED and settles as SCORED like any
			// other case.
			result.Status = StatusScored
			results = append(results, result)
			continue
		}

		verification, main := ParseResponse(response)
		result.VerificationResponse = verification
		result.ModelResponse = main

		if rulegen.CheckKeywords(verification, c.VerificationKeywords) {
			result.VerificationPassed = true
			result.Status = StatusVerified
			stats.VerificationPassed++

			result.ModelAnswer = ExtractAnswer(main)
			result.Correct = strings.EqualFold(result.ModelAnswer, c.Expected)
			if result.Correct {
				stats.TestCorrect++
				stats.TestCorrectGivenVerified++
			} else {
				stats.TestIncorrect++
			}
		} else {
			result.Status = StatusVerificationFailed
			stats.VerificationFailed++
			result.ModelAnswer = "N/A (verification failed)"
		}

		result.Status = StatusScored
		results = append(results, result)

		if h.RateLimitRequests > 0 && (i+1)%h.RateLimitRequests == 0 && i+1 < len(cases) {
			log.Printf("  rate limit: pausing %s after %d requests", h.RateLimitPause, i+1)
			sleep(h.RateLimitPause)
		}
	}

	logSummary(stats)
	return results, stats
}

func logSummary(stats Stats) {
	log.Printf("board recognition: %d/%d verified (%.1f%%)",
		stats.VerificationPassed, stats.Total, stats.VerificationRate()*100)
	if stats.VerificationPassed > 0 {
		log.Printf("accuracy among verified: %d/%d (%.1f%%)",
			stats.TestCorrectGivenVerified, stats.VerificationPassed, stats.AccuracyGivenVerified()*100)
	} else {
		log.Println("no cases passed verification")
	}
	log.Printf("overall accuracy: %d/%d (%.1f%%)",
		stats.TestCorrect, stats.Total, stats.OverallAccuracy()*100)
}
