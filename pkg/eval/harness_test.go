package eval

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chessvlm/rulebench/pkg/rulegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAnswerer replies with a fixed response per call, or an error when
// the script entry is empty.
type scriptedAnswerer struct {
	responses []string
	calls     int
}

func (s *scriptedAnswerer) Answer(ctx context.Context, prompt string, imagePaths []string) (string, error) {
	defer func() { s.calls++ }()
	if s.calls >= len(s.responses) {
		return "", fmt.Errorf("unexpected call %d", s.calls)
	}
	r := s.responses[s.calls]
	if r == "" {
		return "", fmt.Errorf("api unavailable")
	}
	return r, nil
}

func (s *scriptedAnswerer) ModelName() string { return "scripted" }

func testCase(id, expected string) rulegen.Case {
	return rulegen.Case{
		CaseID:               id,
		Type:                 "basic_movement",
		Subtype:              "valid",
		States:               []rulegen.Frame{rulegen.NewFrame(map[rulegen.Square]rulegen.Piece{"e4": "P"})},
		Question:             "Can the pawn at e4 move to e5?",
		Expected:             expected,
		VerificationQuestion: "What pieces do you see?",
		VerificationExpected: "a White Pawn at e4",
		VerificationKeywords: []string{"e4", "pawn"},
	}
}

func TestHarnessRun_GradesCases(t *testing.T) {
	answerer := &scriptedAnswerer{responses: []string{
		"Verification: a pawn at e4\nMain answer: yes",
		"Verification: a pawn at e4\nMain answer: no",
		"Verification: I see an empty board\nMain answer: yes",
	}}
	cases := []rulegen.Case{
		testCase("case_1", "yes"),
		testCase("case_2", "yes"),
		testCase("case_3", "yes"),
	}

	h := NewHarness(answerer)
	results, stats := h.Run(context.Background(), cases)

	require.Len(t, results, 3)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.VerificationPassed)
	assert.Equal(t, 1, stats.VerificationFailed)
	assert.Equal(t, 1, stats.TestCorrect)
	assert.Equal(t, 1, stats.TestIncorrect)
	assert.Equal(t, 1, stats.TestCorrectGivenVerified)

	assert.True(t, results[0].Correct)
	assert.Equal(t, StatusScored, results[0].Status)
	assert.False(t, results[1].Correct)

	// The verification failure is never graded on the main question.
	assert.False(t, results[2].VerificationPassed)
	assert.False(t, results[2].Correct)
	assert.Equal(t, "N/A (verification failed)", results[2].ModelAnswer)
}

func TestHarnessRun_GradesMultipleChoice(t *testing.T) {
	c := testCase("event_1", "B")
	c.Type = "en_passant_event"
	c.Subtype = "en_passant"
	c.Question = "What happened in this sequence?"
	c.Options = map[string]string{
		"A": "Castling",
		"B": "En passant capture",
		"C": "Regular capture (not en passant)",
		"D": "None of the above",
	}

	answerer := &scriptedAnswerer{responses: []string{
		"Verification: a pawn at e4\nMain answer: B) En passant capture",
	}}

	h := NewHarness(answerer)
	results, stats := h.Run(context.Background(), []rulegen.Case{c})

	require.Len(t, results, 1)
	assert.Equal(t, "B", results[0].ModelAnswer)
	assert.True(t, results[0].Correct)
	assert.Equal(t, 1, stats.TestCorrect)
}

func TestHarnessRun_AnswererErrorContinuesBatch(t *testing.T) {
	answerer := &scriptedAnswerer{responses: []string{
		"Verification: a pawn at e4\nMain answer: yes",
		"",
		"Verification: a pawn at e4\nMain answer: yes",
	}}
	cases := []rulegen.Case{
		testCase("case_1", "yes"),
		testCase("case_2", "yes"),
		testCase("case_3", "yes"),
	}

	h := NewHarness(answerer)
	results, stats := h.Run(context.Background(), cases)

	require.Len(t, results, 3)
	assert.Equal(t, 2, stats.VerificationPassed)
	assert.Equal(t, 1, stats.VerificationFailed)
	assert.Equal(t, "error", results[1].ModelResponse)
	assert.Equal(t, "error", results[1].ModelAnswer)

	// Every case, including the error one, settles in the terminal state.
	for _, r := range results {
		assert.Equal(t, StatusScored, r.Status, r.CaseID)
	}
}

func TestHarnessRun_StatsInvariants(t *testing.T) {
	answerer := &scriptedAnswerer{responses: []string{
		"Verification: a pawn at e4\nMain answer: yes",
		"Verification: nothing visible\nMain answer: yes",
		"",
		"Verification: a pawn at e4\nMain answer: unknown",
	}}
	cases := []rulegen.Case{
		testCase("case_1", "yes"),
		testCase("case_2", "no"),
		testCase("case_3", "yes"),
		testCase("case_4", "no"),
	}

	h := NewHarness(answerer)
	_, stats := h.Run(context.Background(), cases)

	assert.Equal(t, stats.Total, stats.VerificationPassed+stats.VerificationFailed)
	assert.LessOrEqual(t, stats.TestCorrect, stats.Total)
	assert.LessOrEqual(t, stats.TestCorrectGivenVerified, stats.VerificationPassed)
	assert.Equal(t, stats.VerificationPassed, stats.TestCorrect+stats.TestIncorrect)
}

func TestHarnessRun_RateLimit(t *testing.T) {
	answerer := &scriptedAnswerer{responses: []string{
		"Verification: a pawn at e4\nMain answer: yes",
		"Verification: a pawn at e4\nMain answer: yes",
		"Verification: a pawn at e4\nMain answer: yes",
		"Verification: a pawn at e4\nMain answer: yes",
		"Verification: a pawn at e4\nMain answer: yes",
	}}
	cases := make([]rulegen.Case, 5)
	for i := range cases {
		cases[i] = testCase(fmt.Sprintf("case_%d", i+1), "yes")
	}

	var pauses []time.Duration
	h := NewHarness(answerer)
	h.RateLimitRequests = 2
	h.RateLimitPause = 30 * time.Second
	h.sleep = func(d time.Duration) { pauses = append(pauses, d) }

	h.Run(context.Background(), cases)

	// Pauses after requests 2 and 4; never after the final request.
	require.Len(t, pauses, 2)
	assert.Equal(t, 30*time.Second, pauses[0])
}

func TestHarnessRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	answerer := &scriptedAnswerer{}
	h := NewHarness(answerer)
	results, stats := h.Run(ctx, []rulegen.Case{testCase("case_1", "yes")})

	assert.Empty(t, results)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, answerer.calls)
}

func TestBuildSummary(t *testing.T) {
	results := []Result{
		{RuleType: "castling", Subtype: "valid", VerificationPassed: true, Correct: true, ModelName: "scripted"},
		{RuleType: "castling", Subtype: "valid", VerificationPassed: true, Correct: false, ModelName: "scripted"},
		{RuleType: "castling", Subtype: "king_moved", VerificationPassed: false, ModelName: "scripted"},
	}
	stats := Stats{
		Total:                    3,
		VerificationPassed:       2,
		VerificationFailed:       1,
		TestCorrect:              1,
		TestIncorrect:            1,
		TestCorrectGivenVerified: 1,
	}

	summary := BuildSummary(results, stats, 3)

	assert.Equal(t, "scripted", summary.ModelName)
	assert.Equal(t, 3, summary.TotalCases)
	assert.Equal(t, 0.667, summary.BoardRecognition.VerificationRate)
	assert.Equal(t, 0.5, summary.TestAccuracy.AccuracyGivenVerified)
	assert.Equal(t, 0.333, summary.TestAccuracy.OverallAccuracy)

	// Verified cases only: the king_moved failure never reaches the
	// breakdown.
	require.Len(t, summary.AccuracyByType, 1)
	row, ok := summary.AccuracyByType["castling_valid"]
	require.True(t, ok)
	assert.Equal(t, 2, row.Total)
	assert.Equal(t, 1, row.Correct)
	assert.Equal(t, 0.5, row.Accuracy)
}
