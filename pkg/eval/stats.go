package eval

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"
)

// Stats holds the additive counters accumulated over a run.
type Stats struct {
	Total                    int `json:"total" bson:"total"`
	VerificationPassed       int `json:"verification_passed" bson:"verification_passed"`
	VerificationFailed       int `json:"verification_failed" bson:"verification_failed"`
	TestCorrect              int `json:"test_correct" bson:"test_correct"`
	TestIncorrect            int `json:"test_incorrect" bson:"test_incorrect"`
	TestCorrectGivenVerified int `json:"test_correct_given_verified" bson:"test_correct_given_verified"`
}

// VerificationRate is the share of cases whose verification answer passed
// the keyword gate.
func (s Stats) VerificationRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.VerificationPassed) / float64(s.Total)
}

// AccuracyGivenVerified is accuracy with verification failures excluded from
// the denominator.
func (s Stats) AccuracyGivenVerified() float64 {
	if s.VerificationPassed == 0 {
		return 0
	}
	return float64(s.TestCorrectGivenVerified) / float64(s.VerificationPassed)
}

// OverallAccuracy counts verification failures as incorrect.
func (s Stats) OverallAccuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.TestCorrect) / float64(s.Total)
}

// Result is the per-case grading trace.
type Result struct {
	CaseID   string `json:"case_id" bson:"case_id"`
	RuleType string `json:"rule_type" bson:"rule_type"`
	Subtype  string `json:"subtype" bson:"subtype"`
	Status   string `json:"status" bson:"status"`

	VerificationQuestion string `json:"verification_question" bson:"verification_question"`
	VerificationExpected string `json:"verification_expected" bson:"verification_expected"`
	VerificationResponse string `json:"verification_response" bson:"verification_response"`
	VerificationPassed   bool   `json:"verification_passed" bson:"verification_passed"`

	Question       string `json:"question" bson:"question"`
	ExpectedAnswer string `json:"expected_answer" bson:"expected_answer"`
	ModelResponse  string `json:"model_response" bson:"model_response"`
	ModelAnswer    string `json:"model_answer" bson:"model_answer"`
	Correct        bool   `json:"correct" bson:"correct"`

	ImagePaths []string `json:"image_paths" bson:"image_paths"`
	Timestamp  string   `json:"timestamp" bson:"timestamp"`
	ModelName  string   `json:"model_name" bson:"model_name"`
}

// TypeAccuracy is one row of the per-type breakdown computed over verified
// cases only.
type TypeAccuracy struct {
	Correct  int     `json:"correct" bson:"correct"`
	Total    int     `json:"total" bson:"total"`
	Accuracy float64 `json:"accuracy" bson:"accuracy"`
}

// Summary is the header object of the results artifact.
type Summary struct {
	ModelName      string    `json:"model_name" bson:"model_name"`
	TotalCases     int       `json:"total_cases" bson:"total_cases"`
	RequestedCases int       `json:"requested_cases,omitempty" bson:"requested_cases,omitempty"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`

	BoardRecognition struct {
		VerifiedCorrectly int     `json:"verified_correctly" bson:"verified_correctly"`
		FailedToRecognize int     `json:"failed_to_recognize" bson:"failed_to_recognize"`
		VerificationRate  float64 `json:"verification_rate" bson:"verification_rate"`
	} `json:"board_recognition" bson:"board_recognition"`

	TestAccuracy struct {
		CorrectAmongVerified  int     `json:"correct_among_verified" bson:"correct_among_verified"`
		TotalVerified         int     `json:"total_verified" bson:"total_verified"`
		AccuracyGivenVerified float64 `json:"accuracy_given_verified" bson:"accuracy_given_verified"`
		OverallCorrect        int     `json:"overall_correct" bson:"overall_correct"`
		OverallAccuracy       float64 `json:"overall_accuracy" bson:"overall_accuracy"`
	} `json:"test_accuracy" bson:"test_accuracy"`

	AccuracyByType map[string]TypeAccuracy `json:"accuracy_by_type_verified_only" bson:"accuracy_by_type_verified_only"`
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// BuildSummary derives the summary header from the trace and the counters.
// requested is the case count asked of the generators; a shortfall shows up
// as requested > total.
func BuildSummary(results []Result, stats Stats, requested int) Summary {
	var s Summary
	s.ModelName = "unknown"
	if len(results) > 0 {
		s.ModelName = results[0].ModelName
	}
	s.TotalCases = stats.Total
	s.RequestedCases = requested
	s.Timestamp = time.Now()

	s.BoardRecognition.VerifiedCorrectly = stats.VerificationPassed
	s.BoardRecognition.FailedToRecognize = stats.VerificationFailed
	s.BoardRecognition.VerificationRate = round3(stats.VerificationRate())

	s.TestAccuracy.CorrectAmongVerified = stats.TestCorrectGivenVerified
	s.TestAccuracy.TotalVerified = stats.VerificationPassed
	s.TestAccuracy.AccuracyGivenVerified = round3(stats.AccuracyGivenVerified())
	s.TestAccuracy.OverallCorrect = stats.TestCorrect
	s.TestAccuracy.OverallAccuracy = round3(stats.OverallAccuracy())

	s.AccuracyByType = map[string]TypeAccuracy{}
	for _, r := range results {
		if !r.VerificationPassed {
			continue
		}
		key := r.RuleType
		if r.Subtype != "" {
			key = r.RuleType + "_" + r.Subtype
		}
		row := s.AccuracyByType[key]
		row.Total++
		if r.Correct {
			row.Correct++
		}
		s.AccuracyByType[key] = row
	}
	for key, row := range s.AccuracyByType {
		row.Accuracy = round3(float64(row.Correct) / float64(row.Total))
		s.AccuracyByType[key] = row
	}

	return s
}

// ResultsArtifact is the on-disk results.json shape: summary first, then the
// full trace.
type ResultsArtifact struct {
	Summary         Summary  `json:"summary" bson:"summary"`
	DetailedResults []Result `json:"detailed_results" bson:"detailed_results"`
}

// SaveResults writes the artifact as indented JSON.
func SaveResults(path string, summary Summary, results []Result) error {
	data, err := json.MarshalIndent(ResultsArtifact{Summary: summary, DetailedResults: results}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// SortedTypeKeys returns the breakdown keys in stable order for printing.
func (s Summary) SortedTypeKeys() []string {
	keys := make([]string, 0, len(s.AccuracyByType))
	for k := range s.AccuracyByType {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
