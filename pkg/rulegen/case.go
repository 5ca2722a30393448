package rulegen

import "math/rand"

// Mode is the frame-count policy shared by all generators. Predictive cases
// stop before the questioned action and ask the model to reason it out;
// explicit cases append one more frame showing the action performed and ask
// whether what happened was legal.
type Mode string

const (
	ModePredictive Mode = "predictive"
	ModeExplicit   Mode = "explicit"
)

// Answer labels.
const (
	AnswerYes     = "yes"
	AnswerNo      = "no"
	AnswerUnknown = "unknown"
)

// Case is the record shared between generation, rendering and grading.
// A generator constructs it once; the verification builder adds the three
// verification fields; the renderer fills ImagePaths. Nothing downstream
// mutates States.
type Case struct {
	CaseID    string  `json:"case_id" bson:"case_id"`
	Type      string  `json:"type" bson:"type"`
	Subtype   string  `json:"subtype" bson:"subtype"`
	PieceType string  `json:"piece_type,omitempty" bson:"piece_type,omitempty"`
	States    []Frame `json:"states" bson:"states"`
	Label     string  `json:"label,omitempty" bson:"label,omitempty"`
	Question  string  `json:"question" bson:"question"`
	Expected  string  `json:"expected" bson:"expected"`
	Reasoning string  `json:"reasoning" bson:"reasoning"`

	// Options holds the lettered choices for multiple-choice cases; Expected
	// is then the letter of the right choice. Nil for yes/no cases.
	Options map[string]string `json:"options,omitempty" bson:"options,omitempty"`

	VerificationQuestion string   `json:"verification_question,omitempty" bson:"verification_question,omitempty"`
	VerificationExpected string   `json:"verification_expected,omitempty" bson:"verification_expected,omitempty"`
	VerificationKeywords []string `json:"verification_keywords,omitempty" bson:"verification_keywords,omitempty"`

	ImagePaths []string `json:"image_paths,omitempty" bson:"image_paths,omitempty"`
}

// FinalFrame returns the last state.
func (c Case) FinalFrame() Frame {
	return c.States[len(c.States)-1]
}

// Generator is one rule family. Generate produces up to n cases from the
// given random stream; when the family's constraints cannot be satisfied
// within the retry budget it returns fewer cases rather than failing.
type Generator interface {
	Family() string
	Generate(n int, rng *rand.Rand) []Case
}

// retryFactor bounds rejection sampling: a generator may draw up to
// retryFactor attempts per requested case before giving up on it.
const retryFactor = 10

// fill runs rejection sampling: propose is called until n cases are accepted
// or the retry budget runs out. A nil return from propose means the draw was
// infeasible or failed validation.
func fill(n int, propose func(caseNum int) *Case) []Case {
	cases := make([]Case, 0, n)
	for attempts := 0; len(cases) < n && attempts < n*retryFactor; attempts++ {
		if c := propose(len(cases) + 1); c != nil {
			cases = append(cases, *c)
		}
	}
	return cases
}

// shuffleCases orders the emitted cases randomly so families and subtypes
// interleave in the rendered set.
func shuffleCases(cases []Case, rng *rand.Rand) {
	rng.Shuffle(len(cases), func(i, j int) {
		cases[i], cases[j] = cases[j], cases[i]
	})
}

// splitCounts distributes total across buckets as evenly as possible, the
// remainder going to the earliest buckets.
func splitCounts(total, buckets int) []int {
	counts := make([]int, buckets)
	for i := range counts {
		counts[i] = total / buckets
		if i < total%buckets {
			counts[i]++
		}
	}
	return counts
}
