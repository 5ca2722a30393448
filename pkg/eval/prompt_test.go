package eval

import (
	"strings"
	"testing"

	"github.com/chessvlm/rulebench/pkg/rulegen"
	"github.com/stretchr/testify/assert"
)

func TestCombinedPrompt(t *testing.T) {
	c := rulegen.Case{
		States: []rulegen.Frame{
			rulegen.NewFrame(map[rulegen.Square]rulegen.Piece{"e1": "K"}),
			rulegen.NewFrame(map[rulegen.Square]rulegen.Piece{"e2": "K"}),
		},
		Question:             "Can white castle kingside?",
		VerificationQuestion: "What are the pieces and their positions in State 1? What about State 2?",
	}

	prompt := CombinedPrompt(c)

	assert.True(t, strings.HasPrefix(prompt, "Look at these chess board states carefully."))
	assert.Contains(t, prompt, "Image 1 shows State 1. Image 2 shows State 2.")
	assert.Contains(t, prompt, "These are chess board states.")
	assert.Contains(t, prompt, c.VerificationQuestion)
	assert.Contains(t, prompt, "Now, the main question:\nCan white castle kingside?")
	assert.Contains(t, prompt, "Verification: [your answer to verification question]")
	assert.Contains(t, prompt, "Main answer: [yes/no/unknown for the main question]")
}

func TestCombinedPrompt_MultipleChoice(t *testing.T) {
	c := rulegen.Case{
		States:   []rulegen.Frame{rulegen.NewFrame(nil), rulegen.NewFrame(nil)},
		Question: "What happened in this sequence?",
		Options: map[string]string{
			"A": "Castling",
			"B": "En passant capture",
			"C": "Regular capture (not en passant)",
			"D": "None of the above",
		},
	}

	prompt := CombinedPrompt(c)

	assert.Contains(t, prompt, "What happened in this sequence?\nA) Castling\nB) En passant capture\nC) Regular capture (not en passant)\nD) None of the above")
	assert.Contains(t, prompt, "Main answer: [the letter of your choice]")
	assert.NotContains(t, prompt, "yes/no/unknown")
}

func TestCombinedPrompt_CustomLabel(t *testing.T) {
	c := rulegen.Case{
		States:   []rulegen.Frame{rulegen.NewFrame(nil)},
		Label:    "States shown in chronological order",
		Question: "Can white castle kingside?",
	}

	prompt := CombinedPrompt(c)
	assert.Contains(t, prompt, "States shown in chronological order")
	assert.NotContains(t, prompt, "These are chess board states.")
}
