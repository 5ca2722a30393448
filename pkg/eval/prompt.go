package eval

import (
	"fmt"
	"strings"

	"github.com/chessvlm/rulebench/pkg/rulegen"
)

const defaultLabel = "These are chess board states."

// CombinedPrompt builds the single prompt carrying both questions. It opens
// with an explicit image-to-state mapping so the model cannot mix up frame
// order, then the case's context label, the verification question, and the
// main question, and pins the two-line response format the parser expects.
// Multiple-choice cases list their lettered options under the question and
// ask for the letter instead of yes/no/unknown.
func CombinedPrompt(c rulegen.Case) string {
	label := c.Label
	if label == "" {
		label = defaultLabel
	}

	refs := make([]string, len(c.States))
	for i := range c.States {
		refs[i] = fmt.Sprintf("Image %d shows State %d.", i+1, i+1)
	}
	imageRef := strings.Join(refs, " ")

	question := c.Question
	format := "[yes/no/unknown for the main question]"
	if len(c.Options) > 0 {
		var sb strings.Builder
		sb.WriteString(question)
		for _, letter := range []string{"A", "B", "C", "D"} {
			if text, ok := c.Options[letter]; ok {
				sb.WriteString(fmt.Sprintf("\n%s) %s", letter, text))
			}
		}
		question = sb.String()
		format = "[the letter of your choice]"
	}

	return fmt.Sprintf(`Look at these chess board states carefully.

%s

%s

First, a simple verification question to make sure you see the states correctly:
%s

Now, the main question:
%s

Please answer both questions. Format your response as:
Verification: [your answer to verification question]
Main answer: %s`,
		imageRef, label, c.VerificationQuestion, question, format)
}
