package rulegen

import (
	"fmt"
	"sort"
	"strings"
)

// BuildVerification fills the verification fields of a case: a question
// asking the model to list every piece in every state, the expected listing,
// and the keyword set the grader requires in the response. Squares are listed
// in board order so the expected text is stable for a given case.
func BuildVerification(c *Case) {
	if len(c.States) == 0 {
		c.VerificationQuestion = "Can you see chess board states in these images?"
		c.VerificationExpected = "yes"
		c.VerificationKeywords = []string{"yes", "board"}
		return
	}

	var stateDescs []string
	var keywords []string
	seen := map[string]bool{}

	for i, frame := range c.States {
		squares := make([]Square, 0, len(frame.Pieces))
		for sq := range frame.Pieces {
			squares = append(squares, sq)
		}
		sort.Slice(squares, func(a, b int) bool { return squares[a] < squares[b] })

		var pieceDescs []string
		for _, sq := range squares {
			p := frame.Pieces[sq]
			pieceDescs = append(pieceDescs, fmt.Sprintf("%s at %s", p.Name(), sq))
			for _, kw := range []string{string(sq), p.Type().String()} {
				if !seen[kw] {
					seen[kw] = true
					keywords = append(keywords, kw)
				}
			}
		}

		desc := "Empty board"
		if len(pieceDescs) > 0 {
			desc = strings.Join(pieceDescs, ", ")
		}
		stateDescs = append(stateDescs, fmt.Sprintf("State %d: %s", i+1, desc))
	}

	c.VerificationQuestion = verificationQuestion(len(c.States))
	c.VerificationExpected = strings.Join(stateDescs, "; ")
	c.VerificationKeywords = keywords
}

func verificationQuestion(nStates int) string {
	switch nStates {
	case 2:
		return "What are the pieces and their positions in State 1? What about State 2?"
	case 3:
		return "What are the pieces and their positions in State 1? State 2? State 3?"
	case 4:
		return "What are the pieces and their positions in State 1? State 2? State 3? State 4?"
	default:
		return fmt.Sprintf("What are the pieces and their positions in each of the %d states?", nStates)
	}
}

var keywordStripper = strings.NewReplacer(".", "", ",", "", "!", "", "?", "", "'", "")

// CheckKeywords reports whether every keyword appears in the response after
// lowercasing and stripping common punctuation. An empty keyword list passes.
func CheckKeywords(response string, keywords []string) bool {
	cleaned := keywordStripper.Replace(strings.ToLower(strings.TrimSpace(response)))
	for _, kw := range keywords {
		if !strings.Contains(cleaned, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}
