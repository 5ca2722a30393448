package eval

import (
	"strings"

	"github.com/chessvlm/rulebench/pkg/rulegen"
)

// ParseResponse splits a model response into the verification answer and the
// main answer. Lines with a "Verification:" or "Main answer:"/"Main:" prefix
// win; if either is missing, the first two non-empty lines stand in, and a
// response without two non-empty lines is split in half.
func ParseResponse(response string) (verification, main string) {
	lines := strings.Split(response, "\n")

	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(lower, "verification:"):
			verification = afterColon(line)
		case strings.HasPrefix(lower, "main answer:"), strings.HasPrefix(lower, "main:"):
			main = afterColon(line)
		}
	}

	if verification == "" || main == "" {
		var nonEmpty []string
		for _, line := range lines {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				nonEmpty = append(nonEmpty, trimmed)
			}
		}
		if len(nonEmpty) >= 2 {
			verification = nonEmpty[0]
			main = nonEmpty[1]
		} else {
			half := len(response) / 2
			verification = response[:half]
			main = response[half:]
		}
	}

	return verification, main
}

func afterColon(line string) string {
	if i := strings.Index(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line)
}

// ExtractAnswer classifies a main-answer line. A leading option letter wins
// so that choices whose text starts with "Yes"/"No"/"None" still grade as
// the letter; otherwise the literal words yes/no inside the first 20
// characters decide, and anything else is unknown.
func ExtractAnswer(response string) string {
	if letter := optionLetter(response); letter != "" {
		return letter
	}
	lower := strings.ToLower(strings.TrimSpace(response))
	head := lower
	if len(head) > 20 {
		head = head[:20]
	}
	switch {
	case strings.Contains(head, "yes"):
		return rulegen.AnswerYes
	case strings.Contains(head, "no"):
		return rulegen.AnswerNo
	default:
		return rulegen.AnswerUnknown
	}
}

// optionLetter pulls a multiple-choice letter off the front of the answer.
// It accepts "B", "b.", "B)", "(B):" and the like, but not a letter followed
// by more text ("a knight ..."), which falls through to the word scan.
func optionLetter(response string) string {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "(")
	if s == "" {
		return ""
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'd' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'D' {
		return ""
	}
	rest := s[1:]
	if rest == "" {
		return string(letter)
	}
	switch rest[0] {
	case ')', '.', ':', ',':
		return string(letter)
	}
	return ""
}
