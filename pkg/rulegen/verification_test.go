package rulegen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVerification(t *testing.T) {
	c := &Case{
		States: []Frame{
			NewFrame(map[Square]Piece{"e1": "K", "h1": "R"}),
			NewFrame(map[Square]Piece{"g1": "K", "f1": "R"}),
		},
	}
	BuildVerification(c)

	assert.Equal(t, "What are the pieces and their positions in State 1? What about State 2?", c.VerificationQuestion)
	assert.Equal(t, "State 1: White King at e1, White Rook at h1; State 2: White Rook at f1, White King at g1", c.VerificationExpected)
	assert.Contains(t, c.VerificationKeywords, "e1")
	assert.Contains(t, c.VerificationKeywords, "king")
	assert.Contains(t, c.VerificationKeywords, "rook")
}

func TestBuildVerification_KeywordsDeduped(t *testing.T) {
	c := &Case{
		States: []Frame{
			NewFrame(map[Square]Piece{"e4": "P"}),
			NewFrame(map[Square]Piece{"e4": "P"}),
		},
	}
	BuildVerification(c)

	counts := map[string]int{}
	for _, kw := range c.VerificationKeywords {
		counts[kw]++
	}
	for kw, n := range counts {
		assert.Equal(t, 1, n, kw)
	}
}

func TestBuildVerification_NoStates(t *testing.T) {
	c := &Case{}
	BuildVerification(c)
	assert.Equal(t, "Can you see chess board states in these images?", c.VerificationQuestion)
	assert.Equal(t, []string{"yes", "board"}, c.VerificationKeywords)
}

// The expected listing itself must pass the keyword gate; otherwise no
// response could ever verify.
func TestBuildVerification_ExpectedPassesGate(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	cases := GenerateSuite(Families(ModePredictive), 4, rng)
	require.NotEmpty(t, cases)
	for _, c := range cases {
		assert.True(t, CheckKeywords(c.VerificationExpected, c.VerificationKeywords), c.CaseID)
	}
}

func TestCheckKeywords(t *testing.T) {
	keywords := []string{"e4", "pawn"}

	assert.True(t, CheckKeywords("I see a white Pawn at e4.", keywords))
	assert.True(t, CheckKeywords("  PAWN on E4!  ", keywords))
	assert.False(t, CheckKeywords("I see a knight at g1.", keywords))
	assert.True(t, CheckKeywords("anything", nil))
}

func TestCheckKeywords_StripsPunctuation(t *testing.T) {
	// Punctuation is removed from the response side only, so "e4," in the
	// response still matches the keyword "e4".
	assert.True(t, CheckKeywords("The pawn stands at e4, ready.", []string{"e4"}))
	// Keywords are matched verbatim; a punctuated keyword never fires.
	assert.False(t, CheckKeywords("The pawn stands at e4, ready.", []string{"e4,"}))
}

// Generated keywords are bare squares and piece-type names, so the
// response-side stripping can never hide a keyword from itself.
func TestBuildVerification_KeywordsCarryNoPunctuation(t *testing.T) {
	c := &Case{
		States: []Frame{
			NewFrame(map[Square]Piece{"e1": "K", "h1": "R", "a2": "p"}),
		},
	}
	BuildVerification(c)
	for _, kw := range c.VerificationKeywords {
		assert.Equal(t, keywordStripper.Replace(kw), kw)
	}
}
