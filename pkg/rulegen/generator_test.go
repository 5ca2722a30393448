package rulegen

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilies(t *testing.T) {
	gens := Families(ModePredictive)
	require.Len(t, gens, 8)

	names := make([]string, 0, len(gens))
	for _, g := range gens {
		names = append(names, g.Family())
	}
	assert.Equal(t, []string{
		"basic_movement",
		"path_capture",
		"en_passant_basic",
		"en_passant_constraint",
		"castling",
		"castling_rights",
		"en_passant_event",
		"castling_event",
	}, names)
}

func TestByFamily(t *testing.T) {
	g, ok := ByFamily("castling", ModeExplicit)
	require.True(t, ok)
	assert.Equal(t, "castling", g.Family())

	_, ok = ByFamily("nonsense", ModePredictive)
	assert.False(t, ok)
}

// answerForSubtype maps each generated subtype to the expected verdict.
// Castling invalid subtypes are joined violation lists like
// "in_check+through_check".
func answerForSubtype(subtype string) string {
	switch subtype {
	case "valid", "path_cleared", "all_conditions_met", "correct_pawn_identified":
		return AnswerYes
	}
	if strings.HasPrefix(subtype, "valid_") {
		return AnswerYes
	}
	return AnswerNo
}

func TestGenerators_CaseInvariants(t *testing.T) {
	for _, mode := range []Mode{ModePredictive, ModeExplicit} {
		for _, g := range Families(mode) {
			t.Run(string(mode)+"/"+g.Family(), func(t *testing.T) {
				rng := rand.New(rand.NewSource(42))
				cases := g.Generate(20, rng)
				require.NotEmpty(t, cases)

				for _, c := range cases {
					assert.Equal(t, g.Family(), c.Type, c.CaseID)
					assert.NotEmpty(t, c.CaseID)
					assert.NotEmpty(t, c.Question, c.CaseID)
					assert.NotEmpty(t, c.Reasoning, c.CaseID)
					assert.NotEmpty(t, c.States, c.CaseID)
					if len(c.Options) > 0 {
						assert.Contains(t, c.Options, c.Expected, c.CaseID)
					} else {
						assert.Contains(t, []string{AnswerYes, AnswerNo}, c.Expected, c.CaseID)
						assert.Equal(t, answerForSubtype(c.Subtype), c.Expected, c.CaseID)
					}
					for i, frame := range c.States {
						assert.NoError(t, ValidateSupply(frame), "%s state %d", c.CaseID, i)
					}
				}
			})
		}
	}
}

func TestMovementGenerator_Modes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	predictive := MovementGenerator{Mode: ModePredictive}.Generate(12, rng)
	require.NotEmpty(t, predictive)
	for _, c := range predictive {
		assert.Len(t, c.States, 1, c.CaseID)
		assert.NotEmpty(t, c.States[0].Highlighted, c.CaseID)
	}

	explicit := MovementGenerator{Mode: ModeExplicit}.Generate(12, rng)
	require.NotEmpty(t, explicit)
	for _, c := range explicit {
		assert.Len(t, c.States, 2, c.CaseID)
		assert.Equal(t, "Is this a legal move according to chess rules?", c.Question)
	}
}

func TestEnPassantGenerator_OracleAgreement(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cases := EnPassantGenerator{Mode: ModePredictive}.Generate(40, rng)
	require.NotEmpty(t, cases)

	for _, c := range cases {
		require.Len(t, c.States, 3, c.CaseID)
		if c.Expected == AnswerYes {
			// A yes case must show the double step on the last transition.
			prev, curr := c.States[1], c.States[2]
			found := false
			for sq, p := range curr.Pieces {
				if p != "p" {
					continue
				}
				for capturer, cp := range curr.Pieces {
					if cp == "P" && EnPassantEligible(prev, curr, capturer, sq) {
						found = true
					}
				}
			}
			assert.True(t, found, c.CaseID)
		}
	}
}

func TestEnPassantConstraintGenerator_InvalidScenarios(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cases := EnPassantConstraintGenerator{Mode: ModePredictive}.Generate(30, rng)
	require.NotEmpty(t, cases)

	subtypes := map[string]bool{}
	for _, c := range cases {
		subtypes[c.Subtype] = true
	}
	assert.True(t, subtypes["valid"])
	assert.True(t, subtypes["missed_timing"])
	assert.True(t, subtypes["causes_check_pin"])
	assert.True(t, subtypes["already_in_check"])
}

func TestCastlingGenerator_TemporalCases(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	cases := CastlingGenerator{Mode: ModePredictive}.Generate(40, rng)
	require.NotEmpty(t, cases)

	sawTemporal := false
	for _, c := range cases {
		if c.Subtype != "king_moved" && c.Subtype != "rook_moved" {
			continue
		}
		sawTemporal = true
		require.Len(t, c.States, 3, c.CaseID)
		assert.Equal(t, AnswerNo, c.Expected, c.CaseID)

		// First and last frames look castles-ready; only the middle frame
		// betrays the lost right.
		for _, cfg := range CastlingConfigs {
			if strings.Contains(c.CaseID, cfg.Name) {
				assert.Equal(t, NewPiece(King, cfg.Color), c.States[0].Pieces[cfg.KingStart], c.CaseID)
				assert.Equal(t, NewPiece(King, cfg.Color), c.States[2].Pieces[cfg.KingStart], c.CaseID)
				assert.False(t, CastlingRightsIntact(c.States, cfg), c.CaseID)
			}
		}
	}
	assert.True(t, sawTemporal)
}

func TestCastlingRightsGenerator_CoversViolations(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	cases := CastlingRightsGenerator{Mode: ModePredictive}.Generate(24, rng)
	require.NotEmpty(t, cases)

	subtypes := map[string]bool{}
	for _, c := range cases {
		subtypes[c.Subtype] = true
		if c.Expected == AnswerNo {
			assert.NotEmpty(t, c.Label, c.CaseID)
		}
	}
	for _, want := range []string{"king_moved", "rook_moved", "path_blocked", "in_check", "through_check", "into_check"} {
		assert.True(t, subtypes[want], want)
	}
}

func TestEnPassantEventGenerator_Shapes(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	cases := EnPassantEventGenerator{}.Generate(20, rng)
	require.NotEmpty(t, cases)

	subtypes := map[string]bool{}
	for _, c := range cases {
		subtypes[c.Subtype] = true
		require.Len(t, c.States, 3, c.CaseID)
		require.Len(t, c.Options, 4, c.CaseID)

		final := c.States[2]
		switch c.Subtype {
		case "en_passant":
			assert.Equal(t, "B", c.Expected, c.CaseID)
			// The capture leaves a single white pawn on the sixth rank.
			require.Len(t, final.Pieces, 1, c.CaseID)
			for sq, p := range final.Pieces {
				assert.Equal(t, Piece("P"), p, c.CaseID)
				assert.Equal(t, 5, sq.Rank(), c.CaseID)
			}
		case "regular_capture":
			assert.Equal(t, "C", c.Expected, c.CaseID)
			// A plain diagonal capture lands on the fifth rank instead.
			require.Len(t, final.Pieces, 1, c.CaseID)
			for sq, p := range final.Pieces {
				assert.Equal(t, Piece("P"), p, c.CaseID)
				assert.Equal(t, 4, sq.Rank(), c.CaseID)
			}
		case "no_capture":
			assert.Equal(t, "C", c.Expected, c.CaseID)
			assert.Len(t, final.Pieces, 2, c.CaseID)
		default:
			t.Fatalf("unexpected subtype %s", c.Subtype)
		}
	}
	assert.True(t, subtypes["en_passant"])
	assert.True(t, subtypes["regular_capture"])
	assert.True(t, subtypes["no_capture"])
}

func TestCastlingEventGenerator_Shapes(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	cases := CastlingEventGenerator{}.Generate(20, rng)
	require.NotEmpty(t, cases)

	sawConfuser := false
	for _, c := range cases {
		require.Len(t, c.Options, 4, c.CaseID)
		switch c.Subtype {
		case "kingside", "queenside":
			require.Len(t, c.States, 2, c.CaseID)
			cfg, ok := CastlingConfigByName("white_" + c.Subtype)
			require.True(t, ok, c.CaseID)
			assert.Equal(t, Piece("K"), c.States[1].Pieces[cfg.KingEnd], c.CaseID)
			assert.Equal(t, Piece("R"), c.States[1].Pieces[cfg.RookEnd], c.CaseID)
			if c.Subtype == "kingside" {
				assert.Equal(t, "A", c.Expected, c.CaseID)
			} else {
				assert.Equal(t, "B", c.Expected, c.CaseID)
			}
		case "separate_moves":
			sawConfuser = true
			require.Len(t, c.States, 4, c.CaseID)
			assert.Equal(t, "B", c.Expected, c.CaseID)
			// The rook holds its home square until the last frame.
			for i := 0; i < 3; i++ {
				found := false
				for _, p := range c.States[i].Pieces {
					if p == "R" {
						found = true
					}
				}
				assert.True(t, found, c.CaseID)
			}
		default:
			t.Fatalf("unexpected subtype %s", c.Subtype)
		}
	}
	assert.True(t, sawConfuser)
}

func TestGenerateSuite_FillsVerification(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	cases := GenerateSuite(Families(ModePredictive), 5, rng)
	require.NotEmpty(t, cases)

	for _, c := range cases {
		assert.NotEmpty(t, c.VerificationQuestion, c.CaseID)
		assert.NotEmpty(t, c.VerificationExpected, c.CaseID)
		assert.NotEmpty(t, c.VerificationKeywords, c.CaseID)
	}
}
