package rulegen

import "math/rand"

// Families returns one generator per rule family, in difficulty order.
func Families(mode Mode) []Generator {
	return []Generator{
		MovementGenerator{Mode: mode},
		PathCaptureGenerator{Mode: mode},
		EnPassantGenerator{Mode: mode},
		EnPassantConstraintGenerator{Mode: mode},
		CastlingGenerator{Mode: mode},
		CastlingRightsGenerator{Mode: mode},
		EnPassantEventGenerator{},
		CastlingEventGenerator{},
	}
}

// ByFamily looks a generator up by its family name.
func ByFamily(name string, mode Mode) (Generator, bool) {
	for _, g := range Families(mode) {
		if g.Family() == name {
			return g, true
		}
	}
	return nil, false
}

// GenerateSuite runs each generator for n cases and fills the verification
// fields on everything produced. Generators may under-produce; the caller
// compares len(result) against its request to report shortfall.
func GenerateSuite(gens []Generator, n int, rng *rand.Rand) []Case {
	var all []Case
	for _, g := range gens {
		all = append(all, g.Generate(n, rng)...)
	}
	for i := range all {
		BuildVerification(&all[i])
	}
	return all
}
