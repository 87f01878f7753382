package graph

import "math"

// Policy is the derived numeric policy of one parameter.
type Policy struct {
	Type    string
	Default float64
	Min     float64
	Max     float64
	Step    float64
}

// DerivePolicy computes a parameter's control step size from its clamped
// range. The decision procedure, in order:
//
//   - int and bool parameters always step by 1;
//   - an integral range wider than 2 but narrower than 10 is treated as a
//     musical volt-per-octave control and steps by 1/12;
//   - a wider integral range subdivides by the power of two closest to
//     range/100, targeting roughly 100 encoder detents;
//   - anything else steps by range/100.
//
// Integrality is an exact test on max and default, not tolerance-based.
func DerivePolicy(typ string, min, max, def float64) Policy {
	if max < min {
		min, max = max, min
	}
	def = math.Min(math.Max(def, min), max)

	p := Policy{Type: typ, Default: def, Min: min, Max: max}
	r := max - min

	switch {
	case typ == "int" || typ == "bool":
		p.Step = 1
	case r > 2 && isIntegral(max) && isIntegral(def) && r < 10:
		p.Step = 1.0 / 12.0
	case r > 2 && isIntegral(max) && isIntegral(def):
		p.Step = math.Pow(2, math.Round(math.Log2(r/100)))
	default:
		p.Step = r / 100
	}
	return p
}

func isIntegral(x float64) bool {
	return x == math.Trunc(x)
}
