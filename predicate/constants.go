package predicate

// epsilon is the largest power of one-half for which 1+epsilon == 1
// under the platform's IEEE-754 rounding; splitter is the Shewchuk
// splitting constant 2^ceil(p/2)+1 derived from the same search. Both
// are computed once at init time rather than hardcoded, so the package
// self-calibrates to whatever float64 rounding behavior the runtime
// actually has.
var (
	epsilon  float64
	splitter float64

	o3dErrBound float64 // orientation filter bound: 8*epsilon
	insErrBound float64 // in-sphere filter bound: 17*epsilon
)

func init() {
	everyOther := true
	half := 0.5
	epsilon = 1.0
	splitter = 1.0
	check := 1.0
	for {
		lastCheck := check
		epsilon *= half
		if everyOther {
			splitter *= 2.0
		}
		everyOther = !everyOther
		check = 1.0 + epsilon
		if check == 1.0 || check == lastCheck {
			break
		}
	}
	splitter += 1.0

	o3dErrBound = 8.0 * epsilon
	insErrBound = 17.0 * epsilon
}
