package options

import "github.com/ste616/atca-training-sub001/internal/scandata"

// DefaultFreqTolerance and DefaultBandwidthTolerance are the tolerances
// FindOptionsSet uses when the caller doesn't have a more specific
// value in mind (both in MHz).
const (
	DefaultFreqTolerance      = 1e-3
	DefaultBandwidthTolerance = 1e-3
)

// FindOptionsSet returns the first candidate whose per-IF
// frequency/bandwidth/channel triples agree with header's within
// tolerance; failing that, the first candidate flagged
// ApplicableToAny; failing that, false.
func FindOptionsSet(header *scandata.Header, candidates []*OptionsSet, freqTol, bwTol float64) (*OptionsSet, bool) {
	for _, c := range candidates {
		if c.MatchesWithin(header, freqTol, bwTol) {
			return c, true
		}
	}
	for _, c := range candidates {
		if c.ApplicableToAny {
			return c, true
		}
	}
	return nil, false
}
