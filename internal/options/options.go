// Package options implements the per-IF computation options sets and
// the time-windowed calibration modifiers that are matched, merged and
// applied against scan headers and cycles, per spec.md §4.B.
package options

import (
	"math"

	"github.com/ste616/atca-training-sub001/internal/scandata"
)

// Polarization indices used by modifiers, which index by antenna and a
// restricted per-antenna polarization (X, Y or the cross-pol term XY).
const (
	PolX  = 0
	PolY  = 1
	PolXY = 2
)

// AllTimeEndMJD is the sentinel MJD used as both the upper bound of a
// "no expiry yet set" modifier and the marker for "valid for all future
// time". It corresponds to 2132-09-01, chosen in the original system as
// a value comfortably beyond any observation but small enough to avoid
// floating point range trouble. Retained verbatim per spec.md §9.
const AllTimeEndMJD = 100000

// Averaging method bits (spec.md §4.C step 6). Exactly one of
// VectorMean/ScalarMean/VectorMedian/ScalarMedian is set per IF.
const (
	VectorMean = 1 << iota
	ScalarMean
	VectorMedian
	ScalarMedian
)

// IFOption holds the per-IF portion of an options set: the header
// triple used to match this option set to a scan, the tv-channel
// window, delay averaging, the averaging method bits, and this IF's
// modifiers.
type IFOption struct {
	// CentreFreq, Bandwidth and NChannels are used only to match this
	// option set's IF to a scan header's IF (spec.md §3 invariants).
	CentreFreq float64
	Bandwidth  float64
	NChannels  int

	MinTVChannel int
	MaxTVChannel int

	DelayAveragingN int
	AveragingMethod int

	Modifiers []Modifier
}

// OptionsSet holds the options used to drive one computation: whether
// phase is reported in degrees, the Tsys handling mode, and the per-IF
// options. IncludeFlaggedData is encoded and merged with the rest, but
// the kernel does not read it: flagged channels are always left out of
// the reduction.
type OptionsSet struct {
	PhaseInDegrees    bool
	IncludeFlaggedData bool

	// ReverseOnline and ApplyComputed together select the Tsys handling
	// mode (spec.md §4.C step 3).
	ReverseOnline bool
	ApplyComputed bool

	// ApplicableToAny marks a "default" options set used when nothing
	// else matches a scan header (spec.md §4.B find_options_set).
	ApplicableToAny bool

	// ReferenceAntenna names the antenna for closure phase (SPEC_FULL.md
	// §12 supplement), 0 standing for kernel.DefaultReferenceAntenna's
	// choice. It is encoded and merged, but nothing in the compute path
	// reads it: the server does not compute closure phase.
	ReferenceAntenna int

	IFs []IFOption
}

// NumIFs returns the number of per-IF option blocks.
func (o *OptionsSet) NumIFs() int {
	return len(o.IFs)
}

// MatchesWithin reports whether the options set's per-IF triples agree
// with the header's IFs within the given per-axis tolerance, per the
// invariant in spec.md §3: "An options set matches a scan header iff
// the header's IF count and each IF's (centre frequency, bandwidth,
// channel count) equal the set's values within a caller-specified
// tolerance."
func (o *OptionsSet) MatchesWithin(h *scandata.Header, freqTol, bwTol float64) bool {
	if len(h.IFs) != len(o.IFs) {
		return false
	}
	for i, hdrIF := range h.IFs {
		optIF := o.IFs[i]
		if math.Abs(hdrIF.CentreFreq-optIF.CentreFreq) > freqTol {
			return false
		}
		if math.Abs(hdrIF.Bandwidth-optIF.Bandwidth) > bwTol {
			return false
		}
		if hdrIF.NChannels != optIF.NChannels {
			return false
		}
	}
	return true
}
