// Package kernel implements the amp-phase computation kernel: the
// per-IF, per-polarization transform from raw visibilities to calibrated
// spectra and scalar vis-quantities, per spec.md §4.C.
package kernel

import (
	"math"

	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/scandata"
)

// BinSpectrum is the per-baseline-per-bin derived product: parallel
// vectors of weight, complex raw, amplitude and phase, plus the
// "filtered" vectors that exclude flagged channels, and the fitted
// group delay.
type BinSpectrum struct {
	Bin int

	Weight []float64
	Raw    []complex128
	Amp    []float64
	Phase  []float64 // radians or degrees, per Spectrum.Options.PhaseInDegrees

	FWeight []float64
	FRaw    []complex128
	FAmp    []float64
	FPhase  []float64

	FlaggedChannels int
	FlaggedBad      bool

	// Delay holds the fitted group delay in ns, one per polarization;
	// baselines where both ends are the same antenna carry a
	// cross-polarization delay at index 1.
	Delay [2]float64
}

// BaselineSpectrum is one baseline's bins plus its own min/max
// aggregates.
type BaselineSpectrum struct {
	Baseline int
	Bins     []BinSpectrum

	AmpMin, AmpMax     float64
	PhaseMin, PhaseMax float64
	RealMin, RealMax   float64
	ImagMin, ImagMax   float64
}

// Spectrum is the per-IF, per-polarization derived product for one
// cycle.
type Spectrum struct {
	IFIndex int
	Pol     int

	Baselines []BaselineSpectrum

	Options *options.OptionsSet
	Met     scandata.MetInfo
	Syscal  scandata.SyscalData

	AmpMin, AmpMax     float64
	PhaseMin, PhaseMax float64
	RealMin, RealMax   float64
	ImagMin, ImagMax   float64

	// Degraded is set when some baselines could not be computed (kernel
	// error condition, spec.md §4.C "Error conditions") but others
	// succeeded; the cycle loop continues rather than aborting.
	Degraded bool
}

func newAggregates() (min, max float64) {
	return math.Inf(1), math.Inf(-1)
}

func updateMinMax(min, max, v float64) (float64, float64) {
	if math.IsNaN(v) {
		return min, max
	}
	if v < min {
		min = v
	}
	if v > max {
		max = v
	}
	return min, max
}
