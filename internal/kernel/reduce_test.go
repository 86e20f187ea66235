package kernel

import (
	"math"
	"testing"

	"github.com/ste616/atca-training-sub001/internal/options"
)

func makeBin(amps, phases []float64) BinSpectrum {
	raw := make([]complex128, len(amps))
	for i := range amps {
		raw[i] = complex(amps[i]*math.Cos(phases[i]), amps[i]*math.Sin(phases[i]))
	}
	return BinSpectrum{
		FAmp:   amps,
		FPhase: phases,
		FRaw:   raw,
	}
}

func TestReduceVectorMeanOfIdenticalSamples(t *testing.T) {
	bin := makeBin([]float64{1, 1, 1}, []float64{0.5, 0.5, 0.5})
	bv := reduceBin(0, bin, options.VectorMean)
	if math.Abs(bv.Amp-1) > 1e-9 || math.Abs(bv.Phase-0.5) > 1e-9 {
		t.Errorf("got amp=%v phase=%v, want amp=1 phase=0.5", bv.Amp, bv.Phase)
	}
}

func TestReduceScalarMeanCircularAverage(t *testing.T) {
	// Phases just either side of +/-pi: their arithmetic mean is zero,
	// but their circular mean is near +/-pi.
	bin := makeBin([]float64{1, 1}, []float64{math.Pi - 0.01, -math.Pi + 0.01})
	bv := reduceBin(0, bin, options.ScalarMean)
	if math.Abs(math.Abs(bv.Phase)-math.Pi) > 1e-2 {
		t.Errorf("circular mean phase = %v, want near +/-pi", bv.Phase)
	}
}

func TestReduceScalarMedianOddCount(t *testing.T) {
	bin := makeBin([]float64{3, 1, 2}, []float64{0.3, 0.1, 0.2})
	bv := reduceBin(0, bin, options.ScalarMedian)
	if math.Abs(bv.Amp-2) > 1e-9 {
		t.Errorf("median amp = %v, want 2", bv.Amp)
	}
	if math.Abs(bv.Phase-0.2) > 1e-9 {
		t.Errorf("median phase = %v, want 0.2", bv.Phase)
	}
}

func TestReduceFlaggedBadYieldsNaN(t *testing.T) {
	bin := BinSpectrum{FlaggedBad: true}
	bv := reduceBin(0, bin, options.VectorMean)
	if !bv.FlaggedBad || !math.IsNaN(bv.Amp) || !math.IsNaN(bv.Phase) {
		t.Errorf("expected flagged NaN result, got %+v", bv)
	}
}

func TestReduceEmptyFilteredArraysIsFlaggedBad(t *testing.T) {
	bin := BinSpectrum{}
	bv := reduceBin(0, bin, options.VectorMean)
	if !bv.FlaggedBad {
		t.Error("expected flagged_bad when no filtered channels remain")
	}
}

func TestMedianEvenCount(t *testing.T) {
	got := median([]float64{1, 2, 3, 4})
	if math.Abs(got-2.5) > 1e-9 {
		t.Errorf("median = %v, want 2.5", got)
	}
}
