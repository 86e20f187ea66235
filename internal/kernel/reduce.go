package kernel

import (
	"math"
	"sort"

	"github.com/ste616/atca-training-sub001/internal/options"
)

// BaselineVis is one baseline's reduced scalar quantities for a cycle:
// one amplitude, one phase, and one delay per polarization, per bin.
type BaselineVis struct {
	Baseline int
	Bin      int

	Amp   float64
	Phase float64
	Delay [2]float64

	FlaggedBad bool
}

// VisQuantities is the cycle-level scalar reduction from a Spectrum, per
// spec.md §3 "Vis-quantities".
type VisQuantities struct {
	IFIndex int
	Pol     int
	MJD     float64

	Baselines []BaselineVis

	AmpMin, AmpMax     float64
	PhaseMin, PhaseMax float64
}

// Reduce collapses spec's filtered per-channel arrays to one scalar
// amplitude, phase and delay per baseline per bin, per spec.md §4.C
// step 6. The method is chosen by the averaging-method bits carried on
// the IF's options (options.VectorMean etc).
func Reduce(spec *Spectrum, mjd float64) *VisQuantities {
	vq := &VisQuantities{IFIndex: spec.IFIndex, Pol: spec.Pol, MJD: mjd}
	vq.AmpMin, vq.AmpMax = newAggregates()
	vq.PhaseMin, vq.PhaseMax = newAggregates()

	method := options.VectorMean
	if spec.Options != nil && spec.IFIndex >= 1 && spec.IFIndex <= len(spec.Options.IFs) {
		method = spec.Options.IFs[spec.IFIndex-1].AveragingMethod
	}

	for _, bs := range spec.Baselines {
		for _, bin := range bs.Bins {
			bv := reduceBin(bs.Baseline, bin, method)
			vq.Baselines = append(vq.Baselines, bv)
			if !bv.FlaggedBad {
				vq.AmpMin, vq.AmpMax = updateMinMax(vq.AmpMin, vq.AmpMax, bv.Amp)
				vq.PhaseMin, vq.PhaseMax = updateMinMax(vq.PhaseMin, vq.PhaseMax, bv.Phase)
			}
		}
	}
	return vq
}

func reduceBin(baseline int, bin BinSpectrum, method int) BaselineVis {
	bv := BaselineVis{Baseline: baseline, Bin: bin.Bin, Delay: bin.Delay}
	if bin.FlaggedBad || len(bin.FAmp) == 0 {
		bv.FlaggedBad = true
		bv.Amp, bv.Phase = math.NaN(), math.NaN()
		return bv
	}

	switch {
	case method&options.VectorMedian != 0:
		bv.Amp, bv.Phase = vectorMedian(bin.FRaw)
	case method&options.ScalarMedian != 0:
		bv.Amp, bv.Phase = scalarMedian(bin.FAmp, bin.FPhase)
	case method&options.ScalarMean != 0:
		bv.Amp, bv.Phase = scalarMean(bin.FAmp, bin.FPhase)
	default: // VectorMean, the default bit.
		bv.Amp, bv.Phase = vectorMean(bin.FRaw)
	}
	return bv
}

// vectorMean averages the complex channel values, then takes |.| and arg.
func vectorMean(raw []complex128) (amp, phase float64) {
	var sum complex128
	for _, c := range raw {
		sum += c
	}
	mean := sum / complex(float64(len(raw)), 0)
	return cAbs(mean), math.Atan2(imag(mean), real(mean))
}

// scalarMean averages amplitude arithmetically and phase circularly (mean
// of unit vectors, per spec.md's "circular mean of phase").
func scalarMean(amps, phases []float64) (amp, phase float64) {
	var sumAmp, sumSin, sumCos float64
	for i := range amps {
		sumAmp += amps[i]
		sumSin += math.Sin(phases[i])
		sumCos += math.Cos(phases[i])
	}
	n := float64(len(amps))
	return sumAmp / n, math.Atan2(sumSin/n, sumCos/n)
}

// vectorMedian takes the median of the real and imaginary parts
// independently, then converts to amp/phase — the vector analogue of
// scalarMedian.
func vectorMedian(raw []complex128) (amp, phase float64) {
	reals := make([]float64, len(raw))
	imags := make([]float64, len(raw))
	for i, c := range raw {
		reals[i] = real(c)
		imags[i] = imag(c)
	}
	re := median(reals)
	im := median(imags)
	return cAbs(complex(re, im)), math.Atan2(im, re)
}

// scalarMedian takes the median amplitude and the median phase
// independently. Phase is unwrapped first so the median isn't distorted
// by the +/-pi wraparound.
func scalarMedian(amps, phases []float64) (amp, phase float64) {
	unwrapped := unwrapPhase(append([]float64(nil), phases...))
	amp = median(append([]float64(nil), amps...))
	phase = wrapPhase(median(unwrapped))
	return
}

func median(v []float64) float64 {
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func wrapPhase(p float64) float64 {
	for p > math.Pi {
		p -= 2 * math.Pi
	}
	for p < -math.Pi {
		p += 2 * math.Pi
	}
	return p
}
