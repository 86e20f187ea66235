package kernel

import (
	"math"
)

// minBinsForDelayFit is the minimum number of unflagged averaging bins
// needed before a delay fit is attempted (spec.md §4.C step 5).
const minBinsForDelayFit = 4

// averageBins groups raw and its parallel frequency axis into
// consecutive bins of n channels (arithmetic mean of the complex
// values, mean of the frequencies), per spec.md §4.C step 5
// "delay_averaging consecutive-channel binning". n <= 1 is a no-op.
func averageBins(raw []complex128, freqMHz []float64, n int) (binnedRaw []complex128, binnedFreq []float64) {
	if n <= 1 {
		binnedRaw = append([]complex128(nil), raw...)
		binnedFreq = append([]float64(nil), freqMHz...)
		return
	}
	for i := 0; i < len(raw); i += n {
		end := i + n
		if end > len(raw) {
			end = len(raw)
		}
		var sumRaw complex128
		var sumFreq float64
		count := 0
		for k := i; k < end; k++ {
			sumRaw += raw[k]
			sumFreq += freqMHz[k]
			count++
		}
		if count == 0 {
			continue
		}
		binnedRaw = append(binnedRaw, sumRaw/complex(float64(count), 0))
		binnedFreq = append(binnedFreq, sumFreq/float64(count))
	}
	return
}

// unwrapPhase returns a monotonically-continued copy of phase (radians),
// adding/subtracting 2*pi whenever consecutive samples jump by more than
// pi.
func unwrapPhase(phase []float64) []float64 {
	out := make([]float64, len(phase))
	if len(phase) == 0 {
		return out
	}
	out[0] = phase[0]
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d < -math.Pi {
			d += 2 * math.Pi
		}
		out[i] = out[i-1] + d
	}
	return out
}

// fitGroupDelay fits phase(f) = 2*pi*tau*f + phi0 by weighted least
// squares over already-averaged complex samples (the caller bins with
// averageBins first), taking and unwrapping their phases itself, and
// returns tau in ns. It
// requires at least minBinsForDelayFit unflagged bins; otherwise it
// returns NaN. sidebandSign flips the sign of the recovered delay so
// that the reported delay follows the IF's sideband convention.
func fitGroupDelay(binnedRaw []complex128, binnedFreq []float64, weight []float64, sidebandSign int) float64 {
	n := len(binnedRaw)
	if n < minBinsForDelayFit {
		return math.NaN()
	}

	amp := make([]float64, n)
	phase := make([]float64, n)
	w := make([]float64, n)
	usable := 0
	for i := range binnedRaw {
		amp[i] = cAbs(binnedRaw[i])
		phase[i] = math.Atan2(imag(binnedRaw[i]), real(binnedRaw[i]))
		if i < len(weight) {
			w[i] = weight[i]
		} else {
			w[i] = 1
		}
		if w[i] > 0 && !math.IsNaN(amp[i]) {
			usable++
		}
	}
	if usable < minBinsForDelayFit {
		return math.NaN()
	}

	unwrapped := unwrapPhase(phase)

	// Weighted least squares fit of unwrapped = 2*pi*tau*f + phi0.
	var sw, swf, swp, swff, swfp float64
	for i := range binnedFreq {
		if w[i] <= 0 || math.IsNaN(unwrapped[i]) {
			continue
		}
		f := binnedFreq[i]
		p := unwrapped[i]
		sw += w[i]
		swf += w[i] * f
		swp += w[i] * p
		swff += w[i] * f * f
		swfp += w[i] * f * p
	}
	denom := sw*swff - swf*swf
	if denom == 0 {
		return math.NaN()
	}
	slope := (sw*swfp - swf*swp) / denom // d(phase)/d(freq), radians per MHz

	tauNs := slope / (2 * math.Pi) * 1000 // MHz^-1 -> ns: 1/MHz = 1000 ns

	if sidebandSign < 0 {
		tauNs = -tauNs
	}
	return tauNs
}

func cAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
