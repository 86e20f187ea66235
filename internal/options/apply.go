package options

import (
	"math"

	"github.com/ste616/atca-training-sub001/internal/scandata"
)

// NoiseDiodeTable holds the per-antenna, per-pol noise-diode amplitude
// (Jy). It is replaced wholesale by a SetNoiseDiodeAmplitude modifier
// when one becomes active for the MJD being processed. The kernel's
// computed-Tsys scaling does not read it: kernel.ComputedTsys takes the
// calibration Jy from the cycle's syscal CALJY values.
type NoiseDiodeTable map[int][3]float64

// NetDelay computes the pair's net delay in ns for the given
// polarization product, per spec.md §4.B: "antenna a1 minus antenna a2
// for matching pols; for cross-pol XY, the Y-antenna's XY delay applies
// to the Y end only." By convention within this package, pol product XY
// correlates a1's X signal with a2's Y signal (so a2 is "the Y end") and
// YX correlates a1's Y signal with a2's X signal (so a1 is "the Y end").
//
// This is a plain antenna-pair subtraction with no reference-antenna
// term, so the §9 open question about a reference-antenna-relative sign
// flip has no formula here to attach to; closure phase
// (internal/kernel/closure.go) carries no such sign term either.
func NetDelay(pol int, a1, a2 int, table map[int][3]float64) float64 {
	switch pol {
	case scandata.PolXX:
		return table[a1][PolX] - table[a2][PolX]
	case scandata.PolYY:
		return table[a1][PolY] - table[a2][PolY]
	case scandata.PolXY:
		return table[a2][PolXY]
	case scandata.PolYX:
		return table[a1][PolXY]
	default:
		return 0
	}
}

// NetPhase computes the pair's net phase correction in radians using the
// same antenna-pair rule as NetDelay.
func NetPhase(pol int, a1, a2 int, table map[int][3]float64) float64 {
	return NetDelay(pol, a1, a2, table)
}

// RotateForDelay multiplies each complex channel in raw by
// exp(-2*pi*i*freqMHz[k]*deltaTauNs), converting the MHz/ns product to
// cycles (MHz * ns = 1e-3 cycles per Hz*s match, handled by the 1e-3
// scale factor below since 1 MHz * 1 ns = 1e-3 dimensionless cycle).
func RotateForDelay(raw []complex128, freqMHz []float64, deltaTauNs float64) {
	if deltaTauNs == 0 {
		return
	}
	for k := range raw {
		if k >= len(freqMHz) {
			break
		}
		phase := -2 * math.Pi * freqMHz[k] * deltaTauNs * 1e-3
		rot := complex(math.Cos(phase), math.Sin(phase))
		raw[k] *= rot
	}
}

// RotateForPhase multiplies every complex channel in raw by
// exp(-i*deltaPhiRad).
func RotateForPhase(raw []complex128, deltaPhiRad float64) {
	if deltaPhiRad == 0 {
		return
	}
	rot := complex(math.Cos(-deltaPhiRad), math.Sin(-deltaPhiRad))
	for k := range raw {
		raw[k] *= rot
	}
}

// ApplyModifiers applies any active add_delay and add_phase modifiers of
// the IF option to raw (in place), and returns the noise-diode table in
// effect (either the IF's default, passed in as `current`, or the one
// from an active set_noise_diode_amplitude modifier).
func ApplyModifiers(ifo *IFOption, mjd float64, pol, a1, a2 int, freqMHz []float64, raw []complex128, current NoiseDiodeTable) NoiseDiodeTable {
	if m, ok := FindActive(ifo, KindAddDelay, mjd); ok {
		deltaTau := NetDelay(pol, a1, a2, m.AntPolValue)
		RotateForDelay(raw, freqMHz, deltaTau)
	}
	if m, ok := FindActive(ifo, KindAddPhase, mjd); ok {
		deltaPhi := NetPhase(pol, a1, a2, m.AntPolValue)
		RotateForPhase(raw, deltaPhi)
	}
	if m, ok := FindActive(ifo, KindSetNoiseDiodeAmplitude, mjd); ok {
		replaced := make(NoiseDiodeTable, len(m.AntPolValue))
		for k, v := range m.AntPolValue {
			replaced[k] = v
		}
		return replaced
	}
	return current
}
