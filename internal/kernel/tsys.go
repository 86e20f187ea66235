package kernel

import (
	"math"

	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/scandata"
)

// antennaPolsForRecord maps a correlation product to the per-antenna
// polarization (options.PolX/PolY) each end contributes, for Tsys
// lookups which are keyed by antenna and single polarization rather
// than by product.
func antennaPolsForRecord(pol int) (p1, p2 int) {
	switch pol {
	case scandata.PolXX:
		return options.PolX, options.PolX
	case scandata.PolYY:
		return options.PolY, options.PolY
	case scandata.PolXY:
		return options.PolX, options.PolY
	case scandata.PolYX:
		return options.PolY, options.PolX
	default:
		return options.PolX, options.PolX
	}
}

// ComputedTsys implements the standard gated-cal Tsys estimator:
// Tsys = (GTP * CALJY) / (2 * SDO), where SDO is the synchronously
// demodulated gated-cal output (GTP_on - GTP_off).
func ComputedTsys(entry scandata.AntIFPolSyscal) float64 {
	if entry.SDO == 0 {
		return math.NaN()
	}
	return (entry.GTP * entry.CALJY) / (2 * entry.SDO)
}

// applyTsys scales the raw amplitude according to the three modes of
// spec.md §4.C step 3, selected by (reverseOnline, applyComputed):
//
//   - (false, false): amplitude is left as measured - the correlator's
//     own online scaling already stands.
//   - (true, false): divide out the online Tsys where it was applied,
//     yielding the raw correlation coefficient.
//   - (true, true): divide out online Tsys, then multiply by computed
//     Tsys.
func applyTsys(amp float64, pol, a1, a2, ifLabel int, syscal *scandata.SyscalData, reverseOnline, applyComputed bool) float64 {
	if !reverseOnline {
		return amp
	}

	p1, p2 := antennaPolsForRecord(pol)
	e1 := syscal.AntennaIFPol(a1, ifLabel, p1)
	e2 := syscal.AntennaIFPol(a2, ifLabel, p2)

	rawCoeff := amp
	if e1.OnlineApplied && e2.OnlineApplied && e1.OnlineTsys > 0 && e2.OnlineTsys > 0 {
		rawCoeff = amp / math.Sqrt(e1.OnlineTsys*e2.OnlineTsys)
	}

	if !applyComputed {
		return rawCoeff
	}

	t1 := ComputedTsys(e1)
	t2 := ComputedTsys(e2)
	if math.IsNaN(t1) || math.IsNaN(t2) {
		return math.NaN()
	}
	return rawCoeff * math.Sqrt(t1*t2)
}
