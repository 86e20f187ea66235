package kernel

import "github.com/ste616/atca-training-sub001/internal/scandata"

// phaseLookup resolves the phase (radians) of baseline (i,j) at a given
// bin index from a spectrum, honouring the "swapping endpoints negates
// the phase" convention.
type phaseLookup func(i, j, bin int) (float64, bool)

// ClosurePhase computes the closure phase for baseline (i,j) around
// reference antenna aRef at the given bin, per spec.md §4.C step 7:
//
//	closure(i,j) = phi(i,j) + phi(j,aRef) + phi(aRef,i)
func ClosurePhase(i, j, aRef, bin int, lookup phaseLookup) (float64, bool) {
	if i == aRef || j == aRef {
		return 0, false
	}

	pij, ok := baselinePhase(i, j, bin, lookup)
	if !ok {
		return 0, false
	}
	pjr, ok := baselinePhase(j, aRef, bin, lookup)
	if !ok {
		return 0, false
	}
	pri, ok := baselinePhase(aRef, i, bin, lookup)
	if !ok {
		return 0, false
	}

	return pij + pjr + pri, true
}

// baselinePhase returns phi(a,b), negating the stored phi(min,max) if a
// and b were given out of baseline-encoding order.
func baselinePhase(a, b, bin int, lookup phaseLookup) (float64, bool) {
	lo, hi := a, b
	sign := 1.0
	if lo > hi {
		lo, hi = hi, lo
		sign = -1.0
	}
	p, ok := lookup(lo, hi, bin)
	if !ok {
		return 0, false
	}
	return sign * p, true
}

// DefaultReferenceAntenna picks the lowest-numbered antenna present in
// the given baseline list, for SPEC_FULL.md §12's default when the
// options set's ReferenceAntenna is 0. It does not look at flags: every
// baseline in the list counts.
func DefaultReferenceAntenna(baselines []int) int {
	best := -1
	for _, b := range baselines {
		lo, hi := scandata.BaselineDecode(b)
		if best == -1 || lo < best {
			best = lo
		}
		if hi < best {
			best = hi
		}
	}
	if best == -1 {
		return 1
	}
	return best
}
