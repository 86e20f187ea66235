package options

import (
	"math"
	"testing"

	"github.com/ste616/atca-training-sub001/internal/scandata"
)

func TestNetDelayMatchingPol(t *testing.T) {
	table := map[int][3]float64{
		1: {5.0, 1.0, 0},
		2: {2.0, 0.5, 3.0},
	}
	if got := NetDelay(scandata.PolXX, 1, 2, table); got != 3.0 {
		t.Errorf("NetDelay XX = %f, want 3.0", got)
	}
	if got := NetDelay(scandata.PolYY, 1, 2, table); got != 0.5 {
		t.Errorf("NetDelay YY = %f, want 0.5", got)
	}
	// Cross-pol: only the Y-end antenna's XY term applies.
	if got := NetDelay(scandata.PolXY, 1, 2, table); got != 3.0 {
		t.Errorf("NetDelay XY = %f, want 3.0 (a2's XY term)", got)
	}
}

func TestRotateForDelayRecoversPhaseSlope(t *testing.T) {
	n := 8
	freq := make([]float64, n)
	raw := make([]complex128, n)
	for i := range freq {
		freq[i] = 5000 + float64(i)
		raw[i] = complex(1, 0)
	}
	RotateForDelay(raw, freq, 10.0)

	for i := 1; i < n; i++ {
		p0 := math.Atan2(imag(raw[0]), real(raw[0]))
		p1 := math.Atan2(imag(raw[i]), real(raw[i]))
		expectedDelta := -2 * math.Pi * (freq[i] - freq[0]) * 10.0 * 1e-3
		delta := p1 - p0
		// Normalize to the same branch for comparison.
		for delta-expectedDelta > math.Pi {
			delta -= 2 * math.Pi
		}
		for delta-expectedDelta < -math.Pi {
			delta += 2 * math.Pi
		}
		if math.Abs(delta-expectedDelta) > 1e-9 {
			t.Errorf("channel %d: phase delta = %f, want %f", i, delta, expectedDelta)
		}
	}
}
