package kernel

import (
	"math"
	"testing"

	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/scandata"
)

func testHeader(nChannels int) *scandata.Header {
	return &scandata.Header{
		BaseDate: 59000,
		IFs: []scandata.IF{
			{Label: 1, CentreFreq: 2100, Bandwidth: 128, NChannels: nChannels, NPols: 4, SidebandSign: 1},
		},
	}
}

func testOptions(nChannels int) *options.OptionsSet {
	return &options.OptionsSet{
		ReverseOnline: false,
		ApplyComputed: false,
		IFs: []options.IFOption{
			{
				CentreFreq:      2100,
				Bandwidth:       128,
				NChannels:       nChannels,
				MinTVChannel:    0,
				MaxTVChannel:    nChannels - 1,
				DelayAveragingN: 1,
				AveragingMethod: options.VectorMean,
			},
		},
	}
}

// syntheticRecord builds a record whose phase varies linearly with
// channel at the rate implied by trueDelayNs, so the delay fit can be
// checked against a known answer.
func syntheticRecord(baseline, nChannels int, freqMHz []float64, trueDelayNs float64) scandata.Record {
	raw := make([]float64, nChannels*2)
	weight := make([]float64, nChannels)
	for k := 0; k < nChannels; k++ {
		phase := 2 * math.Pi * trueDelayNs * freqMHz[k] / 1000
		raw[2*k] = math.Cos(phase)
		raw[2*k+1] = math.Sin(phase)
		weight[k] = 1
	}
	return scandata.Record{
		Baseline: baseline,
		IFIndex:  1,
		Pol:      scandata.PolXX,
		Raw:      raw,
		Weight:   weight,
	}
}

func TestComputeRecoversSyntheticDelay(t *testing.T) {
	const nChannels = 64
	h := testHeader(nChannels)
	freq := channelFrequencies(h.IFByLabel(1))

	const trueDelay = 2.5 // ns
	cycle := &scandata.Cycle{MJD: 59000.1}
	cycle.Records = append(cycle.Records, syntheticRecord(scandata.BaselineEncode(1, 2), nChannels, freq, trueDelay))

	opts := testOptions(nChannels)
	spec, err := Compute(Input{
		Header:  h,
		Cycle:   cycle,
		IFIndex: 1,
		Pol:     scandata.PolXX,
		Options: opts,
		Syscal:  scandata.NewSyscalData(),
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(spec.Baselines) != 1 {
		t.Fatalf("expected 1 baseline, got %d", len(spec.Baselines))
	}
	got := spec.Baselines[0].Bins[0].Delay[0]
	if math.Abs(got-trueDelay) > 1e-4 {
		t.Errorf("delay = %v, want close to %v", got, trueDelay)
	}
}

func TestComputeFlagsTooFewChannelsForDelay(t *testing.T) {
	const nChannels = 3
	h := testHeader(nChannels)
	freq := channelFrequencies(h.IFByLabel(1))

	cycle := &scandata.Cycle{MJD: 59000.1}
	cycle.Records = append(cycle.Records, syntheticRecord(scandata.BaselineEncode(1, 2), nChannels, freq, 0))

	opts := testOptions(nChannels)
	spec, err := Compute(Input{
		Header:  h,
		Cycle:   cycle,
		IFIndex: 1,
		Pol:     scandata.PolXX,
		Options: opts,
		Syscal:  scandata.NewSyscalData(),
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	delay := spec.Baselines[0].Bins[0].Delay[0]
	if !math.IsNaN(delay) {
		t.Errorf("expected NaN delay with < 4 channels, got %v", delay)
	}
}

func TestComputeFlaggedRecordProducesNoUsableChannels(t *testing.T) {
	const nChannels = 8
	h := testHeader(nChannels)
	freq := channelFrequencies(h.IFByLabel(1))
	rec := syntheticRecord(scandata.BaselineEncode(1, 2), nChannels, freq, 0)
	rec.Flagged = true

	cycle := &scandata.Cycle{MJD: 59000.1}
	cycle.Records = append(cycle.Records, rec)

	opts := testOptions(nChannels)
	spec, err := Compute(Input{
		Header:  h,
		Cycle:   cycle,
		IFIndex: 1,
		Pol:     scandata.PolXX,
		Options: opts,
		Syscal:  scandata.NewSyscalData(),
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	bin := spec.Baselines[0].Bins[0]
	if !bin.FlaggedBad {
		t.Errorf("expected flagged_bad for a flagged record")
	}
	if bin.FlaggedChannels != nChannels {
		t.Errorf("FlaggedChannels = %d, want %d", bin.FlaggedChannels, nChannels)
	}
}

func TestComputeBadSelectionErrors(t *testing.T) {
	h := testHeader(8)
	cycle := &scandata.Cycle{MJD: 59000.1}
	opts := testOptions(8)

	_, err := Compute(Input{Header: h, Cycle: cycle, IFIndex: 9, Pol: scandata.PolXX, Options: opts})
	if err == nil {
		t.Fatal("expected error for out-of-range IF")
	}
}

func TestClosurePhaseNearZeroForConsistentPhases(t *testing.T) {
	// A phase table consistent with a single per-antenna phase offset
	// should close to (near) zero.
	antPhase := map[int]float64{1: 0.1, 2: 0.2, 3: 0.3, 4: -0.05}
	lookup := func(i, j, bin int) (float64, bool) {
		return antPhase[j] - antPhase[i], true
	}

	got, ok := ClosurePhase(1, 2, 3, 0, lookup)
	if !ok {
		t.Fatal("expected a closure value")
	}
	if math.Abs(got) > 1e-9 {
		t.Errorf("closure phase = %v, want ~0", got)
	}
}

func TestClosurePhaseSkipsWhenEndpointIsReference(t *testing.T) {
	lookup := func(i, j, bin int) (float64, bool) { return 0, true }
	if _, ok := ClosurePhase(1, 3, 3, 0, lookup); ok {
		t.Error("expected ClosurePhase to decline when j == aRef")
	}
}

func TestComputedTsysIdentity(t *testing.T) {
	entry := scandata.AntIFPolSyscal{GTP: 10, SDO: 2, CALJY: 4}
	got := ComputedTsys(entry)
	want := (10.0 * 4.0) / (2 * 2.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ComputedTsys = %v, want %v", got, want)
	}
}

func TestComputedTsysNaNOnZeroSDO(t *testing.T) {
	entry := scandata.AntIFPolSyscal{GTP: 10, SDO: 0, CALJY: 4}
	if !math.IsNaN(ComputedTsys(entry)) {
		t.Error("expected NaN when SDO is zero")
	}
}

func TestDefaultReferenceAntennaPicksLowest(t *testing.T) {
	baselines := []int{scandata.BaselineEncode(3, 5), scandata.BaselineEncode(2, 4)}
	if got := DefaultReferenceAntenna(baselines); got != 2 {
		t.Errorf("DefaultReferenceAntenna = %d, want 2", got)
	}
}
