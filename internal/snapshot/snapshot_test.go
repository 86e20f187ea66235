package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ste616/atca-training-sub001/internal/errs"
	"github.com/ste616/atca-training-sub001/internal/kernel"
	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/scandata"
)

func sampleVisData() *VisData {
	syscal := scandata.NewSyscalData()
	syscal.SetAntenna(1, scandata.AntennaSyscal{ParallacticAngle: 0.5})
	syscal.SetAntennaIF(1, 1, scandata.AntIFSyscal{XYPhase: 0.1, XYAmp: 0.2})
	syscal.SetAntennaIFPol(1, 1, options.PolX, scandata.AntIFPolSyscal{GTP: 10, SDO: 2, CALJY: 4})

	return &VisData{
		Header: &scandata.Header{
			BaseDate: 59000,
			ObsType:  "continuum",
			IFs:      []scandata.IF{{Label: 1, CentreFreq: 2100, Bandwidth: 128, NChannels: 2048, NPols: 4}},
		},
		Cycles: []CycleData{
			{
				Cycle: &scandata.Cycle{
					MJD: 59000.1,
					Records: []scandata.Record{
						{Baseline: scandata.BaselineEncode(1, 2), IFIndex: 1, Pol: scandata.PolXX, Raw: []float64{1, 2}, Weight: []float64{1}},
					},
				},
				VisQ: []*kernel.VisQuantities{
					{IFIndex: 1, Pol: scandata.PolXX, MJD: 59000.1},
				},
				Met: scandata.MetInfo{Temperature: scandata.ValidFloat{Value: 20, Valid: true}},
				Syscal: syscal,
			},
		},
		OptionSets: []*options.OptionsSet{
			{PhaseInDegrees: true, IFs: []options.IFOption{{CentreFreq: 2100, Bandwidth: 128, NChannels: 2048}}},
		},
	}
}

func TestDumpLoadRoundTrip(t *testing.T) {
	v := sampleVisData()
	path := filepath.Join(t.TempDir(), "snapshot.bin")

	if err := Dump(path, v); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(v, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMJDRangeEmpty(t *testing.T) {
	v := &VisData{}
	min, max := v.MJDRange()
	if min != 0 || max != 0 {
		t.Errorf("MJDRange on empty VisData = (%v, %v), want (0, 0)", min, max)
	}
}

func TestLoadMissingFileReturnsIOError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.bin"))
	if !errors.Is(err, errs.ErrIO) {
		t.Fatalf("expected ErrIO loading a missing file, got %v", err)
	}
}

func TestDumpCreatesFile(t *testing.T) {
	v := sampleVisData()
	path := filepath.Join(t.TempDir(), "out.bin")
	if err := Dump(path, v); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot file to exist: %v", err)
	}
}
