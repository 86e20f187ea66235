package options

import "testing"

func TestMergeOptionsSetScalarFields(t *testing.T) {
	dst := &OptionsSet{PhaseInDegrees: false, ReverseOnline: false}
	src := &OptionsSet{PhaseInDegrees: true, ReverseOnline: true, ApplyComputed: true}

	MergeOptionsSet(dst, src)

	if !dst.PhaseInDegrees || !dst.ReverseOnline || !dst.ApplyComputed {
		t.Errorf("expected dst to take src's scalar fields, got %+v", dst)
	}
}

func TestMergeOptionsSetCoalescesIdenticalWindows(t *testing.T) {
	dst := &OptionsSet{IFs: []IFOption{{
		Modifiers: []Modifier{
			{Kind: KindAddDelay, StartMJD: 0, EndMJD: 100, AntPolValue: map[int][3]float64{1: {1, 0, 0}}},
		},
	}}}
	src := &OptionsSet{IFs: []IFOption{{
		Modifiers: []Modifier{
			{Kind: KindAddDelay, StartMJD: 0, EndMJD: 100, AntPolValue: map[int][3]float64{1: {9, 0, 0}}},
			{Kind: KindAddDelay, StartMJD: 200, EndMJD: 300, AntPolValue: map[int][3]float64{1: {2, 0, 0}}},
		},
	}}}

	MergeOptionsSet(dst, src)

	mods := dst.IFs[0].Modifiers
	if len(mods) != 2 {
		t.Fatalf("expected 2 coalesced modifiers, got %d: %+v", len(mods), mods)
	}
	if mods[0].AntPolValue[1][0] != 9 {
		t.Errorf("expected identical window to be overwritten by src, got %+v", mods[0])
	}
}
