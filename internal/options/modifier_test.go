package options

import "testing"

func TestNewModifierDefaultBounds(t *testing.T) {
	m := NewModifier(KindAddDelay, nil)
	if m.StartMJD != 0 || m.EndMJD != AllTimeEndMJD {
		t.Errorf("expected default bounds [0, %d], got [%f, %f]", AllTimeEndMJD, m.StartMJD, m.EndMJD)
	}
}

func TestAddAndRemoveModifiers(t *testing.T) {
	ifo := &IFOption{}
	AddModifier(ifo, nil)
	AddModifier(ifo, nil)
	AddModifier(ifo, nil)
	if len(ifo.Modifiers) != 3 {
		t.Fatalf("expected 3 modifiers, got %d", len(ifo.Modifiers))
	}

	// Remove indices 0 and 2; index 1 should survive and end up at 0.
	ifo.Modifiers[1].StartMJD = 42
	RemoveModifiers(ifo, []int{0, 2})
	if len(ifo.Modifiers) != 1 {
		t.Fatalf("expected 1 modifier remaining, got %d", len(ifo.Modifiers))
	}
	if ifo.Modifiers[0].StartMJD != 42 {
		t.Errorf("expected surviving modifier to be the one with StartMJD=42, got %f", ifo.Modifiers[0].StartMJD)
	}
}

func TestNoOverlapInvariant(t *testing.T) {
	ifo := &IFOption{}
	idx := AddModifier(ifo, nil)
	ifo.Modifiers[idx].StartMJD = 100
	ifo.Modifiers[idx].EndMJD = 200

	if !HasOverlap(ifo, KindAddDelay, 150, 250) {
		t.Errorf("expected overlap to be detected")
	}
	if HasOverlap(ifo, KindAddDelay, 201, 300) {
		t.Errorf("expected no overlap for disjoint window")
	}
	if HasOverlap(ifo, KindAddPhase, 150, 250) {
		t.Errorf("expected no overlap across different kinds")
	}
}

func TestFindActivePicksFirstMatch(t *testing.T) {
	ifo := &IFOption{}
	a := AddModifier(ifo, nil)
	ifo.Modifiers[a].StartMJD = 0
	ifo.Modifiers[a].EndMJD = 100
	ifo.Modifiers[a].AntPolValue[2] = [3]float64{5.0, 0, 0}

	b := AddModifier(ifo, nil)
	ifo.Modifiers[b].StartMJD = 200
	ifo.Modifiers[b].EndMJD = 300

	m, ok := FindActive(ifo, KindAddDelay, 50)
	if !ok {
		t.Fatal("expected an active modifier at mjd=50")
	}
	if m.AntPolValue[2][0] != 5.0 {
		t.Errorf("got wrong modifier: %+v", m)
	}

	if _, ok := FindActive(ifo, KindAddDelay, 150); ok {
		t.Errorf("expected no active modifier at mjd=150")
	}
}
