package scandata

import "testing"

func TestBaselineRoundTrip(t *testing.T) {
	cases := [][2]int{{1, 2}, {2, 1}, {3, 3}, {1, 6}, {6, 1}}
	for _, c := range cases {
		enc := BaselineEncode(c[0], c[1])
		low, high := BaselineDecode(enc)
		wantLow, wantHigh := c[0], c[1]
		if wantLow > wantHigh {
			wantLow, wantHigh = wantHigh, wantLow
		}
		if low != wantLow || high != wantHigh {
			t.Errorf("BaselineDecode(BaselineEncode(%d,%d)) = (%d,%d), want (%d,%d)",
				c[0], c[1], low, high, wantLow, wantHigh)
		}
		if low > high {
			t.Errorf("invariant violated: low=%d > high=%d", low, high)
		}
	}
}

func TestAppendCycleAndRecord(t *testing.T) {
	h := Header{ObsType: "test"}
	s := CreateScan(h)
	if len(s.Cycles) != 0 {
		t.Fatalf("expected 0 cycles initially, got %d", len(s.Cycles))
	}

	c := s.AppendCycle()
	if len(s.Cycles) != 1 {
		t.Fatalf("expected 1 cycle after append, got %d", len(s.Cycles))
	}

	rec := c.AppendRecord()
	rec.Baseline = BaselineEncode(1, 2)
	rec.IFIndex = 1
	rec.Pol = 0
	rec.Raw = []float64{1, 0, 1, 0}
	rec.Weight = []float64{1, 1}

	found := c.RecordsFor(1, 0)
	if len(found) != 1 {
		t.Fatalf("expected 1 matching record, got %d", len(found))
	}
	if found[0].Baseline != rec.Baseline {
		t.Errorf("unexpected baseline %d", found[0].Baseline)
	}
}
