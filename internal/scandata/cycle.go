package scandata

// Polarization product indices carried by a Record. These name the four
// correlator cross-products; they are a different axis from the
// per-antenna X/Y/XY indices a Modifier uses (options.PolX etc).
const (
	PolXX = 0
	PolYY = 1
	PolXY = 2
	PolYX = 3
)

// Record is one correlator output record within a cycle: the raw
// cross-product between a pair of antennas (or an antenna with itself)
// for one IF, one polarization product and one bin.
type Record struct {
	// Baseline is the encoded antenna pair, 256*a1 + a2, a1 <= a2.
	Baseline int

	// IFIndex is the 1-based IF label this record belongs to.
	IFIndex int

	// Pol is the polarization product index (PolXX, PolYY, PolXY or PolYX
	// above).
	Pol int

	// Bin is the bin index (for multi-bin pulsar-gated data; 0 for the
	// common case of one bin per cycle).
	Bin int

	// Flagged indicates the correlator (or an upstream process) already
	// flagged this whole record as bad.
	Flagged bool

	// Raw holds the complex visibility spectrum, real/imag interleaved,
	// length = channels * pols_in_this_record * 2. In practice each
	// Record carries one polarization product's worth of channels, so
	// length == NChannels*2.
	Raw []float64

	// Weight parallels the channel axis of Raw (length == NChannels);
	// a non-positive weight means the channel should be flagged.
	Weight []float64
}

// Cycle is one integration inside a scan.
type Cycle struct {
	MJD     float64
	Records []Record
}

// AppendRecord appends a new record to the cycle and returns a pointer
// to it so the caller can fill in the raw arrays.
func (c *Cycle) AppendRecord() *Record {
	c.Records = append(c.Records, Record{})
	return &c.Records[len(c.Records)-1]
}

// RecordsFor returns the records in the cycle matching the given IF and
// polarization, in the order they were appended.
func (c *Cycle) RecordsFor(ifIndex, pol int) []*Record {
	var out []*Record
	for i := range c.Records {
		r := &c.Records[i]
		if r.IFIndex == ifIndex && r.Pol == pol {
			out = append(out, r)
		}
	}
	return out
}

// BaselineEncode encodes an antenna pair as 256*a1 + a2 with a1 <= a2.
func BaselineEncode(a1, a2 int) int {
	if a1 > a2 {
		a1, a2 = a2, a1
	}
	return 256*a1 + a2
}

// BaselineDecode reverses BaselineEncode: high = b mod 256,
// low = (b-high)/256, low <= high.
func BaselineDecode(b int) (low, high int) {
	high = b % 256
	low = (b - high) / 256
	return low, high
}
