// Package scandata is the in-memory representation of one scan: its
// header and its ordered sequence of cycles. A scan is never mutated
// after publication, only referenced; cycles are appended in arrival
// order.
package scandata

import "fmt"

// SourceEntry is one row of a scan's source table: a calibrator or
// target name and its equatorial coordinates, in radians.
type SourceEntry struct {
	Name string
	RA   float64
	Dec  float64
}

// AntennaEntry is one row of a scan's antenna table: an integer label,
// a name and geocentric Cartesian coordinates in metres.
type AntennaEntry struct {
	Label int
	Name  string
	X, Y, Z float64
}

// IF describes one spectrometer window ("IF").
type IF struct {
	Label       int
	CentreFreq  float64 // MHz
	Bandwidth   float64 // MHz
	NChannels   int
	NPols       int
	SidebandSign int // +1 or -1
	Chain       int
	Names       [3]string // symbolic names operators use to select this IF
}

// ChannelWidth returns the IF's channel width in MHz.
func (i *IF) ChannelWidth() float64 {
	if i.NChannels == 0 {
		return 0
	}
	return i.Bandwidth / float64(i.NChannels)
}

// IsContinuum reports whether the IF is continuum (channel width >= 1MHz)
// as opposed to zoom.
func (i *IF) IsContinuum() bool {
	return i.ChannelWidth() >= 1.0
}

// Header describes one contiguous observation.
type Header struct {
	BaseDate     float64 // MJD of the start of the scan
	UTOffsetSecs float64
	ObsType      string
	CalCode      string
	CycleTime    float64 // seconds
	Sources      []SourceEntry
	Antennas     []AntennaEntry
	IFs          []IF
}

// NumIFs returns the number of IFs in the header.
func (h *Header) NumIFs() int {
	return len(h.IFs)
}

// IFByLabel finds the IF with the given 1-based label, or nil.
func (h *Header) IFByLabel(label int) *IF {
	for i := range h.IFs {
		if h.IFs[i].Label == label {
			return &h.IFs[i]
		}
	}
	return nil
}

// HasPol reports whether the IF at the given label lists the given
// polarization product among the ones it carries. The polarization
// product count alone doesn't name the products, so the caller passes
// the canonical ordering used throughout this package.
func (h *Header) HasPol(ifLabel int, polIndex int) bool {
	ifr := h.IFByLabel(ifLabel)
	if ifr == nil {
		return false
	}
	return polIndex >= 0 && polIndex < ifr.NPols
}

// Scan is the handle returned by CreateScan: a header plus its cycles.
type Scan struct {
	Header Header
	Cycles []*Cycle
}

// CreateScan stores the header and initializes an empty cycle list.
func CreateScan(header Header) *Scan {
	return &Scan{Header: header, Cycles: make([]*Cycle, 0)}
}

// AppendCycle appends a zero-length cycle to the scan and returns it
// for the caller to fill in.
func (s *Scan) AppendCycle() *Cycle {
	c := &Cycle{}
	s.Cycles = append(s.Cycles, c)
	return c
}

// String gives a short human-readable summary, following the teacher's
// habit of cheap String() methods for log lines.
func (h *Header) String() string {
	return fmt.Sprintf("scan base_date=%.6f type=%s cal=%s ifs=%d ants=%d",
		h.BaseDate, h.ObsType, h.CalCode, len(h.IFs), len(h.Antennas))
}
