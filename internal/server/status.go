package server

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// mjdToTime converts a modified Julian date to a calendar time, for the
// status page's human-readable range. MJD = JD - 2400000.5.
func mjdToTime(mjd float64) time.Time {
	return julian.JDToTime(mjd + 2400000.5)
}

// reportFeed satisfies statusreporter.ReportFeedT, following the
// teacher's apps/proxy/reportfeed.ReportFeed: SetLogLevel toggles the
// verbosity of the server's own logger, and Status renders a short
// plain-text summary of the runtime's live state for the HTTP status
// page (SPEC_FULL.md §12's "Server status page" supplement).
type reportFeed struct {
	s *Server
}

func newReportFeed(s *Server) *reportFeed {
	return &reportFeed{s: s}
}

// SetLogLevel satisfies statusreporter.ReportFeedT.
func (rf *reportFeed) SetLogLevel(level uint8) {
	rf.s.log.SetLogLevel(int(level))
}

// Status satisfies statusreporter.ReportFeedT.
func (rf *reportFeed) Status() []byte {
	s := rf.s
	s.mu.Lock()
	state := s.state
	nCycles := len(s.data.Cycles)
	min, max := s.data.MJDRange()
	var computingFor string
	if s.computing != nil {
		computingFor = string(s.computing.clientID)
	}
	s.mu.Unlock()

	return []byte(fmt.Sprintf(
		"state: %s\nclients: %d\ncycles: %d\nmjd_range: [%.6f, %.6f] (%s to %s)\ncomputing_for: %s\n",
		state, s.clients.Len(), nCycles, min, max,
		mjdToTime(min).Format("2006-01-02 15:04:05"),
		mjdToTime(max).Format("2006-01-02 15:04:05"),
		computingFor,
	))
}
