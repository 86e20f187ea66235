package server

import (
	"fmt"

	"github.com/ste616/atca-training-sub001/internal/kernel"
	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/protocol"
	"github.com/ste616/atca-training-sub001/internal/session"
)

// freqTol/bwTol are the tolerances FindOptionsSet uses to match an
// options set's IF block against a scan header's IF, per spec.md §4.B.
const (
	freqTolMHz = 0.01
	bwTolMHz   = 0.01
)

// requestCompute implements spec.md §4.E's READY -> COMPUTING transition
// and the COMPUTING-state coalescing discipline: "the last received
// options set wins; earlier pending ones are discarded."
func (s *Server) requestCompute(client *session.Client, opts *options.OptionsSet) {
	resolved := s.resolveOptions(client, opts)

	s.mu.Lock()
	switch s.state {
	case StateShuttingDown:
		s.mu.Unlock()
		return
	case StateReady:
		s.state = StateComputing
		s.computing = &pendingCompute{clientID: client.ID, options: resolved}
		s.mu.Unlock()
		s.pool.Submit(func() { s.runCompute() })
	default: // StateComputing: coalesce, discarding any earlier pending request.
		s.pending = &pendingCompute{clientID: client.ID, options: resolved}
		s.mu.Unlock()
	}

	client.Pending = true
	// spec.md §4.E/§5: "clients see RESPONSE_VISDATA_COMPUTING
	// immediately after submitting and the actual result later."
	s.sendResponse(client, &protocol.Response{
		Envelope: protocol.ResponseEnvelope{ResponseType: protocol.ResponseVisdataComputing, ClientID: string(client.ID)},
	})
}

// resolveOptions applies spec.md §6.1's "n_options = 0 means reuse my
// last-sent options" rule, falling back to the best matching registered
// options set (or the ApplicableToAny default) when the client has
// never had options computed for it.
func (s *Server) resolveOptions(client *session.Client, opts *options.OptionsSet) *options.OptionsSet {
	if opts != nil {
		return opts
	}
	if client.LastSentOptions != nil {
		return client.LastSentOptions
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if found, ok := options.FindOptionsSet(s.data.Header, s.optionSets, freqTolMHz, bwTolMHz); ok {
		return found
	}
	for _, o := range s.optionSets {
		if o.ApplicableToAny {
			return o
		}
	}
	return nil
}

// runCompute performs the recompute for s.computing, then either starts
// the coalesced pending request (without broadcasting the superseded
// result) or transitions back to READY and broadcasts, per spec.md
// §4.E's state table.
func (s *Server) runCompute() {
	s.mu.Lock()
	job := s.computing
	s.mu.Unlock()

	if job == nil || job.options == nil {
		s.finishCompute(job, fmt.Errorf("no options available to compute with"))
		return
	}

	visQ, err := s.computeAll(job.options)
	s.finishCompute(job, err, visQ...)
}

// computeAll runs the kernel over every cycle/IF/pol combination using
// opts, replacing s.data's VisQ in place on success. It is shared by
// COMPUTE_VISDATA and ACAL, which differ only in which response they
// produce from the result.
func (s *Server) computeAll(opts *options.OptionsSet) ([]*kernel.VisQuantities, error) {
	if opts == nil {
		return nil, fmt.Errorf("no options set to compute with")
	}

	s.mu.Lock()
	header := s.data.Header
	cycles := s.data.Cycles
	noiseDiode := make(map[int]options.NoiseDiodeTable, len(s.noiseDiode))
	for k, v := range s.noiseDiode {
		noiseDiode[k] = v
	}
	s.mu.Unlock()

	var all []*kernel.VisQuantities
	for ci := range cycles {
		cd := &cycles[ci]
		for ifIndex := 1; ifIndex <= header.NumIFs() && ifIndex <= opts.NumIFs(); ifIndex++ {
			ifr := header.IFByLabel(ifIndex)
			if ifr == nil {
				continue
			}
			for pol := 0; pol < ifr.NPols; pol++ {
				spec, err := kernel.Compute(kernel.Input{
					Header:     header,
					Cycle:      cd.Cycle,
					IFIndex:    ifIndex,
					Pol:        pol,
					Options:    opts,
					Met:        cd.Met,
					Syscal:     cd.Syscal,
					NoiseDiode: noiseDiode[ifIndex],
				})
				if err != nil {
					return nil, fmt.Errorf("computing IF %d pol %d cycle %.6f: %w", ifIndex, pol, cd.Cycle.MJD, err)
				}
				vq := kernel.Reduce(spec, cd.Cycle.MJD)
				all = append(all, vq)
			}
		}
	}

	s.mu.Lock()
	for ci := range cycles {
		var cycleVisQ []*kernel.VisQuantities
		for _, vq := range all {
			if vq.MJD == cycles[ci].Cycle.MJD {
				cycleVisQ = append(cycleVisQ, vq)
			}
		}
		cycles[ci].VisQ = cycleVisQ
	}
	s.noiseDiode = noiseDiode
	s.mu.Unlock()

	return all, nil
}

// finishCompute records the outcome of one recompute and either chains
// into a coalesced pending request or returns the server to READY and
// broadcasts, per spec.md §4.E/§5's transactional discipline: "If a
// compute fails mid-flight, the server reverts the option set to the
// last successfully computed state before returning to READY."
func (s *Server) finishCompute(job *pendingCompute, err error, visQ ...*kernel.VisQuantities) {
	s.mu.Lock()
	next := s.pending
	s.pending = nil

	if job == nil {
		s.eventf("compute finished with no triggering job recorded\n")
	} else if err != nil {
		s.eventf("compute triggered by %s failed: %v\n", job.clientID, err)
		if c, ok := s.clients.ByID(job.clientID); ok {
			c.Pending = false
		}
	} else if c, ok := s.clients.ByID(job.clientID); ok {
		c.LastSentOptions = job.options
	}

	if next != nil {
		s.computing = next
		s.mu.Unlock()
		s.pool.Submit(func() { s.runCompute() })
		return
	}

	s.state = StateReady
	trigger := s.computing
	s.computing = nil
	s.mu.Unlock()

	// spec.md §5: "Any failure inside a forked compute child causes the
	// server to re-enter READY without updating its authoritative data
	// and broadcast nothing." A failed compute must not announce a
	// result that never happened.
	if trigger != nil && err == nil {
		s.broadcastComputed(trigger.clientID)
	}
}
