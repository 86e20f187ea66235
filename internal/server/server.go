// Package server implements the TCP runtime of spec.md §4.E: a
// READY/COMPUTING/SHUTTING_DOWN state machine, a request dispatch table
// over internal/protocol, at-most-one-recompute-in-flight coalescing,
// and username-grouped broadcast, following the teacher's
// apps/proxy/tcpprox.go accept-loop shape (one goroutine per accepted
// connection, log/status-reporter wiring shared across connections via
// package-level-style fields on a single long-lived Server).
package server

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/alitto/pond"
	"github.com/goblimey/go-tools/dailylogger"
	"github.com/goblimey/go-tools/logger"
	reporter "github.com/goblimey/go-tools/statusreporter"
	"github.com/robfig/cron"

	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/protocol"
	"github.com/ste616/atca-training-sub001/internal/session"
	"github.com/ste616/atca-training-sub001/internal/snapshot"
)

// Config bundles a Server's construction-time parameters.
type Config struct {
	ListenAddr string

	// StatusHost/StatusPort expose the HTTP status page described in
	// SPEC_FULL.md §12 (a separate port from the client TCP protocol).
	StatusHost string
	StatusPort int

	ServerType protocol.ServerType

	// SnapshotPath/SnapshotCron drive the periodic dump of the current
	// vis_data, per spec.md §4.G, scheduled with robfig/cron following
	// rtcmlogger/log.Writer's own use of a cron job for its daily
	// rollover.
	SnapshotPath string
	SnapshotCron string

	// ShutdownTimeout bounds how long SHUTTING_DOWN waits for clients
	// to disconnect before forcing their sockets closed (SPEC_FULL.md
	// §12's "Graceful shutdown handshake" supplement).
	ShutdownTimeout time.Duration

	LogDir string
}

func (c Config) withDefaults() Config {
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	if c.LogDir == "" {
		c.LogDir = "./logs"
	}
	return c
}

// pendingCompute names the request driving (or waiting to drive) a
// recompute: which client triggered it and which options it uses.
type pendingCompute struct {
	clientID session.ID
	options  *options.OptionsSet
}

// Server is the runtime of spec.md §4.E.
type Server struct {
	cfg Config

	mu        sync.Mutex
	state     State
	computing *pendingCompute
	pending   *pendingCompute

	data       *snapshot.VisData
	noiseDiode map[int]options.NoiseDiodeTable
	optionSets []*options.OptionsSet

	clients *session.Table

	pool *pond.WorkerPool

	log      *logger.LoggerT
	wireLog  *dailylogger.Writer
	eventLog *dailylogger.Writer

	status  *reportFeed
	cronjob *cron.Cron

	listener net.Listener
	wg       sync.WaitGroup

	connsMu sync.Mutex
	conns   map[session.ID]net.Conn
}

// New constructs a Server holding data as its initial canonical
// scan/cycle store (spec.md §5's "shared resources").
func New(cfg Config, data *snapshot.VisData) *Server {
	cfg = cfg.withDefaults()

	if err := os.MkdirAll(cfg.LogDir, os.ModePerm); err != nil {
		panic("creating log directory: " + err.Error())
	}

	log := logger.New()
	log.SetLogLevel(1)

	s := &Server{
		cfg:        cfg,
		state:      StateReady,
		data:       data,
		noiseDiode: make(map[int]options.NoiseDiodeTable),
		clients:    session.NewTable(),
		conns:      make(map[session.ID]net.Conn),
		pool:       pond.New(4, 64),
		log:        log,
		// wireLog captures every frame received from a client
		// verbatim, each followed by a newline; outbound frames are not
		// logged. It parallels the teacher's rtcmLog in
		// apps/proxy/tcpprox.go.
		wireLog: dailylogger.New(cfg.LogDir, "wire.", ".bin"),
		// eventLog carries human-readable session events (connects,
		// state transitions, broadcasts), the counterpart to the
		// teacher's verbose fmt.Fprintf(log, ...) trail but routed to
		// its own daily file instead of stderr.
		eventLog: dailylogger.New(cfg.LogDir, "session.", ".log"),
	}
	s.status = newReportFeed(s)
	statusServer := reporter.MakeReporter(s.status, cfg.StatusHost, cfg.StatusPort)
	statusServer.SetUseTextTemplates(true)
	go statusServer.StartService()

	if cfg.SnapshotPath != "" && cfg.SnapshotCron != "" {
		s.cronjob = cron.New()
		s.cronjob.AddFunc(cfg.SnapshotCron, s.dumpSnapshot)
		s.cronjob.Start()
	}

	return s
}

func (s *Server) eventf(format string, args ...interface{}) {
	fmt.Fprintf(s.log, format, args...)
	fmt.Fprintf(s.eventLog, format, args...)
}

func (s *Server) dumpSnapshot() {
	s.mu.Lock()
	data := s.data
	s.mu.Unlock()
	if err := snapshot.Dump(s.cfg.SnapshotPath, data); err != nil {
		s.eventf("snapshot dump failed: %v\n", err)
	}
}

// Run listens on cfg.ListenAddr and accepts client connections until
// the listener is closed by Shutdown, following StartClientListener's
// accept-loop shape.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.ListenAddr, err)
	}
	s.listener = ln
	s.eventf("[*] listening on %s\n", s.cfg.ListenAddr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.eventf("accept failed, stopping: %v\n", err)
			return nil
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Shutdown transitions to SHUTTING_DOWN, broadcasts a shutdown notice
// to every connected client, waits up to cfg.ShutdownTimeout for them
// to disconnect on their own, then force-closes whatever remains.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.state = StateShuttingDown
	s.mu.Unlock()

	resp := &protocol.Response{Envelope: protocol.ResponseEnvelope{ResponseType: protocol.ResponseShutdown}}
	for _, c := range s.clients.All() {
		s.sendResponse(c, resp)
	}

	if s.listener != nil {
		s.listener.Close()
	}
	if s.cronjob != nil {
		s.cronjob.Stop()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.cfg.ShutdownTimeout):
		s.eventf("shutdown timeout exceeded, forcing remaining connections closed\n")
		s.connsMu.Lock()
		for id, conn := range s.conns {
			conn.Close()
			delete(s.conns, id)
		}
		s.connsMu.Unlock()
	}

	s.pool.StopAndWait()
}
