package server

import (
	"fmt"
	"testing"
	"time"

	"github.com/ste616/atca-training-sub001/internal/codec"
	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/protocol"
	"github.com/ste616/atca-training-sub001/internal/scandata"
	"github.com/ste616/atca-training-sub001/internal/session"
	"github.com/ste616/atca-training-sub001/internal/snapshot"
)

func newTestReader(payload []byte) *codec.Reader {
	return codec.NewReader(codec.NewBufferTransport(payload))
}

func testServer(t *testing.T) *Server {
	t.Helper()
	header := &scandata.Header{
		BaseDate: 59000,
		IFs: []scandata.IF{
			{Label: 1, CentreFreq: 2100, Bandwidth: 128, NChannels: 8, NPols: 1},
		},
	}
	cycle := &scandata.Cycle{MJD: 59000.1}
	data := &snapshot.VisData{
		Header: header,
		Cycles: []snapshot.CycleData{{Cycle: cycle, Syscal: scandata.NewSyscalData()}},
	}
	cfg := Config{
		ListenAddr:      "127.0.0.1:0",
		StatusPort:      0,
		ShutdownTimeout: 50 * time.Millisecond,
		LogDir:          t.TempDir(),
	}
	return New(cfg, data)
}

func addClient(s *Server, id string) *session.Client {
	c := &session.Client{ID: session.ID(id), Username: "obs1", Notify: make(chan struct{}, 1)}
	s.clients.Add(c)
	return c
}

func TestRequestComputeTransitionsReadyToComputing(t *testing.T) {
	s := testServer(t)
	client := addClient(s, "aaaaaaaaaaaaaaaaaaaa")

	opts := &options.OptionsSet{IFs: []options.IFOption{{MinTVChannel: 0, MaxTVChannel: 7}}}
	s.requestCompute(client, opts)

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state != StateComputing && state != StateReady {
		t.Fatalf("unexpected state after requestCompute: %v", state)
	}
	// The compute runs on the pool asynchronously; give it a moment to
	// finish and return to READY.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		done := s.state == StateReady
		s.mu.Unlock()
		if done {
			break
		}
		time.Sleep(time.Millisecond)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		t.Fatalf("expected state to return to READY, got %v", s.state)
	}
}

func TestRequestComputeCoalescesWhileComputing(t *testing.T) {
	s := testServer(t)
	clientA := addClient(s, "aaaaaaaaaaaaaaaaaaaa")
	clientB := addClient(s, "bbbbbbbbbbbbbbbbbbbb")

	s.mu.Lock()
	s.state = StateComputing
	s.computing = &pendingCompute{clientID: clientA.ID, options: nil}
	s.mu.Unlock()

	optsB := &options.OptionsSet{IFs: []options.IFOption{{MinTVChannel: 0, MaxTVChannel: 7}}}
	s.requestCompute(clientB, optsB)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		t.Fatal("expected requestCompute to coalesce into s.pending while COMPUTING")
	}
	if s.pending.clientID != clientB.ID {
		t.Fatalf("pending.clientID = %v, want %v", s.pending.clientID, clientB.ID)
	}
}

func TestRequestComputeDiscardsEarlierPending(t *testing.T) {
	s := testServer(t)
	clientA := addClient(s, "aaaaaaaaaaaaaaaaaaaa")
	clientB := addClient(s, "bbbbbbbbbbbbbbbbbbbb")
	clientC := addClient(s, "cccccccccccccccccccc")

	s.mu.Lock()
	s.state = StateComputing
	s.computing = &pendingCompute{clientID: clientA.ID}
	s.mu.Unlock()

	s.requestCompute(clientB, &options.OptionsSet{})
	s.requestCompute(clientC, &options.OptionsSet{})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending.clientID != clientC.ID {
		t.Fatalf("expected the last request (client C) to win coalescing, got %v", s.pending.clientID)
	}
}

func TestBroadcastComputedNotifiesGroupExcludingTriggerWithComputed(t *testing.T) {
	s := testServer(t)
	trigger := addClient(s, "aaaaaaaaaaaaaaaaaaaa")
	sibling := addClient(s, "bbbbbbbbbbbbbbbbbbbb")
	other := &session.Client{ID: "cccccccccccccccccccc", Username: "obs2", Notify: make(chan struct{}, 1)}
	s.clients.Add(other)

	s.broadcastComputed(trigger.ID)

	triggerPayload, ok := trigger.Dequeue()
	if !ok {
		t.Fatal("expected triggering client to receive a response")
	}
	resp := decodeTestResponse(t, triggerPayload)
	if resp.Envelope.ResponseType != protocol.ResponseVisdataComputed {
		t.Fatalf("trigger response type = %v, want VISDATA_COMPUTED", resp.Envelope.ResponseType)
	}

	siblingPayload, ok := sibling.Dequeue()
	if !ok {
		t.Fatal("expected sibling client to receive a response")
	}
	siblingResp := decodeTestResponse(t, siblingPayload)
	if siblingResp.Envelope.ResponseType != protocol.ResponseUsernameExists {
		t.Fatalf("sibling response type = %v, want USERNAME_EXISTS", siblingResp.Envelope.ResponseType)
	}

	if _, ok := other.Dequeue(); ok {
		t.Fatal("expected client in a different username group to receive nothing")
	}
}

func TestFinishComputeErrorReturnsReadyAndBroadcastsNothing(t *testing.T) {
	s := testServer(t)
	trigger := addClient(s, "aaaaaaaaaaaaaaaaaaaa")
	sibling := addClient(s, "bbbbbbbbbbbbbbbbbbbb")
	trigger.Pending = true

	s.mu.Lock()
	s.state = StateComputing
	job := &pendingCompute{clientID: trigger.ID, options: &options.OptionsSet{}}
	s.computing = job
	s.mu.Unlock()

	s.finishCompute(job, fmt.Errorf("kernel.Compute failed"))

	s.mu.Lock()
	state := s.state
	computing := s.computing
	s.mu.Unlock()
	if state != StateReady {
		t.Fatalf("state = %v, want READY after a failed compute", state)
	}
	if computing != nil {
		t.Fatalf("expected s.computing to be cleared, got %+v", computing)
	}
	if trigger.Pending {
		t.Error("expected the triggering client's Pending flag to be cleared on failure")
	}

	if _, ok := trigger.Dequeue(); ok {
		t.Error("expected no broadcast to the triggering client after a failed compute")
	}
	if _, ok := sibling.Dequeue(); ok {
		t.Error("expected no broadcast to group siblings after a failed compute")
	}
}

func decodeTestResponse(t *testing.T, payload []byte) *protocol.Response {
	t.Helper()
	r := newTestReader(payload)
	resp, err := protocol.DecodeResponse(r)
	if err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}
