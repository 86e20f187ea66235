// Package session tracks per-client identity and state, per spec.md
// §4.F "Client Session State": identity, last-sent options snapshot, a
// pending-compute flag, and a send queue, keyed by connection and
// additionally indexed by username for broadcast grouping.
package session

import (
	"sync"

	"github.com/ste616/atca-training-sub001/internal/options"
	"github.com/ste616/atca-training-sub001/internal/protocol"
)

// ID is the 20-character random client-generated identifier, per
// spec.md §4.E's client accounting.
type ID string

// Client holds one connected client's state.
type Client struct {
	ID       ID
	Username string
	Type     protocol.ClientType

	// LastSentOptions is the most recent options set the server computed
	// on this client's behalf. The server reuses it for a COMPUTE_VISDATA
	// request with n_options = 0; a request that restates these options
	// is not detected and is recomputed like any other.
	LastSentOptions *options.OptionsSet

	// Pending indicates this client has an outstanding computation, per
	// spec.md §4.E's at-most-one-in-flight discipline.
	Pending bool

	// Outbox is the client's send queue; the server runtime drains it as
	// the socket accepts writes (spec.md §5's "partial writes" handling).
	Outbox [][]byte

	outboxMu sync.Mutex

	// Notify wakes the connection's writer goroutine when a broadcast
	// (running on a different goroutine than the one owning the socket)
	// enqueues a payload. Buffered size 1: a single pending wakeup is
	// all a drain loop needs, following the teacher's circular-queue
	// "latest state wins" notification style rather than one wakeup per
	// message.
	Notify chan struct{}
}

// Enqueue appends payload to the client's send queue and wakes its
// writer goroutine, if one is listening on Notify.
func (c *Client) Enqueue(payload []byte) {
	c.outboxMu.Lock()
	c.Outbox = append(c.Outbox, payload)
	c.outboxMu.Unlock()
	if c.Notify != nil {
		select {
		case c.Notify <- struct{}{}:
		default:
		}
	}
}

// Dequeue removes and returns the first queued payload, if any.
func (c *Client) Dequeue() ([]byte, bool) {
	c.outboxMu.Lock()
	defer c.outboxMu.Unlock()
	if len(c.Outbox) == 0 {
		return nil, false
	}
	payload := c.Outbox[0]
	c.Outbox = c.Outbox[1:]
	return payload, true
}

// Table is the runtime's client accounting structure: one entry per
// connected socket, looked up by ID (always exactly one match) or by
// username (zero or more), per spec.md §4.E.
type Table struct {
	mu       sync.RWMutex
	byID     map[ID]*Client
	order    []ID // connection-accept order, for broadcast ordering (spec.md §5).
}

// NewTable returns an empty, ready-to-use client table.
func NewTable() *Table {
	return &Table{byID: make(map[ID]*Client)}
}

// Add registers a newly connected client.
func (t *Table) Add(c *Client) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byID[c.ID] = c
	t.order = append(t.order, c.ID)
}

// Remove deregisters a client on disconnect, per spec.md §4.F
// "Destroyed on disconnect."
func (t *Table) Remove(id ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byID, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// ByID returns the single client registered under id, if any.
func (t *Table) ByID(id ID) (*Client, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.byID[id]
	return c, ok
}

// ByUsername returns every client currently bound to username, in
// connection-accept order.
func (t *Table) ByUsername(username string) []*Client {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*Client
	for _, id := range t.order {
		c := t.byID[id]
		if c != nil && c.Username == username {
			out = append(out, c)
		}
	}
	return out
}

// All returns every connected client, in connection-accept order, per
// spec.md §5's broadcast-ordering guarantee.
func (t *Table) All() []*Client {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Client, 0, len(t.order))
	for _, id := range t.order {
		if c := t.byID[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Len reports the number of connected clients.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}
