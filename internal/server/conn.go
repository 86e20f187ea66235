package server

import (
	"fmt"
	"net"

	"github.com/ste616/atca-training-sub001/internal/codec"
	"github.com/ste616/atca-training-sub001/internal/protocol"
	"github.com/ste616/atca-training-sub001/internal/session"
)

// handleConn owns one accepted connection for its lifetime: a read loop
// decoding requests and dispatching them, plus a writer goroutine
// draining the client's outbox whenever Enqueue wakes it. Two
// goroutines per connection, following the teacher's handleMessages
// splitting client-bound and server-bound traffic into
// handleClientMessages/handleServerMessages.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	var client *session.Client
	writerDone := make(chan struct{})

	defer func() {
		if client != nil {
			s.clients.Remove(client.ID)
			s.connsMu.Lock()
			delete(s.conns, client.ID)
			s.connsMu.Unlock()
			close(client.Notify)
			<-writerDone
			s.eventf("[-] client %s disconnected\n", client.ID)
		}
	}()

	for {
		frame, err := codec.ReadFrameChecked(conn)
		if err != nil {
			return
		}
		fmt.Fprintf(s.wireLog, "%s\n", frame)

		req, err := protocol.DecodeRequest(codec.NewReader(codec.NewBufferTransport(frame)))
		if err != nil {
			s.eventf("decode request failed: %v\n", err)
			continue
		}

		if client == nil {
			client = &session.Client{
				ID:       session.ID(req.Envelope.ClientID),
				Username: req.Envelope.ClientUsername,
				Type:     req.Envelope.ClientType,
				Notify:   make(chan struct{}, 1),
			}
			s.clients.Add(client)
			s.connsMu.Lock()
			s.conns[client.ID] = conn
			s.connsMu.Unlock()
			s.eventf("[+] client %s (%s) accepted\n", client.ID, client.Username)
			go s.writeLoop(client, conn, writerDone)
		} else if req.Envelope.ClientUsername != "" {
			client.Username = req.Envelope.ClientUsername
		}

		s.handleRequest(client, req)
	}
}

// writeLoop drains client's outbox onto conn whenever Notify fires,
// until Notify is closed by handleConn on disconnect.
func (s *Server) writeLoop(client *session.Client, conn net.Conn, done chan struct{}) {
	defer close(done)
	for range client.Notify {
		for {
			payload, ok := client.Dequeue()
			if !ok {
				break
			}
			if err := codec.WriteFrameChecked(conn, payload); err != nil {
				return
			}
		}
	}
	// Notify was closed: drain whatever is left, best effort.
	for {
		payload, ok := client.Dequeue()
		if !ok {
			return
		}
		if err := codec.WriteFrameChecked(conn, payload); err != nil {
			return
		}
	}
}

// sendResponse encodes resp and enqueues it on client's outbox.
func (s *Server) sendResponse(client *session.Client, resp *protocol.Response) {
	s.sendResponseWithPayload(client, resp, nil)
}

// sendResponseWithPayload encodes resp followed by whatever payload
// writes, as one frame, for the response types that carry a positional
// trailing payload (spec.md §6.1; see protocol.Response's doc comment).
func (s *Server) sendResponseWithPayload(client *session.Client, resp *protocol.Response, payload func(*codec.Writer) error) {
	bt := codec.NewBufferTransport(nil)
	w := codec.NewWriter(bt)
	if err := protocol.EncodeResponse(w, resp); err != nil {
		s.eventf("encoding response to %s: %v\n", client.ID, err)
		return
	}
	if payload != nil {
		if err := payload(w); err != nil {
			s.eventf("encoding response payload to %s: %v\n", client.ID, err)
			return
		}
	}
	client.Enqueue(bt.Bytes())
}
