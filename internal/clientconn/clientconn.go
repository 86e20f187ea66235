// Package clientconn implements the external client's half of spec.md
// §6.1's wire protocol and §5's "Client" concurrency model: a stdin
// command loop multiplexed with a server socket, one blocking round
// trip per command (the teacher's apps/proxy connects client and server
// sockets directly; this client instead terminates the protocol
// itself, since it has no downstream peer to relay to).
package clientconn

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/ste616/atca-training-sub001/internal/codec"
	"github.com/ste616/atca-training-sub001/internal/protocol"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newClientID() string {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to
		// a fixed placeholder rather than panicking the client.
		return "00000000000000000000"
	}
	for i := range b {
		b[i] = idAlphabet[int(b[i])%len(idAlphabet)]
	}
	return string(b)
}

// Conn is one client's connection to the server.
type Conn struct {
	conn     net.Conn
	clientID string
	username string
}

// Dial connects to host:port and returns a Conn identified by a fresh
// 20-character client ID, per spec.md §4.E's "client ID (20-char random
// string, generated by the client)".
func Dial(host string, port int, username string) (*Conn, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	return &Conn{conn: conn, clientID: newClientID(), username: username}, nil
}

// Close closes the underlying socket.
func (c *Conn) Close() error { return c.conn.Close() }

// ClientID returns this connection's client ID.
func (c *Conn) ClientID() string { return c.clientID }

func (c *Conn) envelope(rt protocol.RequestType) protocol.RequestEnvelope {
	return protocol.RequestEnvelope{
		RequestType:    rt,
		ClientID:       c.clientID,
		ClientUsername: c.username,
		ClientType:     protocol.ClientTypeNVIS,
	}
}

// roundTrip sends req and returns the decoded response envelope plus
// whatever trailing bytes followed it in the frame, for the caller to
// decode further if the response type carries a positional payload.
func (c *Conn) roundTrip(req *protocol.Request) (*protocol.Response, *codec.Reader, error) {
	bt := codec.NewBufferTransport(nil)
	w := codec.NewWriter(bt)
	if err := protocol.EncodeRequest(w, req); err != nil {
		return nil, nil, err
	}
	if err := codec.WriteFrameChecked(c.conn, bt.Bytes()); err != nil {
		return nil, nil, err
	}

	frame, err := codec.ReadFrameChecked(c.conn)
	if err != nil {
		return nil, nil, err
	}
	r := codec.NewReader(codec.NewBufferTransport(frame))
	resp, err := protocol.DecodeResponse(r)
	if err != nil {
		return nil, nil, err
	}
	return resp, r, nil
}

// CommandLoop reads newline-delimited commands from in and prints
// responses to out until "quit" or EOF, per spec.md §5's "commands that
// require a server round trip ... send a request and continue waiting
// for the response" (collapsed here to a direct blocking call per
// command, since this client has no other I/O to interleave).
func (c *Conn) CommandLoop(in io.Reader, out io.Writer) {
	fmt.Fprintln(out, "client> (commands: servertype, timerange, cycletimes, compute, username <name>, quit)")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "quit":
			return
		case "servertype":
			c.doServertype(out)
		case "timerange":
			c.doTimerange(out)
		case "cycletimes":
			c.doCycleTimes(out)
		case "compute":
			c.doCompute(out)
		case "username":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: username <name>")
				continue
			}
			c.doUsername(out, fields[1])
		default:
			fmt.Fprintln(out, "unrecognised command")
		}
	}
}

func (c *Conn) doServertype(out io.Writer) {
	req := &protocol.Request{Envelope: c.envelope(protocol.RequestServertype)}
	resp, _, err := c.roundTrip(req)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "server type: %d\n", resp.ServerType)
}

func (c *Conn) doTimerange(out io.Writer) {
	req := &protocol.Request{Envelope: c.envelope(protocol.RequestTimerange)}
	resp, _, err := c.roundTrip(req)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "mjd range: [%.6f, %.6f]\n", resp.MJDMin, resp.MJDMax)
}

func (c *Conn) doCycleTimes(out io.Writer) {
	req := &protocol.Request{Envelope: c.envelope(protocol.RequestCycleTimes)}
	resp, _, err := c.roundTrip(req)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "%d cycles\n", len(resp.CycleMJDs))
}

func (c *Conn) doCompute(out io.Writer) {
	req := &protocol.Request{Envelope: c.envelope(protocol.RequestComputeVisdata)}
	resp, _, err := c.roundTrip(req)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "response: %d\n", resp.Envelope.ResponseType)
}

func (c *Conn) doUsername(out io.Writer, name string) {
	c.username = name
	req := &protocol.Request{Envelope: c.envelope(protocol.RequestSupplyUsername), Username: name}
	resp, _, err := c.roundTrip(req)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "response: %d\n", resp.Envelope.ResponseType)
}
