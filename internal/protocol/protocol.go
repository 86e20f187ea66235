// Package protocol defines the wire request/response envelopes and
// bodies exchanged between the server and its clients, per spec.md §6.1,
// and their codec encoding/decoding.
package protocol

import (
	"fmt"

	"github.com/ste616/atca-training-sub001/internal/codec"
	"github.com/ste616/atca-training-sub001/internal/errs"
	"github.com/ste616/atca-training-sub001/internal/options"
)

// RequestType enumerates the request codes of spec.md §6.1's table.
type RequestType int

const (
	RequestCurrentSpectrum RequestType = 1
	RequestCurrentVisdata  RequestType = 2
	RequestComputeVisdata  RequestType = 3
	RequestComputedVisdata RequestType = 4
	RequestServertype      RequestType = 6
	RequestSpectrumMJD     RequestType = 7
	RequestTimerange       RequestType = 10
	RequestCycleTimes      RequestType = 11
	RequestSupplyUsername  RequestType = 12
	RequestACAL            RequestType = 13
)

// ResponseType enumerates the response codes: requests mirrored back,
// plus the asynchronous and broadcast-only kinds of spec.md §6.1.
type ResponseType int

const (
	ResponseCurrentSpectrum ResponseType = 1
	ResponseCurrentVisdata  ResponseType = 2
	ResponseComputedVisdata ResponseType = 4
	ResponseServertype      ResponseType = 6
	ResponseSpectrumMJD     ResponseType = 7
	ResponseTimerange       ResponseType = 10
	ResponseCycleTimes      ResponseType = 11
	ResponseSupplyUsername  ResponseType = 12
	ResponseACAL            ResponseType = 13

	ResponseVisdataComputing ResponseType = 100
	ResponseVisdataComputed  ResponseType = 101
	ResponseRequestUsername  ResponseType = 102
	ResponseUsernameExists   ResponseType = 103
	ResponseShutdown         ResponseType = 104
	ResponseACALComputed     ResponseType = 105
)

// ClientType enumerates the client-kind codes the client supplies in its
// identity, per spec.md §4.E's client accounting.
type ClientType int

const (
	ClientTypeUnknown ClientType = 0
	ClientTypeNVIS    ClientType = 1
	ClientTypeNSPD    ClientType = 2
)

// ServerType enumerates spec.md §6.1's SERVERTYPE response values.
type ServerType int

const (
	ServerTypeSimulator  ServerType = 1
	ServerTypeCorrelator ServerType = 2
	ServerTypeTesting    ServerType = 3
)

// idLength is the fixed width of the client ID and username fields.
const idLength = 20

// RequestEnvelope is the common header of every request, per spec.md
// §6.1's "Request envelope".
type RequestEnvelope struct {
	RequestType     RequestType
	ClientID        string
	ClientUsername  string
	ClientType      ClientType
}

// Request bundles the envelope with the fields any request body might
// carry; unused fields are simply zero for a given RequestType.
type Request struct {
	Envelope RequestEnvelope

	ScanNumber int
	Options    *options.OptionsSet
	MJD        float64
	Username   string

	ACALMJDs          []float64
	ACALFluxDensities []float64
}

// ResponseEnvelope is the common header of every response, per spec.md
// §6.1's "Response envelope".
type ResponseEnvelope struct {
	ResponseType ResponseType
	ClientID     string
}

// Response bundles the envelope with the fields any response body might
// carry.
type Response struct {
	Envelope ResponseEnvelope

	ServerType ServerType
	MJD        float64
	MJDMin     float64
	MJDMax     float64
	CycleMJDs  []float64
	Username   string

	// Note: the spectrum/vis-quantities/options-set payloads themselves
	// (CURRENT_SPECTRUM, CURRENT_VISDATA, COMPUTED_VISDATA, ACAL_COMPUTED
	// bodies) are written positionally after the envelope by the caller,
	// using codec.Writer directly, rather than folded into this struct —
	// see EncodeRequest/EncodeResponse below.
}

func fixedString(s string) string {
	if len(s) > idLength {
		return s[:idLength]
	}
	return s
}

// EncodeRequest writes req's envelope and its whole body, including the
// options list of COMPUTE_VISDATA and ACAL and ACAL's MJD and
// flux-density arrays; no request type leaves a further positional
// payload for the caller to write.
func EncodeRequest(w *codec.Writer, req *Request) error {
	if err := w.WriteInt(int64(req.Envelope.RequestType)); err != nil {
		return err
	}
	if err := w.WriteString(fixedString(req.Envelope.ClientID)); err != nil {
		return err
	}
	if err := w.WriteString(fixedString(req.Envelope.ClientUsername)); err != nil {
		return err
	}
	if err := w.WriteInt(int64(req.Envelope.ClientType)); err != nil {
		return err
	}

	switch req.Envelope.RequestType {
	case RequestCurrentSpectrum:
		return w.WriteInt(int64(req.ScanNumber))
	case RequestSpectrumMJD:
		return w.WriteDouble(req.MJD)
	case RequestSupplyUsername:
		return w.WriteString(req.Username)
	case RequestComputeVisdata:
		return encodeOptionsList(w, req.Options)
	case RequestACAL:
		if err := encodeOptionsList(w, req.Options); err != nil {
			return err
		}
		if err := w.WriteFloat64Array(req.ACALMJDs); err != nil {
			return err
		}
		return w.WriteFloat64Array(req.ACALFluxDensities)
	default:
		// CURRENT_VISDATA, COMPUTED_VISDATA, SERVERTYPE, TIMERANGE,
		// CYCLE_TIMES carry no body.
		return nil
	}
}

// encodeOptionsList writes spec.md §6.1's "n_options:int, options_set[n]"
// shape. A nil set's list encodes as n_options = 0, which per spec.md
// §6.1 means "reuse my last-sent options".
func encodeOptionsList(w *codec.Writer, o *options.OptionsSet) error {
	if o == nil {
		return w.WriteInt(0)
	}
	if err := w.WriteInt(1); err != nil {
		return err
	}
	return w.WriteOptionsSet(o)
}

// DecodeRequest reads a request envelope and its fixed body fields.
func DecodeRequest(r *codec.Reader) (*Request, error) {
	req := &Request{}
	rt, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	req.Envelope.RequestType = RequestType(rt)
	if req.Envelope.ClientID, err = r.ReadString(); err != nil {
		return nil, err
	}
	if req.Envelope.ClientUsername, err = r.ReadString(); err != nil {
		return nil, err
	}
	ct, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	req.Envelope.ClientType = ClientType(ct)

	switch req.Envelope.RequestType {
	case RequestCurrentSpectrum:
		n, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		req.ScanNumber = int(n)
	case RequestSpectrumMJD:
		if req.MJD, err = r.ReadDouble(); err != nil {
			return nil, err
		}
	case RequestSupplyUsername:
		if req.Username, err = r.ReadString(); err != nil {
			return nil, err
		}
	case RequestComputeVisdata:
		if req.Options, err = decodeOptionsList(r); err != nil {
			return nil, err
		}
	case RequestACAL:
		if req.Options, err = decodeOptionsList(r); err != nil {
			return nil, err
		}
		if req.ACALMJDs, err = r.ReadFloat64Array(-1); err != nil {
			return nil, err
		}
		if req.ACALFluxDensities, err = r.ReadFloat64Array(-1); err != nil {
			return nil, err
		}
	case RequestCurrentVisdata, RequestComputedVisdata, RequestServertype,
		RequestTimerange, RequestCycleTimes:
		// No body.
	default:
		return nil, fmt.Errorf("unknown request type %d: %w", rt, errs.ErrDecodeValue)
	}
	return req, nil
}

func decodeOptionsList(r *codec.Reader) (*options.OptionsSet, error) {
	n, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return r.ReadOptionsSet()
}

// EncodeResponse writes resp's envelope and fixed body fields. As with
// EncodeRequest, the spectrum/vis-quantities/options-set payload for
// response types that carry one is written positionally by the caller
// immediately afterwards, via the same codec.Writer.
func EncodeResponse(w *codec.Writer, resp *Response) error {
	if err := w.WriteInt(int64(resp.Envelope.ResponseType)); err != nil {
		return err
	}
	if err := w.WriteString(fixedString(resp.Envelope.ClientID)); err != nil {
		return err
	}

	switch resp.Envelope.ResponseType {
	case ResponseServertype:
		return w.WriteInt(int64(resp.ServerType))
	case ResponseSpectrumMJD:
		return w.WriteDouble(resp.MJD)
	case ResponseTimerange:
		if err := w.WriteDouble(resp.MJDMin); err != nil {
			return err
		}
		return w.WriteDouble(resp.MJDMax)
	case ResponseCycleTimes:
		return w.WriteFloat64Array(resp.CycleMJDs)
	case ResponseRequestUsername, ResponseUsernameExists:
		return w.WriteString(resp.Username)
	default:
		// CURRENT_SPECTRUM, CURRENT_VISDATA, COMPUTED_VISDATA, ACAL,
		// VISDATA_COMPUTING, VISDATA_COMPUTED, SHUTDOWN, ACAL_COMPUTED
		// carry no fixed body beyond the envelope (or a positional
		// payload the caller writes separately).
		return nil
	}
}

// DecodeResponse reads a response envelope and its fixed body fields.
func DecodeResponse(r *codec.Reader) (*Response, error) {
	resp := &Response{}
	rt, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	resp.Envelope.ResponseType = ResponseType(rt)
	if resp.Envelope.ClientID, err = r.ReadString(); err != nil {
		return nil, err
	}

	switch resp.Envelope.ResponseType {
	case ResponseServertype:
		st, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		resp.ServerType = ServerType(st)
	case ResponseSpectrumMJD:
		if resp.MJD, err = r.ReadDouble(); err != nil {
			return nil, err
		}
	case ResponseTimerange:
		if resp.MJDMin, err = r.ReadDouble(); err != nil {
			return nil, err
		}
		if resp.MJDMax, err = r.ReadDouble(); err != nil {
			return nil, err
		}
	case ResponseCycleTimes:
		if resp.CycleMJDs, err = r.ReadFloat64Array(-1); err != nil {
			return nil, err
		}
	case ResponseRequestUsername, ResponseUsernameExists:
		if resp.Username, err = r.ReadString(); err != nil {
			return nil, err
		}
	case ResponseCurrentSpectrum, ResponseCurrentVisdata, ResponseComputedVisdata,
		ResponseACAL, ResponseVisdataComputing, ResponseVisdataComputed,
		ResponseShutdown, ResponseACALComputed:
		// No fixed body.
	default:
		return nil, fmt.Errorf("unknown response type %d: %w", rt, errs.ErrDecodeValue)
	}
	return resp, nil
}
