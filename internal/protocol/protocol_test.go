package protocol

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ste616/atca-training-sub001/internal/codec"
	"github.com/ste616/atca-training-sub001/internal/options"
)

func TestComputeVisdataRequestRoundTrip(t *testing.T) {
	req := &Request{
		Envelope: RequestEnvelope{
			RequestType:    RequestComputeVisdata,
			ClientID:       "abcdefghijklmnopqrst",
			ClientUsername: "observer",
			ClientType:     ClientTypeNVIS,
		},
		Options: &options.OptionsSet{
			PhaseInDegrees: true,
			IFs: []options.IFOption{
				{CentreFreq: 2100, Bandwidth: 128, NChannels: 2048, AveragingMethod: options.VectorMean},
			},
		},
	}

	buf := codec.NewBufferTransport(nil)
	w := codec.NewWriter(buf)
	if err := EncodeRequest(w, req); err != nil {
		t.Fatal(err)
	}

	rbuf := codec.NewBufferTransport(buf.Bytes())
	r := codec.NewReader(rbuf)
	got, err := DecodeRequest(r)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(req, got); diff != "" {
		t.Errorf("request round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeVisdataRequestWithNilOptionsMeansReuse(t *testing.T) {
	req := &Request{
		Envelope: RequestEnvelope{RequestType: RequestComputeVisdata, ClientID: "id"},
	}

	buf := codec.NewBufferTransport(nil)
	w := codec.NewWriter(buf)
	if err := EncodeRequest(w, req); err != nil {
		t.Fatal(err)
	}

	rbuf := codec.NewBufferTransport(buf.Bytes())
	r := codec.NewReader(rbuf)
	got, err := DecodeRequest(r)
	if err != nil {
		t.Fatal(err)
	}
	if got.Options != nil {
		t.Errorf("expected nil options for n_options=0, got %+v", got.Options)
	}
}

func TestCurrentSpectrumRequestRoundTrip(t *testing.T) {
	req := &Request{
		Envelope:   RequestEnvelope{RequestType: RequestCurrentSpectrum, ClientID: "id", ClientType: ClientTypeNSPD},
		ScanNumber: 7,
	}
	buf := codec.NewBufferTransport(nil)
	w := codec.NewWriter(buf)
	if err := EncodeRequest(w, req); err != nil {
		t.Fatal(err)
	}
	rbuf := codec.NewBufferTransport(buf.Bytes())
	got, err := DecodeRequest(codec.NewReader(rbuf))
	if err != nil {
		t.Fatal(err)
	}
	if got.ScanNumber != 7 {
		t.Errorf("ScanNumber = %d, want 7", got.ScanNumber)
	}
}

func TestTimerangeResponseRoundTrip(t *testing.T) {
	resp := &Response{
		Envelope: ResponseEnvelope{ResponseType: ResponseTimerange, ClientID: "id"},
		MJDMin:   59000,
		MJDMax:   59001.5,
	}
	buf := codec.NewBufferTransport(nil)
	w := codec.NewWriter(buf)
	if err := EncodeResponse(w, resp); err != nil {
		t.Fatal(err)
	}
	rbuf := codec.NewBufferTransport(buf.Bytes())
	got, err := DecodeResponse(codec.NewReader(rbuf))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(resp, got); diff != "" {
		t.Errorf("response round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestVisdataComputingResponseHasNoBody(t *testing.T) {
	resp := &Response{Envelope: ResponseEnvelope{ResponseType: ResponseVisdataComputing, ClientID: "id"}}
	buf := codec.NewBufferTransport(nil)
	w := codec.NewWriter(buf)
	if err := EncodeResponse(w, resp); err != nil {
		t.Fatal(err)
	}
	rbuf := codec.NewBufferTransport(buf.Bytes())
	got, err := DecodeResponse(codec.NewReader(rbuf))
	if err != nil {
		t.Fatal(err)
	}
	if got.Envelope.ResponseType != ResponseVisdataComputing {
		t.Errorf("ResponseType = %v, want ResponseVisdataComputing", got.Envelope.ResponseType)
	}
}
