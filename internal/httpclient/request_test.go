package httpclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fd1az/melwalletd-client/internal/httpclient"
)

func TestRequest_SendsRawBodyAndMethod(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`"ok"`))
	}))
	defer srv.Close()

	client, err := httpclient.NewInstrumentedClient(httpclient.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := client.NewRequest().
		SetBody([]byte(`{"value":9007199254740993}`)).
		Send(context.Background(), http.MethodPut, "/wallets/a%2Fb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", gotMethod)
	}
	if gotPath != "/wallets/a%2Fb" {
		t.Errorf("expected escaped path preserved, got %s", gotPath)
	}
	if gotBody != `{"value":9007199254740993}` {
		t.Errorf("body altered: %s", gotBody)
	}
	if resp.String() != `"ok"` || !resp.IsSuccess() {
		t.Errorf("unexpected response %d %s", resp.StatusCode, resp.String())
	}
}

func TestRequest_ErrorHandlerSeesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("wallet is locked"))
	}))
	defer srv.Close()

	client, err := httpclient.NewInstrumentedClient(httpclient.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sentinel := errors.New("status")
	var seenStatus int
	var seenBody string
	req := client.NewRequestWithOptions(httpclient.WithResponseErrorHandler(func(status int, body []byte) error {
		seenStatus, seenBody = status, string(body)
		if status >= 300 {
			return sentinel
		}
		return nil
	}))

	_, err = req.Get(context.Background(), "/wallets")
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if seenStatus != http.StatusForbidden || seenBody != "wallet is locked" {
		t.Errorf("handler saw %d %q", seenStatus, seenBody)
	}
}

func TestRequest_ConnectionRefusedIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := httpclient.NewInstrumentedClient(httpclient.WithBaseURL(url))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.NewRequest().Get(context.Background(), "/summary")
	var te *httpclient.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
}
