package muralclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/muralops/payout-console/internal/domain"
)

func TestClientAttachesStandardHeaders(t *testing.T) {
	var got http.Header
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "primary-key", "transfer-key")
	if _, err := client.GetAccounts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/accounts" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if got.Get("Authorization") != "Bearer primary-key" {
		t.Fatalf("expected bearer auth, got %q", got.Get("Authorization"))
	}
	if got.Get("Content-Type") != "application/json" || got.Get("Accept") != "application/json" {
		t.Fatalf("missing json headers: %v", got)
	}
	if got.Get("transfer-api-key") != "" {
		t.Fatal("transfer key must not be sent on ordinary calls")
	}
	if got.Get("on-behalf-of") != "" {
		t.Fatal("on-behalf-of must not be sent on ordinary calls")
	}
}

func TestClientExecuteUsesElevatedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/payouts/payout/p1/execute" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("transfer-api-key") != "transfer-key" {
			t.Fatal("execute must carry the transfer api key")
		}
		if r.Header.Get("on-behalf-of") != "a1" {
			t.Fatalf("execute must act on behalf of the source account, got %q", r.Header.Get("on-behalf-of"))
		}
		w.Write([]byte(`{"id":"p1","status":"EXECUTED"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "primary-key", "transfer-key")
	executed, err := client.ExecutePayoutRequest(context.Background(), "p1", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if executed.Status != domain.PayoutStatusExecuted {
		t.Fatalf("expected EXECUTED, got %q", executed.Status)
	}
}

func TestClientOmitsEmptyTransferKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Transfer-Api-Key"]; ok {
			t.Fatal("empty transfer key must not produce a header")
		}
		w.Write([]byte(`{"id":"p1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "primary-key", "")
	if _, err := client.ExecutePayoutRequest(context.Background(), "p1", "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"server exploded"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "primary-key", "")
	_, err := client.GetPayoutRequest(context.Background(), "p1")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", apiErr.StatusCode)
	}
	if apiErr.Method != http.MethodGet || apiErr.Path != "/api/payouts/payout/p1" {
		t.Fatalf("error must carry method and path, got %s %s", apiErr.Method, apiErr.Path)
	}
	if apiErr.Body == "" {
		t.Fatal("error must carry the raw response body")
	}
}

func TestClientCancelIgnoresEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/payouts/payout/p1/cancel" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "primary-key", "")
	if err := client.CancelPayoutRequest(context.Background(), "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type recordingObserver struct {
	method string
	path   string
	status int
	count  int
}

func (o *recordingObserver) ObserveUpstreamRequest(method, path string, status int, d time.Duration) {
	o.method, o.path, o.status = method, path, status
	o.count++
}

func TestClientReportsObservations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`bad`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client := NewClient(server.URL, "primary-key", "")
	client.SetObserver(observer)

	if _, err := client.GetAccounts(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if observer.count != 1 || observer.status != http.StatusBadRequest || observer.method != http.MethodGet {
		t.Fatalf("unexpected observation: %+v", observer)
	}
}
