package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/muralops/payout-console/internal/app"
	"github.com/muralops/payout-console/internal/domain"
	"github.com/muralops/payout-console/pkg/muralclient"
)

// muralStub implements app.MuralAPI with overridable behavior per method.
type muralStub struct {
	app.MuralAPI
	createAccountFn func(ctx context.Context, name string) (*domain.Account, error)
	getAccountsFn   func(ctx context.Context) ([]domain.Account, error)
	createPayoutFn  func(ctx context.Context, payload domain.CreatePayoutPayload) (*domain.PayoutRequest, error)
	executeFn       func(ctx context.Context, id, sourceAccountID string) (*domain.PayoutRequest, error)
	getPayoutFn     func(ctx context.Context, id string) (*domain.PayoutRequest, error)
}

func (s *muralStub) CreateAccount(ctx context.Context, name string) (*domain.Account, error) {
	return s.createAccountFn(ctx, name)
}

func (s *muralStub) GetAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.getAccountsFn(ctx)
}

func (s *muralStub) CreatePayoutRequest(ctx context.Context, payload domain.CreatePayoutPayload) (*domain.PayoutRequest, error) {
	return s.createPayoutFn(ctx, payload)
}

func (s *muralStub) ExecutePayoutRequest(ctx context.Context, id, sourceAccountID string) (*domain.PayoutRequest, error) {
	return s.executeFn(ctx, id, sourceAccountID)
}

func (s *muralStub) GetPayoutRequest(ctx context.Context, id string) (*domain.PayoutRequest, error) {
	return s.getPayoutFn(ctx, id)
}

func newTestServer(t *testing.T, stub *muralStub) (*httptest.Server, *app.SessionManager) {
	t.Helper()
	sessions := app.NewSessionManager(stub, nil, nil, time.Hour)
	handlers := NewConsoleHandlers(sessions)
	server := httptest.NewServer(ConsoleRoutes(handlers, sessions, nil))
	t.Cleanup(server.Close)
	return server, sessions
}

func openSession(t *testing.T, server *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(server.URL+"/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 opening session, got %d", resp.StatusCode)
	}

	var body struct {
		SessionID string   `json:"session_id"`
		View      app.View `json:"view"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode session response: %v", err)
	}
	if body.View != app.ViewCreateAccount {
		t.Fatalf("new session must start on the account creation view, got %q", body.View)
	}
	return body.SessionID
}

func doRequest(t *testing.T, server *httptest.Server, method, path, sessionID string, body interface{}) *http.Response {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestSessionMiddlewareRejectsUnauthenticatedRequests(t *testing.T) {
	server, _ := newTestServer(t, &muralStub{})

	cases := []struct {
		name      string
		sessionID string
	}{
		{name: "missing header", sessionID: ""},
		{name: "malformed id", sessionID: "not-a-uuid"},
		{name: "unknown session", sessionID: "9b4f5f64-5717-4562-b3fc-2c963f66afa6"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, server, http.MethodGet, "/view", tc.sessionID, nil)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestCreateAccountMovesSessionToWelcome(t *testing.T) {
	stub := &muralStub{
		createAccountFn: func(ctx context.Context, name string) (*domain.Account, error) {
			return &domain.Account{ID: "acc-1", Name: name, Status: domain.AccountStatusCreated}, nil
		},
		getAccountsFn: func(ctx context.Context) ([]domain.Account, error) {
			return []domain.Account{{ID: "acc-1", Name: "Treasury"}}, nil
		},
	}
	server, _ := newTestServer(t, stub)
	sessionID := openSession(t, server)

	resp := doRequest(t, server, http.MethodPost, "/accounts", sessionID, domain.CreateAccountRequest{Name: "Treasury"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	viewResp := doRequest(t, server, http.MethodGet, "/view", sessionID, nil)
	defer viewResp.Body.Close()
	var view viewResponse
	if err := json.NewDecoder(viewResp.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view response: %v", err)
	}
	if view.View != app.ViewWelcome {
		t.Fatalf("expected welcome view after account creation, got %q", view.View)
	}
}

func TestCreateAccountRejectsEmptyName(t *testing.T) {
	server, _ := newTestServer(t, &muralStub{})
	sessionID := openSession(t, server)

	resp := doRequest(t, server, http.MethodPost, "/accounts", sessionID, domain.CreateAccountRequest{Name: "   "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateBlockchainPayoutHappyPath(t *testing.T) {
	var captured domain.CreatePayoutPayload
	stub := &muralStub{
		createAccountFn: func(ctx context.Context, name string) (*domain.Account, error) {
			return &domain.Account{ID: "acc-1", Name: name}, nil
		},
		getAccountsFn: func(ctx context.Context) ([]domain.Account, error) {
			return []domain.Account{{ID: "acc-1", Name: "Treasury"}}, nil
		},
		createPayoutFn: func(ctx context.Context, payload domain.CreatePayoutPayload) (*domain.PayoutRequest, error) {
			captured = payload
			return &domain.PayoutRequest{ID: "pr-1", SourceAccountID: payload.SourceAccountID, Status: domain.PayoutStatusAwaitingExecution}, nil
		},
	}
	server, _ := newTestServer(t, stub)
	sessionID := openSession(t, server)

	createResp := doRequest(t, server, http.MethodPost, "/accounts", sessionID, domain.CreateAccountRequest{Name: "Treasury"})
	createResp.Body.Close()

	resp := doRequest(t, server, http.MethodPost, "/payouts/blockchain", sessionID, createPayoutRequest{
		Amount:        "250.5",
		Currency:      "USDC",
		RecipientType: domain.RecipientTypeIndividual,
		Fields: app.PayoutFormFields{
			FirstName:     "Javier",
			LastName:      "Gomez",
			Email:         "javier@example.com",
			WalletAddress: "0xabc",
			Blockchain:    "POLYGON",
		},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	if captured.SourceAccountID != "acc-1" {
		t.Fatalf("payload must draw from the selected account, got %q", captured.SourceAccountID)
	}
	if len(captured.Payouts) != 1 {
		t.Fatalf("expected one payout line item, got %d", len(captured.Payouts))
	}
	details := captured.Payouts[0].PayoutDetails
	if details.Type != domain.PayoutTypeBlockchain || details.Blockchain != "polygon" || details.WalletAddress != "0xabc" {
		t.Fatalf("unexpected payout details: %+v", details)
	}

	viewResp := doRequest(t, server, http.MethodGet, "/view", sessionID, nil)
	defer viewResp.Body.Close()
	var view viewResponse
	if err := json.NewDecoder(viewResp.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view response: %v", err)
	}
	if view.View != app.ViewPayout {
		t.Fatalf("expected payout view after creation, got %q", view.View)
	}
}

func TestCreatePayoutValidationStatuses(t *testing.T) {
	stub := &muralStub{
		createAccountFn: func(ctx context.Context, name string) (*domain.Account, error) {
			return &domain.Account{ID: "acc-1", Name: name}, nil
		},
		getAccountsFn: func(ctx context.Context) ([]domain.Account, error) {
			return []domain.Account{{ID: "acc-1", Name: "Treasury"}}, nil
		},
	}
	server, _ := newTestServer(t, stub)
	sessionID := openSession(t, server)

	// No account selected yet: the manager must refuse before any transport.
	resp := doRequest(t, server, http.MethodPost, "/payouts/blockchain", sessionID, createPayoutRequest{
		Amount: "100",
		Fields: app.PayoutFormFields{WalletAddress: "0xabc", Blockchain: "ethereum"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 without a selected account, got %d", resp.StatusCode)
	}

	createResp := doRequest(t, server, http.MethodPost, "/accounts", sessionID, domain.CreateAccountRequest{Name: "Treasury"})
	createResp.Body.Close()

	resp = doRequest(t, server, http.MethodPost, "/payouts/blockchain", sessionID, createPayoutRequest{
		Amount: "-5",
		Fields: app.PayoutFormFields{WalletAddress: "0xabc", Blockchain: "ethereum"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid amount, got %d", resp.StatusCode)
	}

	resp = doRequest(t, server, http.MethodPost, "/payouts/blockchain", sessionID, createPayoutRequest{
		Amount: "100",
		Fields: app.PayoutFormFields{WalletAddress: "0xabc", Blockchain: "dogechain"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported blockchain, got %d", resp.StatusCode)
	}
}

func TestExecutePayoutWithoutRetainedPayout(t *testing.T) {
	server, _ := newTestServer(t, &muralStub{})
	sessionID := openSession(t, server)

	resp := doRequest(t, server, http.MethodPost, "/payouts/execute", sessionID, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	stub := &muralStub{
		getAccountsFn: func(ctx context.Context) ([]domain.Account, error) {
			return nil, &muralclient.APIError{Method: http.MethodGet, Path: "/api/accounts", StatusCode: http.StatusInternalServerError, Body: "boom"}
		},
	}
	server, _ := newTestServer(t, stub)
	sessionID := openSession(t, server)

	resp := doRequest(t, server, http.MethodGet, "/accounts", sessionID, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestGetPayoutNotFoundMapsTo404(t *testing.T) {
	stub := &muralStub{
		getPayoutFn: func(ctx context.Context, id string) (*domain.PayoutRequest, error) {
			return nil, &muralclient.APIError{Method: http.MethodGet, Path: "/api/payouts/payout/" + id, StatusCode: http.StatusNotFound, Body: "not found"}
		},
	}
	server, _ := newTestServer(t, stub)
	sessionID := openSession(t, server)

	resp := doRequest(t, server, http.MethodGet, "/payouts/missing-id", sessionID, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestNavigateToFiatViewReturnsSeededDefaults(t *testing.T) {
	server, _ := newTestServer(t, &muralStub{})
	sessionID := openSession(t, server)

	resp := doRequest(t, server, http.MethodPost, "/view", sessionID, map[string]app.View{"view": app.ViewCreateFiatPayout})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var view viewResponse
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode view response: %v", err)
	}
	if view.View != app.ViewCreateFiatPayout {
		t.Fatalf("expected fiat view, got %q", view.View)
	}
	if view.Defaults == nil {
		t.Fatal("fiat view must come back with seeded form defaults")
	}
	if view.Defaults.Amount == "" || view.Defaults.Memo == "" {
		t.Fatalf("seeded defaults must include amount and memo: %+v", view.Defaults)
	}
}

func TestNavigateRejectsUnknownView(t *testing.T) {
	server, _ := newTestServer(t, &muralStub{})
	sessionID := openSession(t, server)

	resp := doRequest(t, server, http.MethodPost, "/view", sessionID, map[string]string{"view": "SETTINGS"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown view, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t, &muralStub{})

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
