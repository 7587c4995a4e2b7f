/**
 * @description
 * This file contains the HTTP handlers for the payout console API. Handlers
 * parse incoming requests, call the session's state managers, and write the
 * HTTP response. They act as the bridge between the web layer and the
 * console's business logic.
 *
 * @dependencies
 * - encoding/json, errors, log, net/http, strings: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameters.
 * - internal/app, internal/domain, pkg/muralclient: Console logic, models,
 *   and the upstream error type.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/muralops/payout-console/internal/app"
	"github.com/muralops/payout-console/internal/domain"
	"github.com/muralops/payout-console/pkg/muralclient"
)

// ConsoleHandlers holds the session registry that handlers operate on.
type ConsoleHandlers struct {
	sessions *app.SessionManager
}

// NewConsoleHandlers creates a new instance of ConsoleHandlers.
func NewConsoleHandlers(sessions *app.SessionManager) *ConsoleHandlers {
	return &ConsoleHandlers{sessions: sessions}
}

// sessionResponse is returned when a console session is opened.
type sessionResponse struct {
	SessionID string   `json:"session_id"`
	View      app.View `json:"view"`
}

// viewResponse describes the current view, with seeded form defaults when
// navigation lands on the fiat payout screen.
type viewResponse struct {
	View     app.View              `json:"view"`
	Defaults *app.FiatFormDefaults `json:"defaults,omitempty"`
}

// createPayoutRequest carries the retained selections plus the raw form
// field strings for one payout submission.
type createPayoutRequest struct {
	Amount        string               `json:"amount"`
	Currency      string               `json:"currency"`
	Memo          string               `json:"memo"`
	RecipientType string               `json:"recipientType"`
	Fields        app.PayoutFormFields `json:"fields"`
}

// CreateSessionHandler opens a new console session.
func (h *ConsoleHandlers) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create()
	h.writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: session.ID.String(),
		View:      session.View(),
	})
}

// GetViewHandler returns the session's current view.
func (h *ConsoleHandlers) GetViewHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}
	h.writeJSON(w, http.StatusOK, viewResponse{View: session.View()})
}

// NavigateHandler switches the session to another view, applying the view
// controller's reset semantics.
func (h *ConsoleHandlers) NavigateHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}

	var req struct {
		View app.View `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	defaults, err := session.NavigateTo(req.View)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, viewResponse{View: session.View(), Defaults: defaults})
}

// CreateAccountHandler creates a Mural Pay account and moves the session to
// the welcome view.
func (h *ConsoleHandlers) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}

	var req domain.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.writeError(w, http.StatusBadRequest, "Account name must not be empty")
		return
	}

	account, err := session.Accounts.Create(r.Context(), req.Name)
	if err != nil {
		log.Printf("level=warn component=api endpoint=create_account outcome=failed session_id=%s err=%v", session.ID, err)
		h.writeError(w, upstreamStatus(err), err.Error())
		return
	}

	if _, err := session.NavigateTo(app.ViewWelcome); err != nil {
		log.Printf("level=error component=api endpoint=create_account msg=\"welcome navigation failed\" err=%v", err)
	}
	h.writeJSON(w, http.StatusCreated, account)
}

// ListAccountsHandler refetches the account list and returns the manager's
// state, including selection and loading/error flags.
func (h *ConsoleHandlers) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}

	if _, err := session.Accounts.List(r.Context()); err != nil {
		log.Printf("level=warn component=api endpoint=list_accounts outcome=failed session_id=%s err=%v", session.ID, err)
		h.writeError(w, upstreamStatus(err), err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, session.Accounts.State())
}

// SelectAccountHandler switches the selected account. Unknown ids are
// silently ignored, mirroring the manager's no-op contract.
func (h *ConsoleHandlers) SelectAccountHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}

	var req struct {
		AccountID string `json:"accountId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session.Accounts.Select(req.AccountID)
	h.writeJSON(w, http.StatusOK, session.Accounts.State())
}

// CreateBlockchainPayoutHandler creates a blockchain payout from the form.
func (h *ConsoleHandlers) CreateBlockchainPayoutHandler(w http.ResponseWriter, r *http.Request) {
	h.createPayout(w, r, app.FlowBlockchain, "create_blockchain_payout")
}

// CreateFiatPayoutHandler creates a fiat payout from the form.
func (h *ConsoleHandlers) CreateFiatPayoutHandler(w http.ResponseWriter, r *http.Request) {
	h.createPayout(w, r, app.FlowFiat, "create_fiat_payout")
}

func (h *ConsoleHandlers) createPayout(w http.ResponseWriter, r *http.Request, flow app.PayoutFlow, endpoint string) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}

	var req createPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session.Payouts.UpdateForm(app.PayoutForm{
		Amount:        req.Amount,
		Currency:      req.Currency,
		Memo:          req.Memo,
		RecipientType: req.RecipientType,
	})

	payout, err := session.Payouts.Create(r.Context(), session.Accounts.SelectedID(), req.Fields, flow)
	if err != nil {
		log.Printf("level=warn component=api endpoint=%s outcome=failed session_id=%s err=%v", endpoint, session.ID, err)
		switch {
		case errors.Is(err, app.ErrInvalidAmount),
			errors.Is(err, app.ErrUnsupportedBlockchain):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrAccountNotSelected):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.writeError(w, upstreamStatus(err), err.Error())
		}
		return
	}

	if _, err := session.NavigateTo(app.ViewPayout); err != nil {
		log.Printf("level=error component=api endpoint=%s msg=\"payout view navigation failed\" err=%v", endpoint, err)
	}
	h.writeJSON(w, http.StatusCreated, payout)
}

// GetCurrentPayoutHandler returns the retained payout, its execution status
// and the last error for rendering.
func (h *ConsoleHandlers) GetCurrentPayoutHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}
	h.writeJSON(w, http.StatusOK, session.Payouts.State())
}

// ExecutePayoutHandler executes the retained payout request.
func (h *ConsoleHandlers) ExecutePayoutHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}

	executed, err := session.Payouts.Execute(r.Context())
	if err != nil {
		log.Printf("level=warn component=api endpoint=execute_payout outcome=failed session_id=%s err=%v", session.ID, err)
		switch {
		case errors.Is(err, app.ErrNoPayoutRetained),
			errors.Is(err, app.ErrPayoutNotExecutable),
			errors.Is(err, app.ErrExecutionInProgress):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.writeError(w, upstreamStatus(err), err.Error())
		}
		return
	}
	h.writeJSON(w, http.StatusOK, executed)
}

// CancelPayoutHandler cancels the retained payout request.
func (h *ConsoleHandlers) CancelPayoutHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}

	canceled, err := session.Payouts.Cancel(r.Context())
	if err != nil {
		log.Printf("level=warn component=api endpoint=cancel_payout outcome=failed session_id=%s err=%v", session.ID, err)
		if errors.Is(err, app.ErrNoPayoutRetained) {
			h.writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.writeError(w, upstreamStatus(err), err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, canceled)
}

// SearchPayoutsHandler lists payout requests matching the posted filter.
func (h *ConsoleHandlers) SearchPayoutsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}

	var filter domain.PayoutSearchFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, err := session.Payouts.Search(r.Context(), filter)
	if err != nil {
		log.Printf("level=warn component=api endpoint=search_payouts outcome=failed session_id=%s err=%v", session.ID, err)
		h.writeError(w, upstreamStatus(err), err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}

// GetPayoutHandler fetches one payout request by id.
func (h *ConsoleHandlers) GetPayoutHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get session from context")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "Payout id is required")
		return
	}

	payout, err := session.Payouts.Get(r.Context(), id)
	if err != nil {
		log.Printf("level=warn component=api endpoint=get_payout outcome=failed session_id=%s payout_id=%s err=%v", session.ID, id, err)
		var apiErr *muralclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			h.writeError(w, http.StatusNotFound, "Payout request not found")
			return
		}
		h.writeError(w, upstreamStatus(err), err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, payout)
}

// upstreamStatus maps a transport failure to 502 and anything else to 500.
func upstreamStatus(err error) int {
	var apiErr *muralclient.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeJSON is a helper for writing JSON responses.
func (h *ConsoleHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *ConsoleHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
