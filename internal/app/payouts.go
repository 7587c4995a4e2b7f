/**
 * @description
 * This file contains the payout state manager. It retains the in-progress
 * form selections, drives payload construction, and tracks a payout request
 * through its creation → execution lifecycle.
 *
 * Key features:
 * - Execution state machine: idle → executing → {success | error}. The
 *   transition to executing happens before the network call resolves so a
 *   second submission is rejected while one is in flight.
 * - The retained payout request is always the server's latest representation;
 *   a failed execution keeps the previous one intact.
 * - Resetting the form clears the retained selections but not the last
 *   response or execution status, so results stay viewable.
 *
 * @dependencies
 * - context, log, sync: Standard Go libraries.
 * - internal/domain: Payout models and statuses.
 */

package app

import (
	"context"
	"log"
	"sync"

	"github.com/muralops/payout-console/internal/domain"
)

// ExecutionState is the local execution lifecycle of the retained payout.
type ExecutionState string

const (
	ExecutionIdle      ExecutionState = "idle"
	ExecutionExecuting ExecutionState = "executing"
	ExecutionSuccess   ExecutionState = "success"
	ExecutionError     ExecutionState = "error"
)

// PayoutState is a point-in-time copy of the manager's state for rendering.
type PayoutState struct {
	Form            PayoutForm            `json:"form"`
	Response        *domain.PayoutRequest `json:"response,omitempty"`
	ExecutionStatus ExecutionState        `json:"executionStatus"`
	LastError       string                `json:"lastError,omitempty"`
}

// PayoutManager holds one session's payout form and lifecycle state. All
// mutation happens under the mutex; network calls run unlocked so a slow
// upstream never blocks state reads.
type PayoutManager struct {
	mu      sync.Mutex
	client  MuralAPI
	metrics PayoutMetrics

	form      PayoutForm
	response  *domain.PayoutRequest
	execState ExecutionState
	lastError string
}

// NewPayoutManager creates a payout manager with the form's initial
// selections. metrics may be nil.
func NewPayoutManager(client MuralAPI, metrics PayoutMetrics) *PayoutManager {
	return &PayoutManager{
		client:    client,
		metrics:   metrics,
		form:      defaultPayoutForm(),
		execState: ExecutionIdle,
	}
}

func defaultPayoutForm() PayoutForm {
	return PayoutForm{
		Currency:      "USDC",
		RecipientType: domain.RecipientTypeIndividual,
	}
}

// UpdateForm replaces the retained selections. Empty currency and recipient
// type fall back to the form defaults.
func (m *PayoutManager) UpdateForm(form PayoutForm) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if form.Currency == "" {
		form.Currency = "USDC"
	}
	if form.RecipientType == "" {
		form.RecipientType = domain.RecipientTypeIndividual
	}
	m.form = form
}

// ResetForm restores the form selections to their defaults. The retained
// response and execution status survive so a user can navigate back to view
// results.
func (m *PayoutManager) ResetForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form = defaultPayoutForm()
	m.lastError = ""
}

// SeedDefaults overwrites the amount and memo selections, used when the
// console seeds the example fiat payout.
func (m *PayoutManager) SeedDefaults(amount, memo string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.Amount = amount
	m.form.Memo = memo
}

// State returns a copy of the current payout state.
func (m *PayoutManager) State() PayoutState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return PayoutState{
		Form:            m.form,
		Response:        m.response,
		ExecutionStatus: m.execState,
		LastError:       m.lastError,
	}
}

// Create builds the creation payload from the retained selections and the raw
// form fields, submits it, and retains the server's response. Validation
// failures never reach the transport.
func (m *PayoutManager) Create(ctx context.Context, sourceAccountID string, fields PayoutFormFields, flow PayoutFlow) (*domain.PayoutRequest, error) {
	m.mu.Lock()
	if sourceAccountID == "" {
		m.lastError = ErrAccountNotSelected.Error()
		m.mu.Unlock()
		return nil, ErrAccountNotSelected
	}
	form := m.form
	m.lastError = ""
	m.mu.Unlock()

	payload, err := BuildPayoutPayload(sourceAccountID, form, fields, flow)
	if err != nil {
		m.setError(err)
		return nil, err
	}

	payout, err := m.client.CreatePayoutRequest(ctx, payload)
	if err != nil {
		m.setError(err)
		m.recordFailure()
		return nil, err
	}

	m.mu.Lock()
	m.response = payout
	m.execState = ExecutionIdle
	m.lastError = ""
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordPayoutCreated()
	}
	log.Printf("level=info component=payouts msg=\"payout request created\" payout_id=%s status=%s source_account=%s", payout.ID, payout.Status, payout.SourceAccountID)
	return payout, nil
}

// executable reports whether a payout request in the given status may be
// executed. The API labels fresh requests AWAITING_EXECUTION but has also
// reported PENDING; both mean not-yet-executed.
func executable(status string) bool {
	return status == domain.PayoutStatusAwaitingExecution || status == domain.PayoutStatusPending
}

// Execute runs the retained payout request. It is valid only while the
// retained request is awaiting execution; the executing transition happens
// before the network call so duplicate submissions are rejected.
func (m *PayoutManager) Execute(ctx context.Context) (*domain.PayoutRequest, error) {
	m.mu.Lock()
	if m.response == nil {
		m.mu.Unlock()
		return nil, ErrNoPayoutRetained
	}
	if m.execState == ExecutionExecuting {
		m.mu.Unlock()
		return nil, ErrExecutionInProgress
	}
	if !executable(m.response.Status) {
		m.mu.Unlock()
		return nil, ErrPayoutNotExecutable
	}
	id := m.response.ID
	sourceAccountID := m.response.SourceAccountID
	m.execState = ExecutionExecuting
	m.lastError = ""
	m.mu.Unlock()

	executed, err := m.client.ExecutePayoutRequest(ctx, id, sourceAccountID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// The previously fetched payout stays intact on failure.
		m.execState = ExecutionError
		m.lastError = err.Error()
		m.recordFailure()
		log.Printf("level=warn component=payouts msg=\"payout execution failed\" payout_id=%s err=%v", id, err)
		return nil, err
	}

	m.execState = ExecutionSuccess
	m.response = executed
	if m.metrics != nil {
		m.metrics.RecordPayoutExecuted()
	}
	log.Printf("level=info component=payouts msg=\"payout executed\" payout_id=%s status=%s", executed.ID, executed.Status)
	return executed, nil
}

// Cancel cancels the retained payout request and refetches it so local state
// mirrors the server.
func (m *PayoutManager) Cancel(ctx context.Context) (*domain.PayoutRequest, error) {
	m.mu.Lock()
	if m.response == nil {
		m.mu.Unlock()
		return nil, ErrNoPayoutRetained
	}
	id := m.response.ID
	m.mu.Unlock()

	if err := m.client.CancelPayoutRequest(ctx, id); err != nil {
		m.setError(err)
		return nil, err
	}

	refreshed, err := m.client.GetPayoutRequest(ctx, id)
	if err != nil {
		// Cancel succeeded upstream; report the stale copy rather than fail.
		log.Printf("level=warn component=payouts msg=\"refetch after cancel failed\" payout_id=%s err=%v", id, err)
		return m.State().Response, nil
	}

	m.mu.Lock()
	m.response = refreshed
	m.lastError = ""
	m.mu.Unlock()
	return refreshed, nil
}

// Get fetches one payout request by id without touching the retained state.
func (m *PayoutManager) Get(ctx context.Context, id string) (*domain.PayoutRequest, error) {
	return m.client.GetPayoutRequest(ctx, id)
}

// Search lists payout requests matching the filter.
func (m *PayoutManager) Search(ctx context.Context, filter domain.PayoutSearchFilter) ([]domain.PayoutRequest, error) {
	return m.client.SearchPayoutRequests(ctx, filter)
}

func (m *PayoutManager) setError(err error) {
	m.mu.Lock()
	m.lastError = err.Error()
	m.mu.Unlock()
}

func (m *PayoutManager) recordFailure() {
	if m.metrics != nil {
		m.metrics.RecordPayoutFailure()
	}
}
