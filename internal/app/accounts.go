/**
 * @description
 * This file contains the account state manager. It fetches and creates Mural
 * Pay accounts and tracks which one the session is acting as, alongside the
 * loading flag and last error message the console renders.
 *
 * @dependencies
 * - context, log, strings, sync: Standard Go libraries.
 * - internal/domain: Account models.
 */

package app

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/muralops/payout-console/internal/domain"
)

// AccountState is a point-in-time copy of the manager's state for rendering.
type AccountState struct {
	Accounts        []domain.Account `json:"accounts"`
	SelectedAccount *domain.Account  `json:"selectedAccount,omitempty"`
	Loading         bool             `json:"loading"`
	LastError       string           `json:"lastError,omitempty"`
}

// AccountManager holds one session's account list and selection.
type AccountManager struct {
	mu     sync.Mutex
	client MuralAPI

	accounts   []domain.Account
	selectedID string
	loading    bool
	lastError  string
}

// NewAccountManager creates an account manager bound to the API client.
func NewAccountManager(client MuralAPI) *AccountManager {
	return &AccountManager{client: client}
}

// List fetches all accounts and replaces the local list. When nothing is
// selected yet, the first result becomes the selection.
func (m *AccountManager) List(ctx context.Context) ([]domain.Account, error) {
	m.mu.Lock()
	m.loading = true
	m.lastError = ""
	m.mu.Unlock()

	accounts, err := m.client.GetAccounts(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.lastError = err.Error()
		return nil, err
	}
	m.accounts = accounts
	if m.selectedID == "" && len(accounts) > 0 {
		m.selectedID = accounts[0].ID
	}
	return accounts, nil
}

// Create creates a new account, selects it, then refreshes the list. A list
// refresh failure does not undo the creation.
func (m *AccountManager) Create(ctx context.Context, name string) (*domain.Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyAccountName
	}

	m.mu.Lock()
	m.lastError = ""
	m.mu.Unlock()

	account, err := m.client.CreateAccount(ctx, name)
	if err != nil {
		m.mu.Lock()
		m.lastError = err.Error()
		m.mu.Unlock()
		return nil, err
	}

	m.mu.Lock()
	m.selectedID = account.ID
	m.mu.Unlock()
	log.Printf("level=info component=accounts msg=\"account created\" account_id=%s name=%q status=%s", account.ID, account.Name, account.Status)

	if _, err := m.List(ctx); err != nil {
		log.Printf("level=warn component=accounts msg=\"list refresh after create failed\" err=%v", err)
	}
	return account, nil
}

// Select switches the selection to the given id. Unknown ids are silently
// ignored; no refetch is attempted.
func (m *AccountManager) Select(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.ID == id {
			m.selectedID = id
			return
		}
	}
}

// SelectedID returns the selected account id, or empty when none is selected.
func (m *AccountManager) SelectedID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedID
}

// ClearError drops the last error message, used when navigating back to the
// account creation view.
func (m *AccountManager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = ""
}

// State returns a copy of the current account state.
func (m *AccountManager) State() AccountState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := AccountState{
		Accounts:  append([]domain.Account(nil), m.accounts...),
		Loading:   m.loading,
		LastError: m.lastError,
	}
	for i := range m.accounts {
		if m.accounts[i].ID == m.selectedID {
			selected := m.accounts[i]
			state.SelectedAccount = &selected
			break
		}
	}
	return state
}
