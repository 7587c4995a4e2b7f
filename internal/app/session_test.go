package app

import (
	"context"
	"testing"
	"time"

	"github.com/muralops/payout-console/internal/domain"
)

func newTestSession(t *testing.T) (*SessionManager, *Session) {
	t.Helper()
	sm := NewSessionManager(&muralStub{}, nil, nil, time.Hour)
	return sm, sm.Create()
}

func TestSessionStartsOnAccountCreationView(t *testing.T) {
	_, session := newTestSession(t)
	if session.View() != ViewCreateAccount {
		t.Fatalf("expected initial view CREATE_ACCOUNT, got %q", session.View())
	}
}

func TestNavigateTo_ResetsPayoutFormOnCreateViews(t *testing.T) {
	_, session := newTestSession(t)
	session.Payouts.UpdateForm(PayoutForm{Amount: "50", Currency: "ETH", Memo: "old", RecipientType: domain.RecipientTypeBusiness})

	if _, err := session.NavigateTo(ViewCreateBlockchainPayout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	form := session.Payouts.State().Form
	if form.Amount != "" || form.Memo != "" || form.Currency != "USDC" || form.RecipientType != domain.RecipientTypeIndividual {
		t.Fatalf("expected reset form, got %+v", form)
	}
}

func TestNavigateTo_FiatViewSeedsDefaults(t *testing.T) {
	_, session := newTestSession(t)

	defaults, err := session.NavigateTo(ViewCreateFiatPayout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if defaults == nil {
		t.Fatal("expected seeded fiat defaults")
	}
	if defaults.Fields.BankName != "Bancamia S.A." || defaults.Fields.Country != "CO" {
		t.Fatalf("unexpected defaults: %+v", defaults.Fields)
	}

	form := session.Payouts.State().Form
	if form.Amount != "100" || form.Memo != "December contract" {
		t.Fatalf("expected seeded amount and memo, got %+v", form)
	}
}

func TestNavigateTo_OtherViewsLeaveStateUntouched(t *testing.T) {
	stub := &muralStub{
		createPayoutFn: func(ctx context.Context, payload domain.CreatePayoutPayload) (*domain.PayoutRequest, error) {
			return awaitingPayout("p1"), nil
		},
	}
	sm := NewSessionManager(stub, nil, nil, time.Hour)
	session := sm.Create()

	session.Payouts.UpdateForm(PayoutForm{Amount: "100", Currency: "USDC"})
	if _, err := session.Payouts.Create(context.Background(), "a1", PayoutFormFields{WalletAddress: "0xabc", Blockchain: "ethereum"}, FlowBlockchain); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := session.NavigateTo(ViewPayout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Payouts.State().Response == nil {
		t.Fatal("navigation away must not clear the payout response")
	}
}

func TestNavigateTo_RejectsUnknownView(t *testing.T) {
	_, session := newTestSession(t)
	if _, err := session.NavigateTo(View("SETTINGS")); err != ErrUnknownView {
		t.Fatalf("expected ErrUnknownView, got %v", err)
	}
}

func TestSessionManager_GetUnknownSession(t *testing.T) {
	sm := NewSessionManager(&muralStub{}, nil, nil, time.Hour)
	session := sm.Create()

	if _, err := sm.Get(session.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := NewSessionManager(&muralStub{}, nil, nil, time.Hour).Create()
	if _, err := sm.Get(other.ID); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManager_SweepExpiresIdleSessions(t *testing.T) {
	sm := NewSessionManager(&muralStub{}, nil, nil, time.Minute)
	session := sm.Create()

	sm.sweep(time.Now().Add(2 * time.Minute))

	if _, err := sm.Get(session.ID); err != ErrSessionNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
}
