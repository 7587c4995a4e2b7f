package app

import (
	"context"

	"github.com/muralops/payout-console/internal/domain"
)

// MuralAPI is the slice of the Mural Pay client the state managers depend on.
// pkg/muralclient provides the production implementation; tests substitute
// stubs.
type MuralAPI interface {
	CreateAccount(ctx context.Context, name string) (*domain.Account, error)
	GetAccounts(ctx context.Context) ([]domain.Account, error)
	CreatePayoutRequest(ctx context.Context, payload domain.CreatePayoutPayload) (*domain.PayoutRequest, error)
	SearchPayoutRequests(ctx context.Context, filter domain.PayoutSearchFilter) ([]domain.PayoutRequest, error)
	GetPayoutRequest(ctx context.Context, id string) (*domain.PayoutRequest, error)
	ExecutePayoutRequest(ctx context.Context, id, sourceAccountID string) (*domain.PayoutRequest, error)
	CancelPayoutRequest(ctx context.Context, id string) error
}

// PayoutMetrics receives payout lifecycle observations. Implementations must
// be safe for concurrent use; a nil PayoutMetrics disables recording.
type PayoutMetrics interface {
	RecordPayoutCreated()
	RecordPayoutExecuted()
	RecordPayoutFailure()
}
