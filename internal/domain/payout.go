/**
 * @description
 * This file defines the domain models for Mural Pay payout requests: the
 * server-owned PayoutRequest record, its payout line items, and the typed
 * creation payload sent to the API.
 *
 * @notes
 * - Payout details and recipient info are tagged unions. The API exchanges
 *   them as flat objects discriminated by a `type` field; internally the
 *   builder works with sealed sum types so the individual/business and
 *   blockchain/fiat variants stay mutually exclusive by construction.
 * - Only the nested payload schema (`sourceAccountId`, `payouts[]`) is
 *   supported. The legacy flat shape (`amount`, `currency`, `account_id`)
 *   is deprecated upstream and not modeled here.
 */

package domain

import "time"

// Payout request statuses reported by Mural Pay. A request is executable
// while it is awaiting execution; the API has also reported PENDING on
// freshly created requests, which execute accepts the same way.
const (
	PayoutStatusAwaitingExecution = "AWAITING_EXECUTION"
	PayoutStatusPending           = "PENDING"
	PayoutStatusExecuted          = "EXECUTED"
	PayoutStatusCanceled          = "CANCELED"
)

// Discriminator values for the payoutDetails and recipientInfo unions.
const (
	PayoutTypeBlockchain    = "blockchain"
	PayoutTypeFiat          = "fiat"
	RecipientTypeIndividual = "individual"
	RecipientTypeBusiness   = "business"
)

// SupportedBlockchains are the chains Mural Pay accepts for blockchain
// payouts. Chain names are compared lower-cased.
var SupportedBlockchains = map[string]bool{
	"ethereum": true,
	"polygon":  true,
	"base":     true,
	"celo":     true,
}

// TokenAmount is a token quantity paired with its symbol.
type TokenAmount struct {
	TokenAmount float64 `json:"tokenAmount"`
	TokenSymbol string  `json:"tokenSymbol"`
}

// PhysicalAddress is the normalized address shape the API expects for
// recipients of either kind.
type PhysicalAddress struct {
	Address1 string `json:"address1"`
	Country  string `json:"country"`
	State    string `json:"state"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
}

// FiatRailDetails carries the rail-specific identity and banking fields for a
// fiat payout (e.g. the Colombian peso bank transfer rail).
type FiatRailDetails struct {
	Type              string `json:"type"`
	Symbol            string `json:"symbol"`
	AccountType       string `json:"accountType"`
	PhoneNumber       string `json:"phoneNumber"`
	BankAccountNumber string `json:"bankAccountNumber"`
	DocumentNumber    string `json:"documentNumber"`
	DocumentType      string `json:"documentType"`
}

// PayoutMethod is the sealed union of settlement methods a payout can use.
// Exactly one concrete variant exists per payout; the builder matches on it
// exhaustively when producing the wire payload.
type PayoutMethod interface {
	payoutType() string
}

// BlockchainMethod settles the payout to an on-chain wallet.
type BlockchainMethod struct {
	WalletAddress string
	Blockchain    string
}

func (BlockchainMethod) payoutType() string { return PayoutTypeBlockchain }

// FiatMethod settles the payout over a named fiat rail.
type FiatMethod struct {
	BankName         string
	BankAccountOwner string
	Rail             FiatRailDetails
}

func (FiatMethod) payoutType() string { return PayoutTypeFiat }

// Recipient is the sealed union of recipient kinds.
type Recipient interface {
	recipientType() string
}

// IndividualRecipient identifies a natural-person recipient.
type IndividualRecipient struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth string
	Address     PhysicalAddress
}

func (IndividualRecipient) recipientType() string { return RecipientTypeIndividual }

// BusinessRecipient identifies a company recipient. The API has no dedicated
// business-name slot: the name travels in firstName with an empty lastName.
type BusinessRecipient struct {
	Name    string
	Email   string
	Address PhysicalAddress
}

func (BusinessRecipient) recipientType() string { return RecipientTypeBusiness }

// PayoutDetailsWire is the flat payoutDetails object on the wire. Exactly one
// variant's fields are populated, selected by Type.
type PayoutDetailsWire struct {
	Type string `json:"type"`

	// blockchain variant
	WalletAddress string `json:"walletAddress,omitempty"`
	Blockchain    string `json:"blockchain,omitempty"`

	// fiat variant
	BankName           string           `json:"bankName,omitempty"`
	BankAccountOwner   string           `json:"bankAccountOwner,omitempty"`
	FiatAndRailDetails *FiatRailDetails `json:"fiatAndRailDetails,omitempty"`
}

// RecipientInfoWire is the flat recipientInfo object on the wire. Name and
// email fields are always present (empty string, never null) to satisfy the
// API's required-field validation; dateOfBirth is omitted for businesses.
type RecipientInfoWire struct {
	Type            string          `json:"type"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"`
	DateOfBirth     string          `json:"dateOfBirth,omitempty"`
	PhysicalAddress PhysicalAddress `json:"physicalAddress"`
}

// PayoutInput is one line item of a creation payload.
type PayoutInput struct {
	Amount        TokenAmount       `json:"amount"`
	PayoutDetails PayoutDetailsWire `json:"payoutDetails"`
	RecipientInfo RecipientInfoWire `json:"recipientInfo"`
}

// CreatePayoutPayload is the body of POST /api/payouts/payout.
type CreatePayoutPayload struct {
	SourceAccountID string        `json:"sourceAccountId"`
	Payouts         []PayoutInput `json:"payouts"`
	Memo            string        `json:"memo,omitempty"`
}

// FiatAmount is a settled fiat value with its currency code.
type FiatAmount struct {
	FiatAmount       float64 `json:"fiatAmount"`
	FiatCurrencyCode string  `json:"fiatCurrencyCode"`
}

// FiatPayoutStatus wraps the typed status object nested in settlement details.
type FiatPayoutStatus struct {
	Type string `json:"type"`
}

// SettlementDetails are the server-populated fields that appear on a payout
// line item once Mural Pay has processed it.
type SettlementDetails struct {
	Type                  string            `json:"type"`
	FiatAndRailCode       string            `json:"fiatAndRailCode,omitempty"`
	FiatAmount            *FiatAmount       `json:"fiatAmount,omitempty"`
	TransactionFee        *TokenAmount      `json:"transactionFee,omitempty"`
	ExchangeRate          float64           `json:"exchangeRate,omitempty"`
	ExchangeFeePercentage float64           `json:"exchangeFeePercentage,omitempty"`
	FeeTotal              *TokenAmount      `json:"feeTotal,omitempty"`
	FiatPayoutStatus      *FiatPayoutStatus `json:"fiatPayoutStatus,omitempty"`
}

// Payout is one line item of a server-owned payout request.
type Payout struct {
	ID            string             `json:"id"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Amount        TokenAmount        `json:"amount"`
	PayoutDetails *PayoutDetailsWire `json:"payoutDetails,omitempty"`
	RecipientInfo *RecipientInfoWire `json:"recipientInfo,omitempty"`
	Details       *SettlementDetails `json:"details,omitempty"`
}

// PayoutRequest is the server-owned payout request record. The console never
// mutates one locally except to overwrite it with the server's latest
// representation.
type PayoutRequest struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	SourceAccountID string    `json:"sourceAccountId"`
	Memo            string    `json:"memo,omitempty"`
	Status          string    `json:"status"`
	Payouts         []Payout  `json:"payouts"`
}

// PayoutSearchFilter is the body of POST /api/payouts/search.
type PayoutSearchFilter struct {
	OrganizationID string   `json:"organization_id"`
	Status         []string `json:"status,omitempty"`
}
