/**
 * @description
 * This file contains the payout payload builder: the pure mapping from raw
 * form field values plus the session's retained selections to the exact
 * creation payload the Mural Pay API expects.
 *
 * Key features:
 * - Validates the amount before anything touches the network.
 * - Selects the payoutDetails variant from the flow (blockchain vs fiat) and
 *   the recipientInfo variant from the retained recipient-type flag, via the
 *   domain sum types, so the mutual-exclusion invariants hold by construction.
 * - Missing optional fields become empty strings, never null, to satisfy the
 *   remote side's required-field validation.
 *
 * @dependencies
 * - fmt, math, strconv, strings: Standard Go libraries.
 * - internal/domain: Sum types and wire models.
 */

package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/muralops/payout-console/internal/domain"
)

// PayoutFlow selects which payoutDetails variant the builder emits.
type PayoutFlow string

const (
	FlowBlockchain PayoutFlow = "blockchain"
	FlowFiat       PayoutFlow = "fiat"
)

// Country and rail fallbacks used when the fiat form leaves them blank.
const (
	defaultFiatCountry    = "CO"
	defaultFiatRailType   = "cop"
	defaultFiatRailSymbol = "COP"
)

// PayoutForm holds the selections the payout manager retains between form
// edits and submission.
type PayoutForm struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Memo          string `json:"memo"`
	RecipientType string `json:"recipientType"`
}

// PayoutFormFields are the raw string values of the payout form. Zero values
// are legitimate: absent fields submit as empty strings.
type PayoutFormFields struct {
	// Recipient identity
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	DateOfBirth  string `json:"dateOfBirth"`

	// Physical address
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`

	// Blockchain flow
	WalletAddress string `json:"walletAddress"`
	Blockchain    string `json:"blockchain"`

	// Fiat flow
	BankName          string `json:"bankName"`
	BankAccountOwner  string `json:"bankAccountOwner"`
	RailType          string `json:"railType"`
	RailSymbol        string `json:"railSymbol"`
	AccountType       string `json:"accountType"`
	PhoneNumber       string `json:"phoneNumber"`
	BankAccountNumber string `json:"bankAccountNumber"`
	DocumentNumber    string `json:"documentNumber"`
	DocumentType      string `json:"documentType"`
}

// BuildPayoutPayload assembles a single-line-item creation payload. It returns
// a validation error before any transport call when the amount does not parse
// to a positive finite number or the blockchain is unsupported.
func BuildPayoutPayload(sourceAccountID string, form PayoutForm, fields PayoutFormFields, flow PayoutFlow) (domain.CreatePayoutPayload, error) {
	amount, err := parseAmount(form.Amount)
	if err != nil {
		return domain.CreatePayoutPayload{}, err
	}

	method, err := payoutMethodFor(flow, fields)
	if err != nil {
		return domain.CreatePayoutPayload{}, err
	}

	recipient := recipientFor(form.RecipientType, fields, flow)

	details, err := payoutDetailsWire(method)
	if err != nil {
		return domain.CreatePayoutPayload{}, err
	}
	recipientWire, err := recipientInfoWire(recipient)
	if err != nil {
		return domain.CreatePayoutPayload{}, err
	}

	return domain.CreatePayoutPayload{
		SourceAccountID: sourceAccountID,
		Payouts: []domain.PayoutInput{
			{
				Amount: domain.TokenAmount{
					TokenAmount: amount,
					TokenSymbol: form.Currency,
				},
				PayoutDetails: details,
				RecipientInfo: recipientWire,
			},
		},
		Memo: form.Memo,
	}, nil
}

// parseAmount accepts only positive finite decimal numbers.
func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// payoutMethodFor builds the settlement-method variant for the flow.
func payoutMethodFor(flow PayoutFlow, fields PayoutFormFields) (domain.PayoutMethod, error) {
	switch flow {
	case FlowBlockchain:
		chain := strings.ToLower(strings.TrimSpace(fields.Blockchain))
		if !domain.SupportedBlockchains[chain] {
			return nil, ErrUnsupportedBlockchain
		}
		return domain.BlockchainMethod{
			WalletAddress: fields.WalletAddress,
			Blockchain:    chain,
		}, nil
	case FlowFiat:
		rail := domain.FiatRailDetails{
			Type:              fields.RailType,
			Symbol:            fields.RailSymbol,
			AccountType:       fields.AccountType,
			PhoneNumber:       fields.PhoneNumber,
			BankAccountNumber: fields.BankAccountNumber,
			DocumentNumber:    fields.DocumentNumber,
			DocumentType:      fields.DocumentType,
		}
		if rail.Type == "" {
			rail.Type = defaultFiatRailType
		}
		if rail.Symbol == "" {
			rail.Symbol = defaultFiatRailSymbol
		}
		return domain.FiatMethod{
			BankName:         fields.BankName,
			BankAccountOwner: fields.BankAccountOwner,
			Rail:             rail,
		}, nil
	default:
		return nil, fmt.Errorf("unknown payout flow %q", flow)
	}
}

// recipientFor builds the recipient variant for the retained recipient-type
// flag. Anything other than "business" is treated as an individual, matching
// the form's default selection.
func recipientFor(recipientType string, fields PayoutFormFields, flow PayoutFlow) domain.Recipient {
	address := domain.PhysicalAddress{
		Address1: fields.Street,
		Country:  fields.Country,
		State:    fields.State,
		City:     fields.City,
		Zip:      fields.PostalCode,
	}
	if flow == FlowFiat && address.Country == "" {
		address.Country = defaultFiatCountry
	}

	if recipientType == domain.RecipientTypeBusiness {
		return domain.BusinessRecipient{
			Name:    fields.BusinessName,
			Email:   fields.Email,
			Address: address,
		}
	}
	return domain.IndividualRecipient{
		FirstName:   fields.FirstName,
		LastName:    fields.LastName,
		Email:       fields.Email,
		DateOfBirth: fields.DateOfBirth,
		Address:     address,
	}
}

// payoutDetailsWire lowers a settlement-method variant onto the wire shape.
func payoutDetailsWire(method domain.PayoutMethod) (domain.PayoutDetailsWire, error) {
	switch m := method.(type) {
	case domain.BlockchainMethod:
		return domain.PayoutDetailsWire{
			Type:          domain.PayoutTypeBlockchain,
			WalletAddress: m.WalletAddress,
			Blockchain:    m.Blockchain,
		}, nil
	case domain.FiatMethod:
		rail := m.Rail
		return domain.PayoutDetailsWire{
			Type:               domain.PayoutTypeFiat,
			BankName:           m.BankName,
			BankAccountOwner:   m.BankAccountOwner,
			FiatAndRailDetails: &rail,
		}, nil
	default:
		return domain.PayoutDetailsWire{}, fmt.Errorf("unhandled payout method %T", method)
	}
}

// recipientInfoWire lowers a recipient variant onto the wire shape. Business
// recipients carry their name in the firstName slot with an empty lastName
// and no dateOfBirth.
func recipientInfoWire(recipient domain.Recipient) (domain.RecipientInfoWire, error) {
	switch r := recipient.(type) {
	case domain.IndividualRecipient:
		return domain.RecipientInfoWire{
			Type:            domain.RecipientTypeIndividual,
			FirstName:       r.FirstName,
			LastName:        r.LastName,
			Email:           r.Email,
			DateOfBirth:     r.DateOfBirth,
			PhysicalAddress: r.Address,
		}, nil
	case domain.BusinessRecipient:
		return domain.RecipientInfoWire{
			Type:            domain.RecipientTypeBusiness,
			FirstName:       r.Name,
			LastName:        "",
			Email:           r.Email,
			PhysicalAddress: r.Address,
		}, nil
	default:
		return domain.RecipientInfoWire{}, fmt.Errorf("unhandled recipient %T", recipient)
	}
}
