/**
 * @description
 * This file defines the domain models for Mural Pay organization accounts.
 * Accounts are owned by the remote Mural Pay service; the console only ever
 * holds ephemeral copies fetched or created through the API client.
 *
 * @notes
 * - Field names mirror the JSON the Mural Pay API returns, so these structs
 *   double as wire models for the client package.
 */

package domain

import "time"

// AccountStatusCreated is the status Mural Pay reports on a newly created
// account.
const AccountStatusCreated = "CREATED"

// Account represents a Mural Pay organization account.
type Account struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Name           string         `json:"name"`
	IsAPIEnabled   bool           `json:"isApiEnabled"`
	Status         string         `json:"status"`
	AccountDetails AccountDetails `json:"accountDetails"`
}

// AccountDetails carries the balances and settlement endpoints nested under
// an account.
type AccountDetails struct {
	Balances       []Balance       `json:"balances"`
	WalletDetails  *WalletDetails  `json:"walletDetails,omitempty"`
	DepositAccount *DepositAccount `json:"depositAccount,omitempty"`
}

// Balance is a single token balance held by an account.
type Balance struct {
	TokenAmount float64 `json:"tokenAmount"`
	TokenSymbol string  `json:"tokenSymbol"`
}

// WalletDetails identifies the on-chain wallet backing an account.
type WalletDetails struct {
	WalletAddress string `json:"walletAddress"`
	Blockchain    string `json:"blockchain"`
}

// DepositAccount is the linked fiat deposit bank account, when one exists.
type DepositAccount struct {
	ID                     string   `json:"id"`
	AccountID              string   `json:"accountId"`
	Status                 string   `json:"status"`
	Currency               string   `json:"currency"`
	BankBeneficiaryName    string   `json:"bankBeneficiaryName"`
	BankBeneficiaryAddress string   `json:"bankBeneficiaryAddress"`
	BankName               string   `json:"bankName"`
	BankAddress            string   `json:"bankAddress"`
	BankRoutingNumber      string   `json:"bankRoutingNumber"`
	BankAccountNumber      string   `json:"bankAccountNumber"`
	PaymentRails           []string `json:"paymentRails"`
}

// CreateAccountRequest is the payload for creating a new account.
type CreateAccountRequest struct {
	Name string `json:"name"`
}
