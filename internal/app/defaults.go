package app

// FiatFormDefaults are the example values the console seeds when a session
// opens the fiat payout form.
type FiatFormDefaults struct {
	Amount string           `json:"amount"`
	Memo   string           `json:"memo"`
	Fields PayoutFormFields `json:"fields"`
}

// ColombianPayoutDefaults returns the Colombian peso example payout used to
// pre-fill the fiat form.
func ColombianPayoutDefaults() FiatFormDefaults {
	return FiatFormDefaults{
		Amount: "100",
		Memo:   "December contract",
		Fields: PayoutFormFields{
			FirstName:   "Javier",
			LastName:    "Gomez",
			Email:       "jgomez@gmail.com",
			DateOfBirth: "1980-02-22",

			Street:     "Cra. 37 #10A 29",
			City:       "Medellin",
			State:      "Antioquia",
			PostalCode: "050015",
			Country:    "CO",

			BankName:          "Bancamia S.A.",
			BankAccountOwner:  "test",
			RailType:          defaultFiatRailType,
			RailSymbol:        defaultFiatRailSymbol,
			AccountType:       "CHECKING",
			PhoneNumber:       "+57 601 555 5555",
			BankAccountNumber: "1234567890123456",
			DocumentNumber:    "1234563",
			DocumentType:      "NATIONAL_ID",
		},
	}
}
