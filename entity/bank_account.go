package entity

import "dotpay/validator"

// BankAccount is a named account number, used in cash/transfer payment
// instructions and payout recipients.
type BankAccount struct {
	Name   string `json:"name" bson:"name"`
	Number string `json:"number" bson:"number"`
}

// NewBankAccount validates the account number format.
func NewBankAccount(name, number string) (*BankAccount, error) {
	if !validator.ValidBankAccount(number) {
		return nil, badParameter("account_number", number)
	}
	return &BankAccount{Name: name, Number: number}, nil
}

// Transfer is a wire transfer order to a recipient account.
type Transfer struct {
	Amount      float64     `json:"amount" bson:"amount"`
	Currency    string      `json:"currency" bson:"currency"`
	Description string      `json:"description" bson:"description"`
	Recipient   BankAccount `json:"recipient" bson:"recipient"`
}

// NewTransfer validates amount and currency of a transfer order.
func NewTransfer(amount float64, currency, description string, recipient *BankAccount) (*Transfer, error) {
	if !validator.ValidAmount(amount) {
		return nil, badParameter("amount", "")
	}
	if !validator.ValidCurrency(currency) {
		return nil, badParameter("currency", currency)
	}
	if recipient == nil {
		return nil, badParameter("recipient", "")
	}
	return &Transfer{Amount: amount, Currency: currency, Description: description, Recipient: *recipient}, nil
}
