package entity

import (
	"strconv"

	"dotpay/validator"
)

// Payout is a seller-initiated withdrawal of collected funds to one or
// more bank accounts, submitted through the seller API.
type Payout struct {
	Currency  string           `json:"currency" bson:"currency"`
	Transfers []PayoutTransfer `json:"transfers" bson:"transfers"`
}

// PayoutTransfer is one target of a payout.
type PayoutTransfer struct {
	Amount      float64     `json:"amount" bson:"amount"`
	Control     string      `json:"control" bson:"control"`
	Description string      `json:"description" bson:"description"`
	Recipient   BankAccount `json:"recipient" bson:"recipient"`
}

// NewPayout validates the payout currency.
func NewPayout(currency string) (*Payout, error) {
	if !validator.ValidCurrency(currency) {
		return nil, badParameter("currency", currency)
	}
	return &Payout{Currency: currency}, nil
}

// AddTransfer validates and appends one payout target.
func (p *Payout) AddTransfer(amount float64, control, description string, recipient *BankAccount) error {
	if !validator.ValidAmount(amount) {
		return badParameter("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	}
	if recipient == nil {
		return badParameter("recipient", "")
	}
	p.Transfers = append(p.Transfers, PayoutTransfer{
		Amount:      amount,
		Control:     control,
		Description: description,
		Recipient:   *recipient,
	})
	return nil
}
