package entity

import (
	"fmt"
	"strconv"

	"dotpay/validator"
)

// Payment describes one amount to be collected for one seller account.
type Payment struct {
	Control     string  `json:"control" bson:"control"`
	Amount      float64 `json:"amount" bson:"amount"`
	Currency    string  `json:"currency" bson:"currency"`
	Description string  `json:"description" bson:"description"`
	Seller      *Seller `json:"seller" bson:"seller"`
}

// NewPayment validates amount and currency and binds the payment to a seller.
func NewPayment(seller *Seller, amount float64, currency, description string) (*Payment, error) {
	if seller == nil {
		return nil, badParameter("seller", "")
	}
	if !validator.ValidAmount(amount) {
		return nil, badParameter("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	}
	if !validator.ValidCurrency(currency) {
		return nil, badParameter("currency", currency)
	}
	return &Payment{
		Amount:      amount,
		Currency:    currency,
		Description: description,
		Seller:      seller,
	}, nil
}

// FormattedAmount renders the amount the way the gateway expects it:
// two decimal places, dot separator.
func (p *Payment) FormattedAmount() string {
	return strconv.FormatFloat(p.Amount, 'f', 2, 64)
}

// Identifier is the channel-list cache key for this payment:
// seller id + formatted amount + currency.
func (p *Payment) Identifier() string {
	return fmt.Sprintf("%d%s%s", p.Seller.Id, p.FormattedAmount(), p.Currency)
}

// SubPayment is a multimerchant split: part of one transaction routed to
// another seller account.
type SubPayment struct {
	Id          int     `json:"id" bson:"id"`
	Amount      float64 `json:"amount" bson:"amount"`
	Currency    string  `json:"currency" bson:"currency"`
	Description string  `json:"description" bson:"description"`
}

// NewSubPayment validates a multimerchant split entry.
func NewSubPayment(id int, amount float64, currency, description string) (*SubPayment, error) {
	if !validator.ValidId(id) {
		return nil, badParameter("id", fmt.Sprintf("%d", id))
	}
	if !validator.ValidAmount(amount) {
		return nil, badParameter("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	}
	if !validator.ValidCurrency(currency) {
		return nil, badParameter("currency", currency)
	}
	return &SubPayment{Id: id, Amount: amount, Currency: currency, Description: description}, nil
}

// FormattedAmount renders the split amount with two decimal places.
func (s *SubPayment) FormattedAmount() string {
	return strconv.FormatFloat(s.Amount, 'f', 2, 64)
}
