package entity

import (
	"dotpay/validator"
)

// Transaction aggregates everything needed to build one outbound payment
// request: payer, payment, return URLs and optional channel-specific data.
type Transaction struct {
	Customer    *Customer    `json:"customer" bson:"customer"`
	Payment     *Payment     `json:"payment" bson:"payment"`
	BackUrl     string       `json:"back_url" bson:"back_url"`
	ConfirmUrl  string       `json:"confirm_url" bson:"confirm_url"`
	SubPayments []SubPayment `json:"sub_payments,omitempty" bson:"sub_payments,omitempty"`

	// channel-specific inputs; each is consumed only by its channel variant
	BlikCode   string `json:"blik_code,omitempty" bson:"blik_code,omitempty"`
	CustomerId string `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
	CardId     string `json:"card_id,omitempty" bson:"card_id,omitempty"`
	StoreCard  bool   `json:"store_card,omitempty" bson:"store_card,omitempty"`
}

// NewTransaction binds a customer and payment together with the shop
// return URL (back) and notification URL (confirm).
func NewTransaction(customer *Customer, payment *Payment, backUrl, confirmUrl string) (*Transaction, error) {
	if customer == nil {
		return nil, badParameter("customer", "")
	}
	if payment == nil {
		return nil, badParameter("payment", "")
	}
	if backUrl != "" && !validator.ValidUrl(backUrl) {
		return nil, badParameter("url", backUrl)
	}
	if confirmUrl != "" && !validator.ValidUrl(confirmUrl) {
		return nil, badParameter("urlc", confirmUrl)
	}
	return &Transaction{
		Customer:   customer,
		Payment:    payment,
		BackUrl:    backUrl,
		ConfirmUrl: confirmUrl,
	}, nil
}

// AddSubPayment appends a multimerchant split entry.
func (t *Transaction) AddSubPayment(sub *SubPayment) {
	t.SubPayments = append(t.SubPayments, *sub)
}

// SetBlikCode stores a six-digit BLIK authorization code.
func (t *Transaction) SetBlikCode(code string) error {
	if !validator.ValidBlikCode(code) {
		return badParameter("blik_code", code)
	}
	t.BlikCode = code
	return nil
}

// Identifier keys the channel-list buffer: payment identifier + language.
// Two transactions with the same seller, amount, currency and language
// share one channel-list lookup.
func (t *Transaction) Identifier() string {
	return t.Payment.Identifier() + t.Customer.Language
}
