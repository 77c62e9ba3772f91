package internal

import (
	"dotpay/config"
	"dotpay/entity"
)

// PaymentForm is the outbound redirect form for one channel: the gateway
// action URL and the hidden fields with the integrity hash appended
// last. The integrating shop renders it; this service only builds it.
type PaymentForm struct {
	Action string  `json:"action"`
	Method string  `json:"method"`
	Fields []Field `json:"fields"`
}

// NewPaymentForm prepares the channel's hidden fields and appends the
// chk computed over them and the transaction's sub-payments.
func NewPaymentForm(conf *config.Config, channel Channel, transaction *entity.Transaction) *PaymentForm {
	fields := channel.PrepareHiddenFields()
	chk := CalculateCHK(channel.Pin(), fields, transaction.SubPayments)
	fields = append(fields, Field{Name: "chk", Value: chk})
	return &PaymentForm{
		Action: conf.PaymentUrl(),
		Method: "POST",
		Fields: fields,
	}
}
