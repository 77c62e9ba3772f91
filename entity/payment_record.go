package entity

import "time"

// Payment record statuses.
const (
	PaymentStatusNew      = "new"
	PaymentStatusPaid     = "paid"
	PaymentStatusRejected = "rejected"
	PaymentStatusRefunded = "refunded"
)

// PaymentRecord is the stored side of a registered payment. The
// confirmation processor compares inbound notifications against the
// amount and currency recorded here.
type PaymentRecord struct {
	Control         string    `json:"control" bson:"control"`
	SellerId        int       `json:"seller_id" bson:"seller_id"`
	Amount          float64   `json:"amount" bson:"amount"`
	Currency        string    `json:"currency" bson:"currency"`
	Description     string    `json:"description" bson:"description"`
	Language        string    `json:"language" bson:"language"`
	ChannelCode     string    `json:"channel_code" bson:"channel_code"`
	Status          string    `json:"status" bson:"status"`
	OperationNumber string    `json:"operation_number" bson:"operation_number"`
	TimeCreated     time.Time `json:"time_created" bson:"time_created"`
	TimeClosed      time.Time `json:"time_closed,omitempty" bson:"time_closed,omitempty"`
}

// NewPaymentRecord snapshots a transaction at request-building time.
func NewPaymentRecord(t *Transaction, channelCode string) *PaymentRecord {
	return &PaymentRecord{
		Control:     t.Payment.Control,
		SellerId:    t.Payment.Seller.Id,
		Amount:      t.Payment.Amount,
		Currency:    t.Payment.Currency,
		Description: t.Payment.Description,
		Language:    t.Customer.Language,
		ChannelCode: channelCode,
		Status:      PaymentStatusNew,
		TimeCreated: time.Now(),
	}
}
