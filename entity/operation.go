package entity

import (
	"net/url"

	"dotpay/validator"
)

// Operation types reported by the gateway.
const (
	OperationTypePayment = "payment"
	OperationTypeRefund  = "refund"
)

// Operation statuses reported by the gateway.
const (
	OperationStatusNew                   = "new"
	OperationStatusProcessing            = "processing"
	OperationStatusCompleted             = "completed"
	OperationStatusRejected              = "rejected"
	OperationStatusProcessingRealization = "processing_realization_waiting"
	OperationStatusRealized              = "processing_realization"
)

// OperationPayer is the payer block of a gateway operation record.
type OperationPayer struct {
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name" bson:"last_name"`
	Email     string `json:"email" bson:"email"`
}

// OperationPaymentMethod describes how the operation was paid.
type OperationPaymentMethod struct {
	ChannelId        string       `json:"channel_id" bson:"channel_id"`
	PayerBankAccount *BankAccount `json:"payer_bank_account,omitempty" bson:"payer_bank_account,omitempty"`
	CreditCard       *CreditCard  `json:"credit_card,omitempty" bson:"credit_card,omitempty"`
}

// Operation is a gateway-side record of a payment or refund action.
// Amounts are kept in the gateway wire form (two-decimal strings) because
// the notification signature is computed over exactly those strings.
// Immutable after creation; fields are validated when the operation is
// built from an inbound payload.
type Operation struct {
	Number           string `json:"operation_number" bson:"operation_number"`
	Type             string `json:"operation_type" bson:"operation_type"`
	Status           string `json:"operation_status" bson:"operation_status"`
	Amount           string `json:"operation_amount" bson:"operation_amount"`
	Currency         string `json:"operation_currency" bson:"operation_currency"`
	WithdrawalAmount string `json:"operation_withdrawal_amount" bson:"operation_withdrawal_amount"`
	CommissionAmount string `json:"operation_commission_amount" bson:"operation_commission_amount"`

	// Completed is the wire tri-state: "true", "false" or empty.
	Completed        string                 `json:"is_completed" bson:"is_completed"`
	OriginalAmount   string                 `json:"operation_original_amount" bson:"operation_original_amount"`
	OriginalCurrency string                 `json:"operation_original_currency" bson:"operation_original_currency"`
	AccountId        string                 `json:"operation_account_id" bson:"operation_account_id"`
	RelatedNumber    string                 `json:"operation_related_number" bson:"operation_related_number"`
	Control          string                 `json:"control" bson:"control"`
	Description      string                 `json:"description" bson:"description"`
	DateTime         string                 `json:"operation_datetime" bson:"operation_datetime"`
	Payer            OperationPayer         `json:"payer" bson:"payer"`
	PaymentMethod    OperationPaymentMethod `json:"payment_method" bson:"payment_method"`
}

var operationTypes = []string{OperationTypePayment, OperationTypeRefund}

var operationStatuses = []string{
	OperationStatusNew,
	OperationStatusProcessing,
	OperationStatusCompleted,
	OperationStatusRejected,
	OperationStatusProcessingRealization,
	OperationStatusRealized,
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// OperationFromValues builds an operation from a flattened notification
// payload, validating each field. Optional fields may be empty; any
// present field with a wrong format fails the whole construction.
func OperationFromValues(v url.Values) (*Operation, error) {
	op := &Operation{
		Number:           v.Get("operation_number"),
		Type:             v.Get("operation_type"),
		Status:           v.Get("operation_status"),
		Amount:           v.Get("operation_amount"),
		Currency:         v.Get("operation_currency"),
		WithdrawalAmount: v.Get("operation_withdrawal_amount"),
		CommissionAmount: v.Get("operation_commission_amount"),
		Completed:        v.Get("is_completed"),
		OriginalAmount:   v.Get("operation_original_amount"),
		OriginalCurrency: v.Get("operation_original_currency"),
		AccountId:        v.Get("operation_account_id"),
		RelatedNumber:    v.Get("operation_related_number"),
		Control:          v.Get("control"),
		Description:      v.Get("description"),
		DateTime:         v.Get("operation_datetime"),
		Payer: OperationPayer{
			Email: v.Get("email"),
		},
		PaymentMethod: OperationPaymentMethod{
			ChannelId: v.Get("channel"),
		},
	}

	if !validator.ValidOperationNumber(op.Number) {
		return nil, badParameter("operation_number", op.Number)
	}
	if !oneOf(op.Type, operationTypes) {
		return nil, badParameter("operation_type", op.Type)
	}
	if !oneOf(op.Status, operationStatuses) {
		return nil, badParameter("operation_status", op.Status)
	}
	if !validator.ValidAmountString(op.Amount) {
		return nil, badParameter("operation_amount", op.Amount)
	}
	if !validator.ValidCurrency(op.Currency) {
		return nil, badParameter("operation_currency", op.Currency)
	}
	if op.WithdrawalAmount != "" && !validator.ValidAmountString(op.WithdrawalAmount) {
		return nil, badParameter("operation_withdrawal_amount", op.WithdrawalAmount)
	}
	if op.CommissionAmount != "" && !validator.ValidAmountString(op.CommissionAmount) {
		return nil, badParameter("operation_commission_amount", op.CommissionAmount)
	}
	if op.Completed != "" && op.Completed != "true" && op.Completed != "false" {
		return nil, badParameter("is_completed", op.Completed)
	}
	if !validator.ValidAmountString(op.OriginalAmount) {
		return nil, badParameter("operation_original_amount", op.OriginalAmount)
	}
	if !validator.ValidCurrency(op.OriginalCurrency) {
		return nil, badParameter("operation_original_currency", op.OriginalCurrency)
	}
	if op.RelatedNumber != "" && !validator.ValidOperationNumber(op.RelatedNumber) {
		return nil, badParameter("operation_related_number", op.RelatedNumber)
	}
	if op.Payer.Email != "" && !validator.ValidEmail(op.Payer.Email) {
		return nil, badParameter("email", op.Payer.Email)
	}
	if op.PaymentMethod.ChannelId != "" && !validator.ValidChannelId(op.PaymentMethod.ChannelId) {
		return nil, badParameter("channel", op.PaymentMethod.ChannelId)
	}
	return op, nil
}
