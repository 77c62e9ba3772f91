package services

import (
	"context"

	"dotpay/entity"
)

// PaymentAction is invoked by the confirmation processor for verified
// payment-type operations. Implementations own persistence side effects
// and are responsible for deduplicating by operation number.
type PaymentAction interface {
	MakePayment(ctx context.Context, operation *entity.Operation) error
}

// RefundAction is invoked for verified refund-type operations.
type RefundAction interface {
	MakeRefund(ctx context.Context, operation *entity.Operation) error
}
