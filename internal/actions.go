package internal

import (
	"context"
	"fmt"

	"dotpay/entity"
	"dotpay/services"
)

// PaymentUpdater is the default payment/refund action: it records the
// operation and moves the stored payment record to its final status.
// A duplicate notification is recognized by operation number and
// acknowledged without a second status change.
type PaymentUpdater struct {
	database services.Database
	logger   services.LogHandler
}

func NewPaymentUpdater(database services.Database) *PaymentUpdater {
	return &PaymentUpdater{database: database}
}

func (u *PaymentUpdater) SetLogger(logger services.LogHandler) {
	u.logger = logger
}

func (u *PaymentUpdater) MakePayment(ctx context.Context, operation *entity.Operation) error {
	known, err := u.database.GetOperationByNumber(ctx, operation.Number)
	if err == nil && known != nil && known.Status == operation.Status {
		u.logger.Info(fmt.Sprintf("operation %s already processed", operation.Number))
		return nil
	}
	if err = u.database.SaveOperation(ctx, operation); err != nil {
		return fmt.Errorf("save operation %s: %w", operation.Number, err)
	}

	var status string
	switch operation.Status {
	case entity.OperationStatusCompleted:
		status = entity.PaymentStatusPaid
	case entity.OperationStatusRejected:
		status = entity.PaymentStatusRejected
	default:
		// intermediate state; keep the record as is
		return nil
	}
	if err = u.database.UpdatePaymentStatus(ctx, operation.Control, status, operation.Number); err != nil {
		return fmt.Errorf("update payment %s: %w", operation.Control, err)
	}
	u.logger.Info(fmt.Sprintf("payment %s marked %s by operation %s", operation.Control, status, operation.Number))
	return nil
}

func (u *PaymentUpdater) MakeRefund(ctx context.Context, operation *entity.Operation) error {
	known, err := u.database.GetOperationByNumber(ctx, operation.Number)
	if err == nil && known != nil && known.Status == operation.Status {
		u.logger.Info(fmt.Sprintf("operation %s already processed", operation.Number))
		return nil
	}
	if err = u.database.SaveOperation(ctx, operation); err != nil {
		return fmt.Errorf("save operation %s: %w", operation.Number, err)
	}
	if operation.Status == entity.OperationStatusCompleted {
		if err = u.database.UpdatePaymentStatus(ctx, operation.Control, entity.PaymentStatusRefunded, operation.Number); err != nil {
			return fmt.Errorf("update payment %s: %w", operation.Control, err)
		}
	}
	u.logger.Info(fmt.Sprintf("refund operation %s for payment %s, status %s", operation.Number, operation.Control, operation.Status))
	return nil
}
