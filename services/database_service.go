package services

import (
	"context"

	"dotpay/entity"
)

// Database is the persistence contract of the integration service.
type Database interface {
	WriteLogMessage(data Data) error

	SavePayment(ctx context.Context, payment *entity.PaymentRecord) error
	GetPayment(ctx context.Context, control string) (*entity.PaymentRecord, error)
	UpdatePaymentStatus(ctx context.Context, control, status, operationNumber string) error

	SaveOperation(ctx context.Context, operation *entity.Operation) error
	GetOperationByNumber(ctx context.Context, number string) (*entity.Operation, error)

	SaveNotification(ctx context.Context, record *entity.NotificationRecord) error

	SaveCreditCard(ctx context.Context, operationNumber string, card *entity.CreditCard) error
}
