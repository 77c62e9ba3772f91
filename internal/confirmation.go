package internal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"dotpay/config"
	"dotpay/entity"
	"dotpay/services"
)

// Confirmation gate names, in execution order.
const (
	CheckIP        = "ip"
	CheckMethod    = "method"
	CheckCurrency  = "currency"
	CheckSignature = "signature"
	CheckAmount    = "amount"
)

// ConfirmationError reports which gate rejected an inbound notification.
// These are authentication/integrity failures: never retried, and the
// HTTP layer answers non-2xx so the gateway's own retry policy applies.
type ConfirmationError struct {
	Check   string
	Message string
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("confirmation rejected at %s check: %s", e.Check, e.Message)
}

func rejected(check, format string, args ...any) error {
	return &ConfirmationError{Check: check, Message: fmt.Sprintf(format, args...)}
}

// Confirmation validates inbound payment notifications. Gates run in
// strict order - IP, method, currency, signature, amount - and the first
// failure aborts the flow; in particular no signature is computed for a
// caller that already failed the IP gate. Verified operations are
// dispatched to the injected payment or refund action.
type Confirmation struct {
	conf      *config.Config
	database  services.Database
	logger    services.LogHandler
	payment   services.PaymentAction
	refund    services.RefundAction
	sellerApi *SellerApi
}

func NewConfirmation(conf *config.Config) *Confirmation {
	return &Confirmation{conf: conf}
}

func (c *Confirmation) SetDatabase(database services.Database) {
	c.database = database
}

func (c *Confirmation) SetLogger(logger services.LogHandler) {
	c.logger = logger
}

func (c *Confirmation) SetPaymentAction(action services.PaymentAction) {
	c.payment = action
}

func (c *Confirmation) SetRefundAction(action services.RefundAction) {
	c.refund = action
}

func (c *Confirmation) SetSellerApi(api *SellerApi) {
	c.sellerApi = api
}

// clientIP resolves the caller address, reading the first entry of
// X-Forwarded-For when the service is configured behind a proxy.
func (c *Confirmation) clientIP(r *http.Request) string {
	if c.conf.Callback.CheckProxy {
		forwarded := r.Header.Get("X-Forwarded-For")
		if forwarded != "" {
			parts := strings.Split(forwarded, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (c *Confirmation) ipAllowed(ip string) bool {
	for _, allowed := range c.conf.Callback.AllowedIPs {
		if ip == allowed {
			return true
		}
	}
	return c.conf.Callback.OfficeIP != "" && ip == c.conf.Callback.OfficeIP
}

// Process runs the gate chain over one inbound notification request and
// dispatches the verified operation.
func (c *Confirmation) Process(ctx context.Context, r *http.Request) error {
	ip := c.clientIP(r)
	if !c.ipAllowed(ip) {
		return rejected(CheckIP, "address %s is not allowed", ip)
	}

	if r.Method != http.MethodPost {
		return rejected(CheckMethod, "method %s, expected POST", r.Method)
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse notification body: %w", err)
	}
	notification, err := entity.NotificationFromValues(r.PostForm)
	if err != nil {
		return fmt.Errorf("read notification: %w", err)
	}
	operation := notification.Operation

	if c.database == nil {
		return fmt.Errorf("database not set")
	}
	payment, err := c.database.GetPayment(ctx, operation.Control)
	if err != nil {
		return fmt.Errorf("payment %s not found: %w", operation.Control, err)
	}

	if operation.OriginalCurrency != payment.Currency {
		return rejected(CheckCurrency, "notification currency %s, payment currency %s",
			operation.OriginalCurrency, payment.Currency)
	}

	pin, ok := c.conf.PinForAccount(operation.AccountId)
	if !ok {
		return rejected(CheckSignature, "unknown account id %s", operation.AccountId)
	}
	if !VerifySignature(notification, pin) {
		return rejected(CheckSignature, "signature mismatch for operation %s", operation.Number)
	}

	if operation.Type == entity.OperationTypePayment {
		if formatAmountString(operation.OriginalAmount) != FormatAmount(payment.Amount) {
			return rejected(CheckAmount, "notification amount %s, payment amount %s",
				operation.OriginalAmount, FormatAmount(payment.Amount))
		}
	}

	record := entity.NewNotificationRecord(notification, ip, r.PostForm)
	if err = c.database.SaveNotification(ctx, record); err != nil {
		c.logger.Error("save notification", err)
	}

	return c.dispatch(ctx, notification)
}

// dispatch routes the verified operation to the configured action.
// For one-click card operations that reached a final state the stored
// card details are refreshed from the seller API first, so the shop
// always holds the card id the gateway settled on.
func (c *Confirmation) dispatch(ctx context.Context, notification *entity.Notification) error {
	operation := notification.Operation
	switch operation.Type {
	case entity.OperationTypePayment:
		if c.isOcFinal(notification) {
			c.refreshCardInfo(ctx, operation.Number)
		}
		if c.payment == nil {
			return fmt.Errorf("payment action not set")
		}
		return c.payment.MakePayment(ctx, operation)
	case entity.OperationTypeRefund:
		if c.refund == nil {
			return fmt.Errorf("refund action not set")
		}
		return c.refund.MakeRefund(ctx, operation)
	default:
		return fmt.Errorf("unsupported operation type %s", operation.Type)
	}
}

func (c *Confirmation) isOcFinal(notification *entity.Notification) bool {
	if notification.ChannelId != strconv.Itoa(ChannelIdOc) {
		return false
	}
	status := notification.Operation.Status
	return status == entity.OperationStatusCompleted || status == entity.OperationStatusRejected
}

func (c *Confirmation) refreshCardInfo(ctx context.Context, operationNumber string) {
	if c.sellerApi == nil {
		return
	}
	card, err := c.sellerApi.GetOperationCard(ctx, operationNumber)
	if err != nil {
		c.logger.Error(fmt.Sprintf("card info for operation %s", operationNumber), err)
		return
	}
	if card == nil {
		return
	}
	if err = c.database.SaveCreditCard(ctx, operationNumber, card); err != nil {
		c.logger.Error("save credit card", err)
	}
}
