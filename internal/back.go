package internal

import (
	"errors"
	"fmt"
	"net/url"

	"dotpay/services"
)

// Payment domain errors surfaced on the back redirect. The gateway
// reports them as string codes; each maps 1:1 to a typed error the
// integrating shop can present to the customer.
var (
	ErrPaymentExpired        = errors.New("payment expired")
	ErrUnknownChannel        = errors.New("unknown payment channel")
	ErrDisabledChannel       = errors.New("payment channel disabled")
	ErrBlockedAccount        = errors.New("seller account blocked")
	ErrInactiveSeller        = errors.New("seller account inactive")
	ErrAmountTooLow          = errors.New("amount below channel minimum")
	ErrAmountTooHigh         = errors.New("amount above channel maximum")
	ErrBadMultimerchant      = errors.New("invalid multimerchant configuration")
	ErrHashNotEqualChk       = errors.New("request hash does not match chk")
	ErrUnknownPaymentFailure = errors.New("unknown payment failure")
)

var backErrorCodes = map[string]error{
	"PAYMENT_EXPIRED":                 ErrPaymentExpired,
	"UNKNOWN_CHANNEL":                 ErrUnknownChannel,
	"DISABLED_CHANNEL":                ErrDisabledChannel,
	"BLOCKED_ACCOUNT":                 ErrBlockedAccount,
	"INACTIVE_SELLER":                 ErrInactiveSeller,
	"AMOUNT_TOO_LOW":                  ErrAmountTooLow,
	"AMOUNT_TOO_HIGH":                 ErrAmountTooHigh,
	"BAD_OR_MISSING_MULTIMERCHANT_DATA": ErrBadMultimerchant,
	"HASH_NOT_EQUAL_CHK":              ErrHashNotEqualChk,
}

// Back handles the customer's return redirect from the gateway. A clean
// return carries no error code; anything else is mapped to one of the
// typed errors above.
type Back struct {
	logger services.LogHandler
}

func NewBack() *Back {
	return &Back{}
}

func (b *Back) SetLogger(logger services.LogHandler) {
	b.logger = logger
}

// Process inspects the back redirect query parameters. It returns nil
// for a clean return and a typed, code-wrapped error otherwise.
func (b *Back) Process(values url.Values) error {
	code := values.Get("error_code")
	if code == "" {
		return nil
	}
	if b.logger != nil {
		b.logger.Warn(fmt.Sprintf("back redirect with error code %s", code))
	}
	if err, ok := backErrorCodes[code]; ok {
		return fmt.Errorf("%s: %w", code, err)
	}
	return fmt.Errorf("%s: %w", code, ErrUnknownPaymentFailure)
}
