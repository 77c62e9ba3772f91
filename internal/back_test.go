package internal

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackProcess(t *testing.T) {
	back := NewBack()
	back.SetLogger(nopLogger{})

	t.Run("CleanReturn", func(t *testing.T) {
		assert.NoError(t, back.Process(url.Values{}))
		assert.NoError(t, back.Process(url.Values{"status": {"OK"}}))
	})

	t.Run("KnownCodes", func(t *testing.T) {
		cases := []struct {
			code string
			want error
		}{
			{"PAYMENT_EXPIRED", ErrPaymentExpired},
			{"UNKNOWN_CHANNEL", ErrUnknownChannel},
			{"DISABLED_CHANNEL", ErrDisabledChannel},
			{"BLOCKED_ACCOUNT", ErrBlockedAccount},
			{"INACTIVE_SELLER", ErrInactiveSeller},
			{"AMOUNT_TOO_LOW", ErrAmountTooLow},
			{"AMOUNT_TOO_HIGH", ErrAmountTooHigh},
			{"BAD_OR_MISSING_MULTIMERCHANT_DATA", ErrBadMultimerchant},
			{"HASH_NOT_EQUAL_CHK", ErrHashNotEqualChk},
		}
		for _, tc := range cases {
			t.Run(tc.code, func(t *testing.T) {
				err := back.Process(url.Values{"error_code": {tc.code}})
				assert.ErrorIs(t, err, tc.want)
				assert.Contains(t, err.Error(), tc.code)
			})
		}
	})

	t.Run("UnknownCode", func(t *testing.T) {
		err := back.Process(url.Values{"error_code": {"SOMETHING_NEW"}})
		assert.ErrorIs(t, err, ErrUnknownPaymentFailure)
		assert.Contains(t, err.Error(), "SOMETHING_NEW")
	})
}
