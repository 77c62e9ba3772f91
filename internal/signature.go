package internal

import (
	"crypto/subtle"

	"dotpay/entity"
)

// CalculateSignature computes the keyed hash of an inbound notification.
// The concatenation order below mirrors the outbound CHK contract: pin
// first, then each operation, card and channel field in this exact
// order, absent optional fields contributing empty placeholders.
// Formatting rules: amounts with two decimal places, the completed flag
// as "true"/"false"/"" and the datetime exactly as delivered.
func CalculateSignature(n *entity.Notification, pin string) string {
	op := n.Operation
	var card entity.CreditCard
	if n.CreditCard != nil {
		card = *n.CreditCard
	}
	values := []string{
		op.AccountId,
		op.Number,
		op.Type,
		op.Status,
		formatAmountString(op.Amount),
		op.Currency,
		formatAmountString(op.WithdrawalAmount),
		formatAmountString(op.CommissionAmount),
		op.Completed,
		formatAmountString(op.OriginalAmount),
		op.OriginalCurrency,
		op.DateTime,
		op.RelatedNumber,
		op.Control,
		op.Description,
		op.Payer.Email,
		n.ShopName,
		n.ShopEmail,
		card.IssuerNumber,
		card.MaskedNumber,
		card.ExpirationYear,
		card.ExpirationMonth,
		card.Brand.CodeName,
		card.Brand.Code,
		card.UniqueId,
		card.CardId,
		n.ChannelId,
		n.ChannelCountry,
		n.IpCountry,
	}
	return sha256hex(concat(pin, values))
}

// VerifySignature recomputes the notification signature with the given
// pin and compares it against the delivered one in constant time. Any
// mismatch is a hard authentication failure; there is no retry.
func VerifySignature(n *entity.Notification, pin string) bool {
	expected := CalculateSignature(n, pin)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.Signature)) == 1
}
