package internal

import (
	"strconv"
	"strings"

	"gitee.com/golang-module/dongle"

	"dotpay/entity"
)

// Field is one named parameter of an outbound gateway request. Requests
// are built as ordered slices, never maps: the checksum protocol is
// order sensitive and the field order here is part of the wire contract.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// paramOrder is the canonical concatenation order for the outbound CHK.
// The pin goes first, then every field below in exactly this order; a
// field absent from the request contributes an empty placeholder, not a
// skipped position. Reordering entries breaks interoperability with the
// gateway.
var paramOrder = []string{
	"api_version",
	"charset",
	"lang",
	"id",
	"amount",
	"currency",
	"description",
	"control",
	"channel",
	"credit_card_brand_codes",
	"blik_code",
	"ignore_last_payment_channel",
	"channel_groups",
	"url",
	"type",
	"buttontext",
	"urlc",
	"firstname",
	"lastname",
	"email",
	"street",
	"street_n1",
	"street_n2",
	"state",
	"addr3",
	"city",
	"postcode",
	"phone",
	"country",
	"code",
	"p_info",
	"p_email",
	"n_email",
	"expiration_date",
	"ch_lock",
	"deladdr",
	"recipient_account_number",
	"recipient_company",
	"recipient_first_name",
	"recipient_last_name",
	"recipient_address_street",
	"recipient_address_building",
	"recipient_address_apartment",
	"recipient_address_postcode",
	"recipient_address_city",
	"application",
	"application_version",
	"warranty",
	"bylaw",
	"personal_data",
	"credit_card_number",
	"credit_card_expiration_date_year",
	"credit_card_expiration_date_month",
	"credit_card_security_code",
	"credit_card_store",
	"credit_card_store_security_code",
	"credit_card_customer_id",
	"credit_card_id",
	"credit_card_registration",
	"credit_card_operation_type",
	"credit_card_avs",
	"credit_card_threeds",
	"customer",
	"gp_token",
	"ap_token",
	"blik_payment_data",
}

// FormatAmount renders an amount the way the gateway hashes it:
// two decimal places, dot separator.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// formatAmountString normalizes a wire amount ("10.5" -> "10.50").
// Empty input stays empty: optional amounts contribute an empty
// placeholder to hash input.
func formatAmountString(amount string) string {
	if amount == "" {
		return ""
	}
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return amount
	}
	return FormatAmount(f)
}

// concat joins the pin and the given values into one hash input string.
func concat(pin string, values []string) string {
	var b strings.Builder
	b.WriteString(pin)
	for _, v := range values {
		b.WriteString(v)
	}
	return b.String()
}

func sha256hex(input string) string {
	return dongle.Encrypt.FromString(input).BySha256().ToHexString()
}

// CalculateCHK computes the outbound integrity hash over the prepared
// request fields and the multimerchant sub-payments. Fields not present
// in the request contribute empty placeholders; each sub-payment appends
// id, amount, currency, description and id again, in request order.
func CalculateCHK(pin string, fields []Field, subPayments []entity.SubPayment) string {
	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	values := make([]string, 0, len(paramOrder)+len(subPayments)*5)
	for _, name := range paramOrder {
		values = append(values, byName[name])
	}
	for _, sub := range subPayments {
		id := strconv.Itoa(sub.Id)
		values = append(values, id, sub.FormattedAmount(), sub.Currency, sub.Description, id)
	}
	return sha256hex(concat(pin, values))
}
