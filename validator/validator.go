// Package validator provides format checks for payment request fields.
// Validators are pure functions; they report whether a value is acceptable
// and never modify it.
package validator

import (
	"math"
	"regexp"
	"strings"
)

// SupportedCurrencies lists currency codes accepted by the gateway.
var SupportedCurrencies = []string{
	"PLN", "EUR", "USD", "GBP", "JPY", "CZK", "SEK",
	"UAH", "RON", "NOK", "DKK", "CHF", "CAD", "RUB", "HUF",
}

// SupportedLanguages lists interface languages accepted by the gateway.
var SupportedLanguages = []string{
	"pl", "en", "de", "it", "fr", "es", "cs", "ru", "hu", "ro", "uk", "sk", "lv", "lt",
}

var (
	rePin             = regexp.MustCompile(`^[A-Za-z0-9]{16,32}$`)
	reAmount          = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
	reEmail           = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	reURL             = regexp.MustCompile(`^https?://[^\s]+$`)
	reName            = regexp.MustCompile(`^[\p{L} .'-]{1,100}$`)
	reStreet          = regexp.MustCompile(`^[\p{L}0-9 .,/'-]{1,100}$`)
	rePostCode        = regexp.MustCompile(`^[A-Za-z0-9 -]{2,20}$`)
	rePhone           = regexp.MustCompile(`^\+?[0-9 -]{6,20}$`)
	reBlikCode        = regexp.MustCompile(`^[0-9]{6}$`)
	reOperationNumber = regexp.MustCompile(`^[A-Z0-9]+-[0-9]+$`)
	reChannelId       = regexp.MustCompile(`^[0-9]{1,4}$`)
	reBankAccount     = regexp.MustCompile(`^[A-Z]{0,2}[0-9]{15,34}$`)
	reCountry         = regexp.MustCompile(`^[A-Za-z]{2,3}$`)
)

// ValidId checks a seller account id: positive and within the gateway range.
func ValidId(id int) bool {
	return id > 0 && id <= 999999999
}

// ValidPin checks a seller pin: 16 to 32 alphanumeric characters.
func ValidPin(pin string) bool {
	return rePin.MatchString(pin)
}

// ValidAmount checks a payment amount: finite, positive, at most two
// decimal places. NaN and infinities are rejected so a parsed "Inf"
// never reaches the two-decimal wire format.
func ValidAmount(amount float64) bool {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return false
	}
	if amount <= 0 {
		return false
	}
	cents := amount * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

// ValidAmountString checks the wire form of an amount.
func ValidAmountString(amount string) bool {
	return reAmount.MatchString(amount)
}

// ValidCurrency checks a currency code against the supported set.
func ValidCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

// ValidLanguage checks a language code against the supported set.
func ValidLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == strings.ToLower(lang) {
			return true
		}
	}
	return false
}

func ValidEmail(email string) bool {
	return len(email) <= 100 && reEmail.MatchString(email)
}

func ValidUrl(url string) bool {
	return len(url) <= 2048 && reURL.MatchString(url)
}

func ValidName(name string) bool {
	return reName.MatchString(name)
}

func ValidStreet(street string) bool {
	return reStreet.MatchString(street)
}

func ValidPostCode(code string) bool {
	return rePostCode.MatchString(code)
}

func ValidPhone(phone string) bool {
	return rePhone.MatchString(phone)
}

func ValidCountry(country string) bool {
	return reCountry.MatchString(country)
}

// ValidBlikCode checks a BLIK authorization code: exactly six digits.
func ValidBlikCode(code string) bool {
	return reBlikCode.MatchString(code)
}

// ValidOperationNumber checks a gateway operation number, e.g. "M1234-5678".
func ValidOperationNumber(number string) bool {
	return reOperationNumber.MatchString(number)
}

func ValidChannelId(id string) bool {
	return reChannelId.MatchString(id)
}

func ValidBankAccount(number string) bool {
	return reBankAccount.MatchString(strings.ReplaceAll(number, " ", ""))
}
