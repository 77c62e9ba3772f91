package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidId(t *testing.T) {
	assert.True(t, ValidId(1))
	assert.True(t, ValidId(123456))
	assert.False(t, ValidId(0))
	assert.False(t, ValidId(-5))
	assert.False(t, ValidId(1000000000))
}

func TestValidPin(t *testing.T) {
	assert.True(t, ValidPin("abcdefgh12345678"))
	assert.True(t, ValidPin("abcdefgh1234567890ABCDEFGH"))
	assert.False(t, ValidPin("short"))
	assert.False(t, ValidPin("has spaces in it 1234567890"))
	assert.False(t, ValidPin(""))
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(10))
	assert.True(t, ValidAmount(10.5))
	assert.True(t, ValidAmount(0.07))
	assert.False(t, ValidAmount(0))
	assert.False(t, ValidAmount(-1))
	assert.False(t, ValidAmount(10.505))
	assert.False(t, ValidAmount(math.Inf(1)))
	assert.False(t, ValidAmount(math.Inf(-1)))
	assert.False(t, ValidAmount(math.NaN()))
}

func TestValidAmountString(t *testing.T) {
	assert.True(t, ValidAmountString("10"))
	assert.True(t, ValidAmountString("10.5"))
	assert.True(t, ValidAmountString("10.50"))
	assert.False(t, ValidAmountString("10.505"))
	assert.False(t, ValidAmountString("-1"))
	assert.False(t, ValidAmountString("10,50"))
	assert.False(t, ValidAmountString(""))
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("PLN"))
	assert.True(t, ValidCurrency("EUR"))
	assert.False(t, ValidCurrency("pln"))
	assert.False(t, ValidCurrency("XXX"))
	assert.False(t, ValidCurrency(""))
}

func TestValidLanguage(t *testing.T) {
	assert.True(t, ValidLanguage("pl"))
	assert.True(t, ValidLanguage("EN"))
	assert.False(t, ValidLanguage("xx"))
	assert.False(t, ValidLanguage(""))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("payer@example.com"))
	assert.False(t, ValidEmail("payer@example"))
	assert.False(t, ValidEmail("not an email"))
	assert.False(t, ValidEmail(""))
}

func TestValidUrl(t *testing.T) {
	assert.True(t, ValidUrl("https://shop.example.com/back"))
	assert.True(t, ValidUrl("http://localhost:8080/x"))
	assert.False(t, ValidUrl("ftp://example.com"))
	assert.False(t, ValidUrl(""))
}

func TestValidBlikCode(t *testing.T) {
	assert.True(t, ValidBlikCode("123456"))
	assert.False(t, ValidBlikCode("12345"))
	assert.False(t, ValidBlikCode("1234567"))
	assert.False(t, ValidBlikCode("12345a"))
}

func TestValidOperationNumber(t *testing.T) {
	assert.True(t, ValidOperationNumber("M1234-5678"))
	assert.True(t, ValidOperationNumber("M9999-0001"))
	assert.False(t, ValidOperationNumber("M12345678"))
	assert.False(t, ValidOperationNumber("m1234-5678"))
	assert.False(t, ValidOperationNumber(""))
}

func TestValidBankAccount(t *testing.T) {
	assert.True(t, ValidBankAccount("PL61109010140000071219812874"))
	assert.True(t, ValidBankAccount("61109010140000071219812874"))
	assert.True(t, ValidBankAccount("PL61 1090 1014 0000 0712 1981 2874"))
	assert.False(t, ValidBankAccount("PL61"))
	assert.False(t, ValidBankAccount("not-an-account"))
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+48123456789"))
	assert.True(t, ValidPhone("123 456 789"))
	assert.False(t, ValidPhone("12345"))
	assert.False(t, ValidPhone("phone"))
}

func TestValidCountry(t *testing.T) {
	assert.True(t, ValidCountry("PL"))
	assert.True(t, ValidCountry("POL"))
	assert.False(t, ValidCountry("P"))
	assert.False(t, ValidCountry("Poland"))
}
