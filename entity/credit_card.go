package entity

import "net/url"

// CardBrand identifies a card scheme as reported by the gateway.
type CardBrand struct {
	Name     string `json:"name" bson:"name"`
	CodeName string `json:"codename" bson:"codename"`
	Code     string `json:"code" bson:"code"`
}

// CreditCard is the card block attached to card-channel operations.
// All fields come from the gateway; the full card number is never present.
type CreditCard struct {
	IssuerNumber    string    `json:"credit_card_issuer_identification_number" bson:"issuer_number"`
	MaskedNumber    string    `json:"credit_card_masked_number" bson:"masked_number"`
	ExpirationYear  string    `json:"credit_card_expiration_year" bson:"expiration_year"`
	ExpirationMonth string    `json:"credit_card_expiration_month" bson:"expiration_month"`
	Brand           CardBrand `json:"brand" bson:"brand"`
	UniqueId        string    `json:"credit_card_unique_identifier" bson:"unique_id"`
	CardId          string    `json:"credit_card_id" bson:"card_id"`
}

// CreditCardFromValues reads the optional card block of a flattened
// notification payload. Returns nil when no card field is present.
func CreditCardFromValues(v url.Values) *CreditCard {
	card := &CreditCard{
		IssuerNumber:    v.Get("credit_card_issuer_identification_number"),
		MaskedNumber:    v.Get("credit_card_masked_number"),
		ExpirationYear:  v.Get("credit_card_expiration_year"),
		ExpirationMonth: v.Get("credit_card_expiration_month"),
		Brand: CardBrand{
			CodeName: v.Get("credit_card_brand_codename"),
			Code:     v.Get("credit_card_brand_code"),
		},
		UniqueId: v.Get("credit_card_unique_identifier"),
		CardId:   v.Get("credit_card_id"),
	}
	if card.IssuerNumber == "" && card.MaskedNumber == "" && card.UniqueId == "" &&
		card.CardId == "" && card.Brand.CodeName == "" && card.Brand.Code == "" {
		return nil
	}
	return card
}
