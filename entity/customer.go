package entity

import (
	"strings"

	"dotpay/validator"
)

// DefaultLanguage is used when a customer supplies an unsupported language.
const DefaultLanguage = "pl"

// Customer carries payer details forwarded to the gateway checkout page.
// Address fields are optional; when set they must pass format validation.
type Customer struct {
	Email          string `json:"email" bson:"email"`
	FirstName      string `json:"first_name" bson:"first_name"`
	LastName       string `json:"last_name" bson:"last_name"`
	Street         string `json:"street" bson:"street"`
	BuildingNumber string `json:"building_number" bson:"building_number"`
	FlatNumber     string `json:"flat_number" bson:"flat_number"`
	City           string `json:"city" bson:"city"`
	PostCode       string `json:"post_code" bson:"post_code"`
	Phone          string `json:"phone" bson:"phone"`
	Country        string `json:"country" bson:"country"`
	Language       string `json:"language" bson:"language"`
}

// NewCustomer validates the mandatory payer fields. Language starts at the
// default and can be changed with SetLanguage.
func NewCustomer(email, firstName, lastName string) (*Customer, error) {
	if !validator.ValidEmail(email) {
		return nil, badParameter("email", email)
	}
	if firstName != "" && !validator.ValidName(firstName) {
		return nil, badParameter("firstname", firstName)
	}
	if lastName != "" && !validator.ValidName(lastName) {
		return nil, badParameter("lastname", lastName)
	}
	return &Customer{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Language:  DefaultLanguage,
	}, nil
}

// SetLanguage stores a supported language code, falling back to the default
// for anything else. The return value reports whether the given code was
// accepted, so callers can log the fallback instead of losing it silently.
func (c *Customer) SetLanguage(lang string) bool {
	lang = strings.ToLower(lang)
	if validator.ValidLanguage(lang) {
		c.Language = lang
		return true
	}
	c.Language = DefaultLanguage
	return false
}

func (c *Customer) SetStreet(street string) error {
	if !validator.ValidStreet(street) {
		return badParameter("street", street)
	}
	c.Street = street
	return nil
}

func (c *Customer) SetBuildingNumber(number string) error {
	if !validator.ValidStreet(number) {
		return badParameter("street_n1", number)
	}
	c.BuildingNumber = number
	return nil
}

func (c *Customer) SetFlatNumber(number string) error {
	if !validator.ValidStreet(number) {
		return badParameter("street_n2", number)
	}
	c.FlatNumber = number
	return nil
}

func (c *Customer) SetCity(city string) error {
	if !validator.ValidName(city) {
		return badParameter("city", city)
	}
	c.City = city
	return nil
}

func (c *Customer) SetPostCode(code string) error {
	if !validator.ValidPostCode(code) {
		return badParameter("postcode", code)
	}
	c.PostCode = code
	return nil
}

func (c *Customer) SetPhone(phone string) error {
	if !validator.ValidPhone(phone) {
		return badParameter("phone", phone)
	}
	c.Phone = phone
	return nil
}

func (c *Customer) SetCountry(country string) error {
	if !validator.ValidCountry(country) {
		return badParameter("country", country)
	}
	c.Country = strings.ToUpper(country)
	return nil
}
