// Package entity defines data models for the dotpay integration service.
package entity

import (
	"fmt"

	"dotpay/validator"
)

// Seller identifies a merchant account on the gateway side.
// Built once from configuration and not modified afterwards; the pin is
// only ever used as hash input and must not appear in logs or responses.
type Seller struct {
	Id       int    `json:"id" bson:"id"`
	Pin      string `json:"-" bson:"-"`
	TestMode bool   `json:"test_mode" bson:"test_mode"`
	Username string `json:"-" bson:"-"`
	Password string `json:"-" bson:"-"`
}

// NewSeller validates the account id and pin and returns an immutable seller.
func NewSeller(id int, pin string) (*Seller, error) {
	if !validator.ValidId(id) {
		return nil, badParameter("id", fmt.Sprintf("%d", id))
	}
	if !validator.ValidPin(pin) {
		return nil, badParameter("pin", "***")
	}
	return &Seller{Id: id, Pin: pin}, nil
}

// WithApiCredentials attaches seller API Basic-Auth credentials.
func (s *Seller) WithApiCredentials(username, password string) *Seller {
	s.Username = username
	s.Password = password
	return s
}

// HasApiCredentials reports whether the seller API can be used.
// The one-click card channel requires this.
func (s *Seller) HasApiCredentials() bool {
	return s.Username != "" && s.Password != ""
}
