package internal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"dotpay/config"
	"dotpay/entity"
)

// Channel codes.
const (
	CodeDotpay = "dotpay"
	CodeBlik   = "blik"
	CodeOc     = "oc"
	CodeFcc    = "fcc"
	CodeOther  = "other"
)

// Numeric gateway ids of the specific channels. Aggregate channels
// (dotpay, other) carry no id.
const (
	ChannelIdBlik = 73
	ChannelIdOc   = 248
	ChannelIdFcc  = 402
)

// Channel is one payment method offered on the checkout page. A channel
// is constructed bound to a transaction; construction resolves whether
// the gateway actually offers it for that seller/amount/currency tuple.
//
// Visibility is the shop-side decision (enable flags, currency rules),
// availability the gateway-side one. Callers must check both before
// building a request.
type Channel interface {
	Code() string
	ChannelId() int
	IsVisible() bool
	IsEnabled() bool
	IsAvailable() bool
	Agreements() []entity.AgreementForm
	Pin() string
	PrepareHiddenFields() []Field
}

type baseChannel struct {
	code        string
	id          int
	conf        *config.Config
	transaction *entity.Transaction
	available   bool
	agreements  []entity.AgreementForm
	// excludeIds holds ids claimed by other variants; an aggregate
	// channel only stands for what is left after removing them
	excludeIds []int
}

func (b *baseChannel) Code() string                        { return b.code }
func (b *baseChannel) ChannelId() int                      { return b.id }
func (b *baseChannel) IsAvailable() bool                   { return b.available }
func (b *baseChannel) Agreements() []entity.AgreementForm  { return b.agreements }
func (b *baseChannel) Pin() string                         { return b.conf.Seller.Pin }

// IsEnabled is the shop-wide gate shared by every variant: gateway
// enabled and transaction currency on the allow-list.
func (b *baseChannel) IsEnabled() bool {
	return b.conf.IsGatewayEnabled(b.transaction.Payment.Currency)
}

// resolveChannelInfo asks the gateway whether this channel exists for
// the bound transaction. A gateway NotFound is a soft failure returned
// as available=false; any other error propagates to the caller.
func (b *baseChannel) resolveChannelInfo(ctx context.Context, lister *ChannelLister) error {
	list, err := lister.Get(ctx, b.transaction)
	if errors.Is(err, ErrNotFound) {
		b.available = false
		return nil
	}
	if err != nil {
		return err
	}
	if b.id > 0 {
		info := list.Find(b.id)
		if info == nil || info.IsDisabled {
			b.available = false
			return nil
		}
	} else if !b.hasSelectableChannel(list) {
		b.available = false
		return nil
	}
	b.available = true
	b.agreements = list.Forms
	return nil
}

// hasSelectableChannel reports whether the list still offers something
// this aggregate can stand for: an enabled entry whose id is not
// claimed by another variant.
func (b *baseChannel) hasSelectableChannel(list *entity.ChannelListResponse) bool {
	for _, ch := range list.Channels {
		if ch.IsDisabled || b.isExcluded(ch.Id) {
			continue
		}
		return true
	}
	return false
}

func (b *baseChannel) isExcluded(id int) bool {
	for _, excluded := range b.excludeIds {
		if id == excluded {
			return true
		}
	}
	return false
}

// prepareHiddenFields assembles the canonical request fields shared by
// all variants. Empty values are omitted from the form; the checksum
// engine fills their placeholders itself.
func (b *baseChannel) prepareHiddenFields() []Field {
	t := b.transaction
	p := t.Payment
	c := t.Customer

	fields := make([]Field, 0, 28)
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, Field{Name: name, Value: value})
		}
	}

	add("api_version", "dev")
	add("id", strconv.Itoa(p.Seller.Id))
	add("amount", p.FormattedAmount())
	add("currency", p.Currency)
	add("description", p.Description)
	add("control", p.Control)
	add("lang", c.Language)
	add("url", t.BackUrl)
	add("urlc", t.ConfirmUrl)
	add("type", "0")
	add("ch_lock", "1")
	if b.id > 0 {
		add("channel", strconv.Itoa(b.id))
	}
	add("firstname", c.FirstName)
	add("lastname", c.LastName)
	add("email", c.Email)
	add("street", c.Street)
	add("street_n1", c.BuildingNumber)
	add("street_n2", c.FlatNumber)
	add("city", c.City)
	add("postcode", c.PostCode)
	add("phone", c.Phone)
	add("country", c.Country)
	add("p_info", b.conf.Shop.Name)
	add("p_email", b.conf.Shop.Email)
	add("bylaw", "1")
	add("personal_data", "1")
	return fields
}

// setField overwrites a field in place, or appends it when missing.
func setField(fields []Field, name, value string) []Field {
	for i := range fields {
		if fields[i].Name == name {
			fields[i].Value = value
			return fields
		}
	}
	return append(fields, Field{Name: name, Value: value})
}

func dropField(fields []Field, name string) []Field {
	for i := range fields {
		if fields[i].Name == name {
			return append(fields[:i], fields[i+1:]...)
		}
	}
	return fields
}

func newBaseChannel(ctx context.Context, code string, id int, conf *config.Config, transaction *entity.Transaction, lister *ChannelLister) (baseChannel, error) {
	b := baseChannel{
		code:        code,
		id:          id,
		conf:        conf,
		transaction: transaction,
	}
	if err := b.resolveChannelInfo(ctx, lister); err != nil {
		return b, fmt.Errorf("channel %s: %w", code, err)
	}
	return b, nil
}

// DotpayChannel is the generic gateway widget: no specific channel is
// selected and the customer picks one on the gateway page.
type DotpayChannel struct {
	baseChannel
}

func NewDotpayChannel(ctx context.Context, conf *config.Config, transaction *entity.Transaction, lister *ChannelLister) (*DotpayChannel, error) {
	base, err := newBaseChannel(ctx, CodeDotpay, 0, conf, transaction, lister)
	if err != nil {
		return nil, err
	}
	return &DotpayChannel{baseChannel: base}, nil
}

func (d *DotpayChannel) IsVisible() bool {
	return d.IsEnabled() && d.conf.Channels.MainVisible
}

// PrepareHiddenFields leaves the channel unselected: type and ch_lock
// are zeroed and no channel id is sent.
func (d *DotpayChannel) PrepareHiddenFields() []Field {
	fields := d.prepareHiddenFields()
	fields = setField(fields, "type", "0")
	fields = setField(fields, "ch_lock", "0")
	return dropField(fields, "channel")
}

// BlikChannel pays through a six-digit BLIK code; PLN only.
type BlikChannel struct {
	baseChannel
}

func NewBlikChannel(ctx context.Context, conf *config.Config, transaction *entity.Transaction, lister *ChannelLister) (*BlikChannel, error) {
	base, err := newBaseChannel(ctx, CodeBlik, ChannelIdBlik, conf, transaction, lister)
	if err != nil {
		return nil, err
	}
	return &BlikChannel{baseChannel: base}, nil
}

func (b *BlikChannel) IsVisible() bool {
	return b.IsEnabled() &&
		b.conf.Channels.BlikVisible &&
		b.transaction.Payment.Currency == "PLN"
}

func (b *BlikChannel) PrepareHiddenFields() []Field {
	fields := b.prepareHiddenFields()
	if b.transaction.BlikCode != "" {
		fields = setField(fields, "blik_code", b.transaction.BlikCode)
	}
	return fields
}

// OcChannel is the one-click card channel: the card is stored when the
// payer consents and charged by id afterwards. Requires seller API
// credentials.
type OcChannel struct {
	baseChannel
}

func NewOcChannel(ctx context.Context, conf *config.Config, transaction *entity.Transaction, lister *ChannelLister) (*OcChannel, error) {
	base, err := newBaseChannel(ctx, CodeOc, ChannelIdOc, conf, transaction, lister)
	if err != nil {
		return nil, err
	}
	return &OcChannel{baseChannel: base}, nil
}

func (o *OcChannel) IsVisible() bool {
	return o.IsEnabled() &&
		o.conf.Channels.OcVisible &&
		o.conf.Seller.Username != "" &&
		o.conf.Seller.Password != ""
}

// PrepareHiddenFields charges a stored card when the transaction names
// one; otherwise storage is requested only with the payer's consent.
func (o *OcChannel) PrepareHiddenFields() []Field {
	fields := o.prepareHiddenFields()
	fields = setField(fields, "credit_card_customer_id", o.transaction.CustomerId)
	if o.transaction.CardId != "" {
		return setField(fields, "credit_card_id", o.transaction.CardId)
	}
	if o.transaction.StoreCard {
		fields = setField(fields, "credit_card_store", "1")
	}
	return fields
}

// FccChannel is the foreign-currency card channel. It charges through a
// separate merchant account configured for non-PLN settlement.
type FccChannel struct {
	baseChannel
}

func NewFccChannel(ctx context.Context, conf *config.Config, transaction *entity.Transaction, lister *ChannelLister) (*FccChannel, error) {
	base, err := newBaseChannel(ctx, CodeFcc, ChannelIdFcc, conf, transaction, lister)
	if err != nil {
		return nil, err
	}
	return &FccChannel{baseChannel: base}, nil
}

func (f *FccChannel) IsVisible() bool {
	return f.IsEnabled() &&
		f.conf.Channels.FccVisible &&
		f.conf.FccSeller.Id != 0 &&
		f.conf.IsFccCurrency(f.transaction.Payment.Currency)
}

// Pin returns the foreign-currency account pin; FCC requests are hashed
// against that account, not the primary one.
func (f *FccChannel) Pin() string {
	return f.conf.FccSeller.Pin
}

func (f *FccChannel) PrepareHiddenFields() []Field {
	fields := f.prepareHiddenFields()
	return setField(fields, "id", strconv.Itoa(f.conf.FccSeller.Id))
}

// OtherChannel aggregates the remaining channels: everything the
// specific variants above do not claim. It always resolves last and,
// like DotpayChannel, sends no channel selection. When the gateway
// list holds nothing beyond the claimed ids there is nothing left to
// aggregate and the channel resolves unavailable.
type OtherChannel struct {
	baseChannel
}

func NewOtherChannel(ctx context.Context, conf *config.Config, transaction *entity.Transaction, lister *ChannelLister) (*OtherChannel, error) {
	base := baseChannel{
		code:        CodeOther,
		conf:        conf,
		transaction: transaction,
		excludeIds:  []int{ChannelIdBlik, ChannelIdOc, ChannelIdFcc},
	}
	if err := base.resolveChannelInfo(ctx, lister); err != nil {
		return nil, fmt.Errorf("channel %s: %w", CodeOther, err)
	}
	return &OtherChannel{baseChannel: base}, nil
}

func (o *OtherChannel) IsVisible() bool {
	return o.IsEnabled() && o.conf.Channels.OtherVisible
}

func (o *OtherChannel) PrepareHiddenFields() []Field {
	fields := o.prepareHiddenFields()
	fields = setField(fields, "type", "0")
	fields = setField(fields, "ch_lock", "0")
	fields = setField(fields, "ignore_last_payment_channel", "1")
	return dropField(fields, "channel")
}

// channelOrder fixes the resolution order of the family. The aggregate
// "other" channel must come last: it stands for "no specific channel
// selected" and only applies when nothing above it claimed the payment.
var channelOrder = []string{CodeBlik, CodeOc, CodeFcc, CodeDotpay, CodeOther}

// NewChannel constructs the variant with the given code.
func NewChannel(ctx context.Context, code string, conf *config.Config, transaction *entity.Transaction, lister *ChannelLister) (Channel, error) {
	switch code {
	case CodeBlik:
		return NewBlikChannel(ctx, conf, transaction, lister)
	case CodeOc:
		return NewOcChannel(ctx, conf, transaction, lister)
	case CodeFcc:
		return NewFccChannel(ctx, conf, transaction, lister)
	case CodeDotpay:
		return NewDotpayChannel(ctx, conf, transaction, lister)
	case CodeOther:
		return NewOtherChannel(ctx, conf, transaction, lister)
	default:
		return nil, fmt.Errorf("unknown channel code: %s", code)
	}
}

// VisibleChannels resolves the whole family in canonical order and
// returns the variants that are both visible and available.
func VisibleChannels(ctx context.Context, conf *config.Config, transaction *entity.Transaction, lister *ChannelLister) ([]Channel, error) {
	var channels []Channel
	for _, code := range channelOrder {
		ch, err := NewChannel(ctx, code, conf, transaction, lister)
		if err != nil {
			return nil, err
		}
		if ch.IsVisible() && ch.IsAvailable() {
			channels = append(channels, ch)
		}
	}
	return channels, nil
}
