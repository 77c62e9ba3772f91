package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"dotpay/config"
	"dotpay/entity"
	"dotpay/services"
)

// ChannelLister fetches the gateway channel-discovery list for a
// transaction and memoizes it by transaction identifier, so repeated
// channel constructions for the same seller/amount/currency/language
// tuple cost a single remote call.
type ChannelLister struct {
	conf     *config.Config
	resource *Resource
	logger   services.LogHandler
	buffer   sync.Map // map[string]*entity.ChannelListResponse
}

func NewChannelLister(conf *config.Config, resource *Resource) *ChannelLister {
	return &ChannelLister{
		conf:     conf,
		resource: resource,
	}
}

func (l *ChannelLister) SetLogger(logger services.LogHandler) {
	l.logger = logger
}

// Get returns the channel list for the transaction, fetching it on the
// first call and serving the buffered copy afterwards.
func (l *ChannelLister) Get(ctx context.Context, transaction *entity.Transaction) (*entity.ChannelListResponse, error) {
	key := transaction.Identifier()
	if cached, ok := l.buffer.Load(key); ok {
		return cached.(*entity.ChannelListResponse), nil
	}

	payment := transaction.Payment
	url := fmt.Sprintf("%spayment_api/channels/?id=%d&amount=%s&currency=%s&lang=%s&format=json",
		l.conf.PaymentUrl(), payment.Seller.Id, payment.FormattedAmount(),
		payment.Currency, transaction.Customer.Language)

	body, err := l.resource.GetContent(ctx, url)
	if err != nil {
		return nil, err
	}

	var list entity.ChannelListResponse
	if err = json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parse channel list: %w", err)
	}
	if l.logger != nil {
		l.logger.Debug(fmt.Sprintf("channel list for %s: %d channels", key, len(list.Channels)))
	}

	l.buffer.Store(key, &list)
	return &list, nil
}
