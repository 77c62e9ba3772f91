package entity

import (
	"net/url"
	"time"
)

// Notification is an asynchronous callback from the gateway reporting an
// operation's state. Nothing in it may be trusted before the confirmation
// processor has verified the signature.
type Notification struct {
	Operation      *Operation  `json:"operation" bson:"operation"`
	ShopName       string      `json:"p_info" bson:"shop_name"`
	ShopEmail      string      `json:"p_email" bson:"shop_email"`
	ChannelId      string      `json:"channel" bson:"channel_id"`
	ChannelCountry string      `json:"channel_country" bson:"channel_country"`
	IpCountry      string      `json:"geoip_country" bson:"ip_country"`
	CreditCard     *CreditCard `json:"credit_card,omitempty" bson:"credit_card,omitempty"`
	Signature      string      `json:"signature" bson:"signature"`
}

// NotificationFromValues parses a flattened notification payload.
// The embedded operation is validated field by field; the card block is
// optional and only present for card channels.
func NotificationFromValues(v url.Values) (*Notification, error) {
	operation, err := OperationFromValues(v)
	if err != nil {
		return nil, err
	}
	card := CreditCardFromValues(v)
	operation.PaymentMethod.CreditCard = card
	return &Notification{
		Operation:      operation,
		ShopName:       v.Get("p_info"),
		ShopEmail:      v.Get("p_email"),
		ChannelId:      v.Get("channel"),
		ChannelCountry: v.Get("channel_country"),
		IpCountry:      v.Get("geoip_country"),
		CreditCard:     card,
		Signature:      v.Get("signature"),
	}, nil
}

// NotificationRecord is the stored trace of one received notification.
type NotificationRecord struct {
	OperationNumber string            `json:"operation_number" bson:"operation_number"`
	Control         string            `json:"control" bson:"control"`
	ChannelId       string            `json:"channel_id" bson:"channel_id"`
	RemoteIp        string            `json:"remote_ip" bson:"remote_ip"`
	Values          map[string]string `json:"values" bson:"values"`
	TimeReceived    time.Time         `json:"time_received" bson:"time_received"`
}

// NewNotificationRecord flattens the raw payload for storage.
func NewNotificationRecord(n *Notification, remoteIp string, v url.Values) *NotificationRecord {
	values := make(map[string]string, len(v))
	for key := range v {
		if key == "signature" {
			continue
		}
		values[key] = v.Get(key)
	}
	return &NotificationRecord{
		OperationNumber: n.Operation.Number,
		Control:         n.Operation.Control,
		ChannelId:       n.ChannelId,
		RemoteIp:        remoteIp,
		Values:          values,
		TimeReceived:    time.Now(),
	}
}
