package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotpay/config"
	"dotpay/entity"
)

const channelListBody = `{
	"channels": [
		{"id": 73, "name": "BLIK", "group": "blik"},
		{"id": 248, "name": "One click card", "group": "credit_cards"},
		{"id": 402, "name": "Foreign currency card", "group": "credit_cards"},
		{"id": 1, "name": "Bank transfer", "group": "transfers"}
	],
	"forms": [
		{"type": "consent", "code": "bylaw", "label": "Terms", "required": true}
	]
}`

func testConfig(gatewayUrl string) *config.Config {
	conf := &config.Config{}
	conf.Seller.Id = 123456
	conf.Seller.Pin = testPin
	conf.Seller.TestMode = true
	conf.Gateway.TestPaymentUrl = gatewayUrl + "/"
	conf.Channels.Enabled = true
	conf.Channels.MainVisible = true
	conf.Channels.BlikVisible = true
	conf.Channels.OcVisible = true
	conf.Channels.FccVisible = true
	conf.Channels.OtherVisible = true
	conf.Channels.FccCurrencies = []string{"EUR", "USD"}
	conf.Currencies = []string{"PLN", "EUR"}
	conf.FccSeller.Id = 654321
	conf.FccSeller.Pin = "ABCDEFGH1234567890abcdefgh"
	conf.Shop.Name = "Example Shop"
	conf.Shop.Email = "shop@example.com"
	return conf
}

func testTransaction(t *testing.T, conf *config.Config, currency string) *entity.Transaction {
	t.Helper()
	seller, err := entity.NewSeller(conf.Seller.Id, conf.Seller.Pin)
	require.NoError(t, err)
	seller.WithApiCredentials("api-user", "api-pass")
	payment, err := entity.NewPayment(seller, 10, currency, "order 77")
	require.NoError(t, err)
	payment.Control = "ctl-77"
	customer, err := entity.NewCustomer("payer@example.com", "Jan", "Kowalski")
	require.NoError(t, err)
	transaction, err := entity.NewTransaction(customer, payment,
		"https://shop.example.com/back", "https://shop.example.com/notify")
	require.NoError(t, err)
	return transaction
}

func channelListServer(status int, body string) (*httptest.Server, *int32) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	return server, &calls
}

func fieldValue(fields []Field, name string) (string, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func TestBlikChannelVisibility(t *testing.T) {
	server, _ := channelListServer(http.StatusOK, channelListBody)
	defer server.Close()
	conf := testConfig(server.URL)
	lister := NewChannelLister(conf, NewResource())

	t.Run("VisibleForPLN", func(t *testing.T) {
		blik, err := NewBlikChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)
		assert.True(t, blik.IsVisible())
		assert.True(t, blik.IsAvailable())
	})

	t.Run("HiddenForEUR", func(t *testing.T) {
		blik, err := NewBlikChannel(context.Background(), conf, testTransaction(t, conf, "EUR"), lister)
		require.NoError(t, err)
		assert.False(t, blik.IsVisible())
	})

	t.Run("HiddenWhenFlagOff", func(t *testing.T) {
		off := testConfig(server.URL)
		off.Channels.BlikVisible = false
		offLister := NewChannelLister(off, NewResource())
		blik, err := NewBlikChannel(context.Background(), off, testTransaction(t, off, "PLN"), offLister)
		require.NoError(t, err)
		assert.False(t, blik.IsVisible())
	})
}

func TestChannelAvailability(t *testing.T) {
	t.Run("GatewayNotFoundIsSoftFailure", func(t *testing.T) {
		server, _ := channelListServer(http.StatusNotFound, "")
		defer server.Close()
		conf := testConfig(server.URL)
		lister := NewChannelLister(conf, NewResource())

		blik, err := NewBlikChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)
		assert.False(t, blik.IsAvailable())
	})

	t.Run("OtherGatewayErrorPropagates", func(t *testing.T) {
		server, _ := channelListServer(http.StatusServiceUnavailable, "")
		defer server.Close()
		conf := testConfig(server.URL)
		lister := NewChannelLister(conf, NewResource())

		_, err := NewBlikChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("ChannelMissingFromListIsUnavailable", func(t *testing.T) {
		server, _ := channelListServer(http.StatusOK, `{"channels":[{"id":1}]}`)
		defer server.Close()
		conf := testConfig(server.URL)
		lister := NewChannelLister(conf, NewResource())

		blik, err := NewBlikChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)
		assert.False(t, blik.IsAvailable())
	})

	t.Run("OtherUnavailableWhenNothingLeftToAggregate", func(t *testing.T) {
		server, _ := channelListServer(http.StatusOK, `{"channels":[{"id":73},{"id":248},{"id":402}]}`)
		defer server.Close()
		conf := testConfig(server.URL)
		lister := NewChannelLister(conf, NewResource())

		other, err := NewOtherChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)
		assert.False(t, other.IsAvailable())

		// the generic widget claims nothing, so the same list keeps it available
		dotpay, err := NewDotpayChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)
		assert.True(t, dotpay.IsAvailable())
	})

	t.Run("OtherAvailableWithUnclaimedChannel", func(t *testing.T) {
		server, _ := channelListServer(http.StatusOK, `{"channels":[{"id":73},{"id":1}]}`)
		defer server.Close()
		conf := testConfig(server.URL)
		lister := NewChannelLister(conf, NewResource())

		other, err := NewOtherChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)
		assert.True(t, other.IsAvailable())
	})

	t.Run("AgreementsCachedFromResponse", func(t *testing.T) {
		server, _ := channelListServer(http.StatusOK, channelListBody)
		defer server.Close()
		conf := testConfig(server.URL)
		lister := NewChannelLister(conf, NewResource())

		blik, err := NewBlikChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)
		require.Len(t, blik.Agreements(), 1)
		assert.Equal(t, "bylaw", blik.Agreements()[0].Code)
	})
}

func TestChannelListBuffer(t *testing.T) {
	server, calls := channelListServer(http.StatusOK, channelListBody)
	defer server.Close()
	conf := testConfig(server.URL)
	lister := NewChannelLister(conf, NewResource())

	// two channel constructions for the same tuple share one remote call
	_, err := NewBlikChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
	require.NoError(t, err)
	_, err = NewDotpayChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	// a different currency is a different tuple
	_, err = NewDotpayChannel(context.Background(), conf, testTransaction(t, conf, "EUR"), lister)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestPrepareHiddenFields(t *testing.T) {
	server, _ := channelListServer(http.StatusOK, channelListBody)
	defer server.Close()
	conf := testConfig(server.URL)
	lister := NewChannelLister(conf, NewResource())

	t.Run("BlikAddsCodeAndLocksChannel", func(t *testing.T) {
		transaction := testTransaction(t, conf, "PLN")
		require.NoError(t, transaction.SetBlikCode("123456"))
		blik, err := NewBlikChannel(context.Background(), conf, transaction, lister)
		require.NoError(t, err)

		fields := blik.PrepareHiddenFields()
		channel, _ := fieldValue(fields, "channel")
		assert.Equal(t, "73", channel)
		lock, _ := fieldValue(fields, "ch_lock")
		assert.Equal(t, "1", lock)
		code, _ := fieldValue(fields, "blik_code")
		assert.Equal(t, "123456", code)
	})

	t.Run("DotpayLeavesChannelUnselected", func(t *testing.T) {
		dotpay, err := NewDotpayChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)

		fields := dotpay.PrepareHiddenFields()
		_, hasChannel := fieldValue(fields, "channel")
		assert.False(t, hasChannel)
		typ, _ := fieldValue(fields, "type")
		assert.Equal(t, "0", typ)
		lock, _ := fieldValue(fields, "ch_lock")
		assert.Equal(t, "0", lock)
	})

	t.Run("OtherIgnoresLastPaymentChannel", func(t *testing.T) {
		other, err := NewOtherChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)

		fields := other.PrepareHiddenFields()
		ignore, _ := fieldValue(fields, "ignore_last_payment_channel")
		assert.Equal(t, "1", ignore)
		lock, _ := fieldValue(fields, "ch_lock")
		assert.Equal(t, "0", lock)
	})

	t.Run("OcStoresCardWithConsent", func(t *testing.T) {
		transaction := testTransaction(t, conf, "PLN")
		transaction.CustomerId = "customer-1"
		transaction.StoreCard = true
		oc, err := NewOcChannel(context.Background(), conf, transaction, lister)
		require.NoError(t, err)

		fields := oc.PrepareHiddenFields()
		customer, _ := fieldValue(fields, "credit_card_customer_id")
		assert.Equal(t, "customer-1", customer)
		store, _ := fieldValue(fields, "credit_card_store")
		assert.Equal(t, "1", store)
		_, hasCardId := fieldValue(fields, "credit_card_id")
		assert.False(t, hasCardId)
	})

	t.Run("OcWithoutConsentRequestsNoStorage", func(t *testing.T) {
		transaction := testTransaction(t, conf, "PLN")
		transaction.CustomerId = "customer-1"
		oc, err := NewOcChannel(context.Background(), conf, transaction, lister)
		require.NoError(t, err)

		fields := oc.PrepareHiddenFields()
		_, hasStore := fieldValue(fields, "credit_card_store")
		assert.False(t, hasStore)
		_, hasCardId := fieldValue(fields, "credit_card_id")
		assert.False(t, hasCardId)
	})

	t.Run("OcChargesStoredCardById", func(t *testing.T) {
		transaction := testTransaction(t, conf, "PLN")
		transaction.CustomerId = "customer-1"
		transaction.CardId = "card-9"
		oc, err := NewOcChannel(context.Background(), conf, transaction, lister)
		require.NoError(t, err)

		fields := oc.PrepareHiddenFields()
		cardId, _ := fieldValue(fields, "credit_card_id")
		assert.Equal(t, "card-9", cardId)
		_, hasStore := fieldValue(fields, "credit_card_store")
		assert.False(t, hasStore)
	})

	t.Run("FccUsesForeignAccount", func(t *testing.T) {
		transaction := testTransaction(t, conf, "EUR")
		fcc, err := NewFccChannel(context.Background(), conf, transaction, lister)
		require.NoError(t, err)
		assert.True(t, fcc.IsVisible())

		fields := fcc.PrepareHiddenFields()
		id, _ := fieldValue(fields, "id")
		assert.Equal(t, "654321", id)
		assert.Equal(t, conf.FccSeller.Pin, fcc.Pin())
	})

	t.Run("FccHiddenForDomesticCurrency", func(t *testing.T) {
		fcc, err := NewFccChannel(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
		require.NoError(t, err)
		assert.False(t, fcc.IsVisible())
	})
}

func TestVisibleChannelsOrder(t *testing.T) {
	server, _ := channelListServer(http.StatusOK, channelListBody)
	defer server.Close()
	conf := testConfig(server.URL)
	lister := NewChannelLister(conf, NewResource())

	channels, err := VisibleChannels(context.Background(), conf, testTransaction(t, conf, "PLN"), lister)
	require.NoError(t, err)
	require.NotEmpty(t, channels)
	// the aggregate channel always resolves last
	assert.Equal(t, CodeOther, channels[len(channels)-1].Code())
}

func TestNewPaymentForm(t *testing.T) {
	server, _ := channelListServer(http.StatusOK, channelListBody)
	defer server.Close()
	conf := testConfig(server.URL)
	lister := NewChannelLister(conf, NewResource())

	transaction := testTransaction(t, conf, "PLN")
	blik, err := NewBlikChannel(context.Background(), conf, transaction, lister)
	require.NoError(t, err)

	form := NewPaymentForm(conf, blik, transaction)
	assert.Equal(t, conf.PaymentUrl(), form.Action)
	require.NotEmpty(t, form.Fields)

	// chk comes last and matches the hash of the preceding fields
	last := form.Fields[len(form.Fields)-1]
	require.Equal(t, "chk", last.Name)
	assert.Equal(t, CalculateCHK(blik.Pin(), form.Fields[:len(form.Fields)-1], nil), last.Value)
}
