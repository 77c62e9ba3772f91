package internal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotpay/config"
	"dotpay/entity"
)

func sellerApiConfig(sellerUrl string) *config.Config {
	conf := &config.Config{}
	conf.Seller.Id = 123456
	conf.Seller.Pin = testPin
	conf.Seller.TestMode = true
	conf.Gateway.TestSellerUrl = sellerUrl + "/"
	return conf
}

func TestGetAccount(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":123456,"status":"active","store_name":"Example Shop"}`))
	}))
	defer server.Close()

	api := NewSellerApi(sellerApiConfig(server.URL), NewResource())
	account, err := api.GetAccount(context.Background(), 123456)
	require.NoError(t, err)
	assert.Equal(t, "/api/accounts/123456/", gotPath)
	assert.Equal(t, "Example Shop", account.Name)
	assert.Equal(t, "active", account.Status)
}

func TestGetOperationCard(t *testing.T) {
	t.Run("CardOperation", func(t *testing.T) {
		body := `{"number":"M1234-5678","payment_method":{"channel_id":248,"credit_card":{"credit_card_id":"card-9"}}}`
		server := statusServer(http.StatusOK, body)
		defer server.Close()

		api := NewSellerApi(sellerApiConfig(server.URL), NewResource())
		card, err := api.GetOperationCard(context.Background(), "M1234-5678")
		require.NoError(t, err)
		require.NotNil(t, card)
		assert.Equal(t, "card-9", card.CardId)
	})

	t.Run("NonCardOperation", func(t *testing.T) {
		server := statusServer(http.StatusOK, `{"number":"M1234-5678","payment_method":{"channel_id":73}}`)
		defer server.Close()

		api := NewSellerApi(sellerApiConfig(server.URL), NewResource())
		card, err := api.GetOperationCard(context.Background(), "M1234-5678")
		require.NoError(t, err)
		assert.Nil(t, card)
	})
}

func TestDeleteCard(t *testing.T) {
	t.Run("Deregistered", func(t *testing.T) {
		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		api := NewSellerApi(sellerApiConfig(server.URL), NewResource())
		err := api.DeleteCard(context.Background(), "card-9")
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/api/cards/card-9/", gotPath)
	})

	t.Run("UnknownCard", func(t *testing.T) {
		server := statusServer(http.StatusNotFound, "")
		defer server.Close()

		api := NewSellerApi(sellerApiConfig(server.URL), NewResource())
		err := api.DeleteCard(context.Background(), "card-404")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func testPayout(t *testing.T) *entity.Payout {
	t.Helper()
	payout, err := entity.NewPayout("PLN")
	require.NoError(t, err)
	recipient, err := entity.NewBankAccount("Example Shop sp. z o.o.", "PL61109010140000071219812874")
	require.NoError(t, err)
	require.NoError(t, payout.AddTransfer(120.5, "payout-1", "week 35 settlement", recipient))
	return payout
}

func TestMakePayout(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		var gotPath string
		var gotRequest payoutRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &gotRequest)
			_, _ = w.Write([]byte(`{"detail":"ok"}`))
		}))
		defer server.Close()

		api := NewSellerApi(sellerApiConfig(server.URL), NewResource())
		err := api.MakePayout(context.Background(), testPayout(t))
		require.NoError(t, err)

		assert.Equal(t, "/api/accounts/123456/payout/", gotPath)
		assert.Equal(t, "PLN", gotRequest.Currency)
		require.Len(t, gotRequest.Transfers, 1)
		assert.Equal(t, "120.50", gotRequest.Transfers[0].Amount)
		assert.Equal(t, "PL61109010140000071219812874", gotRequest.Transfers[0].Recipient.AccountNumber)
	})

	t.Run("RejectedWithDetail", func(t *testing.T) {
		server := statusServer(http.StatusBadRequest, `{"detail":"insufficient funds"}`)
		defer server.Close()

		api := NewSellerApi(sellerApiConfig(server.URL), NewResource())
		err := api.MakePayout(context.Background(), testPayout(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient funds")
	})

	t.Run("GatewayFailure", func(t *testing.T) {
		server := statusServer(http.StatusServiceUnavailable, "")
		defer server.Close()

		api := NewSellerApi(sellerApiConfig(server.URL), NewResource())
		err := api.MakePayout(context.Background(), testPayout(t))
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
