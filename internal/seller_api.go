package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dotpay/config"
	"dotpay/entity"
	"dotpay/services"
)

// AccountInfo is the seller API view of a merchant account.
type AccountInfo struct {
	Id        int    `json:"id"`
	Status    string `json:"status"`
	Name      string `json:"store_name"`
	MccCode   string `json:"mcc_code"`
	IsBlocked bool   `json:"is_blocked"`
}

type operationResponse struct {
	Number        string `json:"number"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Control       string `json:"control"`
	Description   string `json:"description"`
	PaymentMethod struct {
		ChannelId  int                `json:"channel_id"`
		CreditCard *entity.CreditCard `json:"credit_card"`
	} `json:"payment_method"`
}

// SellerApi is the Basic-Auth client for the seller account endpoints:
// account data and operation details. The one-click card flow uses it
// to read back card identifiers after a payment settles.
type SellerApi struct {
	conf     *config.Config
	resource *Resource
	logger   services.LogHandler
}

func NewSellerApi(conf *config.Config, resource *Resource) *SellerApi {
	return &SellerApi{conf: conf, resource: resource}
}

func (a *SellerApi) SetLogger(logger services.LogHandler) {
	a.logger = logger
}

// GetAccount fetches merchant account details.
func (a *SellerApi) GetAccount(ctx context.Context, id int) (*AccountInfo, error) {
	url := fmt.Sprintf("%sapi/accounts/%d/", a.conf.SellerUrl(), id)
	body, err := a.resource.GetAuthorized(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	var account AccountInfo
	if err = json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("parse account %d: %w", id, err)
	}
	return &account, nil
}

func (a *SellerApi) getOperation(ctx context.Context, number string) (*operationResponse, error) {
	url := fmt.Sprintf("%sapi/operations/%s/", a.conf.SellerUrl(), number)
	body, err := a.resource.GetAuthorized(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("get operation %s: %w", number, err)
	}
	var operation operationResponse
	if err = json.Unmarshal(body, &operation); err != nil {
		return nil, fmt.Errorf("parse operation %s: %w", number, err)
	}
	return &operation, nil
}

// GetOperationCard returns the card block of an operation, or nil when
// the operation was not paid by card.
func (a *SellerApi) GetOperationCard(ctx context.Context, number string) (*entity.CreditCard, error) {
	operation, err := a.getOperation(ctx, number)
	if err != nil {
		return nil, err
	}
	return operation.PaymentMethod.CreditCard, nil
}

// DeleteCard deregisters a stored one-click card so it can no longer be
// charged by id.
func (a *SellerApi) DeleteCard(ctx context.Context, cardId string) error {
	url := fmt.Sprintf("%sapi/cards/%s/", a.conf.SellerUrl(), cardId)
	if _, err := a.resource.DeleteData(ctx, url); err != nil {
		return fmt.Errorf("delete card %s: %w", cardId, err)
	}
	if a.logger != nil {
		a.logger.Info(fmt.Sprintf("card %s deregistered", cardId))
	}
	return nil
}

type payoutTransferRequest struct {
	Amount      string `json:"amount"`
	Control     string `json:"control,omitempty"`
	Description string `json:"description,omitempty"`
	Recipient   struct {
		Name          string `json:"name,omitempty"`
		AccountNumber string `json:"account_number"`
	} `json:"recipient"`
}

type payoutRequest struct {
	Currency  string                  `json:"currency"`
	Transfers []payoutTransferRequest `json:"transfers"`
}

type payoutResponse struct {
	Detail string `json:"detail"`
}

// MakePayout submits a withdrawal of collected funds to the payout
// endpoint of the seller account.
func (a *SellerApi) MakePayout(ctx context.Context, payout *entity.Payout) error {
	request := payoutRequest{Currency: payout.Currency}
	for _, t := range payout.Transfers {
		var transfer payoutTransferRequest
		transfer.Amount = FormatAmount(t.Amount)
		transfer.Control = t.Control
		transfer.Description = t.Description
		transfer.Recipient.Name = t.Recipient.Name
		transfer.Recipient.AccountNumber = t.Recipient.Number
		request.Transfers = append(request.Transfers, transfer)
	}

	payload, err := json.Marshal(&request)
	if err != nil {
		return fmt.Errorf("marshal payout: %w", err)
	}

	url := fmt.Sprintf("%sapi/accounts/%d/payout/", a.conf.SellerUrl(), a.conf.Seller.Id)
	body, status, err := a.resource.PostData(ctx, url, payload)
	if err != nil {
		return fmt.Errorf("make payout: %w", err)
	}
	if status == http.StatusBadRequest {
		var response payoutResponse
		if e := json.Unmarshal(body, &response); e == nil && response.Detail != "" {
			return fmt.Errorf("make payout rejected: %s", response.Detail)
		}
		return fmt.Errorf("make payout rejected: %s", string(body))
	}
	if status != http.StatusOK && status != http.StatusAccepted {
		return fmt.Errorf("make payout: unexpected status %d", status)
	}
	if a.logger != nil {
		a.logger.Info(fmt.Sprintf("payout of %d transfers in %s accepted", len(payout.Transfers), payout.Currency))
	}
	return nil
}
