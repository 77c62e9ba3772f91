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

type registerOrderRequest struct {
	Order struct {
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
		Control     string `json:"control"`
	} `json:"order"`
	Seller struct {
		AccountId int `json:"account_id"`
	} `json:"seller"`
	Payer struct {
		FirstName string `json:"first_name,omitempty"`
		LastName  string `json:"last_name,omitempty"`
		Email     string `json:"email"`
	} `json:"payer"`
	PaymentMethod struct {
		ChannelId int `json:"channel_id"`
	} `json:"payment_method"`
	Language string `json:"language"`
}

type registerOrderResponse struct {
	Operation struct {
		Number   string `json:"number"`
		Status   string `json:"status"`
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	} `json:"operation"`
	Instruction struct {
		InstructionUrl string `json:"instruction_url"`
		Title          string `json:"title"`
		IsCash         bool   `json:"is_cash"`
		BankAccount    *struct {
			Name   string `json:"name"`
			Number string `json:"number"`
		} `json:"recipient,omitempty"`
	} `json:"instruction"`
}

type gatewayErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Detail    string `json:"detail"`
}

// RegisterOrder creates payments server side through the register-order
// API, used for cash and transfer channels where the customer completes
// the payment outside the redirect flow.
type RegisterOrder struct {
	conf     *config.Config
	resource *Resource
	logger   services.LogHandler
}

func NewRegisterOrder(conf *config.Config, resource *Resource) *RegisterOrder {
	return &RegisterOrder{conf: conf, resource: resource}
}

func (r *RegisterOrder) SetLogger(logger services.LogHandler) {
	r.logger = logger
}

// Register submits the order for the given channel and derives the
// customer payment instruction from the response. The gateway answers
// 201 on success; a 400 carries a coded error payload which is mapped
// to the payment domain errors.
func (r *RegisterOrder) Register(ctx context.Context, channel Channel, transaction *entity.Transaction) (*entity.Instruction, error) {
	payment := transaction.Payment
	customer := transaction.Customer

	var request registerOrderRequest
	request.Order.Amount = payment.FormattedAmount()
	request.Order.Currency = payment.Currency
	request.Order.Description = payment.Description
	request.Order.Control = payment.Control
	request.Seller.AccountId = payment.Seller.Id
	request.Payer.FirstName = customer.FirstName
	request.Payer.LastName = customer.LastName
	request.Payer.Email = customer.Email
	request.PaymentMethod.ChannelId = channel.ChannelId()
	request.Language = customer.Language

	payload, err := json.Marshal(&request)
	if err != nil {
		return nil, fmt.Errorf("marshal register order: %w", err)
	}

	url := r.conf.PaymentUrl() + "payment_api/v1/register_order/"
	body, status, err := r.resource.PostData(ctx, url, payload)
	if err != nil {
		return nil, fmt.Errorf("register order: %w", err)
	}
	if status == http.StatusBadRequest {
		var gatewayErr gatewayErrorResponse
		if e := json.Unmarshal(body, &gatewayErr); e == nil && gatewayErr.ErrorCode != "" {
			if mapped, ok := backErrorCodes[gatewayErr.ErrorCode]; ok {
				return nil, fmt.Errorf("register order: %s: %w", gatewayErr.ErrorCode, mapped)
			}
			return nil, fmt.Errorf("register order: %s: %w", gatewayErr.ErrorCode, ErrUnknownPaymentFailure)
		}
		return nil, fmt.Errorf("register order: unrecognized gateway error: %s", string(body))
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("register order: unexpected status %d", status)
	}

	var response registerOrderResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parse register order response: %w", err)
	}

	instruction := &entity.Instruction{
		OperationNumber: response.Operation.Number,
		ChannelId:       channel.ChannelId(),
		Hash:            entity.InstructionHashFromUrl(response.Instruction.InstructionUrl),
		Amount:          response.Operation.Amount,
		Currency:        response.Operation.Currency,
		IsCash:          response.Instruction.IsCash,
		Title:           response.Instruction.Title,
	}
	if response.Instruction.BankAccount != nil {
		account, e := entity.NewBankAccount(response.Instruction.BankAccount.Name, response.Instruction.BankAccount.Number)
		if e != nil {
			return nil, fmt.Errorf("register order: %w", e)
		}
		instruction.BankAccount = account
	}
	if r.logger != nil {
		r.logger.Info(fmt.Sprintf("registered order %s for control %s", response.Operation.Number, payment.Control))
	}
	return instruction, nil
}
