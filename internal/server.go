package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"dotpay/config"
	"dotpay/entity"
	"dotpay/services"
)

const (
	paymentForm   = "/payment/form"
	channelList   = "/channels"
	registerOrder = "/register"
	paymentNotify = "/notify"
	paymentBack   = "/back"
	payoutOrder   = "/payout"
	storedCard    = "/cards/:id"
)

// Server exposes the SDK to the integrating shop: it builds redirect
// forms, lists checkout channels, registers orders and receives the
// gateway's notification and back calls.
type Server struct {
	conf       *config.Config
	httpServer *http.Server
	lister     *ChannelLister
	confirm    *Confirmation
	back       *Back
	register   *RegisterOrder
	sellerApi  *SellerApi
	database   services.Database
	logger     services.LogHandler
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf: conf,
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.GET(paymentForm, s.paymentForm)
	router.GET(channelList, s.channelList)
	router.POST(registerOrder, s.registerOrder)
	router.POST(paymentNotify, s.paymentNotify)
	router.GET(paymentBack, s.paymentBack)
	router.POST(payoutOrder, s.payoutOrder)
	router.DELETE(storedCard, s.deleteCard)
}

func (s *Server) SetChannelLister(lister *ChannelLister) {
	s.lister = lister
}

func (s *Server) SetConfirmation(confirm *Confirmation) {
	s.confirm = confirm
}

func (s *Server) SetBack(back *Back) {
	s.back = back
}

func (s *Server) SetRegisterOrder(register *RegisterOrder) {
	s.register = register
}

func (s *Server) SetSellerApi(api *SellerApi) {
	s.sellerApi = api
}

func (s *Server) SetDatabase(database services.Database) {
	s.database = database
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

// transactionFromValues assembles a transaction from request parameters,
// running every value through its model validator. A missing control is
// generated so the payment can be traced through notifications.
func (s *Server) transactionFromValues(v url.Values) (*entity.Transaction, error) {
	seller, err := entity.NewSeller(s.conf.Seller.Id, s.conf.Seller.Pin)
	if err != nil {
		return nil, err
	}
	seller.TestMode = s.conf.Seller.TestMode
	seller.WithApiCredentials(s.conf.Seller.Username, s.conf.Seller.Password)

	amount, err := strconv.ParseFloat(v.Get("amount"), 64)
	if err != nil {
		return nil, &entity.BadParameterError{Name: "amount", Value: v.Get("amount")}
	}
	payment, err := entity.NewPayment(seller, amount, v.Get("currency"), v.Get("description"))
	if err != nil {
		return nil, err
	}
	payment.Control = v.Get("control")
	if payment.Control == "" {
		payment.Control = uuid.NewString()
	}

	customer, err := entity.NewCustomer(v.Get("email"), v.Get("firstname"), v.Get("lastname"))
	if err != nil {
		return nil, err
	}
	if lang := v.Get("lang"); lang != "" && !customer.SetLanguage(lang) {
		s.logger.Warn(fmt.Sprintf("unsupported language %q, falling back to %s", lang, entity.DefaultLanguage))
	}
	optional := []struct {
		value string
		set   func(string) error
	}{
		{v.Get("street"), customer.SetStreet},
		{v.Get("street_n1"), customer.SetBuildingNumber},
		{v.Get("street_n2"), customer.SetFlatNumber},
		{v.Get("city"), customer.SetCity},
		{v.Get("postcode"), customer.SetPostCode},
		{v.Get("phone"), customer.SetPhone},
		{v.Get("country"), customer.SetCountry},
	}
	for _, field := range optional {
		if field.value == "" {
			continue
		}
		if err = field.set(field.value); err != nil {
			return nil, err
		}
	}

	transaction, err := entity.NewTransaction(customer, payment, v.Get("url"), v.Get("urlc"))
	if err != nil {
		return nil, err
	}
	if code := v.Get("blik_code"); code != "" {
		if err = transaction.SetBlikCode(code); err != nil {
			return nil, err
		}
	}
	transaction.CustomerId = v.Get("customer_id")
	transaction.CardId = v.Get("card_id")
	transaction.StoreCard = v.Get("store_card") == "1"
	return transaction, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, reqID string, err error) {
	var badParameter *entity.BadParameterError
	if errors.As(err, &badParameter) {
		s.logger.Warn(fmt.Sprintf("[%s] %v", reqID, err))
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.logger.Error(fmt.Sprintf("[%s] request failed", reqID), err)
	w.WriteHeader(http.StatusInternalServerError)
}

// paymentForm builds the outbound redirect form for the requested
// channel and stores the payment record the confirmation processor
// will verify notifications against.
func (s *Server) paymentForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	transaction, err := s.transactionFromValues(r.URL.Query())
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}

	code := r.URL.Query().Get("channel")
	if code == "" {
		code = CodeDotpay
	}
	channel, err := NewChannel(ctx, code, s.conf, transaction, s.lister)
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}
	if !channel.IsVisible() {
		s.logger.Warn(fmt.Sprintf("[%s] channel %s not visible for %s", reqID, code, transaction.Identifier()))
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "channel not visible"})
		return
	}
	if !channel.IsAvailable() {
		s.logger.Warn(fmt.Sprintf("[%s] channel %s not available for %s", reqID, code, transaction.Identifier()))
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "channel not available"})
		return
	}

	if s.database != nil {
		if err = s.database.SavePayment(ctx, entity.NewPaymentRecord(transaction, channel.Code())); err != nil {
			s.logger.Error(fmt.Sprintf("[%s] save payment", reqID), err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	form := NewPaymentForm(s.conf, channel, transaction)
	s.logger.Info(fmt.Sprintf("[%s] payment form for control %s via %s", reqID, transaction.Payment.Control, channel.Code()))
	s.writeJSON(w, http.StatusOK, form)
}

type channelSummary struct {
	Code       string                 `json:"code"`
	ChannelId  int                    `json:"channel_id,omitempty"`
	Agreements []entity.AgreementForm `json:"agreements,omitempty"`
}

// channelList reports the channels that are both visible for the shop
// and available on the gateway for the given transaction parameters.
func (s *Server) channelList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	transaction, err := s.transactionFromValues(r.URL.Query())
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}

	channels, err := VisibleChannels(ctx, s.conf, transaction, s.lister)
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}
	summaries := make([]channelSummary, 0, len(channels))
	for _, ch := range channels {
		summaries = append(summaries, channelSummary{
			Code:       ch.Code(),
			ChannelId:  ch.ChannelId(),
			Agreements: ch.Agreements(),
		})
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

// registerOrder creates a payment server side and returns the customer
// instruction for cash/transfer channels.
func (s *Server) registerOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	if err := r.ParseForm(); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] register order: parse body: %v", reqID, err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	transaction, err := s.transactionFromValues(r.PostForm)
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}

	code := r.PostForm.Get("channel")
	if code == "" {
		code = CodeDotpay
	}
	channel, err := NewChannel(ctx, code, s.conf, transaction, s.lister)
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}
	if !channel.IsVisible() || !channel.IsAvailable() {
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "channel not offered"})
		return
	}

	if s.database != nil {
		if err = s.database.SavePayment(ctx, entity.NewPaymentRecord(transaction, channel.Code())); err != nil {
			s.logger.Error(fmt.Sprintf("[%s] save payment", reqID), err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	instruction, err := s.register.Register(ctx, channel, transaction)
	if err != nil {
		if errors.Is(err, ErrUnknownPaymentFailure) || isBackError(err) {
			s.logger.Warn(fmt.Sprintf("[%s] register order: %v", reqID, err))
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error(fmt.Sprintf("[%s] register order", reqID), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusCreated, instruction)
}

// paymentNotify receives the gateway's asynchronous notification. The
// confirmation processor gates the call; its rejections answer non-2xx
// so the gateway retries by its own policy.
func (s *Server) paymentNotify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	err := s.confirm.Process(ctx, r)
	if err != nil {
		var confirmationErr *ConfirmationError
		if errors.As(err, &confirmationErr) {
			s.logger.Warn(fmt.Sprintf("[%s] %v", reqID, err))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var badParameter *entity.BadParameterError
		if errors.As(err, &badParameter) {
			s.logger.Warn(fmt.Sprintf("[%s] %v", reqID, err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.logger.Error(fmt.Sprintf("[%s] payment notify", reqID), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// the gateway expects a literal OK body as the acknowledgement
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write([]byte("OK")); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] write notify response", reqID), err)
	}
}

// paymentBack handles the customer's return from the gateway.
func (s *Server) paymentBack(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	if err := s.back.Process(r.URL.Query()); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] payment back: %v", reqID, err))
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusOK)
}

type payoutOrderRequest struct {
	Currency  string `json:"currency"`
	Transfers []struct {
		Amount      float64 `json:"amount"`
		Control     string  `json:"control"`
		Description string  `json:"description"`
		Recipient   struct {
			Name   string `json:"name"`
			Number string `json:"number"`
		} `json:"recipient"`
	} `json:"transfers"`
}

// payoutOrder submits a withdrawal of collected funds through the
// seller API. Transfer amounts and recipient accounts are validated by
// the payout model before anything leaves the service.
func (s *Server) payoutOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	var request payoutOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] payout: parse body: %v", reqID, err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	payout, err := entity.NewPayout(request.Currency)
	if err != nil {
		s.writeError(w, reqID, err)
		return
	}
	for _, t := range request.Transfers {
		recipient, e := entity.NewBankAccount(t.Recipient.Name, t.Recipient.Number)
		if e != nil {
			s.writeError(w, reqID, e)
			return
		}
		if e = payout.AddTransfer(t.Amount, t.Control, t.Description, recipient); e != nil {
			s.writeError(w, reqID, e)
			return
		}
	}
	if len(payout.Transfers) == 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payout without transfers"})
		return
	}

	if err = s.sellerApi.MakePayout(ctx, payout); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payout", reqID), err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	s.logger.Info(fmt.Sprintf("[%s] payout of %d transfers accepted", reqID, len(payout.Transfers)))
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// deleteCard deregisters a stored one-click card.
func (s *Server) deleteCard(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	cardId := params.ByName("id")
	if cardId == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.sellerApi.DeleteCard(ctx, cardId); err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.logger.Error(fmt.Sprintf("[%s] delete card %s", reqID, cardId), err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	s.logger.Info(fmt.Sprintf("[%s] card %s deregistered", reqID, cardId))
	w.WriteHeader(http.StatusNoContent)
}

func isBackError(err error) bool {
	for _, mapped := range backErrorCodes {
		if errors.Is(err, mapped) {
			return true
		}
	}
	return false
}
