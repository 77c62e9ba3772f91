// Package config provides configuration management for the dotpay
// integration service. Configuration can be loaded from YAML files and
// overridden by environment variables.
package config

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

// Gateway endpoints; the test pair is used when the seller runs in test mode.
const (
	paymentUrl     = "https://ssl.dotpay.pl/t2/"
	testPaymentUrl = "https://ssl.dotpay.pl/test_payment/"
	sellerUrl      = "https://ssl.dotpay.pl/s2/login/"
	testSellerUrl  = "https://ssl.dotpay.pl/test_seller/"
)

// Config holds all configuration for the integration service.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug    bool  `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	LogRecords int64 `yaml:"log_records" env:"LOG_RECORDS" env-default:"0"`
	Listen     struct {
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5200"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Seller struct {
		Id       int    `yaml:"id" env:"SELLER_ID" env-default:"0"`
		Pin      string `yaml:"pin" env:"SELLER_PIN" env-default:""`
		TestMode bool   `yaml:"test_mode" env:"SELLER_TEST_MODE" env-default:"true"`
		Username string `yaml:"username" env:"SELLER_API_USERNAME" env-default:""`
		Password string `yaml:"password" env:"SELLER_API_PASSWORD" env-default:""`
	} `yaml:"seller"`
	// FccSeller is the separate merchant account used for foreign
	// currency card payments; empty id disables the FCC channel.
	FccSeller struct {
		Id  int    `yaml:"id" env:"FCC_SELLER_ID" env-default:"0"`
		Pin string `yaml:"pin" env:"FCC_SELLER_PIN" env-default:""`
	} `yaml:"fcc_seller"`
	Gateway struct {
		PaymentUrl     string `yaml:"payment_url" env:"GATEWAY_PAYMENT_URL" env-default:""`
		TestPaymentUrl string `yaml:"test_payment_url" env:"GATEWAY_TEST_PAYMENT_URL" env-default:""`
		SellerUrl      string `yaml:"seller_url" env:"GATEWAY_SELLER_URL" env-default:""`
		TestSellerUrl  string `yaml:"test_seller_url" env:"GATEWAY_TEST_SELLER_URL" env-default:""`
	} `yaml:"gateway"`
	Channels struct {
		Enabled       bool     `yaml:"enabled" env:"CHANNELS_ENABLED" env-default:"true"`
		MainVisible   bool     `yaml:"main_visible" env:"CHANNEL_MAIN_VISIBLE" env-default:"true"`
		BlikVisible   bool     `yaml:"blik_visible" env:"CHANNEL_BLIK_VISIBLE" env-default:"true"`
		OcVisible     bool     `yaml:"oc_visible" env:"CHANNEL_OC_VISIBLE" env-default:"false"`
		FccVisible    bool     `yaml:"fcc_visible" env:"CHANNEL_FCC_VISIBLE" env-default:"false"`
		OtherVisible  bool     `yaml:"other_visible" env:"CHANNEL_OTHER_VISIBLE" env-default:"true"`
		FccCurrencies []string `yaml:"fcc_currencies" env:"CHANNEL_FCC_CURRENCIES" env-default:"EUR,USD,GBP,CZK,SEK"`
	} `yaml:"channels"`
	Currencies []string `yaml:"currencies" env:"CURRENCIES" env-default:"PLN,EUR,USD,GBP,CZK,SEK"`
	Shop       struct {
		Name  string `yaml:"name" env:"SHOP_NAME" env-default:""`
		Email string `yaml:"email" env:"SHOP_EMAIL" env-default:""`
	} `yaml:"shop"`
	Callback struct {
		// AllowedIPs are the gateway addresses permitted to deliver
		// notifications; OfficeIP is the additional address used for
		// manual verification.
		AllowedIPs []string `yaml:"allowed_ips" env:"CALLBACK_ALLOWED_IPS" env-default:"195.150.9.37"`
		OfficeIP   string   `yaml:"office_ip" env:"CALLBACK_OFFICE_IP" env-default:""`
		CheckProxy bool     `yaml:"check_proxy" env:"CALLBACK_CHECK_PROXY" env-default:"false"`
	} `yaml:"callback"`
}

var instance *Config
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables.
// This function uses a singleton pattern and only loads the config once.
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("load config: %w; %s", err, desc)
			instance = nil
		}
	})
	return instance, err
}

// IsGatewayEnabled reports whether payments in the given currency may be
// routed through the gateway at all: the shop-wide enable flag must be on
// and the currency must be on the allow-list.
func (c *Config) IsGatewayEnabled(currency string) bool {
	if !c.Channels.Enabled {
		return false
	}
	for _, cur := range c.Currencies {
		if cur == currency {
			return true
		}
	}
	return false
}

// IsFccCurrency reports whether the currency is handled by the foreign
// currency card account.
func (c *Config) IsFccCurrency(currency string) bool {
	for _, cur := range c.Channels.FccCurrencies {
		if cur == currency {
			return true
		}
	}
	return false
}

// PinForAccount selects the pin matching a notification's account id:
// the primary seller or the foreign-currency seller. The second return
// value is false when the account id belongs to neither.
func (c *Config) PinForAccount(accountId string) (string, bool) {
	id, err := strconv.Atoi(accountId)
	if err != nil {
		return "", false
	}
	if id == c.Seller.Id {
		return c.Seller.Pin, true
	}
	if c.FccSeller.Id != 0 && id == c.FccSeller.Id {
		return c.FccSeller.Pin, true
	}
	return "", false
}

// PaymentUrl returns the payment API base for the configured mode.
// Explicit gateway URLs in the config override the defaults, which lets
// tests point the service at a local stub.
func (c *Config) PaymentUrl() string {
	if c.Seller.TestMode {
		if c.Gateway.TestPaymentUrl != "" {
			return c.Gateway.TestPaymentUrl
		}
		return testPaymentUrl
	}
	if c.Gateway.PaymentUrl != "" {
		return c.Gateway.PaymentUrl
	}
	return paymentUrl
}

// SellerUrl returns the seller API base for the configured mode.
func (c *Config) SellerUrl() string {
	if c.Seller.TestMode {
		if c.Gateway.TestSellerUrl != "" {
			return c.Gateway.TestSellerUrl
		}
		return testSellerUrl
	}
	if c.Gateway.SellerUrl != "" {
		return c.Gateway.SellerUrl
	}
	return sellerUrl
}
