package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sms-market/internal/smsmarket"
	"sms-market/internal/smsmarket/cardpay"
	"sms-market/internal/smsmarket/cryptopay"
	"sms-market/internal/smsmarket/data/database"
	"sms-market/internal/smsmarket/exchange"
	"sms-market/internal/smsmarket/fivesim"
	"sms-market/internal/smsmarket/smsman"
)

const (
	serverAddressFlag         = "a"
	serverAddressEnv          = "RUN_ADDRESS"
	serverAddressDefault      = "localhost:8080"
	dbConnectionStringFlag    = "d"
	dbConnectionStringEnv     = "DATABASE_URI"
	dbConnectionStringDefault = ""

	fiveSimBaseURLEnv    = "FIVESIM_BASE_URL"
	fiveSimAPIKeyEnv     = "FIVESIM_API_KEY"
	smsManBaseURLEnv     = "SMSMAN_BASE_URL"
	smsManTokenEnv       = "SMSMAN_TOKEN"
	cryptoBaseURLEnv     = "CRYPTOPAY_BASE_URL"
	cryptoMerchantEnv    = "CRYPTOPAY_MERCHANT_ID"
	cryptoAPIKeyEnv      = "CRYPTOPAY_API_KEY"
	cryptoSuccessURLEnv  = "CRYPTOPAY_SUCCESS_URL"
	cryptoCallbackURLEnv = "CRYPTOPAY_CALLBACK_URL"
	cardBaseURLEnv       = "CARDPAY_BASE_URL"
	cardSecretKeyEnv     = "CARDPAY_SECRET_KEY"
	cardRedirectURLEnv   = "CARDPAY_REDIRECT_URL"
	ratePrimaryURLEnv    = "RATE_PRIMARY_URL"
	rateFallbackURLEnv   = "RATE_FALLBACK_URL"
	jwtSecretEnv         = "JWT_SECRET"
	allowedOriginsEnv    = "ALLOWED_ORIGINS"

	fiveSimBaseURLDefault = "https://5sim.net"
	smsManBaseURLDefault  = "https://api.sms-man.com"
	vendorTimeout         = 15 * time.Second
	paymentTimeout        = 20 * time.Second
	rateTimeout           = 10 * time.Second
	rateTTL               = 30 * time.Minute
	localCurrency         = "NGN"
	ratePair              = "USD-NGN"
	fallbackRate          = 1550
)

var errNotConfigured = errors.New("required configuration missing")

type JWTConfig struct {
	Algorithm string
	Secret    string
}

type Config struct {
	Server          smsmarket.Config
	JWTConfig       JWTConfig
	DB              database.Config
	FiveSim         fivesim.Config
	SMSMan          smsman.Config
	CryptoPay       cryptopay.Config
	CardPay         cardpay.Config
	RateCache       exchange.Config
	RatePrimary     exchange.SourceConfig
	RateFallback    exchange.SourceConfig
	LocalCurrency   string
	ShutdownTimeout time.Duration
}

// Load reads flags and the environment. Missing secrets fail here, at
// startup, instead of per-request.
func Load() (*Config, error) {
	serverAddress := flag.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	dbConnectionString := flag.String(
		dbConnectionStringFlag,
		dbConnectionStringDefault,
		"PostgreSQL connection string",
	)

	flag.Parse()

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	if valStr, ok := os.LookupEnv(dbConnectionStringEnv); ok {
		*dbConnectionString = valStr
	}
	if *dbConnectionString == "" {
		return nil, fmt.Errorf("%w: %s", errNotConfigured, dbConnectionStringEnv)
	}

	secrets := map[string]string{}
	for _, env := range []string{
		fiveSimAPIKeyEnv,
		smsManTokenEnv,
		cryptoMerchantEnv,
		cryptoAPIKeyEnv,
		cryptoSuccessURLEnv,
		cryptoCallbackURLEnv,
		cardSecretKeyEnv,
		cardRedirectURLEnv,
		jwtSecretEnv,
	} {
		val, ok := os.LookupEnv(env)
		if !ok || val == "" {
			return nil, fmt.Errorf("%w: %s", errNotConfigured, env)
		}
		secrets[env] = val
	}

	allowedOrigins := []string{"*"}
	if valStr, ok := os.LookupEnv(allowedOriginsEnv); ok {
		allowedOrigins = strings.Split(valStr, ",")
	}

	return &Config{
		Server: smsmarket.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: time.Second * 5,
			AllowedOrigins:  allowedOrigins,
			RatePair:        ratePair,
		},
		JWTConfig: JWTConfig{
			Algorithm: "HS256",
			Secret:    secrets[jwtSecretEnv],
		},
		DB: database.Config{
			ConnectionString: *dbConnectionString,
		},
		FiveSim: fivesim.Config{
			BaseURL: envOrDefault(fiveSimBaseURLEnv, fiveSimBaseURLDefault),
			APIKey:  secrets[fiveSimAPIKeyEnv],
			Timeout: vendorTimeout,
		},
		SMSMan: smsman.Config{
			BaseURL: envOrDefault(smsManBaseURLEnv, smsManBaseURLDefault),
			Token:   secrets[smsManTokenEnv],
			Timeout: vendorTimeout,
		},
		CryptoPay: cryptopay.Config{
			BaseURL:     envOrDefault(cryptoBaseURLEnv, "https://api.cryptomus.com"),
			MerchantID:  secrets[cryptoMerchantEnv],
			APIKey:      secrets[cryptoAPIKeyEnv],
			SuccessURL:  secrets[cryptoSuccessURLEnv],
			CallbackURL: secrets[cryptoCallbackURLEnv],
			Timeout:     paymentTimeout,
		},
		CardPay: cardpay.Config{
			BaseURL:     envOrDefault(cardBaseURLEnv, "https://api.flutterwave.com"),
			SecretKey:   secrets[cardSecretKeyEnv],
			RedirectURL: secrets[cardRedirectURLEnv],
			Timeout:     paymentTimeout,
		},
		RateCache: exchange.Config{
			TTL:          rateTTL,
			FallbackRate: decimal.NewFromInt(fallbackRate),
		},
		RatePrimary: exchange.SourceConfig{
			BaseURL: envOrDefault(ratePrimaryURLEnv, "https://open.er-api.com"),
			Base:    "USD",
			Quote:   localCurrency,
			Timeout: rateTimeout,
		},
		RateFallback: exchange.SourceConfig{
			BaseURL: envOrDefault(rateFallbackURLEnv, "https://v6.exchangerate-api.com"),
			Base:    "USD",
			Quote:   localCurrency,
			Timeout: rateTimeout,
		},
		LocalCurrency:   localCurrency,
		ShutdownTimeout: time.Second * 5,
	}, nil
}

func envOrDefault(env, def string) string {
	if valStr, ok := os.LookupEnv(env); ok {
		return valStr
	}
	return def
}
