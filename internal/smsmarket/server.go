package smsmarket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"

	"sms-market/internal/smsmarket/handlers"
	"sms-market/internal/smsmarket/middleware"
	"sms-market/pkg/logging"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	RatePair        string
}

// Services groups every injected dependency of the mux. All of them are
// constructed once in main and reused per request; there are no
// module-level singletons.
type Services struct {
	Prices         handlers.PricesGettingService
	VendorActions  handlers.VendorActionsService
	VendorBalances handlers.VendorBalancesService
	OrderLifecycle handlers.OrderLifecycleService
	Reuse          handlers.ReuseService
	CryptoInvoice  handlers.CryptoInvoiceClient
	CryptoVerifier handlers.CallbackVerifier
	CardCheckout   handlers.CardCheckoutClient
	CardVerify     handlers.CardVerifyClient
	Wallet         WalletService
	Rates          handlers.RateProvider
}

type WalletService interface {
	handlers.CallbackWallet
	handlers.CardVerifyWallet
	handlers.BalanceGettingService
	handlers.PaymentsGettingService
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: createMux(cfg, tokenAuth, services, logger),
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *chi.Mux {
	pricesHandler := handlers.NewPricesGettingHandler(services.Prices, logger)
	vendorActionsHandler := handlers.NewVendorActionsHandler(services.VendorActions, logger)
	vendorBalanceHandler := handlers.NewVendorBalanceGettingHandler(services.VendorBalances, logger)
	orderLifecycleHandler := handlers.NewOrderLifecycleHandler(services.OrderLifecycle, logger)
	reuseHandler := handlers.NewReuseHandler(services.Reuse, logger)
	cryptoInvoiceHandler := handlers.NewCryptoInvoiceHandler(services.CryptoInvoice, logger)
	cryptoCallbackHandler := handlers.NewCryptoCallbackHandler(services.CryptoVerifier, services.Wallet, logger)
	cardCheckoutHandler := handlers.NewCardCheckoutHandler(services.CardCheckout, logger)
	cardVerifyHandler := handlers.NewCardVerifyHandler(services.CardVerify, services.Wallet, logger)
	balanceHandler := handlers.NewBalanceGettingHandler(services.Wallet, logger)
	paymentsHandler := handlers.NewPaymentsGettingHandler(services.Wallet, logger)
	rateHandler := handlers.NewRateGettingHandler(services.Rates, cfg.RatePair, logger)

	router := chi.NewRouter()
	router.Use(middleware.NewLoggerContext().CreateHandler)
	router.Use(middleware.NewPanicRecover(logger).CreateHandler)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Route("/api", func(router chi.Router) {
		router.Get("/prices", pricesHandler.ServeHTTP)
		router.Get("/vendor", vendorActionsHandler.ServeHTTP)
		router.Get("/vendor/balance", vendorBalanceHandler.ServeHTTP)
		router.Get("/orders/{orderID}", orderLifecycleHandler.ServeHTTP)
		router.Get("/reuse", reuseHandler.ServeHTTP)
		router.Get("/rate", rateHandler.ServeHTTP)

		router.Post("/payments/crypto", cryptoInvoiceHandler.ServeHTTP)
		router.Post("/payments/crypto/callback", cryptoCallbackHandler.ServeHTTP)
		router.Post("/payments/card", cardCheckoutHandler.ServeHTTP)
		router.Get("/payments/card/verify", cardVerifyHandler.ServeHTTP)

		// Tokens come from the external identity provider; we only verify.
		router.Group(func(router chi.Router) {
			router.Use(jwtauth.Verifier(tokenAuth))
			router.Use(jwtauth.Authenticator(tokenAuth))
			router.Get("/balance", balanceHandler.ServeHTTP)
			router.Get("/payments", paymentsHandler.ServeHTTP)
		})
	})

	return router
}
