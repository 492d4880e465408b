package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"sms-market/cmd/smsmarket/config"
	"sms-market/internal/smsmarket"
	"sms-market/internal/smsmarket/cardpay"
	"sms-market/internal/smsmarket/cryptopay"
	"sms-market/internal/smsmarket/data/database"
	"sms-market/internal/smsmarket/data/dbrepository"
	"sms-market/internal/smsmarket/exchange"
	"sms-market/internal/smsmarket/fivesim"
	"sms-market/internal/smsmarket/service"
	"sms-market/internal/smsmarket/smsman"
	"sms-market/pkg/logging"
	"sms-market/pkg/pgxstorage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewZapLogger(zapcore.DebugLevel)
	if err != nil {
		log.Fatal(err)
	}

	dbFactory := database.NewPgxDatabaseFactory(cfg.DB)
	storage, err := pgxstorage.New(dbFactory)
	if err != nil {
		log.Fatal(err)
	}
	defer storage.Close()

	repository := dbrepository.New(storage, logger)
	transactionManager := pgxstorage.NewTransactionsManager(storage)

	fiveSimClient := fivesim.NewClient(cfg.FiveSim, logger)
	smsManClient := smsman.NewClient(cfg.SMSMan, logger)
	cryptoClient := cryptopay.NewClient(cfg.CryptoPay, logger)
	cardClient := cardpay.NewClient(cfg.CardPay, logger)

	rateCache := exchange.NewRateCache(
		cfg.RateCache,
		exchange.NewOpenRatesSource(cfg.RatePrimary),
		exchange.NewPairSource(cfg.RateFallback),
		logger,
	)

	ordersService := service.NewOrders(fiveSimClient, smsManClient, logger)
	pricesService := service.NewPrices(fiveSimClient, smsManClient)
	walletService := service.NewWallet(transactionManager, repository, rateCache, cfg.LocalCurrency, logger)

	tokenAuth := jwtauth.New(cfg.JWTConfig.Algorithm, []byte(cfg.JWTConfig.Secret), nil)

	server := smsmarket.NewServer(
		cfg.Server,
		tokenAuth,
		smsmarket.Services{
			Prices:         pricesService,
			VendorActions:  ordersService,
			VendorBalances: ordersService,
			OrderLifecycle: ordersService,
			Reuse:          ordersService,
			CryptoInvoice:  cryptoClient,
			CryptoVerifier: cryptoClient,
			CardCheckout:   cardClient,
			CardVerify:     cardClient,
			Wallet:         walletService,
			Rates:          rateCache,
		},
		logger,
	)

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	if err := run(rootCtx, cfg, server, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func run(rootCtx context.Context, cfg *config.Config, server *smsmarket.Server, logger *logging.ZapLogger) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occured: %w", err)
	}

	return nil
}
