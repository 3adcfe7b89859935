package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/giftcard-service/internal/adapters/paygate"
	"github.com/kevin07696/giftcard-service/internal/config"
	giftcardService "github.com/kevin07696/giftcard-service/internal/services/giftcard"
)

func main() {
	var (
		action     = flag.String("action", "", "Action to perform: ping, exists, activate, create, balance, charge, deposit")
		cardNumber = flag.String("card", "", "Card number (exists, activate, balance, charge, deposit)")
		amount     = flag.String("amount", "", "Amount in dollars (charge, deposit)")
	)
	flag.Parse()

	if *action == "" {
		fmt.Println("Usage: giftcard -action=<action> [options]")
		fmt.Println("Actions:")
		fmt.Println("  ping     - Health-check the gateway")
		fmt.Println("  exists   - Check whether a card account exists")
		fmt.Println("  activate - Activate a card with a zero balance")
		fmt.Println("  create   - Allocate and activate a fresh card number")
		fmt.Println("  balance  - Show a card's remaining balance")
		fmt.Println("  charge   - Charge an amount against a card")
		fmt.Println("  deposit  - Deposit an amount onto a card")
		os.Exit(1)
	}

	// Best effort; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	client, err := paygate.NewClient(cfg.Gateway.ClientConfig(), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	svc := giftcardService.NewService(client, logger)
	ctx := context.Background()

	switch *action {
	case "ping":
		ok, err := svc.Ping(ctx)
		exitOnError(err)
		if ok {
			fmt.Println("Gateway is up.")
		} else {
			fmt.Println("Gateway responded but is not healthy.")
		}
	case "exists":
		exists, err := svc.AccountExists(ctx, *cardNumber)
		exitOnError(err)
		if exists {
			fmt.Printf("Account %s exists.\n", *cardNumber)
		} else {
			fmt.Printf("Account %s does not exist.\n", *cardNumber)
		}
	case "activate":
		exitOnError(svc.ActivateAccount(ctx, *cardNumber))
		fmt.Printf("Account %s activated.\n", *cardNumber)
	case "create":
		created, err := svc.CreateAccount(ctx)
		exitOnError(err)
		fmt.Printf("Created account %s.\n", created)
	case "balance":
		balance, err := svc.GetBalance(ctx, *cardNumber)
		exitOnError(err)
		fmt.Printf("Balance: $%s\n", balance.StringFixed(2))
	case "charge":
		exitOnError(svc.Charge(ctx, *cardNumber, *amount))
		fmt.Printf("Charged $%s to account %s.\n", *amount, *cardNumber)
	case "deposit":
		exitOnError(svc.Deposit(ctx, *cardNumber, *amount))
		fmt.Printf("Deposited $%s into account %s.\n", *amount, *cardNumber)
	default:
		fmt.Printf("Unknown action: %s\n", *action)
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initLogger initializes the logger
func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}

	if cfg.Development {
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		logger, _ := zapCfg.Build()
		return logger
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, _ := zapCfg.Build()
	return logger
}
