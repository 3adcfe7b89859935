package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// GiftCardService is the string-boundary wrapper around the gateway: card
// numbers and amounts arrive as the raw strings a caller collected from user
// input, and are validated before the gateway is contacted.
type GiftCardService interface {
	Ping(ctx context.Context) (bool, error)
	AccountExists(ctx context.Context, cardNumber string) (bool, error)
	ActivateAccount(ctx context.Context, cardNumber string) error
	CreateAccount(ctx context.Context) (string, error)
	GetBalance(ctx context.Context, cardNumber string) (decimal.Decimal, error)
	Charge(ctx context.Context, cardNumber, amount string) error
	Deposit(ctx context.Context, cardNumber, amount string) error
}
