package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// GiftCardGateway defines the interface for gift card gateway operations.
//
// Every operation is synchronous and single-attempt: one TCP exchange per
// call (CreateAccount and ActivateAccount compose several exchanges), no
// internal retries. Implementations do not coordinate concurrent calls
// against the same card number; callers that need per-account atomicity must
// serialize externally.
type GiftCardGateway interface {
	// Ping health-checks the gateway. Returns true iff the gateway reports
	// its host as OK.
	Ping(ctx context.Context) (bool, error)

	// AccountExists reports whether the card number identifies an Active
	// account in the configured program. A response without a Success marker
	// means "does not exist" and is not an error.
	AccountExists(ctx context.Context, cardNumber string) (bool, error)

	// ActivateAccount activates the card number with a zero opening balance.
	// Fails if the account is already active. If the gateway opens the
	// account with a nonzero balance, a reconciliation charge for that exact
	// amount is issued to bring it to zero.
	ActivateAccount(ctx context.Context, cardNumber string) error

	// CreateAccount finds an unissued card number in the configured range,
	// activates it, and returns it.
	CreateAccount(ctx context.Context) (string, error)

	// GetBalance returns the account's remaining balance.
	GetBalance(ctx context.Context, cardNumber string) (decimal.Decimal, error)

	// Charge debits amount from the account. The balance is checked first;
	// if it is lower than amount the charge fails locally and no
	// authorization request is sent.
	Charge(ctx context.Context, cardNumber string, amount decimal.Decimal) error

	// Deposit credits amount to the account. No balance pre-check.
	Deposit(ctx context.Context, cardNumber string, amount decimal.Decimal) error
}
