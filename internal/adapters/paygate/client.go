package paygate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kevin07696/giftcard-service/internal/domain"
	"github.com/kevin07696/giftcard-service/internal/domain/models"
	"github.com/kevin07696/giftcard-service/internal/domain/ports"
	"github.com/kevin07696/giftcard-service/pkg/timeutil"
)

// Operation labels used for logging and metrics
const (
	opPing        = "ping"
	opAccountInfo = "account_info"
	opActivate    = "activate"
	opCharge      = "charge"
	opDeposit     = "deposit"
)

// Client is the gift card gateway client. Each operation is a blocking,
// single-attempt exchange; no state is shared between calls except the
// random source, so a Client is intended for sequential use. Concurrent
// operations against the same account are not coordinated — two concurrent
// charges can both pass the balance pre-check.
type Client struct {
	config    Config
	transport *transport
	logger    *zap.Logger
	rng       *rand.Rand

	minCard   int64
	maxCard   int64
	cardWidth int
}

// Option configures optional Client behavior
type Option func(*Client)

// WithRand replaces the client's random source. Reference numbers and card
// number draws come from it, so tests can pin the sequence.
func WithRand(rng *rand.Rand) Option {
	return func(c *Client) {
		c.rng = rng
	}
}

// NewClient validates the configuration and constructs a gateway client
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate guarantees both bounds parse.
	minCard, _ := strconv.ParseInt(cfg.MinCardNumber, 10, 64)
	maxCard, _ := strconv.ParseInt(cfg.MaxCardNumber, 10, 64)

	c := &Client{
		config:    cfg,
		transport: newTransport(cfg, logger),
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		minCard:   minCard,
		maxCard:   maxCard,
		cardWidth: len(cfg.MinCardNumber),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

var _ ports.GiftCardGateway = (*Client)(nil)

// Ping health-checks the gateway. The ping response has no Success element,
// so the success requirement is waived for this one exchange.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	envelope, err := buildPingEnvelope(c.config.TerminalID, timeutil.Now())
	if err != nil {
		return false, domain.WrapError(domain.ErrorCodeGatewayProtocol, "building ping envelope failed", err)
	}

	doc, err := c.transport.exchange(ctx, opPing, envelope, false)
	if err != nil {
		return false, err
	}

	return doc.PingResult != nil && doc.PingResult.Host == "OK", nil
}

// AccountExists reports whether cardNumber identifies an Active account in
// the configured program.
func (c *Client) AccountExists(ctx context.Context, cardNumber string) (bool, error) {
	envelope, err := buildAccountInfoEnvelope(c.config.TerminalID, cardNumber, timeutil.Now())
	if err != nil {
		return false, domain.WrapError(domain.ErrorCodeGatewayProtocol, "building account info envelope failed", err)
	}

	doc, err := c.transport.exchange(ctx, opAccountInfo, envelope, true)
	if err != nil {
		// Unknown cards come back without a Success element. For this one
		// operation that shape means "no such account"; every other
		// protocol failure still propagates as an error.
		if errors.Is(err, domain.ErrMissingSuccess) {
			return false, nil
		}
		return false, err
	}

	result := doc.AdminResult
	if result == nil {
		return false, domain.NewGatewayError(domain.ErrorCodeGatewayProtocol,
			"the gateway response did not include an AdminResult element").WithResponse(doc)
	}

	// Existence is decided on status and program alone; the balance is not
	// read here, so a malformed BalanceRemaining cannot mask an active card.
	info := &models.AccountInfo{
		Status:      models.AccountStatus(result.Status),
		ProgramName: result.ProgramName,
	}
	return info.IsActive(c.config.ProgramName), nil
}

// GetBalance returns the account's remaining balance
func (c *Client) GetBalance(ctx context.Context, cardNumber string) (decimal.Decimal, error) {
	info, err := c.accountInfo(ctx, cardNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return info.Balance, nil
}

// ActivateAccount activates cardNumber with a zero opening balance. If the
// gateway opens the account with money already on it, a reconciliation
// charge for that exact amount brings it back to zero.
func (c *Client) ActivateAccount(ctx context.Context, cardNumber string) error {
	exists, err := c.AccountExists(ctx, cardNumber)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewGatewayError(domain.ErrorCodeAccountAlreadyActive,
			fmt.Sprintf("cannot activate card %s because it is already active", cardNumber))
	}

	envelope, err := buildActivateEnvelope(c.config.TerminalID, cardNumber, c.refNumber(), timeutil.Now())
	if err != nil {
		return domain.WrapError(domain.ErrorCodeGatewayProtocol, "building activate envelope failed", err)
	}

	doc, err := c.transport.exchange(ctx, opActivate, envelope, true)
	if err != nil {
		return err
	}

	info, err := adminResultInfo(doc, cardNumber)
	if err != nil {
		return err
	}
	if info.Status != models.AccountStatusActive {
		return domain.NewGatewayError(domain.ErrorCodeAccountNotActive,
			"the gateway acknowledged the activation but did not report the account as Active").WithResponse(doc)
	}

	if !info.Balance.IsZero() {
		c.logger.Info("newly activated account opened with a nonzero balance, zeroing it out",
			zap.String("card_number", cardNumber),
			zap.String("balance", info.Balance.String()),
		)
		if err := c.Charge(ctx, cardNumber, info.Balance); err != nil {
			return domain.WrapError(domain.GetErrorCodeOr(err, domain.ErrorCodeGatewayProtocol),
				"zeroing out the newly activated account failed", err)
		}
	}

	return nil
}

// CreateAccount draws random card numbers from the configured range until it
// finds one with no active account, then activates it. The search is bounded
// so a saturated range fails instead of spinning forever.
func (c *Client) CreateAccount(ctx context.Context) (string, error) {
	for attempt := 0; attempt < c.config.MaxAllocationAttempts; attempt++ {
		cardNumber := c.drawCardNumber()

		exists, err := c.AccountExists(ctx, cardNumber)
		if err != nil {
			return "", domain.WrapError(domain.GetErrorCodeOr(err, domain.ErrorCodeGatewayProtocol),
				"searching for an unissued card number failed", err)
		}
		if exists {
			continue
		}

		if err := c.ActivateAccount(ctx, cardNumber); err != nil {
			return "", domain.WrapError(domain.GetErrorCodeOr(err, domain.ErrorCodeGatewayProtocol),
				fmt.Sprintf("activating card %s failed", cardNumber), err)
		}

		return cardNumber, nil
	}

	return "", domain.NewGatewayError(domain.ErrorCodeAllocationExhausted,
		fmt.Sprintf("no unissued card number found after %d attempts", c.config.MaxAllocationAttempts))
}

// Charge debits amount from the account. The balance is checked first so a
// charge that cannot fully succeed is refused locally — the gateway never
// sees it, and no partial approval can happen.
func (c *Client) Charge(ctx context.Context, cardNumber string, amount decimal.Decimal) error {
	balance, err := c.GetBalance(ctx, cardNumber)
	if err != nil {
		return err
	}
	if balance.LessThan(amount) {
		return domain.NewGatewayError(domain.ErrorCodeInsufficientFunds,
			fmt.Sprintf("charge of %s refused: account balance is %s", formatAmount(amount), formatAmount(balance)))
	}

	return c.authorize(ctx, opCharge, transactionTypeSale, cardNumber, amount)
}

// Deposit credits amount to the account. No balance pre-check.
func (c *Client) Deposit(ctx context.Context, cardNumber string, amount decimal.Decimal) error {
	return c.authorize(ctx, opDeposit, transactionTypeReturn, cardNumber, amount)
}

// authorize sends a processing (sale/return) request and checks the
// gateway's approval decision
func (c *Client) authorize(ctx context.Context, operation, transactionType, cardNumber string, amount decimal.Decimal) error {
	envelope, err := buildProcessingEnvelope(c.config.TerminalID, transactionType, cardNumber, amount, c.refNumber(), timeutil.Now())
	if err != nil {
		return domain.WrapError(domain.ErrorCodeGatewayProtocol, "building authorization envelope failed", err)
	}

	doc, err := c.transport.exchange(ctx, operation, envelope, true)
	if err != nil {
		return err
	}

	result := ""
	if doc.Authorization != nil && doc.Authorization.AuthorizationResult != nil {
		result = doc.Authorization.AuthorizationResult.Result
	}
	if result != models.ResultApproved {
		return domain.NewGatewayError(domain.ErrorCodeGatewayDeclined,
			fmt.Sprintf("%s was not approved by the gateway", operation)).WithResponse(doc)
	}

	return nil
}

// accountInfo runs an Account Info exchange and extracts the reported state
func (c *Client) accountInfo(ctx context.Context, cardNumber string) (*models.AccountInfo, error) {
	envelope, err := buildAccountInfoEnvelope(c.config.TerminalID, cardNumber, timeutil.Now())
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeGatewayProtocol, "building account info envelope failed", err)
	}

	doc, err := c.transport.exchange(ctx, opAccountInfo, envelope, true)
	if err != nil {
		return nil, err
	}

	return adminResultInfo(doc, cardNumber)
}

// adminResultInfo extracts the AdminResult fields from a parsed response
func adminResultInfo(doc *models.ResponseDocument, cardNumber string) (*models.AccountInfo, error) {
	result := doc.AdminResult
	if result == nil {
		return nil, domain.NewGatewayError(domain.ErrorCodeGatewayProtocol,
			"the gateway response did not include an AdminResult element").WithResponse(doc)
	}

	balance, err := decimal.NewFromString(result.BalanceRemaining)
	if err != nil {
		return nil, domain.NewGatewayError(domain.ErrorCodeGatewayProtocol,
			fmt.Sprintf("the gateway reported an unparseable balance %q", result.BalanceRemaining)).WithResponse(doc)
	}

	return &models.AccountInfo{
		CardNumber:  cardNumber,
		Status:      models.AccountStatus(result.Status),
		ProgramName: result.ProgramName,
		Balance:     balance,
	}, nil
}

// drawCardNumber picks a uniform random card number in [min, max], padded to
// the configured digit width
func (c *Client) drawCardNumber() string {
	n := c.minCard + c.rng.Int63n(c.maxCard-c.minCard+1)
	return fmt.Sprintf("%0*d", c.cardWidth, n)
}

func (c *Client) refNumber() int {
	return c.rng.Intn(refNumberRange)
}
