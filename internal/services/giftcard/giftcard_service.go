package giftcard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kevin07696/giftcard-service/internal/domain"
	domainports "github.com/kevin07696/giftcard-service/internal/domain/ports"
	"github.com/kevin07696/giftcard-service/internal/services/ports"
)

// Service validates raw caller input and delegates to the gateway. Malformed
// card numbers and amounts are rejected here with validation errors so they
// never turn into gateway exchanges.
type Service struct {
	gateway domainports.GiftCardGateway
	logger  *zap.Logger
}

// NewService creates a gift card service backed by the given gateway
func NewService(gateway domainports.GiftCardGateway, logger *zap.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  logger,
	}
}

var _ ports.GiftCardService = (*Service)(nil)

// Ping health-checks the gateway
func (s *Service) Ping(ctx context.Context) (bool, error) {
	ok, err := s.gateway.Ping(ctx)
	if err != nil {
		s.logger.Error("gateway ping failed", zap.Error(err))
		return false, err
	}

	s.logger.Info("gateway ping completed", zap.Bool("ok", ok))
	return ok, nil
}

// AccountExists reports whether the card identifies an active account in the
// configured program
func (s *Service) AccountExists(ctx context.Context, cardNumber string) (bool, error) {
	if err := validateCardNumber(cardNumber); err != nil {
		return false, err
	}

	exists, err := s.gateway.AccountExists(ctx, cardNumber)
	if err != nil {
		s.logger.Error("account lookup failed",
			zap.String("card_number", cardNumber),
			zap.Error(err),
		)
		return false, err
	}

	return exists, nil
}

// ActivateAccount activates the given card number
func (s *Service) ActivateAccount(ctx context.Context, cardNumber string) error {
	if err := validateCardNumber(cardNumber); err != nil {
		return err
	}

	if err := s.gateway.ActivateAccount(ctx, cardNumber); err != nil {
		s.logger.Error("account activation failed",
			zap.String("card_number", cardNumber),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("account activated", zap.String("card_number", cardNumber))
	return nil
}

// CreateAccount allocates and activates a fresh card number
func (s *Service) CreateAccount(ctx context.Context) (string, error) {
	cardNumber, err := s.gateway.CreateAccount(ctx)
	if err != nil {
		s.logger.Error("account creation failed", zap.Error(err))
		return "", err
	}

	s.logger.Info("account created", zap.String("card_number", cardNumber))
	return cardNumber, nil
}

// GetBalance returns the account's remaining balance
func (s *Service) GetBalance(ctx context.Context, cardNumber string) (decimal.Decimal, error) {
	if err := validateCardNumber(cardNumber); err != nil {
		return decimal.Zero, err
	}

	balance, err := s.gateway.GetBalance(ctx, cardNumber)
	if err != nil {
		s.logger.Error("balance lookup failed",
			zap.String("card_number", cardNumber),
			zap.Error(err),
		)
		return decimal.Zero, err
	}

	return balance, nil
}

// Charge debits the given amount, supplied as a raw decimal string
func (s *Service) Charge(ctx context.Context, cardNumber, amount string) error {
	if err := validateCardNumber(cardNumber); err != nil {
		return err
	}
	amt, err := parseAmount(amount)
	if err != nil {
		return err
	}

	if err := s.gateway.Charge(ctx, cardNumber, amt); err != nil {
		s.logger.Error("charge failed",
			zap.String("card_number", cardNumber),
			zap.String("amount", amt.String()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("charge approved",
		zap.String("card_number", cardNumber),
		zap.String("amount", amt.String()),
	)
	return nil
}

// Deposit credits the given amount, supplied as a raw decimal string
func (s *Service) Deposit(ctx context.Context, cardNumber, amount string) error {
	if err := validateCardNumber(cardNumber); err != nil {
		return err
	}
	amt, err := parseAmount(amount)
	if err != nil {
		return err
	}

	if err := s.gateway.Deposit(ctx, cardNumber, amt); err != nil {
		s.logger.Error("deposit failed",
			zap.String("card_number", cardNumber),
			zap.String("amount", amt.String()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("deposit approved",
		zap.String("card_number", cardNumber),
		zap.String("amount", amt.String()),
	)
	return nil
}

// validateCardNumber rejects card numbers that are empty or not all digits
func validateCardNumber(cardNumber string) error {
	if cardNumber == "" {
		return domain.NewGatewayError(domain.ErrorCodeValidationCardInvalid, "card number is required")
	}
	for _, r := range cardNumber {
		if r < '0' || r > '9' {
			return domain.NewGatewayError(domain.ErrorCodeValidationCardInvalid,
				fmt.Sprintf("card number %q is not numeric", cardNumber))
		}
	}
	return nil
}

// parseAmount parses a caller-supplied amount string and requires it to be
// positive
func parseAmount(amount string) (decimal.Decimal, error) {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, domain.NewGatewayError(domain.ErrorCodeValidationAmountInvalid,
			fmt.Sprintf("amount %q is not a valid number", amount))
	}
	if !amt.IsPositive() {
		return decimal.Zero, domain.NewGatewayError(domain.ErrorCodeValidationAmountInvalid,
			fmt.Sprintf("amount must be positive, got %s", amt))
	}
	return amt, nil
}
