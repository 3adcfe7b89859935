package mocks

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/giftcard-service/internal/domain/ports"
)

// MockGiftCardGateway is a mock implementation of GiftCardGateway for testing
type MockGiftCardGateway struct {
	mu sync.Mutex

	// Responses to return
	pingResult    bool
	pingError     error
	existsResult  bool
	existsError   error
	activateError error
	createResult  string
	createError   error
	balanceResult decimal.Decimal
	balanceError  error
	chargeError   error
	depositError  error

	// Call tracking
	PingCalls     int
	ExistsCalls   int
	ActivateCalls int
	CreateCalls   int
	BalanceCalls  int
	ChargeCalls   int
	DepositCalls  int

	// Last arguments received
	LastCardNumber string
	LastAmount     decimal.Decimal
}

// NewMockGiftCardGateway creates a new mock gateway
func NewMockGiftCardGateway() *MockGiftCardGateway {
	return &MockGiftCardGateway{}
}

var _ ports.GiftCardGateway = (*MockGiftCardGateway)(nil)

// SetPingResponse sets the response to return from Ping
func (m *MockGiftCardGateway) SetPingResponse(ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingResult = ok
	m.pingError = err
}

// SetExistsResponse sets the response to return from AccountExists
func (m *MockGiftCardGateway) SetExistsResponse(exists bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsResult = exists
	m.existsError = err
}

// SetActivateResponse sets the error to return from ActivateAccount
func (m *MockGiftCardGateway) SetActivateResponse(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activateError = err
}

// SetCreateResponse sets the response to return from CreateAccount
func (m *MockGiftCardGateway) SetCreateResponse(cardNumber string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createResult = cardNumber
	m.createError = err
}

// SetBalanceResponse sets the response to return from GetBalance
func (m *MockGiftCardGateway) SetBalanceResponse(balance decimal.Decimal, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balanceResult = balance
	m.balanceError = err
}

// SetChargeResponse sets the error to return from Charge
func (m *MockGiftCardGateway) SetChargeResponse(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chargeError = err
}

// SetDepositResponse sets the error to return from Deposit
func (m *MockGiftCardGateway) SetDepositResponse(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depositError = err
}

func (m *MockGiftCardGateway) Ping(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PingCalls++
	return m.pingResult, m.pingError
}

func (m *MockGiftCardGateway) AccountExists(ctx context.Context, cardNumber string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistsCalls++
	m.LastCardNumber = cardNumber
	return m.existsResult, m.existsError
}

func (m *MockGiftCardGateway) ActivateAccount(ctx context.Context, cardNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActivateCalls++
	m.LastCardNumber = cardNumber
	return m.activateError
}

func (m *MockGiftCardGateway) CreateAccount(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	return m.createResult, m.createError
}

func (m *MockGiftCardGateway) GetBalance(ctx context.Context, cardNumber string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BalanceCalls++
	m.LastCardNumber = cardNumber
	return m.balanceResult, m.balanceError
}

func (m *MockGiftCardGateway) Charge(ctx context.Context, cardNumber string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChargeCalls++
	m.LastCardNumber = cardNumber
	m.LastAmount = amount
	return m.chargeError
}

func (m *MockGiftCardGateway) Deposit(ctx context.Context, cardNumber string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DepositCalls++
	m.LastCardNumber = cardNumber
	m.LastAmount = amount
	return m.depositError
}
