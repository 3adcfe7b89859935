package paygate

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/giftcard-service/internal/domain"
)

func newTestClient(t *testing.T, g *mockGateway, opts ...Option) *Client {
	t.Helper()

	cfg := validConfig()
	cfg.Host, cfg.Port = g.hostPort()
	cfg.Timeout = 2 * time.Second

	client, err := NewClient(cfg, zap.NewNop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.MinCardNumber = "60390"

	_, err := NewClient(cfg, zap.NewNop())

	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestPing(t *testing.T) {
	tests := []struct {
		name     string
		pingHost string
		expected bool
	}{
		{"host OK", "OK", true},
		{"host degraded", "DOWN", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockGateway(t)
			gw.pingHost = tt.pingHost
			client := newTestClient(t, gw)

			ok, err := client.Ping(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestAccountExists(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		program  string
		expected bool
	}{
		{"active in configured program", "Active", "Ski Area Gift Card", true},
		{"active in another program", "Active", "Other", false},
		{"inactive in configured program", "Inactive", "Ski Area Gift Card", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockGateway(t)
			gw.seedAccount("6039000123", tt.status, tt.program, "0.00")
			client := newTestClient(t, gw)

			exists, err := client.AccountExists(context.Background(), "6039000123")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
		})
	}
}

func TestAccountExists_UnknownCard(t *testing.T) {
	gw := newMockGateway(t)
	client := newTestClient(t, gw)

	// The gateway answers unknown cards without a Success element. For this
	// one operation that shape means "does not exist", not an error.
	exists, err := client.AccountExists(context.Background(), "6039000123")

	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAccountExists_UnparseableBalance(t *testing.T) {
	gw := newMockGateway(t)
	gw.seedAccount("6039000123", "Active", "Ski Area Gift Card", "0.00")
	gw.balanceAttr = "abc"
	client := newTestClient(t, gw)

	// Existence is decided on status and program; a mangled balance
	// attribute must not turn an active card into "does not exist".
	exists, err := client.AccountExists(context.Background(), "6039000123")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountExists_ReadOnly(t *testing.T) {
	gw := newMockGateway(t)
	gw.seedAccount("6039000123", "Active", "Ski Area Gift Card", "25.00")
	client := newTestClient(t, gw)

	for i := 0; i < 5; i++ {
		exists, err := client.AccountExists(context.Background(), "6039000123")
		require.NoError(t, err)
		assert.True(t, exists)
	}

	counts := gw.counts()
	assert.Equal(t, 5, counts.infos)
	assert.Zero(t, counts.activates)
	assert.Zero(t, counts.sales)
	assert.Zero(t, counts.returns)
	assert.True(t, gw.account("6039000123").balance.Equal(decimal.RequireFromString("25.00")))
}

func TestGetBalance(t *testing.T) {
	gw := newMockGateway(t)
	gw.seedAccount("6039000123", "Active", "Ski Area Gift Card", "12.34")
	client := newTestClient(t, gw)

	balance, err := client.GetBalance(context.Background(), "6039000123")

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("12.34")), "got %s", balance)
}

func TestGetBalance_UnknownCard(t *testing.T) {
	gw := newMockGateway(t)
	client := newTestClient(t, gw)

	// Unlike AccountExists, every other operation treats the missing Success
	// element as a hard protocol error.
	_, err := client.GetBalance(context.Background(), "6039000123")

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeGatewayProtocol))
	assert.NotNil(t, domain.GetResponse(err))
}

func TestGetBalance_UnparseableBalance(t *testing.T) {
	gw := newMockGateway(t)
	gw.seedAccount("6039000123", "Active", "Ski Area Gift Card", "0.00")
	gw.balanceAttr = "abc"
	client := newTestClient(t, gw)

	_, err := client.GetBalance(context.Background(), "6039000123")

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeGatewayProtocol))
	assert.NotNil(t, domain.GetResponse(err))
}

func TestActivateAccount(t *testing.T) {
	gw := newMockGateway(t)
	client := newTestClient(t, gw)

	err := client.ActivateAccount(context.Background(), "6039000123")

	require.NoError(t, err)
	counts := gw.counts()
	assert.Equal(t, 1, counts.infos, "one existence pre-check")
	assert.Equal(t, 1, counts.activates)
	assert.Zero(t, counts.sales, "zero opening balance needs no reconciliation")

	acct := gw.account("6039000123")
	require.NotNil(t, acct)
	assert.Equal(t, "Active", acct.status)
	assert.True(t, acct.balance.IsZero())
}

func TestActivateAccount_AlreadyActive(t *testing.T) {
	gw := newMockGateway(t)
	gw.seedAccount("6039000123", "Active", "Ski Area Gift Card", "0.00")
	client := newTestClient(t, gw)

	err := client.ActivateAccount(context.Background(), "6039000123")

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeAccountAlreadyActive))

	// Only the existence probe reached the server; no Activate request was sent.
	counts := gw.counts()
	assert.Equal(t, 1, counts.infos)
	assert.Zero(t, counts.activates)
}

func TestActivateAccount_NonZeroOpeningBalance(t *testing.T) {
	gw := newMockGateway(t)
	gw.openingBalance = decimal.RequireFromString("5.00")
	client := newTestClient(t, gw)

	err := client.ActivateAccount(context.Background(), "6039000123")

	require.NoError(t, err)
	counts := gw.counts()
	assert.Equal(t, 1, counts.activates)
	assert.Equal(t, 1, counts.sales, "exactly one reconciliation charge")
	assert.Equal(t, "5.00", gw.lastSaleAmount)
	assert.True(t, gw.account("6039000123").balance.IsZero(), "account zeroed after reconciliation")
}

func TestActivateAccount_NonActiveStatus(t *testing.T) {
	gw := newMockGateway(t)
	gw.activateStatus = "Pending"
	client := newTestClient(t, gw)

	err := client.ActivateAccount(context.Background(), "6039000123")

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeAccountNotActive))
	assert.NotNil(t, domain.GetResponse(err))
}

func TestActivateAccount_ReconciliationDeclined(t *testing.T) {
	gw := newMockGateway(t)
	gw.openingBalance = decimal.RequireFromString("5.00")
	gw.declineAll = true
	client := newTestClient(t, gw)

	err := client.ActivateAccount(context.Background(), "6039000123")

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeGatewayDeclined))
	assert.Contains(t, err.Error(), "zeroing out")
	assert.NotNil(t, domain.GetResponse(err), "declined response carried through the wrap")
}

func TestCharge(t *testing.T) {
	gw := newMockGateway(t)
	gw.seedAccount("6039000123", "Active", "Ski Area Gift Card", "50.00")
	client := newTestClient(t, gw)

	err := client.Charge(context.Background(), "6039000123", decimal.RequireFromString("10.5"))

	require.NoError(t, err)
	assert.Equal(t, "10.50", gw.lastSaleAmount)
	assert.True(t, gw.account("6039000123").balance.Equal(decimal.RequireFromString("39.50")))
}

func TestCharge_InsufficientFunds(t *testing.T) {
	gw := newMockGateway(t)
	gw.seedAccount("6039000123", "Active", "Ski Area Gift Card", "3.00")
	client := newTestClient(t, gw)

	err := client.Charge(context.Background(), "6039000123", decimal.RequireFromString("10.00"))

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeInsufficientFunds))

	// The refusal is local: only the balance lookup reached the server.
	counts := gw.counts()
	assert.Equal(t, 1, counts.infos)
	assert.Zero(t, counts.sales, "no authorization request for a charge that cannot succeed")
	assert.True(t, gw.account("6039000123").balance.Equal(decimal.RequireFromString("3.00")))
}

func TestCharge_Declined(t *testing.T) {
	gw := newMockGateway(t)
	gw.seedAccount("6039000123", "Active", "Ski Area Gift Card", "50.00")
	gw.declineAll = true
	client := newTestClient(t, gw)

	err := client.Charge(context.Background(), "6039000123", decimal.RequireFromString("10.00"))

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeGatewayDeclined))
	assert.NotNil(t, domain.GetResponse(err))
}

func TestDeposit(t *testing.T) {
	gw := newMockGateway(t)
	gw.seedAccount("6039000123", "Active", "Ski Area Gift Card", "10.00")
	client := newTestClient(t, gw)

	err := client.Deposit(context.Background(), "6039000123", decimal.RequireFromString("7.25"))

	require.NoError(t, err)
	counts := gw.counts()
	assert.Zero(t, counts.infos, "deposits have no balance pre-check")
	assert.Equal(t, 1, counts.returns)
	assert.True(t, gw.account("6039000123").balance.Equal(decimal.RequireFromString("17.25")))
}

func TestDeposit_Declined(t *testing.T) {
	gw := newMockGateway(t)
	gw.declineAll = true
	client := newTestClient(t, gw)

	err := client.Deposit(context.Background(), "6039000123", decimal.RequireFromString("7.25"))

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeGatewayDeclined))
}

// expectedDraws replays the client's card number draws for a known seed
func expectedDraws(seed int64, n int) []string {
	cfg := validConfig()
	minCard := int64(6039000000)
	maxCard := int64(6039999999)
	rng := rand.New(rand.NewSource(seed))

	draws := make([]string, n)
	for i := range draws {
		draws[i] = fmt.Sprintf("%0*d", len(cfg.MinCardNumber), minCard+rng.Int63n(maxCard-minCard+1))
	}
	return draws
}

func TestCreateAccount(t *testing.T) {
	const seed = 42

	draws := expectedDraws(seed, 3)
	require.NotEqual(t, draws[0], draws[1])
	require.NotEqual(t, draws[1], draws[2])
	require.NotEqual(t, draws[0], draws[2])

	gw := newMockGateway(t)
	// The first two draws land on issued cards; the third is free.
	gw.seedAccount(draws[0], "Active", "Ski Area Gift Card", "0.00")
	gw.seedAccount(draws[1], "Active", "Ski Area Gift Card", "0.00")
	client := newTestClient(t, gw, WithRand(rand.New(rand.NewSource(seed))))

	cardNumber, err := client.CreateAccount(context.Background())

	require.NoError(t, err)
	assert.Equal(t, draws[2], cardNumber)

	counts := gw.counts()
	// Three allocation probes plus the existence pre-check inside activation.
	assert.Equal(t, 4, counts.infos)
	assert.Equal(t, 1, counts.activates)

	acct := gw.account(cardNumber)
	require.NotNil(t, acct)
	assert.Equal(t, "Active", acct.status)
}

func TestCreateAccount_ActivationFailure(t *testing.T) {
	gw := newMockGateway(t)
	gw.activateStatus = "Inactive"
	client := newTestClient(t, gw)

	_, err := client.CreateAccount(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeAccountNotActive), "inner classification preserved")
	assert.Contains(t, err.Error(), "failed")
}

func TestCreateAccount_RangeSaturated(t *testing.T) {
	gw := newMockGateway(t)
	gw.allCardsExist = true

	cfg := validConfig()
	cfg.Host, cfg.Port = gw.hostPort()
	cfg.Timeout = 2 * time.Second
	cfg.MaxAllocationAttempts = 3
	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = client.CreateAccount(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err, domain.ErrorCodeAllocationExhausted))
	assert.Equal(t, 3, gw.counts().infos)
}

func TestDrawCardNumber_Bounds(t *testing.T) {
	gw := newMockGateway(t)
	client := newTestClient(t, gw, WithRand(rand.New(rand.NewSource(7))))

	for i := 0; i < 1000; i++ {
		cardNumber := client.drawCardNumber()

		require.Len(t, cardNumber, len(client.config.MinCardNumber))
		require.GreaterOrEqual(t, cardNumber, client.config.MinCardNumber)
		require.LessOrEqual(t, cardNumber, client.config.MaxCardNumber)
	}
}
