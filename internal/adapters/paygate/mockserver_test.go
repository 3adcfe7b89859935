package paygate

import (
	"encoding/xml"
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// mockGateway is a minimal in-process gateway server: one XML document in,
// one XML document out, connection closed. It keeps per-card account state
// so multi-step flows (activation with reconciliation, charge after balance
// check) behave like the real server.
type mockGateway struct {
	t  *testing.T
	ln net.Listener

	mu       sync.Mutex
	accounts map[string]*mockAccount

	// behavior knobs
	pingHost       string
	declineAll     bool
	activateStatus string
	openingBalance decimal.Decimal
	allCardsExist  bool
	program        string
	balanceAttr    string // overrides BalanceRemaining verbatim when set

	// exchange counters by request type
	pings, infos, activates, sales, returns int

	lastSaleAmount string
}

type mockAccount struct {
	status  string
	program string
	balance decimal.Decimal
}

func newMockGateway(t *testing.T) *mockGateway {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	g := &mockGateway{
		t:              t,
		ln:             ln,
		accounts:       make(map[string]*mockAccount),
		pingHost:       "OK",
		activateStatus: "Active",
		program:        "Ski Area Gift Card",
	}
	t.Cleanup(func() { ln.Close() })
	go g.serve()

	return g
}

func (g *mockGateway) hostPort() (string, int) {
	addr := g.ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func (g *mockGateway) seedAccount(cardNumber, status, program, balance string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accounts[cardNumber] = &mockAccount{
		status:  status,
		program: program,
		balance: decimal.RequireFromString(balance),
	}
}

func (g *mockGateway) account(cardNumber string) *mockAccount {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.accounts[cardNumber]
}

type exchangeCounts struct {
	pings, infos, activates, sales, returns int
}

func (g *mockGateway) counts() exchangeCounts {
	g.mu.Lock()
	defer g.mu.Unlock()
	return exchangeCounts{g.pings, g.infos, g.activates, g.sales, g.returns}
}

func (g *mockGateway) serve() {
	for {
		conn, err := g.ln.Accept()
		if err != nil {
			return
		}
		go g.handle(conn)
	}
}

func (g *mockGateway) handle(conn net.Conn) {
	defer conn.Close()

	var req builtEnvelope
	if err := xml.NewDecoder(conn).Decode(&req); err != nil {
		return
	}
	conn.Write([]byte(g.respond(&req)))
}

func (g *mockGateway) respond(req *builtEnvelope) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch req.XMLName.Local {
	case "PaymentGateway_PingRQ":
		g.pings++
		return fmt.Sprintf(`<PaymentGateway_PingRS><PingResult Host=%q/></PaymentGateway_PingRS>`, g.pingHost)

	case "PaymentGateway_PaymentCardAdminRQ":
		if req.AdminRequest == nil {
			return `<PaymentGateway_PaymentCardAdminRS/>`
		}
		cardNumber := req.AdminRequest.PaymentCard.CardNumber
		switch req.AdminRequest.RequestType {
		case "Account Info":
			g.infos++
			acct := g.lookupLocked(cardNumber)
			if acct == nil {
				// The real server signals unknown cards by omitting the
				// Success element, not with an explicit not-found result.
				return `<PaymentGateway_PaymentCardAdminRS/>`
			}
			return g.adminResponse(acct)
		case "Activate":
			g.activates++
			acct := &mockAccount{status: g.activateStatus, program: g.program, balance: g.openingBalance}
			g.accounts[cardNumber] = acct
			return g.adminResponse(acct)
		}

	case "HTNG_PaymentCardProcessingRQ":
		if req.AuthorizationDetail == nil {
			return `<HTNG_PaymentCardProcessingRS/>`
		}
		auth := req.AuthorizationDetail.CreditCardAuthorization
		amount := decimal.RequireFromString(auth.Amount)

		if auth.TransactionType == "Sale" {
			g.sales++
			g.lastSaleAmount = auth.Amount
		} else {
			g.returns++
		}

		if g.declineAll {
			return processingResponse("DECLINED")
		}

		if acct := g.lookupLocked(auth.CreditCard.CardNumber); acct != nil {
			if auth.TransactionType == "Sale" {
				acct.balance = acct.balance.Sub(amount)
			} else {
				acct.balance = acct.balance.Add(amount)
			}
		}
		return processingResponse("APPROVED")
	}

	return `<UnknownRS/>`
}

// lookupLocked resolves a card to its account; with allCardsExist set, every
// card materializes as an active in-program account on first touch
func (g *mockGateway) lookupLocked(cardNumber string) *mockAccount {
	if acct, ok := g.accounts[cardNumber]; ok {
		return acct
	}
	if g.allCardsExist {
		acct := &mockAccount{status: "Active", program: g.program}
		g.accounts[cardNumber] = acct
		return acct
	}
	return nil
}

func (g *mockGateway) adminResponse(acct *mockAccount) string {
	balance := acct.balance.StringFixed(2)
	if g.balanceAttr != "" {
		balance = g.balanceAttr
	}
	return fmt.Sprintf(
		`<PaymentGateway_PaymentCardAdminRS><Success/><AdminResult Status=%q ProgramName=%q BalanceRemaining=%q/></PaymentGateway_PaymentCardAdminRS>`,
		acct.status, acct.program, balance,
	)
}

func processingResponse(result string) string {
	return fmt.Sprintf(
		`<HTNG_PaymentCardProcessingRS><Success/><Authorization><AuthorizationResult Result=%q/></Authorization></HTNG_PaymentCardProcessingRS>`,
		result,
	)
}
