package paygate

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/giftcard-service/pkg/timeutil"
)

// Protocol constants. The version string and the boolean-ish attribute
// values are fixed by the gateway's wire format.
const (
	protocolVersion = "1.000"

	requestTypeAccountInfo = "Account Info"
	requestTypeActivate    = "Activate"

	transactionTypeSale   = "Sale"
	transactionTypeReturn = "Return"

	cardPresent  = "True"
	privateLabel = "True"

	// Reference numbers are drawn from [0, refNumberRange). They only need
	// to be present and numeric, not unique.
	refNumberRange = 1000
)

type pos struct {
	TerminalID string `xml:"TerminalID,attr"`
}

type pingEnvelope struct {
	XMLName   xml.Name `xml:"PaymentGateway_PingRQ"`
	TimeStamp string   `xml:"TimeStamp,attr"`
	Version   string   `xml:"Version,attr"`
	POS       pos      `xml:"POS"`
}

type paymentCard struct {
	CardNumber string `xml:"CardNumber,attr"`
}

type adminRequest struct {
	RequestType string      `xml:"RequestType,attr"`
	Amount      string      `xml:"Amount,attr,omitempty"`
	RefNumber   string      `xml:"RefNumber,attr,omitempty"`
	PaymentCard paymentCard `xml:"PaymentCard"`
}

type adminEnvelope struct {
	XMLName      xml.Name     `xml:"PaymentGateway_PaymentCardAdminRQ"`
	TimeStamp    string       `xml:"TimeStamp,attr"`
	Version      string       `xml:"Version,attr"`
	POS          pos          `xml:"POS"`
	AdminRequest adminRequest `xml:"AdminRequest"`
}

type creditCard struct {
	CardNumber               string `xml:"CardNumber,attr"`
	CardNumberIsPrivateLabel string `xml:"CardNumberIsPrivateLabel,attr"`
}

type creditCardAuthorization struct {
	TransactionType string     `xml:"TransactionType,attr"`
	Amount          string     `xml:"Amount,attr"`
	CardPresentInd  string     `xml:"CardPresentInd,attr"`
	CreditCard      creditCard `xml:"CreditCard"`
}

type authorizationDetail struct {
	RefNumber               string                  `xml:"RefNumber,attr"`
	CreditCardAuthorization creditCardAuthorization `xml:"CreditCardAuthorization"`
}

type processingEnvelope struct {
	XMLName             xml.Name            `xml:"HTNG_PaymentCardProcessingRQ"`
	TimeStamp           string              `xml:"TimeStamp,attr"`
	Version             string              `xml:"Version,attr"`
	POS                 pos                 `xml:"POS"`
	AuthorizationDetail authorizationDetail `xml:"AuthorizationDetail"`
}

// buildPingEnvelope constructs the health-check request
func buildPingEnvelope(terminalID string, now time.Time) ([]byte, error) {
	return xml.Marshal(pingEnvelope{
		TimeStamp: timeutil.Timestamp(now),
		Version:   protocolVersion,
		POS:       pos{TerminalID: terminalID},
	})
}

// buildAccountInfoEnvelope constructs the administrative account lookup
// request used by AccountExists and GetBalance
func buildAccountInfoEnvelope(terminalID, cardNumber string, now time.Time) ([]byte, error) {
	return xml.Marshal(adminEnvelope{
		TimeStamp: timeutil.Timestamp(now),
		Version:   protocolVersion,
		POS:       pos{TerminalID: terminalID},
		AdminRequest: adminRequest{
			RequestType: requestTypeAccountInfo,
			PaymentCard: paymentCard{CardNumber: cardNumber},
		},
	})
}

// buildActivateEnvelope constructs the activation request. The amount is
// always 0.00: new accounts open empty.
func buildActivateEnvelope(terminalID, cardNumber string, refNumber int, now time.Time) ([]byte, error) {
	return xml.Marshal(adminEnvelope{
		TimeStamp: timeutil.Timestamp(now),
		Version:   protocolVersion,
		POS:       pos{TerminalID: terminalID},
		AdminRequest: adminRequest{
			RequestType: requestTypeActivate,
			Amount:      "0.00",
			RefNumber:   strconv.Itoa(refNumber),
			PaymentCard: paymentCard{CardNumber: cardNumber},
		},
	})
}

// buildProcessingEnvelope constructs a sale or return authorization request
func buildProcessingEnvelope(terminalID, transactionType, cardNumber string, amount decimal.Decimal, refNumber int, now time.Time) ([]byte, error) {
	if transactionType != transactionTypeSale && transactionType != transactionTypeReturn {
		return nil, fmt.Errorf("invalid transaction type: %s", transactionType)
	}

	return xml.Marshal(processingEnvelope{
		TimeStamp: timeutil.Timestamp(now),
		Version:   protocolVersion,
		POS:       pos{TerminalID: terminalID},
		AuthorizationDetail: authorizationDetail{
			RefNumber: strconv.Itoa(refNumber),
			CreditCardAuthorization: creditCardAuthorization{
				TransactionType: transactionType,
				Amount:          formatAmount(amount),
				CardPresentInd:  cardPresent,
				CreditCard: creditCard{
					CardNumber:               cardNumber,
					CardNumberIsPrivateLabel: privateLabel,
				},
			},
		},
	})
}

// formatAmount renders a monetary amount the way the gateway expects:
// banker's rounding to two places, then exactly two decimal digits.
func formatAmount(amount decimal.Decimal) string {
	return amount.RoundBank(2).StringFixed(2)
}
