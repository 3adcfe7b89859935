package models

import "encoding/xml"

// ResponseDocument is one parsed XML response from the gateway. The root
// element name varies by operation, so XMLName is left unconstrained; the
// result elements are pointers so presence can be distinguished from zero
// values. Raw holds the bytes the document was decoded from, for diagnostics.
type ResponseDocument struct {
	XMLName       xml.Name
	Success       *struct{}      `xml:"Success"`
	PingResult    *PingResult    `xml:"PingResult"`
	AdminResult   *AdminResult   `xml:"AdminResult"`
	Authorization *Authorization `xml:"Authorization"`
	Raw           []byte         `xml:"-"`
}

// HasSuccess reports whether the response carried the Success marker element.
// Every operation except ping requires it; for unknown cards the gateway
// omits it instead of returning an explicit not-found result.
func (d *ResponseDocument) HasSuccess() bool {
	return d.Success != nil
}

// PingResult is the health-check result element
type PingResult struct {
	Host string `xml:"Host,attr"`
}

// AdminResult carries the outcome of an administrative request (account info
// or activation). BalanceRemaining is kept as the wire string so a missing
// attribute is distinguishable from a zero balance.
type AdminResult struct {
	Status           string `xml:"Status,attr"`
	ProgramName      string `xml:"ProgramName,attr"`
	BalanceRemaining string `xml:"BalanceRemaining,attr"`
}

// Authorization wraps the result of a processing (sale/return) request
type Authorization struct {
	AuthorizationResult *AuthorizationResult `xml:"AuthorizationResult"`
}

// AuthorizationResult carries the gateway's approval decision
type AuthorizationResult struct {
	Result string `xml:"Result,attr"`
}

// ResultApproved is the only Result value that counts as an approval
const ResultApproved = "APPROVED"
