package models

import "github.com/shopspring/decimal"

// AccountStatus is the status string the gateway reports for a card account
type AccountStatus string

const (
	// AccountStatusActive is the only status under which an account is usable.
	// Any other value (or a missing Success element) means the card cannot be
	// charged or deposited into.
	AccountStatusActive AccountStatus = "Active"
)

// AccountInfo is the state the gateway reports for a single card account.
// An account belongs to this client only if its status is Active and its
// program name matches the configured program; cards active under a different
// program share the numeric range but are treated as nonexistent.
type AccountInfo struct {
	CardNumber  string
	Status      AccountStatus
	ProgramName string
	Balance     decimal.Decimal
}

// IsActive reports whether the account is usable under the given program
func (a *AccountInfo) IsActive(programName string) bool {
	return a.Status == AccountStatusActive && a.ProgramName == programName
}
