package paygate

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kevin07696/giftcard-service/internal/domain"
)

// Default client settings
const (
	DefaultTimeout               = 5 * time.Second
	DefaultMaxAllocationAttempts = 100
)

// Config contains connection parameters for the gift card gateway. It is
// immutable after the client is constructed.
type Config struct {
	// TerminalID identifies this point-of-sale terminal to the gateway
	TerminalID string

	// ProgramName is the exact name of the gift card program. Cards that are
	// active under a different program share the numeric range but do not
	// belong to this client.
	ProgramName string

	// Host and Port of the gateway server
	Host string
	Port int

	// Timeout bounds connection setup and the response read. Defaults to
	// DefaultTimeout.
	Timeout time.Duration

	// MinCardNumber and MaxCardNumber bound the program's card number range.
	// Both must be numeric strings of the same length; card numbers drawn by
	// CreateAccount keep that digit width.
	MinCardNumber string
	MaxCardNumber string

	// MaxAllocationAttempts bounds CreateAccount's search for an unissued
	// card number. Defaults to DefaultMaxAllocationAttempts.
	MaxAllocationAttempts int
}

// Validate checks the configuration invariants. All violations are reported
// as CONFIG_INVALID errors.
func (c *Config) Validate() error {
	if c.TerminalID == "" {
		return domain.NewGatewayError(domain.ErrorCodeConfigInvalid, "terminal ID is required")
	}
	if c.ProgramName == "" {
		return domain.NewGatewayError(domain.ErrorCodeConfigInvalid, "program name is required")
	}
	if c.Host == "" {
		return domain.NewGatewayError(domain.ErrorCodeConfigInvalid, "gateway host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return domain.NewGatewayError(domain.ErrorCodeConfigInvalid, fmt.Sprintf("gateway port %d is out of range", c.Port))
	}

	if len(c.MinCardNumber) != len(c.MaxCardNumber) {
		return domain.NewGatewayError(domain.ErrorCodeConfigInvalid, "min and max card numbers are not of the same length")
	}
	min, err := strconv.ParseInt(c.MinCardNumber, 10, 64)
	if err != nil {
		return domain.NewGatewayError(domain.ErrorCodeConfigInvalid, "min card number is non-numeric")
	}
	max, err := strconv.ParseInt(c.MaxCardNumber, 10, 64)
	if err != nil {
		return domain.NewGatewayError(domain.ErrorCodeConfigInvalid, "max card number is non-numeric")
	}
	if min > max {
		return domain.NewGatewayError(domain.ErrorCodeConfigInvalid, "min card number is greater than max card number")
	}

	return nil
}

// Address returns the gateway's host:port dial address
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// withDefaults returns a copy of the config with zero-valued optional fields
// filled in
func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxAllocationAttempts <= 0 {
		c.MaxAllocationAttempts = DefaultMaxAllocationAttempts
	}
	return c
}
