package paygate

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevin07696/giftcard-service/internal/domain"
	"github.com/kevin07696/giftcard-service/internal/domain/models"
	"github.com/kevin07696/giftcard-service/pkg/observability"
)

// transport performs one fully independent request/response exchange per
// call: dial, write the envelope, read and parse a single XML document,
// close. The protocol has no length prefix; the message boundary is the end
// of the well-formed root element.
type transport struct {
	addr    string
	timeout time.Duration
	logger  *zap.Logger
}

func newTransport(cfg Config, logger *zap.Logger) *transport {
	return &transport{
		addr:    cfg.Address(),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// exchange sends the envelope and returns the parsed response document.
// When requireSuccess is set (every operation except ping), a response
// without a Success element fails with a protocol error carrying the parsed
// document.
func (t *transport) exchange(ctx context.Context, operation string, envelope []byte, requireSuccess bool) (*models.ResponseDocument, error) {
	exchangeID := uuid.NewString()
	start := time.Now()
	done := observability.TrackInFlight()
	defer done()

	t.logger.Debug("sending gateway envelope",
		zap.String("operation", operation),
		zap.String("exchange_id", exchangeID),
		zap.String("addr", t.addr),
		zap.Int("request_bytes", len(envelope)),
	)

	doc, err := t.roundTrip(ctx, envelope)
	if err != nil {
		observability.ObserveGatewayRequest(operation, observability.StatusTransportError, time.Since(start))
		t.logger.Error("gateway exchange failed",
			zap.String("operation", operation),
			zap.String("exchange_id", exchangeID),
			zap.Error(err),
		)
		return nil, err
	}

	if requireSuccess && !doc.HasSuccess() {
		observability.ObserveGatewayRequest(operation, observability.StatusProtocolError, time.Since(start))
		t.logger.Warn("gateway response missing Success element",
			zap.String("operation", operation),
			zap.String("exchange_id", exchangeID),
			zap.String("root", doc.XMLName.Local),
		)
		return nil, domain.WrapError(domain.ErrorCodeGatewayProtocol,
			"the gateway responded but did not include a Success element", domain.ErrMissingSuccess).WithResponse(doc)
	}

	observability.ObserveGatewayRequest(operation, observability.StatusOK, time.Since(start))
	t.logger.Debug("gateway exchange completed",
		zap.String("operation", operation),
		zap.String("exchange_id", exchangeID),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_bytes", len(doc.Raw)),
	)

	return doc, nil
}

// roundTrip runs the raw socket exchange. The connection is closed on every
// exit path.
func (t *transport) roundTrip(ctx context.Context, envelope []byte) (*models.ResponseDocument, error) {
	dialer := &net.Dialer{Timeout: t.timeout}

	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		if isTimeout(err) {
			return nil, domain.WrapError(domain.ErrorCodeGatewayTimeout, "connecting to the gateway timed out", err)
		}
		return nil, domain.WrapError(domain.ErrorCodeGatewayUnreachable, "could not connect to the gateway", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(t.timeout)); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeGatewayUnreachable, "could not arm the socket deadline", err)
	}

	if _, err := conn.Write(envelope); err != nil {
		if isTimeout(err) {
			return nil, domain.WrapError(domain.ErrorCodeGatewayTimeout, "writing to the gateway timed out", err)
		}
		return nil, domain.WrapError(domain.ErrorCodeGatewayUnreachable, "writing to the gateway failed", err)
	}

	// Tee the response bytes so the parsed document keeps its raw form for
	// diagnostics.
	var raw bytes.Buffer
	doc := &models.ResponseDocument{}
	decoder := xml.NewDecoder(io.TeeReader(conn, &raw))
	if err := decoder.Decode(doc); err != nil {
		if isTimeout(err) {
			return nil, domain.WrapError(domain.ErrorCodeGatewayTimeout, "the gateway took too long to respond", err)
		}
		return nil, domain.WrapError(domain.ErrorCodeGatewayResponseInvalid, "the gateway response could not be parsed", err)
	}
	doc.Raw = raw.Bytes()

	return doc, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
