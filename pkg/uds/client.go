// Package uds implements a client-side ISO 14229-1 diagnostic service
// engine: the request/response exchange dispatcher, session and security
// handling, block transfer, and the higher-level per-service helpers.
package uds

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// transport is the segmentation layer this engine is built on. It is
// satisfied by *isotp.Transport; kept as a narrow interface here so the
// engine can be exercised against a fake in tests without a real bus.
type transport interface {
	Send(ctx context.Context, sdu []byte) error
	Receive(ctx context.Context) ([]byte, error)
	SetRxEnabled(enabled bool)
	SetTxEnabled(enabled bool)
}

// Config holds the session timing parameters, ISO 14229-1 section 7.2.
type Config struct {
	// P2 is the max time to wait for an initial response.
	P2 time.Duration
	// P2Star is the max time to wait for a response after NRC 0x78
	// (RequestCorrectlyReceived-ResponsePending).
	P2Star time.Duration
	// S3 is the session keep-alive period; callers are expected to send
	// TesterPresent at roughly this cadence while a non-default session
	// is active.
	S3 time.Duration
	// MaxResponsePendingRetries bounds how many consecutive NRC 0x78
	// responses are tolerated before giving up, so a misbehaving ECU
	// cannot hang an exchange forever. 0 means unbounded.
	MaxResponsePendingRetries int
}

// DefaultConfig returns the ISO 14229-1 default timing values.
func DefaultConfig() Config {
	return Config{
		P2:     50 * time.Millisecond,
		P2Star: 5000 * time.Millisecond,
		S3:     5000 * time.Millisecond,
	}
}

// Client drives one diagnostic conversation: one transport, one session.
type Client struct {
	tp     transport
	cfg    Config
	logger *log.Logger

	session  SessionState
	security SecurityState

	keyDeriver KeyDeriver
	cache      ResponseCache

	dtcSuppressedDepth int
	commSilencedDepth  int

	downloadState DownloadState
	blockCounter  byte

	dtcLoggingDisabled bool
}

// NewClient builds a Client over tp. keyDeriver and cache are optional
// collaborators (either may be nil).
func NewClient(tp transport, cfg Config, keyDeriver KeyDeriver, cache ResponseCache) *Client {
	return &Client{
		tp:         tp,
		cfg:        cfg,
		logger:     log.StandardLogger(),
		session:    StateNoSession,
		keyDeriver: keyDeriver,
		cache:      cache,
	}
}

// Exchange sends [sid, payload...] and returns the positive response's data
// with the SID stripped (an echoed sub-function, where present, is left for
// the caller to strip). It implements the ResponsePending (NRC 0x78) retry
// at P2Star, unbounded unless Config.MaxResponsePendingRetries caps it, and
// the BusyRepeatRequest (NRC 0x21) one-shot retry at P2,
// ISO 14229-1 section 7.2.
func (c *Client) Exchange(ctx context.Context, sid byte, payload []byte) ([]byte, error) {
	req := make([]byte, 0, 1+len(payload))
	req = append(req, sid)
	req = append(req, payload...)

	if err := c.tp.Send(ctx, req); err != nil {
		return nil, wrapErr(KindTransportAbort, err)
	}

	busyRetried := false
	pendingRetries := 0
	timeout := c.cfg.P2

	for {
		rctx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := c.tp.Receive(rctx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, wrapErr(KindTimeout, err)
			}
			return nil, wrapErr(KindTransportAbort, err)
		}
		if len(resp) == 0 {
			return nil, protocolErr("empty response")
		}
		if resp[0] != negativeResponseSID {
			return c.checkPositive(sid, resp)
		}

		if len(resp) < 3 {
			return nil, protocolErr("truncated negative response")
		}
		respSID := resp[1]
		reason := ReasonCode(resp[2])
		if respSID != sid {
			return nil, protocolErr("negative response echoes SID 0x%02X, expected 0x%02X", respSID, sid)
		}

		switch reason {
		case NRCRequestCorrectlyReceivedResPending:
			pendingRetries++
			if c.cfg.MaxResponsePendingRetries > 0 && pendingRetries > c.cfg.MaxResponsePendingRetries {
				return nil, negativeErr(sid, reason)
			}
			c.logger.WithField("sid", sid).Debug("[UDS] response pending, waiting at P2*")
			timeout = c.cfg.P2Star
			continue

		case NRCBusyRepeatRequest:
			if busyRetried {
				return nil, negativeErr(sid, reason)
			}
			busyRetried = true
			timeout = c.cfg.P2
			c.logger.WithField("sid", sid).Debug("[UDS] busy, repeating request once")
			if err := c.tp.Send(ctx, req); err != nil {
				return nil, wrapErr(KindTransportAbort, err)
			}
			continue

		default:
			return nil, negativeErr(sid, reason, resp[3:]...)
		}
	}
}

func (c *Client) checkPositive(sid byte, resp []byte) ([]byte, error) {
	if resp[0] != sid+positiveResponseBit {
		return nil, protocolErr("positive response SID 0x%02X does not match request SID 0x%02X", resp[0], sid)
	}
	return resp[1:], nil
}
