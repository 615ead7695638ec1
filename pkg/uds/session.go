package uds

import (
	"context"
	"encoding/binary"
	"time"
)

// Fixed ISO 14229-1 timing floors: no negotiated P2/P2* may go below these,
// regardless of what the ECU advertises.
const (
	minP2     = 50 * time.Millisecond
	minP2Star = 500 * time.Millisecond
)

// DiagnosticSessionControl requests sessionType and, on success, adopts
// the ECU's advertised P2/P2* values as the client's timing parameters
// (floored at the ISO 14229-1 minimums) and marks the session active.
func (c *Client) DiagnosticSessionControl(ctx context.Context, sessionType DiagnosticSessionType) error {
	resp, err := c.Exchange(ctx, SIDDiagnosticSessionControl, []byte{byte(sessionType)})
	if err != nil {
		return err
	}
	if len(resp) < 5 || resp[0] != byte(sessionType) {
		return protocolErr("malformed DiagnosticSessionControl response")
	}

	p2ms := binary.BigEndian.Uint16(resp[1:3])
	p2starUnits := binary.BigEndian.Uint16(resp[3:5]) // units of 10ms per ISO 14229-1

	c.cfg.P2 = time.Duration(p2ms) * time.Millisecond
	if c.cfg.P2 < minP2 {
		c.cfg.P2 = minP2
	}
	c.cfg.P2Star = time.Duration(p2starUnits) * 10 * time.Millisecond
	if c.cfg.P2Star < minP2Star {
		c.cfg.P2Star = minP2Star
	}

	if sessionType == SessionDefault {
		c.session = StateDefaultSession
	} else {
		c.session = StateNonDefaultSession
	}
	return nil
}

// ECUReset requests an ECU reset. A positive response is not guaranteed if
// resetType causes the ECU to reset before replying; callers should not
// treat a transport timeout immediately after this call as fatal.
func (c *Client) ECUReset(ctx context.Context, resetType ResetType) error {
	resp, err := c.Exchange(ctx, SIDECUReset, []byte{byte(resetType)})
	if err != nil {
		return err
	}
	c.session = StateNoSession
	c.security = StateLocked
	if len(resp) < 1 || resp[0] != byte(resetType) {
		return protocolErr("malformed ECUReset response")
	}
	return nil
}

// TesterPresent keeps the current session alive. When suppressPositiveResponse
// is set the request's sub-function carries bit 0x80 and no reply is
// awaited, matching ISO 14229-1's suppress-positive-response convention.
func (c *Client) TesterPresent(ctx context.Context, suppressPositiveResponse bool) error {
	subFunction := byte(0x00)
	if suppressPositiveResponse {
		subFunction |= 0x80
		req := append([]byte{SIDTesterPresent}, subFunction)
		return wrapErr(KindTransportAbort, c.tp.Send(ctx, req))
	}
	_, err := c.Exchange(ctx, SIDTesterPresent, []byte{subFunction})
	return err
}

// TimingParameterType, ISO 14229-1 section 9.7.
type TimingParameterType byte

const (
	TimingReadExtendedSet  TimingParameterType = 0x01
	TimingSetToDefault     TimingParameterType = 0x02
	TimingReadCurrent      TimingParameterType = 0x03
	TimingSetToGiven       TimingParameterType = 0x04
)

// AccessTimingParameters reads or sets P2/P2* outside of a session-control
// exchange, ISO 14229-1 section 9.7. record is only sent when typ is
// TimingSetToGiven.
func (c *Client) AccessTimingParameters(ctx context.Context, typ TimingParameterType, record []byte) ([]byte, error) {
	payload := []byte{byte(typ)}
	if typ == TimingSetToGiven {
		payload = append(payload, record...)
	}
	resp, err := c.Exchange(ctx, SIDAccessTimingParameter, payload)
	if err != nil {
		return nil, err
	}
	if len(resp) < 1 || resp[0] != byte(typ) {
		return nil, protocolErr("malformed AccessTimingParameters response")
	}
	return resp[1:], nil
}
