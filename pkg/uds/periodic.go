package uds

import "context"

// TransmissionMode, ISO 14229-1 section 10.5.
type TransmissionMode byte

const (
	TransmissionSlow       TransmissionMode = 0x01
	TransmissionMedium     TransmissionMode = 0x02
	TransmissionFast       TransmissionMode = 0x03
	TransmissionStopSending TransmissionMode = 0x04
)

// ReadDataByPeriodicIdentifier starts (or stops) unsolicited periodic
// transmission of the named periodic DIDs, ISO 14229-1 section 10.5. The
// positive response only acknowledges the request; the periodic data itself
// arrives later as unsolicited frames, received via ReceivePeriodic.
func (c *Client) ReadDataByPeriodicIdentifier(ctx context.Context, mode TransmissionMode, periodicDIDs []byte) error {
	req := make([]byte, 0, 1+len(periodicDIDs))
	req = append(req, byte(mode))
	req = append(req, periodicDIDs...)
	_, err := c.Exchange(ctx, SIDReadDataByPeriodicIdentifier, req)
	return err
}

// PeriodicSample is one unsolicited periodic-data frame.
type PeriodicSample struct {
	PeriodicDID byte
	Data        []byte
}

// ReceivePeriodic blocks for the next unsolicited periodic-data frame,
// which carries SID 0x6A (ReadDataByPeriodicIdentifier's positive response
// SID) pushed by the ECU without a matching request. Callers typically run
// this in a loop on its own goroutine once periodic transmission has been
// started.
func (c *Client) ReceivePeriodic(ctx context.Context) (PeriodicSample, error) {
	resp, err := c.tp.Receive(ctx)
	if err != nil {
		return PeriodicSample{}, wrapErr(KindTransportAbort, err)
	}
	if len(resp) < 2 || resp[0] != SIDReadDataByPeriodicIdentifier+positiveResponseBit {
		return PeriodicSample{}, protocolErr("unexpected frame on periodic stream")
	}
	return PeriodicSample{PeriodicDID: resp[1], Data: append([]byte(nil), resp[2:]...)}, nil
}
