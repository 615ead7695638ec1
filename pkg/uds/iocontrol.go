package uds

import (
	"context"
	"encoding/binary"
)

// IOControlParameter, ISO 14229-1 section 12.2.
type IOControlParameter byte

const (
	IOReturnControlToECU IOControlParameter = 0x00
	IOResetToDefault     IOControlParameter = 0x01
	IOFreezeCurrentState IOControlParameter = 0x02
	IOShortTermAdjustment IOControlParameter = 0x03
)

// InputOutputControlByIdentifier overrides an input/output signal named by
// did, ISO 14229-1 section 12.2. controlState carries the short-term
// adjustment value when parameter is IOShortTermAdjustment.
func (c *Client) InputOutputControlByIdentifier(ctx context.Context, did uint16, parameter IOControlParameter, controlState []byte) ([]byte, error) {
	req := make([]byte, 3, 3+len(controlState))
	binary.BigEndian.PutUint16(req[:2], did)
	req[2] = byte(parameter)
	req = append(req, controlState...)

	resp, err := c.Exchange(ctx, SIDInputOutputControlByIdentifier, req)
	if err != nil {
		return nil, err
	}
	if len(resp) < 2 || binary.BigEndian.Uint16(resp[:2]) != did {
		return nil, protocolErr("malformed InputOutputControlByIdentifier response")
	}
	return resp[2:], nil
}
