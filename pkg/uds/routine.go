package uds

import (
	"context"
	"encoding/binary"
)

// RoutineControlType, ISO 14229-1 section 13.2.
type RoutineControlType byte

const (
	RoutineStart        RoutineControlType = 0x01
	RoutineStop         RoutineControlType = 0x02
	RoutineRequestResults RoutineControlType = 0x03
)

// RoutineControl starts, stops, or requests the results of routineID, ISO
// 14229-1 section 13.2. The routine status record (if any) is returned raw.
func (c *Client) RoutineControl(ctx context.Context, controlType RoutineControlType, routineID uint16, record []byte) ([]byte, error) {
	req := make([]byte, 3, 3+len(record))
	req[0] = byte(controlType)
	binary.BigEndian.PutUint16(req[1:3], routineID)
	req = append(req, record...)

	resp, err := c.Exchange(ctx, SIDRoutineControl, req)
	if err != nil {
		return nil, err
	}
	if len(resp) < 3 || resp[0] != byte(controlType) || binary.BigEndian.Uint16(resp[1:3]) != routineID {
		return nil, protocolErr("malformed RoutineControl response")
	}
	return resp[3:], nil
}
