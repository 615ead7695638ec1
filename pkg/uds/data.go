package uds

import (
	"context"
	"encoding/binary"
)

const cacheSessionID = 0 // single-session client; reserved for multi-ECU callers

// ReadDataByIdentifier reads the raw record for did, ISO 14229-1 section
// 10.2. Consults the response cache first, and populates it on a miss.
func (c *Client) ReadDataByIdentifier(ctx context.Context, did uint16) ([]byte, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheSessionID, SIDReadDataByIdentifier, did); ok {
			return cached, nil
		}
	}

	req := make([]byte, 2)
	binary.BigEndian.PutUint16(req, did)
	resp, err := c.Exchange(ctx, SIDReadDataByIdentifier, req)
	if err != nil {
		return nil, err
	}
	if len(resp) < 2 {
		return nil, protocolErr("malformed ReadDataByIdentifier response")
	}
	gotDID := binary.BigEndian.Uint16(resp[:2])
	if gotDID != did {
		return nil, protocolErr("ReadDataByIdentifier echoed DID 0x%04X, expected 0x%04X", gotDID, did)
	}
	record := append([]byte(nil), resp[2:]...)

	if c.cache != nil {
		c.cache.Put(cacheSessionID, SIDReadDataByIdentifier, did, record)
	}
	return record, nil
}

// WriteDataByIdentifier writes record to did, ISO 14229-1 section 10.7.
func (c *Client) WriteDataByIdentifier(ctx context.Context, did uint16, record []byte) error {
	req := make([]byte, 2, 2+len(record))
	binary.BigEndian.PutUint16(req, did)
	req = append(req, record...)
	resp, err := c.Exchange(ctx, SIDWriteDataByIdentifier, req)
	if err != nil {
		return err
	}
	if len(resp) < 2 || binary.BigEndian.Uint16(resp[:2]) != did {
		return protocolErr("malformed WriteDataByIdentifier response")
	}
	return nil
}

// ScalingInfo is one scaling/validity descriptor for a DID, ISO 14229-1
// section 10.3 (Table 74 formula and unit bytes are passed through raw,
// interpretation is caller-specific).
type ScalingInfo struct {
	DID  uint16
	Data []byte
}

// ReadScalingDataByIdentifier reads the scaling/formula record for did,
// ISO 14229-1 section 10.3.
func (c *Client) ReadScalingDataByIdentifier(ctx context.Context, did uint16) (ScalingInfo, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(cacheSessionID, SIDReadScalingDataByIdentifier, did); ok {
			return ScalingInfo{DID: did, Data: cached}, nil
		}
	}

	req := make([]byte, 2)
	binary.BigEndian.PutUint16(req, did)
	resp, err := c.Exchange(ctx, SIDReadScalingDataByIdentifier, req)
	if err != nil {
		return ScalingInfo{}, err
	}
	if len(resp) < 2 {
		return ScalingInfo{}, protocolErr("malformed ReadScalingDataByIdentifier response")
	}
	info := ScalingInfo{DID: binary.BigEndian.Uint16(resp[:2]), Data: append([]byte(nil), resp[2:]...)}

	if c.cache != nil {
		c.cache.Put(cacheSessionID, SIDReadScalingDataByIdentifier, did, info.Data)
	}
	return info, nil
}

// ReadMemoryByAddress reads size bytes starting at address, ISO 14229-1
// section 10.3.
func (c *Client) ReadMemoryByAddress(ctx context.Context, address, size uint64) ([]byte, error) {
	alfi, field := encodeMemoryAddress(address, size)
	req := make([]byte, 0, 1+len(field))
	req = append(req, byte(alfi))
	req = append(req, field...)

	resp, err := c.Exchange(ctx, SIDReadMemoryByAddress, req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// WriteMemoryByAddress writes data at address, ISO 14229-1 section 10.8.
// The declared memory size is always len(data).
func (c *Client) WriteMemoryByAddress(ctx context.Context, address uint64, data []byte) error {
	alfi, field := encodeMemoryAddress(address, uint64(len(data)))
	req := make([]byte, 0, 1+len(field)+len(data))
	req = append(req, byte(alfi))
	req = append(req, field...)
	req = append(req, data...)

	resp, err := c.Exchange(ctx, SIDWriteMemoryByAddress, req)
	if err != nil {
		return err
	}
	if len(resp) < 1 {
		return protocolErr("malformed WriteMemoryByAddress response")
	}
	return nil
}
