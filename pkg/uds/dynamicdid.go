package uds

import (
	"context"
	"encoding/binary"
)

// Dynamic DID definition sub-functions, ISO 14229-1 section 10.6.
const (
	dynDIDDefineByIdentifier     byte = 0x01
	dynDIDDefineByMemoryAddress  byte = 0x02
	dynDIDClearDynamicallyDefined byte = 0x03
)

// SourceSegment names one (sourceDID, position, size) triple to splice into
// a dynamically defined DID.
type SourceSegment struct {
	SourceDID uint16
	Position  uint8
	Size      uint8
}

// DefineDynamicDIDBySource defines dynamicDID as the concatenation of
// segments taken from other DIDs, ISO 14229-1 section 10.6.2.
func (c *Client) DefineDynamicDIDBySource(ctx context.Context, dynamicDID uint16, segments []SourceSegment) error {
	req := make([]byte, 0, 3+4*len(segments))
	req = append(req, dynDIDDefineByIdentifier)
	req = binary.BigEndian.AppendUint16(req, dynamicDID)
	for _, seg := range segments {
		req = binary.BigEndian.AppendUint16(req, seg.SourceDID)
		req = append(req, seg.Position, seg.Size)
	}
	_, err := c.Exchange(ctx, SIDDynamicallyDefineDataIdentifier, req)
	return err
}

// MemorySegment names one (address, size) region to splice into a
// dynamically defined DID.
type MemorySegment struct {
	Address uint64
	Size    uint64
}

// DefineDynamicDIDByMemoryAddress defines dynamicDID as the concatenation of
// raw memory regions, ISO 14229-1 section 10.6.3.
func (c *Client) DefineDynamicDIDByMemoryAddress(ctx context.Context, dynamicDID uint16, segments []MemorySegment) error {
	if len(segments) == 0 {
		return protocolErr("at least one memory segment is required")
	}
	alfi, _ := encodeMemoryAddress(segments[0].Address, segments[0].Size)

	req := make([]byte, 0, 4+len(segments)*16)
	req = append(req, dynDIDDefineByMemoryAddress)
	req = binary.BigEndian.AppendUint16(req, dynamicDID)
	req = append(req, byte(alfi))
	for _, seg := range segments {
		_, field := encodeMemoryAddress(seg.Address, seg.Size)
		req = append(req, field...)
	}
	_, err := c.Exchange(ctx, SIDDynamicallyDefineDataIdentifier, req)
	return err
}

// ClearDynamicDID clears one dynamically defined DID, or every dynamically
// defined DID when dynamicDID is 0 and all is true, ISO 14229-1 section
// 10.6.4.
func (c *Client) ClearDynamicDID(ctx context.Context, dynamicDID uint16, all bool) error {
	req := []byte{dynDIDClearDynamicallyDefined}
	if !all {
		req = binary.BigEndian.AppendUint16(req, dynamicDID)
	}
	_, err := c.Exchange(ctx, SIDDynamicallyDefineDataIdentifier, req)
	return err
}
