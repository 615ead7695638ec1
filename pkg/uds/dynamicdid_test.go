package uds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineDynamicDIDBySourceEncodesSegments(t *testing.T) {
	tp := newFakeTransport([]byte{SIDDynamicallyDefineDataIdentifier + 0x40, dynDIDDefineByIdentifier})
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.DefineDynamicDIDBySource(context.Background(), 0xF300, []SourceSegment{
		{SourceDID: 0xF190, Position: 1, Size: 2},
	})
	require.NoError(t, err)

	req := tp.Sent[0]
	assert.Equal(t, []byte{
		SIDDynamicallyDefineDataIdentifier, dynDIDDefineByIdentifier,
		0xF3, 0x00,
		0xF1, 0x90, 0x01, 0x02,
	}, req)
}

func TestDefineDynamicDIDByMemoryAddressRejectsEmptySegments(t *testing.T) {
	tp := newFakeTransport()
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.DefineDynamicDIDByMemoryAddress(context.Background(), 0xF300, nil)
	assert.Error(t, err)
	assert.Empty(t, tp.Sent)
}

func TestDefineDynamicDIDByMemoryAddressEncodesALFI(t *testing.T) {
	tp := newFakeTransport([]byte{SIDDynamicallyDefineDataIdentifier + 0x40, dynDIDDefineByMemoryAddress})
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.DefineDynamicDIDByMemoryAddress(context.Background(), 0xF300, []MemorySegment{
		{Address: 0x1234, Size: 0x08},
	})
	require.NoError(t, err)

	req := tp.Sent[0]
	assert.Equal(t, byte(newALFI(2, 1)), req[3])
	assert.Equal(t, []byte{0x12, 0x34, 0x08}, req[4:])
}

func TestClearDynamicDIDSpecificIdentifier(t *testing.T) {
	tp := newFakeTransport([]byte{SIDDynamicallyDefineDataIdentifier + 0x40, dynDIDClearDynamicallyDefined})
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.ClearDynamicDID(context.Background(), 0xF300, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{SIDDynamicallyDefineDataIdentifier, dynDIDClearDynamicallyDefined, 0xF3, 0x00}, tp.Sent[0])
}

func TestClearDynamicDIDAll(t *testing.T) {
	tp := newFakeTransport([]byte{SIDDynamicallyDefineDataIdentifier + 0x40, dynDIDClearDynamicallyDefined})
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.ClearDynamicDID(context.Background(), 0, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{SIDDynamicallyDefineDataIdentifier, dynDIDClearDynamicallyDefined}, tp.Sent[0])
}
