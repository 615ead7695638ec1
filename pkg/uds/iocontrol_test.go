package uds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputOutputControlByIdentifierSendsControlState(t *testing.T) {
	tp := newFakeTransport([]byte{SIDInputOutputControlByIdentifier + 0x40, 0xF1, 0x90, 0x64})
	c := NewClient(tp, fastConfig(), nil, nil)

	resp, err := c.InputOutputControlByIdentifier(context.Background(), 0xF190, IOShortTermAdjustment, []byte{0x64})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x64}, resp)
	assert.Equal(t, []byte{SIDInputOutputControlByIdentifier, 0xF1, 0x90, byte(IOShortTermAdjustment), 0x64}, tp.Sent[0])
}

func TestInputOutputControlByIdentifierMismatchedDIDErrors(t *testing.T) {
	tp := newFakeTransport([]byte{SIDInputOutputControlByIdentifier + 0x40, 0xF1, 0x91})
	c := NewClient(tp, fastConfig(), nil, nil)

	_, err := c.InputOutputControlByIdentifier(context.Background(), 0xF190, IOReturnControlToECU, nil)
	assert.Error(t, err)
}
