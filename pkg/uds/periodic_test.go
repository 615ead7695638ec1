package uds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDataByPeriodicIdentifierSendsModeAndDIDs(t *testing.T) {
	tp := newFakeTransport([]byte{SIDReadDataByPeriodicIdentifier + 0x40})
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.ReadDataByPeriodicIdentifier(context.Background(), TransmissionMedium, []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, []byte{SIDReadDataByPeriodicIdentifier, byte(TransmissionMedium), 0x01, 0x02}, tp.Sent[0])
}

func TestReceivePeriodicParsesUnsolicitedFrame(t *testing.T) {
	tp := newFakeTransport([]byte{SIDReadDataByPeriodicIdentifier + positiveResponseBit, 0x01, 0xAA, 0xBB})
	c := NewClient(tp, fastConfig(), nil, nil)

	sample, err := c.ReceivePeriodic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), sample.PeriodicDID)
	assert.Equal(t, []byte{0xAA, 0xBB}, sample.Data)
}

func TestReceivePeriodicRejectsUnexpectedSID(t *testing.T) {
	tp := newFakeTransport([]byte{SIDReadDataByIdentifier + positiveResponseBit, 0x01, 0xAA})
	c := NewClient(tp, fastConfig(), nil, nil)

	_, err := c.ReceivePeriodic(context.Background())
	assert.Error(t, err)
}
