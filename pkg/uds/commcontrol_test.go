package uds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunicationControlMirrorsTransportSwitches(t *testing.T) {
	tp := newFakeTransport([]byte{SIDCommunicationControl + 0x40, byte(DisableRxAndTx)})
	tp.rxEnabled = true
	tp.txEnabled = true
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.CommunicationControl(context.Background(), DisableRxAndTx, 0x01, false)
	require.NoError(t, err)
	assert.False(t, tp.rxEnabled)
	assert.False(t, tp.txEnabled)
}

func TestCommunicationControlSuppressedSendsWithoutWaiting(t *testing.T) {
	tp := newFakeTransport() // no scripted response; Receive would time out if awaited
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.CommunicationControl(context.Background(), DisableRxAndTx, 0x01, true)
	require.NoError(t, err)
	require.Len(t, tp.Sent, 1)
	assert.Equal(t, byte(SIDCommunicationControl), tp.Sent[0][0])
	assert.Equal(t, byte(DisableRxAndTx)|0x80, tp.Sent[0][1])
	assert.Equal(t, byte(0x01), tp.Sent[0][2])
	assert.False(t, tp.rxEnabled)
	assert.False(t, tp.txEnabled)
}

func TestControlDTCSettingUpdatesLoggingState(t *testing.T) {
	tp := newFakeTransport([]byte{SIDControlDTCSetting + 0x40, byte(DTCSettingOff)})
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.ControlDTCSetting(context.Background(), DTCSettingOff, nil, false)
	require.NoError(t, err)
	assert.True(t, c.dtcLoggingDisabled)
}

func TestControlDTCSettingSuppressedSendsWithoutWaiting(t *testing.T) {
	tp := newFakeTransport()
	c := NewClient(tp, fastConfig(), nil, nil)

	err := c.ControlDTCSetting(context.Background(), DTCSettingOff, []byte{0xAA}, true)
	require.NoError(t, err)
	require.Len(t, tp.Sent, 1)
	assert.Equal(t, []byte{SIDControlDTCSetting, byte(DTCSettingOff) | 0x80, 0xAA}, tp.Sent[0])
	assert.True(t, c.dtcLoggingDisabled)
}
