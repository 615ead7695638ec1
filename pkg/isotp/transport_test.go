package isotp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	udsiso "github.com/nexusauto/udsiso"
	"github.com/nexusauto/udsiso/pkg/can/loopback"
)

func newPair(t *testing.T, channel string, cfg Config) (client *Transport, server *Transport) {
	t.Helper()
	clientBus, err := loopback.NewBus(channel)
	require.NoError(t, err)
	require.NoError(t, clientBus.Connect())
	serverBus, err := loopback.NewBus(channel)
	require.NoError(t, err)
	require.NoError(t, serverBus.Connect())

	clientBM := udsiso.NewBusManager(clientBus)
	serverBM := udsiso.NewBusManager(serverBus)
	require.NoError(t, clientBus.Subscribe(clientBM))
	require.NoError(t, serverBus.Subscribe(serverBM))

	clientAddr := udsiso.Address{TxID: 0x7E0, RxID: 0x7E8}
	serverAddr := udsiso.Address{TxID: 0x7E8, RxID: 0x7E0}

	client = NewTransport(clientBM, clientAddr, cfg)
	server = NewTransport(serverBM, serverAddr, cfg)
	return client, server
}

func TestSingleFrameRoundTrip(t *testing.T) {
	client, server := newPair(t, "sf", DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- client.Send(ctx, []byte{0x01, 0x02, 0x03}) }()

	got, err := server.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, got)
	require.NoError(t, <-errCh)
}

func TestMultiFrameRoundTripWithBlockSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlockSize = 2
	client, server := newPair(t, "mf", cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- client.Send(ctx, payload) }()

	got, err := server.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	require.NoError(t, <-errCh)
}

func TestReceiveSequenceMismatchAborts(t *testing.T) {
	cfg := DefaultConfig()
	client, server := newPair(t, "seq", cfg)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// First frame announcing 10 bytes, client's own code will send correct
	// sequencing; to trigger a mismatch we inject a malformed consecutive
	// frame directly on the underlying bus manager instead of driving it
	// through client.Send.
	go func() {
		var ff udsiso.Frame
		ff.Data[0] = pciFirst | 0x00
		ff.Data[1] = 10
		copy(ff.Data[2:], []byte{1, 2, 3, 4, 5, 6})
		client.send(ff)

		// consume the FC the server sends back
		_, _ = client.recv(ctx, cfg.N_Bs)

		var cf udsiso.Frame
		cf.Data[0] = pciConsecutive | 0x05 // wrong sequence number, expected 1
		copy(cf.Data[1:], []byte{7, 8, 9, 10})
		client.send(cf)
	}()

	_, err := server.Receive(ctx)
	assert.ErrorIs(t, err, ErrSequenceMismatch)
}

func TestWaitForFlowControlExceedsMaxWaitFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWaitFrames = 2
	cfg.N_Bs = 100 * time.Millisecond
	client, server := newPair(t, "wft", cfg)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = server

	go func() {
		for i := 0; i < 3; i++ {
			var fc udsiso.Frame
			fc.Data[0] = pciFlowControl | fcWait
			server.send(fc) // server emits the wait frames the client is waiting on
			time.Sleep(10 * time.Millisecond)
		}
	}()

	err := client.Send(ctx, make([]byte, 20))
	assert.ErrorIs(t, err, ErrWaitFramesExceeded)
}

func TestDecodeSTmin(t *testing.T) {
	assert.Equal(t, 0*time.Millisecond, decodeSTmin(0x00))
	assert.Equal(t, 127*time.Millisecond, decodeSTmin(0x7F))
	assert.Equal(t, time.Millisecond, decodeSTmin(0xF1))
	assert.Equal(t, time.Millisecond, decodeSTmin(0xF9))
	assert.Equal(t, time.Duration(0), decodeSTmin(0x80))
	assert.Equal(t, time.Duration(0), decodeSTmin(0xFA))
}
