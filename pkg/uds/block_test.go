package uds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestDownloadParsesMaxBlockLengthAndResetsCounter(t *testing.T) {
	// lengthFormatIdentifier 0x20 -> 2-byte maxNumberOfBlockLength field.
	tp := newFakeTransport([]byte{SIDRequestDownload + 0x40, 0x20, 0x01, 0x00})
	c := NewClient(tp, fastConfig(), nil, nil)
	c.blockCounter = 0x42

	maxLen, err := c.RequestDownload(context.Background(), DataFormatRaw, 0x1000, 0x0100)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0100), maxLen)
	assert.Equal(t, byte(0x00), c.blockCounter)
	assert.Equal(t, DownloadRequested, c.downloadState)

	req := tp.Sent[0]
	assert.Equal(t, byte(SIDRequestDownload), req[0])
	assert.Equal(t, byte(DataFormatRaw), req[1])
}

func TestRequestUploadParsesMaxBlockLength(t *testing.T) {
	tp := newFakeTransport([]byte{SIDRequestUpload + 0x40, 0x10, 0xFF})
	c := NewClient(tp, fastConfig(), nil, nil)

	maxLen, err := c.RequestUpload(context.Background(), DataFormatRaw, 0x2000, 0x0200)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF), maxLen)
}

func TestRequestFileTransferParsesMaxBlockLength(t *testing.T) {
	// Response: [modeOfOperation, lengthFormatIdentifier, maxNumberOfBlockLength...]
	tp := newFakeTransport([]byte{SIDRequestFileTransfer + 0x40, 0x01, 0x10, 0x40})
	c := NewClient(tp, fastConfig(), nil, nil)

	maxLen, err := c.RequestFileTransfer(context.Background(), 0x01, "/flash/app.bin", DataFormatRaw, 4096)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x40), maxLen)
}

func TestTransferDataUploadReturnsPayload(t *testing.T) {
	tp := newFakeTransport([]byte{SIDTransferData + 0x40, 0x01, 0xAA, 0xBB})
	c := NewClient(tp, fastConfig(), nil, nil)
	c.downloadState = DownloadRequested

	data, err := c.TransferDataUpload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, data)
	assert.Equal(t, DownloadTransferring, c.downloadState)
}

func TestTransferDataEchoedWrongCounterErrors(t *testing.T) {
	tp := newFakeTransport([]byte{SIDTransferData + 0x40, 0x09})
	c := NewClient(tp, fastConfig(), nil, nil)
	c.downloadState = DownloadRequested
	c.blockCounter = 0x00

	err := c.TransferData(context.Background(), []byte{0x01})
	assert.Error(t, err)
}

func TestRequestTransferExitReturnsResponseAndResetsState(t *testing.T) {
	tp := newFakeTransport([]byte{SIDRequestTransferExit + 0x40, 0x01})
	c := NewClient(tp, fastConfig(), nil, nil)
	c.downloadState = DownloadTransferring

	resp, err := c.RequestTransferExit(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, resp)
	assert.Equal(t, DownloadIdle, c.downloadState)
}
