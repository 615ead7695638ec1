package uds

import (
	"context"
	"errors"
)

// DataFormatIdentifier, ISO 14229-1 section 7.3: a free-form byte agreed
// out of band (0x00 conventionally means "no compression, no encryption").
const DataFormatRaw byte = 0x00

// RequestDownload requests a download of size bytes to address, ISO
// 14229-1 section 14.2. It returns the max number of data bytes the ECU
// will accept in one TransferData request and resets the block counter.
func (c *Client) RequestDownload(ctx context.Context, dataFormat byte, address, size uint64) (maxBlockLength uint32, err error) {
	alfi, field := encodeMemoryAddress(address, size)
	req := make([]byte, 0, 2+len(field))
	req = append(req, dataFormat, byte(alfi))
	req = append(req, field...)

	resp, err := c.Exchange(ctx, SIDRequestDownload, req)
	if err != nil {
		return 0, err
	}
	maxBlockLength, err = parseMaxBlockLength(resp)
	if err != nil {
		return 0, err
	}
	c.blockCounter = 0
	c.downloadState = DownloadRequested
	return maxBlockLength, nil
}

// RequestUpload requests an upload of size bytes from address, ISO
// 14229-1 section 14.3. Semantics mirror RequestDownload; data then flows
// ECU -> client via TransferData responses instead of requests.
func (c *Client) RequestUpload(ctx context.Context, dataFormat byte, address, size uint64) (maxBlockLength uint32, err error) {
	alfi, field := encodeMemoryAddress(address, size)
	req := make([]byte, 0, 2+len(field))
	req = append(req, dataFormat, byte(alfi))
	req = append(req, field...)

	resp, err := c.Exchange(ctx, SIDRequestUpload, req)
	if err != nil {
		return 0, err
	}
	maxBlockLength, err = parseMaxBlockLength(resp)
	if err != nil {
		return 0, err
	}
	c.blockCounter = 0
	c.downloadState = DownloadRequested
	return maxBlockLength, nil
}

func parseMaxBlockLength(resp []byte) (uint32, error) {
	if len(resp) < 1 {
		return 0, protocolErr("malformed RequestDownload/Upload response")
	}
	lengthFormat := resp[0] >> 4
	if len(resp) < 1+int(lengthFormat) {
		return 0, protocolErr("truncated maxNumberOfBlockLength field")
	}
	return uint32(beUint(resp[1 : 1+int(lengthFormat)])), nil
}

// RequestFileTransfer requests a file-based transfer, ISO 14229-1 section
// 14.6. The request names a file instead of a raw memory address, and its
// size field is a one-byte length followed by the minimal big-endian bytes
// of fileSize (no ALFI byte).
func (c *Client) RequestFileTransfer(ctx context.Context, modeOfOperation byte, filePath string, dataFormat byte, fileSize uint64) (maxBlockLength uint32, err error) {
	sizeField := minimalBytes(fileSize)
	req := make([]byte, 0, 4+len(filePath)+len(sizeField))
	req = append(req, modeOfOperation)
	req = append(req, byte(len(filePath)>>8), byte(len(filePath)))
	req = append(req, []byte(filePath)...)
	req = append(req, dataFormat)
	req = append(req, byte(len(sizeField)))
	req = append(req, sizeField...)

	resp, err := c.Exchange(ctx, SIDRequestFileTransfer, req)
	if err != nil {
		return 0, err
	}
	maxBlockLength, err = parseMaxBlockLength(resp[1:])
	if err != nil {
		return 0, err
	}
	c.blockCounter = 0
	c.downloadState = DownloadRequested
	return maxBlockLength, nil
}

// nextBlockCounter advances the block sequence counter, wrapping
// 0xFF -> 0x00.
func (c *Client) nextBlockCounter() byte {
	if c.blockCounter == 0xFF {
		c.blockCounter = 0x00
	} else {
		c.blockCounter++
	}
	return c.blockCounter
}

// TransferData sends one block of data during a download (RequestDownload
// already issued), ISO 14229-1 section 14.4. On NRC 0x73
// (WrongBlockSequenceCounter) it retries exactly once at the server's
// expected counter before giving up.
func (c *Client) TransferData(ctx context.Context, data []byte) error {
	c.downloadState = DownloadTransferring
	counter := c.nextBlockCounter()
	_, err := c.doTransferData(ctx, counter, data)
	if expected, hasExplicit, isWrongCounter := wrongBlockSequenceCounterExtra(err); isWrongCounter {
		if !hasExplicit {
			expected = counter
		}
		c.blockCounter = expected
		_, err = c.doTransferData(ctx, expected, data)
	}
	return err
}

// TransferDataUpload requests the next block of data from an upload
// (RequestUpload already issued); the payload comes back in the response.
func (c *Client) TransferDataUpload(ctx context.Context) ([]byte, error) {
	c.downloadState = DownloadTransferring
	counter := c.nextBlockCounter()
	resp, err := c.doTransferData(ctx, counter, nil)
	if expected, hasExplicit, isWrongCounter := wrongBlockSequenceCounterExtra(err); isWrongCounter {
		if !hasExplicit {
			expected = counter
		}
		c.blockCounter = expected
		resp, err = c.doTransferData(ctx, expected, nil)
	}
	return resp, err
}

func (c *Client) doTransferData(ctx context.Context, counter byte, data []byte) ([]byte, error) {
	req := make([]byte, 0, 1+len(data))
	req = append(req, counter)
	req = append(req, data...)

	resp, err := c.Exchange(ctx, SIDTransferData, req)
	if err != nil {
		return nil, err
	}
	if len(resp) < 1 || resp[0] != counter {
		return nil, protocolErr("TransferData echoed block counter 0x%02X, expected 0x%02X", safeFirst(resp), counter)
	}
	return resp[1:], nil
}

func safeFirst(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// wrongBlockSequenceCounterExtra reports whether err is a
// WrongBlockSequenceCounter negative response and, if the ECU appended the
// counter it expected after the mandatory 3-byte negative response, that
// value. ISO 14229-1's bare [0x7F, SID, NRC] otherwise leaves no better
// option than retrying with the counter that was just rejected.
func wrongBlockSequenceCounterExtra(err error) (expected byte, hasExplicit bool, isWrongCounter bool) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindNegativeResponse || e.Reason != NRCWrongBlockSequenceCounter {
		return 0, false, false
	}
	if len(e.Extra) > 0 {
		return e.Extra[0], true, true
	}
	return 0, false, true
}

// RequestTransferExit finalizes a download or upload, ISO 14229-1 section
// 14.5.
func (c *Client) RequestTransferExit(ctx context.Context, transferRequestParameterRecord []byte) ([]byte, error) {
	c.downloadState = DownloadFinishing
	resp, err := c.Exchange(ctx, SIDRequestTransferExit, transferRequestParameterRecord)
	c.downloadState = DownloadIdle
	if err != nil {
		return nil, err
	}
	return resp, nil
}
