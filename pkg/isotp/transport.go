// Package isotp implements the ISO 15765-2 segmentation and reassembly
// transport: Single/First/Consecutive Frame send and receive paths, flow
// control with wait-frame retry, and STmin pacing.
package isotp

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	udsiso "github.com/nexusauto/udsiso"
	"github.com/nexusauto/udsiso/internal/fifo"
)

const (
	pciSingle      = 0x00
	pciFirst       = 0x10
	pciConsecutive = 0x20
	pciFlowControl = 0x30

	fcContinue = 0x00
	fcWait     = 0x01
	fcOverflow = 0x02

	maxSDULength = 4095
)

// Transport is a single ISO-TP conversation, bound to one Address on one
// BusManager. One Transport serves one diagnostic session; it is not
// shared across concurrent conversations.
type Transport struct {
	bm     *udsiso.BusManager
	addr   udsiso.Address
	cfg    Config
	logger *log.Logger

	mu        sync.Mutex
	txEnabled bool
	rxEnabled bool
}

// NewTransport builds a segmentation transport over bm, addressed as addr,
// configured per cfg. Both directions are enabled by default.
func NewTransport(bm *udsiso.BusManager, addr udsiso.Address, cfg Config) *Transport {
	return &Transport{
		bm:        bm,
		addr:      addr,
		cfg:       cfg,
		logger:    log.StandardLogger(),
		txEnabled: true,
		rxEnabled: true,
	}
}

// SetTxEnabled mutes or unmutes transmission, mirroring the effect of a
// CommunicationControl request at the transport level.
func (t *Transport) SetTxEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.txEnabled = enabled
}

// SetRxEnabled mutes or unmutes reception.
func (t *Transport) SetRxEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rxEnabled = enabled
}

func (t *Transport) isTxEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.txEnabled
}

func (t *Transport) isRxEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rxEnabled
}

func (t *Transport) send(frame udsiso.Frame) error {
	frame.ID = t.addr.TxID
	frame.DLC = 8
	return t.bm.Send(frame)
}

func (t *Transport) recv(ctx context.Context, timeout time.Duration) (udsiso.Frame, error) {
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return t.bm.Receive(rctx, t.addr.RxID)
}

// recvBounded waits for a frame under ctx as given, applying fallback only
// when ctx carries no deadline of its own. It never shortens a deadline the
// caller already set (e.g. a UDS P2/P2* window), unlike recv which always
// imposes its own fixed timeout.
func (t *Transport) recvBounded(ctx context.Context, fallback time.Duration) (udsiso.Frame, error) {
	if _, ok := ctx.Deadline(); ok {
		return t.bm.Receive(ctx, t.addr.RxID)
	}
	rctx, cancel := context.WithTimeout(ctx, fallback)
	defer cancel()
	return t.bm.Receive(rctx, t.addr.RxID)
}

// Send segments sdu into Single/First/Consecutive frames and drives the
// peer's flow control, blocking until the whole SDU is sent or an error
// occurs.
func (t *Transport) Send(ctx context.Context, sdu []byte) error {
	if !t.isTxEnabled() {
		return ErrTxDisabled
	}
	if len(sdu) > maxSDULength {
		return ErrSDUTooLarge
	}

	if len(sdu) <= 7 {
		var frame udsiso.Frame
		frame.Data[0] = pciSingle | byte(len(sdu))
		copy(frame.Data[1:], sdu)
		return t.send(frame)
	}
	return t.sendMultiFrame(ctx, sdu)
}

func (t *Transport) sendMultiFrame(ctx context.Context, sdu []byte) error {
	total := len(sdu)

	var ff udsiso.Frame
	ff.Data[0] = pciFirst | byte((total>>8)&0x0F)
	ff.Data[1] = byte(total & 0xFF)
	copy(ff.Data[2:], sdu[:6])
	if err := t.send(ff); err != nil {
		return err
	}
	idx := 6

	blockSize, stmin, err := t.waitForFlowControl(ctx)
	if err != nil {
		return err
	}

	sn := uint8(1)
	sentInBlock := uint8(0)
	for idx < total {
		var cf udsiso.Frame
		cf.Data[0] = pciConsecutive | (sn & 0x0F)
		chunk := 7
		if total-idx < chunk {
			chunk = total - idx
		}
		copy(cf.Data[1:], sdu[idx:idx+chunk])
		idx += chunk
		if err := t.send(cf); err != nil {
			return err
		}
		sn = (sn + 1) & 0x0F
		sentInBlock++

		if stmin > 0 {
			time.Sleep(stmin)
		}

		if blockSize != 0 && sentInBlock >= blockSize && idx < total {
			sentInBlock = 0
			blockSize, stmin, err = t.waitForFlowControl(ctx)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// waitForFlowControl blocks for a Flow Control frame within N_Bs, resetting
// the deadline and retrying each time it sees FC_WT, up to MaxWaitFrames.
func (t *Transport) waitForFlowControl(ctx context.Context) (blockSize uint8, stmin time.Duration, err error) {
	var waitFrames uint8
	for {
		frame, err := t.recv(ctx, t.cfg.N_Bs)
		if err != nil {
			return 0, 0, ErrFlowControlTimeout
		}
		if udsiso.ClassifyPCI(frame.Data) != udsiso.KindFlowControl {
			continue
		}
		status := frame.Data[0] & 0x0F
		switch status {
		case fcOverflow:
			return 0, 0, ErrOverflow
		case fcWait:
			waitFrames++
			if waitFrames > t.cfg.MaxWaitFrames {
				return 0, 0, ErrWaitFramesExceeded
			}
			t.logger.Debug("[ISOTP] flow control wait frame received, retrying")
			continue
		case fcContinue:
			bs := frame.Data[1]
			delay := decodeSTmin(frame.Data[2])
			if t.cfg.STmin > 0 {
				if floor := decodeSTmin(t.cfg.STmin); delay < floor {
					delay = floor
				}
			}
			return bs, delay, nil
		default:
			continue
		}
	}
}

// Receive blocks for one complete SDU: a Single Frame returns immediately,
// a First Frame triggers our own Flow Control response and a Consecutive
// Frame reassembly loop. The wait for the first frame honors ctx's own
// deadline (e.g. a UDS P2/P2* window set by the caller); N_Br only bounds
// the wait when ctx carries no deadline at all.
func (t *Transport) Receive(ctx context.Context) ([]byte, error) {
	if !t.isRxEnabled() {
		return nil, ErrRxDisabled
	}

	frame, err := t.recvBounded(ctx, t.cfg.N_Br)
	if err != nil {
		return nil, err
	}

	switch udsiso.ClassifyPCI(frame.Data) {
	case udsiso.KindSingle:
		length := frame.Data[0] & 0x0F
		return append([]byte(nil), frame.Data[1:1+length]...), nil
	case udsiso.KindFirst:
		return t.receiveMultiFrame(ctx, frame)
	default:
		return nil, ErrUnexpectedFrame
	}
}

func (t *Transport) receiveMultiFrame(ctx context.Context, ff udsiso.Frame) ([]byte, error) {
	total := int(ff.Data[0]&0x0F)<<8 | int(ff.Data[1])
	if total > maxSDULength {
		return nil, ErrSDUTooLarge
	}

	// NewFifo wastes one slot to distinguish full from empty, so size total+1.
	reassembly := fifo.NewFifo(total + 1)
	reassembly.Write(ff.Data[2:8])

	if err := t.sendFlowControl(fcContinue); err != nil {
		return nil, err
	}

	expectSN := uint8(1)
	framesInBlock := uint8(0)
	for reassembly.GetOccupied() < total {
		cf, err := t.recv(ctx, t.cfg.N_Cr)
		if err != nil {
			return nil, ErrConsecutiveFrameTimeout
		}
		if udsiso.ClassifyPCI(cf.Data) != udsiso.KindConsecutive {
			return nil, ErrUnexpectedFrame
		}
		sn := cf.Data[0] & 0x0F
		if sn != expectSN {
			return nil, ErrSequenceMismatch
		}
		expectSN = (expectSN + 1) & 0x0F

		remaining := total - reassembly.GetOccupied()
		take := 7
		if remaining < take {
			take = remaining
		}
		reassembly.Write(cf.Data[1 : 1+take])
		framesInBlock++

		if t.cfg.BlockSize > 0 && framesInBlock >= t.cfg.BlockSize && reassembly.GetOccupied() < total {
			framesInBlock = 0
			if err := t.sendFlowControl(fcContinue); err != nil {
				return nil, err
			}
		}
	}

	sdu := make([]byte, total)
	reassembly.Read(sdu)
	return sdu, nil
}

func (t *Transport) sendFlowControl(status byte) error {
	var fc udsiso.Frame
	fc.Data[0] = pciFlowControl | status
	fc.Data[1] = t.cfg.BlockSize
	fc.Data[2] = t.cfg.STmin
	return t.send(fc)
}
