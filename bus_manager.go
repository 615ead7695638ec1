package udsiso

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	// Max Standard CAN ID is 0x7FF (2047).
	MaxCanId = 0x7FF

	// The array must hold standard frames + RTR frames (so 2x size)
	LookupArraySize = (MaxCanId + 1) * 2
)

type subscriber struct {
	id       uint64
	callback FrameListener
}

// BusManager wraps a Bus adapter, fanning each received frame out to the
// listeners subscribed on its identifier. Handle is invoked from the bus's
// own reception goroutine and must never block or call back into Send.
type BusManager struct {
	logger    *log.Logger
	mu        sync.Mutex
	bus       Bus
	listeners [LookupArraySize][]subscriber
	nextSubId uint64
}

func NewBusManager(bus Bus) *BusManager {
	return &BusManager{
		bus:    bus,
		logger: log.StandardLogger(),
	}
}

// Handle implements FrameListener. It fans a received frame out to every
// subscriber registered on its CAN identifier.
func (bm *BusManager) Handle(frame Frame) {
	idx := frame.ID & CanSffMask
	if idx >= LookupArraySize {
		return
	}

	bm.mu.Lock()
	listeners := append([]subscriber(nil), bm.listeners[idx]...)
	bm.mu.Unlock()

	for _, sub := range listeners {
		sub.callback.Handle(frame)
	}
}

func (bm *BusManager) SetBus(bus Bus) {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.bus = bus
}

func (bm *BusManager) Bus() Bus {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.bus
}

// Send transmits a frame on the attached bus.
func (bm *BusManager) Send(frame Frame) error {
	bm.mu.Lock()
	bus := bm.bus
	bm.mu.Unlock()
	if bus == nil {
		return ErrNoBus
	}
	err := bus.Send(frame)
	if err != nil {
		bm.logger.WithError(err).Warn("[BUS] error sending frame")
	}
	return err
}

// Subscribe registers callback for every frame received on ident. The
// returned cancel func removes the subscription; callback.Handle must not
// block.
func (bm *BusManager) Subscribe(ident uint32, rtr bool, callback FrameListener) (cancel func(), err error) {
	if ident > MaxCanId {
		return nil, ErrUnsupportedID
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	idx := ident
	if rtr {
		idx += MaxCanId + 1
	}

	bm.nextSubId++
	subId := bm.nextSubId
	bm.listeners[idx] = append(bm.listeners[idx], subscriber{id: subId, callback: callback})

	cancel = func() {
		bm.mu.Lock()
		defer bm.mu.Unlock()
		subs := bm.listeners[idx]
		for i, sub := range subs {
			if sub.id == subId {
				bm.listeners[idx] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
	return cancel, nil
}

// singleFrameWaiter is a FrameListener that delivers exactly one frame to a
// blocked Receive call, used to bridge the push-based Handle callback into
// a pull-based synchronous API for the segmentation layer.
type singleFrameWaiter struct {
	ch chan Frame
}

func (w *singleFrameWaiter) Handle(frame Frame) {
	select {
	case w.ch <- frame:
	default:
	}
}

// Receive blocks until a frame arrives on ident or ctx is done. It is the
// synchronous counterpart to Subscribe, used by the segmentation transport
// which needs to wait for one specific reply at a time.
func (bm *BusManager) Receive(ctx context.Context, ident uint32) (Frame, error) {
	waiter := &singleFrameWaiter{ch: make(chan Frame, 1)}
	cancel, err := bm.Subscribe(ident, false, waiter)
	if err != nil {
		return Frame{}, err
	}
	defer cancel()

	select {
	case frame := <-waiter.ch:
		return frame, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}
