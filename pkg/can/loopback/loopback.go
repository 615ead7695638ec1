// Package loopback provides an in-process CAN bus used by the transport
// and service-engine test suites, so they exercise real Bus/BusManager
// wiring without a physical or virtual CAN interface.
package loopback

import (
	"sync"

	log "github.com/sirupsen/logrus"

	udsiso "github.com/nexusauto/udsiso"
	"github.com/nexusauto/udsiso/pkg/can"
)

func init() {
	can.RegisterInterface("loopback", NewBus)
}

// broker connects every Bus opened on the same channel name, the way the
// teacher's virtual bus connects every client dialing the same TCP broker.
type broker struct {
	mu   sync.Mutex
	buses map[string][]*Bus
}

var defaultBroker = &broker{buses: make(map[string][]*Bus)}

func (b *broker) join(channel string, bus *Bus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buses[channel] = append(b.buses[channel], bus)
}

func (b *broker) leave(channel string, bus *Bus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	peers := b.buses[channel]
	for i, p := range peers {
		if p == bus {
			b.buses[channel] = append(peers[:i], peers[i+1:]...)
			return
		}
	}
}

func (b *broker) publish(channel string, from *Bus, frame udsiso.Frame) {
	b.mu.Lock()
	peers := append([]*Bus(nil), b.buses[channel]...)
	b.mu.Unlock()
	for _, peer := range peers {
		if peer == from {
			continue
		}
		peer.deliver(frame)
	}
}

// Bus is an in-process loopback CAN bus: every frame sent on a channel
// name is delivered to every other Bus joined on that same name.
type Bus struct {
	logger       *log.Logger
	channel      string
	connected    bool
	mu           sync.Mutex
	framehandler udsiso.FrameListener
}

func NewBus(channel string) (udsiso.Bus, error) {
	return &Bus{channel: channel, logger: log.StandardLogger()}, nil
}

func (b *Bus) Connect(...any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.connected {
		return nil
	}
	defaultBroker.join(b.channel, b)
	b.connected = true
	return nil
}

func (b *Bus) Disconnect() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return nil
	}
	defaultBroker.leave(b.channel, b)
	b.connected = false
	return nil
}

func (b *Bus) Send(frame udsiso.Frame) error {
	defaultBroker.publish(b.channel, b, frame)
	return nil
}

func (b *Bus) Subscribe(framehandler udsiso.FrameListener) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.framehandler = framehandler
	return nil
}

func (b *Bus) deliver(frame udsiso.Frame) {
	b.mu.Lock()
	handler := b.framehandler
	b.mu.Unlock()
	if handler != nil {
		handler.Handle(frame)
	} else {
		b.logger.Debug("[BUS] dropped frame, no subscriber")
	}
}
