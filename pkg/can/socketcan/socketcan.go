// Package socketcan wraps github.com/brutella/can for real Linux SocketCAN
// interfaces.
package socketcan

import (
	sockcan "github.com/brutella/can"

	udsiso "github.com/nexusauto/udsiso"
	"github.com/nexusauto/udsiso/pkg/can"
)

func init() {
	can.RegisterInterface("socketcan", NewSocketCanBus)
}

type SocketcanBus struct {
	bus        *sockcan.Bus
	rxCallback udsiso.FrameListener
}

func NewSocketCanBus(name string) (udsiso.Bus, error) {
	bus, err := sockcan.NewBusForInterfaceWithName(name)
	if err != nil {
		return nil, err
	}
	return &SocketcanBus{bus: bus}, nil
}

func (s *SocketcanBus) Connect(...any) error {
	go s.bus.ConnectAndPublish()
	return nil
}

func (s *SocketcanBus) Disconnect() error {
	return s.bus.Disconnect()
}

func (s *SocketcanBus) Send(frame udsiso.Frame) error {
	return s.bus.Publish(sockcan.Frame{
		ID:     frame.ID,
		Length: frame.DLC,
		Flags:  frame.Flags,
		Data:   frame.Data,
	})
}

func (s *SocketcanBus) Subscribe(rxCallback udsiso.FrameListener) error {
	s.rxCallback = rxCallback
	s.bus.Subscribe(s)
	return nil
}

// Handle implements brutella/can's Handle interface and forwards frames
// to the subscribed udsiso.FrameListener.
func (s *SocketcanBus) Handle(frame sockcan.Frame) {
	s.rxCallback.Handle(udsiso.Frame{ID: frame.ID, DLC: frame.Length, Flags: frame.Flags, Data: frame.Data})
}
