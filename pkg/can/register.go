// Package can provides the bus adapter registry and concrete bus
// implementations (socketcan, loopback) used by the segmentation layer.
package can

import (
	"fmt"

	udsiso "github.com/nexusauto/udsiso"
)

type NewInterfaceFunc func(channel string) (udsiso.Bus, error)

var interfaceRegistry = make(map[string]NewInterfaceFunc)

var ImplementedInterfaces = []string{
	"socketcan",
	"loopback",
}

// RegisterInterface registers a new CAN bus interface type. Called from an
// init() function in each adapter package.
func RegisterInterface(interfaceType string, newInterface NewInterfaceFunc) {
	interfaceRegistry[interfaceType] = newInterface
}

// NewBus creates a bus using the named interface, e.g. "socketcan" or
// "loopback".
func NewBus(canInterface string, channel string) (udsiso.Bus, error) {
	createInterface, ok := interfaceRegistry[canInterface]
	if !ok {
		return nil, fmt.Errorf("unsupported interface : %v", canInterface)
	}
	return createInterface(channel)
}
