package udsiso

import "errors"

var (
	ErrIllegalArgument = errors.New("error in function arguments")
	ErrTimeout         = errors.New("function timeout")
	ErrRxOverflow      = errors.New("previous message was not processed yet")
	ErrTxOverflow      = errors.New("previous message is still waiting, buffer full")
	ErrTxBusy          = errors.New("sending rejected because driver is busy, try again")
	ErrInvalidState    = errors.New("driver not ready")
	ErrNoBus           = errors.New("no bus attached to manager")
	ErrUnsupportedID   = errors.New("identifier out of supported range")
)
