package isotp

import "errors"

var (
	// ErrFlowControlTimeout means no Flow Control frame arrived within N_Bs.
	ErrFlowControlTimeout = errors.New("isotp: timed out waiting for flow control")
	// ErrConsecutiveFrameTimeout means no Consecutive Frame arrived within N_Cr.
	ErrConsecutiveFrameTimeout = errors.New("isotp: timed out waiting for consecutive frame")
	// ErrOverflow is returned when the peer signals FC_OVFL in a Flow Control
	// frame.
	ErrOverflow = errors.New("isotp: receiver reported overflow")
	// ErrWaitFramesExceeded is returned when a send sees more FC_WT frames
	// than Config.MaxWaitFrames allows.
	ErrWaitFramesExceeded = errors.New("isotp: exceeded maximum wait frames")
	// ErrSequenceMismatch means a Consecutive Frame's sequence number did not
	// match what reassembly expected.
	ErrSequenceMismatch = errors.New("isotp: unexpected consecutive frame sequence number")
	// ErrUnexpectedFrame means a frame with an unrecognized or out-of-context
	// PCI type was received where a specific kind was expected.
	ErrUnexpectedFrame = errors.New("isotp: unexpected frame type")
	// ErrTxDisabled / ErrRxDisabled mirror CommunicationControl muting the
	// transport in one or both directions.
	ErrTxDisabled = errors.New("isotp: transmission disabled")
	ErrRxDisabled = errors.New("isotp: reception disabled")
	// ErrSDUTooLarge is returned when a payload exceeds the 4095-byte
	// ISO-TP First-Frame length field.
	ErrSDUTooLarge = errors.New("isotp: payload exceeds maximum SDU length (4095 bytes)")
)
