package uds

import "fmt"

// ErrorKind classifies why an exchange failed. There is no separate
// exception type per failure mode: one Error carries a Kind tag instead.
type ErrorKind uint8

const (
	// KindTimeout: no response arrived within the applicable P2/P2* window.
	KindTimeout ErrorKind = iota
	// KindTransportAbort: the underlying ISO-TP transport reported an abort
	// (wait-frame exhaustion, overflow, sequence error, muted direction, or
	// an error the link reported while sending).
	KindTransportAbort
	// KindNegativeResponse: the ECU returned a 0x7F negative response with
	// a terminal (non-retryable) NRC.
	KindNegativeResponse
	// KindProtocolViolation: the response PDU was structurally invalid
	// (wrong SID echo, truncated payload, ...).
	KindProtocolViolation
	// KindLinkFailure: the CAN link itself reported an error (bus-off, send
	// rejected, ...). Exchange and the service helpers do not return this
	// kind: errors the link reports while sending reach the caller as
	// KindTransportAbort.
	KindLinkFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransportAbort:
		return "transport-abort"
	case KindNegativeResponse:
		return "negative-response"
	case KindProtocolViolation:
		return "protocol-violation"
	case KindLinkFailure:
		return "link-failure"
	default:
		return "unknown"
	}
}

// Error is the single result-variant error type for every exchange. SID and
// Reason are only meaningful when Kind == KindNegativeResponse.
type Error struct {
	Kind    ErrorKind
	SID     byte
	Reason  ReasonCode
	// Extra holds any bytes that followed the mandatory 3-byte negative
	// response [0x7F, SID, NRC]; ISO 14229-1 does not normally define
	// extra bytes here, but the block transfer retry (NRC 0x73) relies on
	// a server-echoed expected counter when a vendor ECU supplies one.
	Extra   []byte
	Wrapped error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNegativeResponse:
		return fmt.Sprintf("uds: negative response to SID 0x%02X: %s", e.SID, e.Reason)
	default:
		if e.Wrapped != nil {
			return fmt.Sprintf("uds: %s: %v", e.Kind, e.Wrapped)
		}
		return fmt.Sprintf("uds: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Wrapped }

func wrapErr(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Wrapped: err}
}

func negativeErr(sid byte, reason ReasonCode, extra ...byte) error {
	return &Error{Kind: KindNegativeResponse, SID: sid, Reason: reason, Extra: extra}
}

func protocolErr(format string, args ...any) error {
	return &Error{Kind: KindProtocolViolation, Wrapped: fmt.Errorf(format, args...)}
}

// ReasonCode is a UDS negative response code (NRC), Annex A of ISO 14229-1.
type ReasonCode byte

const (
	NRCGeneralReject                     ReasonCode = 0x10
	NRCServiceNotSupported               ReasonCode = 0x11
	NRCSubFunctionNotSupported           ReasonCode = 0x12
	NRCIncorrectMessageLength            ReasonCode = 0x13
	NRCResponseTooLong                   ReasonCode = 0x14
	NRCBusyRepeatRequest                 ReasonCode = 0x21
	NRCConditionsNotCorrect              ReasonCode = 0x22
	NRCRequestSequenceError              ReasonCode = 0x24
	NRCRequestOutOfRange                 ReasonCode = 0x31
	NRCSecurityAccessDenied              ReasonCode = 0x33
	NRCInvalidKey                        ReasonCode = 0x35
	NRCExceedNumberOfAttempts            ReasonCode = 0x36
	NRCRequiredTimeDelayNotExpired       ReasonCode = 0x37
	NRCUploadDownloadNotAccepted         ReasonCode = 0x70
	NRCTransferDataSuspended             ReasonCode = 0x71
	NRCGeneralProgrammingFailure         ReasonCode = 0x72
	NRCWrongBlockSequenceCounter         ReasonCode = 0x73
	NRCRequestCorrectlyReceivedResPending ReasonCode = 0x78
	NRCSubFunctionNotSupportedInSession  ReasonCode = 0x7E
	NRCServiceNotSupportedInSession      ReasonCode = 0x7F
)

var reasonDescriptions = map[ReasonCode]string{
	NRCGeneralReject:                     "general reject",
	NRCServiceNotSupported:               "service not supported",
	NRCSubFunctionNotSupported:           "sub-function not supported",
	NRCIncorrectMessageLength:            "incorrect message length or invalid format",
	NRCResponseTooLong:                   "response too long",
	NRCBusyRepeatRequest:                 "busy, repeat request",
	NRCConditionsNotCorrect:              "conditions not correct",
	NRCRequestSequenceError:              "request sequence error",
	NRCRequestOutOfRange:                 "request out of range",
	NRCSecurityAccessDenied:              "security access denied",
	NRCInvalidKey:                        "invalid key",
	NRCExceedNumberOfAttempts:            "exceeded number of attempts",
	NRCRequiredTimeDelayNotExpired:       "required time delay not expired",
	NRCUploadDownloadNotAccepted:         "upload/download not accepted",
	NRCTransferDataSuspended:             "transfer data suspended",
	NRCGeneralProgrammingFailure:         "general programming failure",
	NRCWrongBlockSequenceCounter:         "wrong block sequence counter",
	NRCRequestCorrectlyReceivedResPending: "request correctly received, response pending",
	NRCSubFunctionNotSupportedInSession:  "sub-function not supported in active session",
	NRCServiceNotSupportedInSession:      "service not supported in active session",
}

func (r ReasonCode) String() string {
	if desc, ok := reasonDescriptions[r]; ok {
		return fmt.Sprintf("0x%02X (%s)", byte(r), desc)
	}
	return fmt.Sprintf("0x%02X", byte(r))
}
