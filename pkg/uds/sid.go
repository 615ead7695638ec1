package uds

// Service identifiers, ISO 14229-1 section 9-14.
const (
	SIDDiagnosticSessionControl        byte = 0x10
	SIDECUReset                        byte = 0x11
	SIDClearDiagnosticInformation      byte = 0x14
	SIDReadDTCInformation              byte = 0x19
	SIDReadDataByIdentifier            byte = 0x22
	SIDReadMemoryByAddress             byte = 0x23
	SIDReadScalingDataByIdentifier     byte = 0x24
	SIDSecurityAccess                  byte = 0x27
	SIDCommunicationControl           byte = 0x28
	SIDReadDataByPeriodicIdentifier    byte = 0x2A
	SIDDynamicallyDefineDataIdentifier byte = 0x2C
	SIDWriteDataByIdentifier           byte = 0x2E
	SIDInputOutputControlByIdentifier  byte = 0x2F
	SIDRoutineControl                  byte = 0x31
	SIDRequestDownload                 byte = 0x34
	SIDRequestUpload                   byte = 0x35
	SIDTransferData                    byte = 0x36
	SIDRequestTransferExit             byte = 0x37
	SIDRequestFileTransfer             byte = 0x38
	SIDWriteMemoryByAddress            byte = 0x3D
	SIDTesterPresent                   byte = 0x3E
	SIDAccessTimingParameter           byte = 0x83
	SIDControlDTCSetting               byte = 0x85

	negativeResponseSID byte = 0x7F
	positiveResponseBit byte = 0x40
)

// DiagnosticSessionType, ISO 14229-1 section 9.2.
type DiagnosticSessionType byte

const (
	SessionDefault        DiagnosticSessionType = 0x01
	SessionProgramming    DiagnosticSessionType = 0x02
	SessionExtendedDiag   DiagnosticSessionType = 0x03
	SessionSafetySystem   DiagnosticSessionType = 0x04
)

// ResetType, ISO 14229-1 section 9.3.
type ResetType byte

const (
	ResetHard              ResetType = 0x01
	ResetKeyOffOn          ResetType = 0x02
	ResetSoft              ResetType = 0x03
	ResetEnableRapidPower  ResetType = 0x04
	ResetDisableRapidPower ResetType = 0x05
)
