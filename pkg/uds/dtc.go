package uds

import "context"

// ReadDTCInformation sub-functions, ISO 14229-1 section 11.3, Annex D.
const (
	DTCReportNumberOfDTCByStatusMask byte = 0x01
	DTCReportDTCByStatusMask         byte = 0x02
	DTCReportDTCSnapshotIdentification byte = 0x03
	DTCReportDTCSnapshotRecordByDTCNumber byte = 0x04
	DTCReportDTCExtDataRecordByDTCNumber byte = 0x06
	DTCReportNumberOfDTCBySeverityMask byte = 0x07
	DTCReportDTCBySeverityMask       byte = 0x08
	DTCReportSeverityInformationOfDTC byte = 0x09
	DTCReportSupportedDTC            byte = 0x0A
	DTCReportFirstTestFailedDTC      byte = 0x0B
	DTCReportFirstConfirmedDTC       byte = 0x0C
	DTCReportMostRecentTestFailedDTC byte = 0x0D
	DTCReportMostRecentConfirmedDTC  byte = 0x0E
	DTCReportDTCFaultDetectionCounter byte = 0x14
	DTCReportDTCWithPermanentStatus  byte = 0x15
)

// DTCStatus is the 8-bit status mask attached to every DTC, ISO 14229-1
// Annex D.2.
type DTCStatus byte

func (s DTCStatus) TestFailed() bool              { return s&0x01 != 0 }
func (s DTCStatus) TestFailedThisOperationCycle() bool { return s&0x02 != 0 }
func (s DTCStatus) PendingDTC() bool              { return s&0x04 != 0 }
func (s DTCStatus) ConfirmedDTC() bool            { return s&0x08 != 0 }
func (s DTCStatus) TestNotCompletedSinceLastClear() bool { return s&0x10 != 0 }
func (s DTCStatus) TestFailedSinceLastClear() bool { return s&0x20 != 0 }
func (s DTCStatus) TestNotCompletedThisOperationCycle() bool { return s&0x40 != 0 }
func (s DTCStatus) WarningIndicatorRequested() bool { return s&0x80 != 0 }

// DTCRecord is a 3-byte DTC code plus its status byte.
type DTCRecord struct {
	Code   [3]byte
	Status DTCStatus
}

// ReadDTCInformation issues ReadDTCInformation with sub-function and
// additional request bytes (the sub-function's own parameters, e.g. a
// status mask or a specific DTC number), ISO 14229-1 section 11.3. The raw
// response payload (after the echoed sub-function) is returned for the
// caller to interpret per the sub-function's own record layout.
func (c *Client) ReadDTCInformation(ctx context.Context, subFunction byte, params []byte) ([]byte, error) {
	req := make([]byte, 0, 1+len(params))
	req = append(req, subFunction)
	req = append(req, params...)
	resp, err := c.Exchange(ctx, SIDReadDTCInformation, req)
	if err != nil {
		return nil, err
	}
	if len(resp) < 1 || resp[0] != subFunction {
		return nil, protocolErr("malformed ReadDTCInformation response")
	}
	return resp[1:], nil
}

// ParseDTCRecords decodes a reportDTCByStatusMask-style response body (a
// run of 4-byte [code[3], status] records) into DTCRecords.
func ParseDTCRecords(body []byte) ([]DTCRecord, error) {
	if len(body)%4 != 0 {
		return nil, protocolErr("DTC record body length not a multiple of 4")
	}
	records := make([]DTCRecord, 0, len(body)/4)
	for i := 0; i < len(body); i += 4 {
		records = append(records, DTCRecord{
			Code:   [3]byte{body[i], body[i+1], body[i+2]},
			Status: DTCStatus(body[i+3]),
		})
	}
	return records, nil
}

// GroupOfDTC selects which DTCs ClearDiagnosticInformation clears,
// ISO 14229-1 section 11.2. 0xFFFFFF clears every DTC.
const GroupOfDTCAll uint32 = 0xFFFFFF

// ClearDiagnosticInformation clears stored DTC information for groupOfDTC,
// ISO 14229-1 section 11.2.
func (c *Client) ClearDiagnosticInformation(ctx context.Context, groupOfDTC uint32) error {
	req := []byte{byte(groupOfDTC >> 16), byte(groupOfDTC >> 8), byte(groupOfDTC)}
	_, err := c.Exchange(ctx, SIDClearDiagnosticInformation, req)
	return err
}
