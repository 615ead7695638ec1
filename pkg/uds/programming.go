package uds

import "context"

// ProgrammingSession composes the core services into the common
// enter-session / unlock / erase / flash / finalize flash workflow, the
// way a node configurator composes raw reads and writes into named
// accessors. It holds no state of its own beyond the Client it wraps.
type ProgrammingSession struct {
	client *Client
}

func NewProgrammingSession(client *Client) *ProgrammingSession {
	return &ProgrammingSession{client: client}
}

// ProgrammingPlan describes one flash operation end to end.
type ProgrammingPlan struct {
	SecurityLevel   byte
	EraseRoutineID  uint16
	EraseParams     []byte
	DataFormat      byte
	Address         uint64
	Image           []byte
	ExitParams      []byte
	DisableDTCDuringFlash bool
}

// Run executes plan: DiagnosticSessionControl(programming) -> SecurityAccess
// -> optional DTC suppression -> erase routine -> RequestDownload ->
// TransferData in chunks of maxBlockLength-1 bytes (the whole image in one
// chunk when maxBlockLength is 0 or 1) -> RequestTransferExit.
func (p *ProgrammingSession) Run(ctx context.Context, plan ProgrammingPlan) error {
	if err := p.client.DiagnosticSessionControl(ctx, SessionProgramming); err != nil {
		return err
	}
	if err := p.client.SecurityAccess(ctx, plan.SecurityLevel); err != nil {
		return err
	}

	flash := func() error {
		if _, err := p.client.RoutineControl(ctx, RoutineStart, plan.EraseRoutineID, plan.EraseParams); err != nil {
			return err
		}

		maxBlockLength, err := p.client.RequestDownload(ctx, plan.DataFormat, plan.Address, uint64(len(plan.Image)))
		if err != nil {
			return err
		}
		chunkSize := int(maxBlockLength)
		if chunkSize <= 1 {
			chunkSize = len(plan.Image)
		} else {
			chunkSize-- // one byte of every TransferData payload is the block counter
		}
		if chunkSize <= 0 {
			chunkSize = 1
		}

		for offset := 0; offset < len(plan.Image); offset += chunkSize {
			end := offset + chunkSize
			if end > len(plan.Image) {
				end = len(plan.Image)
			}
			if err := p.client.TransferData(ctx, plan.Image[offset:end]); err != nil {
				return err
			}
		}

		_, err = p.client.RequestTransferExit(ctx, plan.ExitParams)
		return err
	}

	if plan.DisableDTCDuringFlash {
		return p.client.WithDTCSuppressed(ctx, flash)
	}
	return flash()
}
