package uds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgrammingSessionRunFlashesInChunksWithDTCSuppressed(t *testing.T) {
	tp := newFakeTransport(
		[]byte{0x50, byte(SessionProgramming), 0x00, 0x32, 0x00, 0x64}, // DiagnosticSessionControl
		[]byte{SIDSecurityAccess + 0x40, 0x01, 0x12, 0x34},             // seed
		[]byte{SIDSecurityAccess + 0x40, 0x02},                         // key accepted
		[]byte{SIDControlDTCSetting + 0x40, byte(DTCSettingOff)},       // DTC suppressed
		[]byte{SIDRoutineControl + 0x40, byte(RoutineStart), 0xFF, 0x00}, // erase routine
		[]byte{SIDRequestDownload + 0x40, 0x10, 0x03},                  // maxBlockLength 3
		[]byte{SIDTransferData + 0x40, 0x01},                           // block 1
		[]byte{SIDTransferData + 0x40, 0x02},                           // block 2
		[]byte{SIDRequestTransferExit + 0x40},                          // exit
		[]byte{SIDControlDTCSetting + 0x40, byte(DTCSettingOn)},        // DTC restored
	)
	c := NewClient(tp, fastConfig(), fakeDeriver{}, nil)
	p := NewProgrammingSession(c)

	err := p.Run(context.Background(), ProgrammingPlan{
		SecurityLevel:         0x01,
		EraseRoutineID:        0xFF00,
		DataFormat:            DataFormatRaw,
		Address:               0x1000,
		Image:                 []byte{0x01, 0x02, 0x03, 0x04},
		DisableDTCDuringFlash: true,
	})
	require.NoError(t, err)
	assert.False(t, c.dtcLoggingDisabled)
	assert.Equal(t, StateUnlocked, c.security)
	assert.Equal(t, DownloadIdle, c.downloadState)

	// Two TransferData requests, 2 bytes of image payload each.
	var transferDataReqs [][]byte
	for _, sent := range tp.Sent {
		if sent[0] == SIDTransferData {
			transferDataReqs = append(transferDataReqs, sent)
		}
	}
	require.Len(t, transferDataReqs, 2)
	assert.Equal(t, []byte{0x01, 0x02}, transferDataReqs[0][2:])
	assert.Equal(t, []byte{0x03, 0x04}, transferDataReqs[1][2:])
}

func TestProgrammingSessionRunPropagatesSecurityFailure(t *testing.T) {
	tp := newFakeTransport(
		[]byte{0x50, byte(SessionProgramming), 0x00, 0x32, 0x00, 0x64},
		[]byte{0x7F, SIDSecurityAccess, byte(NRCRequestOutOfRange)},
	)
	c := NewClient(tp, fastConfig(), fakeDeriver{}, nil)
	p := NewProgrammingSession(c)

	err := p.Run(context.Background(), ProgrammingPlan{SecurityLevel: 0x01, Image: []byte{0x01}})
	assert.Error(t, err)
}
