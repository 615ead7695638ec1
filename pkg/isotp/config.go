package isotp

import "time"

// Config holds the ISO-TP timing and flow-control parameters for one
// transport instance. Defaults mirror ISO 15765-2's recommended values.
type Config struct {
	// BlockSize advertised to a sending peer in our Flow Control frames.
	// 0 means unlimited (send everything without waiting for another FC).
	BlockSize uint8

	// STmin advertised to a sending peer: the minimum gap it must respect
	// between consecutive frames it sends us. Encoded ISO-TP style:
	// 0x00-0x7F = 0-127ms, 0xF1-0xF9 = 100-900us.
	STmin uint8

	// N_As is the deadline for our own link-layer frame transmission.
	N_As time.Duration
	// N_Ar is the deadline for a flow-control frame to reach the peer.
	N_Ar time.Duration
	// N_Bs is the deadline we wait for a Flow Control frame after a
	// First Frame (sender-side, governs our own Send call).
	N_Bs time.Duration
	// N_Br bounds Receive's wait for the first frame of an SDU, and only
	// when the caller's context carries no deadline of its own; it never
	// shortens a deadline the caller set.
	N_Br time.Duration
	// N_Cr is the deadline we wait for each Consecutive Frame while
	// receiving.
	N_Cr time.Duration

	// MaxWaitFrames caps the number of FC_WT (wait) frames we tolerate
	// before aborting a send.
	MaxWaitFrames uint8
}

// DefaultConfig returns the ISO 15765-2 recommended timing values.
func DefaultConfig() Config {
	return Config{
		BlockSize:     0,
		STmin:         0,
		N_As:          50 * time.Millisecond,
		N_Ar:          1000 * time.Millisecond,
		N_Bs:          1000 * time.Millisecond,
		N_Br:          1000 * time.Millisecond,
		N_Cr:          1000 * time.Millisecond,
		MaxWaitFrames: 10,
	}
}

// decodeSTmin converts a wire STmin byte into a sleep duration, per
// ISO 15765-2: 0x00-0x7F is 0-127ms as-is, 0xF1-0xF9 is 100-900us rounded
// up to 1ms, anything else is reserved and treated as no delay.
func decodeSTmin(value uint8) time.Duration {
	switch {
	case value <= 0x7F:
		return time.Duration(value) * time.Millisecond
	case value >= 0xF1 && value <= 0xF9:
		return time.Millisecond
	default:
		return 0
	}
}
