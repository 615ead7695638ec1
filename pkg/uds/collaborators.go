package uds

// KeyDeriver computes a SecurityAccess key from a server-issued seed. It is
// the only OEM-specific collaborator required for SecurityAccess; this
// package never implements a concrete algorithm itself.
type KeyDeriver interface {
	DeriveKey(seed []byte) ([]byte, error)
}

// ResponseCache is an optional read-path cache consulted only by
// ReadDataByIdentifier and ReadScalingDataByIdentifier. ReadMemoryByAddress,
// ReadDTCInformation and all write/action services never consult it.
type ResponseCache interface {
	Get(sessionID uint8, sid byte, identifier uint16) ([]byte, bool)
	Put(sessionID uint8, sid byte, identifier uint16, payload []byte)
}
