package uds

// An Address-and-Length-Format-Identifier byte packs the byte width of the
// address field into its high nibble and the byte width of the memory size
// field into its low nibble, ISO 14229-1 section 7.3 (Table 43).
type ALFI byte

func newALFI(addrLen, sizeLen int) ALFI {
	return ALFI(byte(addrLen&0x0F)<<4 | byte(sizeLen&0x0F))
}

func (a ALFI) addrLen() int { return int(a>>4) & 0x0F }
func (a ALFI) sizeLen() int { return int(a) & 0x0F }

// encodeMemoryAddress packs address and size as fixed-width big-endian
// byte sequences whose widths are the smallest that fit, and returns the
// ALFI byte plus the concatenated [address|size] field ready to append to
// a RequestDownload/RequestUpload/ReadMemoryByAddress/WriteMemoryByAddress
// request.
func encodeMemoryAddress(address, size uint64) (ALFI, []byte) {
	addrBytes := minimalBytes(address)
	sizeBytes := minimalBytes(size)
	alfi := newALFI(len(addrBytes), len(sizeBytes))
	out := make([]byte, 0, len(addrBytes)+len(sizeBytes))
	out = append(out, addrBytes...)
	out = append(out, sizeBytes...)
	return alfi, out
}

// decodeMemoryAddress reverses encodeMemoryAddress given the ALFI byte and
// the field bytes that followed it.
func decodeMemoryAddress(alfi ALFI, field []byte) (address, size uint64, err error) {
	addrLen := alfi.addrLen()
	sizeLen := alfi.sizeLen()
	if len(field) < addrLen+sizeLen {
		return 0, 0, protocolErr("memory address field shorter than ALFI declares")
	}
	address = beUint(field[:addrLen])
	size = beUint(field[addrLen : addrLen+sizeLen])
	return address, size, nil
}

func minimalBytes(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var buf [8]byte
	n := 0
	for tmp := v; tmp > 0; tmp >>= 8 {
		n++
	}
	for i := 0; i < n; i++ {
		buf[n-1-i] = byte(v >> (8 * i))
	}
	return buf[:n]
}

func beUint(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}
