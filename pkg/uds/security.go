package uds

import "context"

// SecurityAccess performs the seed/key handshake for level, ISO 14229-1
// section 9.4: request a seed with the odd sub-function, derive a key via
// the configured KeyDeriver, and send it back on the even sub-function.
// level must be the odd (request-seed) value, e.g. 0x01, 0x03, ...
func (c *Client) SecurityAccess(ctx context.Context, level byte) error {
	if c.keyDeriver == nil {
		return protocolErr("security access requested but no key deriver configured")
	}
	if level%2 == 0 {
		return protocolErr("security access level must be an odd (request seed) sub-function")
	}

	resp, err := c.Exchange(ctx, SIDSecurityAccess, []byte{level})
	if err != nil {
		return err
	}
	if len(resp) < 1 || resp[0] != level {
		return protocolErr("malformed SecurityAccess seed response")
	}
	seed := resp[1:]

	// An all-zero seed means the level is already unlocked; ISO 14229-1
	// servers are not required to send a key request in that case.
	if allZero(seed) {
		c.security = StateUnlocked
		return nil
	}

	key, err := c.keyDeriver.DeriveKey(seed)
	if err != nil {
		return protocolErr("key derivation failed: %v", err)
	}

	sendKeyLevel := level + 1
	payload := append([]byte{sendKeyLevel}, key...)
	resp, err = c.Exchange(ctx, SIDSecurityAccess, payload)
	if err != nil {
		c.security = StateLocked
		return err
	}
	if len(resp) < 1 || resp[0] != sendKeyLevel {
		return protocolErr("malformed SecurityAccess key response")
	}
	c.security = StateUnlocked
	return nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
