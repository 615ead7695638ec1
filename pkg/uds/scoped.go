package uds

import "context"

// WithDTCSuppressed disables DTC logging, runs fn, then restores the prior
// setting in a deferred closure whose own failure is logged but never masks
// fn's result.
func (c *Client) WithDTCSuppressed(ctx context.Context, fn func() error) error {
	wasDisabled := c.dtcLoggingDisabled
	if !wasDisabled {
		if err := c.ControlDTCSetting(ctx, DTCSettingOff, nil, false); err != nil {
			return err
		}
	}
	c.dtcSuppressedDepth++
	defer func() {
		c.dtcSuppressedDepth--
		if c.dtcSuppressedDepth == 0 && !wasDisabled {
			if err := c.ControlDTCSetting(ctx, DTCSettingOn, nil, false); err != nil {
				c.logger.WithError(err).Warn("[UDS] failed to restore DTC setting after scoped suppression")
			}
		}
	}()

	return fn()
}

// WithCommunicationSilenced disables normal communication, runs fn, then
// restores it. Restoration failures are logged, not returned, so they
// never override fn's result.
func (c *Client) WithCommunicationSilenced(ctx context.Context, communicationType byte, fn func() error) error {
	c.commSilencedDepth++
	if err := c.CommunicationControl(ctx, DisableRxAndTx, communicationType, false); err != nil {
		c.commSilencedDepth--
		return err
	}

	defer func() {
		c.commSilencedDepth--
		if c.commSilencedDepth == 0 {
			// Silencing also muted the local transport; unmute it so the
			// restoring request can be sent and its reply received.
			c.tp.SetRxEnabled(true)
			c.tp.SetTxEnabled(true)
			if err := c.CommunicationControl(ctx, EnableRxAndTx, communicationType, false); err != nil {
				c.logger.WithError(err).Warn("[UDS] failed to restore communication after scoped silence")
			}
		}
	}()

	return fn()
}
