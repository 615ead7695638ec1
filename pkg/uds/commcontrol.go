package uds

import "context"

// ControlType is CommunicationControl's controlType sub-function, ISO
// 14229-1 section 9.5: which of the rx and tx paths to enable or disable.
type ControlType byte

const (
	EnableRxAndTx                ControlType = 0x00
	EnableRxDisableTx            ControlType = 0x01
	DisableRxEnableTx            ControlType = 0x02
	DisableRxAndTx                ControlType = 0x03
)

// CommunicationControl enables/disables the ECU's own rx/tx paths, ISO
// 14229-1 section 9.5, and mirrors the effect into our own transport so
// local send/receive calls fail fast instead of waiting for a bus timeout
// after the ECU goes silent. When suppressPositiveResponse is set, bit 0x80
// is set on the control-type byte and no reply is awaited.
func (c *Client) CommunicationControl(ctx context.Context, controlType ControlType, communicationType byte, suppressPositiveResponse bool) error {
	if suppressPositiveResponse {
		req := []byte{SIDCommunicationControl, byte(controlType) | 0x80, communicationType}
		if err := c.tp.Send(ctx, req); err != nil {
			return wrapErr(KindTransportAbort, err)
		}
	} else if _, err := c.Exchange(ctx, SIDCommunicationControl, []byte{byte(controlType), communicationType}); err != nil {
		return err
	}
	switch controlType {
	case EnableRxAndTx:
		c.tp.SetRxEnabled(true)
		c.tp.SetTxEnabled(true)
	case EnableRxDisableTx:
		c.tp.SetRxEnabled(true)
		c.tp.SetTxEnabled(false)
	case DisableRxEnableTx:
		c.tp.SetRxEnabled(false)
		c.tp.SetTxEnabled(true)
	case DisableRxAndTx:
		c.tp.SetRxEnabled(false)
		c.tp.SetTxEnabled(false)
	}
	return nil
}

// DTCSettingType, ISO 14229-1 section 9.9.
type DTCSettingType byte

const (
	DTCSettingOn  DTCSettingType = 0x01
	DTCSettingOff DTCSettingType = 0x02
)

// ControlDTCSetting turns DTC logging on or off, ISO 14229-1 section 9.9,
// and caches the resulting state so WithDTCSuppressed can restore it
// correctly even across nested calls. When suppressPositiveResponse is set,
// bit 0x80 is set on the setting byte and no reply is awaited.
func (c *Client) ControlDTCSetting(ctx context.Context, setting DTCSettingType, record []byte, suppressPositiveResponse bool) error {
	if suppressPositiveResponse {
		req := append([]byte{SIDControlDTCSetting, byte(setting) | 0x80}, record...)
		if err := c.tp.Send(ctx, req); err != nil {
			return wrapErr(KindTransportAbort, err)
		}
	} else {
		payload := append([]byte{byte(setting)}, record...)
		if _, err := c.Exchange(ctx, SIDControlDTCSetting, payload); err != nil {
			return err
		}
	}
	c.dtcLoggingDisabled = setting == DTCSettingOff
	return nil
}
