// Package config loads tester/link parameters from an INI file: CAN
// interface selection, addressing, and the ISO-TP/UDS timing knobs.
package config

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"

	udsiso "github.com/nexusauto/udsiso"
	"github.com/nexusauto/udsiso/pkg/isotp"
	"github.com/nexusauto/udsiso/pkg/uds"
)

// LinkConfig describes which CAN interface to open and how to address the
// target ECU over it.
type LinkConfig struct {
	Interface string
	Channel   string
	TxID      uint32
	RxID      uint32
	Functional bool
}

// Config is the full tester configuration: link addressing plus the
// ISO-TP transport and UDS session timing parameters.
type Config struct {
	Link  LinkConfig
	ISOTP isotp.Config
	UDS   uds.Config
}

// Load reads path and returns a Config seeded with this package's defaults
// for any field the file omits.
func Load(path string) (Config, error) {
	cfg := Config{
		ISOTP: isotp.DefaultConfig(),
		UDS:   uds.DefaultConfig(),
	}

	file, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}

	link := file.Section("link")
	cfg.Link.Interface = link.Key("interface").MustString("socketcan")
	cfg.Link.Channel = link.Key("channel").MustString("can0")
	cfg.Link.TxID = uint32(link.Key("tx_id").MustUint64(0x7E0))
	cfg.Link.RxID = uint32(link.Key("rx_id").MustUint64(0x7E8))
	cfg.Link.Functional = link.Key("functional").MustBool(false)

	isotpSec := file.Section("isotp")
	cfg.ISOTP.BlockSize = byte(isotpSec.Key("block_size").MustUint64(uint64(cfg.ISOTP.BlockSize)))
	cfg.ISOTP.STmin = byte(isotpSec.Key("stmin").MustUint64(uint64(cfg.ISOTP.STmin)))
	cfg.ISOTP.N_As = mustDurationMS(isotpSec, "n_as_ms", cfg.ISOTP.N_As)
	cfg.ISOTP.N_Ar = mustDurationMS(isotpSec, "n_ar_ms", cfg.ISOTP.N_Ar)
	cfg.ISOTP.N_Bs = mustDurationMS(isotpSec, "n_bs_ms", cfg.ISOTP.N_Bs)
	cfg.ISOTP.N_Br = mustDurationMS(isotpSec, "n_br_ms", cfg.ISOTP.N_Br)
	cfg.ISOTP.N_Cr = mustDurationMS(isotpSec, "n_cr_ms", cfg.ISOTP.N_Cr)
	cfg.ISOTP.MaxWaitFrames = uint8(isotpSec.Key("max_wait_frames").MustUint64(uint64(cfg.ISOTP.MaxWaitFrames)))

	udsSec := file.Section("uds")
	cfg.UDS.P2 = mustDurationMS(udsSec, "p2_ms", cfg.UDS.P2)
	cfg.UDS.P2Star = mustDurationMS(udsSec, "p2_star_ms", cfg.UDS.P2Star)
	cfg.UDS.S3 = mustDurationMS(udsSec, "s3_ms", cfg.UDS.S3)
	cfg.UDS.MaxResponsePendingRetries = udsSec.Key("max_response_pending_retries").MustInt(cfg.UDS.MaxResponsePendingRetries)

	return cfg, nil
}

func mustDurationMS(section *ini.Section, key string, fallback time.Duration) time.Duration {
	ms := section.Key(key).MustInt64(int64(fallback / time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

// Address builds the udsiso.Address this link targets.
func (c Config) Address() udsiso.Address {
	return udsiso.Address{TxID: c.Link.TxID, RxID: c.Link.RxID, Functional: c.Link.Functional}
}
