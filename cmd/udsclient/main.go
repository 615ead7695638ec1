package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	udsiso "github.com/nexusauto/udsiso"
	"github.com/nexusauto/udsiso/pkg/can"
	_ "github.com/nexusauto/udsiso/pkg/can/loopback"
	_ "github.com/nexusauto/udsiso/pkg/can/socketcan"
	"github.com/nexusauto/udsiso/pkg/config"
	"github.com/nexusauto/udsiso/pkg/isotp"
	"github.com/nexusauto/udsiso/pkg/uds"
)

func main() {
	log.SetLevel(log.InfoLevel)

	configPath := flag.String("c", "", "tester INI configuration file")
	did := flag.Uint("did", 0xF190, "DID to read via ReadDataByIdentifier")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: udsclient -c <config.ini> [-did 0xF190] [-v]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("[MAIN] failed to load configuration")
	}

	bus, err := can.NewBus(cfg.Link.Interface, cfg.Link.Channel)
	if err != nil {
		log.WithError(err).Fatal("[MAIN] failed to open CAN bus")
	}
	if err := bus.Connect(); err != nil {
		log.WithError(err).Fatal("[MAIN] failed to connect to CAN bus")
	}
	defer bus.Disconnect()

	bm := udsiso.NewBusManager(bus)
	if err := bus.Subscribe(bm); err != nil {
		log.WithError(err).Fatal("[MAIN] failed to subscribe bus manager")
	}
	tp := isotp.NewTransport(bm, cfg.Address(), cfg.ISOTP)
	client := uds.NewClient(tp, cfg.UDS, nil, nil)

	ctx := context.Background()

	if err := client.DiagnosticSessionControl(ctx, uds.SessionExtendedDiag); err != nil {
		log.WithError(err).Fatal("[MAIN] DiagnosticSessionControl failed")
	}

	data, err := client.ReadDataByIdentifier(ctx, uint16(*did))
	if err != nil {
		log.WithError(err).Fatalf("[MAIN] ReadDataByIdentifier 0x%04X failed", *did)
	}
	fmt.Printf("0x%04X: %s\n", *did, hex.EncodeToString(data))
}
