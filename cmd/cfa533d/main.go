package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lcdhost/cfa533driver/pkg/client"
	"github.com/lcdhost/cfa533driver/pkg/device"
	"github.com/lcdhost/cfa533driver/pkg/effects"
)

var (
	serialDevice = flag.String("serial", "/dev/ttyUSB0", "Serial device path")
	baudRate     = flag.Int("baud", 19200, "Serial baud rate")
	model        = flag.String("model", "CFA533", "Device model (CFA533 or CFA633)")
	logLevel     = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	marqueeText  = flag.String("marquee", "", "If set, scroll this text on row 0 instead of idling")
)

func main() {
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal("invalid log level", "level", *logLevel, "err", err)
	}
	logger.SetLevel(level)

	dev, err := device.Lookup(*model, "", "", device.WithLookupLogger(logger))
	if err != nil {
		logger.Fatal("unknown device model", "model", *model, "err", err)
	}

	logger.Info("opening serial port", "device", *serialDevice, "baud", *baudRate)
	transport, err := client.OpenSerial(*serialDevice, *baudRate)
	if err != nil {
		logger.Fatal("failed to open serial port", "err", err)
	}

	engine := client.NewEngine(transport, client.WithLogger(logger))
	c := client.NewClient(engine, dev)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	versions, err := c.Versions(ctx)
	if err != nil {
		logger.Error("failed to read versions", "err", err)
	} else {
		logger.Info("connected", "model", versions.Model, "hw", versions.HardwareRev, "fw", versions.FirmwareRev)
	}

	if err := c.ClearScreen(ctx); err != nil {
		logger.Error("failed to clear screen", "err", err)
	}

	if *marqueeText != "" {
		marquee, err := effects.NewMarquee(effects.NewClientAdapter(c), 0, []byte(*marqueeText))
		if err != nil {
			logger.Fatal("failed to start marquee", "err", err)
		}
		go func() {
			if err := marquee.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("marquee stopped", "err", err)
			}
		}()
		defer marquee.Stop()
	}

	<-ctx.Done()
	logger.Info("shut down")
}
