package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"psxpad/host/monitor"
	"psxpad/host/serial"
)

var (
	device     = flag.String("device", "/dev/ttyUSB0", "Serial device of the pad's diagnostic UART")
	baud       = flag.Int("baud", serial.DefaultBaud, "Baud rate")
	configPath = flag.String("config", "", "Optional YAML config file (overrides flags)")
	verbose    = flag.Bool("verbose", false, "Print every event")
)

var errDone = errors.New("reboot limit reached")

func main() {
	flag.Parse()

	cfg := appConfig{
		Serial:  *serial.DefaultConfig(*device),
		Verbose: *verbose,
	}
	cfg.Serial.Baud = *baud
	if *configPath != "" {
		if err := cfg.load(*configPath); err != nil {
			log.Fatalf("%v\n", err)
		}
	}

	port, err := serial.Open(&cfg.Serial)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	defer port.Close()

	// Drop whatever the pad printed before we attached; it may start mid-line
	if err := port.Flush(); err != nil {
		log.Printf("flush %s: %v\n", cfg.Serial.Device, err)
	}

	log.Printf("monitoring pad on %s at %d baud\n", cfg.Serial.Device, cfg.Serial.Baud)

	m := monitor.New(port)
	err = m.Run(func(ev monitor.Event) error {
		report(&cfg, m, ev)
		if cfg.MaxBoots > 0 && m.Boots > cfg.MaxBoots {
			return errDone
		}
		return nil
	})
	if errors.Is(err, errDone) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// report prints one event
func report(cfg *appConfig, m *monitor.Monitor, ev monitor.Event) {
	switch ev.Kind {
	case monitor.Started:
		log.Printf("pad booted (boot #%d)\n", m.Boots)
	case monitor.ModeChanged:
		if ev.Analog {
			log.Println("pad switched to analog mode")
		} else {
			log.Println("pad switched to digital mode")
		}
	case monitor.VibrationMap:
		log.Printf("console mapped the vibration motors (%d so far)\n", m.VibrationMaps)
	case monitor.Stats:
		st := ev.Stats
		log.Printf("cycles=%d ok=%d badsync=%d unknown=%d selector=%d buserr=%d pollerr=%d acks=%d pinerr=%d\n",
			st.Cycles, st.Complete, st.BadSync, st.UnknownCommand, st.SelectorAbort, st.BusErrors, st.PollErrors,
			st.AckPulses, st.PinErrors)
	case monitor.TraceEnd:
		log.Printf("trace dump: last %d transactions\n", len(m.LastTrace))
		for _, te := range m.LastTrace {
			fmt.Printf("  clock=%-10d cmd=0x%02X %-8s bytes=%d acks=%d\n",
				te.Clock, byte(te.Command), te.Outcome, te.Bytes, te.Acks)
		}
	case monitor.Unknown:
		log.Printf("unexpected line: %s\n", ev.Line)
	default:
		if cfg.Verbose {
			log.Printf("%s: %s\n", ev.Kind, ev.Line)
		}
	}
}
