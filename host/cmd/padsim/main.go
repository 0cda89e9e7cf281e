package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"psxpad/core"
	"psxpad/host/console"
)

var (
	script  = flag.String("script", "handshake", "Named console script to play")
	frames  = flag.String("frames", "", "Semicolon separated hex frames to play instead of a script, e.g. \"01 42 00;01 43 00 01\"")
	digital = flag.Bool("digital", false, "Start the pad in digital mode")
	quiet   = flag.Bool("quiet", false, "Hide pad diagnostic lines")
	list    = flag.Bool("list", false, "List the named scripts and the pad's commands, then exit")
)

func main() {
	flag.Parse()

	table := core.DefaultResponseTable()

	if *list {
		names := make([]string, 0, len(console.Scripts))
		for name := range console.Scripts {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Scripts:")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		fmt.Printf("Commands (%d):\n", table.Count())
		for _, cmd := range table.Commands() {
			fmt.Printf("  0x%02X %s\n", byte(cmd.ID), cmd.Name)
		}
		return
	}

	toPlay, err := selectFrames()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		core.SetDebugWriter(func(s string) { fmt.Println("  pad: " + s) })
	}

	session, err := console.NewSession(core.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start pad: %v\n", err)
		os.Exit(1)
	}
	if *digital {
		session.Pad.SetAnalog(false)
	}

	for i, f := range toPlay {
		if len(f) > 1 && !table.Known(core.CommandID(f[1])) {
			fmt.Printf("   note: 0x%02X is not a pad command, expect an early abort\n", f[1])
		}
		res := session.Exchange(f)
		fmt.Printf("%2d %-8s %s\n", i, res.Outcome, res.Frame.String())
	}
	fmt.Println(core.FormatStats(session.Pad.Stats()))
	fmt.Printf("ACK pulses seen by the console: %d\n", session.Board.Acks())
}

func selectFrames() ([][]byte, error) {
	if *frames == "" {
		build, ok := console.Scripts[*script]
		if !ok {
			return nil, fmt.Errorf("unknown script %q (use -list)", *script)
		}
		return build(), nil
	}

	var out [][]byte
	for _, part := range strings.Split(*frames, ";") {
		f, err := console.ParseFrame(part)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
